// Package dataset holds the uploaded table of job postings.
package dataset

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	apperrors "github.com/mrbane10/AI-CV-MatchMaker/internal/errors"
)

const (
	LinkColumn   = "link"
	ResultColumn = "match_result"

	byteOrderMark = "\ufeff"
)

// Dataset is an ordered table of string cells with a header row. Row order and
// row count never change once read.
type Dataset struct {
	header []string
	rows   [][]string
}

// Read parses a CSV with a header row. Every row must have as many fields as
// the header.
func Read(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if stderrors.Is(err, io.EOF) {
		return nil, apperrors.Schema("csv file is empty", nil)
	}
	if err != nil {
		return nil, apperrors.Schema("reading csv header", err)
	}
	header[0] = strings.TrimPrefix(header[0], byteOrderMark)

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.Schema("reading csv rows", err)
	}

	return &Dataset{header: header, rows: rows}, nil
}

func (d *Dataset) Header() []string {
	return append([]string(nil), d.header...)
}

func (d *Dataset) Len() int {
	return len(d.rows)
}

// Column returns the values of the named column in row order.
func (d *Dataset) Column(name string) ([]string, error) {
	idx := d.index(name)
	if idx < 0 {
		return nil, apperrors.Schema(fmt.Sprintf("csv has no %q column", name), nil)
	}

	values := make([]string, len(d.rows))
	for i, row := range d.rows {
		values[i] = row[idx]
	}
	return values, nil
}

// SetColumn appends the named column, or overwrites it in place when it
// already exists. values must hold one entry per row.
func (d *Dataset) SetColumn(name string, values []string) error {
	if len(values) != len(d.rows) {
		return apperrors.Internal(fmt.Sprintf("column %q has %d values for %d rows", name, len(values), len(d.rows)), nil)
	}

	idx := d.index(name)
	if idx < 0 {
		d.header = append(d.header, name)
		for i := range d.rows {
			d.rows[i] = append(d.rows[i], values[i])
		}
		return nil
	}

	for i := range d.rows {
		d.rows[i][idx] = values[i]
	}
	return nil
}

// WriteCSV writes the header and rows without an index column.
func (d *Dataset) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(d.header); err != nil {
		return apperrors.Internal("writing csv header", err)
	}
	if err := writer.WriteAll(d.rows); err != nil {
		return apperrors.Internal("writing csv rows", err)
	}
	return nil
}

func (d *Dataset) index(name string) int {
	for i, col := range d.header {
		if col == name {
			return i
		}
	}
	return -1
}
