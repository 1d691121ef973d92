// Package resume turns an uploaded résumé into plain text.
package resume

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"go.uber.org/zap"

	apperrors "github.com/mrbane10/AI-CV-MatchMaker/internal/errors"
)

const (
	MimePDF   = "application/pdf"
	MimeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimePlain = "text/plain"

	mimeOctetStream = "application/octet-stream"
)

var (
	pdfMagic = []byte("%PDF")

	docxParagraphEnd = regexp.MustCompile(`</w:p>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

// Resume is an uploaded résumé held in memory for one run.
type Resume struct {
	Name string
	Mime string
	Data []byte
}

type Extractor struct {
	logger *zap.Logger
}

func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract returns the text of the résumé. PDF pages are concatenated in page
// order with no separator; a page without extractable text fails the whole
// extraction.
func (e *Extractor) Extract(ctx context.Context, r Resume) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(r.Data) == 0 {
		return "", apperrors.Extraction(fmt.Sprintf("resume %q is empty", r.Name), nil)
	}

	mime := DetectMime(r.Mime, r.Data)
	e.logger.Debug("extracting resume text",
		zap.String("name", r.Name),
		zap.String("mime", mime),
		zap.Int("size", len(r.Data)),
	)

	var (
		text string
		err  error
	)
	switch mime {
	case MimePDF:
		text, err = extractPDFText(r.Data)
	case MimeDOCX:
		text, err = extractDocxText(r.Data)
	case MimePlain:
		text = string(r.Data)
	default:
		return "", apperrors.Extraction(fmt.Sprintf("unsupported resume type: %s", mime), nil)
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", apperrors.Extraction(fmt.Sprintf("resume %q has no extractable text", r.Name), nil)
	}

	return text, nil
}

// DetectMime normalizes the declared MIME type, falling back to content
// sniffing for PDFs uploaded without a usable type.
func DetectMime(declared string, data []byte) string {
	mime := strings.ToLower(strings.TrimSpace(declared))
	if idx := strings.Index(mime, ";"); idx != -1 {
		mime = strings.TrimSpace(mime[:idx])
	}

	if mime == "" || mime == mimeOctetStream {
		if bytes.HasPrefix(data, pdfMagic) {
			return MimePDF
		}
	}
	return mime
}

// MimeFromFilename maps a résumé file extension to its MIME type. Unknown
// extensions yield an empty string so that Extract sniffs the content.
func MimeFromFilename(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDOCX
	case ".txt", ".md":
		return MimePlain
	default:
		return ""
	}
}

func extractPDFText(data []byte) (text string, err error) {
	// the pdf package panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = apperrors.Extraction("reading pdf", fmt.Errorf("%v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperrors.Extraction("reading pdf", err)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return "", apperrors.Extraction("pdf has no pages", nil)
	}

	var builder strings.Builder
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			return "", apperrors.Extraction(fmt.Sprintf("pdf page %d is missing", i), nil)
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", apperrors.Extraction(fmt.Sprintf("extracting text from pdf page %d", i), err)
		}
		// every text object opens with a newline; the first one is not page text
		pageText = strings.TrimPrefix(pageText, "\n")
		if strings.TrimSpace(pageText) == "" {
			return "", apperrors.Extraction(fmt.Sprintf("pdf page %d has no extractable text", i), nil)
		}

		builder.WriteString(pageText)
	}

	return builder.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperrors.Extraction("parsing docx", err)
	}
	defer doc.Close()

	content := docxParagraphEnd.ReplaceAllString(doc.Editable().GetContent(), "\n")
	return html.UnescapeString(xmlTag.ReplaceAllString(content, "")), nil
}
