package resume

import (
	"bytes"
	"fmt"
	"strings"
)

// buildPDF renders a minimal PDF with one page per entry. An empty entry
// produces a page that only draws a line and carries no text.
func buildPDF(pages []string) []byte {
	streams := make([]string, 0, len(pages))
	for _, text := range pages {
		if text == "" {
			streams = append(streams, "0 0 m 100 100 l S")
			continue
		}
		streams = append(streams, textObject(text))
	}
	return buildPDFStreams(streams)
}

func textObject(text string) string {
	return fmt.Sprintf("BT /F1 12 Tf (%s) Tj ET", text)
}

// buildPDFStreams renders one page per raw content stream.
func buildPDFStreams(pages []string) []byte {
	var (
		buf     bytes.Buffer
		offsets []int
	)

	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	const fontObj = 3
	kids := make([]string, 0, len(pages))
	for i := range pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", fontObj+1+i*2))
	}

	writeObj("<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	writeObj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, content := range pages {
		contentObj := fontObj + 2 + i*2
		writeObj(fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
			fontObj, contentObj,
		))

		writeObj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	return buf.Bytes()
}
