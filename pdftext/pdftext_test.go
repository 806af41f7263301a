package pdftext

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// samplePDF renders a single-page document showing text in Helvetica.
func samplePDF(text string) []byte {
	stream := fmt.Sprintf("BT /F1 24 Tf 72 700 Td (%s) Tj ET", text)

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, offset := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offset)
	}

	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

func TestExtract(t *testing.T) {
	assert := assert.New(t)

	extractor := NewExtractor()

	text, err := extractor.Extract(samplePDF("Quarterly revenue grew"))
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Equal(1, text.Pages)
	assert.Contains(text.Content, "Quarterly revenue grew")
}

func TestExtractNotPDF(t *testing.T) {
	assert := assert.New(t)

	extractor := NewExtractor()

	_, err := extractor.Extract([]byte("just some plain text, definitely not a pdf"))
	assert.ErrorIs(err, ErrNotPDF)
}

func TestExtractTruncatedPDF(t *testing.T) {
	assert := assert.New(t)

	extractor := NewExtractor()

	data := samplePDF("Quarterly revenue grew")

	_, err := extractor.Extract(data[:len(data)/2])
	assert.Error(err)
}
