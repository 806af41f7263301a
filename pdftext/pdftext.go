package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

var ErrNotPDF = errors.New("missing PDF header")

type Text struct {
	Content string
	Pages   int
}

// Extractor pulls the plain text out of an encoded document.
type Extractor interface {
	Extract(data []byte) (Text, error)
}

func NewExtractor() Extractor {
	return &extractor{}
}

type extractor struct{}

func (*extractor) Extract(data []byte) (text Text, err error) {
	if !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("%PDF-")) {
		return Text{}, ErrNotPDF
	}

	// the parser panics on some malformed object graphs
	defer func() {
		if r := recover(); r != nil {
			text = Text{}
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Text{}, err
	}

	reader, err := r.GetPlainText()
	if err != nil {
		return Text{}, err
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return Text{}, err
	}

	return Text{
		Content: strings.TrimSpace(string(content)),
		Pages:   r.NumPage(),
	}, nil
}
