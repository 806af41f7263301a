package docsift

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
)

// Table is a flat, string-typed result set ready to be written as CSV.
type Table struct {
	Header []string
	Rows   [][]string
}

func NewTable(header ...string) *Table {
	return &Table{
		Header: header,
		Rows:   make([][]string, 0),
	}
}

func (t *Table) Append(row ...string) {
	t.Rows = append(t.Rows, row)
}

func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(t.Header); err != nil {
		return err
	}

	if err := writer.WriteAll(t.Rows); err != nil {
		return err
	}

	return writer.Error()
}

func (t *Table) CSV() ([]byte, error) {
	var buf bytes.Buffer
	if err := t.WriteCSV(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// CSVFile is a table paired with the attachment name it is served under.
type CSVFile struct {
	Filename string
	Table    *Table
}

// WriteFile writes the table to dir under its filename and returns the path.
func (f CSVFile) WriteFile(dir string) (path string, err error) {
	path = filepath.Join(dir, f.Filename)

	out, err := os.Create(path)
	if err != nil {
		return "", err
	}

	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := f.Table.WriteCSV(out); err != nil {
		return "", err
	}

	return path, nil
}
