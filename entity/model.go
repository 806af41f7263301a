package entity

import (
	"github.com/flarexio/docsift"
	"github.com/flarexio/docsift/nlp"
)

const CSVFilename = "entities.csv"

type Entity = nlp.Entity

// NewTable lays entities out one per row under the text,type header.
func NewTable(entities []Entity) *docsift.Table {
	table := docsift.NewTable("text", "type")
	for _, entity := range entities {
		table.Append(entity.Text, entity.Type)
	}

	return table
}

func NewCSVFile(entities []Entity) docsift.CSVFile {
	return docsift.CSVFile{
		Filename: CSVFilename,
		Table:    NewTable(entities),
	}
}
