package nlp

import "context"

// Entity is a span of text tagged with a category by an NLP pipeline.
type Entity struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// Pipeline annotates text with named entities.
type Pipeline interface {
	Entities(ctx context.Context, text string) ([]Entity, error)
}
