package vector

import "context"

type Config struct {
	Persistent bool   `yaml:"persistent"`
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
	Compress   bool   `yaml:"compress"`
}

// EmbeddingFunc turns a text into its vector representation.
type EmbeddingFunc func(ctx context.Context, text string) ([]float32, error)

type VectorDB interface {
	Collection(name string) (Collection, error)
}

type Collection interface {
	AddDocuments(ctx context.Context, docs []Document) error
	FindDocument(ctx context.Context, id string) (Document, error)
	Query(ctx context.Context, query string, k int, where map[string]string) ([]Document, error)
	Count() int
}

type Document struct {
	ID         string            `json:"id"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Content    string            `json:"content"`
	Embedding  []float32         `json:"embedding,omitempty"`
	Similarity float32           `json:"similarity,omitempty"`
}
