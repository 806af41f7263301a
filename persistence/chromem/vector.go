package chromem

import (
	"context"
	"runtime"

	"github.com/philippgille/chromem-go"

	"github.com/flarexio/docsift/vector"
)

func NewChromemVectorDB(cfg vector.Config, embed vector.EmbeddingFunc) (vector.VectorDB, error) {
	var db *chromem.DB
	if !cfg.Persistent {
		db = chromem.NewDB()
	} else {
		d, err := chromem.NewPersistentDB(cfg.Path, cfg.Compress)
		if err != nil {
			return nil, err
		}

		db = d
	}

	return &chromemVectorDB{db, embed}, nil
}

type chromemVectorDB struct {
	db    *chromem.DB
	embed vector.EmbeddingFunc
}

func (vector *chromemVectorDB) Collection(name string) (vector.Collection, error) {
	var fn chromem.EmbeddingFunc
	if vector.embed != nil {
		fn = chromem.EmbeddingFunc(vector.embed)
	}

	c, err := vector.db.GetOrCreateCollection(name, nil, fn)
	if err != nil {
		return nil, err
	}

	return &collection{c}, nil
}

type collection struct {
	collection *chromem.Collection
}

func (c *collection) AddDocuments(ctx context.Context, docs []vector.Document) error {
	documents := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		documents[i] = chromem.Document{
			ID:        doc.ID,
			Metadata:  doc.Metadata,
			Embedding: doc.Embedding,
			Content:   doc.Content,
		}
	}

	return c.collection.AddDocuments(ctx, documents, runtime.NumCPU())
}

func (c *collection) FindDocument(ctx context.Context, id string) (vector.Document, error) {
	document, err := c.collection.GetByID(ctx, id)
	if err != nil {
		return vector.Document{}, err
	}

	return vector.Document{
		ID:        document.ID,
		Metadata:  document.Metadata,
		Embedding: document.Embedding,
		Content:   document.Content,
	}, nil
}

func (c *collection) Query(ctx context.Context, query string, k int, where map[string]string) ([]vector.Document, error) {
	count := c.collection.Count()
	if count == 0 || k <= 0 {
		return []vector.Document{}, nil
	}

	if k > count {
		k = count
	}

	if len(where) == 0 {
		where = nil
	}

	results, err := c.collection.Query(ctx, query, k, where, nil)
	if err != nil {
		return nil, err
	}

	docs := make([]vector.Document, len(results))
	for i, result := range results {
		docs[i] = vector.Document{
			ID:         result.ID,
			Metadata:   result.Metadata,
			Embedding:  result.Embedding,
			Content:    result.Content,
			Similarity: result.Similarity,
		}
	}

	return docs, nil
}

func (c *collection) Count() int {
	return c.collection.Count()
}
