package chromem

import (
	"context"
	"hash/fnv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flarexio/docsift/vector"
)

func bagOfWords(_ context.Context, text string) ([]float32, error) {
	embedding := make([]float32, 257)
	embedding[0] = 1

	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(word))
		embedding[1+h.Sum32()%256] += 1
	}

	return embedding, nil
}

func newTestCollection(t *testing.T) vector.Collection {
	db, err := NewChromemVectorDB(vector.Config{Collection: "test"}, bagOfWords)
	if err != nil {
		t.Fatal(err)
	}

	c, err := db.Collection("test")
	if err != nil {
		t.Fatal(err)
	}

	return c
}

func TestCollectionQueryEmpty(t *testing.T) {
	assert := assert.New(t)

	c := newTestCollection(t)

	docs, err := c.Query(context.Background(), "anything", 10, nil)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Empty(docs)
	assert.Equal(0, c.Count())
}

func TestCollectionAddAndQuery(t *testing.T) {
	assert := assert.New(t)

	ctx := context.Background()
	c := newTestCollection(t)

	docs := []vector.Document{
		{ID: "cats.pdf", Content: "cats purr and chase mice", Metadata: map[string]string{"filename": "cats.pdf"}},
		{ID: "dogs.pdf", Content: "dogs bark at the mail carrier", Metadata: map[string]string{"filename": "dogs.pdf"}},
		{ID: "birds.pdf", Content: "birds sing in the morning", Metadata: map[string]string{"filename": "birds.pdf"}},
	}

	if err := c.AddDocuments(ctx, docs); err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Equal(3, c.Count())

	results, err := c.Query(ctx, "why do dogs bark", 10, nil)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Len(results, 3)
	assert.Equal("dogs.pdf", results[0].ID)
	assert.GreaterOrEqual(results[0].Similarity, results[1].Similarity)

	filtered, err := c.Query(ctx, "why do dogs bark", 10, map[string]string{"filename": "cats.pdf"})
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Len(filtered, 1)
	assert.Equal("cats.pdf", filtered[0].ID)

	doc, err := c.FindDocument(ctx, "birds.pdf")
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Equal("birds sing in the morning", doc.Content)
}

func TestCollectionOverwriteSameID(t *testing.T) {
	assert := assert.New(t)

	ctx := context.Background()
	c := newTestCollection(t)

	err := c.AddDocuments(ctx, []vector.Document{{ID: "a.pdf", Content: "first version"}})
	assert.NoError(err)

	err = c.AddDocuments(ctx, []vector.Document{{ID: "a.pdf", Content: "second version"}})
	assert.NoError(err)

	assert.Equal(1, c.Count())

	doc, err := c.FindDocument(ctx, "a.pdf")
	assert.NoError(err)
	assert.Equal("second version", doc.Content)
}
