package retrieval

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/flarexio/docsift"
	"github.com/flarexio/docsift/llm"
	"github.com/flarexio/docsift/pdftext"
	"github.com/flarexio/docsift/vector"
)

// Service ingests PDF documents into a vector collection and answers free
// text queries against it.
type Service interface {

	// Close releases the service. The collaborators are owned by the caller.
	Close() error

	// AddDocuments extracts the text of every file and adds it to the
	// collection keyed by filename. The batch is rejected as a whole.
	AddDocuments(ctx context.Context, files []File) (int, error)

	// Query returns at most MaxResults documents similar to text, filtered
	// by the metadata the language model derives from it.
	Query(ctx context.Context, text string) ([]Result, error)
}

type ServiceMiddleware func(Service) Service

func NewService(cfg vector.Config, db vector.VectorDB, generator llm.Generator, extractor pdftext.Extractor) (Service, error) {
	log := zap.L().With(
		zap.String("service", "retrieval"),
	)

	collection, err := db.Collection(cfg.Collection)
	if err != nil {
		return nil, err
	}

	log.Info("collection ready",
		zap.String("collection", cfg.Collection),
		zap.Int("documents", collection.Count()),
	)

	return &service{
		collection: collection,
		generator:  generator,
		extractor:  extractor,
		log:        log,
	}, nil
}

type service struct {
	// Vector collection (thread-safe by itself)
	collection vector.Collection

	generator llm.Generator
	extractor pdftext.Extractor
	log       *zap.Logger
}

func (svc *service) Close() error {
	return nil
}

func (svc *service) AddDocuments(ctx context.Context, files []File) (int, error) {
	if len(files) == 0 {
		return 0, docsift.ErrNoFiles
	}

	seen := make(map[string]struct{}, len(files))
	docs := make([]vector.Document, 0, len(files))

	for _, file := range files {
		if file.Name == "" {
			return 0, fmt.Errorf("%w: unnamed file", docsift.ErrInvalidPDF)
		}

		if _, ok := seen[file.Name]; ok {
			return 0, fmt.Errorf("%w: %s", docsift.ErrDuplicateFilename, file.Name)
		}

		seen[file.Name] = struct{}{}

		text, err := svc.extractor.Extract(file.Content)
		if err != nil {
			svc.log.Debug(err.Error(), zap.String("filename", file.Name))
			return 0, fmt.Errorf("%w: %s", docsift.ErrInvalidPDF, file.Name)
		}

		if text.Content == "" {
			return 0, fmt.Errorf("%w: %s has no extractable text", docsift.ErrInvalidPDF, file.Name)
		}

		docs = append(docs, vector.Document{
			ID:      file.Name,
			Content: text.Content,
			Metadata: map[string]string{
				MetadataFilename:   file.Name,
				MetadataPages:      strconv.Itoa(text.Pages),
				MetadataCharacters: strconv.Itoa(utf8.RuneCountInString(text.Content)),
			},
		})
	}

	for _, doc := range docs {
		if _, err := svc.collection.FindDocument(ctx, doc.ID); err == nil {
			svc.log.Info("replacing document",
				zap.String("filename", doc.ID),
			)
		}
	}

	if err := svc.collection.AddDocuments(ctx, docs); err != nil {
		return 0, fmt.Errorf("%w: %w", docsift.ErrDocumentRejected, err)
	}

	return len(docs), nil
}

func (svc *service) Query(ctx context.Context, text string) ([]Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, docsift.ErrEmptyQuery
	}

	content, err := svc.generator.Generate(ctx, MetadataFilterPrompt(text))
	if err != nil {
		return nil, err
	}

	filter, err := ParseMetadataFilter(content)
	if err != nil {
		svc.log.Debug(err.Error(), zap.String("completion", content))
		return nil, err
	}

	k := min(MaxResults, svc.collection.Count())
	if k == 0 {
		return []Result{}, nil
	}

	docs, err := svc.collection.Query(ctx, text, k, filter)
	if err != nil {
		return nil, err
	}

	if len(docs) > MaxResults {
		docs = docs[:MaxResults]
	}

	results := make([]Result, len(docs))
	for i, doc := range docs {
		results[i] = Result{
			Document: truncate(doc.Content, MaxDocumentLength),
			Metadata: doc.Metadata,
			Distance: 1 - doc.Similarity,
		}
	}

	return results, nil
}
