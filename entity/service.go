package entity

import (
	"context"

	"github.com/flarexio/docsift/nlp"
)

// Service extracts named entities from free text.
type Service interface {

	// Close releases the service. The NLP pipeline is owned by the caller.
	Close() error

	// ExtractEntities runs the NLP pipeline once over text.
	ExtractEntities(ctx context.Context, text string) ([]Entity, error)
}

type ServiceMiddleware func(Service) Service

func NewService(pipeline nlp.Pipeline) Service {
	return &service{pipeline}
}

type service struct {
	pipeline nlp.Pipeline
}

func (svc *service) Close() error {
	return nil
}

func (svc *service) ExtractEntities(ctx context.Context, text string) ([]Entity, error) {
	entities, err := svc.pipeline.Entities(ctx, text)
	if err != nil {
		return nil, err
	}

	if entities == nil {
		entities = make([]Entity, 0)
	}

	return entities, nil
}
