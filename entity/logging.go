package entity

import (
	"context"

	"go.uber.org/zap"
)

func LoggingMiddleware(log *zap.Logger) ServiceMiddleware {
	log = log.With(
		zap.String("service", "entity"),
	)

	return func(next Service) Service {
		log.Info("service initialized")

		return &loggingMiddleware{
			log:  log,
			next: next,
		}
	}
}

type loggingMiddleware struct {
	log  *zap.Logger
	next Service
}

func (mw *loggingMiddleware) Close() error {
	log := mw.log.With(
		zap.String("action", "close"),
	)

	err := mw.next.Close()
	if err != nil {
		log.Error(err.Error())
		return err
	}

	log.Info("service closed")
	return nil
}

func (mw *loggingMiddleware) ExtractEntities(ctx context.Context, text string) ([]Entity, error) {
	log := mw.log.With(
		zap.String("action", "extract_entities"),
		zap.Int("length", len(text)),
	)

	entities, err := mw.next.ExtractEntities(ctx, text)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Info("entities extracted", zap.Int("count", len(entities)))
	return entities, nil
}
