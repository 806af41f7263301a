package retrieval

import (
	"context"

	"go.uber.org/zap"
)

func LoggingMiddleware(log *zap.Logger) ServiceMiddleware {
	log = log.With(
		zap.String("service", "retrieval"),
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

func (mw *loggingMiddleware) AddDocuments(ctx context.Context, files []File) (int, error) {
	names := make([]string, len(files))
	for i, file := range files {
		names[i] = file.Name
	}

	log := mw.log.With(
		zap.String("action", "add_documents"),
		zap.Strings("files", names),
	)

	added, err := mw.next.AddDocuments(ctx, files)
	if err != nil {
		log.Error(err.Error())
		return 0, err
	}

	log.Info("documents added", zap.Int("count", added))
	return added, nil
}

func (mw *loggingMiddleware) Query(ctx context.Context, text string) ([]Result, error) {
	log := mw.log.With(
		zap.String("action", "query"),
		zap.String("query", text),
	)

	results, err := mw.next.Query(ctx, text)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Info("documents queried", zap.Int("count", len(results)))
	return results, nil
}
