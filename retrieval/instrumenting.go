package retrieval

import (
	"context"
	"time"

	"github.com/flarexio/docsift/metrics"
)

func InstrumentingMiddleware() ServiceMiddleware {
	return func(next Service) Service {
		return &instrumentingMiddleware{next}
	}
}

type instrumentingMiddleware struct {
	next Service
}

func (mw *instrumentingMiddleware) Close() error {
	return mw.next.Close()
}

func (mw *instrumentingMiddleware) AddDocuments(ctx context.Context, files []File) (added int, err error) {
	defer func(begin time.Time) {
		metrics.ObserveService("retrieval", "add_documents", begin, err)
		metrics.DocumentsAddedTotal.Add(float64(added))
	}(time.Now())

	return mw.next.AddDocuments(ctx, files)
}

func (mw *instrumentingMiddleware) Query(ctx context.Context, text string) (results []Result, err error) {
	defer func(begin time.Time) {
		metrics.ObserveService("retrieval", "query", begin, err)
	}(time.Now())

	return mw.next.Query(ctx, text)
}
