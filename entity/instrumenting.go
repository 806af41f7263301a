package entity

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

func (mw *instrumentingMiddleware) ExtractEntities(ctx context.Context, text string) (entities []Entity, err error) {
	defer func(begin time.Time) {
		metrics.ObserveService("entity", "extract_entities", begin, err)
	}(time.Now())

	return mw.next.ExtractEntities(ctx, text)
}
