package entity

import (
	"context"
	"errors"
)

// ProxyMiddleware forwards every call to remote endpoints instead of next.
func ProxyMiddleware(endpoints *EndpointSet) ServiceMiddleware {
	return func(next Service) Service {
		return &proxyMiddleware{
			endpoints: endpoints,
		}
	}
}

type proxyMiddleware struct {
	endpoints *EndpointSet
}

func (mw *proxyMiddleware) Close() error {
	return nil
}

func (mw *proxyMiddleware) ExtractEntities(ctx context.Context, text string) ([]Entity, error) {
	req := ExtractEntitiesRequest{
		Text: text,
	}

	resp, err := mw.endpoints.ExtractEntities(ctx, req)
	if err != nil {
		return nil, err
	}

	entities, ok := resp.([]Entity)
	if !ok {
		return nil, errors.New("invalid response type")
	}

	return entities, nil
}
