package retrieval

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

func (mw *proxyMiddleware) AddDocuments(ctx context.Context, files []File) (int, error) {
	req := AddDocumentsRequest{
		Files: files,
	}

	resp, err := mw.endpoints.AddDocuments(ctx, req)
	if err != nil {
		return 0, err
	}

	result, ok := resp.(AddDocumentsResponse)
	if !ok {
		return 0, errors.New("invalid response type")
	}

	return result.Added, nil
}

func (mw *proxyMiddleware) Query(ctx context.Context, text string) ([]Result, error) {
	req := QueryRequest{
		Text: text,
	}

	resp, err := mw.endpoints.Query(ctx, req)
	if err != nil {
		return nil, err
	}

	results, ok := resp.([]Result)
	if !ok {
		return nil, errors.New("invalid response type")
	}

	return results, nil
}
