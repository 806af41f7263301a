package retrieval

import (
	"context"
	"errors"

	"github.com/go-kit/kit/endpoint"
)

type EndpointSet struct {
	AddDocuments endpoint.Endpoint
	Query        endpoint.Endpoint
}

type AddDocumentsRequest struct {
	Files []File `json:"files"`
}

func AddDocumentsEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(AddDocumentsRequest)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		added, err := svc.AddDocuments(ctx, req.Files)
		if err != nil {
			return nil, err
		}

		return NewAddDocumentsResponse(added), nil
	}
}

type QueryRequest struct {
	Text string `json:"text"`
}

func QueryEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(QueryRequest)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		return svc.Query(ctx, req.Text)
	}
}
