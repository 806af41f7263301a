package entity

import (
	"context"
	"errors"

	"github.com/go-kit/kit/endpoint"
)

type EndpointSet struct {
	ExtractEntities endpoint.Endpoint
}

type ExtractEntitiesRequest struct {
	Text string `json:"text"`
}

func ExtractEntitiesEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(ExtractEntitiesRequest)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		return svc.ExtractEntities(ctx, req.Text)
	}
}
