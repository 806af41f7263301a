package nats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-kit/kit/endpoint"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/micro"

	"github.com/flarexio/docsift/entity"
	"github.com/flarexio/docsift/retrieval"
)

// DefaultTimeout bounds a request whose context carries no deadline. It
// covers a full language model round trip.
const DefaultTimeout = 2 * time.Minute

func MakeEntityEndpoints(nc *nats.Conn, prefix string) *entity.EndpointSet {
	return &entity.EndpointSet{
		ExtractEntities: ExtractEntitiesEndpoint(nc, prefix+".process"),
	}
}

func MakeRetrievalEndpoints(nc *nats.Conn, prefix string) *retrieval.EndpointSet {
	return &retrieval.EndpointSet{
		AddDocuments: AddDocumentsEndpoint(nc, prefix+".add_documents"),
		Query:        QueryEndpoint(nc, prefix+".process"),
	}
}

func ExtractEntitiesEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(entity.ExtractEntitiesRequest)
		if !ok {
			return nil, errors.New("invalid request")
		}

		var entities []entity.Entity
		if err := requestJSON(ctx, nc, topic, &req, &entities); err != nil {
			return nil, err
		}

		return entities, nil
	}
}

func AddDocumentsEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(retrieval.AddDocumentsRequest)
		if !ok {
			return nil, errors.New("invalid request")
		}

		var result retrieval.AddDocumentsResponse
		if err := requestJSON(ctx, nc, topic, &req, &result); err != nil {
			return nil, err
		}

		return result, nil
	}
}

func QueryEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(retrieval.QueryRequest)
		if !ok {
			return nil, errors.New("invalid request")
		}

		var results []retrieval.Result
		if err := requestJSON(ctx, nc, topic, &req, &results); err != nil {
			return nil, err
		}

		return results, nil
	}
}

func requestJSON(ctx context.Context, nc *nats.Conn, topic string, req any, resp any) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	msg, err := nc.RequestWithContext(ctx, topic, data)
	if err != nil {
		return err
	}

	if err := Error(msg); err != nil {
		return err
	}

	return json.Unmarshal(msg.Data, resp)
}

// RemoteError is a failure reported by a service through micro error headers.
type RemoteError struct {
	Code        string
	Description string
}

func (e *RemoteError) Error() string {
	return e.Code + ":" + e.Description
}

// StatusCode returns the numeric code, or 500 when it is not a number.
func (e *RemoteError) StatusCode() int {
	code, err := strconv.Atoi(e.Code)
	if err != nil {
		return http.StatusInternalServerError
	}

	return code
}

func Error(msg *nats.Msg) error {
	if msg == nil {
		return errors.New("nil message")
	}

	code := msg.Header.Get(micro.ErrorCodeHeader)
	if code == "" {
		return nil
	}

	description := msg.Header.Get(micro.ErrorHeader)
	if description == "" {
		description = "unknown error"
	}

	return &RemoteError{code, description}
}
