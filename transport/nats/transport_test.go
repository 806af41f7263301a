package nats

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/micro"
	"github.com/stretchr/testify/suite"

	"github.com/flarexio/docsift"
	"github.com/flarexio/docsift/entity"
	"github.com/flarexio/docsift/retrieval"

	natsserver "github.com/nats-io/nats-server/v2/test"
)

type natsTestSuite struct {
	suite.Suite
	server   *server.Server
	nc       *nats.Conn
	client   *nats.Conn
	services []micro.Service
}

func (suite *natsTestSuite) SetupSuite() {
	opts := natsserver.DefaultTestOptions
	opts.Port = -1

	suite.server = natsserver.RunServer(&opts)

	nc, err := nats.Connect(suite.server.ClientURL())
	if err != nil {
		suite.FailNow(err.Error())
	}

	suite.nc = nc

	extract := func(ctx context.Context, request any) (any, error) {
		req := request.(entity.ExtractEntitiesRequest)
		if req.Text == "garbled" {
			return nil, fmt.Errorf("%w: unexpected end of JSON input", docsift.ErrInvalidNLPResponse)
		}

		return []entity.Entity{
			{Text: "Ada Lovelace", Type: "PERSON"},
		}, nil
	}

	addDocuments := func(ctx context.Context, request any) (any, error) {
		req := request.(retrieval.AddDocumentsRequest)
		for _, f := range req.Files {
			if !bytes.HasPrefix(f.Content, []byte("%PDF-")) {
				return nil, fmt.Errorf("%w: %s", docsift.ErrInvalidPDF, f.Name)
			}
		}

		return retrieval.NewAddDocumentsResponse(len(req.Files)), nil
	}

	query := func(ctx context.Context, request any) (any, error) {
		req := request.(retrieval.QueryRequest)
		if req.Text == "slow" {
			return nil, fmt.Errorf("generate: %w", context.DeadlineExceeded)
		}

		return []retrieval.Result{
			{
				Document: "Analytical engines weave algebraic patterns",
				Metadata: map[string]string{"filename": "notes.pdf", "pages": "3"},
				Distance: 0.125,
			},
		}, nil
	}

	entitySrv, err := micro.AddService(nc, micro.Config{
		Name:    "docsift-entity",
		Version: "1.0.0",
	})

	if err != nil {
		suite.FailNow(err.Error())
	}

	AddEntityEndpoints(entitySrv.AddGroup(EntityGroup), entity.EndpointSet{
		ExtractEntities: extract,
	})

	retrievalSrv, err := micro.AddService(nc, micro.Config{
		Name:    "docsift-retrieval",
		Version: "1.0.0",
	})

	if err != nil {
		suite.FailNow(err.Error())
	}

	AddRetrievalEndpoints(retrievalSrv.AddGroup(RetrievalGroup), retrieval.EndpointSet{
		AddDocuments: addDocuments,
		Query:        query,
	})

	suite.services = []micro.Service{entitySrv, retrievalSrv}

	if err := nc.Flush(); err != nil {
		suite.FailNow(err.Error())
	}

	client, err := nats.Connect(suite.server.ClientURL())
	if err != nil {
		suite.FailNow(err.Error())
	}

	suite.client = client
}

func (suite *natsTestSuite) TearDownSuite() {
	if suite.client != nil {
		suite.client.Close()
	}

	for _, srv := range suite.services {
		srv.Stop()
	}

	if suite.nc != nil {
		suite.nc.Close()
	}

	if suite.server != nil {
		suite.server.Shutdown()
	}
}

func (suite *natsTestSuite) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

func (suite *natsTestSuite) remoteError(err error) *RemoteError {
	var remote *RemoteError
	if !errors.As(err, &remote) {
		suite.FailNow("expected a remote error", "got %v", err)
	}

	return remote
}

func (suite *natsTestSuite) TestExtractEntities() {
	ctx, cancel := suite.context()
	defer cancel()

	endpoints := MakeEntityEndpoints(suite.client, EntityGroup)
	svc := entity.ProxyMiddleware(endpoints)(nil)

	entities, err := svc.ExtractEntities(ctx, "Ada Lovelace wrote the first program.")
	if err != nil {
		suite.Fail(err.Error())
		return
	}

	suite.Equal([]entity.Entity{{Text: "Ada Lovelace", Type: "PERSON"}}, entities)
}

func (suite *natsTestSuite) TestExtractEntitiesPipelineFault() {
	ctx, cancel := suite.context()
	defer cancel()

	endpoints := MakeEntityEndpoints(suite.client, EntityGroup)
	svc := entity.ProxyMiddleware(endpoints)(nil)

	_, err := svc.ExtractEntities(ctx, "garbled")

	remote := suite.remoteError(err)
	suite.Equal(http.StatusInternalServerError, remote.StatusCode())
	suite.Contains(remote.Description, "invalid nlp response")
}

func (suite *natsTestSuite) TestAddDocuments() {
	ctx, cancel := suite.context()
	defer cancel()

	endpoints := MakeRetrievalEndpoints(suite.client, RetrievalGroup)
	svc := retrieval.ProxyMiddleware(endpoints)(nil)

	added, err := svc.AddDocuments(ctx, []retrieval.File{
		{Name: "a.pdf", Content: []byte("%PDF-1.4 first")},
		{Name: "b.pdf", Content: []byte("%PDF-1.4 second")},
	})

	suite.NoError(err)
	suite.Equal(2, added)
}

func (suite *natsTestSuite) TestAddDocumentsInvalidPDF() {
	ctx, cancel := suite.context()
	defer cancel()

	endpoints := MakeRetrievalEndpoints(suite.client, RetrievalGroup)
	svc := retrieval.ProxyMiddleware(endpoints)(nil)

	_, err := svc.AddDocuments(ctx, []retrieval.File{
		{Name: "notes.txt", Content: []byte("plain text")},
	})

	remote := suite.remoteError(err)
	suite.Equal(http.StatusBadRequest, remote.StatusCode())
	suite.Equal("invalid PDF file: notes.txt", remote.Description)
}

func (suite *natsTestSuite) TestQuery() {
	ctx, cancel := suite.context()
	defer cancel()

	endpoints := MakeRetrievalEndpoints(suite.client, RetrievalGroup)
	svc := retrieval.ProxyMiddleware(endpoints)(nil)

	results, err := svc.Query(ctx, "algebraic patterns")
	if err != nil {
		suite.Fail(err.Error())
		return
	}

	if suite.Len(results, 1) {
		suite.Equal("Analytical engines weave algebraic patterns", results[0].Document)
		suite.Equal(map[string]string{"filename": "notes.pdf", "pages": "3"}, results[0].Metadata)
		suite.Equal(float32(0.125), results[0].Distance)
	}
}

func (suite *natsTestSuite) TestQueryTimeout() {
	ctx, cancel := suite.context()
	defer cancel()

	endpoints := MakeRetrievalEndpoints(suite.client, RetrievalGroup)

	_, err := endpoints.Query(ctx, retrieval.QueryRequest{Text: "slow"})

	remote := suite.remoteError(err)
	suite.Equal(http.StatusGatewayTimeout, remote.StatusCode())
}

func (suite *natsTestSuite) TestUndecodablePayload() {
	msg, err := suite.client.Request(RetrievalGroup+".process", []byte("not json"), 5*time.Second)
	if err != nil {
		suite.Fail(err.Error())
		return
	}

	remote := suite.remoteError(Error(msg))
	suite.Equal(http.StatusBadRequest, remote.StatusCode())
}

func TestNATSTestSuite(t *testing.T) {
	suite.Run(t, new(natsTestSuite))
}
