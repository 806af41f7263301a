package nats

import (
	"github.com/nats-io/nats.go/micro"

	"github.com/flarexio/docsift/entity"
	"github.com/flarexio/docsift/retrieval"
)

const (
	EntityGroup    = "docsift.entity"
	RetrievalGroup = "docsift.retrieval"
)

func AddEntityEndpoints(group micro.Group, endpoints entity.EndpointSet) {
	group.AddEndpoint("process", ExtractEntitiesHandler(endpoints.ExtractEntities))
}

func AddRetrievalEndpoints(group micro.Group, endpoints retrieval.EndpointSet) {
	group.AddEndpoint("add_documents", AddDocumentsHandler(endpoints.AddDocuments))
	group.AddEndpoint("process", QueryHandler(endpoints.Query))
}
