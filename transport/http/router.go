package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/flarexio/docsift"
	"github.com/flarexio/docsift/entity"
	"github.com/flarexio/docsift/metrics"
	"github.com/flarexio/docsift/retrieval"

	mcpE "github.com/flarexio/docsift/mcp"
)

// NewRouter builds an engine with CORS restricted to a single origin and the
// routes shared by both services.
func NewRouter(cfg docsift.CORSConfig) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.AllowOrigin},
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodHead,
			http.MethodOptions,
		},
		// A literal "*" is not a wildcard on credentialed requests.
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Content-Length",
			"Accept",
			"Accept-Encoding",
			"Authorization",
			"X-Requested-With",
			"Mcp-Session-Id",
		},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(metrics.Middleware())

	r.GET("/health", HealthHandler())
	r.GET("/metrics", metrics.Handler())

	return r
}

func AddEntityRouters(r *gin.Engine, endpoints entity.EndpointSet) {
	r.POST("/process", ExtractEntitiesHandler(endpoints.ExtractEntities))
}

func AddRetrievalRouters(r *gin.Engine, endpoints retrieval.EndpointSet) {
	r.POST("/add_documents", AddDocumentsHandler(endpoints.AddDocuments))
	r.POST("/process", QueryHandler(endpoints.Query))
}

func AddStreamableRouters(r *gin.Engine, endpoints map[mcp.MCPMethod]mcpE.MCPEndpoint) {
	mcp := r.Group("/mcp")
	{
		mcp.POST("/", MCPStreamableHandler(endpoints))
	}
}
