package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/kit/endpoint"

	"github.com/flarexio/docsift"
	"github.com/flarexio/docsift/entity"
	"github.com/flarexio/docsift/retrieval"
)

// TextRequest is the JSON body accepted by the /process routes.
type TextRequest struct {
	Text *string `json:"text"`
}

var errTextRequired = errors.New("field required: text")

func bindText(c *gin.Context) (string, bool) {
	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		c.Error(err)
		c.Abort()
		return "", false
	}

	if req.Text == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": errTextRequired.Error()})
		c.Error(errTextRequired)
		c.Abort()
		return "", false
	}

	return *req.Text, true
}

func ExtractEntitiesHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		text, ok := bindText(c)
		if !ok {
			return
		}

		ctx := c.Request.Context()
		resp, err := endpoint(ctx, entity.ExtractEntitiesRequest{Text: text})
		if err != nil {
			abortWithError(c, err)
			return
		}

		entities, ok := resp.([]entity.Entity)
		if !ok {
			abortWithError(c, errors.New("invalid response type"))
			return
		}

		writeCSVFile(c, entity.NewCSVFile(entities))
	}
}

func AddDocumentsHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
			c.Error(err)
			c.Abort()
			return
		}

		headers := form.File["files"]
		files := make([]retrieval.File, 0, len(headers))

		for _, header := range headers {
			f, err := header.Open()
			if err != nil {
				abortWithError(c, err)
				return
			}

			content, err := io.ReadAll(f)
			f.Close()

			if err != nil {
				abortWithError(c, err)
				return
			}

			files = append(files, retrieval.File{
				Name:    header.Filename,
				Content: content,
			})
		}

		ctx := c.Request.Context()
		resp, err := endpoint(ctx, retrieval.AddDocumentsRequest{Files: files})
		if err != nil {
			abortWithError(c, err)
			return
		}

		result, ok := resp.(retrieval.AddDocumentsResponse)
		if !ok {
			abortWithError(c, errors.New("invalid response type"))
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": result.Message})
	}
}

func QueryHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		text, ok := bindText(c)
		if !ok {
			return
		}

		ctx := c.Request.Context()
		resp, err := endpoint(ctx, retrieval.QueryRequest{Text: text})
		if err != nil {
			abortWithError(c, err)
			return
		}

		results, ok := resp.([]retrieval.Result)
		if !ok {
			abortWithError(c, errors.New("invalid response type"))
			return
		}

		writeCSVFile(c, retrieval.NewCSVFile(results))
	}
}

func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func writeCSVFile(c *gin.Context, file docsift.CSVFile) {
	bs, err := file.Table.CSV()
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+file.Filename)
	c.Data(http.StatusOK, "text/csv", bs)
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(docsift.StatusCode(err), gin.H{"detail": err.Error()})
	c.Error(err)
	c.Abort()
}
