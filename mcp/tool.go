package mcp

import (
	"context"
	"errors"

	"github.com/go-kit/kit/endpoint"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/flarexio/docsift"
	"github.com/flarexio/docsift/entity"
	"github.com/flarexio/docsift/retrieval"
)

type ToolHandler func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)

type Tool struct {
	Definition mcp.Tool
	Handler    ToolHandler
}

const EntityInstructions string = `Extracts named entities (people, organizations, places, dates, ...) from text.

Available tools:
- extract_entities: returns a CSV with the columns text,type, one row per entity`

const RetrievalInstructions string = `Searches the uploaded PDF document collection.

Available tools:
- query_documents: returns a CSV with the columns document,metadata,distance for the
  ten documents closest to the query; filters implied by the query (for example a file
  name) are applied automatically`

func ExtractEntitiesTool(endpoint endpoint.Endpoint) Tool {
	definition := mcp.NewTool("extract_entities",
		mcp.WithDescription("Extract named entities from text and return them as CSV"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to analyze"),
		),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, ok := req.GetArguments()["text"].(string)
		if !ok {
			return mcp.NewToolResultError("text is required"), nil
		}

		resp, err := endpoint(ctx, entity.ExtractEntitiesRequest{Text: text})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		entities, ok := resp.([]entity.Entity)
		if !ok {
			return nil, errors.New("invalid response type")
		}

		return csvResult(entity.NewCSVFile(entities))
	}

	return Tool{definition, handler}
}

func QueryDocumentsTool(endpoint endpoint.Endpoint) Tool {
	definition := mcp.NewTool("query_documents",
		mcp.WithDescription("Semantic search over the uploaded documents, returned as CSV"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("What to look for, in natural language"),
		),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, ok := req.GetArguments()["text"].(string)
		if !ok {
			return mcp.NewToolResultError("text is required"), nil
		}

		resp, err := endpoint(ctx, retrieval.QueryRequest{Text: text})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		results, ok := resp.([]retrieval.Result)
		if !ok {
			return nil, errors.New("invalid response type")
		}

		return csvResult(retrieval.NewCSVFile(results))
	}

	return Tool{definition, handler}
}

func csvResult(file docsift.CSVFile) (*mcp.CallToolResult, error) {
	bs, err := file.Table.CSV()
	if err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(string(bs)), nil
}
