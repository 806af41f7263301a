package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"

	"github.com/flarexio/docsift/entity"
	"github.com/flarexio/docsift/retrieval"
)

func TestUnmarshalInitializeRequest(t *testing.T) {
	assert := assert.New(t)

	input := []byte(`{
	  "jsonrpc": "2.0",
	  "id": 1,
	  "method": "initialize",
	  "params": {
	    "protocolVersion": "2024-11-05",
	    "capabilities": {},
	    "clientInfo": {
	      "name": "ExampleClient",
	      "version": "1.0.0"
	    }
	  }
	}`)

	var req JSONRPCRequest
	if err := json.Unmarshal(input, &req); err != nil {
		assert.Fail(err.Error())
		return
	}

	resp := InitializeEndpoint("docsift-entity", EntityInstructions)(context.Background(), req)

	result, ok := resp.(mcp.JSONRPCResponse)
	if !assert.True(ok) {
		return
	}

	initResult, ok := result.Result.(*mcp.InitializeResult)
	if !assert.True(ok) {
		return
	}

	assert.Equal(mcp.NewRequestId(int64(1)), result.ID)
	assert.Equal("2024-11-05", initResult.ProtocolVersion)
	assert.Equal("docsift-entity", initResult.ServerInfo.Name)
	assert.NotNil(initResult.Capabilities.Tools)
}

func TestListTools(t *testing.T) {
	assert := assert.New(t)

	tools := []Tool{
		ExtractEntitiesTool(nil),
		QueryDocumentsTool(nil),
	}

	req := JSONRPCRequest{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      mcp.NewRequestId(int64(2)),
		Method:  mcp.MethodToolsList,
	}

	resp := ListToolsEndpoint(tools)(context.Background(), req)

	result, ok := resp.(mcp.JSONRPCResponse)
	if !assert.True(ok) {
		return
	}

	list, ok := result.Result.(*mcp.ListToolsResult)
	if !assert.True(ok) {
		return
	}

	if assert.Len(list.Tools, 2) {
		assert.Equal("extract_entities", list.Tools[0].Name)
		assert.Equal("query_documents", list.Tools[1].Name)
		assert.Contains(list.Tools[0].InputSchema.Required, "text")
	}
}

func callTool(tools []Tool, input string) mcp.JSONRPCMessage {
	var req JSONRPCRequest
	if err := json.Unmarshal([]byte(input), &req); err != nil {
		panic(err)
	}

	return CallToolEndpoint(tools)(context.Background(), req)
}

func toolText(assert *assert.Assertions, resp mcp.JSONRPCMessage) (string, bool) {
	result, ok := resp.(mcp.JSONRPCResponse)
	if !assert.True(ok) {
		return "", false
	}

	call, ok := result.Result.(*mcp.CallToolResult)
	if !assert.True(ok) || !assert.Len(call.Content, 1) {
		return "", false
	}

	text, ok := call.Content[0].(mcp.TextContent)
	if !assert.True(ok) {
		return "", false
	}

	return text.Text, !call.IsError
}

func TestCallExtractEntities(t *testing.T) {
	assert := assert.New(t)

	endpoint := func(ctx context.Context, request any) (any, error) {
		req := request.(entity.ExtractEntitiesRequest)
		assert.Equal("Alice lives in Paris", req.Text)

		return []entity.Entity{
			{Text: "Alice", Type: "PERSON"},
			{Text: "Paris", Type: "CITY"},
		}, nil
	}

	resp := callTool([]Tool{ExtractEntitiesTool(endpoint)}, `{
	  "jsonrpc": "2.0",
	  "id": 3,
	  "method": "tools/call",
	  "params": {
	    "name": "extract_entities",
	    "arguments": {"text": "Alice lives in Paris"}
	  }
	}`)

	text, ok := toolText(assert, resp)
	assert.True(ok)
	assert.Equal("text,type\nAlice,PERSON\nParis,CITY\n", text)
}

func TestCallQueryDocuments(t *testing.T) {
	assert := assert.New(t)

	endpoint := func(ctx context.Context, request any) (any, error) {
		return []retrieval.Result{
			{
				Document: "hello",
				Metadata: map[string]string{"filename": "a.pdf"},
				Distance: 0.25,
			},
		}, nil
	}

	resp := callTool([]Tool{QueryDocumentsTool(endpoint)}, `{
	  "jsonrpc": "2.0",
	  "id": 4,
	  "method": "tools/call",
	  "params": {
	    "name": "query_documents",
	    "arguments": {"text": "greetings"}
	  }
	}`)

	text, ok := toolText(assert, resp)
	assert.True(ok)
	assert.Contains(text, "document,metadata,distance\n")
	assert.Contains(text, "hello,")
	assert.Contains(text, ",0.25\n")
}

func TestCallToolReportsEndpointError(t *testing.T) {
	assert := assert.New(t)

	endpoint := func(ctx context.Context, request any) (any, error) {
		return nil, errors.New("pipeline unavailable")
	}

	resp := callTool([]Tool{ExtractEntitiesTool(endpoint)}, `{
	  "jsonrpc": "2.0",
	  "id": 5,
	  "method": "tools/call",
	  "params": {
	    "name": "extract_entities",
	    "arguments": {"text": "x"}
	  }
	}`)

	text, ok := toolText(assert, resp)
	assert.False(ok)
	assert.Equal("pipeline unavailable", text)
}

func TestCallToolMissingArgument(t *testing.T) {
	assert := assert.New(t)

	resp := callTool([]Tool{ExtractEntitiesTool(nil)}, `{
	  "jsonrpc": "2.0",
	  "id": 6,
	  "method": "tools/call",
	  "params": {"name": "extract_entities", "arguments": {}}
	}`)

	text, ok := toolText(assert, resp)
	assert.False(ok)
	assert.Equal("text is required", text)
}

func TestCallUnknownTool(t *testing.T) {
	assert := assert.New(t)

	resp := callTool(nil, `{
	  "jsonrpc": "2.0",
	  "id": 7,
	  "method": "tools/call",
	  "params": {"name": "get_weather", "arguments": {}}
	}`)

	result, ok := resp.(mcp.JSONRPCError)
	if !assert.True(ok) {
		return
	}

	assert.Equal(mcp.INVALID_PARAMS, result.Error.Code)
	assert.Equal(mcp.NewRequestId(int64(7)), result.ID)
}
