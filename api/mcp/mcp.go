// Package mcp provides an MCP (Model Context Protocol) server for the
// hindsight evidence store.
package mcp

import (
	"errors"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/pkg/evidence"
	"github.com/papercomputeco/hindsight/pkg/utils"
)

type Config struct {
	// Store is the evidence store the tools operate on
	Store *evidence.Store

	// Noop for empty MCP server
	Noop bool

	// Logger is the configured zap logger
	Logger *zap.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server exposing the evidence_search and
// evidence_store tools. With Noop set it serves no tools at all.
func NewServer(c Config) (*Server, error) {
	s := &Server{
		config: c,
		mcpServer: mcp.NewServer(
			&mcp.Implementation{
				Name:    "hindsight",
				Version: utils.Version,
			},
			&mcp.ServerOptions{},
		),
	}

	// Noop means MCP capabilities are disabled: keep the bare server,
	// register nothing.
	if c.Noop {
		return s, nil
	}

	switch {
	case c.Store == nil:
		return nil, errors.New("evidence store is required")
	case c.Logger == nil:
		return nil, errors.New("logger is required")
	}

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        searchToolName,
		Description: searchDescription,
	}, s.handleSearch)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        storeToolName,
		Description: storeDescription,
	}, s.handleStore)

	// Stateless streamable HTTP transport, mounted by the API server
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return s.mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// errorResult wraps a message as a failed tool call.
func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// jsonResult carries the serialized output as a TextContent block.
// Per MCP spec: tools returning structured content should also return
// serialized JSON for backwards compatibility.
func jsonResult(data []byte) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}
}
