package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/pkg/evidence"
)

var (
	searchToolName    = "evidence_search"
	searchDescription = "Search stored evidence using semantic search. Returns the most relevant records for the query text, ranked by recency-weighted similarity with near-duplicates removed."
)

// SearchInput represents the input arguments for the evidence_search tool.
type SearchInput struct {
	Query     string  `json:"query" jsonschema:"the search query text to find relevant evidence"`
	TopK      int     `json:"top_k,omitempty" jsonschema:"number of results to return (default: 5)"`
	Threshold float64 `json:"threshold,omitempty" jsonschema:"minimum weighted score, 0 disables the cutoff"`
}

// SearchOutput represents the output of the evidence_search tool.
type SearchOutput struct {
	Query   string                  `json:"query"`
	Results []evidence.SearchResult `json:"results"`
	Count   int                     `json:"count"`
}

// handleSearch processes a search request.
func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	logger := s.config.Logger

	topK := input.TopK
	if topK <= 0 {
		topK = evidence.DefaultTopK
	}

	logger.Debug("MCP search request",
		zap.String("query", input.Query),
		zap.Int("topK", topK),
	)

	results, err := s.config.Store.Search(ctx, input.Query, topK, input.Threshold)
	if err != nil {
		logger.Error("failed to search evidence", zap.Error(err))
		return errorResult(fmt.Sprintf("Failed to search evidence: %v", err)), SearchOutput{}, nil
	}

	output := SearchOutput{
		Query:   input.Query,
		Results: results,
		Count:   len(results),
	}

	data, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal search output", zap.Error(err))
		return errorResult(fmt.Sprintf("Failed to serialize results: %v", err)), SearchOutput{}, nil
	}

	return jsonResult(data), output, nil
}
