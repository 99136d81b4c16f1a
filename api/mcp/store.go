package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	storeToolName    = "evidence_store"
	storeDescription = "Store a new evidence record. The text is embedded and becomes retrievable through evidence_search. Use this to persist facts, observations, or instructions worth recalling later."
)

// StoreInput represents the input arguments for the evidence_store tool.
type StoreInput struct {
	Text   string `json:"text" jsonschema:"the evidence text to store"`
	Source string `json:"source,omitempty" jsonschema:"optional label recording where the evidence came from"`
}

// StoreOutput represents the structured output of an evidence store.
type StoreOutput struct {
	ID string `json:"id"`
}

// handleStore processes an evidence store request via MCP.
func (s *Server) handleStore(ctx context.Context, _ *mcp.CallToolRequest, input StoreInput) (*mcp.CallToolResult, StoreOutput, error) {
	if input.Text == "" {
		return errorResult("text is required"), StoreOutput{}, nil
	}

	var metadata map[string]string
	if input.Source != "" {
		metadata = map[string]string{"source": input.Source}
	}

	id, err := s.config.Store.Store(ctx, input.Text, metadata)
	if err != nil {
		return errorResult(fmt.Sprintf("Evidence store failed: %v", err)), StoreOutput{}, nil
	}

	output := StoreOutput{ID: id}

	data, err := json.Marshal(output)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to serialize results: %v", err)), StoreOutput{}, nil
	}

	return jsonResult(data), output, nil
}
