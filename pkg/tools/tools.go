// Package tools implements the callable tools the generation loop exposes
// to the model.
package tools

import (
	"context"

	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/pkg/llm"
)

// Tool is a single callable tool.
type Tool interface {
	// Name is the identifier the model calls the tool by.
	Name() string

	// Definition is the schema advertised to the model.
	Definition() llm.Tool

	// Call executes the tool. Failures come back as descriptive text,
	// never as errors, so the loop can hand them to the model.
	Call(ctx context.Context, args map[string]any) string
}

// Executor dispatches tool calls by name.
type Executor interface {
	Execute(ctx context.Context, name string, args map[string]any) string
	Schema() []llm.Tool
}

// Registry is the default Executor backed by a name-indexed tool set.
type Registry struct {
	tools  map[string]Tool
	order  []string
	logger *zap.Logger
}

// NewRegistry creates a registry over the given tools. Schema order
// follows registration order.
func NewRegistry(logger *zap.Logger, tools ...Tool) *Registry {
	r := &Registry{
		tools:  make(map[string]Tool, len(tools)),
		logger: logger,
	}
	for _, tool := range tools {
		r.tools[tool.Name()] = tool
		r.order = append(r.order, tool.Name())
	}
	return r
}

// Execute runs the named tool and returns its text result.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) string {
	tool, ok := r.tools[name]
	if !ok {
		r.logger.Warn("unknown tool requested", zap.String("tool", name))
		return "Unknown tool: " + name
	}
	return tool.Call(ctx, args)
}

// Schema returns the chat tool definitions in registration order.
func (r *Registry) Schema() []llm.Tool {
	schema := make([]llm.Tool, 0, len(r.order))
	for _, name := range r.order {
		schema = append(schema, r.tools[name].Definition())
	}
	return schema
}

// Ensure Registry implements Executor
var _ Executor = (*Registry)(nil)
