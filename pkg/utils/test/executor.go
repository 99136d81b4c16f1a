package testutils

import (
	"context"

	"github.com/papercomputeco/hindsight/pkg/llm"
)

// ExecCall records the arguments of one Execute invocation.
type ExecCall struct {
	Name string
	Args map[string]any
}

// MockExecutor is a test tool executor returning canned results per tool
// name.
type MockExecutor struct {
	Results map[string]string

	Calls []ExecCall
}

func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		Results: make(map[string]string),
	}
}

func (m *MockExecutor) Execute(_ context.Context, name string, args map[string]any) string {
	m.Calls = append(m.Calls, ExecCall{Name: name, Args: args})

	if result, ok := m.Results[name]; ok {
		return result
	}
	return "Unknown tool: " + name
}

func (m *MockExecutor) Schema() []llm.Tool {
	return []llm.Tool{
		llm.NewTool("web_search", "Search the web for current information. Use this when you don't know the answer or need to verify facts. NEVER guess — search instead.", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search query — be specific",
				},
			},
			"required": []string{"query"},
		}),
	}
}
