package testutils

import (
	"context"

	"github.com/papercomputeco/hindsight/pkg/llm"
)

// ChatCall records the arguments of one Chat invocation.
type ChatCall struct {
	Messages []llm.Message
	System   string
	Tools    []llm.Tool
}

// MockChatter is a scripted chat backend. Each call consumes the next
// response in order; once the script runs out, the last response repeats.
type MockChatter struct {
	Responses []llm.Message
	Errs      []error

	Calls []ChatCall
}

func NewMockChatter(responses ...llm.Message) *MockChatter {
	return &MockChatter{Responses: responses}
}

func (m *MockChatter) Chat(_ context.Context, messages []llm.Message, system string, tools []llm.Tool) (llm.Message, error) {
	idx := len(m.Calls)
	m.Calls = append(m.Calls, ChatCall{
		Messages: append([]llm.Message(nil), messages...),
		System:   system,
		Tools:    tools,
	})

	if idx < len(m.Errs) && m.Errs[idx] != nil {
		return llm.Message{}, m.Errs[idx]
	}

	if len(m.Responses) == 0 {
		return llm.AssistantMessage(""), nil
	}
	if idx >= len(m.Responses) {
		return m.Responses[len(m.Responses)-1], nil
	}
	return m.Responses[idx], nil
}

// GenerateCall records the arguments of one Generate invocation.
type GenerateCall struct {
	Prompt string
	System string
}

// MockCompleter is a scripted single-shot completion backend.
type MockCompleter struct {
	Response string
	Err      error

	Calls []GenerateCall
}

func (m *MockCompleter) Generate(_ context.Context, prompt, system string) (string, error) {
	m.Calls = append(m.Calls, GenerateCall{Prompt: prompt, System: system})
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
