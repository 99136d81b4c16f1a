package testutils

import (
	"context"
	"fmt"
)

// MockEmbedder returns canned embeddings keyed by input text, falling
// back to a fixed vector for anything unlisted.
type MockEmbedder struct {
	Embeddings map[string][]float32

	// FailOn causes Embed to return an error when the input text matches
	FailOn string

	// Calls counts every Embed invocation
	Calls int
}

var defaultVector = []float32{0.1, 0.2, 0.3}

func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{
		Embeddings: make(map[string][]float32),
	}
}

func (m *MockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.Calls++

	switch {
	case m.FailOn != "" && text == m.FailOn:
		return nil, fmt.Errorf("mock embedding failure for: %s", text)
	case m.Embeddings[text] != nil:
		return m.Embeddings[text], nil
	default:
		return defaultVector, nil
	}
}

func (m *MockEmbedder) Close() error {
	return nil
}
