package llm

import "errors"

var (
	// ErrChat is returned when a chat completion request fails.
	ErrChat = errors.New("chat request failed")

	// ErrGenerate is returned when a raw generate request fails.
	ErrGenerate = errors.New("generate request failed")
)
