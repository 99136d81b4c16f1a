package llm

import "time"

// ChatResponse is the response body from the chat endpoint.
type ChatResponse struct {
	Model      string    `json:"model"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
	Message    Message   `json:"message"`
	Done       bool      `json:"done"`
	DoneReason string    `json:"done_reason,omitempty"`
}

// GenerateResponse is the response body from the completion endpoint.
type GenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// ErrorResponse is the JSON error shape returned by the HTTP surfaces.
type ErrorResponse struct {
	Error string `json:"error"`
}
