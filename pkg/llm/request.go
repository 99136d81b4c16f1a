package llm

// ChatRequest is the request body for the chat endpoint.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`

	// Stream is always set false here; the orchestrator consumes whole
	// responses.
	Stream bool `json:"stream"`

	Tools   []Tool   `json:"tools,omitempty"`
	Options *Options `json:"options,omitempty"`
}

// Options carries the generation parameters this system sets.
type Options struct {
	NumPredict int `json:"num_predict,omitempty"`
}

// GenerateRequest is the request body for the single-shot completion endpoint.
type GenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
}
