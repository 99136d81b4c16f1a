// Package ollama implements pkg/llm's Chatter and Completer clients for Ollama's chat and generate APIs
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/papercomputeco/hindsight/pkg/llm"
)

const (
	// DefaultModel is the default chat model.
	DefaultModel = "qwen3-4b"

	// DefaultBaseURL is the default Ollama API URL.
	DefaultBaseURL = "http://localhost:11434"

	// chatNumPredict caps the tokens generated per chat turn.
	chatNumPredict = 512
)

// Client wraps Ollama's chat and generate APIs.
type Client struct {
	baseURL        string
	model          string
	chatClient     *http.Client
	generateClient *http.Client
}

// Config holds configuration for the Ollama client.
type Config struct {
	// BaseURL is the Ollama API URL (e.g., "http://localhost:11434").
	// Defaults to DefaultBaseURL if empty.
	BaseURL string

	// Model is the chat model to use (e.g., "qwen3-4b").
	// Defaults to DefaultModel if empty.
	Model string
}

// New creates a new client for Ollama's chat and generate APIs.
func New(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		baseURL: baseURL,
		model:   model,
		chatClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		generateClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// Chat sends a multi-turn conversation to /api/chat. A non-empty system
// directive is prepended as the first message. Tool schemas are attached
// when provided so the model can request calls.
func (c *Client) Chat(ctx context.Context, messages []llm.Message, system string, tools []llm.Tool) (llm.Message, error) {
	if system != "" {
		messages = append([]llm.Message{llm.SystemMessage(system)}, messages...)
	}

	reqBody := llm.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Tools:    tools,
		Options:  &llm.Options{NumPredict: chatNumPredict},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return llm.Message{}, fmt.Errorf("%w: marshaling request: %v", llm.ErrChat, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/chat", bytes.NewReader(jsonBody))
	if err != nil {
		return llm.Message{}, fmt.Errorf("%w: creating request: %v", llm.ErrChat, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.chatClient.Do(req)
	if err != nil {
		return llm.Message{}, fmt.Errorf("%w: sending request: %v", llm.ErrChat, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return llm.Message{}, fmt.Errorf("%w: ollama returned status %d: %s", llm.ErrChat, resp.StatusCode, string(body))
	}

	var chatResp llm.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return llm.Message{}, fmt.Errorf("%w: decoding response: %v", llm.ErrChat, err)
	}

	return chatResp.Message, nil
}

// Generate sends a single prompt to /api/generate and returns the raw
// completion text.
func (c *Client) Generate(ctx context.Context, prompt, system string) (string, error) {
	reqBody := llm.GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		System: system,
		Stream: false,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: marshaling request: %v", llm.ErrGenerate, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/generate", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %v", llm.ErrGenerate, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.generateClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: sending request: %v", llm.ErrGenerate, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: ollama returned status %d: %s", llm.ErrGenerate, resp.StatusCode, string(body))
	}

	var genResp llm.GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", llm.ErrGenerate, err)
	}

	return genResp.Response, nil
}

// Ensure Client implements both contracts.
var (
	_ llm.Chatter   = (*Client)(nil)
	_ llm.Completer = (*Client)(nil)
)
