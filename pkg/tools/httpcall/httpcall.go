// Package httpcall implements the http_request tool for hitting the
// workspace API and other reachable services.
package httpcall

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/pkg/llm"
	"github.com/papercomputeco/hindsight/pkg/tools"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 10 * time.Second

// Config holds http_request parameters.
type Config struct {
	// Timeout bounds a single request. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// HTTPCall is the http_request tool.
type HTTPCall struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates an http_request tool.
func New(cfg Config, logger *zap.Logger) *HTTPCall {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &HTTPCall{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Name implements tools.Tool.
func (h *HTTPCall) Name() string { return "http_request" }

// Definition implements tools.Tool.
func (h *HTTPCall) Definition() llm.Tool {
	return llm.NewTool(
		"http_request",
		"Make an HTTP request to an API endpoint. Use this to interact with your workspace API and any other accessible service.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"method": map[string]any{
					"type":        "string",
					"description": "HTTP method: GET, POST, or DELETE",
				},
				"url": map[string]any{
					"type":        "string",
					"description": "Full URL (e.g. 'http://127.0.0.1:8787/files/test.txt')",
				},
				"body": map[string]any{
					"type":        "string",
					"description": "Request body (for POST requests)",
				},
			},
			"required": []string{"method", "url"},
		},
	)
}

// Call implements tools.Tool. Failures are returned as text so the
// generation loop can hand them back to the model.
func (h *HTTPCall) Call(ctx context.Context, args map[string]any) string {
	method, _ := args["method"].(string)
	method = strings.ToUpper(method)
	if method == "" {
		method = http.MethodGet
	}

	reqURL, _ := args["url"].(string)
	body, _ := args["body"].(string)

	h.logger.Info("tool call: http_request",
		zap.String("method", method),
		zap.String("url", reqURL),
	)

	var reqBody io.Reader
	if body != "" && method == http.MethodPost {
		reqBody = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Sprintf("Request failed: %v", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Sprintf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Sprintf("Request failed: %v", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	return string(respBody)
}

// Ensure HTTPCall implements tools.Tool
var _ tools.Tool = (*HTTPCall)(nil)
