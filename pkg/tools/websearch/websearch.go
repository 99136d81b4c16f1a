// Package websearch implements the web_search tool over the DuckDuckGo
// instant answer API.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/pkg/llm"
	"github.com/papercomputeco/hindsight/pkg/tools"
	"github.com/papercomputeco/hindsight/pkg/utils"
)

const (
	// DefaultBaseURL is the DuckDuckGo instant answer endpoint.
	DefaultBaseURL = "https://api.duckduckgo.com/"

	// DefaultMaxResults caps how many results a search returns.
	DefaultMaxResults = 3

	// DefaultTimeout bounds a single search request.
	DefaultTimeout = 10 * time.Second

	// snippetMaxLen caps each result snippet.
	snippetMaxLen = 300
)

// Result holds a single search result.
type Result struct {
	Title   string
	Snippet string
	URL     string
}

// Config holds web search parameters.
type Config struct {
	// BaseURL overrides the search endpoint, mainly for tests.
	BaseURL string

	// MaxResults caps results per search. Defaults to DefaultMaxResults.
	MaxResults int

	// Timeout bounds a single search request. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// WebSearch is the web_search tool.
type WebSearch struct {
	baseURL    string
	maxResults int
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a web search tool.
func New(cfg Config, logger *zap.Logger) *WebSearch {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &WebSearch{
		baseURL:    baseURL,
		maxResults: maxResults,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Name implements tools.Tool.
func (w *WebSearch) Name() string { return "web_search" }

// Definition implements tools.Tool.
func (w *WebSearch) Definition() llm.Tool {
	return llm.NewTool(
		"web_search",
		"Search the web for current information. Use this when you don't know the answer or need to verify facts. NEVER guess — search instead.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search query — be specific",
				},
			},
			"required": []string{"query"},
		},
	)
}

// Call implements tools.Tool. Failures are returned as text so the
// generation loop can hand them back to the model.
func (w *WebSearch) Call(ctx context.Context, args map[string]any) string {
	query, _ := args["query"].(string)
	w.logger.Info("tool call: web_search", zap.String("query", query))

	results, err := w.Search(ctx, query)
	if err != nil {
		return fmt.Sprintf("Search failed: %v", err)
	}
	if len(results) == 0 {
		return "No search results found."
	}

	return Format(results)
}

// duckDuckGoResponse represents the DuckDuckGo instant answer API JSON response.
type duckDuckGoResponse struct {
	AbstractText  string         `json:"AbstractText"`
	AbstractURL   string         `json:"AbstractURL"`
	Heading       string         `json:"Heading"`
	RelatedTopics []relatedTopic `json:"RelatedTopics"`
}

type relatedTopic struct {
	Text     string `json:"Text"`
	FirstURL string `json:"FirstURL"`
}

// Search queries the instant answer API and returns up to MaxResults results.
func (w *WebSearch) Search(ctx context.Context, query string) ([]Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")
	reqURL := w.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", "Hindsight/1.0")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var ddg duckDuckGoResponse
	if err := json.NewDecoder(resp.Body).Decode(&ddg); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	var results []Result

	// Use abstract if available
	if ddg.AbstractText != "" {
		results = append(results, Result{
			Title:   ddg.Heading,
			Snippet: ddg.AbstractText,
			URL:     ddg.AbstractURL,
		})
	}

	// Collect related topics
	for _, topic := range ddg.RelatedTopics {
		if len(results) >= w.maxResults {
			break
		}
		if topic.Text == "" {
			continue
		}
		results = append(results, Result{
			Title:   extractTitle(topic.Text),
			Snippet: topic.Text,
			URL:     topic.FirstURL,
		})
	}

	return results, nil
}

// extractTitle takes the first sentence or up to 80 chars as a title.
func extractTitle(text string) string {
	if idx := strings.Index(text, " - "); idx > 0 && idx < 80 {
		return text[:idx]
	}
	return utils.Truncate(text, 80)
}

// Format renders results as tool output. The leading marker line lets
// downstream consumers recognize web-sourced text when it is stored as
// evidence.
func Format(results []Result) string {
	var b strings.Builder
	b.WriteString("[Web Search Results]\n")
	b.WriteString("Search results:\n")
	for _, r := range results {
		fmt.Fprintf(&b, "  [%s]\n", r.Title)
		fmt.Fprintf(&b, "  %s\n", utils.Truncate(r.Snippet, snippetMaxLen))
		fmt.Fprintf(&b, "  %s\n\n", r.URL)
	}
	return b.String()
}

// Ensure WebSearch implements tools.Tool
var _ tools.Tool = (*WebSearch)(nil)
