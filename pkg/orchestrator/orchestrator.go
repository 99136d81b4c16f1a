// Package orchestrator turns a prompt plus evidence into a generated
// response. It classifies evidence entries into content and control
// markers, builds the system directive for the active mode, drives the
// tool-calling loop against the chat backend, and applies the
// empty-response recovery chain before scoring the result.
package orchestrator

import (
	"context"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/pkg/embeddings"
	"github.com/papercomputeco/hindsight/pkg/llm"
	"github.com/papercomputeco/hindsight/pkg/tools"
)

const (
	// DefaultMaxToolDepth bounds chat rounds that execute tool calls.
	DefaultMaxToolDepth = 5

	// DefaultEvidenceCharCap truncates rendered evidence entries.
	DefaultEvidenceCharCap = 500

	// DefaultEntropyWordCap is the word count at which the entropy proxy
	// saturates at 1.0.
	DefaultEntropyWordCap = 400

	// DefaultWorkspaceBaseURL is where directives point the model for
	// workspace, evidence, and inbox calls.
	DefaultWorkspaceBaseURL = "http://127.0.0.1:8787"
)

// Config holds configuration for the orchestrator.
type Config struct {
	// MaxToolDepth bounds tool-executing chat rounds per generation.
	// Defaults to DefaultMaxToolDepth.
	MaxToolDepth int

	// EvidenceCharCap truncates each rendered evidence entry.
	// Defaults to DefaultEvidenceCharCap.
	EvidenceCharCap int

	// EntropyWordCap is the word count mapping to entropy 1.0.
	// Defaults to DefaultEntropyWordCap.
	EntropyWordCap int

	// WorkspaceBaseURL is the workspace API base the directives reference.
	// Defaults to DefaultWorkspaceBaseURL.
	WorkspaceBaseURL string
}

// Request is one generation request.
type Request struct {
	// Prompt is the user prompt, possibly wrapped by an outer protocol
	// (see extractRawPrompt).
	Prompt string `json:"prompt"`

	// Evidence carries retrieved passages and control markers.
	Evidence []string `json:"evidence"`
}

// Result is the visible response text with its entropy proxy.
type Result struct {
	Text    string  `json:"text"`
	Entropy float64 `json:"entropy"`
}

// Orchestrator wires the chat backend, the completion fallback, the
// embeddings backend, and the tool executor into the generation flow.
type Orchestrator struct {
	config    Config
	chatter   llm.Chatter
	completer llm.Completer
	embedder  embeddings.Embedder
	executor  tools.Executor
	logger    *zap.Logger
}

// New creates an orchestrator. Zero-valued config fields fall back to
// package defaults.
func New(
	config Config,
	chatter llm.Chatter,
	completer llm.Completer,
	embedder embeddings.Embedder,
	executor tools.Executor,
	logger *zap.Logger,
) *Orchestrator {
	if config.MaxToolDepth <= 0 {
		config.MaxToolDepth = DefaultMaxToolDepth
	}
	if config.EvidenceCharCap <= 0 {
		config.EvidenceCharCap = DefaultEvidenceCharCap
	}
	if config.EntropyWordCap <= 0 {
		config.EntropyWordCap = DefaultEntropyWordCap
	}
	if config.WorkspaceBaseURL == "" {
		config.WorkspaceBaseURL = DefaultWorkspaceBaseURL
	}

	return &Orchestrator{
		config:    config,
		chatter:   chatter,
		completer: completer,
		embedder:  embedder,
		executor:  executor,
		logger:    logger,
	}
}

// Generate produces a response for the prompt conditioned on the evidence
// list. The returned text always has reasoning blocks stripped. Reflection
// takes its single reply as-is; every other mode walks the empty-response
// recovery chain, and an empty text after the full chain is a value, not
// an error.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Result, error) {
	inputs := ClassifyInputs(req.Evidence)
	system := o.buildDirective(inputs, time.Now())
	messages := []llm.Message{llm.UserMessage(req.Prompt)}

	var raw string
	var err error

	if useToolLoop(inputs) {
		hasEvidence := inputs.Has(KindContent)
		raw, messages, err = o.runToolLoop(ctx, messages, system, hasEvidence)
		if err != nil {
			return Result{}, err
		}
	} else {
		reply, chatErr := o.chatter.Chat(ctx, messages, system, nil)
		if chatErr != nil {
			return Result{}, chatErr
		}
		raw = reply.Content
	}

	visible := stripThink(raw)

	if visible == "" && !inputs.Has(KindModeReflection) {
		visible, err = o.recoverEmpty(ctx, req.Prompt, raw, system, messages)
		if err != nil {
			return Result{}, err
		}
	}

	return Result{
		Text:    visible,
		Entropy: o.entropy(visible),
	}, nil
}

// recoverEmpty is the two-stage empty-response chain. A think-only reply is
// continued in the same conversation with a demand for the final answer; if
// that still yields nothing, one single-shot completion with the original
// prompt is tried. An empty string after both stages is the result.
func (o *Orchestrator) recoverEmpty(ctx context.Context, prompt, raw, system string, messages []llm.Message) (string, error) {
	var visible string

	// Think-only failure: the model reasoned but never answered. Continue
	// the same conversation and demand the answer.
	if strings.Contains(raw, "<think>") {
		o.logger.Info("think-only response detected, sending continuation")

		messages = append(messages, llm.AssistantMessage(raw))
		messages = append(messages, llm.UserMessage("Provide the final answer only."))

		cont, err := o.chatter.Chat(ctx, messages, system, nil)
		if err != nil {
			return "", err
		}
		visible = stripThink(cont.Content)
	}

	// Last resort: single-shot completion with the original prompt.
	if visible == "" {
		o.logger.Info("empty response, falling back to generate")

		text, err := o.completer.Generate(ctx, prompt, system)
		if err != nil {
			return "", err
		}
		visible = stripThink(text)
	}

	return visible, nil
}

// Embed is a pass-through to the embeddings backend.
func (o *Orchestrator) Embed(ctx context.Context, text string) ([]float32, error) {
	return o.embedder.Embed(ctx, text)
}

// entropy is a cheap proxy from the visible word count, saturating at 1.0.
func (o *Orchestrator) entropy(text string) float64 {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0.0
	}
	return math.Min(float64(words)/float64(o.config.EntropyWordCap), 1.0)
}
