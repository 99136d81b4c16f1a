package orchestrator

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/pkg/llm"
)

// depthApology is returned when the tool loop exhausts MaxToolDepth.
const depthApology = "I was unable to find the information after multiple searches."

// loopState tracks one run of the tool loop.
type loopState struct {
	messages         []llm.Message
	depth            int
	forcedSearchDone bool
}

// runToolLoop drives chat calls with tools attached, executing requested
// tool calls in order until the model answers in plain text or the depth
// bound is hit. It returns the final text and the accumulated transcript
// so the recovery chain can continue the same conversation.
func (o *Orchestrator) runToolLoop(
	ctx context.Context, messages []llm.Message, system string, hasEvidence bool,
) (string, []llm.Message, error) {
	state := loopState{messages: messages}

	for {
		if state.depth >= o.config.MaxToolDepth {
			o.logger.Warn("tool depth limit reached", zap.Int("depth", state.depth))
			return depthApology, state.messages, nil
		}

		reply, err := o.chatter.Chat(ctx, state.messages, system, o.executor.Schema())
		if err != nil {
			return "", state.messages, err
		}

		if len(reply.ToolCalls) > 0 {
			state.messages = append(state.messages, reply)

			for _, call := range reply.ToolCalls {
				args, _ := json.Marshal(call.Function.Arguments)
				o.logger.Info("tool call",
					zap.String("name", call.Function.Name),
					zap.ByteString("args", args),
				)

				result := o.executor.Execute(ctx, call.Function.Name, call.Function.Arguments)
				state.messages = append(state.messages, llm.ToolMessage(result))
			}

			state.depth++
			continue
		}

		// Forced fallback: the model skipped the tool call on a factual or
		// time-sensitive question. Time-sensitive prompts bypass hasEvidence
		// since stale evidence cannot answer them.
		if state.depth == 0 && !state.forcedSearchDone {
			raw := extractRawPrompt(firstUserContent(state.messages))
			timeSensitive := isTimeSensitive(raw)
			needsSearch := isFactualQuestion(raw) || containsURL(raw)

			if timeSensitive || (!hasEvidence && needsSearch) {
				o.logger.Info("forced search fallback for factual question")

				result := o.executor.Execute(ctx, "web_search", map[string]any{"query": raw})
				state.messages = append(state.messages, reply)
				state.messages = append(state.messages, llm.ToolMessage(result))
				state.depth++
				state.forcedSearchDone = true
				continue
			}
		}

		return reply.Content, state.messages, nil
	}
}

func firstUserContent(messages []llm.Message) string {
	if len(messages) == 0 {
		return ""
	}
	return messages[0].Content
}
