package llm

import "context"

// Chatter is the multi-turn chat contract the orchestrator drives.
// Implementations prepend the system directive to the message list and
// must not retry on their own.
type Chatter interface {
	Chat(ctx context.Context, messages []Message, system string, tools []Tool) (Message, error)
}

// Completer is the single-shot completion contract used as the last stage
// of the empty-response recovery chain.
type Completer interface {
	Generate(ctx context.Context, prompt, system string) (string, error)
}
