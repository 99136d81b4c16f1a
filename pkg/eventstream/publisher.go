package eventstream

import "context"

// Event is the common surface of payloads carried on the stream. Concrete
// events satisfy it by embedding Envelope.
type Event interface {
	ID() string
}

// Publisher publishes evidence and generation events to a stream backend.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
