// Package nop has a discard publisher for when the event stream is disabled.
package nop

import (
	"context"

	"github.com/papercomputeco/hindsight/pkg/eventstream"
)

// Publisher accepts events and drops them. It still rejects nil events so
// callers exercise the same contract as a real stream.
type Publisher struct{}

// NewPublisher creates a new no-op eventstream publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// Publish validates the event and discards it.
func (p *Publisher) Publish(_ context.Context, event eventstream.Event) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}
	return nil
}

// Close is a no-op.
func (p *Publisher) Close() error {
	return nil
}
