// Package inmemory provides an in-memory journal recorder for tests and
// no-setup runs.
package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/hindsight/pkg/journal"
)

// Driver implements journal.Recorder using an in-memory slice.
type Driver struct {
	// mu guards the append-only entries slice
	mu sync.RWMutex

	// entries holds recorded entries in insertion order (oldest first)
	entries []journal.Entry
}

// NewDriver creates a new in-memory recorder.
func NewDriver() *Driver {
	return &Driver{}
}

// Record appends one entry, stamping a missing id and creation time.
func (d *Driver) Record(_ context.Context, entry journal.Entry) error {
	if entry.Action == "" {
		return journal.ErrNoAction
	}

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.entries = append(d.entries, entry)
	return nil
}

// List returns entries newest first. A non-positive limit returns all entries.
func (d *Driver) List(_ context.Context, limit int) ([]journal.Entry, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	n := len(d.entries)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]journal.Entry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, d.entries[i])
	}

	return out, nil
}

// Close is a no-op.
func (d *Driver) Close() error {
	return nil
}
