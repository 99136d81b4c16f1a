// Package journal records operation provenance. Every mutation and decision
// the service makes lands here as an append-only entry, mirroring the
// provenance log kept by the paired controller.
package journal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Actions recorded in the journal.
const (
	ActionEvidenceStore  = "evidence_store"
	ActionEvidenceDelete = "evidence_delete"
	ActionEvidenceEvict  = "evidence_evict"
	ActionGenerate       = "generate"
	ActionToolCall       = "tool_call"
	ActionInboxSend      = "inbox_send"
	ActionFileWrite      = "file_write"
)

// Actors that appear in journal entries.
const (
	ActorService  = "hindsight"
	ActorOperator = "operator"
)

// ErrNoAction is returned when an entry is recorded without an action.
var ErrNoAction = errors.New("journal entry requires an action")

// Entry is a single provenance record.
type Entry struct {
	ID        string         `json:"id"`
	Actor     string         `json:"actor"`
	Action    string         `json:"action"`
	Subject   string         `json:"subject,omitempty"`
	Detail    map[string]any `json:"detail,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewEntry stamps a fresh entry with an id and creation time.
func NewEntry(actor, action, subject string, detail map[string]any) Entry {
	return Entry{
		ID:        uuid.New().String(),
		Actor:     actor,
		Action:    action,
		Subject:   subject,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
}

// Recorder persists and lists journal entries.
type Recorder interface {
	// Record appends one entry. Implementations stamp a missing id and
	// creation time.
	Record(ctx context.Context, entry Entry) error

	// List returns entries newest first. A non-positive limit returns all
	// entries.
	List(ctx context.Context, limit int) ([]Entry, error)

	// Close closes the recorder and releases any resources.
	Close() error
}
