package eventstream

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeEvidenceStored is emitted after a new evidence record is indexed.
	EventTypeEvidenceStored = "hindsight.evidence.stored"

	// EventTypeEvidenceDeleted is emitted after an evidence record is removed,
	// whether by an explicit delete or by capacity eviction.
	EventTypeEvidenceDeleted = "hindsight.evidence.deleted"

	// EventTypeGeneration is emitted after a generation request completes.
	EventTypeGeneration = "hindsight.generation.completed"
)

// Envelope carries the fields common to every event payload. Embedding it
// flattens the fields into the top level of the JSON document.
type Envelope struct {
	SchemaVersion int       `json:"schema_version"`
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EmittedAt     time.Time `json:"emitted_at"`
}

// ID returns the unique event id used as the partition key on the stream.
func (e Envelope) ID() string {
	return e.EventID
}

// NewEnvelope stamps a fresh envelope for the given event type.
func NewEnvelope(eventType string) Envelope {
	return Envelope{
		SchemaVersion: SchemaVersionV1,
		EventType:     eventType,
		EventID:       uuid.New().String(),
		EmittedAt:     time.Now().UTC(),
	}
}

// EvidenceStoredEvent is a transport-neutral payload for a stored evidence
// record.
type EvidenceStoredEvent struct {
	Envelope
	EvidenceID string            `json:"evidence_id"`
	Text       string            `json:"text"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// EvidenceDeletedEvent is a transport-neutral payload for a removed evidence
// record. Evicted distinguishes capacity eviction from an operator delete.
type EvidenceDeletedEvent struct {
	Envelope
	EvidenceID string `json:"evidence_id"`
	Evicted    bool   `json:"evicted"`
}

// GenerationEvent is a transport-neutral payload for a completed generation.
type GenerationEvent struct {
	Envelope
	Prompt        string  `json:"prompt"`
	EvidenceCount int     `json:"evidence_count"`
	ResponseChars int     `json:"response_chars"`
	Entropy       float64 `json:"entropy"`
	DurationMs    int64   `json:"duration_ms"`
}
