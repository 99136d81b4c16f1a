package eventstream_test

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/google/uuid"

	"github.com/papercomputeco/hindsight/pkg/eventstream"
)

var _ = Describe("Event", func() {
	It("marshals EvidenceStoredEvent with flattened envelope keys", func() {
		now := time.Unix(1735689600, 0).UTC()
		event := eventstream.EvidenceStoredEvent{
			Envelope: eventstream.Envelope{
				SchemaVersion: eventstream.SchemaVersionV1,
				EventType:     eventstream.EventTypeEvidenceStored,
				EventID:       "evt_123",
				EmittedAt:     now,
			},
			EvidenceID: "rec_456",
			Text:       "the observatory closes at dusk",
			Metadata:   map[string]string{"source": "observation"},
		}

		payload, err := json.Marshal(event)
		Expect(err).NotTo(HaveOccurred())

		var got map[string]any
		Expect(json.Unmarshal(payload, &got)).To(Succeed())

		Expect(got).To(HaveKey("schema_version"))
		Expect(got).To(HaveKey("event_type"))
		Expect(got).To(HaveKey("event_id"))
		Expect(got).To(HaveKey("emitted_at"))
		Expect(got).To(HaveKey("evidence_id"))
		Expect(got).To(HaveKey("text"))
		Expect(got).To(HaveKey("metadata"))
		Expect(got).NotTo(HaveKey("envelope"))
	})

	It("marshals GenerationEvent with its payload fields", func() {
		event := eventstream.GenerationEvent{
			Envelope:      eventstream.NewEnvelope(eventstream.EventTypeGeneration),
			Prompt:        "what is the capital of France?",
			EvidenceCount: 2,
			ResponseChars: 5,
			Entropy:       0.0125,
			DurationMs:    340,
		}

		payload, err := json.Marshal(event)
		Expect(err).NotTo(HaveOccurred())

		var got map[string]any
		Expect(json.Unmarshal(payload, &got)).To(Succeed())

		Expect(got).To(HaveKey("prompt"))
		Expect(got).To(HaveKey("evidence_count"))
		Expect(got).To(HaveKey("response_chars"))
		Expect(got).To(HaveKey("entropy"))
		Expect(got).To(HaveKey("duration_ms"))
	})

	It("omits empty metadata from EvidenceStoredEvent", func() {
		event := eventstream.EvidenceStoredEvent{
			Envelope:   eventstream.NewEnvelope(eventstream.EventTypeEvidenceStored),
			EvidenceID: "rec_789",
			Text:       "bare record",
		}

		payload, err := json.Marshal(event)
		Expect(err).NotTo(HaveOccurred())

		var got map[string]any
		Expect(json.Unmarshal(payload, &got)).To(Succeed())
		Expect(got).NotTo(HaveKey("metadata"))
	})

	Describe("NewEnvelope", func() {
		It("stamps version, type, a uuid id, and a recent timestamp", func() {
			before := time.Now().UTC()
			envelope := eventstream.NewEnvelope(eventstream.EventTypeEvidenceDeleted)

			Expect(envelope.SchemaVersion).To(Equal(eventstream.SchemaVersionV1))
			Expect(envelope.EventType).To(Equal(eventstream.EventTypeEvidenceDeleted))

			_, err := uuid.Parse(envelope.EventID)
			Expect(err).NotTo(HaveOccurred())

			Expect(envelope.EmittedAt).To(BeTemporally(">=", before))
			Expect(envelope.EmittedAt).To(BeTemporally("<=", time.Now().UTC()))
		})

		It("generates distinct event ids", func() {
			first := eventstream.NewEnvelope(eventstream.EventTypeGeneration)
			second := eventstream.NewEnvelope(eventstream.EventTypeGeneration)
			Expect(first.EventID).NotTo(Equal(second.EventID))
		})
	})

	It("exposes the event id through the Event interface", func() {
		var event eventstream.Event = eventstream.EvidenceDeletedEvent{
			Envelope:   eventstream.Envelope{EventID: "evt_del"},
			EvidenceID: "rec_del",
			Evicted:    true,
		}
		Expect(event.ID()).To(Equal("evt_del"))
	})

	It("defines stable event constants", func() {
		Expect(eventstream.SchemaVersionV1).To(BeNumerically(">", 0))
		Expect(eventstream.EventTypeEvidenceStored).To(Equal("hindsight.evidence.stored"))
		Expect(eventstream.EventTypeEvidenceDeleted).To(Equal("hindsight.evidence.deleted"))
		Expect(eventstream.EventTypeGeneration).To(Equal("hindsight.generation.completed"))
	})

	It("provides ErrNilEvent for nil payload validation", func() {
		Expect(eventstream.ErrNilEvent).NotTo(BeNil())
		Expect(eventstream.ErrNilEvent).To(MatchError("nil event"))
	})
})
