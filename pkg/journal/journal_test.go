package journal_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/google/uuid"

	"github.com/papercomputeco/hindsight/pkg/journal"
)

var _ = Describe("Journal", func() {
	Describe("NewEntry", func() {
		It("stamps a uuid id and a recent creation time", func() {
			before := time.Now().UTC()
			entry := journal.NewEntry(journal.ActorService, journal.ActionGenerate, "prompt-1", nil)

			_, err := uuid.Parse(entry.ID)
			Expect(err).NotTo(HaveOccurred())

			Expect(entry.CreatedAt).To(BeTemporally(">=", before))
			Expect(entry.CreatedAt).To(BeTemporally("<=", time.Now().UTC()))
		})

		It("carries actor, action, subject, and detail", func() {
			detail := map[string]any{"chars": 42}
			entry := journal.NewEntry(journal.ActorOperator, journal.ActionInboxSend, "outbox.enc", detail)

			Expect(entry.Actor).To(Equal("operator"))
			Expect(entry.Action).To(Equal("inbox_send"))
			Expect(entry.Subject).To(Equal("outbox.enc"))
			Expect(entry.Detail).To(HaveKeyWithValue("chars", 42))
		})

		It("generates distinct ids", func() {
			first := journal.NewEntry(journal.ActorService, journal.ActionToolCall, "web_search", nil)
			second := journal.NewEntry(journal.ActorService, journal.ActionToolCall, "web_search", nil)
			Expect(first.ID).NotTo(Equal(second.ID))
		})
	})

	It("defines stable action constants", func() {
		Expect(journal.ActionEvidenceStore).To(Equal("evidence_store"))
		Expect(journal.ActionEvidenceDelete).To(Equal("evidence_delete"))
		Expect(journal.ActionEvidenceEvict).To(Equal("evidence_evict"))
		Expect(journal.ActionGenerate).To(Equal("generate"))
		Expect(journal.ActionToolCall).To(Equal("tool_call"))
		Expect(journal.ActionInboxSend).To(Equal("inbox_send"))
		Expect(journal.ActionFileWrite).To(Equal("file_write"))
	})
})
