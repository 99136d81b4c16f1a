package inmemory_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/google/uuid"

	"github.com/papercomputeco/hindsight/pkg/journal"
	"github.com/papercomputeco/hindsight/pkg/journal/inmemory"
)

var _ journal.Recorder = (*inmemory.Driver)(nil)

var _ = Describe("Driver", func() {
	var (
		driver *inmemory.Driver
		ctx    context.Context
	)

	BeforeEach(func() {
		driver = inmemory.NewDriver()
		ctx = context.Background()
	})

	Describe("Record", func() {
		It("rejects entries without an action", func() {
			err := driver.Record(ctx, journal.Entry{Actor: journal.ActorService})
			Expect(err).To(MatchError(journal.ErrNoAction))
		})

		It("stamps a missing id and creation time", func() {
			err := driver.Record(ctx, journal.Entry{
				Actor:  journal.ActorService,
				Action: journal.ActionEvidenceStore,
			})
			Expect(err).NotTo(HaveOccurred())

			entries, err := driver.List(ctx, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))

			_, err = uuid.Parse(entries[0].ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries[0].CreatedAt.IsZero()).To(BeFalse())
		})

		It("keeps caller-provided ids and details", func() {
			entry := journal.NewEntry(journal.ActorService, journal.ActionToolCall, "web_search", map[string]any{
				"query": "capital of France",
			})
			Expect(driver.Record(ctx, entry)).To(Succeed())

			entries, err := driver.List(ctx, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries[0].ID).To(Equal(entry.ID))
			Expect(entries[0].Detail).To(HaveKeyWithValue("query", "capital of France"))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			for _, subject := range []string{"first", "second", "third"} {
				entry := journal.NewEntry(journal.ActorService, journal.ActionGenerate, subject, nil)
				Expect(driver.Record(ctx, entry)).To(Succeed())
			}
		})

		It("returns entries newest first", func() {
			entries, err := driver.List(ctx, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(3))
			Expect(entries[0].Subject).To(Equal("third"))
			Expect(entries[1].Subject).To(Equal("second"))
			Expect(entries[2].Subject).To(Equal("first"))
		})

		It("honors a positive limit", func() {
			entries, err := driver.List(ctx, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))
			Expect(entries[0].Subject).To(Equal("third"))
			Expect(entries[1].Subject).To(Equal("second"))
		})

		It("caps the limit at the entry count", func() {
			entries, err := driver.List(ctx, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(3))
		})

		It("returns empty for a fresh recorder", func() {
			fresh := inmemory.NewDriver()
			entries, err := fresh.List(ctx, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(BeEmpty())
		})
	})

	Describe("Close", func() {
		It("closes successfully", func() {
			Expect(driver.Close()).To(Succeed())
		})
	})
})
