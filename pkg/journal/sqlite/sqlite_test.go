package sqlite_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/hindsight/pkg/journal"
	"github.com/papercomputeco/hindsight/pkg/journal/sqlite"
)

var _ = Describe("SQLiteDriver", func() {
	var (
		driver *sqlite.SQLiteDriver
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		driver, err = sqlite.NewSQLiteDriver(":memory:")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if driver != nil {
			driver.Close()
		}
	})

	Describe("NewSQLiteDriver", func() {
		It("creates a driver with file database", func() {
			tmpDir := GinkgoT().TempDir()
			dbPath := filepath.Join(tmpDir, "journal.db")

			d, err := sqlite.NewSQLiteDriver(dbPath)
			Expect(err).NotTo(HaveOccurred())
			defer d.Close()

			// Verify file was created
			_, err = os.Stat(dbPath)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("Record", func() {
		It("rejects entries without an action", func() {
			err := driver.Record(ctx, journal.Entry{Actor: journal.ActorService})
			Expect(err).To(MatchError(journal.ErrNoAction))
		})

		It("persists an entry and reads it back", func() {
			entry := journal.NewEntry(journal.ActorService, journal.ActionEvidenceStore, "rec-1", map[string]any{
				"source": "observation",
			})
			Expect(driver.Record(ctx, entry)).To(Succeed())

			entries, err := driver.List(ctx, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].ID).To(Equal(entry.ID))
			Expect(entries[0].Actor).To(Equal(journal.ActorService))
			Expect(entries[0].Action).To(Equal(journal.ActionEvidenceStore))
			Expect(entries[0].Subject).To(Equal("rec-1"))
			Expect(entries[0].Detail).To(HaveKeyWithValue("source", "observation"))
		})

		It("stamps a missing id", func() {
			err := driver.Record(ctx, journal.Entry{
				Actor:  journal.ActorService,
				Action: journal.ActionGenerate,
			})
			Expect(err).NotTo(HaveOccurred())

			entries, err := driver.List(ctx, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].ID).NotTo(BeEmpty())
		})
	})

	Describe("List", func() {
		It("returns entries newest first with a limit", func() {
			base := journal.NewEntry(journal.ActorService, journal.ActionGenerate, "", nil)
			for i, subject := range []string{"first", "second", "third"} {
				entry := base
				entry.ID = ""
				entry.Subject = subject
				entry.CreatedAt = base.CreatedAt.Add(time.Duration(i) * time.Second)
				Expect(driver.Record(ctx, entry)).To(Succeed())
			}

			entries, err := driver.List(ctx, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))
			Expect(entries[0].Subject).To(Equal("third"))
			Expect(entries[1].Subject).To(Equal("second"))
		})
	})
})
