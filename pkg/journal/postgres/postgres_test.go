package postgres_test

import (
	"context"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/hindsight/pkg/journal"
	"github.com/papercomputeco/hindsight/pkg/journal/postgres"
)

// connStr returns the PostgreSQL connection string from environment or skips the test.
func connStr() string {
	dsn := os.Getenv("HINDSIGHT_TEST_POSTGRES_DSN")
	if dsn == "" {
		Skip("HINDSIGHT_TEST_POSTGRES_DSN not set, skipping PostgreSQL tests")
	}
	return dsn
}

var _ = Describe("Driver", func() {
	var (
		driver *postgres.Driver
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		driver, err = postgres.NewDriver(ctx, connStr())
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if driver != nil {
			driver.Close()
		}
	})

	It("records and lists an entry", func() {
		entry := journal.NewEntry(journal.ActorService, journal.ActionEvidenceDelete, "rec-9", nil)
		Expect(driver.Record(ctx, entry)).To(Succeed())

		entries, err := driver.List(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).NotTo(BeEmpty())
		Expect(entries[0].Action).To(Equal(journal.ActionEvidenceDelete))
	})
})
