package evidence_test

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/pkg/evidence"
	testutils "github.com/papercomputeco/hindsight/pkg/utils/test"
)

var _ = Describe("Store", func() {
	var (
		ctx      context.Context
		embedder *testutils.MockEmbedder
		driver   *testutils.MockVectorDriver
		store    *evidence.Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		embedder = testutils.NewMockEmbedder()
		driver = testutils.NewMockVectorDriver()
		store = evidence.NewStore(evidence.Config{}, embedder, driver, zap.NewNop())
	})

	Describe("Store", func() {
		It("should persist a record under a fresh uuid", func() {
			id, err := store.Store(ctx, "the sky is blue", map[string]string{"source": "observation"})
			Expect(err).NotTo(HaveOccurred())

			_, err = uuid.Parse(id)
			Expect(err).NotTo(HaveOccurred())

			count, err := store.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))

			results, err := store.GetByIDs(ctx, []string{id})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Text).To(Equal("the sky is blue"))
			Expect(results[0].MetadataJSON).To(Equal(`{"source":"observation"}`))
		})

		It("should embed the text exactly once", func() {
			_, err := store.Store(ctx, "a single record", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(embedder.Calls).To(Equal(1))
		})

		It("should generate distinct ids per record", func() {
			first, err := store.Store(ctx, "first", nil)
			Expect(err).NotTo(HaveOccurred())
			second, err := store.Store(ctx, "second", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(first).NotTo(Equal(second))
		})

		It("should propagate embedding failures", func() {
			embedder.FailOn = "bad text"

			_, err := store.Store(ctx, "bad text", nil)
			Expect(err).To(HaveOccurred())

			count, err := store.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})

		It("should propagate index failures", func() {
			driver.AddErr = errors.New("index down")

			_, err := store.Store(ctx, "some text", nil)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("index down"))
		})
	})

	Describe("eviction", func() {
		stampedAgo := func(d time.Duration) map[string]string {
			return map[string]string{
				"stored_at": time.Now().Add(-d).UTC().Format(time.RFC3339),
			}
		}

		It("should evict the oldest record once the cap is exceeded", func() {
			store = evidence.NewStore(evidence.Config{MaxEvidence: 3}, embedder, driver, zap.NewNop())

			oldest, err := store.Store(ctx, "oldest record", stampedAgo(3*time.Hour))
			Expect(err).NotTo(HaveOccurred())
			_, err = store.Store(ctx, "middle record", stampedAgo(2*time.Hour))
			Expect(err).NotTo(HaveOccurred())
			_, err = store.Store(ctx, "newer record", stampedAgo(time.Hour))
			Expect(err).NotTo(HaveOccurred())

			count, err := store.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(3))

			_, err = store.Store(ctx, "newest record", stampedAgo(0))
			Expect(err).NotTo(HaveOccurred())

			count, err = store.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(3))

			Expect(driver.DeletedIDs).To(Equal([]string{oldest}))

			results, err := store.GetByIDs(ctx, []string{oldest})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeEmpty())
		})

		It("should treat records without a timestamp as oldest", func() {
			store = evidence.NewStore(evidence.Config{MaxEvidence: 2}, embedder, driver, zap.NewNop())

			unstamped, err := store.Store(ctx, "no timestamp", nil)
			Expect(err).NotTo(HaveOccurred())
			_, err = store.Store(ctx, "stamped record", stampedAgo(48*time.Hour))
			Expect(err).NotTo(HaveOccurred())
			_, err = store.Store(ctx, "another stamped record", stampedAgo(time.Hour))
			Expect(err).NotTo(HaveOccurred())

			Expect(driver.DeletedIDs).To(Equal([]string{unstamped}))
		})

		It("should report evicted ids through the OnEvict hook", func() {
			var evicted []string
			store = evidence.NewStore(evidence.Config{
				MaxEvidence: 1,
				OnEvict:     func(ids []string) { evicted = append(evicted, ids...) },
			}, embedder, driver, zap.NewNop())

			first, err := store.Store(ctx, "first", stampedAgo(time.Hour))
			Expect(err).NotTo(HaveOccurred())
			Expect(evicted).To(BeEmpty())

			_, err = store.Store(ctx, "second", stampedAgo(0))
			Expect(err).NotTo(HaveOccurred())
			Expect(evicted).To(Equal([]string{first}))
		})

		It("should evict as many records as the count exceeds the cap", func() {
			store = evidence.NewStore(evidence.Config{MaxEvidence: 1}, embedder, driver, zap.NewNop())

			first, err := store.Store(ctx, "first", stampedAgo(2*time.Hour))
			Expect(err).NotTo(HaveOccurred())
			second, err := store.Store(ctx, "second", stampedAgo(time.Hour))
			Expect(err).NotTo(HaveOccurred())

			Expect(driver.DeletedIDs).To(Equal([]string{first}))

			third, err := store.Store(ctx, "third", stampedAgo(0))
			Expect(err).NotTo(HaveOccurred())
			Expect(driver.DeletedIDs).To(Equal([]string{first, second}))

			count, err := store.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))

			results, err := store.GetByIDs(ctx, []string{third})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
		})
	})

	Describe("GetByIDs", func() {
		It("should return nothing for empty input", func() {
			results, err := store.GetByIDs(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeEmpty())
		})

		It("should preserve input order", func() {
			first, err := store.Store(ctx, "first record", nil)
			Expect(err).NotTo(HaveOccurred())
			second, err := store.Store(ctx, "second record", nil)
			Expect(err).NotTo(HaveOccurred())
			third, err := store.Store(ctx, "third record", nil)
			Expect(err).NotTo(HaveOccurred())

			results, err := store.GetByIDs(ctx, []string{third, first, second})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))
			Expect(results[0].ID).To(Equal(third))
			Expect(results[1].ID).To(Equal(first))
			Expect(results[2].ID).To(Equal(second))
		})

		It("should silently skip missing ids", func() {
			id, err := store.Store(ctx, "only record", nil)
			Expect(err).NotTo(HaveOccurred())

			results, err := store.GetByIDs(ctx, []string{"missing-1", id, "missing-2"})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].ID).To(Equal(id))
		})

		It("should return zero scores and empty metadata as {}", func() {
			id, err := store.Store(ctx, "bare record", nil)
			Expect(err).NotTo(HaveOccurred())

			results, err := store.GetByIDs(ctx, []string{id})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Score).To(BeZero())
			Expect(results[0].MetadataJSON).To(Equal("{}"))
		})

		It("should propagate driver failures", func() {
			driver.GetErr = errors.New("lookup failed")

			_, err := store.GetByIDs(ctx, []string{"any"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Delete", func() {
		It("should remove the record and report success", func() {
			id, err := store.Store(ctx, "to be deleted", nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(store.Delete(ctx, id)).To(BeTrue())

			count, err := store.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})

		It("should swallow driver failures and report them as false", func() {
			id, err := store.Store(ctx, "sticky record", nil)
			Expect(err).NotTo(HaveOccurred())
			driver.DeleteErr = errors.New("delete failed")

			Expect(store.Delete(ctx, id)).To(BeFalse())

			count, err := store.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))
		})

		It("should report false for ids that do not exist", func() {
			Expect(store.Delete(ctx, "never-stored")).To(BeFalse())
		})

		It("should report false when the existence lookup fails", func() {
			id, err := store.Store(ctx, "unreachable record", nil)
			Expect(err).NotTo(HaveOccurred())
			driver.GetErr = errors.New("index offline")

			Expect(store.Delete(ctx, id)).To(BeFalse())
		})
	})

	Describe("Count", func() {
		It("should propagate driver failures", func() {
			driver.CountErr = errors.New("count failed")

			_, err := store.Count(ctx)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Capacity", func() {
		It("should report the configured cap", func() {
			capped := evidence.NewStore(evidence.Config{MaxEvidence: 7}, embedder, driver, zap.NewNop())
			Expect(capped.Capacity()).To(Equal(7))
		})

		It("should fall back to the default cap", func() {
			Expect(store.Capacity()).To(Equal(evidence.DefaultMaxEvidence))
		})
	})
})
