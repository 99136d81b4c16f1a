package mcp

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/pkg/evidence"
	testutils "github.com/papercomputeco/hindsight/pkg/utils/test"
)

var _ = Describe("Evidence tools", func() {
	var (
		server   *Server
		store    *evidence.Store
		embedder *testutils.MockEmbedder
		driver   *testutils.MockVectorDriver
		ctx      context.Context
	)

	BeforeEach(func() {
		embedder = testutils.NewMockEmbedder()
		driver = testutils.NewMockVectorDriver()
		store = evidence.NewStore(evidence.Config{}, embedder, driver, zap.NewNop())

		var err error
		server, err = NewServer(Config{
			Store:  store,
			Logger: zap.NewNop(),
		})
		Expect(err).NotTo(HaveOccurred())

		ctx = context.Background()
	})

	Describe("handleSearch", func() {
		It("returns stored evidence for a query", func() {
			_, err := store.Store(ctx, "the reactor is stable", nil)
			Expect(err).NotTo(HaveOccurred())

			result, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "reactor"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())

			Expect(output.Query).To(Equal("reactor"))
			Expect(output.Count).To(Equal(1))
			Expect(output.Results[0].Text).To(Equal("the reactor is stable"))
		})

		It("serializes the output as JSON text content", func() {
			_, err := store.Store(ctx, "the reactor is stable", nil)
			Expect(err).NotTo(HaveOccurred())

			result, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "reactor"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Content).To(HaveLen(1))

			text, ok := result.Content[0].(*mcp.TextContent)
			Expect(ok).To(BeTrue())
			Expect(text.Text).To(ContainSubstring(`"query":"reactor"`))
			Expect(text.Text).To(ContainSubstring("the reactor is stable"))
		})

		It("returns an empty result set for an empty store", func() {
			result, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "anything"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())
			Expect(output.Count).To(BeZero())
			Expect(output.Results).To(BeEmpty())
		})

		It("reports search failures through IsError", func() {
			_, err := store.Store(ctx, "some record", nil)
			Expect(err).NotTo(HaveOccurred())
			driver.QueryErr = errors.New("index down")

			result, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "anything"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
			Expect(output.Count).To(BeZero())

			text, ok := result.Content[0].(*mcp.TextContent)
			Expect(ok).To(BeTrue())
			Expect(text.Text).To(ContainSubstring("Failed to search evidence"))
		})
	})

	Describe("handleStore", func() {
		It("stores evidence and returns the new id", func() {
			result, output, err := server.handleStore(ctx, nil, StoreInput{Text: "remember this"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())

			_, err = uuid.Parse(output.ID)
			Expect(err).NotTo(HaveOccurred())

			count, err := store.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))
		})

		It("records the source as metadata", func() {
			_, output, err := server.handleStore(ctx, nil, StoreInput{Text: "observed anomaly", Source: "operator"})
			Expect(err).NotTo(HaveOccurred())

			results, err := store.GetByIDs(ctx, []string{output.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].MetadataJSON).To(Equal(`{"source":"operator"}`))
		})

		It("rejects empty text", func() {
			result, output, err := server.handleStore(ctx, nil, StoreInput{})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
			Expect(output.ID).To(BeEmpty())

			text, ok := result.Content[0].(*mcp.TextContent)
			Expect(ok).To(BeTrue())
			Expect(text.Text).To(Equal("text is required"))
		})

		It("reports store failures through IsError", func() {
			embedder.FailOn = "bad text"

			result, _, err := server.handleStore(ctx, nil, StoreInput{Text: "bad text"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())

			text, ok := result.Content[0].(*mcp.TextContent)
			Expect(ok).To(BeTrue())
			Expect(text.Text).To(ContainSubstring("Evidence store failed"))
		})
	})
})
