package api

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/pkg/journal"
	"github.com/papercomputeco/hindsight/pkg/journal/inmemory"
	testutils "github.com/papercomputeco/hindsight/pkg/utils/test"
	"github.com/papercomputeco/hindsight/pkg/worker"
)

var _ = Describe("JournaledExecutor", func() {
	var (
		inner    *testutils.MockExecutor
		recorder *inmemory.Driver
		ctx      context.Context
	)

	BeforeEach(func() {
		inner = testutils.NewMockExecutor()
		inner.Results["web_search"] = "search result text"
		recorder = inmemory.NewDriver()
		ctx = context.Background()
	})

	It("returns the inner result unchanged", func() {
		executor := NewJournaledExecutor(inner, recorder, nil, zap.NewNop())

		result := executor.Execute(ctx, "web_search", map[string]any{"query": "reactor"})
		Expect(result).To(Equal("search result text"))

		Expect(inner.Calls).To(HaveLen(1))
		Expect(inner.Calls[0].Name).To(Equal("web_search"))
		Expect(inner.Calls[0].Args).To(HaveKeyWithValue("query", "reactor"))
	})

	It("journals the call with its arguments", func() {
		executor := NewJournaledExecutor(inner, recorder, nil, zap.NewNop())

		executor.Execute(ctx, "web_search", map[string]any{"query": "reactor"})

		entries, err := recorder.List(ctx, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].Actor).To(Equal(journal.ActorService))
		Expect(entries[0].Action).To(Equal(journal.ActionToolCall))
		Expect(entries[0].Subject).To(Equal("web_search"))
		Expect(entries[0].Detail).To(HaveKeyWithValue("result_chars", len("search result text")))
		Expect(entries[0].Detail).To(HaveKey("args"))
	})

	It("writes the record through the pool when one is configured", func() {
		pool, err := worker.NewPool(&worker.Config{NumWorkers: 1, QueueSize: 8, Logger: zap.NewNop()})
		Expect(err).NotTo(HaveOccurred())
		defer pool.Close()

		executor := NewJournaledExecutor(inner, recorder, pool, zap.NewNop())

		result := executor.Execute(ctx, "web_search", map[string]any{"query": "reactor"})
		Expect(result).To(Equal("search result text"))

		Eventually(func() int {
			entries, listErr := recorder.List(ctx, 0)
			Expect(listErr).NotTo(HaveOccurred())
			return len(entries)
		}).Should(Equal(1))
	})

	It("passes the inner schema through", func() {
		executor := NewJournaledExecutor(inner, recorder, nil, zap.NewNop())

		schema := executor.Schema()
		Expect(schema).To(Equal(inner.Schema()))
	})
})
