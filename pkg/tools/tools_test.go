package tools_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/pkg/llm"
	"github.com/papercomputeco/hindsight/pkg/tools"
)

type stubTool struct {
	name   string
	result string
	args   map[string]any
}

func (s *stubTool) Name() string { return s.name }

func (s *stubTool) Definition() llm.Tool {
	return llm.NewTool(s.name, "stub", map[string]any{"type": "object"})
}

func (s *stubTool) Call(_ context.Context, args map[string]any) string {
	s.args = args
	return s.result
}

var _ = Describe("Registry", func() {
	var (
		ctx      context.Context
		search   *stubTool
		request  *stubTool
		registry *tools.Registry
	)

	BeforeEach(func() {
		ctx = context.Background()
		search = &stubTool{name: "web_search", result: "search output"}
		request = &stubTool{name: "http_request", result: "request output"}
		registry = tools.NewRegistry(zap.NewNop(), search, request)
	})

	Describe("Execute", func() {
		It("should route calls to the named tool", func() {
			out := registry.Execute(ctx, "web_search", map[string]any{"query": "golang"})
			Expect(out).To(Equal("search output"))
			Expect(search.args).To(HaveKeyWithValue("query", "golang"))
		})

		It("should report unknown tools as text", func() {
			out := registry.Execute(ctx, "teleport", nil)
			Expect(out).To(Equal("Unknown tool: teleport"))
		})
	})

	Describe("Schema", func() {
		It("should list definitions in registration order", func() {
			schema := registry.Schema()
			Expect(schema).To(HaveLen(2))
			Expect(schema[0].Function.Name).To(Equal("web_search"))
			Expect(schema[1].Function.Name).To(Equal("http_request"))
		})
	})

	Describe("Compliance", func() {
		It("should implement the tools.Executor interface", func() {
			var executor tools.Executor = registry
			Expect(executor.Schema()).NotTo(BeEmpty())
		})
	})
})
