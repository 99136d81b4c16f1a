package mcp

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/pkg/evidence"
	testutils "github.com/papercomputeco/hindsight/pkg/utils/test"
)

var _ = Describe("MCP Server", func() {
	var (
		server *Server
		store  *evidence.Store
	)

	BeforeEach(func() {
		embedder := testutils.NewMockEmbedder()
		driver := testutils.NewMockVectorDriver()
		store = evidence.NewStore(evidence.Config{}, embedder, driver, zap.NewNop())

		var err error
		server, err = NewServer(Config{
			Store:  store,
			Logger: zap.NewNop(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewServer", func() {
		It("returns an error when evidence store is nil", func() {
			_, err := NewServer(Config{
				Logger: zap.NewNop(),
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("evidence store is required"))
		})

		It("returns an error when logger is nil", func() {
			_, err := NewServer(Config{
				Store: store,
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("logger is required"))
		})

		It("creates a server with valid config", func() {
			Expect(server).NotTo(BeNil())
		})

		It("returns an HTTP handler", func() {
			handler := server.Handler()
			Expect(handler).NotTo(BeNil())
		})

		It("creates a noop server without a store", func() {
			noop, err := NewServer(Config{Noop: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(noop).NotTo(BeNil())
		})
	})
})
