package chatcmder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/api"
	"github.com/papercomputeco/hindsight/pkg/dotdir"
	"github.com/papercomputeco/hindsight/pkg/evidence"
	"github.com/papercomputeco/hindsight/pkg/orchestrator"
)

var _ = Describe("NewChatCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := NewChatCmd()
		Expect(cmd.Use).To(Equal("chat"))
	})

	It("has --api-target flag with default value", func() {
		cmd := NewChatCmd()
		flag := cmd.Flags().Lookup("api-target")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("a"))
		Expect(flag.DefValue).To(Equal("http://localhost:8081"))
	})

	It("has --top-k flag with default value", func() {
		cmd := NewChatCmd()
		flag := cmd.Flags().Lookup("top-k")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("k"))
		Expect(flag.DefValue).To(Equal("5"))
	})
})

var _ = Describe("gatherEvidence", func() {
	It("returns the texts of the search results", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/evidence/search"))
			Expect(r.URL.Query().Get("q")).To(Equal("reactor status"))
			Expect(r.URL.Query().Get("top_k")).To(Equal("3"))

			resp := api.SearchResponse{
				Results: []evidence.SearchResult{
					{ID: "ev-1", Text: "Coolant pressure nominal.", Score: 0.91},
					{ID: "ev-2", Text: "Turbine inspected on Tuesday.", Score: 0.74},
				},
				Count: 2,
			}
			Expect(json.NewEncoder(w).Encode(resp)).To(Succeed())
		}))
		defer server.Close()

		cmder := &chatCommander{apiTarget: server.URL, topK: 3, logger: zap.NewNop()}
		passages := cmder.gatherEvidence(context.Background(), "reactor status")

		Expect(passages).To(Equal([]string{
			"Coolant pressure nominal.",
			"Turbine inspected on Tuesday.",
		}))
	})

	It("returns nothing when the server errors", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		cmder := &chatCommander{apiTarget: server.URL, topK: 5, logger: zap.NewNop()}
		Expect(cmder.gatherEvidence(context.Background(), "anything")).To(BeEmpty())
	})

	It("returns nothing when the server is unreachable", func() {
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
		server.Close()

		cmder := &chatCommander{apiTarget: server.URL, topK: 5, logger: zap.NewNop()}
		Expect(cmder.gatherEvidence(context.Background(), "anything")).To(BeEmpty())
	})
})

var _ = Describe("generate", func() {
	It("posts the prompt with evidence and decodes the result", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/generate"))
			Expect(r.Method).To(Equal(http.MethodPost))

			var req orchestrator.Request
			Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
			Expect(req.Prompt).To(Equal("How is the reactor?"))
			Expect(req.Evidence).To(Equal([]string{"Coolant pressure nominal."}))

			result := orchestrator.Result{Text: "All readings nominal.", Entropy: 1.5}
			Expect(json.NewEncoder(w).Encode(result)).To(Succeed())
		}))
		defer server.Close()

		cmder := &chatCommander{apiTarget: server.URL, logger: zap.NewNop()}
		result, err := cmder.generate(context.Background(), "How is the reactor?", []string{"Coolant pressure nominal."})

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Text).To(Equal("All readings nominal."))
		Expect(result.Entropy).To(Equal(1.5))
	})

	It("surfaces a server error with its status", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"generation failed"}`))
		}))
		defer server.Close()

		cmder := &chatCommander{apiTarget: server.URL, logger: zap.NewNop()}
		_, err := cmder.generate(context.Background(), "hello", nil)

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("status 500"))
	})
})

var _ = Describe("sessionEvidence", func() {
	It("returns nothing for an empty session", func() {
		Expect(sessionEvidence(nil)).To(BeEmpty())
	})

	It("labels operator and assistant turns", func() {
		entries := sessionEvidence([]dotdir.SessionMessage{
			{Role: "user", Content: "What is the reactor status?"},
			{Role: "assistant", Content: "All systems nominal."},
		})

		Expect(entries).To(Equal([]string{
			"The operator said earlier: What is the reactor status?",
			"You said earlier: All systems nominal.",
		}))
	})

	It("keeps only the trailing window of a long session", func() {
		messages := []dotdir.SessionMessage{
			{Role: "user", Content: "one"},
			{Role: "assistant", Content: "two"},
			{Role: "user", Content: "three"},
			{Role: "assistant", Content: "four"},
			{Role: "user", Content: "five"},
			{Role: "assistant", Content: "six"},
		}

		entries := sessionEvidence(messages)
		Expect(entries).To(HaveLen(sessionEvidenceWindow))
		Expect(entries[0]).To(Equal("The operator said earlier: three"))
		Expect(entries[3]).To(Equal("You said earlier: six"))
	})
})
