package httpcall_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/pkg/tools"
	"github.com/papercomputeco/hindsight/pkg/tools/httpcall"
)

var _ = Describe("HTTPCall", func() {
	var (
		ctx  context.Context
		call *httpcall.HTTPCall
	)

	BeforeEach(func() {
		ctx = context.Background()
		call = httpcall.New(httpcall.Config{}, zap.NewNop())
	})

	Describe("Call", func() {
		It("should return the response body on success", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Method).To(Equal(http.MethodGet))
				w.Write([]byte("file contents"))
			}))
			defer server.Close()

			out := call.Call(ctx, map[string]any{
				"method": "GET",
				"url":    server.URL,
			})
			Expect(out).To(Equal("file contents"))
		})

		It("should default to GET when no method is given", func() {
			var gotMethod string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
			}))
			defer server.Close()

			call.Call(ctx, map[string]any{"url": server.URL})
			Expect(gotMethod).To(Equal(http.MethodGet))
		})

		It("should uppercase the method", func() {
			var gotMethod string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
			}))
			defer server.Close()

			call.Call(ctx, map[string]any{
				"method": "delete",
				"url":    server.URL,
			})
			Expect(gotMethod).To(Equal(http.MethodDelete))
		})

		It("should send the body as plain text on POST", func() {
			var (
				gotBody        string
				gotContentType string
			)
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				b, _ := io.ReadAll(r.Body)
				gotBody = string(b)
				gotContentType = r.Header.Get("Content-Type")
			}))
			defer server.Close()

			call.Call(ctx, map[string]any{
				"method": "POST",
				"url":    server.URL,
				"body":   "hello workspace",
			})
			Expect(gotBody).To(Equal("hello workspace"))
			Expect(gotContentType).To(Equal("text/plain; charset=utf-8"))
		})

		It("should not send a body on GET even when one is given", func() {
			var gotLen int64
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotLen = r.ContentLength
			}))
			defer server.Close()

			call.Call(ctx, map[string]any{
				"method": "GET",
				"url":    server.URL,
				"body":   "ignored",
			})
			Expect(gotLen).To(BeZero())
		})

		It("should report HTTP errors with status and body", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte("File not found: missing.txt"))
			}))
			defer server.Close()

			out := call.Call(ctx, map[string]any{
				"method": "GET",
				"url":    server.URL,
			})
			Expect(out).To(Equal("HTTP 404: File not found: missing.txt"))
		})

		It("should report transport failures as text", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			server.Close()

			out := call.Call(ctx, map[string]any{
				"method": "GET",
				"url":    server.URL,
			})
			Expect(out).To(HavePrefix("Request failed: "))
		})
	})

	Describe("Definition", func() {
		It("should describe the http_request tool", func() {
			def := call.Definition()
			Expect(def.Type).To(Equal("function"))
			Expect(def.Function.Name).To(Equal("http_request"))
			Expect(def.Function.Parameters["required"]).To(Equal([]string{"method", "url"}))
		})
	})

	Describe("Compliance", func() {
		It("should implement the tools.Tool interface", func() {
			var tool tools.Tool = call
			Expect(tool.Name()).To(Equal("http_request"))
		})
	})
})
