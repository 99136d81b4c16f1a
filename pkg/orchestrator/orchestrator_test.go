package orchestrator

import (
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/pkg/llm"
	testutils "github.com/papercomputeco/hindsight/pkg/utils/test"
)

func toolCallMessage(name string, args map[string]any) llm.Message {
	return llm.Message{
		Role: llm.RoleAssistant,
		ToolCalls: []llm.ToolCall{
			{Function: llm.ToolCallFunction{Name: name, Arguments: args}},
		},
	}
}

var _ = Describe("Generate", func() {
	var (
		ctx       context.Context
		chatter   *testutils.MockChatter
		completer *testutils.MockCompleter
		embedder  *testutils.MockEmbedder
		executor  *testutils.MockExecutor
	)

	BeforeEach(func() {
		ctx = context.Background()
		chatter = testutils.NewMockChatter()
		completer = &testutils.MockCompleter{}
		embedder = testutils.NewMockEmbedder()
		executor = testutils.NewMockExecutor()
	})

	newOrchestrator := func() *Orchestrator {
		return New(Config{}, chatter, completer, embedder, executor, zap.NewNop())
	}

	Describe("plain conversation", func() {
		It("should return the model text with its entropy", func() {
			chatter.Responses = []llm.Message{llm.AssistantMessage("The answer is 42.")}

			result, err := newOrchestrator().Generate(ctx, Request{Prompt: "hello there, friend"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Text).To(Equal("The answer is 42."))
			Expect(result.Entropy).To(BeNumerically("~", 4.0/400.0, 1e-9))

			Expect(chatter.Calls).To(HaveLen(1))
			Expect(chatter.Calls[0].Messages).To(HaveLen(1))
			Expect(chatter.Calls[0].Messages[0].Role).To(Equal(llm.RoleUser))
			Expect(chatter.Calls[0].Messages[0].Content).To(Equal("hello there, friend"))
		})

		It("should offer tools and the default directive", func() {
			chatter.Responses = []llm.Message{llm.AssistantMessage("hi")}

			_, err := newOrchestrator().Generate(ctx, Request{Prompt: "hello there, friend"})
			Expect(err).NotTo(HaveOccurred())
			Expect(chatter.Calls[0].Tools).NotTo(BeEmpty())
			Expect(chatter.Calls[0].System).To(HavePrefix("You are Hindsight."))
		})

		It("should saturate entropy at 1.0", func() {
			chatter.Responses = []llm.Message{
				llm.AssistantMessage(strings.TrimSpace(strings.Repeat("word ", 500))),
			}

			result, err := newOrchestrator().Generate(ctx, Request{Prompt: "hello there, friend"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Entropy).To(Equal(1.0))
		})

		It("should propagate chat failures", func() {
			chatter.Errs = []error{errors.New("backend down")}

			_, err := newOrchestrator().Generate(ctx, Request{Prompt: "hello there, friend"})
			Expect(err).To(MatchError(ContainSubstring("backend down")))
		})
	})

	Describe("reflection and review modes", func() {
		It("should make a single chat call without tools in reflection mode", func() {
			chatter.Responses = []llm.Message{llm.AssistantMessage("I noticed hesitation.")}

			result, err := newOrchestrator().Generate(ctx, Request{
				Prompt:   "reflect",
				Evidence: []string{"[REFLECTION MODE]"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Text).To(Equal("I noticed hesitation."))

			Expect(chatter.Calls).To(HaveLen(1))
			Expect(chatter.Calls[0].Tools).To(BeNil())
			Expect(chatter.Calls[0].System).To(ContainSubstring("Reflect on your inner state"))
		})

		It("should make a single chat call without tools in review mode", func() {
			chatter.Responses = []llm.Message{llm.AssistantMessage("NONE")}

			result, err := newOrchestrator().Generate(ctx, Request{
				Prompt:   "review these",
				Evidence: []string{"[REVIEW MODE]", "evidence item one"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Text).To(Equal("NONE"))
			Expect(chatter.Calls[0].Tools).To(BeNil())
		})

		It("should return an empty reflection as-is without recovery", func() {
			chatter.Responses = []llm.Message{
				llm.AssistantMessage("<think>introspection that trails off"),
			}
			completer.Response = "should never appear"

			result, err := newOrchestrator().Generate(ctx, Request{
				Prompt:   "reflect",
				Evidence: []string{"[REFLECTION MODE]"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Text).To(BeEmpty())
			Expect(result.Entropy).To(BeZero())

			Expect(chatter.Calls).To(HaveLen(1))
			Expect(completer.Calls).To(BeEmpty())
		})

		It("should still recover an empty review reply", func() {
			chatter.Responses = []llm.Message{llm.AssistantMessage("")}
			completer.Response = "NONE"

			result, err := newOrchestrator().Generate(ctx, Request{
				Prompt:   "review these",
				Evidence: []string{"[REVIEW MODE]", "evidence item one"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Text).To(Equal("NONE"))
			Expect(completer.Calls).To(HaveLen(1))
		})
	})

	Describe("tool loop", func() {
		It("should execute a requested tool call and feed the result back", func() {
			executor.Results["web_search"] = "Search results:\n  [Go]\n  a language\n  https://go.dev\n"
			chatter.Responses = []llm.Message{
				toolCallMessage("web_search", map[string]any{"query": "golang"}),
				llm.AssistantMessage("Go is a language."),
			}

			result, err := newOrchestrator().Generate(ctx, Request{Prompt: "hello there, friend"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Text).To(Equal("Go is a language."))

			Expect(executor.Calls).To(HaveLen(1))
			Expect(executor.Calls[0].Name).To(Equal("web_search"))
			Expect(executor.Calls[0].Args).To(HaveKeyWithValue("query", "golang"))

			Expect(chatter.Calls).To(HaveLen(2))
			second := chatter.Calls[1].Messages
			Expect(second).To(HaveLen(3))
			Expect(second[1].Role).To(Equal(llm.RoleAssistant))
			Expect(second[1].ToolCalls).To(HaveLen(1))
			Expect(second[2].Role).To(Equal(llm.RoleTool))
			Expect(second[2].Content).To(ContainSubstring("Search results:"))
		})

		It("should execute multiple tool calls from one reply in order", func() {
			executor.Results["web_search"] = "search output"
			executor.Results["http_request"] = "request output"
			chatter.Responses = []llm.Message{
				{
					Role: llm.RoleAssistant,
					ToolCalls: []llm.ToolCall{
						{Function: llm.ToolCallFunction{Name: "web_search", Arguments: map[string]any{"query": "a"}}},
						{Function: llm.ToolCallFunction{Name: "http_request", Arguments: map[string]any{"method": "GET", "url": "http://x"}}},
					},
				},
				llm.AssistantMessage("done"),
			}

			_, err := newOrchestrator().Generate(ctx, Request{Prompt: "hello there, friend"})
			Expect(err).NotTo(HaveOccurred())

			Expect(executor.Calls).To(HaveLen(2))
			Expect(executor.Calls[0].Name).To(Equal("web_search"))
			Expect(executor.Calls[1].Name).To(Equal("http_request"))

			second := chatter.Calls[1].Messages
			Expect(second).To(HaveLen(4))
			Expect(second[2].Content).To(Equal("search output"))
			Expect(second[3].Content).To(Equal("request output"))
		})

		It("should apologize when the depth bound is exhausted", func() {
			executor.Results["web_search"] = "still searching"
			chatter.Responses = []llm.Message{
				toolCallMessage("web_search", map[string]any{"query": "again"}),
			}

			result, err := newOrchestrator().Generate(ctx, Request{Prompt: "hello there, friend"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Text).To(Equal("I was unable to find the information after multiple searches."))

			Expect(chatter.Calls).To(HaveLen(DefaultMaxToolDepth))
			Expect(executor.Calls).To(HaveLen(DefaultMaxToolDepth))
		})
	})

	Describe("forced search", func() {
		It("should force one web search for an unanswered factual question", func() {
			executor.Results["web_search"] = "Search results:\n  [Paris]\n  capital city\n  https://example.org\n"
			chatter.Responses = []llm.Message{
				llm.AssistantMessage("Paris, from memory."),
				llm.AssistantMessage("Paris is the capital of France."),
			}

			result, err := newOrchestrator().Generate(ctx, Request{
				Prompt: "What is the capital of France?",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Text).To(Equal("Paris is the capital of France."))

			Expect(executor.Calls).To(HaveLen(1))
			Expect(executor.Calls[0].Name).To(Equal("web_search"))
			Expect(executor.Calls[0].Args).To(HaveKeyWithValue("query", "What is the capital of France?"))

			second := chatter.Calls[1].Messages
			Expect(second).To(HaveLen(3))
			Expect(second[1].Content).To(Equal("Paris, from memory."))
			Expect(second[2].Role).To(Equal(llm.RoleTool))
		})

		It("should never force a second search", func() {
			executor.Results["web_search"] = "no luck"
			chatter.Responses = []llm.Message{
				llm.AssistantMessage("guess one"),
				llm.AssistantMessage("guess two"),
			}

			result, err := newOrchestrator().Generate(ctx, Request{
				Prompt: "What is the capital of France?",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Text).To(Equal("guess two"))
			Expect(executor.Calls).To(HaveLen(1))
			Expect(chatter.Calls).To(HaveLen(2))
		})

		It("should not force a search when evidence was supplied", func() {
			chatter.Responses = []llm.Message{llm.AssistantMessage("Paris.")}

			result, err := newOrchestrator().Generate(ctx, Request{
				Prompt:   "What is the capital of France?",
				Evidence: []string{"France's capital is Paris, per the atlas."},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Text).To(Equal("Paris."))
			Expect(executor.Calls).To(BeEmpty())
		})

		It("should force a search for time-sensitive prompts despite evidence", func() {
			executor.Results["web_search"] = "current time results"
			chatter.Responses = []llm.Message{
				llm.AssistantMessage("It is noon."),
				llm.AssistantMessage("It is 14:02 UTC."),
			}

			result, err := newOrchestrator().Generate(ctx, Request{
				Prompt:   "What time is it right now in UTC?",
				Evidence: []string{"an unrelated stored passage"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Text).To(Equal("It is 14:02 UTC."))
			Expect(executor.Calls).To(HaveLen(1))
		})

		It("should unwrap the prompt before classifying it", func() {
			executor.Results["web_search"] = "population results"
			chatter.Responses = []llm.Message{
				llm.AssistantMessage("lots of people"),
				llm.AssistantMessage("About 55 million."),
			}

			_, err := newOrchestrator().Generate(ctx, Request{
				Prompt: "[CONTEXT] prior turns\n[USER PROMPT] What is the population of Kenya?",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(executor.Calls).To(HaveLen(1))
			Expect(executor.Calls[0].Args).To(HaveKeyWithValue("query", "What is the population of Kenya?"))
		})

		It("should not trigger on casual conversation", func() {
			chatter.Responses = []llm.Message{llm.AssistantMessage("Nice to meet you too.")}

			_, err := newOrchestrator().Generate(ctx, Request{Prompt: "hello there, nice to meet you"})
			Expect(err).NotTo(HaveOccurred())
			Expect(executor.Calls).To(BeEmpty())
			Expect(chatter.Calls).To(HaveLen(1))
		})
	})

	Describe("think stripping and recovery", func() {
		It("should strip think blocks from the visible text", func() {
			chatter.Responses = []llm.Message{
				llm.AssistantMessage("<think>let me reason</think>The answer."),
			}

			result, err := newOrchestrator().Generate(ctx, Request{Prompt: "hello there, friend"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Text).To(Equal("The answer."))
		})

		It("should continue the conversation after a think-only response", func() {
			chatter.Responses = []llm.Message{
				llm.AssistantMessage("<think>reasoning that never ends"),
				llm.AssistantMessage("Recovered answer."),
			}

			result, err := newOrchestrator().Generate(ctx, Request{Prompt: "hello there, friend"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Text).To(Equal("Recovered answer."))

			Expect(chatter.Calls).To(HaveLen(2))
			Expect(chatter.Calls[1].Tools).To(BeNil())

			continuation := chatter.Calls[1].Messages
			Expect(continuation).To(HaveLen(3))
			Expect(continuation[1].Role).To(Equal(llm.RoleAssistant))
			Expect(continuation[1].Content).To(Equal("<think>reasoning that never ends"))
			Expect(continuation[2].Role).To(Equal(llm.RoleUser))
			Expect(continuation[2].Content).To(Equal("Provide the final answer only."))
		})

		It("should fall back to completion when chat yields nothing", func() {
			chatter.Responses = []llm.Message{llm.AssistantMessage("")}
			completer.Response = "Fallback answer."

			result, err := newOrchestrator().Generate(ctx, Request{Prompt: "hello there, friend"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Text).To(Equal("Fallback answer."))

			Expect(completer.Calls).To(HaveLen(1))
			Expect(completer.Calls[0].Prompt).To(Equal("hello there, friend"))
			Expect(completer.Calls[0].System).To(HavePrefix("You are Hindsight."))
		})

		It("should run the whole chain for a think-only response", func() {
			chatter.Responses = []llm.Message{
				llm.AssistantMessage("<think>stuck"),
				llm.AssistantMessage("<think>still stuck"),
			}
			completer.Response = "<think>even here</think>Final words."

			result, err := newOrchestrator().Generate(ctx, Request{Prompt: "hello there, friend"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Text).To(Equal("Final words."))
			Expect(chatter.Calls).To(HaveLen(2))
			Expect(completer.Calls).To(HaveLen(1))
		})

		It("should return empty text with zero entropy when everything fails", func() {
			chatter.Responses = []llm.Message{llm.AssistantMessage("")}
			completer.Response = ""

			result, err := newOrchestrator().Generate(ctx, Request{Prompt: "hello there, friend"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Text).To(BeEmpty())
			Expect(result.Entropy).To(BeZero())
		})
	})

	Describe("rules and cipher directives in flight", func() {
		It("should keep tools available under behavioral rules", func() {
			chatter.Responses = []llm.Message{llm.AssistantMessage("OUI")}

			_, err := newOrchestrator().Generate(ctx, Request{
				Prompt:   "say yes in French",
				Evidence: []string{"[BEHAVIORAL RULES] Answer in French."},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(chatter.Calls[0].Tools).NotTo(BeEmpty())
			Expect(chatter.Calls[0].System).To(Equal(
				"[BEHAVIORAL RULES] Answer in French.\nOutput ONLY the required response. Nothing else."))
		})

		It("should keep tools available in cipher mode", func() {
			chatter.Responses = []llm.Message{llm.AssistantMessage("understood")}

			_, err := newOrchestrator().Generate(ctx, Request{
				Prompt:   "let's talk",
				Evidence: []string{"[CIPHER MODE]"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(chatter.Calls[0].Tools).NotTo(BeEmpty())
			Expect(chatter.Calls[0].System).To(ContainSubstring("private encrypted session"))
		})
	})

	Describe("Embed", func() {
		It("should pass through to the embeddings backend", func() {
			embedder.Embeddings["some text"] = []float32{0.4, 0.5, 0.6}

			embedding, err := newOrchestrator().Embed(ctx, "some text")
			Expect(err).NotTo(HaveOccurred())
			Expect(embedding).To(Equal([]float32{0.4, 0.5, 0.6}))
			Expect(embedder.Calls).To(Equal(1))
		})
	})
})
