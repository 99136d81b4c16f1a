package orchestrator

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("stripThink", func() {
	It("should remove a closed think block", func() {
		Expect(stripThink("<think>step by step</think>The answer is 4.")).
			To(Equal("The answer is 4."))
	})

	It("should remove multiple think blocks", func() {
		Expect(stripThink("<think>one</think>First.<think>two</think> Second.")).
			To(Equal("First. Second."))
	})

	It("should remove an unterminated trailing block", func() {
		Expect(stripThink("Partial answer.<think>never closed")).
			To(Equal("Partial answer."))
	})

	It("should reduce a think-only response to empty", func() {
		Expect(stripThink("<think>all reasoning, no answer")).To(BeEmpty())
	})

	It("should span newlines inside blocks", func() {
		Expect(stripThink("<think>line one\nline two\n</think>Done.")).To(Equal("Done."))
	})

	It("should trim surrounding whitespace", func() {
		Expect(stripThink("  <think>x</think>  spaced out  ")).To(Equal("spaced out"))
	})

	It("should pass through text without blocks", func() {
		Expect(stripThink("nothing to strip")).To(Equal("nothing to strip"))
	})
})
