package orchestrator

import (
	"regexp"
	"strings"
)

var (
	thinkBlockPattern = regexp.MustCompile(`(?s)<think>.*?</think>`)
	thinkTailPattern  = regexp.MustCompile(`(?s)<think>.*`)
)

// stripThink removes <think> reasoning blocks, including an unterminated
// trailing one, and trims the remainder.
func stripThink(text string) string {
	out := thinkBlockPattern.ReplaceAllString(text, "")
	out = thinkTailPattern.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}
