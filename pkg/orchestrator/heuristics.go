package orchestrator

import (
	"regexp"
	"strings"
)

// Forced-search heuristics. The model is supposed to call web_search on its
// own for factual questions; these patterns catch the cases where it
// answers from memory instead.
var (
	factualQuestionWords = regexp.MustCompile(`(?i)\b(who|what|where|when|how much|how many|how long|how far|how old)\b`)

	factualKeywords = regexp.MustCompile(`(?i)\b(phone|address|number|hours|time|price|cost|population|capital|zip code|weather|score|rate|salary|distance|actor|actress|played|starred|directed|wrote|born|died|founded|invented|discovered|released|published)\b`)

	urlPattern = regexp.MustCompile(`(?i)https?://\S+|www\.\S+|\b\w+\.(com|net|org|io|dev|ai)\b`)

	timeSensitivePattern = regexp.MustCompile(`(?i)\b(current time|what time|time in|time zone|timezone|local time|get the time|right now|cst|est|pst|mst|utc|gmt)\b`)
)

// isFactualQuestion requires question structure AND a factual-domain
// keyword, so plain chit-chat never trips a forced search.
func isFactualQuestion(text string) bool {
	hasQuestionWord := factualQuestionWords.MatchString(text)
	hasFactualKeyword := factualKeywords.MatchString(text)
	hasQuestionMark := strings.Contains(text, "?")
	return (hasQuestionMark || hasQuestionWord) && hasFactualKeyword
}

// containsURL reports whether the prompt carries a URL or bare domain.
func containsURL(text string) bool {
	return urlPattern.MatchString(text)
}

// isTimeSensitive reports whether the prompt asks for real-time clock or
// timezone data that stored evidence can never answer.
func isTimeSensitive(text string) bool {
	return timeSensitivePattern.MatchString(text)
}

// extractRawPrompt unwraps a structurally wrapped prompt, keeping only the
// text after the last "[USER PROMPT]" tag when one is present.
func extractRawPrompt(prompt string) string {
	const tag = "[USER PROMPT]"
	if idx := strings.LastIndex(prompt, tag); idx >= 0 {
		return strings.TrimSpace(prompt[idx+len(tag):])
	}
	return prompt
}
