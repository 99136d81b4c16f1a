package orchestrator

import "strings"

// Evidence entries double as a control channel: a handful of marker strings
// switch the operating mode or carry structured state. Entries are classified
// once here; everything downstream switches on Kind and never re-parses.
const (
	// MarkerReflection switches to reflection mode when an entry, trimmed,
	// equals it exactly.
	MarkerReflection = "[REFLECTION MODE]"

	// MarkerReview switches to deletion-review mode.
	MarkerReview = "[REVIEW MODE]"

	// MarkerCipher switches to the private encrypted session mode.
	MarkerCipher = "[CIPHER MODE]"

	// PrefixBehavioralRules marks an entry carrying verbatim behavioral
	// rules that replace the whole system directive.
	PrefixBehavioralRules = "[BEHAVIORAL RULES]"

	// PrefixInteriorState marks an entry carrying the interior state
	// carried over from the previous turn.
	PrefixInteriorState = "[INTERIOR STATE]"
)

// Kind discriminates classified evidence entries.
type Kind int

const (
	// KindContent is a plain evidence passage.
	KindContent Kind = iota

	// KindModeReflection is the reflection mode marker.
	KindModeReflection

	// KindModeReview is the review mode marker.
	KindModeReview

	// KindModeCipher is the cipher mode marker.
	KindModeCipher

	// KindBehavioralRule is a behavioral rules block.
	KindBehavioralRule

	// KindInteriorState is an interior state block.
	KindInteriorState
)

// Input is one classified evidence entry.
type Input struct {
	Kind Kind

	// Text is the entry as it will be rendered: trimmed for markers, rules,
	// and interior state; as given for plain content.
	Text string
}

// Inputs is a classified evidence list.
type Inputs []Input

// ClassifyInputs tags each evidence entry by its structural role.
func ClassifyInputs(evidence []string) Inputs {
	inputs := make(Inputs, 0, len(evidence))

	for _, entry := range evidence {
		trimmed := strings.TrimSpace(entry)

		switch {
		case trimmed == MarkerReflection:
			inputs = append(inputs, Input{Kind: KindModeReflection, Text: trimmed})
		case trimmed == MarkerReview:
			inputs = append(inputs, Input{Kind: KindModeReview, Text: trimmed})
		case trimmed == MarkerCipher:
			inputs = append(inputs, Input{Kind: KindModeCipher, Text: trimmed})
		case strings.HasPrefix(trimmed, PrefixBehavioralRules):
			inputs = append(inputs, Input{Kind: KindBehavioralRule, Text: trimmed})
		case strings.HasPrefix(trimmed, PrefixInteriorState):
			inputs = append(inputs, Input{Kind: KindInteriorState, Text: trimmed})
		default:
			inputs = append(inputs, Input{Kind: KindContent, Text: entry})
		}
	}

	return inputs
}

// Has reports whether any entry of the given kind is present.
func (in Inputs) Has(kind Kind) bool {
	for _, input := range in {
		if input.Kind == kind {
			return true
		}
	}
	return false
}

// Texts returns the texts of every entry of the given kind, in order.
func (in Inputs) Texts(kind Kind) []string {
	var texts []string
	for _, input := range in {
		if input.Kind == kind {
			texts = append(texts, input.Text)
		}
	}
	return texts
}
