// Package answer holds the pure text and value normalizers every grader relies on.
package answer

import (
	"strings"
	"unicode"
)

// sentenceEnd is the set of trailing characters stripped by Normalize, plus the space that
// can be uncovered once punctuation is removed.
const sentenceEnd = ".,!?;:… "

// Normalize returns the loose comparison form of a value: lower-cased, trimmed, whitespace runs
// collapsed to one space and trailing sentence punctuation removed.
func Normalize(value string) string {
	folded := strings.Join(strings.Fields(strings.ToLower(value)), " ")
	return strings.TrimRight(folded, sentenceEnd)
}

// Tight returns the strict comparison form of a value: lower-cased letters and digits only.
// "Don't" and "dont" share a tight form.
func Tight(value string) string {
	var builder strings.Builder
	builder.Grow(len(value))
	for _, r := range strings.ToLower(value) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// Words splits text on whitespace and drops empty entries.
func Words(text string) []string {
	return strings.Fields(text)
}

// WordCount reports how many whitespace-separated words text contains.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Slug turns a prompt into an id fragment of at most max runes. Letters and digits are kept,
// every other run of characters becomes a single dash.
func Slug(value string, max int) string {
	var builder strings.Builder
	pendingDash := false
	count := 0
	for _, r := range strings.ToLower(value) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			pendingDash = builder.Len() > 0
			continue
		}
		if max > 0 && count >= max {
			break
		}
		if pendingDash {
			if max > 0 && count+1 >= max {
				break
			}
			builder.WriteByte('-')
			count++
			pendingDash = false
		}
		builder.WriteRune(r)
		count++
	}
	return builder.String()
}
