// Package rubric models the independently scorable checks applied to free-text answers.
package rubric

import (
	"fmt"
	"strings"

	"lingoquiz/internal/answer"
)

// Check is one boolean condition over a free-text answer worth exactly one point.
// The set of variants is closed; new kinds are added here and in Spec.Build.
type Check interface {
	Name() string
	Passes(text string) bool
	isCheck()
}

// MinWords passes when the answer has at least N words.
type MinWords struct{ N int }

// MaxWords passes when the answer has at most N words.
type MaxWords struct{ N int }

// ContainsAny passes when the answer mentions at least one term.
type ContainsAny struct{ Terms []string }

// ContainsAll passes when the answer mentions every term.
type ContainsAll struct{ Terms []string }

// StartsWith passes when the answer opens with Text.
type StartsWith struct{ Text string }

// EndsWith passes when the answer closes with one of Terms.
type EndsWith struct{ Terms []string }

// CharCount passes when Char occurs at least Min times.
type CharCount struct {
	Char string
	Min  int
}

func (MinWords) isCheck()    {}
func (MaxWords) isCheck()    {}
func (ContainsAny) isCheck() {}
func (ContainsAll) isCheck() {}
func (StartsWith) isCheck()  {}
func (EndsWith) isCheck()    {}
func (CharCount) isCheck()   {}

func (c MinWords) Name() string { return fmt.Sprintf("at least %d words", c.N) }

func (c MinWords) Passes(text string) bool { return answer.WordCount(text) >= c.N }

func (c MaxWords) Name() string { return fmt.Sprintf("at most %d words", c.N) }

func (c MaxWords) Passes(text string) bool { return answer.WordCount(text) <= c.N }

func (c ContainsAny) Name() string { return "mentions any of: " + strings.Join(c.Terms, ", ") }

func (c ContainsAny) Passes(text string) bool {
	normalized := answer.Normalize(text)
	for _, term := range c.Terms {
		if strings.Contains(normalized, answer.Normalize(term)) {
			return true
		}
	}
	return false
}

func (c ContainsAll) Name() string { return "mentions all of: " + strings.Join(c.Terms, ", ") }

func (c ContainsAll) Passes(text string) bool {
	normalized := answer.Normalize(text)
	for _, term := range c.Terms {
		if !strings.Contains(normalized, answer.Normalize(term)) {
			return false
		}
	}
	return len(c.Terms) > 0
}

func (c StartsWith) Name() string { return fmt.Sprintf("starts with %q", c.Text) }

func (c StartsWith) Passes(text string) bool {
	return strings.HasPrefix(answer.Normalize(text), answer.Normalize(c.Text))
}

func (c EndsWith) Name() string { return "ends with one of: " + strings.Join(c.Terms, " ") }

// Passes compares against the trimmed raw text so terminal punctuation can be required.
func (c EndsWith) Passes(text string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(text))
	for _, term := range c.Terms {
		if strings.HasSuffix(trimmed, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

func (c CharCount) Name() string { return fmt.Sprintf("uses %q at least %d times", c.Char, c.Min) }

func (c CharCount) Passes(text string) bool {
	return strings.Count(text, c.Char) >= c.Min
}
