package rubric

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"lingoquiz/internal/answer"
)

// Check type names as they appear in question banks.
const (
	TypeMinWords    = "min_words"
	TypeMaxWords    = "max_words"
	TypeContainsAny = "contains_any"
	TypeContainsAll = "contains_all"
	TypeStartsWith  = "starts_with"
	TypeEndsWith    = "ends_with"
	TypeCharCount   = "char_count"
)

// ErrUnknownCheck is returned for a check type this package does not implement.
var ErrUnknownCheck = errors.New("unknown check type")

// Spec is the serialized form of a check.
type Spec struct {
	Type  string   `json:"type" yaml:"type"`
	Label string   `json:"label,omitempty" yaml:"label,omitempty"`
	Value int      `json:"value,omitempty" yaml:"value,omitempty"`
	Text  string   `json:"text,omitempty" yaml:"text,omitempty"`
	Terms []string `json:"terms,omitempty" yaml:"terms,omitempty"`
}

// Build converts a spec into its check variant.
func (s Spec) Build() (Check, error) {
	switch strings.ToLower(strings.TrimSpace(s.Type)) {
	case TypeMinWords:
		if s.Value <= 0 {
			return nil, fmt.Errorf("%s: value must be positive", TypeMinWords)
		}
		return MinWords{N: s.Value}, nil
	case TypeMaxWords:
		if s.Value <= 0 {
			return nil, fmt.Errorf("%s: value must be positive", TypeMaxWords)
		}
		return MaxWords{N: s.Value}, nil
	case TypeContainsAny:
		terms, err := requireComparable(TypeContainsAny, s.Terms)
		if err != nil {
			return nil, err
		}
		return ContainsAny{Terms: terms}, nil
	case TypeContainsAll:
		terms, err := requireComparable(TypeContainsAll, s.Terms)
		if err != nil {
			return nil, err
		}
		return ContainsAll{Terms: terms}, nil
	case TypeStartsWith:
		text := strings.TrimSpace(s.Text)
		if text == "" && len(s.Terms) == 1 {
			text = strings.TrimSpace(s.Terms[0])
		}
		if text == "" {
			return nil, fmt.Errorf("%s: text is required", TypeStartsWith)
		}
		if answer.Normalize(text) == "" {
			return nil, fmt.Errorf("%s: term %q has no comparable text", TypeStartsWith, text)
		}
		return StartsWith{Text: text}, nil
	case TypeEndsWith:
		terms := s.Terms
		if len(terms) == 0 && s.Text != "" {
			terms = []string{s.Text}
		}
		terms, err := requireTerms(TypeEndsWith, terms)
		if err != nil {
			return nil, err
		}
		return EndsWith{Terms: terms}, nil
	case TypeCharCount:
		if utf8.RuneCountInString(s.Text) != 1 {
			return nil, fmt.Errorf("%s: text must be a single character", TypeCharCount)
		}
		if s.Value <= 0 {
			return nil, fmt.Errorf("%s: value must be positive", TypeCharCount)
		}
		return CharCount{Char: s.Text, Min: s.Value}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownCheck, s.Type)
	}
}

func requireTerms(kind string, terms []string) ([]string, error) {
	cleaned := make([]string, 0, len(terms))
	for _, term := range terms {
		if trimmed := strings.TrimSpace(term); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%s: terms must include at least one entry", kind)
	}
	return cleaned, nil
}

// requireComparable is requireTerms for checks that match on the normalized answer,
// where a punctuation-only term would match everything.
func requireComparable(kind string, terms []string) ([]string, error) {
	cleaned, err := requireTerms(kind, terms)
	if err != nil {
		return nil, err
	}
	for _, term := range cleaned {
		if answer.Normalize(term) == "" {
			return nil, fmt.Errorf("%s: term %q has no comparable text", kind, term)
		}
	}
	return cleaned, nil
}
