package question

import (
	"strings"

	"lingoquiz/internal/rubric"
)

// Kind selects how a question is graded.
type Kind string

const (
	KindChoice    Kind = "choice"
	KindTrueFalse Kind = "true_false"
	KindFillBlank Kind = "fill_blank"
	KindFreeText  Kind = "free_text"
)

// Kinds lists every supported kind in display order.
var Kinds = []Kind{KindChoice, KindTrueFalse, KindFillBlank, KindFreeText}

// ParseKind normalizes a kind name and reports whether it is supported.
// Separators are ignored, so "TrueFalse", "true-false" and "true_false" are the same kind.
func ParseKind(value string) (Kind, bool) {
	kind := Kind(strings.ToLower(strings.TrimSpace(value)))
	squashed := squashKind(string(kind))
	for _, known := range Kinds {
		if kind == known || squashed == squashKind(string(known)) {
			return known, true
		}
	}
	return kind, false
}

func squashKind(value string) string {
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(value)
}

// Objective reports whether the kind has a single right answer.
func (k Kind) Objective() bool {
	return k == KindChoice || k == KindTrueFalse || k == KindFillBlank
}

// Bank is the file envelope of a question bank loaded from JSON or YAML.
type Bank struct {
	Version   int        `json:"version" yaml:"version"`
	ID        string     `json:"id,omitempty" yaml:"id,omitempty"`
	Title     string     `json:"title,omitempty" yaml:"title,omitempty"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Question is one raw bank record as supplied by content authors.
// CorrectAnswer holds an option index, a string, a list of strings or a boolean.
type Question struct {
	ID              string         `json:"id,omitempty" yaml:"id,omitempty"`
	Kind            Kind           `json:"kind,omitempty" yaml:"kind,omitempty"`
	Type            Kind           `json:"type,omitempty" yaml:"type,omitempty"`
	Prompt          string         `json:"prompt" yaml:"prompt"`
	Options         []string       `json:"options,omitempty" yaml:"options,omitempty"`
	CorrectAnswer   any            `json:"correct_answer,omitempty" yaml:"correct_answer,omitempty"`
	AcceptedAnswers []string       `json:"accepted_answers,omitempty" yaml:"accepted_answers,omitempty"`
	Rubric          *rubric.Rubric `json:"rubric,omitempty" yaml:"rubric,omitempty"`
	Points          int            `json:"points,omitempty" yaml:"points,omitempty"`
	Task            string         `json:"task,omitempty" yaml:"task,omitempty"`
	Audio           string         `json:"audio,omitempty" yaml:"audio,omitempty"`
	Explanation     string         `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// KindName returns the declared kind, accepting the type key as an alias.
func (q Question) KindName() string {
	if strings.TrimSpace(string(q.Kind)) != "" {
		return string(q.Kind)
	}
	return string(q.Type)
}

// Prepared is a question ready for a session: id assigned, options in display order and the
// answer key resolved for its kind.
type Prepared struct {
	ID          string
	Kind        Kind
	Prompt      string
	Options     []string
	Points      int
	Task        string
	Audio       string
	Explanation string
	SourceIndex int

	// CorrectIndex points into Options for choice and true/false items with a usable index key.
	CorrectIndex *int
	// CorrectText is set for choice items keyed by option text instead of an index.
	CorrectText string
	// Accepted lists the acceptable fill-in answers as written in the bank.
	Accepted []string
	// Rubric is the source rubric; Checks holds its built items.
	Rubric rubric.Rubric
	Checks []rubric.Item
	// KeyIssue is set when the answer key could not be resolved.
	KeyIssue *AmbiguousKeyError
}

// CorrectOption returns the text of the correct option when it is known.
func (p Prepared) CorrectOption() (string, bool) {
	if p.CorrectIndex != nil && *p.CorrectIndex >= 0 && *p.CorrectIndex < len(p.Options) {
		return p.Options[*p.CorrectIndex], true
	}
	if p.CorrectText != "" {
		return p.CorrectText, true
	}
	return "", false
}
