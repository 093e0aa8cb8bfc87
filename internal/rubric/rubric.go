package rubric

import "fmt"

// Rubric is the scoring guide of a free-text question.
type Rubric struct {
	MinWords int    `json:"min_words,omitempty" yaml:"min_words,omitempty"`
	MaxWords int    `json:"max_words,omitempty" yaml:"max_words,omitempty"`
	Checks   []Spec `json:"checks,omitempty" yaml:"checks,omitempty"`
}

// Item is a built check together with the label shown in review logs.
type Item struct {
	Label string
	Check Check
}

// Build expands the word bounds into leading checks and builds every listed check in order.
func (r Rubric) Build() ([]Item, error) {
	items := make([]Item, 0, len(r.Checks)+2)
	if r.MinWords < 0 || r.MaxWords < 0 {
		return nil, fmt.Errorf("word bounds must not be negative")
	}
	if r.MinWords > 0 && r.MaxWords > 0 && r.MinWords > r.MaxWords {
		return nil, fmt.Errorf("min_words %d exceeds max_words %d", r.MinWords, r.MaxWords)
	}
	if r.MinWords > 0 {
		check := MinWords{N: r.MinWords}
		items = append(items, Item{Label: check.Name(), Check: check})
	}
	if r.MaxWords > 0 {
		check := MaxWords{N: r.MaxWords}
		items = append(items, Item{Label: check.Name(), Check: check})
	}
	for i, spec := range r.Checks {
		check, err := spec.Build()
		if err != nil {
			return nil, fmt.Errorf("checks[%d]: %w", i, err)
		}
		label := spec.Label
		if label == "" {
			label = check.Name()
		}
		items = append(items, Item{Label: label, Check: check})
	}
	return items, nil
}

// Empty reports whether the rubric defines no checks at all.
func (r Rubric) Empty() bool {
	return r.MinWords == 0 && r.MaxWords == 0 && len(r.Checks) == 0
}
