package question

import (
	"fmt"
	"strings"
)

type issueCollector struct {
	issues []Issue
}

func (collector *issueCollector) add(field, message string) {
	collector.issues = append(collector.issues, Issue{Field: field, Message: message})
}

func (collector *issueCollector) result() error {
	if len(collector.issues) == 0 {
		return nil
	}
	return &MalformedError{Issues: collector.issues}
}

// Validate checks raw questions before preparation. An empty bank returns ErrBankEmpty;
// every other problem is collected into a *MalformedError.
func Validate(questions []Question) error {
	if len(questions) == 0 {
		return ErrBankEmpty
	}
	collector := &issueCollector{}
	for i, question := range questions {
		prefix := fmt.Sprintf("questions[%d]", i)
		kind, ok := ParseKind(question.KindName())
		if !ok {
			if kind == "" {
				collector.add(prefix+".kind", "is required")
			} else {
				collector.add(prefix+".kind", fmt.Sprintf("unsupported kind %q", question.KindName()))
			}
		}
		if strings.TrimSpace(question.Prompt) == "" {
			collector.add(prefix+".prompt", "is required")
		}
		if question.Kind != "" && question.Type != "" && !sameKind(question.Kind, question.Type) {
			collector.add(prefix+".type", "conflicts with kind")
		}
		if question.Points < 0 {
			collector.add(prefix+".points", "must not be negative")
		}
		if question.Rubric != nil {
			if kind != KindFreeText {
				collector.add(prefix+".rubric", "is only allowed on free_text questions")
			} else if _, err := question.Rubric.Build(); err != nil {
				collector.add(prefix+".rubric", err.Error())
			}
		}
	}
	return collector.result()
}

func sameKind(a, b Kind) bool {
	parsedA, _ := ParseKind(string(a))
	parsedB, _ := ParseKind(string(b))
	return parsedA == parsedB
}
