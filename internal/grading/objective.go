package grading

import (
	"strings"

	"lingoquiz/internal/answer"
	"lingoquiz/internal/question"
)

func gradeChoice(q question.Prepared, r Response) Result {
	if len(q.Options) == 0 {
		return ungraded(0, noteNoOptions)
	}
	expected, known := q.CorrectOption()
	if q.KeyIssue != nil || !known {
		return ungraded(q.Points, noteAmbiguousKey)
	}
	detail := Detail{Expected: expected}
	if q.CorrectIndex != nil && r.Index != nil {
		return binary(q.Points, *r.Index == *q.CorrectIndex, detail)
	}
	chosen := answer.Tight(r.Display(q))
	return binary(q.Points, chosen != "" && chosen == answer.Tight(expected), detail)
}

func gradeTrueFalse(q question.Prepared, r Response) Result {
	if len(q.Options) == 0 {
		return ungraded(0, noteNoOptions)
	}
	if q.KeyIssue != nil || q.CorrectIndex == nil || *q.CorrectIndex >= len(q.Options) {
		return ungraded(q.Points, noteAmbiguousKey)
	}
	detail := Detail{Expected: q.Options[*q.CorrectIndex]}
	if r.Index != nil {
		return binary(q.Points, *r.Index == *q.CorrectIndex, detail)
	}
	index, ok := optionForText(q.Options, r.Text)
	return binary(q.Points, ok && index == *q.CorrectIndex, detail)
}

// optionForText maps typed text onto an option, by label first and then by boolean meaning.
func optionForText(options []string, text string) (int, bool) {
	tight := answer.Tight(text)
	if tight == "" {
		return 0, false
	}
	for i, option := range options {
		if answer.Tight(option) == tight {
			return i, true
		}
	}
	target, ok := answer.CoerceBool(text)
	if !ok {
		return 0, false
	}
	for i, option := range options {
		if value, ok := answer.CoerceBool(option); ok && value == target {
			return i, true
		}
	}
	return 0, false
}

func gradeFillBlank(q question.Prepared, r Response) Result {
	if q.KeyIssue != nil {
		return ungraded(q.Points, noteAmbiguousKey)
	}
	set, display := acceptedSet(q.Accepted)
	if len(set) == 0 {
		return ungraded(q.Points, noteAmbiguousKey)
	}
	detail := Detail{Expected: strings.Join(display, " / "), Accepted: display}
	tight := answer.Tight(r.Text)
	_, ok := set[tight]
	return binary(q.Points, tight != "" && ok, detail)
}

// acceptedSet returns the tight forms of the accepted answers and, for display, the first
// spelling of each distinct form.
func acceptedSet(accepted []string) (map[string]struct{}, []string) {
	set := make(map[string]struct{}, len(accepted))
	display := make([]string, 0, len(accepted))
	for _, value := range accepted {
		tight := answer.Tight(value)
		if tight == "" {
			continue
		}
		if _, seen := set[tight]; seen {
			continue
		}
		set[tight] = struct{}{}
		display = append(display, strings.TrimSpace(value))
	}
	return set, display
}
