package grading

import (
	"strings"

	"lingoquiz/internal/question"
)

// gradeFreeText awards one point per passing rubric check. Without checks a non-empty
// response completes the question.
func gradeFreeText(q question.Prepared, r Response) Result {
	text := r.Text
	blank := strings.TrimSpace(text) == ""
	if len(q.Checks) == 0 {
		if blank {
			return Result{PointsPossible: 1, Detail: Detail{Status: StatusIncorrect, Note: noteEmpty}}
		}
		return Result{Correct: true, PointsEarned: 1, PointsPossible: 1, Detail: Detail{Status: StatusCorrect, Note: "completion"}}
	}

	outcomes := make([]CheckOutcome, 0, len(q.Checks))
	earned := 0
	for _, item := range q.Checks {
		passed := !blank && item.Check.Passes(text)
		if passed {
			earned++
		}
		outcomes = append(outcomes, CheckOutcome{Label: item.Label, Passed: passed})
	}
	result := Result{
		Correct:        earned == len(q.Checks),
		PointsEarned:   earned,
		PointsPossible: len(q.Checks),
		Detail:         Detail{Checks: outcomes},
	}
	switch {
	case result.Correct:
		result.Detail.Status = StatusCorrect
	case earned > 0:
		result.Detail.Status = StatusPartial
	default:
		result.Detail.Status = StatusIncorrect
	}
	if blank {
		result.Detail.Note = noteEmpty
	}
	return result
}
