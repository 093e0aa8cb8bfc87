// Package score aggregates per-question results into pools, a review log and an export payload.
package score

import (
	"lingoquiz/internal/grading"
	"lingoquiz/internal/question"
)

// Record is the stored outcome of one question in a session.
type Record struct {
	QuestionID string         `json:"question_id"`
	Kind       question.Kind  `json:"kind"`
	Input      string         `json:"input,omitempty"`
	Skipped    bool           `json:"skipped"`
	TimedOut   bool           `json:"timed_out,omitempty"`
	Grade      grading.Result `json:"grade"`
}

// Graded records a submitted response and its verdict.
func Graded(q question.Prepared, r grading.Response, result grading.Result) Record {
	return Record{
		QuestionID: q.ID,
		Kind:       q.Kind,
		Input:      r.Display(q),
		Grade:      result,
	}
}

// Skipped records a question the learner passed on or ran out of time for. It earns nothing
// but keeps its full possible points.
func Skipped(q question.Prepared, timedOut bool) Record {
	return Record{
		QuestionID: q.ID,
		Kind:       q.Kind,
		Skipped:    true,
		TimedOut:   timedOut,
		Grade: grading.Result{
			PointsPossible: Possible(q),
			Detail:         grading.Detail{Status: grading.StatusIncorrect, Note: skipNote(timedOut)},
		},
	}
}

// Possible returns the points a question is worth before it is graded.
func Possible(q question.Prepared) int {
	switch {
	case q.Kind == question.KindFreeText && len(q.Checks) > 0:
		return len(q.Checks)
	case q.Kind == question.KindFreeText:
		return 1
	case (q.Kind == question.KindChoice || q.Kind == question.KindTrueFalse) && len(q.Options) == 0:
		return 0
	default:
		return q.Points
	}
}

func skipNote(timedOut bool) string {
	if timedOut {
		return "timed out"
	}
	return "skipped"
}
