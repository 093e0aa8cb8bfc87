package grading

import (
	"strconv"
	"strings"

	"lingoquiz/internal/question"
)

// Status classifies a graded answer for display and review.
type Status string

const (
	StatusCorrect   Status = "correct"
	StatusIncorrect Status = "incorrect"
	StatusPartial   Status = "partial"
	StatusUngraded  Status = "ungraded"
)

const (
	noteAmbiguousKey = "ungraded: ambiguous key"
	noteNoOptions    = "ungraded: no options"
	noteUnknownKind  = "ungraded: unknown kind"
	noteEmpty        = "empty response"
)

// Response is a candidate answer: a chosen option, typed text or both.
type Response struct {
	Index *int   `json:"index,omitempty"`
	Text  string `json:"text,omitempty"`
}

// Choose returns a response selecting option i.
func Choose(i int) Response {
	return Response{Index: &i}
}

// Text returns a typed response.
func Text(value string) Response {
	return Response{Text: value}
}

// Value returns the raw submitted value as a string.
func (r Response) Value() string {
	if r.Text != "" {
		return r.Text
	}
	if r.Index != nil {
		return strconv.Itoa(*r.Index)
	}
	return ""
}

// Display returns the submitted value as the learner saw it, using option labels when possible.
func (r Response) Display(q question.Prepared) string {
	if r.Index != nil && *r.Index >= 0 && *r.Index < len(q.Options) {
		return q.Options[*r.Index]
	}
	return r.Value()
}

// Empty reports whether nothing was submitted.
func (r Response) Empty() bool {
	return r.Index == nil && strings.TrimSpace(r.Text) == ""
}

// CheckOutcome is the verdict of one rubric check.
type CheckOutcome struct {
	Label  string `json:"label"`
	Passed bool   `json:"passed"`
}

// Detail explains a verdict.
type Detail struct {
	Status   Status         `json:"status"`
	Note     string         `json:"note,omitempty"`
	Expected string         `json:"expected,omitempty"`
	Accepted []string       `json:"accepted,omitempty"`
	Checks   []CheckOutcome `json:"checks,omitempty"`
}

// Result is the outcome of grading one response.
type Result struct {
	Correct        bool   `json:"correct"`
	PointsEarned   int    `json:"points_earned"`
	PointsPossible int    `json:"points_possible"`
	Detail         Detail `json:"detail"`
}

// Ungraded reports whether the question could not be graded.
func (r Result) Ungraded() bool {
	return r.Detail.Status == StatusUngraded
}

func ungraded(possible int, note string) Result {
	return Result{PointsPossible: possible, Detail: Detail{Status: StatusUngraded, Note: note}}
}

func binary(points int, correct bool, detail Detail) Result {
	result := Result{Correct: correct, PointsPossible: points, Detail: detail}
	result.Detail.Status = StatusIncorrect
	if correct {
		result.PointsEarned = points
		result.Detail.Status = StatusCorrect
	}
	return result
}
