package score

import (
	"strings"

	"lingoquiz/internal/grading"
	"lingoquiz/internal/question"
)

// VerdictUnanswered marks review rows of questions that have no record yet.
const VerdictUnanswered grading.Status = "unanswered"

// Report is the aggregated outcome of a session.
type Report struct {
	Questions []QuestionSummary `json:"questions"`
	Objective Tally             `json:"objective"`
	FreeText  Tally             `json:"free_text"`
	Overall   Tally             `json:"overall"`
	Percent   int               `json:"percent"`
	Answered  int               `json:"answered"`
	Skipped   int               `json:"skipped"`
	Ungraded  int               `json:"ungraded"`
	Review    []ReviewRow       `json:"review"`
}

// QuestionSummary is the exported form of a prepared question.
type QuestionSummary struct {
	ID      string        `json:"id"`
	Kind    question.Kind `json:"kind"`
	Prompt  string        `json:"prompt"`
	Options []string      `json:"options,omitempty"`
	Points  int           `json:"points"`
	Task    string        `json:"task,omitempty"`
}

// ReviewRow is one line of the review log.
type ReviewRow struct {
	Position    int                    `json:"position"`
	QuestionID  string                 `json:"question_id"`
	Prompt      string                 `json:"prompt"`
	Kind        question.Kind          `json:"kind"`
	Submitted   string                 `json:"submitted"`
	Skipped     bool                   `json:"skipped"`
	TimedOut    bool                   `json:"timed_out,omitempty"`
	Expected    string                 `json:"expected,omitempty"`
	Checks      []grading.CheckOutcome `json:"checks,omitempty"`
	Verdict     grading.Status         `json:"verdict"`
	Correct     bool                   `json:"correct"`
	Earned      int                    `json:"earned"`
	Possible    int                    `json:"possible"`
	Ungraded    bool                   `json:"ungraded"`
	Note        string                 `json:"note,omitempty"`
	Explanation string                 `json:"explanation,omitempty"`
}

// Summarize splits results into objective and free-text pools and builds the review log in
// session order. Questions without a record count as unanswered with full possible points.
func Summarize(questions []question.Prepared, records map[string]Record) Report {
	report := Report{
		Questions: make([]QuestionSummary, 0, len(questions)),
		Review:    make([]ReviewRow, 0, len(questions)),
	}
	for i, q := range questions {
		report.Questions = append(report.Questions, QuestionSummary{
			ID:      q.ID,
			Kind:    q.Kind,
			Prompt:  q.Prompt,
			Options: q.Options,
			Points:  Possible(q),
			Task:    q.Task,
		})
		record, ok := records[q.ID]
		row := reviewRow(i+1, q, record, ok)
		report.Review = append(report.Review, row)

		if q.Kind == question.KindFreeText {
			report.FreeText = report.FreeText.Add(row.Earned, row.Possible)
		} else {
			report.Objective = report.Objective.Add(row.Earned, row.Possible)
		}
		switch {
		case !ok:
		case record.Skipped:
			report.Skipped++
		default:
			report.Answered++
		}
		if row.Ungraded {
			report.Ungraded++
		}
	}
	report.Overall = report.Objective.Plus(report.FreeText)
	report.Percent = report.Overall.Percent()
	return report
}

func reviewRow(position int, q question.Prepared, record Record, ok bool) ReviewRow {
	row := ReviewRow{
		Position:    position,
		QuestionID:  q.ID,
		Prompt:      q.Prompt,
		Kind:        q.Kind,
		Expected:    expected(q),
		Explanation: q.Explanation,
	}
	if !ok {
		row.Verdict = VerdictUnanswered
		row.Possible = Possible(q)
		return row
	}
	grade := record.Grade
	row.Submitted = record.Input
	row.Skipped = record.Skipped
	row.TimedOut = record.TimedOut
	row.Verdict = grade.Detail.Status
	row.Correct = grade.Correct
	row.Earned = grade.PointsEarned
	row.Possible = grade.PointsPossible
	row.Ungraded = grade.Ungraded()
	row.Note = grade.Detail.Note
	row.Checks = grade.Detail.Checks
	if record.Skipped {
		row.Submitted = "skipped"
	}
	if grade.Detail.Expected != "" {
		row.Expected = grade.Detail.Expected
	}
	if q.Kind == question.KindFreeText && len(row.Checks) == 0 {
		row.Checks = pendingChecks(q)
	}
	return row
}

func expected(q question.Prepared) string {
	switch q.Kind {
	case question.KindFillBlank:
		return strings.Join(q.Accepted, " / ")
	case question.KindFreeText:
		labels := make([]string, 0, len(q.Checks))
		for _, item := range q.Checks {
			labels = append(labels, item.Label)
		}
		return strings.Join(labels, "; ")
	default:
		value, _ := q.CorrectOption()
		return value
	}
}

func pendingChecks(q question.Prepared) []grading.CheckOutcome {
	if len(q.Checks) == 0 {
		return nil
	}
	outcomes := make([]grading.CheckOutcome, 0, len(q.Checks))
	for _, item := range q.Checks {
		outcomes = append(outcomes, grading.CheckOutcome{Label: item.Label})
	}
	return outcomes
}
