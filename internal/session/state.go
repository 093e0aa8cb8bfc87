// Package session sequences a quiz from loading to summary.
package session

import (
	"time"

	"lingoquiz/internal/question"
	"lingoquiz/internal/score"
	"lingoquiz/internal/store"
)

// Phase is the position of a session in its lifecycle.
type Phase string

const (
	PhaseIntro    Phase = "intro"
	PhaseLoading  Phase = "loading"
	PhaseQuestion Phase = "question"
	PhaseFeedback Phase = "feedback"
	PhaseSummary  Phase = "summary"
	PhaseError    Phase = "error"
)

// Active reports whether a question is on screen and the clock runs.
func (p Phase) Active() bool {
	return p == PhaseQuestion || p == PhaseFeedback
}

// SaveState tracks the persistence step of a finished session.
type SaveState string

const (
	SaveIdle   SaveState = ""
	SaveDone   SaveState = "saved"
	SaveFailed SaveState = "failed"
)

// SaveStatus reports the outcome of the last save attempt.
type SaveStatus struct {
	State   SaveState
	Receipt store.Receipt
	Error   string
}

// Totals are the running point pools.
type Totals struct {
	Objective score.Tally
	FreeText  score.Tally
}

// Overall merges both pools.
func (t Totals) Overall() score.Tally {
	return t.Objective.Plus(t.FreeText)
}

func (t Totals) add(kind question.Kind, earned, possible int) Totals {
	if kind == question.KindFreeText {
		t.FreeText = t.FreeText.Add(earned, possible)
	} else {
		t.Objective = t.Objective.Add(earned, possible)
	}
	return t
}

// State is the complete value of one session. Reduce never mutates a State in place.
type State struct {
	ID         string
	TestID     string
	Phase      Phase
	Questions  []question.Prepared
	Index      int
	Results    map[string]score.Record
	Timed      bool
	TimeLimit  time.Duration
	Remaining  time.Duration
	Totals     Totals
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
	TimedOut   bool
	Save       SaveStatus
}

// Current returns the question at Index while one is on screen.
func (s State) Current() (question.Prepared, bool) {
	if !s.Phase.Active() || s.Index < 0 || s.Index >= len(s.Questions) {
		return question.Prepared{}, false
	}
	return s.Questions[s.Index], true
}

// Record returns the stored result of a question.
func (s State) Record(id string) (score.Record, bool) {
	record, ok := s.Results[id]
	return record, ok
}

func (s State) withRecord(record score.Record) State {
	results := make(map[string]score.Record, len(s.Results)+1)
	for id, existing := range s.Results {
		results[id] = existing
	}
	results[record.QuestionID] = record
	s.Results = results
	s.Totals = s.Totals.add(record.Kind, record.Grade.PointsEarned, record.Grade.PointsPossible)
	return s
}
