package session

import (
	"time"

	"lingoquiz/internal/question"
	"lingoquiz/internal/score"
)

// Snapshot is a render-ready view of a session.
type Snapshot struct {
	SessionID string
	TestID    string
	Phase     Phase
	// Position is 1-based; zero outside the question phases.
	Position  int
	Total     int
	Question  *question.Prepared
	Last      *score.Record
	Answered  int
	Timed     bool
	Remaining time.Duration
	TimedOut  bool
	Objective score.Tally
	FreeText  score.Tally
	Overall   score.Tally
	Error     string
	Save      SaveStatus
}

// Snapshot derives the view of the state.
func (s State) Snapshot() Snapshot {
	snapshot := Snapshot{
		SessionID: s.ID,
		TestID:    s.TestID,
		Phase:     s.Phase,
		Total:     len(s.Questions),
		Answered:  len(s.Results),
		Timed:     s.Timed,
		Remaining: s.Remaining,
		TimedOut:  s.TimedOut,
		Objective: s.Totals.Objective,
		FreeText:  s.Totals.FreeText,
		Overall:   s.Totals.Overall(),
		Save:      s.Save,
	}
	if s.Err != nil {
		snapshot.Error = s.Err.Error()
	}
	if current, ok := s.Current(); ok {
		snapshot.Position = s.Index + 1
		snapshot.Question = &current
		if record, ok := s.Results[current.ID]; ok {
			snapshot.Last = &record
		}
	}
	return snapshot
}
