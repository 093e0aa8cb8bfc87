package session

import (
	"lingoquiz/internal/grading"
	"lingoquiz/internal/question"
	"lingoquiz/internal/score"
)

// Reducer computes session transitions. Events that do not apply to the current phase leave
// the state unchanged.
type Reducer struct {
	Grader grading.Grader
}

// Reduce applies one event to a state and returns the next state.
func (r Reducer) Reduce(state State, event Event) State {
	switch event.Kind {
	case EventRestart:
		return State{Phase: PhaseIntro}
	case EventStart:
		return r.start(state, event)
	case EventLoaded:
		return r.loaded(state, event)
	case EventLoadFailed:
		if state.Phase != PhaseLoading {
			return state
		}
		state.Phase = PhaseError
		state.Err = event.Err
		return state
	case EventSubmit:
		return r.submit(state, event)
	case EventSkip:
		return r.skip(state)
	case EventNext:
		return r.next(state, event)
	case EventTick:
		return r.tick(state, event)
	case EventSaved, EventSaveFailed:
		return r.saved(state, event)
	default:
		return state
	}
}

func (r Reducer) start(state State, event Event) State {
	if state.Phase != PhaseIntro {
		return state
	}
	return State{
		ID:        event.SessionID,
		TestID:    event.TestID,
		Phase:     PhaseLoading,
		Timed:     event.TimeLimit > 0,
		TimeLimit: event.TimeLimit,
		Remaining: event.TimeLimit,
	}
}

func (r Reducer) loaded(state State, event Event) State {
	if state.Phase != PhaseLoading {
		return state
	}
	if len(event.Questions) == 0 {
		state.Phase = PhaseError
		state.Err = question.ErrBankEmpty
		return state
	}
	state.Phase = PhaseQuestion
	state.Questions = event.Questions
	state.Index = 0
	state.Results = map[string]score.Record{}
	state.Totals = Totals{}
	state.StartedAt = event.At
	state.Remaining = state.TimeLimit
	return state
}

func (r Reducer) submit(state State, event Event) State {
	current, ok := state.Current()
	if !ok || state.Phase != PhaseQuestion {
		return state
	}
	grader := r.Grader
	if grader == nil {
		grader = grading.New()
	}
	result := grader.Grade(current, event.Response)
	state = state.withRecord(score.Graded(current, event.Response, result))
	state.Phase = PhaseFeedback
	return state
}

func (r Reducer) skip(state State) State {
	current, ok := state.Current()
	if !ok || state.Phase != PhaseQuestion {
		return state
	}
	state = state.withRecord(score.Skipped(current, false))
	state.Phase = PhaseFeedback
	return state
}

func (r Reducer) next(state State, event Event) State {
	if state.Phase != PhaseFeedback {
		return state
	}
	if state.Index+1 < len(state.Questions) {
		state.Index++
		state.Phase = PhaseQuestion
		return state
	}
	state.Phase = PhaseSummary
	state.FinishedAt = event.At
	return state
}

// tick counts down a timed session; reaching zero closes every unanswered question as timed out.
func (r Reducer) tick(state State, event Event) State {
	if !state.Phase.Active() || !state.Timed || event.Elapsed <= 0 {
		return state
	}
	state.Remaining -= event.Elapsed
	if state.Remaining > 0 {
		return state
	}
	state.Remaining = 0
	for _, q := range state.Questions {
		if _, answered := state.Results[q.ID]; answered {
			continue
		}
		state = state.withRecord(score.Skipped(q, true))
	}
	state.Phase = PhaseSummary
	state.TimedOut = true
	state.FinishedAt = event.At
	return state
}

func (r Reducer) saved(state State, event Event) State {
	if state.Phase != PhaseSummary {
		return state
	}
	if event.Kind == EventSaved {
		state.Save = SaveStatus{State: SaveDone, Receipt: event.Receipt}
		return state
	}
	message := "save failed"
	if event.Err != nil {
		message = event.Err.Error()
	}
	state.Save = SaveStatus{State: SaveFailed, Error: message}
	return state
}
