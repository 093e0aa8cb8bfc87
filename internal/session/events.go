package session

import (
	"time"

	"lingoquiz/internal/grading"
	"lingoquiz/internal/question"
	"lingoquiz/internal/store"
)

// EventKind identifies a session transition request.
type EventKind string

const (
	EventStart      EventKind = "start"
	EventLoaded     EventKind = "loaded"
	EventLoadFailed EventKind = "load_failed"
	EventSubmit     EventKind = "submit"
	EventSkip       EventKind = "skip"
	EventNext       EventKind = "next"
	EventRestart    EventKind = "restart"
	EventTick       EventKind = "tick"
	EventSaved      EventKind = "saved"
	EventSaveFailed EventKind = "save_failed"
)

// Event carries a transition request and its payload. At stamps the event for timestamps.
type Event struct {
	Kind      EventKind
	At        time.Time
	SessionID string
	TestID    string
	TimeLimit time.Duration
	Questions []question.Prepared
	Err       error
	Response  grading.Response
	Elapsed   time.Duration
	Receipt   store.Receipt
}

// Start begins a new session.
func Start(sessionID, testID string, limit time.Duration, at time.Time) Event {
	return Event{Kind: EventStart, SessionID: sessionID, TestID: testID, TimeLimit: limit, At: at}
}

// Loaded delivers the prepared questions.
func Loaded(questions []question.Prepared, at time.Time) Event {
	return Event{Kind: EventLoaded, Questions: questions, At: at}
}

// LoadFailed reports a fatal preparation error.
func LoadFailed(err error, at time.Time) Event {
	return Event{Kind: EventLoadFailed, Err: err, At: at}
}

// Submit answers the current question.
func Submit(r grading.Response) Event {
	return Event{Kind: EventSubmit, Response: r}
}

// Skip passes on the current question.
func Skip() Event {
	return Event{Kind: EventSkip}
}

// Next leaves feedback for the following question or the summary.
func Next(at time.Time) Event {
	return Event{Kind: EventNext, At: at}
}

// Restart discards the session.
func Restart() Event {
	return Event{Kind: EventRestart}
}

// Tick reports elapsed countdown time.
func Tick(elapsed time.Duration, at time.Time) Event {
	return Event{Kind: EventTick, Elapsed: elapsed, At: at}
}

// Saved records a successful save.
func Saved(receipt store.Receipt) Event {
	return Event{Kind: EventSaved, Receipt: receipt}
}

// SaveFailed records a failed save.
func SaveFailed(err error) Event {
	return Event{Kind: EventSaveFailed, Err: err}
}
