package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lingoquiz/internal/grading"
	"lingoquiz/internal/question"
	"lingoquiz/internal/score"
	"lingoquiz/internal/speech"
	"lingoquiz/internal/store"
)

var (
	// ErrNotFinished reports a request that needs a session in summary.
	ErrNotFinished = errors.New("session is not finished")
	// ErrNoSaver reports a save without a configured store.
	ErrNoSaver = errors.New("no store configured")
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Controller owns one session and its collaborators. All events are serialized, so ticks may
// arrive from another goroutine.
type Controller struct {
	mu      sync.Mutex
	state   State
	reducer Reducer

	// effectsMu is taken before mu is released so side effects run in transition order.
	effectsMu sync.Mutex

	testID    string
	title     string
	category  string
	loader    question.Loader
	pick      question.PickOptions
	timeLimit time.Duration
	speaker   speech.Speaker
	saver     store.Saver
	observer  Observer
	logger    *zap.Logger
	clock     Clock
	newRand   func() *rand.Rand
	newID     func() string
}

// Option configures a Controller.
type Option func(*Controller)

// WithGrader replaces the default grading engine.
func WithGrader(grader grading.Grader) Option {
	return func(c *Controller) {
		if grader != nil {
			c.reducer.Grader = grader
		}
	}
}

// WithPick sets how questions are picked from the bank.
func WithPick(opts question.PickOptions) Option {
	return func(c *Controller) { c.pick = opts }
}

// WithTimeLimit makes the session timed; zero disables the countdown.
func WithTimeLimit(limit time.Duration) Option {
	return func(c *Controller) { c.timeLimit = limit }
}

// WithSpeaker narrates audio prompts.
func WithSpeaker(speaker speech.Speaker) Option {
	return func(c *Controller) { c.speaker = speaker }
}

// WithSaver enables Save.
func WithSaver(saver store.Saver) Option {
	return func(c *Controller) { c.saver = saver }
}

// WithObserver receives lifecycle notifications.
func WithObserver(observer Observer) Option {
	return func(c *Controller) {
		if observer != nil {
			c.observer = observer
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(clock Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithSeed makes question preparation reproducible.
func WithSeed(seed uint64) Option {
	return func(c *Controller) {
		c.newRand = func() *rand.Rand { return rand.New(rand.NewPCG(seed, seed)) }
	}
}

// WithMeta sets the title and category copied into exported payloads.
func WithMeta(title, category string) Option {
	return func(c *Controller) {
		c.title = title
		c.category = category
	}
}

// WithIDs replaces the session id generator.
func WithIDs(next func() string) Option {
	return func(c *Controller) {
		if next != nil {
			c.newID = next
		}
	}
}

// New returns a controller in the intro phase for testID.
func New(testID string, loader question.Loader, opts ...Option) *Controller {
	c := &Controller{
		state:    State{Phase: PhaseIntro},
		reducer:  Reducer{Grader: grading.New()},
		testID:   testID,
		loader:   loader,
		observer: NopObserver{},
		logger:   zap.NewNop(),
		clock:    systemClock{},
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("test_id", testID))
	return c
}

// Start loads and prepares the bank. A failure moves the session to the error phase and is
// also returned. Start is a no-op outside the intro phase.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Phase != PhaseIntro {
		c.mu.Unlock()
		return nil
	}
	id := c.newID()
	prev, next := c.applyLocked(Start(id, c.testID, c.timeLimit, c.clock.Now()))
	c.releaseWithEffects(prev, next)
	return c.load(ctx, id)
}

// Retry starts again after a load failure.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Phase != PhaseError {
		c.mu.Unlock()
		return nil
	}
	prev, next := c.applyLocked(Restart())
	c.releaseWithEffects(prev, next)
	c.logger.Info("retrying load")
	return c.Start(ctx)
}

func (c *Controller) load(ctx context.Context, id string) error {
	prepared, err := c.prepare(ctx)
	var event Event
	if err != nil {
		err = fmt.Errorf("load %s: %w", c.testID, err)
		event = LoadFailed(err, c.clock.Now())
	} else {
		event = Loaded(prepared, c.clock.Now())
	}

	c.mu.Lock()
	if c.state.ID != id || c.state.Phase != PhaseLoading {
		c.mu.Unlock()
		c.logger.Debug("discarding load for abandoned session", zap.String("session_id", id))
		return err
	}
	prev, next := c.applyLocked(event)
	c.releaseWithEffects(prev, next)
	return err
}

func (c *Controller) prepare(ctx context.Context) ([]question.Prepared, error) {
	if c.loader == nil {
		return nil, errors.New("no question loader configured")
	}
	raw, err := c.loader.Load(ctx, c.testID)
	if err != nil {
		return nil, err
	}
	prepared, err := question.Prepare(raw, c.pick, c.newRand())
	if err != nil {
		return nil, err
	}
	for _, q := range prepared {
		if q.KeyIssue != nil {
			c.logger.Warn("question will be ungraded", zap.String("question_id", q.ID), zap.String("reason", q.KeyIssue.Reason))
		}
	}
	return prepared, nil
}

// Submit grades a response to the current question.
func (c *Controller) Submit(r grading.Response) Snapshot {
	return c.dispatch(Submit(r))
}

// Skip records the current question as skipped.
func (c *Controller) Skip() Snapshot {
	return c.dispatch(Skip())
}

// Next advances from feedback.
func (c *Controller) Next() Snapshot {
	return c.dispatch(Next(c.clock.Now()))
}

// Restart discards the session and returns to the intro phase.
func (c *Controller) Restart() Snapshot {
	return c.dispatch(Restart())
}

// Tick counts down the current session and reports whether the timer should keep running.
func (c *Controller) Tick(elapsed time.Duration) bool {
	return c.tickSession(c.Snapshot().SessionID, elapsed)
}

func (c *Controller) tickSession(id string, elapsed time.Duration) bool {
	c.mu.Lock()
	if c.state.ID != id {
		c.mu.Unlock()
		return false
	}
	prev, next := c.applyLocked(Tick(elapsed, c.clock.Now()))
	running := next.Timed && next.Phase.Active()
	c.releaseWithEffects(prev, next)
	return running
}

// Snapshot returns the current view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Snapshot()
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Report summarizes a finished session.
func (c *Controller) Report() (score.Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase != PhaseSummary {
		return score.Report{}, ErrNotFinished
	}
	return score.Summarize(c.state.Questions, c.state.Results), nil
}

// Payload exports a finished session.
func (c *Controller) Payload() (score.Payload, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase != PhaseSummary {
		return score.Payload{}, ErrNotFinished
	}
	return c.payloadLocked(), nil
}

func (c *Controller) payloadLocked() score.Payload {
	report := score.Summarize(c.state.Questions, c.state.Results)
	return score.Export(report, score.Meta{
		AttemptID:  c.state.ID,
		TestID:     c.state.TestID,
		Title:      c.title,
		Category:   c.category,
		StartedAt:  c.state.StartedAt,
		FinishedAt: c.state.FinishedAt,
	})
}

// Save hands the finished session to the store. A failure leaves the summary intact and may be
// retried; a session that is already saved returns its receipt again.
func (c *Controller) Save(ctx context.Context) (store.Receipt, error) {
	c.mu.Lock()
	if c.state.Phase != PhaseSummary {
		c.mu.Unlock()
		return store.Receipt{}, ErrNotFinished
	}
	if c.saver == nil {
		c.mu.Unlock()
		return store.Receipt{}, ErrNoSaver
	}
	if c.state.Save.State == SaveDone {
		receipt := c.state.Save.Receipt
		c.mu.Unlock()
		return receipt, nil
	}
	id := c.state.ID
	payload := c.payloadLocked()
	c.mu.Unlock()

	receipt, err := c.saver.Save(ctx, payload)
	event := Saved(receipt)
	if err != nil {
		c.logger.Warn("save failed", zap.String("session_id", id), zap.Error(err))
		event = SaveFailed(err)
	}
	c.mu.Lock()
	if c.state.ID == id {
		c.applyLocked(event)
	}
	c.mu.Unlock()
	return receipt, err
}

func (c *Controller) dispatch(event Event) Snapshot {
	c.mu.Lock()
	prev, next := c.applyLocked(event)
	snapshot := next.Snapshot()
	c.releaseWithEffects(prev, next)
	return snapshot
}

func (c *Controller) applyLocked(event Event) (State, State) {
	prev := c.state
	c.state = c.reducer.Reduce(prev, event)
	return prev, c.state
}

// releaseWithEffects unlocks mu and runs the effects of prev -> next. A later transition
// cannot run its effects until these finish.
func (c *Controller) releaseWithEffects(prev, next State) {
	c.effectsMu.Lock()
	defer c.effectsMu.Unlock()
	c.mu.Unlock()
	c.effects(prev, next)
}

// effects runs speech, logging and observer calls for a transition outside the state lock.
func (c *Controller) effects(prev, next State) {
	if prev.Phase == PhaseQuestion && (next.Phase != PhaseQuestion || next.ID != prev.ID) {
		c.stopSpeech()
	}
	if next.Phase == PhaseQuestion && (prev.Phase != PhaseQuestion || prev.Index != next.Index || prev.ID != next.ID) {
		if q, ok := next.Current(); ok && q.Audio != "" && c.speaker != nil {
			c.speaker.Speak(q.Audio)
		}
	}
	if prev.Phase == PhaseLoading && next.Phase == PhaseQuestion {
		c.logger.Info("session started",
			zap.String("session_id", next.ID),
			zap.Int("questions", len(next.Questions)),
			zap.Duration("time_limit", next.TimeLimit),
		)
		c.observer.SessionStarted(next.TestID)
	}
	if prev.Phase == PhaseQuestion && next.Phase == PhaseFeedback {
		if q, ok := next.Current(); ok {
			record := next.Results[q.ID]
			c.logger.Debug("answer recorded",
				zap.String("question_id", q.ID),
				zap.String("status", string(record.Grade.Detail.Status)),
				zap.Bool("skipped", record.Skipped),
			)
			c.observer.AnswerGraded(next.TestID, q.Kind, record.Grade.Detail.Status, record.Skipped)
		}
	}
	if next.Phase == PhaseSummary && prev.Phase != PhaseSummary {
		report := score.Summarize(next.Questions, next.Results)
		c.logger.Info("session finished",
			zap.String("session_id", next.ID),
			zap.Int("percent", report.Percent),
			zap.Int("earned", report.Overall.Earned),
			zap.Int("possible", report.Overall.Possible),
			zap.Bool("timed_out", next.TimedOut),
		)
		c.observer.SessionFinished(next.TestID, report, next.TimedOut)
	}
	if next.Phase == PhaseError && prev.Phase != PhaseError {
		c.logger.Error("session failed", zap.String("session_id", next.ID), zap.Error(next.Err))
		c.observer.SessionFailed(next.TestID, next.Err)
	}
}

func (c *Controller) stopSpeech() {
	if c.speaker != nil {
		c.speaker.Stop()
	}
}
