//go:build cucumber

package session

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"lingoquiz/internal/grading"
	"lingoquiz/internal/question"
	"lingoquiz/internal/rubric"
)

// TestSessionScenarios runs the session feature scenarios.
func TestSessionScenarios(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "session",
		ScenarioInitializer: InitializeSessionScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{filepath.Join("testdata", "features", "session.feature")},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeSessionScenario wires steps for session scenarios.
func InitializeSessionScenario(ctx *godog.ScenarioContext) {
	state := &sessionScenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.Step(`^a bank with (\d+) choice questions and 1 free-text question with (\d+) checks$`, state.givenBank)
	ctx.Step(`^the session has a time limit of (\d+) seconds$`, state.givenTimeLimit)
	ctx.Step(`^I start the session$`, state.whenStart)
	ctx.Step(`^I answer the choice question "([^"]+)" (correctly|incorrectly)$`, state.whenAnswerChoice)
	ctx.Step(`^I write "([^"]+)" for "([^"]+)"$`, state.whenWrite)
	ctx.Step(`^I skip every question$`, state.whenSkipAll)
	ctx.Step(`^(\d+) seconds? passes$`, state.whenTimePasses)
	ctx.Step(`^I restart the session$`, state.whenRestart)
	ctx.Step(`^the session is in the "([^"]+)" phase$`, state.thenPhase)
	ctx.Step(`^the (objective|free-text|overall) pool is (\d+) of (\d+)$`, state.thenPool)
	ctx.Step(`^the overall score is (\d+) percent$`, state.thenPercent)
	ctx.Step(`^(\d+) questions are marked as timed out$`, state.thenTimedOut)
}

type sessionScenarioState struct {
	bank       []question.Question
	timeLimit  time.Duration
	controller *Controller
	plans      map[string]func(question.Prepared) grading.Response
}

// reset clears scenario state.
func (s *sessionScenarioState) reset() {
	s.bank = nil
	s.timeLimit = 0
	s.controller = nil
	s.plans = map[string]func(question.Prepared) grading.Response{}
}

// givenBank builds choice questions keyed on the first option plus one essay.
func (s *sessionScenarioState) givenBank(choices, checks int) error {
	s.bank = nil
	for i := 1; i <= choices; i++ {
		s.bank = append(s.bank, question.Question{
			ID:            fmt.Sprintf("q%d", i),
			Kind:          question.KindChoice,
			Prompt:        fmt.Sprintf("Choice %d", i),
			Options:       []string{"right", "wrong"},
			CorrectAnswer: 0,
		})
	}
	specs := []rubric.Spec{
		{Type: rubric.TypeContainsAny, Terms: []string{"because"}},
		{Type: rubric.TypeMinWords, Value: 50},
		{Type: rubric.TypeEndsWith, Terms: []string{"?"}},
	}
	if checks > len(specs) {
		return fmt.Errorf("at most %d checks supported", len(specs))
	}
	s.bank = append(s.bank, question.Question{
		ID:     fmt.Sprintf("q%d", choices+1),
		Kind:   question.KindFreeText,
		Prompt: "Why do you study English?",
		Rubric: &rubric.Rubric{Checks: specs[:checks]},
	})
	return nil
}

func (s *sessionScenarioState) givenTimeLimit(seconds int) error {
	s.timeLimit = time.Duration(seconds) * time.Second
	return nil
}

func (s *sessionScenarioState) whenStart() error {
	loader := question.LoaderFunc(func(context.Context, string) ([]question.Question, error) {
		return s.bank, nil
	})
	s.controller = New("scenario", loader, WithSeed(7), WithTimeLimit(s.timeLimit))
	return s.controller.Start(context.Background())
}

// plan queues a response for a question and plays every question on screen that has one.
// The deck is shuffled, so steps name questions by id rather than by position.
func (s *sessionScenarioState) plan(id string, response func(question.Prepared) grading.Response) error {
	if _, done := s.controller.State().Results[id]; done {
		return fmt.Errorf("question %s already answered", id)
	}
	s.plans[id] = response
	for {
		current, ok := s.controller.State().Current()
		if !ok {
			return nil
		}
		respond, planned := s.plans[current.ID]
		if !planned {
			return nil
		}
		s.controller.Submit(respond(current))
		s.controller.Next()
	}
}

func (s *sessionScenarioState) whenAnswerChoice(id, how string) error {
	return s.plan(id, func(q question.Prepared) grading.Response {
		for i, option := range q.Options {
			if (option == "right") == (how == "correctly") {
				return grading.Choose(i)
			}
		}
		return grading.Response{}
	})
}

func (s *sessionScenarioState) whenWrite(text, id string) error {
	return s.plan(id, func(question.Prepared) grading.Response { return grading.Text(text) })
}

func (s *sessionScenarioState) whenSkipAll() error {
	for s.controller.Snapshot().Phase == PhaseQuestion {
		s.controller.Skip()
		s.controller.Next()
	}
	return nil
}

func (s *sessionScenarioState) whenTimePasses(seconds int) error {
	s.controller.Tick(time.Duration(seconds) * time.Second)
	return nil
}

func (s *sessionScenarioState) whenRestart() error {
	s.controller.Restart()
	return nil
}

func (s *sessionScenarioState) thenPhase(phase string) error {
	if got := s.controller.Snapshot().Phase; string(got) != phase {
		return fmt.Errorf("expected phase %s, got %s", phase, got)
	}
	return nil
}

func (s *sessionScenarioState) thenPool(pool string, earned, possible int) error {
	snapshot := s.controller.Snapshot()
	tally := snapshot.Overall
	switch pool {
	case "objective":
		tally = snapshot.Objective
	case "free-text":
		tally = snapshot.FreeText
	}
	if tally.Earned != earned || tally.Possible != possible {
		return fmt.Errorf("expected %s pool %d/%d, got %d/%d", pool, earned, possible, tally.Earned, tally.Possible)
	}
	return nil
}

func (s *sessionScenarioState) thenPercent(percent int) error {
	report, err := s.controller.Report()
	if err != nil {
		return err
	}
	if report.Percent != percent {
		return fmt.Errorf("expected %d%%, got %d%%", percent, report.Percent)
	}
	return nil
}

func (s *sessionScenarioState) thenTimedOut(count int) error {
	report, err := s.controller.Report()
	if err != nil {
		return err
	}
	timedOut := 0
	for _, row := range report.Review {
		if row.TimedOut {
			timedOut++
		}
	}
	if timedOut != count {
		return fmt.Errorf("expected %d timed out questions, got %d", count, timedOut)
	}
	return nil
}
