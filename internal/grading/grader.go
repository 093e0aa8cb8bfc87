// Package grading turns a prepared question and a response into a verdict.
package grading

import "lingoquiz/internal/question"

// Grader grades a response against a prepared question.
type Grader interface {
	Grade(q question.Prepared, r Response) Result
}

// Strategy grades the questions of one kind.
type Strategy interface {
	Grade(q question.Prepared, r Response) Result
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(q question.Prepared, r Response) Result

// Grade calls f.
func (f StrategyFunc) Grade(q question.Prepared, r Response) Result {
	return f(q, r)
}

// Engine dispatches to the strategy registered for each question kind.
type Engine struct {
	strategies map[question.Kind]Strategy
}

// Option customizes an Engine.
type Option func(*Engine)

// WithStrategy replaces the strategy used for kind.
func WithStrategy(kind question.Kind, strategy Strategy) Option {
	return func(engine *Engine) {
		if strategy != nil {
			engine.strategies[kind] = strategy
		}
	}
}

// New returns an engine with the built-in strategies for every kind.
func New(opts ...Option) *Engine {
	engine := &Engine{strategies: map[question.Kind]Strategy{
		question.KindChoice:    StrategyFunc(gradeChoice),
		question.KindTrueFalse: StrategyFunc(gradeTrueFalse),
		question.KindFillBlank: StrategyFunc(gradeFillBlank),
		question.KindFreeText:  StrategyFunc(gradeFreeText),
	}}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Grade never panics on unknown kinds; they are reported as ungraded.
func (e *Engine) Grade(q question.Prepared, r Response) Result {
	strategy, ok := e.strategies[q.Kind]
	if !ok {
		return ungraded(q.Points, noteUnknownKind)
	}
	return strategy.Grade(q, r)
}
