package session

import (
	"lingoquiz/internal/grading"
	"lingoquiz/internal/question"
	"lingoquiz/internal/score"
)

// Observer receives session lifecycle notifications.
type Observer interface {
	SessionStarted(testID string)
	AnswerGraded(testID string, kind question.Kind, status grading.Status, skipped bool)
	SessionFinished(testID string, report score.Report, timedOut bool)
	SessionFailed(testID string, err error)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) SessionStarted(string) {}

func (NopObserver) AnswerGraded(string, question.Kind, grading.Status, bool) {}

func (NopObserver) SessionFinished(string, score.Report, bool) {}

func (NopObserver) SessionFailed(string, error) {}
