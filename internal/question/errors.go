package question

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBankEmpty reports a bank that yields no questions.
	ErrBankEmpty = errors.New("question bank is empty")
	// ErrBankMalformed reports a bank that fails validation.
	ErrBankMalformed = errors.New("question bank is malformed")
	// ErrAmbiguousKey reports an answer key that cannot be graded against.
	ErrAmbiguousKey = errors.New("ambiguous answer key")
)

// Issue captures a validation problem in a question bank.
type Issue struct {
	Field   string
	Message string
}

// MalformedError reports one or more validation issues.
type MalformedError struct {
	Issues []Issue
}

// Error returns a readable message for validation failures.
func (err *MalformedError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return ErrBankMalformed.Error()
	}
	parts := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return fmt.Sprintf("%s: %s", ErrBankMalformed, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match ErrBankMalformed.
func (err *MalformedError) Unwrap() error {
	return ErrBankMalformed
}

// AmbiguousKeyError marks a single question whose key is unusable. It never aborts a session.
type AmbiguousKeyError struct {
	QuestionID string
	Reason     string
}

func (err *AmbiguousKeyError) Error() string {
	return fmt.Sprintf("question %s: %s: %s", err.QuestionID, ErrAmbiguousKey, err.Reason)
}

// Unwrap lets errors.Is match ErrAmbiguousKey.
func (err *AmbiguousKeyError) Unwrap() error {
	return ErrAmbiguousKey
}

func malformed(field, message string) error {
	return &MalformedError{Issues: []Issue{{Field: field, Message: message}}}
}
