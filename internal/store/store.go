// Package store persists finished attempts and lists attempt history.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"lingoquiz/internal/score"
)

// ErrPersistence marks every failure of the save step. It never invalidates a summary.
var ErrPersistence = errors.New("persistence failed")

// PersistenceError wraps the cause of a failed store operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (err *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPersistence, err.Op, err.Err)
}

// Unwrap exposes both ErrPersistence and the cause to errors.Is.
func (err *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, err.Err}
}

func persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// Receipt is what a backend reports after saving an attempt.
type Receipt struct {
	AttemptID       string    `json:"attempt_id"`
	NormalizedScore int       `json:"normalized_score"`
	LevelLabel      string    `json:"level_label"`
	SavedAt         time.Time `json:"saved_at"`
}

// Attempt is one row of attempt history.
type Attempt struct {
	AttemptID  string    `json:"attempt_id"`
	TestID     string    `json:"test_id"`
	Title      string    `json:"title,omitempty"`
	Category   string    `json:"category,omitempty"`
	Percent    int       `json:"percent"`
	Level      string    `json:"level"`
	Earned     int       `json:"earned"`
	Possible   int       `json:"possible"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	SavedAt    time.Time `json:"saved_at"`
}

// Saver persists a finished attempt.
type Saver interface {
	Save(ctx context.Context, payload score.Payload) (Receipt, error)
}

// Store is a complete persistence backend.
type Store interface {
	Saver
	List(ctx context.Context, testID string, limit int) ([]Attempt, error)
	Get(ctx context.Context, attemptID string) (score.Payload, error)
	Close() error
}

// ErrNotFound reports an unknown attempt id.
var ErrNotFound = errors.New("attempt not found")

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverDuckDB   = "duckdb"
	DriverPostgres = "postgres"
	DriverFile     = "file"
)

// Options configures Open.
type Options struct {
	Driver string
	DSN    string
	Levels score.Levels
	Logger *zap.Logger
	Now    func() time.Time
}

func (opts Options) withDefaults() Options {
	if len(opts.Levels) == 0 {
		opts.Levels = score.DefaultLevels()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Driver = strings.ToLower(strings.TrimSpace(opts.Driver))
	if opts.Driver == "" {
		opts.Driver = DriverSQLite
	}
	return opts
}

// Open returns the backend selected by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	opts = opts.withDefaults()
	if opts.Driver == DriverFile {
		return OpenDir(opts)
	}
	return OpenSQL(ctx, opts)
}

func newReceipt(payload score.Payload, levels score.Levels, savedAt time.Time) Receipt {
	return Receipt{
		AttemptID:       payload.AttemptID,
		NormalizedScore: payload.Percent,
		LevelLabel:      levels.Level(payload.Percent),
		SavedAt:         savedAt.UTC(),
	}
}

func attemptFromPayload(payload score.Payload, receipt Receipt) Attempt {
	return Attempt{
		AttemptID:  payload.AttemptID,
		TestID:     payload.TestID,
		Title:      payload.Title,
		Category:   payload.Category,
		Percent:    receipt.NormalizedScore,
		Level:      receipt.LevelLabel,
		Earned:     payload.Overall.Earned,
		Possible:   payload.Overall.Possible,
		StartedAt:  payload.StartedAt,
		FinishedAt: payload.FinishedAt,
		SavedAt:    receipt.SavedAt,
	}
}

func validatePayload(payload score.Payload) error {
	if strings.TrimSpace(payload.AttemptID) == "" {
		return errors.New("attempt id is required")
	}
	if strings.TrimSpace(payload.TestID) == "" {
		return errors.New("test id is required")
	}
	return nil
}
