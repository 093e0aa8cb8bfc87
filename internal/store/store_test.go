package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"lingoquiz/internal/score"
	"lingoquiz/internal/testutil"
)

func samplePayload(id, testID string, earned, possible int) score.Payload {
	overall := score.Tally{Earned: earned, Possible: possible}
	started := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	return score.Payload{
		AttemptID:  id,
		TestID:     testID,
		Title:      "Grammar",
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Minute),
		Objective:  overall,
		Overall:    overall,
		Percent:    overall.Percent(),
		Review:     []score.ReviewRow{{Position: 1, QuestionID: "q1", Prompt: "p", Earned: earned, Possible: possible}},
	}
}

func openBackends(t *testing.T) map[string]Store {
	t.Helper()
	ctx := testutil.Context(t, 0)
	clock := testutil.NewFakeClock(time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC))
	now := func() time.Time {
		clock.Advance(time.Second)
		return clock.Now()
	}
	dir := t.TempDir()
	sqlite, err := Open(ctx, Options{Driver: DriverSQLite, DSN: "file:" + filepath.Join(dir, "attempts.db"), Now: now})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	duck, err := Open(ctx, Options{Driver: DriverDuckDB, Now: now})
	if err != nil {
		t.Fatalf("open duckdb: %v", err)
	}
	files, err := Open(ctx, Options{Driver: DriverFile, DSN: filepath.Join(dir, "attempts"), Now: now})
	if err != nil {
		t.Fatalf("open dir: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlite.Close()
		_ = duck.Close()
		_ = files.Close()
	})
	return map[string]Store{"sqlite": sqlite, "duckdb": duck, "file": files}
}

// TestSaveReturnsReceipt verifies the normalized score and level label.
func TestSaveReturnsReceipt(t *testing.T) {
	for name, backend := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			receipt, err := backend.Save(testutil.Context(t, 0), samplePayload("a1", "grammar", 3, 4))
			if err != nil {
				t.Fatalf("save: %v", err)
			}
			if receipt.AttemptID != "a1" || receipt.NormalizedScore != 75 || receipt.LevelLabel != "C1" {
				t.Fatalf("unexpected receipt %+v", receipt)
			}
			payload, err := backend.Get(testutil.Context(t, 0), "a1")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if payload.TestID != "grammar" || len(payload.Review) != 1 {
				t.Fatalf("unexpected payload %+v", payload)
			}
		})
	}
}

// TestListNewestFirst verifies history order, filtering and limits.
func TestListNewestFirst(t *testing.T) {
	for name, backend := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := testutil.Context(t, 0)
			for _, payload := range []score.Payload{
				samplePayload("a1", "grammar", 1, 4),
				samplePayload("a2", "listening", 2, 4),
				samplePayload("a3", "grammar", 4, 4),
			} {
				if _, err := backend.Save(ctx, payload); err != nil {
					t.Fatalf("save %s: %v", payload.AttemptID, err)
				}
			}
			all, err := backend.List(ctx, "", 0)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(all) != 3 || all[0].AttemptID != "a3" || all[2].AttemptID != "a1" {
				t.Fatalf("unexpected history %+v", all)
			}
			grammar, err := backend.List(ctx, "grammar", 1)
			if err != nil {
				t.Fatalf("list grammar: %v", err)
			}
			if len(grammar) != 1 || grammar[0].AttemptID != "a3" || grammar[0].Percent != 100 || grammar[0].Level != "C2" {
				t.Fatalf("unexpected filtered history %+v", grammar)
			}
			if !grammar[0].StartedAt.Equal(time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)) {
				t.Fatalf("unexpected started_at %v", grammar[0].StartedAt)
			}
		})
	}
}

// TestSaveIsIdempotent verifies a retried save keeps a single attempt.
func TestSaveIsIdempotent(t *testing.T) {
	for name, backend := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := testutil.Context(t, 0)
			for i := 0; i < 2; i++ {
				if _, err := backend.Save(ctx, samplePayload("same", "grammar", 1, 2)); err != nil {
					t.Fatalf("save %d: %v", i, err)
				}
			}
			attempts, err := backend.List(ctx, "grammar", 0)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(attempts) != 1 {
				t.Fatalf("expected one attempt, got %d", len(attempts))
			}
		})
	}
}

// TestSaveErrorsArePersistenceErrors verifies failures wrap ErrPersistence.
func TestSaveErrorsArePersistenceErrors(t *testing.T) {
	for name, backend := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := backend.Save(testutil.Context(t, 0), score.Payload{TestID: "grammar"})
			if !errors.Is(err, ErrPersistence) {
				t.Fatalf("expected persistence error, got %v", err)
			}
			var persistenceErr *PersistenceError
			if !errors.As(err, &persistenceErr) || persistenceErr.Op != "save" {
				t.Fatalf("expected *PersistenceError, got %T", err)
			}
			_, err = backend.Get(testutil.Context(t, 0), "missing")
			if !errors.Is(err, ErrNotFound) || !errors.Is(err, ErrPersistence) {
				t.Fatalf("expected not found, got %v", err)
			}
		})
	}
}

// TestDirStoreFailsOnBlockedRoot verifies write failures surface as persistence errors.
func TestDirStoreFailsOnBlockedRoot(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	store := &DirStore{root: filepath.Join(blocker, "attempts"), levels: score.DefaultLevels(), logger: zap.NewNop(), now: time.Now}
	_, err := store.Save(testutil.Context(t, 0), samplePayload("a1", "grammar", 1, 1))
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

// TestOpenRejectsUnknownDriver verifies driver validation.
func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(testutil.Context(t, 0), Options{Driver: "oracle"}); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
	if _, err := Open(testutil.Context(t, 0), Options{Driver: DriverPostgres}); err == nil {
		t.Fatalf("expected missing dsn error")
	}
}

// TestRebindPostgres verifies placeholder rewriting.
func TestRebindPostgres(t *testing.T) {
	store := &SQLStore{driver: DriverPostgres}
	if got := store.rebind("a = ? AND b = ?"); got != "a = $1 AND b = $2" {
		t.Fatalf("unexpected rebind %q", got)
	}
	if got := (&SQLStore{driver: DriverSQLite}).rebind("a = ?"); got != "a = ?" {
		t.Fatalf("unexpected sqlite rebind %q", got)
	}
}
