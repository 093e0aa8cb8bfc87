package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // driver: duckdb
	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // driver: sqlite

	"lingoquiz/internal/score"
)

const defaultSQLiteDSN = "file:lingoquiz.db?mode=rwc&_pragma=busy_timeout(5000)"

// SQLStore keeps attempts in a SQL database reached through database/sql.
type SQLStore struct {
	db     *sql.DB
	driver string
	levels score.Levels
	logger *zap.Logger
	now    func() time.Time
}

// OpenSQL connects to the database and ensures the schema exists.
func OpenSQL(ctx context.Context, opts Options) (*SQLStore, error) {
	opts = opts.withDefaults()
	driverName, dsn, err := sqlDriver(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, persistence("open", err)
	}
	if opts.Driver != DriverPostgres {
		// Embedded engines serialize writers.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, persistence("ping", err)
	}
	store := &SQLStore{db: db, driver: opts.Driver, levels: opts.Levels, logger: opts.Logger, now: opts.Now}
	if err := store.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	opts.Logger.Debug("store opened", zap.String("driver", opts.Driver))
	return store, nil
}

func sqlDriver(driver, dsn string) (string, string, error) {
	switch driver {
	case DriverSQLite:
		if dsn == "" {
			dsn = defaultSQLiteDSN
		}
		return "sqlite", dsn, nil
	case DriverDuckDB:
		return "duckdb", dsn, nil
	case DriverPostgres, "pgx":
		if dsn == "" {
			return "", "", errors.New("postgres store requires a dsn")
		}
		return "pgx", dsn, nil
	default:
		return "", "", fmt.Errorf("unsupported store driver %q", driver)
	}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS attempts (
  attempt_id TEXT PRIMARY KEY,
  test_id TEXT NOT NULL,
  title TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  score_percent INTEGER NOT NULL,
  level_label TEXT NOT NULL DEFAULT '',
  earned INTEGER NOT NULL,
  possible INTEGER NOT NULL,
  started_at BIGINT NOT NULL,
  finished_at BIGINT NOT NULL,
  saved_at BIGINT NOT NULL,
  payload_json TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS attempts_test_saved ON attempts (test_id, saved_at)`,
}

func (s *SQLStore) ensureSchema(ctx context.Context) error {
	for _, statement := range schema {
		if _, err := s.db.ExecContext(ctx, statement); err != nil {
			return persistence("ensure schema", err)
		}
	}
	return nil
}

// Save upserts the attempt so a retried save of the same attempt is harmless.
func (s *SQLStore) Save(ctx context.Context, payload score.Payload) (Receipt, error) {
	if err := validatePayload(payload); err != nil {
		return Receipt{}, persistence("save", err)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Receipt{}, persistence("encode payload", err)
	}
	receipt := newReceipt(payload, s.levels, s.now())
	query := s.rebind(`INSERT INTO attempts (
  attempt_id, test_id, title, category, score_percent, level_label, earned, possible,
  started_at, finished_at, saved_at, payload_json
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (attempt_id) DO UPDATE SET
  score_percent = excluded.score_percent,
  level_label = excluded.level_label,
  earned = excluded.earned,
  possible = excluded.possible,
  saved_at = excluded.saved_at,
  payload_json = excluded.payload_json`)
	_, err = s.db.ExecContext(ctx, query,
		payload.AttemptID,
		payload.TestID,
		payload.Title,
		payload.Category,
		receipt.NormalizedScore,
		receipt.LevelLabel,
		payload.Overall.Earned,
		payload.Overall.Possible,
		millis(payload.StartedAt),
		millis(payload.FinishedAt),
		millis(receipt.SavedAt),
		string(data),
	)
	if err != nil {
		return Receipt{}, persistence("insert attempt", err)
	}
	s.logger.Info("attempt saved",
		zap.String("attempt_id", payload.AttemptID),
		zap.String("test_id", payload.TestID),
		zap.Int("percent", receipt.NormalizedScore),
		zap.String("level", receipt.LevelLabel),
	)
	return receipt, nil
}

// List returns the newest attempts first. An empty testID lists every test; limit <= 0 means no limit.
func (s *SQLStore) List(ctx context.Context, testID string, limit int) ([]Attempt, error) {
	query := `SELECT attempt_id, test_id, title, category, score_percent, level_label, earned, possible,
  started_at, finished_at, saved_at FROM attempts`
	var args []any
	if testID != "" {
		query += ` WHERE test_id = ?`
		args = append(args, testID)
	}
	query += ` ORDER BY saved_at DESC, attempt_id`
	if limit > 0 {
		query += ` LIMIT ` + strconv.Itoa(limit)
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, persistence("list attempts", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var (
			attempt                     Attempt
			started, finished, savedAt int64
		)
		if err := rows.Scan(
			&attempt.AttemptID,
			&attempt.TestID,
			&attempt.Title,
			&attempt.Category,
			&attempt.Percent,
			&attempt.Level,
			&attempt.Earned,
			&attempt.Possible,
			&started,
			&finished,
			&savedAt,
		); err != nil {
			return nil, persistence("scan attempt", err)
		}
		attempt.StartedAt = fromMillis(started)
		attempt.FinishedAt = fromMillis(finished)
		attempt.SavedAt = fromMillis(savedAt)
		attempts = append(attempts, attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("list attempts", err)
	}
	return attempts, nil
}

// Get loads the full payload of one attempt.
func (s *SQLStore) Get(ctx context.Context, attemptID string) (score.Payload, error) {
	var data string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT payload_json FROM attempts WHERE attempt_id = ?`), attemptID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return score.Payload{}, persistence("get attempt", fmt.Errorf("%s: %w", attemptID, ErrNotFound))
	}
	if err != nil {
		return score.Payload{}, persistence("get attempt", err)
	}
	var payload score.Payload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return score.Payload{}, persistence("decode payload", err)
	}
	return payload, nil
}

// Close releases the database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverPostgres && s.driver != "pgx" {
		return query
	}
	var builder strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			builder.WriteString("$" + strconv.Itoa(n))
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

func millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
