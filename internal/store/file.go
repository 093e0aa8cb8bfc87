package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"lingoquiz/internal/score"
)

const defaultDir = "attempts"

// DirStore keeps one JSON document per attempt in a directory.
type DirStore struct {
	root   string
	levels score.Levels
	logger *zap.Logger
	now    func() time.Time
}

type attemptFile struct {
	Receipt Receipt       `json:"receipt"`
	Payload score.Payload `json:"payload"`
}

// OpenDir prepares a directory store rooted at opts.DSN.
func OpenDir(opts Options) (*DirStore, error) {
	opts = opts.withDefaults()
	root := strings.TrimSpace(opts.DSN)
	if root == "" {
		root = defaultDir
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, persistence("open", err)
	}
	return &DirStore{root: root, levels: opts.Levels, logger: opts.Logger, now: opts.Now}, nil
}

// Save writes the attempt using a temp file and an atomic rename.
func (s *DirStore) Save(ctx context.Context, payload score.Payload) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, persistence("save", err)
	}
	if err := validatePayload(payload); err != nil {
		return Receipt{}, persistence("save", err)
	}
	if strings.ContainsAny(payload.AttemptID, `/\`) {
		return Receipt{}, persistence("save", fmt.Errorf("invalid attempt id %q", payload.AttemptID))
	}
	receipt := newReceipt(payload, s.levels, s.now())
	data, err := json.MarshalIndent(attemptFile{Receipt: receipt, Payload: payload}, "", "  ")
	if err != nil {
		return Receipt{}, persistence("encode payload", err)
	}
	if err := writeAtomic(s.path(payload.AttemptID), data); err != nil {
		return Receipt{}, persistence("write attempt", err)
	}
	s.logger.Info("attempt saved",
		zap.String("attempt_id", payload.AttemptID),
		zap.String("test_id", payload.TestID),
		zap.Int("percent", receipt.NormalizedScore),
		zap.String("level", receipt.LevelLabel),
	)
	return receipt, nil
}

// List returns the newest attempts first.
func (s *DirStore) List(ctx context.Context, testID string, limit int) ([]Attempt, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, persistence("list attempts", err)
	}
	var attempts []Attempt
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, persistence("list attempts", err)
		}
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		file, err := s.read(filepath.Join(s.root, entry.Name()))
		if err != nil {
			s.logger.Warn("skipping unreadable attempt", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		if testID != "" && file.Payload.TestID != testID {
			continue
		}
		attempts = append(attempts, attemptFromPayload(file.Payload, file.Receipt))
	}
	sort.SliceStable(attempts, func(i, j int) bool {
		if !attempts[i].SavedAt.Equal(attempts[j].SavedAt) {
			return attempts[i].SavedAt.After(attempts[j].SavedAt)
		}
		return attempts[i].AttemptID < attempts[j].AttemptID
	})
	if limit > 0 && len(attempts) > limit {
		attempts = attempts[:limit]
	}
	return attempts, nil
}

// Get loads the payload of one attempt.
func (s *DirStore) Get(ctx context.Context, attemptID string) (score.Payload, error) {
	if err := ctx.Err(); err != nil {
		return score.Payload{}, persistence("get attempt", err)
	}
	file, err := s.read(s.path(attemptID))
	if errors.Is(err, os.ErrNotExist) {
		return score.Payload{}, persistence("get attempt", fmt.Errorf("%s: %w", attemptID, ErrNotFound))
	}
	if err != nil {
		return score.Payload{}, persistence("get attempt", err)
	}
	return file.Payload, nil
}

// Close is a no-op for directory stores.
func (s *DirStore) Close() error {
	return nil
}

func (s *DirStore) path(attemptID string) string {
	return filepath.Join(s.root, attemptID+".json")
}

func (s *DirStore) read(path string) (attemptFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return attemptFile{}, err
	}
	var file attemptFile
	if err := json.Unmarshal(data, &file); err != nil {
		return attemptFile{}, err
	}
	return file, nil
}

func writeAtomic(path string, payload []byte) error {
	tmpPath := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	_, writeErr := file.Write(payload)
	syncErr := file.Sync()
	closeErr := file.Close()
	for _, err := range []error{writeErr, syncErr, closeErr} {
		if err != nil {
			_ = os.Remove(tmpPath)
			return err
		}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
