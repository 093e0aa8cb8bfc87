package config

import (
	"path/filepath"
	"strings"

	"lingoquiz/internal/score"
)

// Defaults applied by Normalize.
const (
	DefaultBanksDir    = "banks"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "console"
	DefaultStoreDriver = "sqlite"
)

// Normalize trims values and fills defaults.
func Normalize(cfg *Config) {
	cfg.BanksDir = strings.TrimSpace(cfg.BanksDir)
	if cfg.BanksDir == "" {
		cfg.BanksDir = DefaultBanksDir
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = DefaultStoreDriver
	}
	if len(cfg.Levels) == 0 {
		cfg.Levels = score.DefaultLevels()
	}
	for i := range cfg.Assessments {
		assessment := &cfg.Assessments[i]
		assessment.ID = strings.TrimSpace(assessment.ID)
		if assessment.Bank == "" {
			assessment.Bank = assessment.ID
		}
		if assessment.Title == "" {
			assessment.Title = assessment.ID
		}
		if assessment.Category == "" {
			assessment.Category = assessment.ID
		}
	}
}

// ResolvePaths makes relative file locations relative to the config directory.
func ResolvePaths(cfg *Config, baseDir string) {
	cfg.BanksDir = resolve(baseDir, cfg.BanksDir)
	cfg.Log.File = resolve(baseDir, cfg.Log.File)
	cfg.Metrics.Textfile = resolve(baseDir, cfg.Metrics.Textfile)
	if cfg.Store.Driver == "file" {
		cfg.Store.DSN = resolve(baseDir, cfg.Store.DSN)
	}
}

func resolve(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}
