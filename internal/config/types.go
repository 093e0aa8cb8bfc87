package config

import (
	"time"

	"lingoquiz/internal/question"
	"lingoquiz/internal/score"
)

// Config is the root configuration file.
type Config struct {
	Version     int          `yaml:"version"`
	BanksDir    string       `yaml:"banks_dir"`
	Log         Log          `yaml:"log"`
	Store       Store        `yaml:"store"`
	Metrics     Metrics      `yaml:"metrics"`
	Levels      score.Levels `yaml:"levels"`
	Assessments []Assessment `yaml:"assessments"`
}

// Log configures structured logging.
type Log struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Store selects the persistence backend.
type Store struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Metrics configures the Prometheus textfile written after each run.
type Metrics struct {
	Textfile string `yaml:"textfile"`
}

// Assessment is one playable test profile.
type Assessment struct {
	ID               string      `yaml:"id"`
	Title            string      `yaml:"title"`
	Category         string      `yaml:"category"`
	Bank             string      `yaml:"bank"`
	MaxQuestions     int         `yaml:"max_questions"`
	TimeLimitSeconds int         `yaml:"time_limit_seconds"`
	Listening        bool        `yaml:"listening"`
	Seed             *uint64     `yaml:"seed"`
	Structured       *Structured `yaml:"structured"`
}

// Structured enables the sectioned pick used by writing tests.
type Structured struct {
	ObjectiveLimit int      `yaml:"objective_limit"`
	Tasks          []string `yaml:"tasks"`
}

// PickOptions translates the profile into preparer options.
func (a Assessment) PickOptions() question.PickOptions {
	opts := question.PickOptions{Limit: a.MaxQuestions}
	if a.Structured != nil {
		opts.Structured = true
		opts.ObjectiveLimit = a.Structured.ObjectiveLimit
		opts.Tasks = append([]string(nil), a.Structured.Tasks...)
	}
	return opts
}

// TimeLimit returns the countdown length; zero means untimed.
func (a Assessment) TimeLimit() time.Duration {
	if a.TimeLimitSeconds <= 0 {
		return 0
	}
	return time.Duration(a.TimeLimitSeconds) * time.Second
}

// Assessment finds a profile by id.
func (c Config) Assessment(id string) (Assessment, bool) {
	for _, assessment := range c.Assessments {
		if assessment.ID == id {
			return assessment, true
		}
	}
	return Assessment{}, false
}
