package config

import (
	"fmt"
	"strings"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

type issueCollector struct {
	issues []Issue
}

func (c *issueCollector) add(field, message string) {
	c.issues = append(c.issues, Issue{Field: field, Message: message})
}

func (c *issueCollector) result() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: c.issues}
}

var (
	logLevels    = []string{"debug", "info", "warn", "error"}
	logFormats   = []string{"console", "json"}
	storeDrivers = []string{"sqlite", "duckdb", "postgres", "file"}
)

// Validate checks a normalized config and reports every issue at once.
func Validate(cfg *Config) error {
	collector := &issueCollector{}
	if cfg.Version != 1 {
		collector.add("version", "must be 1")
	}
	if !oneOf(cfg.Log.Level, logLevels) {
		collector.add("log.level", fmt.Sprintf("must be one of %s", strings.Join(logLevels, ", ")))
	}
	if !oneOf(cfg.Log.Format, logFormats) {
		collector.add("log.format", fmt.Sprintf("must be one of %s", strings.Join(logFormats, ", ")))
	}
	if cfg.Log.MaxSizeMB < 0 || cfg.Log.MaxBackups < 0 || cfg.Log.MaxAgeDays < 0 {
		collector.add("log", "rotation limits must not be negative")
	}
	if !oneOf(cfg.Store.Driver, storeDrivers) {
		collector.add("store.driver", fmt.Sprintf("must be one of %s", strings.Join(storeDrivers, ", ")))
	}
	if cfg.Store.Driver == "postgres" && strings.TrimSpace(cfg.Store.DSN) == "" {
		collector.add("store.dsn", "is required for postgres")
	}
	if err := cfg.Levels.Validate(); err != nil {
		collector.add("levels", err.Error())
	}
	validateAssessments(cfg.Assessments, collector)
	return collector.result()
}

func validateAssessments(assessments []Assessment, collector *issueCollector) {
	if len(assessments) == 0 {
		collector.add("assessments", "at least one assessment is required")
	}
	seen := map[string]bool{}
	for i, assessment := range assessments {
		prefix := fmt.Sprintf("assessments[%d]", i)
		switch {
		case assessment.ID == "":
			collector.add(prefix+".id", "is required")
		case strings.ContainsAny(assessment.ID, `/\ `):
			collector.add(prefix+".id", "must not contain slashes or spaces")
		case seen[assessment.ID]:
			collector.add(prefix+".id", fmt.Sprintf("duplicate id %q", assessment.ID))
		}
		seen[assessment.ID] = true
		if strings.ContainsAny(assessment.Bank, `/\`) {
			collector.add(prefix+".bank", "must be a bank name, not a path")
		}
		if assessment.MaxQuestions < 0 {
			collector.add(prefix+".max_questions", "must not be negative")
		}
		if assessment.TimeLimitSeconds < 0 {
			collector.add(prefix+".time_limit_seconds", "must not be negative")
		}
		if structured := assessment.Structured; structured != nil {
			if structured.ObjectiveLimit < 0 {
				collector.add(prefix+".structured.objective_limit", "must not be negative")
			}
			for j, task := range structured.Tasks {
				if strings.TrimSpace(task) == "" {
					collector.add(fmt.Sprintf("%s.structured.tasks[%d]", prefix, j), "must not be blank")
				}
			}
		}
	}
}

func oneOf(value string, allowed []string) bool {
	for _, candidate := range allowed {
		if value == candidate {
			return true
		}
	}
	return false
}
