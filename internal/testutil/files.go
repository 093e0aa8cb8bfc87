package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content under dir and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// SampleBank is a small mixed bank used by session and CLI tests.
const SampleBank = `version: 1
id: sample
title: Sample test
questions:
  - id: q1
    kind: choice
    prompt: "She ___ to school every day."
    options: ["go", "goes", "going"]
    correct_answer: 1
  - id: q2
    kind: true_false
    prompt: "'Mice' is the plural of 'mouse'."
    correct_answer: true
  - id: q3
    kind: free_text
    prompt: "Why are you learning English?"
    rubric:
      checks:
        - type: contains_any
          terms: ["because"]
        - type: min_words
          value: 20
`
