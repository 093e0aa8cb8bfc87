package rubric

import (
	"errors"
	"strings"
	"testing"
)

// TestBuildExpandsWordBounds verifies word bounds become the leading checks.
func TestBuildExpandsWordBounds(t *testing.T) {
	r := Rubric{
		MinWords: 3,
		MaxWords: 10,
		Checks:   []Spec{{Type: TypeContainsAny, Terms: []string{"because"}, Label: "gives a reason"}},
	}
	items, err := r.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if _, ok := items[0].Check.(MinWords); !ok {
		t.Fatalf("expected min words first, got %T", items[0].Check)
	}
	if _, ok := items[1].Check.(MaxWords); !ok {
		t.Fatalf("expected max words second, got %T", items[1].Check)
	}
	if items[2].Label != "gives a reason" {
		t.Fatalf("expected custom label, got %q", items[2].Label)
	}
}

// TestBuildRejectsUnknownType verifies unknown check types fail loudly.
func TestBuildRejectsUnknownType(t *testing.T) {
	_, err := Rubric{Checks: []Spec{{Type: "rhymes_with", Text: "cat"}}}.Build()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, ErrUnknownCheck) {
		t.Fatalf("expected unknown check error, got %v", err)
	}
}

// TestBuildRejectsInvalidParameters verifies parameter validation per type.
func TestBuildRejectsInvalidParameters(t *testing.T) {
	invalid := []Spec{
		{Type: TypeMinWords},
		{Type: TypeMaxWords, Value: -1},
		{Type: TypeContainsAll, Terms: []string{" "}},
		{Type: TypeStartsWith},
		{Type: TypeEndsWith},
		{Type: TypeCharCount, Text: "ab", Value: 1},
		{Type: TypeCharCount, Text: "!", Value: 0},
		{Type: TypeContainsAny, Terms: []string{"?"}},
		{Type: TypeContainsAll, Terms: []string{"because", "!", "..."}},
		{Type: TypeStartsWith, Text: "..."},
	}
	for _, spec := range invalid {
		if _, err := spec.Build(); err == nil {
			t.Fatalf("expected error for %+v", spec)
		}
	}
	if _, err := (Spec{Type: TypeEndsWith, Terms: []string{"?"}}).Build(); err != nil {
		t.Fatalf("ends_with compares raw text and should accept punctuation: %v", err)
	}
	if _, err := (Rubric{MinWords: 20, MaxWords: 10}).Build(); err == nil {
		t.Fatalf("expected error for inverted bounds")
	}
}

// TestCheckVariants verifies each variant's pass condition.
func TestCheckVariants(t *testing.T) {
	text := "Dear Sir, I am writing because the train was late. Yours faithfully!"
	cases := []struct {
		check Check
		want  bool
	}{
		{MinWords{N: 12}, true},
		{MinWords{N: 13}, false},
		{MaxWords{N: 12}, true},
		{MaxWords{N: 11}, false},
		{ContainsAny{Terms: []string{"Because", "since"}}, true},
		{ContainsAny{Terms: []string{"however"}}, false},
		{ContainsAll{Terms: []string{"dear sir", "TRAIN"}}, true},
		{ContainsAll{Terms: []string{"dear sir", "bus"}}, false},
		{StartsWith{Text: "dear"}, true},
		{StartsWith{Text: "hello"}, false},
		{EndsWith{Terms: []string{"?", "faithfully!"}}, true},
		{EndsWith{Terms: []string{"sincerely"}}, false},
		{CharCount{Char: ",", Min: 1}, true},
		{CharCount{Char: ",", Min: 2}, false},
	}
	for _, tc := range cases {
		if got := tc.check.Passes(text); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.check.Name(), got, tc.want)
		}
	}
}

// TestMinWordsBoundary verifies the exact word-count boundary.
func TestMinWordsBoundary(t *testing.T) {
	check := MinWords{N: 150}
	if !check.Passes(strings.Repeat("word ", 150)) {
		t.Fatalf("expected 150 words to pass")
	}
	if check.Passes(strings.Repeat("word ", 149)) {
		t.Fatalf("expected 149 words to fail")
	}
}
