package question

import (
	"errors"
	"fmt"
	mathrand "math/rand"
	"math/rand/v2"
	"strings"
	"testing"
	"testing/quick"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// TestPrepareShufflePreservesCorrectOption verifies the key follows the correct option.
func TestPrepareShufflePreservesCorrectOption(t *testing.T) {
	raw := []Question{{
		Kind:          KindChoice,
		Prompt:        "Which word is a verb?",
		Options:       []string{"table", "run", "blue", "slowly"},
		CorrectAnswer: 1,
	}}
	moved := false
	for seed := uint64(0); seed < 200; seed++ {
		prepared, err := Prepare(raw, PickOptions{}, seeded(seed))
		if err != nil {
			t.Fatalf("seed %d: prepare: %v", seed, err)
		}
		got, ok := prepared[0].CorrectOption()
		if !ok || got != "run" {
			t.Fatalf("seed %d: expected correct option run, got %q (options %v)", seed, got, prepared[0].Options)
		}
		if *prepared[0].CorrectIndex != 1 {
			moved = true
		}
	}
	if !moved {
		t.Fatalf("expected options to move for at least one seed")
	}
	if raw[0].Options[1] != "run" {
		t.Fatalf("expected raw options to stay untouched, got %v", raw[0].Options)
	}
}

// TestPrepareShuffleProperty checks the key remap for arbitrary option counts.
func TestPrepareShuffleProperty(t *testing.T) {
	property := func(seed uint64, count, correct uint8) bool {
		n := int(count%7) + 1
		key := int(correct) % n
		options := make([]string, n)
		for i := range options {
			options[i] = fmt.Sprintf("option %d", i)
		}
		raw := []Question{{Kind: KindChoice, Prompt: "p", Options: options, CorrectAnswer: key}}
		prepared, err := Prepare(raw, PickOptions{}, seeded(seed))
		if err != nil || len(prepared[0].Options) != n {
			return false
		}
		got, _ := prepared[0].CorrectOption()
		return got == options[key]
	}
	config := &quick.Config{MaxCount: 300, Rand: mathrand.New(mathrand.NewSource(7))}
	if err := quick.Check(property, config); err != nil {
		t.Fatalf("shuffle property failed: %v", err)
	}
}

// TestPrepareIDsAreStable verifies ids do not depend on shuffling.
func TestPrepareIDsAreStable(t *testing.T) {
	raw := []Question{
		{Kind: KindChoice, Prompt: "What is your name?", Options: []string{"a", "b"}, CorrectAnswer: 0},
		{Kind: KindChoice, Prompt: "What is your name?", Options: []string{"a", "b"}, CorrectAnswer: 1},
		{ID: "q-3", Kind: KindFillBlank, Prompt: "I ___ tired.", CorrectAnswer: "am"},
		{ID: "q-3", Kind: KindTrueFalse, Prompt: "Cats bark.", CorrectAnswer: false},
	}
	first, err := Prepare(raw, PickOptions{}, seeded(1))
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	second, err := Prepare(raw, PickOptions{}, seeded(99))
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	bySource := map[int]string{}
	seen := map[string]bool{}
	for _, item := range first {
		bySource[item.SourceIndex] = item.ID
		if seen[item.ID] {
			t.Fatalf("duplicate id %q", item.ID)
		}
		seen[item.ID] = true
	}
	for _, item := range second {
		if bySource[item.SourceIndex] != item.ID {
			t.Fatalf("source %d: id changed from %q to %q", item.SourceIndex, bySource[item.SourceIndex], item.ID)
		}
	}
	want := []string{"choice-1-what-is-your-name", "choice-2-what-is-your-name", "q-3", "q-3-2"}
	for i, id := range AssignIDs(raw) {
		if id != want[i] {
			t.Fatalf("id %d: expected %q, got %q", i, want[i], id)
		}
	}
}

// TestAssignIDsSuffixesCollisions verifies derived ids that clash with explicit ones are suffixed.
func TestAssignIDsSuffixesCollisions(t *testing.T) {
	raw := []Question{
		{ID: "fill_blank-2", Kind: KindChoice, Prompt: "first"},
		{Kind: KindFillBlank, Prompt: "?!"},
	}
	ids := AssignIDs(raw)
	if ids[0] != "fill_blank-2" || ids[1] != "fill_blank-2-2" {
		t.Fatalf("unexpected ids %v", ids)
	}
}

// TestPrepareTrueFalse verifies implicit options and key coercion.
func TestPrepareTrueFalse(t *testing.T) {
	cases := []struct {
		name    string
		options []string
		key     any
		want    string
		issue   bool
	}{
		{name: "bool true", key: true, want: "True"},
		{name: "bool false", key: false, want: "False"},
		{name: "text no", key: "No", want: "False"},
		{name: "index zero", key: 0, want: "True"},
		{name: "string one", key: "1", want: "False"},
		{name: "unknown", key: "maybe", issue: true},
		{name: "missing", key: nil, issue: true},
		{name: "custom labels bool", options: []string{"No", "Yes"}, key: true, want: "Yes"},
		{name: "custom labels text", options: []string{"Agree", "Disagree"}, key: "disagree", want: "Disagree"},
		{name: "custom labels index", options: []string{"Agree", "Disagree"}, key: 0, want: "Agree"},
		{name: "custom labels out of range", options: []string{"Agree", "Disagree"}, key: 4, issue: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := []Question{{Kind: KindTrueFalse, Prompt: "Statement", Options: tc.options, CorrectAnswer: tc.key}}
			prepared, err := Prepare(raw, PickOptions{}, seeded(3))
			if err != nil {
				t.Fatalf("prepare: %v", err)
			}
			item := prepared[0]
			if tc.options == nil && strings.Join(item.Options, ",") != "True,False" {
				t.Fatalf("expected implicit options, got %v", item.Options)
			}
			if tc.issue {
				if item.KeyIssue == nil || !errors.Is(item.KeyIssue, ErrAmbiguousKey) {
					t.Fatalf("expected key issue, got %+v", item)
				}
				if item.CorrectIndex != nil {
					t.Fatalf("expected no correct index, got %d", *item.CorrectIndex)
				}
				return
			}
			if item.KeyIssue != nil {
				t.Fatalf("unexpected key issue: %v", item.KeyIssue)
			}
			if got, _ := item.CorrectOption(); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

// TestPrepareChoiceKeys verifies string keys pass through and bad indexes are flagged.
func TestPrepareChoiceKeys(t *testing.T) {
	options := []string{"went", "gone", "goed"}
	raw := []Question{
		{ID: "text", Kind: KindChoice, Prompt: "Past of go", Options: options, CorrectAnswer: "went"},
		{ID: "range", Kind: KindChoice, Prompt: "Past of go", Options: options, CorrectAnswer: 3},
		{ID: "negative", Kind: KindChoice, Prompt: "Past of go", Options: options, CorrectAnswer: -1},
		{ID: "list", Kind: KindChoice, Prompt: "Past of go", Options: options, CorrectAnswer: []any{"went"}},
		{ID: "fraction", Kind: KindChoice, Prompt: "Past of go", Options: options, CorrectAnswer: 1.5},
	}
	prepared, err := Prepare(raw, PickOptions{}, seeded(5))
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	byID := map[string]Prepared{}
	for _, item := range prepared {
		byID[item.ID] = item
	}
	text := byID["text"]
	if text.CorrectText != "went" || text.CorrectIndex != nil || strings.Join(text.Options, ",") != "went,gone,goed" {
		t.Fatalf("expected string key to pass through unshuffled, got %+v", text)
	}
	for _, id := range []string{"range", "negative", "list", "fraction"} {
		if byID[id].KeyIssue == nil {
			t.Fatalf("%s: expected key issue", id)
		}
	}
}

// TestPrepareFillBlankAccepted verifies the accepted set merges key and extras.
func TestPrepareFillBlankAccepted(t *testing.T) {
	raw := []Question{
		{ID: "a", Kind: KindFillBlank, Prompt: "I ___ here since 2010.", CorrectAnswer: []any{"have lived", " "}, AcceptedAnswers: []string{"'ve lived"}},
		{ID: "b", Kind: KindFillBlank, Prompt: "Year?", CorrectAnswer: 1990},
		{ID: "c", Kind: KindFillBlank, Prompt: "Empty", AcceptedAnswers: []string{"  "}},
	}
	prepared, err := Prepare(raw, PickOptions{}, seeded(2))
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	byID := map[string]Prepared{}
	for _, item := range prepared {
		byID[item.ID] = item
	}
	if got := strings.Join(byID["a"].Accepted, "|"); got != "have lived|'ve lived" {
		t.Fatalf("unexpected accepted list %q", got)
	}
	if got := strings.Join(byID["b"].Accepted, "|"); got != "1990" {
		t.Fatalf("unexpected numeric accepted list %q", got)
	}
	if byID["c"].KeyIssue == nil {
		t.Fatalf("expected key issue for empty accepted list")
	}
}

// TestPrepareDefaultsPoints verifies missing points count as one.
func TestPrepareDefaultsPoints(t *testing.T) {
	raw := []Question{
		{Kind: KindFillBlank, Prompt: "a", CorrectAnswer: "x"},
		{Kind: KindFillBlank, Prompt: "b", CorrectAnswer: "x", Points: 3},
	}
	prepared, err := Prepare(raw, PickOptions{}, seeded(2))
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	for _, item := range prepared {
		want := 1
		if item.SourceIndex == 1 {
			want = 3
		}
		if item.Points != want {
			t.Fatalf("%s: expected %d points, got %d", item.ID, want, item.Points)
		}
	}
}

// TestPrepareLimit verifies the order is shuffled and capped.
func TestPrepareLimit(t *testing.T) {
	raw := make([]Question, 10)
	for i := range raw {
		raw[i] = Question{Kind: KindFillBlank, Prompt: fmt.Sprintf("Question %d", i), CorrectAnswer: "x"}
	}
	prepared, err := Prepare(raw, PickOptions{Limit: 3}, seeded(11))
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if len(prepared) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(prepared))
	}
	all, err := Prepare(raw, PickOptions{}, seeded(11))
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if len(all) != 10 {
		t.Fatalf("expected uncapped bank, got %d", len(all))
	}
	reordered := false
	for i, item := range all {
		if item.SourceIndex != i {
			reordered = true
		}
	}
	if !reordered {
		t.Fatalf("expected shuffled order")
	}
}

func writingBank() []Question {
	raw := make([]Question, 0, 10)
	for i := 0; i < 6; i++ {
		raw = append(raw, Question{Kind: KindFillBlank, Prompt: fmt.Sprintf("Grammar %d", i), CorrectAnswer: "x"})
	}
	for _, task := range []string{"task1", "task1", "task2", "task2"} {
		raw = append(raw, Question{Kind: KindFreeText, Prompt: "Write about " + task, Task: task})
	}
	return raw
}

// TestPrepareStructuredPick verifies objective capping and task coverage.
func TestPrepareStructuredPick(t *testing.T) {
	opts := PickOptions{Structured: true, Limit: 6, ObjectiveLimit: 3, Tasks: []string{"task1", "task2"}}
	for seed := uint64(0); seed < 50; seed++ {
		prepared, err := Prepare(writingBank(), opts, seeded(seed))
		if err != nil {
			t.Fatalf("prepare: %v", err)
		}
		if len(prepared) != 6 {
			t.Fatalf("seed %d: expected 6 questions, got %d", seed, len(prepared))
		}
		tasks := map[string]int{}
		for i, item := range prepared {
			if (i < 3) != item.Kind.Objective() {
				t.Fatalf("seed %d: expected objective section first, got %s at %d", seed, item.Kind, i)
			}
			if item.Kind == KindFreeText {
				tasks[item.Task]++
			}
		}
		if tasks["task1"] == 0 || tasks["task2"] == 0 {
			t.Fatalf("seed %d: expected both tasks covered, got %v", seed, tasks)
		}
	}
}

// TestPrepareStructuredPickReservesTaskSlots verifies tasks win over objective items under a tight cap.
func TestPrepareStructuredPickReservesTaskSlots(t *testing.T) {
	opts := PickOptions{Structured: true, Limit: 3, ObjectiveLimit: 3, Tasks: []string{"task1", "task2", "task3"}}
	prepared, err := Prepare(writingBank(), opts, seeded(4))
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if len(prepared) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(prepared))
	}
	if !prepared[0].Kind.Objective() {
		t.Fatalf("expected one objective item first, got %s", prepared[0].Kind)
	}
	if prepared[1].Task != "task1" || prepared[2].Task != "task2" {
		t.Fatalf("expected task1 then task2, got %q and %q", prepared[1].Task, prepared[2].Task)
	}
}
