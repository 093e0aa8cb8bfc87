package answer

import (
	"math/rand"
	"testing"
	"testing/quick"
)

// TestNormalize verifies case folding, whitespace collapsing and trailing punctuation removal.
func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"":                      "",
		"  Because. ":           "because",
		"I   DON'T\tknow!!":     "i don't know",
		"Really ?":              "really",
		"...":                   "",
		"?!":                    "",
		"Wait… what?":           "wait… what",
		"¿Dónde está?":          "¿dónde está",
		"line\nbreak,  here ;:": "line break, here",
	}
	for input, want := range cases {
		if got := Normalize(input); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}

// TestTight verifies the strict form drops everything but letters and digits.
func TestTight(t *testing.T) {
	cases := map[string]string{
		"Don't":      "dont",
		"dont":       "dont",
		" Because. ": "because",
		"e-mail 2":   "email2",
		"---":        "",
		"Café!":      "café",
	}
	for input, want := range cases {
		if got := Tight(input); got != want {
			t.Fatalf("Tight(%q) = %q, want %q", input, got, want)
		}
	}
}

// TestNormalizeIdempotent checks that normalizing twice changes nothing.
func TestNormalizeIdempotent(t *testing.T) {
	fixed := []string{"", " ", "!!!", ". . .", "Hello, World!", "a  b\t\nc…", "ÉCOLE ?", "don't."}
	for _, value := range fixed {
		once := Normalize(value)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q then %q", value, once, twice)
		}
		tight := Tight(value)
		if Tight(tight) != tight {
			t.Fatalf("Tight not idempotent for %q", value)
		}
	}

	alphabet := []rune("aBcDéÜß ñ\t\n.,!?;:…'-_ 019ÀİΣς")
	property := func(seed int64) bool {
		rng := rand.New(rand.NewSource(seed))
		runes := make([]rune, rng.Intn(40))
		for i := range runes {
			runes[i] = alphabet[rng.Intn(len(alphabet))]
		}
		value := string(runes)
		once := Normalize(value)
		return Normalize(once) == once && Tight(Tight(value)) == Tight(value)
	}
	cfg := &quick.Config{MaxCount: 500, Rand: rand.New(rand.NewSource(7))}
	if err := quick.Check(property, cfg); err != nil {
		t.Fatalf("idempotence property failed: %v", err)
	}
}

// TestWordCount verifies whitespace splitting ignores empty runs.
func TestWordCount(t *testing.T) {
	if got := WordCount("  one two\t\tthree\n"); got != 3 {
		t.Fatalf("expected 3 words, got %d", got)
	}
	if got := WordCount("   "); got != 0 {
		t.Fatalf("expected 0 words, got %d", got)
	}
}

// TestSlug verifies slugs are dash-joined and respect the length cap.
func TestSlug(t *testing.T) {
	if got := Slug("What is your name?", 40); got != "what-is-your-name" {
		t.Fatalf("unexpected slug %q", got)
	}
	if got := Slug("What is your name?", 7); got != "what-is" {
		t.Fatalf("unexpected capped slug %q", got)
	}
	if got := Slug("What is", 5); got != "what" {
		t.Fatalf("expected no trailing dash, got %q", got)
	}
	if got := Slug("?!", 10); got != "" {
		t.Fatalf("expected empty slug, got %q", got)
	}
}
