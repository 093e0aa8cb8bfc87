package cli

import (
	"testing"
)

// TestResolveUIMode verifies ui mode decision logic.
func TestResolveUIMode(t *testing.T) {
	cases := []struct {
		name       string
		mode       string
		isTTY      bool
		expectLive bool
		wantWarn   bool
		wantErr    bool
	}{
		{name: "auto tty", mode: "auto", isTTY: true, expectLive: true},
		{name: "empty means auto", mode: "", isTTY: true, expectLive: true},
		{name: "auto non-tty", mode: "auto", isTTY: false, expectLive: false},
		{name: "plain", mode: "plain", isTTY: true, expectLive: false},
		{name: "live tty", mode: "live", isTTY: true, expectLive: true},
		{name: "live non-tty warning", mode: "LIVE", isTTY: false, expectLive: false, wantWarn: true},
		{name: "invalid mode", mode: "nope", isTTY: true, wantErr: true},
	}

	original := isTerminal
	t.Cleanup(func() { isTerminal = original })

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			isTerminal = func(any) bool { return tc.isTTY }
			decision, err := resolveUIMode(tc.mode, nil, nil)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if decision.useLive != tc.expectLive {
				t.Fatalf("expected useLive=%v, got %v", tc.expectLive, decision.useLive)
			}
			if tc.wantWarn != (decision.warning != "") {
				t.Fatalf("unexpected warning %q", decision.warning)
			}
		})
	}
}

// TestDefaultIsTerminalRejectsNonFiles covers buffers and nil streams.
func TestDefaultIsTerminalRejectsNonFiles(t *testing.T) {
	if defaultIsTerminal(nil) {
		t.Fatalf("nil stream is not a terminal")
	}
	if defaultIsTerminal(struct{}{}) {
		t.Fatalf("plain value is not a terminal")
	}
}
