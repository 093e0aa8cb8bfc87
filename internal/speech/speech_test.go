package speech

import (
	"errors"
	"os/exec"
	"testing"
	"time"

	"lingoquiz/internal/testutil"
)

// TestDetectPicksFirstInstalledProgram verifies probing order and the no-audio fallback.
func TestDetectPicksFirstInstalledProgram(t *testing.T) {
	original := lookPath
	t.Cleanup(func() { lookPath = original })

	lookPath = func(name string) (string, error) {
		if name == "espeak" {
			return "/usr/bin/espeak", nil
		}
		return "", exec.ErrNotFound
	}
	speaker := Detect(nil)
	command, ok := speaker.(*Command)
	if !ok || command.path != "/usr/bin/espeak" {
		t.Fatalf("expected espeak command, got %#v", speaker)
	}

	lookPath = func(string) (string, error) { return "", errors.New("missing") }
	if speaker := Detect(nil); speaker != nil {
		t.Fatalf("expected nil speaker, got %#v", speaker)
	}
}

// TestCommandStopInterruptsSpeech verifies Stop kills a running utterance.
func TestCommandStopInterruptsSpeech(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	command := NewCommand(sh, []string{"-c", "sleep 5"}, nil)
	command.Speak("hello")
	if !command.Speaking() {
		t.Fatalf("expected speech to be running")
	}
	command.Stop()
	if command.Speaking() {
		t.Fatalf("expected speech to stop")
	}
}

// TestCommandFinishesOnItsOwn verifies a completed utterance is cleared.
func TestCommandFinishesOnItsOwn(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	command := NewCommand(sh, []string{"-c", "exit 0"}, nil)
	command.Speak("done")
	testutil.Eventually(t, 2*time.Second, func() bool {
		return !command.Speaking()
	}, "speech did not finish")
	command.Speak("")
	if command.Speaking() {
		t.Fatalf("empty text must not start speech")
	}
}

// TestNopIsSilent verifies Nop satisfies Speaker.
func TestNopIsSilent(t *testing.T) {
	var speaker Speaker = Nop{}
	speaker.Speak("anything")
	speaker.Stop()
}
