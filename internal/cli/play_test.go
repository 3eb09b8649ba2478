package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// withStdin swaps the play input for the test.
func withStdin(t *testing.T, input string) {
	t.Helper()
	orig := stdin
	stdin = strings.NewReader(input)
	t.Cleanup(func() { stdin = orig })
}

// TestPlayPlainSubmits answers every page and logs the payload.
func TestPlayPlainSubmits(t *testing.T) {
	path := writeQuestions(t, t.TempDir(), 4)
	withStdin(t, "1\n2\n3\n4\n")

	var stdout, stderr bytes.Buffer
	code := Run([]string{"play", "--ui", "plain", "--no-color", "--questions", path}, &stdout, &stderr)
	if code != ExitOK {
		t.Fatalf("expected exit ok, got %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Page 4 / 4") {
		t.Fatalf("unexpected stdout: %q", stdout.String())
	}
	logs := stderr.String()
	for _, part := range []string{"payload", `\"q4\":{\"f1\":4}`, "Opened outside the host app."} {
		if !strings.Contains(logs, part) {
			t.Fatalf("expected %q in stderr:\n%s", part, logs)
		}
	}
}

// TestPlayPlainInputEnded exits with an error when input stops early.
func TestPlayPlainInputEnded(t *testing.T) {
	path := writeQuestions(t, t.TempDir(), 4)
	withStdin(t, "1\n")

	var stdout, stderr bytes.Buffer
	code := Run([]string{"play", "--ui", "plain", "--questions", path}, &stdout, &stderr)
	if code != ExitError {
		t.Fatalf("expected exit error, got %d", code)
	}
	if !strings.Contains(stderr.String(), "Quiz not submitted") {
		t.Fatalf("unexpected stderr: %q", stderr.String())
	}
}

// TestPlayRequiresQuestions reports the missing flag.
func TestPlayRequiresQuestions(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := Run([]string{"play"}, &stdout, &stderr); code != ExitUsage {
		t.Fatalf("expected usage exit, got %d", code)
	}
}

// TestPlayLiveUsesProgram runs the Bubble Tea path through the seam.
func TestPlayLiveUsesProgram(t *testing.T) {
	path := writeQuestions(t, t.TempDir(), 4)
	origTerminal := isTerminal
	isTerminal = func(any) bool { return true }
	t.Cleanup(func() { isTerminal = origTerminal })

	var ran bool
	origRun := runProgram
	runProgram = func(model tea.Model, _ io.Reader, _ io.Writer) (tea.Model, error) {
		ran = true
		return model, nil
	}
	t.Cleanup(func() { runProgram = origRun })

	var stdout, stderr bytes.Buffer
	code := Run([]string{"play", "--ui", "live", "--questions", path}, &stdout, &stderr)
	if !ran {
		t.Fatalf("expected live program to run")
	}
	if code != ExitError || !strings.Contains(stderr.String(), "Quiz not submitted") {
		t.Fatalf("expected unsubmitted exit, got %d: %q", code, stderr.String())
	}
}
