package wizardtui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"quizform/internal/wizard"
)

func TestRunPlainSubmits(t *testing.T) {
	c, payloads := newTestController(4, 2, wizard.PolicyProgressive)
	var out bytes.Buffer
	input := strings.Join([]string{"1", "2", "abc", "3", "4", "5", "6", "7", "8"}, "\n")

	if err := RunPlain(c, strings.NewReader(input), &out); err != nil {
		t.Fatalf("run plain: %v", err)
	}
	if len(*payloads) != 1 {
		t.Fatalf("expected one payload, got %d", len(*payloads))
	}
	answers := (*payloads)[0].Answers
	if answers["q2"]["f1"] != 3 || answers["q4"]["f2"] != 8 {
		t.Fatalf("unexpected answers: %v", answers)
	}
	text := out.String()
	for _, part := range []string{"Page 1 / 4", "Page 4 / 4", "Field 2: ", "Enter a number.", wizard.HintFallback} {
		if !strings.Contains(text, part) {
			t.Fatalf("expected %q in output:\n%s", part, text)
		}
	}
}

func TestRunPlainInputEnded(t *testing.T) {
	c, payloads := newTestController(4, 1, wizard.PolicyAll)
	err := RunPlain(c, strings.NewReader("1\n2\n"), &bytes.Buffer{})
	if !errors.Is(err, ErrInputEnded) {
		t.Fatalf("expected ErrInputEnded, got %v", err)
	}
	if len(*payloads) != 0 {
		t.Fatalf("expected no payload")
	}
}
