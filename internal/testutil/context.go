// Package testutil holds helpers shared by quizform tests.
package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultTimeout bounds a test context when no timeout is given.
const DefaultTimeout = 5 * time.Second

// deadlineMargin leaves room to report failures before the test deadline.
const deadlineMargin = time.Second

// Context returns a context cancelled after timeout or shortly before the
// test deadline, whichever comes first, and at test cleanup.
func Context(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if deadline, ok := t.Deadline(); ok {
		if remaining := time.Until(deadline) - deadlineMargin; remaining > 0 && remaining < timeout {
			timeout = remaining
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}
