package bridge

import (
	"fmt"
	"io"

	"github.com/go-logr/logr"
)

// FallbackAlert is shown when the quiz is opened outside the host app.
const FallbackAlert = "Opened outside the host app. See the payload in the log."

// Console is the local debug path: the payload is logged and an alert is printed.
type Console struct {
	Log   logr.Logger
	Alert io.Writer
}

// Deliver logs the payload and writes the alert line.
func (c Console) Deliver(data string) error {
	c.Log.Info("payload", "data", data)
	if c.Alert == nil {
		return nil
	}
	if _, err := fmt.Fprintln(c.Alert, FallbackAlert); err != nil {
		return fmt.Errorf("write alert: %w", err)
	}
	return nil
}
