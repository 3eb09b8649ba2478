package wizard

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr"

	"quizform/internal/bridge"
)

// fakeHost records bridge calls.
type fakeHost struct {
	ready    int
	expanded int
	closed   int
	scheme   string
	sent     []string
	sendErr  error
	user     *bridge.User
	handlers map[string]func()
}

func newFakeHost() *fakeHost {
	return &fakeHost{handlers: map[string]func(){}}
}

func (h *fakeHost) Ready()              { h.ready++ }
func (h *fakeHost) Expand()             { h.expanded++ }
func (h *fakeHost) ColorScheme() string { return h.scheme }
func (h *fakeHost) Close()              { h.closed++ }
func (h *fakeHost) User() *bridge.User  { return h.user }

func (h *fakeHost) OnEvent(event string, handler func()) { h.handlers[event] = handler }

func (h *fakeHost) SendData(data string) error {
	if h.sendErr != nil {
		return h.sendErr
	}
	h.sent = append(h.sent, data)
	return nil
}

// recordingFallback captures fallback deliveries.
type recordingFallback struct {
	delivered []string
}

func (f *recordingFallback) Deliver(data string) error {
	f.delivered = append(f.delivered, data)
	return nil
}

// TestControllerStartSyncsHost verifies lifecycle calls and theme subscription.
func TestControllerStartSyncsHost(t *testing.T) {
	host := newFakeHost()
	host.scheme = "dark"
	c := NewController(newTestWizard(1, 1, PolicyAll), ControllerOptions{Host: host})
	view := c.Start()
	if host.ready != 1 || host.expanded != 1 {
		t.Fatalf("expected ready and expand, got %d/%d", host.ready, host.expanded)
	}
	if view.Theme != "dark" {
		t.Fatalf("expected dark theme, got %q", view.Theme)
	}
	host.scheme = "light"
	host.handlers[bridge.EventThemeChanged]()
	if got := c.View().Theme; got != "light" {
		t.Fatalf("expected light theme after event, got %q", got)
	}
}

// TestControllerSendsPayloadToHost verifies host delivery, identity and delayed close.
func TestControllerSendsPayloadToHost(t *testing.T) {
	host := newFakeHost()
	host.user = &bridge.User{ID: 7, FirstName: "Ada"}
	var scheduled []time.Duration
	var closeFn func()
	var observed []Delivery
	c := NewController(newTestWizard(1, 1, PolicyAll), ControllerOptions{
		Host: host,
		AfterFunc: func(d time.Duration, fn func()) {
			scheduled = append(scheduled, d)
			closeFn = fn
		},
		OnSubmit: func(_ Payload, delivery Delivery) { observed = append(observed, delivery) },
	})
	c.Start()
	c.Dispatch(SetField("q1", "f1", "5"))
	view, effects := c.Dispatch(Advance())

	if len(host.sent) != 1 {
		t.Fatalf("expected one payload sent, got %d", len(host.sent))
	}
	payload, err := DecodePayload([]byte(host.sent[0]))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.User == nil || payload.User.ID != 7 {
		t.Fatalf("expected host user in payload, got %+v", payload.User)
	}
	if payload.Answers["q1"]["f1"] != 5 {
		t.Fatalf("unexpected answers: %v", payload.Answers)
	}
	if len(scheduled) != 1 || scheduled[0] != DefaultCloseDelay {
		t.Fatalf("expected close after %s, got %v", DefaultCloseDelay, scheduled)
	}
	closeFn()
	if host.closed != 1 {
		t.Fatalf("expected host close")
	}
	if view.Hint != HintSent {
		t.Fatalf("expected sent hint, got %q", view.Hint)
	}
	if hasEffect(effects, EffectSubmit) {
		t.Fatalf("expected submit effect to be consumed by the controller")
	}
	if len(observed) != 1 || observed[0] != DeliveryHost {
		t.Fatalf("unexpected submit observations: %v", observed)
	}
}

// TestControllerFallsBackWithoutHost verifies the local debug path.
func TestControllerFallsBackWithoutHost(t *testing.T) {
	fallback := &recordingFallback{}
	c := NewController(newTestWizard(1, 1, PolicyAll), ControllerOptions{Fallback: fallback})
	c.Start()
	c.Dispatch(SetField("q1", "f1", "3"))
	view, _ := c.Dispatch(Advance())
	if len(fallback.delivered) != 1 {
		t.Fatalf("expected fallback delivery, got %d", len(fallback.delivered))
	}
	if !strings.Contains(fallback.delivered[0], `"user":null`) {
		t.Fatalf("expected null user, got %s", fallback.delivered[0])
	}
	if view.Hint != HintFallback {
		t.Fatalf("expected fallback hint, got %q", view.Hint)
	}
}

// TestControllerFallsBackWhenHostRefuses verifies send errors degrade to the fallback.
func TestControllerFallsBackWhenHostRefuses(t *testing.T) {
	host := newFakeHost()
	host.sendErr = errors.New("not launched from a keyboard button")
	fallback := &recordingFallback{}
	c := NewController(newTestWizard(1, 1, PolicyAll), ControllerOptions{
		Host:      host,
		Fallback:  fallback,
		AfterFunc: func(time.Duration, func()) { t.Fatalf("unexpected close") },
	})
	c.Dispatch(SetField("q1", "f1", "3"))
	c.Dispatch(Advance())
	if len(fallback.delivered) != 1 {
		t.Fatalf("expected fallback delivery")
	}
	if got := c.State().Delivery; got != DeliveryFallback {
		t.Fatalf("expected fallback delivery state, got %s", got)
	}
}

// TestControllerDefaultFallbackLogs verifies the default console fallback logs the payload.
func TestControllerDefaultFallbackLogs(t *testing.T) {
	var logged bytes.Buffer
	log := logr.New(&captureSink{out: &logged})
	c := NewController(newTestWizard(1, 1, PolicyAll), ControllerOptions{Log: log})
	c.Dispatch(SetField("q1", "f1", "1"))
	c.Dispatch(Advance())
	if !strings.Contains(logged.String(), "payload") {
		t.Fatalf("expected payload to be logged, got %q", logged.String())
	}
}

// TestControllerObservesCommands verifies the command hook sees every dispatch.
func TestControllerObservesCommands(t *testing.T) {
	var kinds []CommandKind
	c := NewController(newTestWizard(1, 1, PolicyAll), ControllerOptions{
		Fallback:  &recordingFallback{},
		OnCommand: func(cmd Command) { kinds = append(kinds, cmd.Kind) },
	})
	c.Dispatch(SetField("q1", "f1", "1"))
	c.Dispatch(Advance())
	if len(kinds) != 2 || kinds[0] != CommandSetField || kinds[1] != CommandAdvance {
		t.Fatalf("unexpected observed commands: %v", kinds)
	}
}

// captureSink is a minimal logr sink writing messages to a buffer.
type captureSink struct {
	out *bytes.Buffer
}

func (s *captureSink) Init(logr.RuntimeInfo)          {}
func (s *captureSink) Enabled(int) bool               { return true }
func (s *captureSink) WithName(string) logr.LogSink   { return s }
func (s *captureSink) WithValues(...any) logr.LogSink { return s }

func (s *captureSink) Info(_ int, msg string, _ ...any) {
	s.out.WriteString(msg + "\n")
}

func (s *captureSink) Error(_ error, msg string, _ ...any) {
	s.out.WriteString("error: " + msg + "\n")
}
