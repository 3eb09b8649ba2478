package bridge

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// CallKind identifies a recorded host call.
type CallKind int

const (
	// CallReady records Telegram.WebApp.ready().
	CallReady CallKind = iota
	// CallExpand records Telegram.WebApp.expand().
	CallExpand
	// CallSendData records Telegram.WebApp.sendData(data).
	CallSendData
	// CallClose records a (possibly delayed) Telegram.WebApp.close().
	CallClose
)

// Call is one host call waiting to be replayed by the page.
type Call struct {
	Kind  CallKind
	Data  string
	Delay time.Duration
}

// Script is a Host for server-rendered pages. It records calls so the next
// page render can replay them against window.Telegram.WebApp.
type Script struct {
	mu       sync.Mutex
	calls    []Call
	scheme   string
	user     *User
	handlers map[string][]func()
}

// NewScript returns an empty page bridge.
func NewScript() *Script {
	return &Script{handlers: map[string][]func(){}}
}

// Ready records a ready call.
func (s *Script) Ready() { s.record(Call{Kind: CallReady}) }

// Expand records an expand call.
func (s *Script) Expand() { s.record(Call{Kind: CallExpand}) }

// SendData records the payload hand-off.
func (s *Script) SendData(data string) error {
	s.record(Call{Kind: CallSendData, Data: data})
	return nil
}

// Close records an immediate close.
func (s *Script) Close() { s.record(Call{Kind: CallClose}) }

// CloseAfter records a close the page performs after delay.
func (s *Script) CloseAfter(delay time.Duration) {
	s.record(Call{Kind: CallClose, Delay: delay})
}

// ColorScheme returns the last scheme reported by the page.
func (s *Script) ColorScheme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheme
}

// SetColorScheme stores the scheme reported by the page.
func (s *Script) SetColorScheme(scheme string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheme = NormalizeColorScheme(scheme)
}

// User returns the identity hint reported by the page.
func (s *Script) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// SetUser stores the identity hint reported by the page.
func (s *Script) SetUser(user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

// OnEvent registers a handler invoked by Emit.
func (s *Script) OnEvent(event string, handler func()) {
	if handler == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[event] = append(s.handlers[event], handler)
}

// Emit runs the handlers registered for event. Handlers run without the lock held.
func (s *Script) Emit(event string) {
	s.mu.Lock()
	handlers := append([]func(){}, s.handlers[event]...)
	s.mu.Unlock()
	for _, handler := range handlers {
		handler()
	}
}

// Drain returns and forgets the recorded calls.
func (s *Script) Drain() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	calls := s.calls
	s.calls = nil
	return calls
}

func (s *Script) record(call Call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

// Statement renders a call as JavaScript against a `tg` binding for
// window.Telegram?.WebApp. CallSendData reads the payload text from the
// element with id payloadElementID instead of inlining it.
func (c Call) Statement(payloadElementID string) string {
	switch c.Kind {
	case CallReady:
		return "tg?.ready?.();"
	case CallExpand:
		return "tg?.expand?.();"
	case CallSendData:
		id := quoteJS(payloadElementID)
		alert := quoteJS(FallbackAlert)
		var b strings.Builder
		b.WriteString("{ const data = document.getElementById(" + id + ")?.textContent ?? \"\";")
		b.WriteString(" if (tg?.sendData) { tg.sendData(data); }")
		b.WriteString(" else { console.log(\"Payload:\", JSON.parse(data)); alert(" + alert + "); } }")
		return b.String()
	case CallClose:
		if c.Delay <= 0 {
			return "tg?.close?.();"
		}
		return "setTimeout(() => tg?.close?.(), " + strconv.FormatInt(c.Delay.Milliseconds(), 10) + ");"
	default:
		return ""
	}
}

// quoteJS renders a string literal that is safe inside a script element.
func quoteJS(value string) string {
	encoded, err := json.Marshal(value)
	if err != nil {
		return `""`
	}
	return string(encoded)
}
