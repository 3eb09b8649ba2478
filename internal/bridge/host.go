// Package bridge models the chat-platform mini-app runtime that hosts the quiz.
//
// A Host mirrors the Telegram WebApp object: lifecycle calls, theme events,
// the final sendData hand-off and the untrusted user hint. When no host is
// present the wizard hands its payload to a Fallback instead.
package bridge

import (
	"strings"
	"time"
)

// EventThemeChanged is emitted by the host when its colour scheme changes.
const EventThemeChanged = "themeChanged"

// Host is the message-passing bridge provided by the enclosing mini-app runtime.
type Host interface {
	Ready()
	Expand()
	ColorScheme() string
	OnEvent(event string, handler func())
	SendData(data string) error
	Close()
	// User returns the host-provided identity hint, or nil. It is not verified.
	User() *User
}

// DelayedCloser is implemented by hosts that schedule their own delayed close.
type DelayedCloser interface {
	CloseAfter(delay time.Duration)
}

// Fallback receives the payload when the quiz runs outside a host.
type Fallback interface {
	Deliver(data string) error
}

// User is the identity the host reports for the current viewer.
type User struct {
	ID           int64  `json:"id"`
	IsBot        bool   `json:"is_bot,omitempty"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	IsPremium    bool   `json:"is_premium,omitempty"`
	PhotoURL     string `json:"photo_url,omitempty"`
}

// NormalizeColorScheme keeps "light" and "dark" (case-insensitive) and maps
// anything else to "".
func NormalizeColorScheme(scheme string) string {
	switch scheme = strings.ToLower(strings.TrimSpace(scheme)); scheme {
	case "light", "dark":
		return scheme
	default:
		return ""
	}
}
