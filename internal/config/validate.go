package config

import (
	"fmt"
	"strings"

	"quizform/internal/wizard"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// issueCollector accumulates validation issues.
type issueCollector struct {
	issues []Issue
}

func (c *issueCollector) add(field, message string) {
	c.issues = append(c.issues, Issue{Field: field, Message: message})
}

func (c *issueCollector) result() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: c.issues}
}

// Validate checks a normalized config and reports every problem at once.
func Validate(cfg *Config) error {
	var issues issueCollector
	if cfg.Questions == "" {
		issues.add("questions", "is required")
	}
	if _, ok := wizard.ParsePolicy(cfg.Policy); !ok {
		issues.add("policy", fmt.Sprintf("must be %q or %q", wizard.PolicyProgressive, wizard.PolicyAll))
	}
	if cfg.Server.Addr == "" {
		issues.add("server.addr", "is required")
	}
	if cfg.Server.CloseDelayMS < 0 {
		issues.add("server.close_delay_ms", "must be positive")
	}
	if cfg.Server.SessionTTLMinutes < 0 {
		issues.add("server.session_ttl_minutes", "must be positive")
	}
	if cfg.Telegram.InitDataMaxAgeMinutes < 0 {
		issues.add("telegram.init_data_max_age_minutes", "must be positive")
	}
	return issues.result()
}
