package question

import (
	"fmt"
	"strings"
)

// Issue captures a validation problem in a question set.
type Issue struct {
	Field   string
	Message string
}

// ValidationError reports one or more validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error returns a readable message for validation failures.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return ""
	}
	parts := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return fmt.Sprintf("question set validation failed: %s", strings.Join(parts, "; "))
}

type issueCollector struct {
	issues []Issue
}

func (collector *issueCollector) add(field, message string) {
	collector.issues = append(collector.issues, Issue{Field: field, Message: message})
}

func (collector *issueCollector) result() error {
	if len(collector.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: collector.issues}
}

// NormalizeSet trims whitespace and validates the structure of a question set.
// The number of questions is checked separately by CheckCount.
func NormalizeSet(set Set) (Set, error) {
	collector := &issueCollector{}
	if set.Version == 0 {
		collector.add("version", "is required")
	} else if set.Version != 1 {
		collector.add("version", fmt.Sprintf("unsupported version %d", set.Version))
	}

	seenIDs := map[string]struct{}{}
	for i, question := range set.Questions {
		prefix := fmt.Sprintf("questions[%d]", i)
		question.ID = strings.TrimSpace(question.ID)
		if question.ID == "" {
			collector.add(prefix+".id", "is required")
		} else if _, exists := seenIDs[question.ID]; exists {
			collector.add(prefix+".id", fmt.Sprintf("duplicate id %q", question.ID))
		} else {
			seenIDs[question.ID] = struct{}{}
		}

		question.TaskText = strings.TrimSpace(question.TaskText)
		question.Image = strings.TrimSpace(question.Image)
		question.Prompt = strings.TrimSpace(question.Prompt)
		if question.Prompt == "" {
			collector.add(prefix+".question", "is required")
		}

		if len(question.Fields) == 0 {
			collector.add(prefix+".fields", "must include at least one entry")
		}
		fields := make([]Field, 0, len(question.Fields))
		seenFields := map[string]struct{}{}
		for fieldIndex, field := range question.Fields {
			fieldPrefix := fmt.Sprintf("%s.fields[%d]", prefix, fieldIndex)
			field.ID = strings.TrimSpace(field.ID)
			field.Label = strings.TrimSpace(field.Label)
			if field.ID == "" {
				collector.add(fieldPrefix+".id", "is required")
			} else if _, exists := seenFields[field.ID]; exists {
				collector.add(fieldPrefix+".id", fmt.Sprintf("duplicate id %q", field.ID))
			} else {
				seenFields[field.ID] = struct{}{}
			}
			if field.Label == "" {
				collector.add(fieldPrefix+".label", "is required")
			}
			fields = append(fields, field)
		}
		question.Fields = fields
		set.Questions[i] = question
	}

	if err := collector.result(); err != nil {
		return Set{}, err
	}
	return set, nil
}
