package wizard

import (
	"math"
	"strconv"
	"strings"

	"quizform/internal/question"
)

// AnswerSet maps question id to field id to the entered value.
// A missing field key means the field is unanswered.
type AnswerSet map[string]map[string]float64

// NewAnswerSet returns an AnswerSet with an empty entry for every question.
func NewAnswerSet(questions []question.Question) AnswerSet {
	answers := make(AnswerSet, len(questions))
	for _, q := range questions {
		answers[q.ID] = map[string]float64{}
	}
	return answers
}

// Value returns the stored value for a field and whether it is set.
func (a AnswerSet) Value(questionID, fieldID string) (float64, bool) {
	fields, ok := a[questionID]
	if !ok {
		return 0, false
	}
	value, ok := fields[fieldID]
	if !ok || !isFinite(value) {
		return 0, false
	}
	return value, true
}

// With returns a copy of the set with the field set to value. Non-finite
// values clear the field instead. The receiver is not modified.
func (a AnswerSet) With(questionID, fieldID string, value float64) AnswerSet {
	if !isFinite(value) {
		return a.Without(questionID, fieldID)
	}
	out := a.cloneOuter()
	fields := cloneFields(a[questionID])
	fields[fieldID] = value
	out[questionID] = fields
	return out
}

// Without returns a copy of the set with the field cleared.
func (a AnswerSet) Without(questionID, fieldID string) AnswerSet {
	out := a.cloneOuter()
	fields := cloneFields(a[questionID])
	delete(fields, fieldID)
	out[questionID] = fields
	return out
}

// Clone returns a deep copy of the set.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for questionID, fields := range a {
		out[questionID] = cloneFields(fields)
	}
	return out
}

func (a AnswerSet) cloneOuter() AnswerSet {
	out := make(AnswerSet, len(a)+1)
	for questionID, fields := range a {
		out[questionID] = fields
	}
	return out
}

func cloneFields(fields map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(fields)+1)
	for fieldID, value := range fields {
		out[fieldID] = value
	}
	return out
}

// ParseValue parses raw field input. Empty, non-numeric and non-finite input
// reports ok=false, which callers treat as "clear the field". Only plain
// decimal notation is accepted: no hex, no digit separators.
func ParseValue(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.IndexFunc(trimmed, notDecimal) >= 0 {
		return 0, false
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || !isFinite(value) {
		return 0, false
	}
	return value, true
}

// FormatValue renders a stored value the way it is shown in an input.
func FormatValue(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func notDecimal(r rune) bool {
	return !strings.ContainsRune("0123456789.eE+-", r)
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
