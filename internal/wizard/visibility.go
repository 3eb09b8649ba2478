package wizard

import "quizform/internal/question"

// Complete reports whether every field of q holds a finite number.
func Complete(q question.Question, answers AnswerSet) bool {
	for _, field := range q.Fields {
		if _, ok := answers.Value(q.ID, field.ID); !ok {
			return false
		}
	}
	return true
}

// firstUnfilled returns the index of the first unanswered field, or -1.
func firstUnfilled(q question.Question, answers AnswerSet) int {
	for i, field := range q.Fields {
		if _, ok := answers.Value(q.ID, field.ID); !ok {
			return i
		}
	}
	return -1
}

// VisibleFieldCount returns how many leading fields of q are shown.
func (w *Wizard) VisibleFieldCount(q question.Question, answers AnswerSet) int {
	if w.policy == PolicyAll {
		return len(q.Fields)
	}
	first := firstUnfilled(q, answers)
	if first == -1 {
		return len(q.Fields)
	}
	return first + 1
}

// visible reports whether fieldID is currently shown for q.
func (w *Wizard) visible(q question.Question, answers AnswerSet, fieldID string) bool {
	index := q.FieldIndex(fieldID)
	return index >= 0 && index < w.VisibleFieldCount(q, answers)
}
