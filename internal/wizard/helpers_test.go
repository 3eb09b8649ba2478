package wizard

import (
	"fmt"
	"time"

	"quizform/internal/question"
)

var fixedNow = time.Date(2026, 10, 18, 9, 30, 15, 123_000_000, time.UTC)

// questionsWithFields builds count questions q1..qN, each with fields f1..fM.
func questionsWithFields(count, fields int) []question.Question {
	questions := make([]question.Question, 0, count)
	for i := 1; i <= count; i++ {
		q := question.Question{
			ID:       fmt.Sprintf("q%d", i),
			TaskText: fmt.Sprintf("Task %d", i),
			Image:    fmt.Sprintf("https://example.com/q%d.png", i),
			Prompt:   fmt.Sprintf("Question %d?", i),
		}
		for j := 1; j <= fields; j++ {
			q.Fields = append(q.Fields, question.Field{ID: fmt.Sprintf("f%d", j), Label: fmt.Sprintf("Field %d", j)})
		}
		questions = append(questions, q)
	}
	return questions
}

// newTestWizard returns a wizard with a fixed clock.
func newTestWizard(count, fields int, policy Policy) *Wizard {
	return New(questionsWithFields(count, fields), Options{Policy: policy, Now: func() time.Time { return fixedNow }})
}

// apply dispatches commands in order and collects all effects.
func apply(w *Wizard, state State, cmds ...Command) (State, []Effect) {
	var all []Effect
	for _, cmd := range cmds {
		var effects []Effect
		state, effects = w.Dispatch(state, cmd)
		all = append(all, effects...)
	}
	return state, all
}

// submissions returns the payloads carried by submit effects.
func submissions(effects []Effect) []Payload {
	var out []Payload
	for _, effect := range effects {
		if effect.Kind == EffectSubmit && effect.Payload != nil {
			out = append(out, *effect.Payload)
		}
	}
	return out
}

// hasEffect reports whether effects contains kind.
func hasEffect(effects []Effect, kind EffectKind) bool {
	for _, effect := range effects {
		if effect.Kind == kind {
			return true
		}
	}
	return false
}
