// Package wizard implements the quiz form state machine.
//
// A Wizard holds the immutable question list and visibility policy. State
// transitions go through Dispatch, which is pure: it returns a new State and
// the effects a surface should perform. View maps a State to a render-ready
// description. Controller owns one State and talks to the host bridge.
package wizard

import (
	"time"

	"quizform/internal/question"
)

// Options configures a Wizard.
type Options struct {
	Policy Policy
	// Now stamps submissions. Defaults to time.Now.
	Now func() time.Time
}

// Wizard is the static part of the quiz: questions and rules.
type Wizard struct {
	questions []question.Question
	policy    Policy
	now       func() time.Time
}

// New builds a Wizard over a copy of questions.
func New(questions []question.Question, opts Options) *Wizard {
	policy, ok := ParsePolicy(string(opts.Policy))
	if !ok {
		policy = PolicyProgressive
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	copied := make([]question.Question, len(questions))
	copy(copied, questions)
	return &Wizard{questions: copied, policy: policy, now: now}
}

// Questions returns the questions in page order.
func (w *Wizard) Questions() []question.Question {
	out := make([]question.Question, len(w.questions))
	copy(out, w.questions)
	return out
}

// Initial returns the state on the first page with no answers.
func (w *Wizard) Initial() State {
	return State{Page: 0, Answers: NewAnswerSet(w.questions)}
}

// IsLast reports whether the state is on the final page.
func (w *Wizard) IsLast(state State) bool {
	return state.Page == len(w.questions)-1
}

// current returns the question on the state's page.
func (w *Wizard) current(state State) (question.Question, bool) {
	if state.Page < 0 || state.Page >= len(w.questions) {
		return question.Question{}, false
	}
	return w.questions[state.Page], true
}

// normalize restores the State invariants: bounded page, entry per question.
func (w *Wizard) normalize(state State) State {
	if state.Page < 0 {
		state.Page = 0
	}
	if state.Page >= len(w.questions) && len(w.questions) > 0 {
		state.Page = len(w.questions) - 1
	}
	if state.Answers == nil {
		state.Answers = NewAnswerSet(w.questions)
		return state
	}
	for _, q := range w.questions {
		if _, ok := state.Answers[q.ID]; !ok {
			state.Answers = state.Answers.cloneOuter()
			for _, missing := range w.questions {
				if _, exists := state.Answers[missing.ID]; !exists {
					state.Answers[missing.ID] = map[string]float64{}
				}
			}
			break
		}
	}
	return state
}
