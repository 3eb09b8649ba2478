package wizard

import (
	"strings"

	"quizform/internal/bridge"
)

// Dispatch applies cmd to state and returns the next state with the effects
// the surface should perform. The input state is never modified.
func (w *Wizard) Dispatch(state State, cmd Command) (State, []Effect) {
	state = w.normalize(state)
	state.Focus = ""
	switch cmd.Kind {
	case CommandSetField:
		return w.setField(state, cmd)
	case CommandClearField:
		return w.clearField(state, cmd)
	case CommandAdvance:
		return w.advance(state)
	case CommandBack:
		return w.back(state)
	case CommandOpenImage:
		return w.openImage(state)
	case CommandCloseImage:
		return closeImage(state)
	case CommandKeyPress:
		if isEscape(cmd.Key) {
			return closeImage(state)
		}
		return state, nil
	case CommandThemeChanged:
		scheme := bridge.NormalizeColorScheme(cmd.Scheme)
		if scheme == state.Theme {
			return state, nil
		}
		state.Theme = scheme
		return state, []Effect{{Kind: EffectRender}}
	case CommandDelivered:
		state.Delivery = cmd.Delivery
		return state, []Effect{{Kind: EffectRender}}
	default:
		return state, nil
	}
}

// setField stores parsed input for a visible field of the current page.
func (w *Wizard) setField(state State, cmd Command) (State, []Effect) {
	q, ok := w.current(state)
	if !ok || state.Submitted || cmd.QuestionID != q.ID || !w.visible(q, state.Answers, cmd.FieldID) {
		return state, nil
	}
	before := w.VisibleFieldCount(q, state.Answers)
	if value, ok := ParseValue(cmd.Raw); ok {
		state.Answers = state.Answers.With(q.ID, cmd.FieldID, value)
	} else {
		state.Answers = state.Answers.Without(q.ID, cmd.FieldID)
	}
	after := w.VisibleFieldCount(q, state.Answers)
	if after == before {
		return state, nil
	}
	effects := []Effect{{Kind: EffectRender}}
	if after > before {
		focus := q.Fields[before].ID
		if first := firstUnfilled(q, state.Answers); first >= 0 && first < after {
			focus = q.Fields[first].ID
		}
		state.Focus = focus
		effects = append(effects, Effect{Kind: EffectFocus, FieldID: focus})
	}
	return state, effects
}

// clearField removes a visible field's value. Later fields hide again under
// the progressive policy.
func (w *Wizard) clearField(state State, cmd Command) (State, []Effect) {
	q, ok := w.current(state)
	if !ok || state.Submitted || cmd.QuestionID != q.ID || !w.visible(q, state.Answers, cmd.FieldID) {
		return state, nil
	}
	if _, set := state.Answers.Value(q.ID, cmd.FieldID); !set {
		return state, nil
	}
	state.Answers = state.Answers.Without(q.ID, cmd.FieldID)
	state.Focus = cmd.FieldID
	return state, []Effect{{Kind: EffectRender}, {Kind: EffectFocus, FieldID: cmd.FieldID}}
}

// advance moves to the next page, or submits from the last one. It is a
// no-op while any field of the current page is unanswered.
func (w *Wizard) advance(state State) (State, []Effect) {
	q, ok := w.current(state)
	if !ok || state.Submitted || !Complete(q, state.Answers) {
		return state, nil
	}
	if !w.IsLast(state) {
		state.Page++
		state.Lightbox = false
		return state, []Effect{{Kind: EffectRender}, {Kind: EffectScrollTop}}
	}
	state.Submitted = true
	payload := Payload{
		Answers:     state.Answers.Clone(),
		SubmittedAt: w.now().UTC().Format(TimestampLayout),
	}
	return state, []Effect{{Kind: EffectSubmit, Payload: &payload}, {Kind: EffectRender}}
}

// back returns to the previous page.
func (w *Wizard) back(state State) (State, []Effect) {
	if state.Submitted || state.Page == 0 || len(w.questions) == 0 {
		return state, nil
	}
	state.Page--
	state.Lightbox = false
	return state, []Effect{{Kind: EffectRender}, {Kind: EffectScrollTop}}
}

// openImage shows the current task image enlarged.
func (w *Wizard) openImage(state State) (State, []Effect) {
	q, ok := w.current(state)
	if !ok || q.Image == "" || state.Lightbox {
		return state, nil
	}
	state.Lightbox = true
	return state, []Effect{{Kind: EffectRender}}
}

func closeImage(state State) (State, []Effect) {
	if !state.Lightbox {
		return state, nil
	}
	state.Lightbox = false
	return state, []Effect{{Kind: EffectRender}}
}

func isEscape(key string) bool {
	switch strings.ToLower(key) {
	case "escape", "esc":
		return true
	default:
		return false
	}
}
