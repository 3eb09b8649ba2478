package wizard

import "fmt"

// Texts shown by the surfaces.
const (
	HintIncomplete = "Fill in every field with a number to continue."
	HintSent       = "Answers sent."
	HintFallback   = "Opened outside the host app. The payload was written to the log."
	LabelNext      = "Next"
	LabelSubmit    = "Submit answers"
	LabelBack      = "Back"
)

// View is the render-ready description of a State.
type View struct {
	Empty     bool
	Page      int
	PageCount int
	Progress  string
	TaskText  string
	Image     string
	ImageAlt  string
	Prompt    string
	Fields    []FieldView
	Button    ButtonView
	CanGoBack bool
	Hint      string
	Focus     string
	Lightbox  LightboxView
	Theme     string
	Submitted bool
}

// FieldView describes one visible input.
type FieldView struct {
	QuestionID string
	ID         string
	Label      string
	Value      string
	// Set reports whether the field holds a value; the clear control is shown only then.
	Set bool
}

// ButtonView describes the advance/submit button.
type ButtonView struct {
	Label   string
	Enabled bool
}

// LightboxView describes the enlarged image overlay.
type LightboxView struct {
	Open  bool
	Image string
	Alt   string
}

// View maps a State to its render-ready description.
func (w *Wizard) View(state State) View {
	state = w.normalize(state)
	view := View{
		Page:      state.Page,
		PageCount: len(w.questions),
		Theme:     state.Theme,
		Submitted: state.Submitted,
		Focus:     state.Focus,
	}
	q, ok := w.current(state)
	if !ok {
		view.Empty = true
		view.Progress = fmt.Sprintf("Page 0 / %d", len(w.questions))
		view.Button = ButtonView{Label: LabelSubmit}
		return view
	}

	view.Progress = fmt.Sprintf("Page %d / %d", state.Page+1, len(w.questions))
	view.TaskText = q.TaskText
	view.Image = q.Image
	view.ImageAlt = fmt.Sprintf("Task image %d", state.Page+1)
	view.Prompt = q.Prompt

	visible := w.VisibleFieldCount(q, state.Answers)
	view.Fields = make([]FieldView, 0, visible)
	for _, field := range q.Fields[:visible] {
		fieldView := FieldView{QuestionID: q.ID, ID: field.ID, Label: field.Label}
		if value, set := state.Answers.Value(q.ID, field.ID); set {
			fieldView.Value = FormatValue(value)
			fieldView.Set = true
		}
		view.Fields = append(view.Fields, fieldView)
	}

	complete := Complete(q, state.Answers)
	label := LabelNext
	if w.IsLast(state) {
		label = LabelSubmit
	}
	view.Button = ButtonView{Label: label, Enabled: complete && !state.Submitted}
	view.CanGoBack = state.Page > 0 && !state.Submitted

	switch {
	case state.Submitted && state.Delivery == DeliveryHost:
		view.Hint = HintSent
	case state.Submitted && state.Delivery == DeliveryFallback:
		view.Hint = HintFallback
	case !complete:
		view.Hint = HintIncomplete
	}

	if state.Lightbox && q.Image != "" {
		view.Lightbox = LightboxView{Open: true, Image: q.Image, Alt: view.ImageAlt}
	}
	return view
}
