// Package wizardtui runs the quiz wizard in a terminal.
package wizardtui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"quizform/internal/wizard"
)

// Options configures the terminal wizard model.
type Options struct {
	NoColor bool
	// CloseDelay is how long the final screen stays up after submission.
	CloseDelay time.Duration
}

// Model renders a wizard.Controller with Bubble Tea. The controller should
// already be started.
type Model struct {
	controller *wizard.Controller
	view       wizard.View
	inputs     []textinput.Model
	focus      int
	closeDelay time.Duration
	noColor    bool
	quitting   bool
}

// NewModel constructs a terminal model for controller.
func NewModel(controller *wizard.Controller, opts Options) Model {
	closeDelay := opts.CloseDelay
	if closeDelay <= 0 {
		closeDelay = wizard.DefaultCloseDelay
	}
	m := Model{
		controller: controller,
		closeDelay: closeDelay,
		noColor:    opts.NoColor,
	}
	m = m.apply(controller.View(), nil, true)
	return m
}

// Init focuses the first input.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Submitted reports whether the payload has been handed off.
func (m Model) Submitted() bool {
	return m.view.Submitted
}

// closeMsg ends the program after the close delay.
type closeMsg struct{}

// Update handles key presses by dispatching wizard commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case closeMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		return m.dispatch(wizard.KeyPress("esc"))
	case "ctrl+o":
		return m.dispatch(wizard.OpenImage())
	case "ctrl+b", "pgup":
		return m.dispatch(wizard.Back())
	case "tab", "down":
		return m.moveFocus(1), nil
	case "shift+tab", "up":
		return m.moveFocus(-1), nil
	case "ctrl+x":
		field, ok := m.focusedField()
		if !ok {
			return m, nil
		}
		m.inputs[m.focus].SetValue("")
		return m.dispatch(wizard.ClearField(field.QuestionID, field.ID))
	case "enter":
		next, cmd := m.dispatch(wizard.Advance())
		model := next.(Model)
		if model.view.Submitted && !m.view.Submitted {
			delay := model.closeDelay
			return model, tea.Batch(cmd, tea.Tick(delay, func(time.Time) tea.Msg { return closeMsg{} }))
		}
		return model, cmd
	}
	return m.typeInto(msg)
}

// typeInto forwards the key to the focused input and stores its new text.
// Focus follows a newly revealed field.
func (m Model) typeInto(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	field, ok := m.focusedField()
	if !ok || m.view.Submitted {
		return m, nil
	}
	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	raw := m.inputs[m.focus].Value()
	if raw == before {
		return m, cmd
	}
	view, effects := m.controller.Dispatch(wizard.SetField(field.QuestionID, field.ID, raw))
	m = m.apply(view, effects, false)
	return m, cmd
}

// dispatch sends cmd to the controller and syncs inputs with the result.
func (m Model) dispatch(cmd wizard.Command) (tea.Model, tea.Cmd) {
	view, effects := m.controller.Dispatch(cmd)
	pageChanged := view.Page != m.view.Page
	m = m.apply(view, effects, pageChanged)
	return m, nil
}

// apply stores view and rebuilds the inputs. reset replaces every input's
// text with the stored value, otherwise typed text is kept.
func (m Model) apply(view wizard.View, effects []wizard.Effect, reset bool) Model {
	focusedID := ""
	if field, ok := m.focusedField(); ok && !reset {
		focusedID = field.ID
	}
	previous := map[string]textinput.Model{}
	if !reset {
		for i, field := range m.view.Fields {
			if i < len(m.inputs) {
				previous[field.ID] = m.inputs[i]
			}
		}
	}

	inputs := make([]textinput.Model, 0, len(view.Fields))
	for _, field := range view.Fields {
		input, ok := previous[field.ID]
		if !ok {
			input = newInput(field, m.noColor)
		}
		input.Blur()
		inputs = append(inputs, input)
	}
	m.view = view
	m.inputs = inputs

	for _, effect := range effects {
		if effect.Kind == wizard.EffectFocus {
			focusedID = effect.FieldID
		}
	}
	m.focus = 0
	for i, field := range view.Fields {
		if field.ID == focusedID {
			m.focus = i
		}
	}
	if len(m.inputs) > 0 && !view.Submitted {
		m.inputs[m.focus].Focus()
	}
	return m
}

func (m Model) moveFocus(delta int) Model {
	if len(m.inputs) == 0 {
		return m
	}
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
	return m
}

func (m Model) focusedField() (wizard.FieldView, bool) {
	if m.focus < 0 || m.focus >= len(m.view.Fields) || m.focus >= len(m.inputs) {
		return wizard.FieldView{}, false
	}
	return m.view.Fields[m.focus], true
}

func newInput(field wizard.FieldView, noColor bool) textinput.Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "number"
	input.CharLimit = 32
	input.Width = 20
	input.SetValue(field.Value)
	if !noColor {
		input.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	}
	return input
}

// View renders the current page.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return render(m.view, m.inputs, m.noColor)
}
