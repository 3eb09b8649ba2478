package wizardtui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"quizform/internal/wizard"
)

const helpLine = "tab/shift+tab move · enter next · ctrl+x clear · ctrl+o image · ctrl+b back · ctrl+c quit"

// render lays out the page view with one input per visible field.
func render(view wizard.View, inputs []textinput.Model, noColor bool) string {
	if view.Empty {
		return stylize("No questions configured.", noColor, lipgloss.Color("242")) + "\n"
	}
	if view.Lightbox.Open {
		return renderLightbox(view.Lightbox, noColor)
	}

	lines := []string{stylize(view.Progress, noColor, lipgloss.Color("33"))}
	if view.TaskText != "" {
		lines = append(lines, "", view.TaskText)
	}
	if view.Image != "" {
		lines = append(lines, stylize("["+view.ImageAlt+": "+view.Image+"]", noColor, lipgloss.Color("240")))
	}
	lines = append(lines, "", bold(view.Prompt, noColor))
	for i, field := range view.Fields {
		lines = append(lines, field.Label)
		if i < len(inputs) {
			lines = append(lines, inputs[i].View())
		}
	}
	lines = append(lines, "")
	if view.Hint != "" {
		color := lipgloss.Color("160")
		if view.Submitted {
			color = lipgloss.Color("34")
		}
		lines = append(lines, stylize(view.Hint, noColor, color))
	}
	lines = append(lines, renderButton(view.Button, noColor))
	lines = append(lines, stylize(helpLine, noColor, lipgloss.Color("244")))
	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

func renderButton(button wizard.ButtonView, noColor bool) string {
	label := "[ " + button.Label + " ]"
	if !button.Enabled {
		return stylize(label, noColor, lipgloss.Color("242"))
	}
	return bold(label, noColor)
}

func renderLightbox(box wizard.LightboxView, noColor bool) string {
	body := strings.Join([]string{box.Alt, box.Image, "", "esc to close"}, "\n")
	if noColor {
		return body + "\n"
	}
	style := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
	return style.Render(body) + "\n"
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

func bold(text string, noColor bool) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Render(text)
}
