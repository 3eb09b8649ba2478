package wizardtui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"quizform/internal/wizard"
)

// ErrInputEnded is returned by RunPlain when input closes before submission.
var ErrInputEnded = errors.New("input ended before submission")

// RunPlain drives the wizard with line prompts, one visible field at a time,
// advancing as soon as a page is complete. The controller should already be
// started.
func RunPlain(controller *wizard.Controller, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	lastPage := -1
	for {
		view := controller.View()
		if view.Empty {
			_, err := fmt.Fprintln(out, "No questions configured.")
			return err
		}
		if view.Submitted {
			_, err := fmt.Fprintln(out, view.Hint)
			return err
		}
		if view.Page != lastPage {
			lastPage = view.Page
			if err := writePlainPage(out, view); err != nil {
				return err
			}
		}
		if view.Button.Enabled {
			controller.Dispatch(wizard.Advance())
			continue
		}

		field, ok := firstUnset(view)
		if !ok {
			return fmt.Errorf("page %d is incomplete with no open field", view.Page+1)
		}
		if _, err := fmt.Fprintf(out, "%s: ", field.Label); err != nil {
			return err
		}
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			if errors.Is(err, io.EOF) {
				return ErrInputEnded
			}
			return fmt.Errorf("read answer: %w", err)
		}
		next, _ := controller.Dispatch(wizard.SetField(field.QuestionID, field.ID, line))
		if _, stillOpen := fieldValue(next, field.ID); stillOpen {
			if _, err := fmt.Fprintln(out, "Enter a number."); err != nil {
				return err
			}
		}
	}
}

func writePlainPage(out io.Writer, view wizard.View) error {
	var b strings.Builder
	b.WriteString("\n" + view.Progress + "\n")
	if view.TaskText != "" {
		b.WriteString(view.TaskText + "\n")
	}
	if view.Image != "" {
		b.WriteString("[" + view.ImageAlt + ": " + view.Image + "]\n")
	}
	b.WriteString(view.Prompt + "\n")
	_, err := io.WriteString(out, b.String())
	return err
}

func firstUnset(view wizard.View) (wizard.FieldView, bool) {
	for _, field := range view.Fields {
		if !field.Set {
			return field, true
		}
	}
	return wizard.FieldView{}, false
}

// fieldValue reports the field's view and whether it is still unset.
func fieldValue(view wizard.View, fieldID string) (wizard.FieldView, bool) {
	for _, field := range view.Fields {
		if field.ID == fieldID {
			return field, !field.Set
		}
	}
	return wizard.FieldView{}, true
}
