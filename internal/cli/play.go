package cli

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"quizform/internal/bridge"
	"quizform/internal/ui/wizardtui"
	"quizform/internal/wizard"
)

// stdin and runProgram are test seams for the play command.
var (
	stdin      io.Reader = os.Stdin
	runProgram           = func(model tea.Model, in io.Reader, out io.Writer) (tea.Model, error) {
		return tea.NewProgram(model, tea.WithInput(in), tea.WithOutput(out), tea.WithAltScreen()).Run()
	}
)

// runPlay builds the handler for the play command.
func runPlay(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		questionsPath := fs.String("questions", "", "Path to a question set (YAML or JSON)")
		policyFlag := fs.String("policy", string(wizard.PolicyProgressive), "Field visibility policy: progressive or all")
		uiMode := fs.String("ui", "auto", "UI mode: auto, live or plain")
		verbose := fs.Bool("verbose", false, "Enable verbose logging")
		noColor := fs.Bool("no-color", false, "Disable colored output")
		if code, ok := parseFlags(cmd, fs, args, stdout, stderr); !ok {
			return code
		}
		if *questionsPath == "" {
			fmt.Fprintln(stderr, "Missing --questions")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		policy, ok := wizard.ParsePolicy(*policyFlag)
		if !ok {
			fmt.Fprintf(stderr, "invalid policy %q (expected progressive|all)\n", *policyFlag)
			return ExitUsage
		}
		decision, err := resolveUIMode(*uiMode, *verbose, stdin, stdout)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		// Live mode holds log lines until the program releases the terminal.
		var held bytes.Buffer
		logOut := stderr
		if decision.useLive {
			logOut = &held
		}
		log := newLogger(logOut, *verbose, *noColor)
		defer func() {
			if held.Len() > 0 {
				_, _ = io.Copy(stderr, &held)
			}
		}()

		set, err := loadQuestions(*questionsPath, log)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load questions: %v\n", err)
			return ExitError
		}
		fallback := bridge.Console{Log: log.WithName("fallback")}
		if !decision.useLive {
			fallback.Alert = stderr
		}
		controller := wizard.NewController(
			wizard.New(set.Questions, wizard.Options{Policy: policy}),
			wizard.ControllerOptions{Fallback: fallback, Log: log.WithName("wizard")},
		)
		controller.Start()

		if !decision.useLive {
			if err := wizardtui.RunPlain(controller, stdin, stdout); err != nil {
				if errors.Is(err, wizardtui.ErrInputEnded) {
					fmt.Fprintln(stderr, "Quiz not submitted: input ended")
					return ExitError
				}
				fmt.Fprintf(stderr, "Quiz failed: %v\n", err)
				return ExitError
			}
			return ExitOK
		}

		final, err := runProgram(wizardtui.NewModel(controller, wizardtui.Options{NoColor: *noColor}), stdin, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "Quiz failed: %v\n", err)
			return ExitError
		}
		if model, ok := final.(wizardtui.Model); !ok || !model.Submitted() {
			fmt.Fprintln(stderr, "Quiz not submitted")
			return ExitError
		}
		return ExitOK
	}
}
