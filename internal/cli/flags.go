package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"

	"quizform/internal/logging"
	"quizform/internal/question"
)

// parseFlags parses args and rejects positional arguments. ok is false
// when the command should exit with code.
func parseFlags(cmd *Command, flags *flag.FlagSet, args []string, stdout, stderr io.Writer) (code int, ok bool) {
	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			printCommandUsage(cmd, stdout)
			return ExitOK, false
		}
		fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
		printCommandUsage(cmd, stderr)
		return ExitUsage, false
	}
	if flags.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(flags.Args(), " "))
		printCommandUsage(cmd, stderr)
		return ExitUsage, false
	}
	return ExitOK, true
}

// newLogger returns the command logger writing to stderr.
func newLogger(stderr io.Writer, verbose, noColor bool) logr.Logger {
	return logging.New(stderr, logging.Options{Verbose: verbose, NoColor: noColor})
}

// loadQuestions loads the set and logs, without failing, a count other than
// question.ExpectedCount.
func loadQuestions(path string, log logr.Logger) (question.Set, error) {
	set, err := question.LoadSet(path)
	if err != nil {
		return question.Set{}, err
	}
	if err := question.CheckCount(set, question.ExpectedCount); err != nil {
		if errors.Is(err, question.ErrQuestionCount) {
			log.Error(err, "question count", "path", path)
		} else {
			return question.Set{}, err
		}
	}
	return set, nil
}
