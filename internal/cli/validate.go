package cli

import (
	"flag"
	"fmt"
	"io"

	"quizform/internal/config"
)

// runValidate builds the handler for the validate command.
func runValidate(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		questionsPath := flags.String("questions", "", "Path to a question set (YAML or JSON)")
		configPath := flags.String("config", "", "Path to a quizform config file")
		noColor := flags.Bool("no-color", false, "Disable colored log output")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		if (*questionsPath == "") == (*configPath == "") {
			fmt.Fprintln(stderr, "Specify exactly one of --questions or --config")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		path := *questionsPath
		if *configPath != "" {
			cfg, err := config.Load(*configPath)
			if err != nil {
				fmt.Fprintf(stderr, "Validation failed:\n%s\n", err.Error())
				return ExitError
			}
			fmt.Fprintln(stdout, "Config OK")
			path = cfg.Questions
		}

		set, err := loadQuestions(path, newLogger(stderr, false, *noColor))
		if err != nil {
			fmt.Fprintf(stderr, "Validation failed:\n%s\n", err.Error())
			return ExitError
		}
		fmt.Fprintf(stdout, "Questions OK (%d)\n", len(set.Questions))
		return ExitOK
	}
}
