package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"quizform/internal/archive"
	"quizform/internal/config"
	"quizform/internal/webapp"
	"quizform/internal/wizard"
)

// serveQuiz and openArchive are test seams for the serve command.
var (
	serveQuiz   = webapp.Serve
	openArchive = archive.Open
)

// runServe builds the handler for the serve command.
func runServe(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "", "Path to a quizform config file")
		addr := fs.String("addr", "", "Address to listen on (overrides config)")
		questionsPath := fs.String("questions", "", "Path to a question set (overrides config)")
		policy := fs.String("policy", "", "Field visibility policy: progressive or all")
		archivePath := fs.String("archive", "", "DuckDB file for submissions (overrides config)")
		verbose := fs.Bool("verbose", false, "Enable verbose logging")
		noColor := fs.Bool("no-color", false, "Disable colored log output")
		if code, ok := parseFlags(cmd, fs, args, stdout, stderr); !ok {
			return code
		}

		cfg := config.Default()
		if *configPath != "" {
			loaded, err := config.Load(*configPath)
			if err != nil {
				fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
				return ExitError
			}
			cfg = loaded
		}
		if *addr != "" {
			cfg.Server.Addr = *addr
		}
		if *questionsPath != "" {
			cfg.Questions = *questionsPath
		}
		if *policy != "" {
			cfg.Policy = *policy
		}
		if *archivePath != "" {
			cfg.Archive.Path = *archivePath
		}
		if err := config.Validate(&cfg); err != nil {
			fmt.Fprintf(stderr, "Invalid configuration:\n%v\n", err)
			return ExitUsage
		}

		log := newLogger(stderr, *verbose, *noColor)
		set, err := loadQuestions(cfg.Questions, log)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load questions: %v\n", err)
			return ExitError
		}
		parsedPolicy, _ := wizard.ParsePolicy(cfg.Policy)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		serverCfg := webapp.Config{
			Addr:           cfg.Server.Addr,
			Questions:      set.Questions,
			Policy:         parsedPolicy,
			CloseDelay:     cfg.CloseDelay(),
			BotToken:       cfg.BotToken(),
			InitDataMaxAge: cfg.InitDataMaxAge(),
			SessionTTL:     cfg.SessionTTL(),
			Logger:         log,
		}
		if serverCfg.BotToken == "" {
			log.Info("bot token not set; user identity is not verified", "env", cfg.Telegram.BotTokenEnv)
		}
		if cfg.Archive.Path != "" {
			store, err := openArchive(ctx, cfg.Archive.Path)
			if err != nil {
				fmt.Fprintf(stderr, "Failed to open archive: %v\n", err)
				return ExitError
			}
			defer store.Close()
			serverCfg.Archive = store
		}

		fmt.Fprintf(stdout, "Serving quiz at http://%s\n", serverCfg.Addr)
		if err := serveQuiz(ctx, serverCfg); err != nil {
			fmt.Fprintf(stderr, "Server error: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}
