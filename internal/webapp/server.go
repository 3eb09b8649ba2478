// Package webapp serves the quiz wizard as a Telegram mini-app page.
package webapp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	"quizform/internal/archive"
	"quizform/internal/question"
	"quizform/internal/wizard"
)

// Config captures the settings for serving the quiz.
type Config struct {
	Addr       string
	Questions  []question.Question
	Policy     wizard.Policy
	CloseDelay time.Duration
	// BotToken enables initData signature checks. Empty accepts the
	// reported identity unverified.
	BotToken       string
	InitDataMaxAge time.Duration
	SessionTTL     time.Duration
	// Archive stores delivered payloads when set.
	Archive  *archive.Archive
	Logger   logr.Logger
	Registry *prometheus.Registry
	// Now defaults to time.Now.
	Now func() time.Time
}

// Serve starts an HTTP server that hosts the quiz until ctx is cancelled.
func Serve(ctx context.Context, cfg Config) error {
	if ctx == nil {
		return errors.New("webapp: context is nil")
	}
	if cfg.Addr == "" {
		return errors.New("webapp: addr is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	cfg.Logger.Info("serving quiz", "addr", cfg.Addr, "questions", len(cfg.Questions))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		err := <-errCh
		if errors.Is(err, http.ErrServerClosed) || err == nil {
			return nil
		}
		return err
	}
}
