package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"legalaid/internal/config"
	"legalaid/internal/i18n"
	"legalaid/internal/transport"
	"legalaid/internal/tui"
)

// RunClient starts the terminal conversation client.
func RunClient(args []string) int {
	cfg, err := config.LoadClientConfig(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	logger, closeLog, err := clientLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// No client timeout: an answer streams for as long as the model talks and
	// the stall timeout covers silence.
	client := transport.NewClient(&http.Client{}, cfg.BackendURL)

	plain := cfg.Plain || !term.IsTerminal(int(os.Stdout.Fd()))
	logger.Info("Starting chat client", "backend_url", cfg.BackendURL, "language", cfg.Language, "plain", plain)

	err = tui.Run(ctx, tui.Options{
		Transport:    client,
		Language:     i18n.Language(cfg.Language),
		StallTimeout: cfg.StallTimeout,
		Logger:       logger,
		In:           os.Stdin,
		Out:          os.Stdout,
		Plain:        plain,
	})
	if err != nil {
		logger.Error("Chat client failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// clientLogger writes JSON logs to LOG_FILE, or nowhere, so that log lines
// never land on the terminal UI.
func clientLogger(cfg *config.ClientConfig) (*slog.Logger, func(), error) {
	if cfg.LogFile == "" {
		return setupLogger(io.Discard, cfg.LogLevel), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open log file: %w", err)
	}
	return setupLogger(f, cfg.LogLevel), func() { _ = f.Close() }, nil
}
