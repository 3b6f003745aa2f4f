// Package tui presents a conversation in the terminal, either as a
// full-screen bubbletea program or as a plain line-oriented loop.
package tui

import (
	"context"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"legalaid/internal/chat"
	"legalaid/internal/i18n"
)

// Options configures Run.
type Options struct {
	Transport    chat.Transport
	Language     i18n.Language
	StallTimeout time.Duration
	Logger       *slog.Logger
	In           io.Reader
	Out          io.Writer
	// Plain selects the line-oriented loop instead of the full-screen UI.
	Plain bool
}

// Run drives one conversation until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	lang := opts.Language
	if !lang.Valid() {
		lang = i18n.Default
	}

	chatOpts := []chat.Option{
		chat.WithContext(ctx),
		chat.WithLanguage(lang),
		chat.WithStallTimeout(opts.StallTimeout),
		chat.WithLogger(logger),
	}

	if opts.Plain {
		printer := &plainPrinter{out: opts.Out}
		machine := chat.New(opts.Transport, append(chatOpts, chat.WithObserver(printer.observe))...)
		defer machine.Close()
		return runPlain(ctx, machine, printer, opts.In)
	}

	updates := make(chan struct{}, 1)
	machine := chat.New(opts.Transport, append(chatOpts, chat.WithObserver(func(chat.Snapshot) {
		select {
		case updates <- struct{}{}:
		default:
		}
	}))...)
	defer machine.Close()

	p := tea.NewProgram(NewModel(machine, updates),
		tea.WithContext(ctx),
		tea.WithInput(opts.In),
		tea.WithOutput(opts.Out),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		logger.Info("Conversation ended", "reason", context.Cause(ctx))
		return nil
	}
	return err
}
