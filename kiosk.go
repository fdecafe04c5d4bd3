package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/Rshep3087/atmtui/config"
	"github.com/Rshep3087/atmtui/session"
)

// runKiosk runs the terminal UI until the user quits. Overlay timers fire
// outside the program loop, so their change signals are forwarded with p.Send.
func runKiosk(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	ctrl := session.New(nil, session.WithLogger(logger))
	defer ctrl.Close()

	p := tea.NewProgram(newModel(ctrl, cfg), tea.WithAltScreen(), tea.WithContext(ctx))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("kiosk exited: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		forwardChanges(gctx, ctrl.Changes(), p.Send)
		return nil
	})

	return g.Wait()
}

// newLogger returns a logger writing to w at info level, or debug level when cfg.Debug is set.
func newLogger(cfg config.Config, w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          config.AppName,
	})

	logger.SetLevel(log.InfoLevel)
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	return logger
}

// openLogFile opens the TUI log destination. The terminal belongs to the
// alternate screen, so without debug logging everything is discarded.
func openLogFile(cfg config.Config) (io.WriteCloser, error) {
	if !cfg.Debug {
		return nopWriteCloser{io.Discard}, nil
	}

	path := cfg.LogFile
	if path == "" {
		path = config.DefaultLogFile
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	return f, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
