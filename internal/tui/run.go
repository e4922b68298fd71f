package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogFileName is created in the cache directory while the countdown runs.
const LogFileName = "ezan-vakti.log"

// Run shows the countdown until the user quits or ctx is cancelled. Logs go
// to logDir/LogFileName for the duration so they cannot garble the screen.
func Run(ctx context.Context, src Source, sel Selector, logDir string) error {
	restore, err := redirectLogs(logDir)
	if err != nil {
		return err
	}
	defer restore()

	p := tea.NewProgram(New(ctx, src, sel), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("countdown: %w", err)
	}
	return nil
}

func redirectLogs(dir string) (restore func(), err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	prev := log.Logger
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return func() {
		log.Logger = prev
		f.Close()
	}, nil
}
