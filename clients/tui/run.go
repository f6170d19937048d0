package tui

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrAlreadyMounted is returned when a second widget is started in the
// same process.
var ErrAlreadyMounted = errors.New("tui: already mounted")

var mounted atomic.Bool

// mount claims the process-wide widget slot. It is never released.
func mount() error {
	if !mounted.CompareAndSwap(false, true) {
		return ErrAlreadyMounted
	}
	return nil
}

// Run mounts app on the terminal and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, app *App, opts ...tea.ProgramOption) error {
	if err := mount(); err != nil {
		return err
	}

	opts = append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	}, opts...)

	if _, err := tea.NewProgram(app, opts...).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
