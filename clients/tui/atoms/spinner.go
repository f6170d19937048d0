// Package atoms provides low-level TUI building blocks.
package atoms

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// WaveFrames animate the thinking dots.
var WaveFrames = []string{"●∙∙", "∙●∙", "∙∙●"}

// Wave wraps bubbles/spinner with the three-dot wave.
type Wave struct {
	Model spinner.Model
}

// NewWave creates an unstyled wave; the chat list styles its frames.
func NewWave() Wave {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: WaveFrames,
		FPS:    time.Second / 4,
	}
	return Wave{Model: s}
}

// Init returns the first tick command.
func (w Wave) Init() tea.Cmd {
	return w.Model.Tick
}

// Update advances the frame on its own tick messages.
func (w Wave) Update(msg tea.Msg) (Wave, tea.Cmd) {
	var cmd tea.Cmd
	w.Model, cmd = w.Model.Update(msg)
	return w, cmd
}

// View renders the current frame.
func (w Wave) View() string {
	return w.Model.View()
}
