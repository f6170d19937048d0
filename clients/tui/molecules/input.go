// Package molecules provides mid-level TUI components.
package molecules

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxComposerLines caps how tall the input grows before it scrolls.
const maxComposerLines = 4

// SubmitMsg is sent when the user presses Enter on non-blank input.
type SubmitMsg struct {
	Content string
}

// history recalls sent messages. pos == len(entries) means not browsing.
type history struct {
	entries []string
	pos     int
	draft   string
}

func (h *history) add(s string) {
	h.entries = append(h.entries, s)
	h.reset()
}

func (h *history) reset() {
	h.pos = len(h.entries)
	h.draft = ""
}

// prev steps back one entry, saving current as the draft when browsing starts.
func (h *history) prev(current string) (string, bool) {
	if h.pos == 0 {
		return "", false
	}
	if h.pos == len(h.entries) {
		h.draft = current
	}
	h.pos--
	return h.entries[h.pos], true
}

// next steps forward one entry; past the newest it returns the draft.
func (h *history) next() (string, bool) {
	if h.pos >= len(h.entries) {
		return "", false
	}
	h.pos++
	if h.pos == len(h.entries) {
		return h.draft, true
	}
	return h.entries[h.pos], true
}

// Composer is the message input. Enter sends, Alt+Enter breaks the line,
// Up/Down recall sent messages while the input is a single line.
type Composer struct {
	input   textarea.Model
	history history
}

// NewComposer creates a focused input with the prompt drawn in promptStyle.
func NewComposer(promptStyle lipgloss.Style) Composer {
	in := textarea.New()
	in.Placeholder = "Type your message here..."
	in.ShowLineNumbers = false
	in.CharLimit = 0
	in.SetPromptFunc(2, func(line int) string {
		if line == 0 {
			return "❯ "
		}
		return "  "
	})
	in.FocusedStyle.CursorLine = lipgloss.NewStyle()
	in.FocusedStyle.Prompt = promptStyle
	in.BlurredStyle.Prompt = promptStyle
	in.SetHeight(1)
	in.Focus()

	return Composer{input: in}
}

// SetWidth sets the input width.
func (c *Composer) SetWidth(w int) {
	c.input.SetWidth(w)
}

// Height returns the number of rows the input occupies.
func (c *Composer) Height() int {
	return c.input.Height()
}

// Focus gives focus to the input.
func (c *Composer) Focus() tea.Cmd {
	return c.input.Focus()
}

// Blur removes focus from the input.
func (c *Composer) Blur() {
	c.input.Blur()
}

// Reset clears the input and stops history browsing.
func (c *Composer) Reset() {
	c.input.Reset()
	c.history.reset()
	c.fit()
}

// Value returns the current input text.
func (c *Composer) Value() string {
	return c.input.Value()
}

// Update handles key events. Blank input is never submitted.
func (c Composer) Update(msg tea.Msg) (Composer, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		single := c.input.LineCount() <= 1
		switch {
		case key.Type == tea.KeyEnter && key.Alt:
			c.input.InsertString("\n")
			c.fit()
			return c, nil
		case key.Type == tea.KeyEnter:
			return c.submit()
		case key.Type == tea.KeyUp && single:
			if s, ok := c.history.prev(c.input.Value()); ok {
				c.set(s)
			}
			return c, nil
		case key.Type == tea.KeyDown && single:
			if s, ok := c.history.next(); ok {
				c.set(s)
			}
			return c, nil
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	c.fit()
	return c, cmd
}

// View renders the input area.
func (c Composer) View() string {
	return c.input.View()
}

func (c Composer) submit() (Composer, tea.Cmd) {
	content := strings.TrimSpace(c.input.Value())
	c.input.Reset()
	c.fit()
	if content == "" {
		return c, nil
	}
	c.history.add(content)
	return c, func() tea.Msg { return SubmitMsg{Content: content} }
}

func (c *Composer) set(s string) {
	c.input.SetValue(s)
	c.fit()
}

// fit grows the input with its line count up to maxComposerLines.
func (c *Composer) fit() {
	c.input.SetHeight(min(max(c.input.LineCount(), 1), maxComposerLines))
}
