package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nocodecreative/n8nchat/internal/transcript"
)

// Chat is the scrollable message list of the active conversation.
type Chat struct {
	viewport viewport.Model
	styles   Styles
	md       *Markdown

	messages []transcript.Message
	frame    string // current frame of the dots animation

	// Rendered bot replies by message ID, valid for renderedWidth.
	rendered      map[transcript.ID]string
	renderedWidth int

	width      int
	height     int
	ready      bool
	autoScroll bool
}

// NewChat creates an empty chat list.
func NewChat(styles Styles, md *Markdown) *Chat {
	return &Chat{
		styles:     styles,
		md:         md,
		frame:      "...",
		rendered:   make(map[transcript.ID]string),
		autoScroll: true,
	}
}

// Update handles scrolling keys and mouse wheel.
func (c *Chat) Update(msg tea.Msg) (*Chat, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "pgup", "pgdown", "up", "down":
			c.viewport, cmd = c.viewport.Update(msg)
			c.autoScroll = c.viewport.AtBottom()
		}
	case tea.MouseMsg:
		c.viewport, cmd = c.viewport.Update(msg)
		c.autoScroll = c.viewport.AtBottom()
	}
	return c, cmd
}

// View renders the visible part of the list.
func (c *Chat) View() string {
	if !c.ready {
		return ""
	}
	return c.viewport.View()
}

// SetSize updates the component size.
func (c *Chat) SetSize(width, height int) {
	c.width = width
	c.height = height

	if !c.ready {
		c.viewport = viewport.New(width, height)
		c.ready = true
	} else {
		c.viewport.Width = width
		c.viewport.Height = height
	}
	c.refreshContent()
}

// SetStyles swaps the theme and drops cached renders.
func (c *Chat) SetStyles(styles Styles, md *Markdown) {
	c.styles = styles
	c.md = md
	c.rendered = make(map[transcript.ID]string)
	c.refreshContent()
}

// SetMessages replaces the displayed messages and scrolls to the end
// unless the user scrolled up.
func (c *Chat) SetMessages(msgs []transcript.Message) {
	c.messages = msgs
	c.refreshContent()
}

// SetFrame updates the dots animation frame. Only redraws when a dots
// indicator is on screen.
func (c *Chat) SetFrame(frame string) {
	c.frame = frame
	for _, m := range c.messages {
		if m.Role == transcript.RoleThinking && m.Indicator == transcript.IndicatorDots {
			c.refreshContent()
			return
		}
	}
}

// Messages returns the messages currently shown.
func (c *Chat) Messages() []transcript.Message {
	return c.messages
}

func (c *Chat) refreshContent() {
	if !c.ready {
		return
	}
	c.viewport.SetContent(c.renderContent())
	if c.autoScroll {
		c.viewport.GotoBottom()
	}
}

func (c *Chat) renderContent() string {
	if c.renderedWidth != c.width {
		c.rendered = make(map[transcript.ID]string)
		c.renderedWidth = c.width
	}

	parts := make([]string, 0, len(c.messages))
	for _, m := range c.messages {
		parts = append(parts, c.renderMessage(m))
	}
	return strings.Join(parts, "\n\n")
}

func (c *Chat) renderMessage(m transcript.Message) string {
	switch m.Role {
	case transcript.RoleUser:
		return c.renderUser(m.Text)
	case transcript.RoleThinking:
		if m.Indicator == transcript.IndicatorWord {
			return c.styles.Word.Render(m.Text)
		}
		return c.styles.Dots.Render(c.frame)
	default:
		if m.Error {
			return c.styles.Error.Render(WrapText(m.Text, c.width-2))
		}
		if out, ok := c.rendered[m.ID]; ok {
			return out
		}
		out := c.md.Render(m.Text, c.width-2)
		c.rendered[m.ID] = out
		return out
	}
}

// renderUser renders a user message with a ❯ prefix.
func (c *Chat) renderUser(content string) string {
	prefix := c.styles.PromptChar.Render("❯ ")
	lines := strings.Split(WrapText(content, c.width-4), "\n")

	var b strings.Builder
	for i, line := range lines {
		if i == 0 {
			b.WriteString(prefix + c.styles.User.Render(line))
		} else {
			b.WriteString("\n  " + c.styles.User.Render(line))
		}
	}
	return b.String()
}
