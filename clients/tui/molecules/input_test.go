package molecules

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func typeText(c Composer, s string) Composer {
	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return c
}

func submit(t *testing.T, c Composer) (Composer, string, bool) {
	t.Helper()
	c, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		return c, "", false
	}
	msg, ok := cmd().(SubmitMsg)
	if !ok {
		t.Fatalf("expected SubmitMsg, got %T", cmd())
	}
	return c, msg.Content, true
}

func TestComposerSubmitTrims(t *testing.T) {
	c := NewComposer(lipgloss.NewStyle())
	c = typeText(c, "  hello  ")

	c, content, ok := submit(t, c)
	if !ok {
		t.Fatal("expected a submission")
	}
	if content != "hello" {
		t.Errorf("expected trimmed content, got %q", content)
	}
	if c.Value() != "" {
		t.Errorf("expected input cleared, got %q", c.Value())
	}
}

func TestComposerIgnoresBlank(t *testing.T) {
	c := NewComposer(lipgloss.NewStyle())
	c = typeText(c, "   ")

	if _, _, ok := submit(t, c); ok {
		t.Error("blank input should not submit")
	}
}

func TestComposerHistory(t *testing.T) {
	c := NewComposer(lipgloss.NewStyle())
	c = typeText(c, "first")
	c, _, _ = submit(t, c)
	c = typeText(c, "second")
	c, _, _ = submit(t, c)
	c = typeText(c, "draft")

	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyUp})
	if c.Value() != "second" {
		t.Errorf("expected second, got %q", c.Value())
	}
	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyUp})
	if c.Value() != "first" {
		t.Errorf("expected first, got %q", c.Value())
	}
	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyDown})
	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyDown})
	if c.Value() != "draft" {
		t.Errorf("expected draft restored, got %q", c.Value())
	}
}

func TestComposerAltEnterBreaksLine(t *testing.T) {
	c := NewComposer(lipgloss.NewStyle())
	c = typeText(c, "first line")
	c, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	if cmd != nil {
		t.Fatal("alt+enter should not submit")
	}
	c = typeText(c, "second line")

	if c.Value() != "first line\nsecond line" {
		t.Errorf("unexpected value %q", c.Value())
	}
	if c.Height() != 2 {
		t.Errorf("expected height 2, got %d", c.Height())
	}

	c, content, ok := submit(t, c)
	if !ok || content != "first line\nsecond line" {
		t.Errorf("expected multi-line submission, got %q", content)
	}
	if c.Height() != 1 {
		t.Errorf("expected height reset to 1, got %d", c.Height())
	}
}

func TestComposerHeightCapped(t *testing.T) {
	c := NewComposer(lipgloss.NewStyle())
	for i := 0; i < maxComposerLines+3; i++ {
		c = typeText(c, "x")
		c, _ = c.Update(tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	}
	if c.Height() != maxComposerLines {
		t.Errorf("expected height %d, got %d", maxComposerLines, c.Height())
	}
}

func TestHistoryBounds(t *testing.T) {
	var h history
	if _, ok := h.prev("draft"); ok {
		t.Error("empty history should not step back")
	}
	if _, ok := h.next(); ok {
		t.Error("empty history should not step forward")
	}

	h.add("a")
	if s, ok := h.prev("draft"); !ok || s != "a" {
		t.Fatalf("expected a, got %q %v", s, ok)
	}
	if _, ok := h.prev("ignored"); ok {
		t.Error("should stop at the oldest entry")
	}
	if s, ok := h.next(); !ok || s != "draft" {
		t.Errorf("expected draft, got %q %v", s, ok)
	}
}
