package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
)

// Markdown renders bot replies with glamour. Renderers are cached per
// wrap width since building one parses the whole style sheet.
type Markdown struct {
	style ansi.StyleConfig

	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
}

// NewMarkdown creates a renderer themed with p.
func NewMarkdown(p Palette) *Markdown {
	return &Markdown{
		style:     styleConfig(p),
		renderers: make(map[int]*glamour.TermRenderer),
	}
}

// Render renders content wrapped to width. It returns content unchanged
// when rendering fails.
func (m *Markdown) Render(content string, width int) string {
	if content == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	r, err := m.renderer(width)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	// Trim the blank lines glamour adds around blocks.
	return strings.Trim(rendered, "\n")
}

func (m *Markdown) renderer(width int) (*glamour.TermRenderer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.renderers[width]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(m.style),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return nil, err
	}
	m.renderers[width] = r
	return r, nil
}

// styleConfig builds a compact glamour theme: base text in the font color,
// headings and emphasis in the primary color, links in the secondary one.
func styleConfig(p Palette) ansi.StyleConfig {
	text := stringPtr(p.Font)
	primary := stringPtr(p.Primary)
	secondary := stringPtr(p.Secondary)
	muted := stringPtr(ColorMuted)

	heading := func(prefix string) ansi.StyleBlock {
		return ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{
			Color:  primary,
			Bold:   boolPtr(true),
			Prefix: prefix,
		}}
	}

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: text},
			Margin:         uintPtr(0),
		},
		Paragraph: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: text},
		},
		BlockQuote: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: muted, Italic: boolPtr(true)},
			Indent:         uintPtr(1),
			IndentToken:    stringPtr("│ "),
		},
		List: ansi.StyleList{
			LevelIndent: 2,
			StyleBlock:  ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Color: text}},
		},
		Heading: heading(""),
		H1:      heading("# "),
		H2:      heading("## "),
		H3:      heading("### "),
		H4:      heading("#### "),
		H5:      heading("##### "),
		H6:      heading("###### "),
		Strikethrough: ansi.StylePrimitive{
			CrossedOut: boolPtr(true),
		},
		Emph: ansi.StylePrimitive{
			Italic: boolPtr(true),
		},
		Strong: ansi.StylePrimitive{
			Bold:  boolPtr(true),
			Color: primary,
		},
		HorizontalRule: ansi.StylePrimitive{
			Color:  stringPtr(ColorBorder),
			Format: "────────────────────",
		},
		Item: ansi.StylePrimitive{
			BlockPrefix: "• ",
		},
		Enumeration: ansi.StylePrimitive{
			BlockPrefix: ". ",
		},
		Link: ansi.StylePrimitive{
			Color:     secondary,
			Underline: boolPtr(true),
		},
		LinkText: ansi.StylePrimitive{
			Color: secondary,
			Bold:  boolPtr(true),
		},
		Code: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:  secondary,
				Prefix: "`",
				Suffix: "`",
			},
		},
		CodeBlock: ansi.StyleCodeBlock{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{Color: text},
				Indent:         uintPtr(2),
				Margin:         uintPtr(0),
			},
		},
		Table: ansi.StyleTable{
			StyleBlock:      ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Color: text}},
			CenterSeparator: stringPtr("┼"),
			ColumnSeparator: stringPtr("│"),
			RowSeparator:    stringPtr("─"),
		},
	}
}

func stringPtr(s string) *string { return &s }
func boolPtr(b bool) *bool       { return &b }
func uintPtr(u uint) *uint       { return &u }
