// Package components provides the chat widget's screens and their styles.
package components

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// Color Palette
// =============================================================================

// Palette is the widget's color scheme as hex strings.
type Palette struct {
	Primary    string // header, user messages, action button
	Secondary  string // thinking words, links
	Background string // panel background, also text drawn on primary
	Font       string // base text
}

// Fixed colors that the configuration does not cover.
const (
	ColorError  = "#EF4444"
	ColorMuted  = "#6B7280"
	ColorBorder = "#374151"
)

// DefaultPalette matches the built-in style settings.
var DefaultPalette = Palette{
	Primary:    "#854fff",
	Secondary:  "#6b3fd4",
	Background: "#ffffff",
	Font:       "#333333",
}

// =============================================================================
// Styles
// =============================================================================

// Styles groups every style the components render with.
type Styles struct {
	Palette Palette

	// Panel chrome
	Header    lipgloss.Style
	BrandName lipgloss.Style
	Logo      lipgloss.Style
	Footer    lipgloss.Style
	Link      lipgloss.Style
	Hint      lipgloss.Style

	// New-conversation screen
	Welcome      lipgloss.Style
	Button       lipgloss.Style
	ResponseTime lipgloss.Style

	// Messages
	User  lipgloss.Style
	Error lipgloss.Style
	Dots  lipgloss.Style
	Word  lipgloss.Style

	// Launcher and input
	Launcher   lipgloss.Style
	PromptChar lipgloss.Style
	Separator  lipgloss.Style
}

// NewStyles derives every style from p.
func NewStyles(p Palette) Styles {
	primary := lipgloss.Color(p.Primary)
	secondary := lipgloss.Color(p.Secondary)
	muted := lipgloss.Color(ColorMuted)
	onPrimary := lipgloss.Color(p.Background)

	return Styles{
		Palette: p,

		Header: lipgloss.NewStyle().
			Background(primary).
			Foreground(onPrimary).
			Padding(0, 1),
		BrandName: lipgloss.NewStyle().
			Bold(true),
		Logo: lipgloss.NewStyle().
			Foreground(onPrimary),
		Footer: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		Link: lipgloss.NewStyle().
			Foreground(primary).
			Underline(true),
		Hint: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),

		Welcome: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.Font)).
			Padding(1, 2, 0, 2),
		Button: lipgloss.NewStyle().
			Background(primary).
			Foreground(onPrimary).
			Bold(true).
			Padding(0, 2).
			Margin(1, 2),
		ResponseTime: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 2),

		User: lipgloss.NewStyle().
			Foreground(primary),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Bold(true),
		Dots: lipgloss.NewStyle().
			Foreground(secondary),
		Word: lipgloss.NewStyle().
			Foreground(secondary).
			Italic(true),

		Launcher: lipgloss.NewStyle().
			Background(primary).
			Foreground(onPrimary).
			Bold(true).
			Padding(0, 2),
		PromptChar: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),
		Separator: lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorBorder)),
	}
}
