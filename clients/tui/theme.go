// Package tui is the terminal rendition of the chat widget: a launcher that
// opens into a branded chat panel.
package tui

import (
	"github.com/nocodecreative/n8nchat/clients/tui/components"
	"github.com/nocodecreative/n8nchat/internal/config"
)

// Theme is the rendering state derived from configuration.
type Theme struct {
	Styles   components.Styles
	Markdown *components.Markdown
	Brand    components.Brand
	Position string
}

// NewTheme builds a Theme from cfg. Empty colors fall back to the defaults.
func NewTheme(cfg *config.Config) Theme {
	p := components.DefaultPalette
	if v := cfg.Style.PrimaryColor; v != "" {
		p.Primary = v
	}
	if v := cfg.Style.SecondaryColor; v != "" {
		p.Secondary = v
	}
	if v := cfg.Style.BackgroundColor; v != "" {
		p.Background = v
	}
	if v := cfg.Style.FontColor; v != "" {
		p.Font = v
	}

	return Theme{
		Styles:   components.NewStyles(p),
		Markdown: components.NewMarkdown(p),
		Brand: components.Brand{
			Logo:             cfg.Branding.Logo,
			Name:             cfg.Branding.Name,
			WelcomeText:      cfg.Branding.WelcomeText,
			ResponseTimeText: cfg.Branding.ResponseTimeText,
			PoweredByText:    cfg.Branding.PoweredBy.Text,
			PoweredByLink:    cfg.Branding.PoweredBy.Link,
		},
		Position: cfg.Style.Position,
	}
}
