package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Welcome renders the new-conversation screen body: the welcome text, the
// start action and the expected response time.
func Welcome(brand Brand, styles Styles, width int, starting bool) string {
	var b strings.Builder

	welcome := brand.WelcomeText
	if welcome == "" {
		welcome = "Hi 👋, how can we help?"
	}
	b.WriteString(styles.Welcome.Render(WrapText(welcome, width-4)))
	b.WriteString("\n")

	label := "💬 Send us a message"
	if starting {
		label = "Connecting…"
	}
	b.WriteString(styles.Button.Render(label))
	b.WriteString("\n")

	if brand.ResponseTimeText != "" {
		b.WriteString(styles.ResponseTime.Render(WrapText(brand.ResponseTimeText, width-4)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.Hint.Padding(0, 2).Render("enter start • esc close • ctrl+c quit"))

	return lipgloss.NewStyle().Width(max(width, 0)).Render(b.String())
}
