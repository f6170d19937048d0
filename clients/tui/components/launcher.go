package components

import "github.com/charmbracelet/lipgloss"

// Launcher renders the closed widget: a single button pinned to the bottom
// corner given by position ("left" or "right").
func Launcher(brand Brand, styles Styles, position string, width, height int) string {
	label := "💬 Chat"
	if brand.Name != "" {
		label = "💬 " + brand.Name
	}
	button := styles.Launcher.Render(label) + "\n" + styles.Hint.Render("ctrl+o open • ctrl+c quit")

	return lipgloss.Place(max(width, 1), max(height, 1), Align(position), lipgloss.Bottom, button)
}

// Align maps a position setting to a horizontal placement.
func Align(position string) lipgloss.Position {
	if position == "left" {
		return lipgloss.Left
	}
	return lipgloss.Right
}
