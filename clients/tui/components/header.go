package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Brand holds the texts shown around the conversation.
type Brand struct {
	Logo             string
	Name             string
	WelcomeText      string
	ResponseTimeText string
	PoweredByText    string
	PoweredByLink    string
}

// Header is the brand bar at the top of the open panel.
type Header struct {
	brand  Brand
	styles Styles
	width  int
}

// NewHeader creates a header for brand.
func NewHeader(brand Brand, styles Styles) *Header {
	return &Header{brand: brand, styles: styles}
}

// SetWidth sets the component width.
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetBrand replaces the brand texts and styles.
func (h *Header) SetBrand(brand Brand, styles Styles) {
	h.brand = brand
	h.styles = styles
}

// View renders the header: logo and name on the left, close hint on the right.
func (h *Header) View() string {
	var left strings.Builder
	if logo := logoText(h.brand.Logo); logo != "" {
		left.WriteString(h.styles.Logo.Render(logo))
		left.WriteString(" ")
	}
	right := "esc ✕"
	inner := h.width - 2 // header padding

	name := h.brand.Name
	if name == "" {
		name = "Chat"
	}
	name = TruncateString(name, inner-lipgloss.Width(left.String())-lipgloss.Width(right)-1)
	left.WriteString(h.styles.BrandName.Render(name))

	gap := inner - lipgloss.Width(left.String()) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return h.styles.Header.Width(max(h.width, 0)).Render(left.String() + strings.Repeat(" ", gap) + right)
}

// Footer renders the "powered by" line.
func Footer(brand Brand, styles Styles, width int) string {
	if brand.PoweredByText == "" {
		return ""
	}
	text := brand.PoweredByText
	if brand.PoweredByLink != "" {
		text = hyperlink(brand.PoweredByLink, text)
	}
	return styles.Footer.Width(max(width, 0)).Align(lipgloss.Center).Render(styles.Link.Render(text))
}

// logoText returns a logo that can be drawn as text. Image URLs cannot.
func logoText(logo string) string {
	logo = strings.TrimSpace(logo)
	if strings.HasPrefix(logo, "http://") || strings.HasPrefix(logo, "https://") || strings.HasPrefix(logo, "data:") {
		return "◆"
	}
	return logo
}

// hyperlink wraps text in an OSC 8 terminal hyperlink.
func hyperlink(url, text string) string {
	return "\x1b]8;;" + url + "\x1b\\" + text + "\x1b]8;;\x1b\\"
}
