package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

const headerTitle = " recall"

// Header represents the top header bar
type Header struct {
	width int
	title string // session title, empty on the home route
	path  string // route path, e.g. /session/<id>
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{path: "/home"}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetRoute sets the route path and the session title shown on the right.
func (h *Header) SetRoute(path, title string) {
	h.path = path
	h.title = title
}

// View renders the header
func (h *Header) View() string {
	var right string
	if h.title != "" {
		right = h.title + " "
	}
	right += "(" + h.path + ") "

	// Keep the app title intact and trim the route side if space runs out
	room := h.width - ansi.StringWidth(headerTitle) - 1
	if room < 0 {
		room = 0
	}
	if ansi.StringWidth(right) > room {
		right = ansi.Truncate(right, room, "…")
	}

	paddingLen := h.width - ansi.StringWidth(headerTitle) - ansi.StringWidth(right)
	if paddingLen < 0 {
		paddingLen = 0
	}
	content := headerTitle + strings.Repeat(" ", paddingLen) + right

	return h.renderGradient(content, "("+h.path+")")
}

// parseHexColor parses a hex color string (e.g., "#7C3AED") into RGB components
func parseHexColor(hex string) (r, g, b int) {
	if len(hex) == 7 && hex[0] == '#' {
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return
}

// renderGradient renders content over a background fading from the theme's
// primary color to its background. The muted marker is drawn in muted text.
func (h *Header) renderGradient(content, muted string) string {
	if len(content) == 0 {
		return ""
	}

	theme := CurrentTheme()
	startR, startG, startB := parseHexColor(theme.Primary)
	endR, endG, endB := parseHexColor(theme.Bg)
	textColor := lipgloss.Color(theme.Text)
	mutedColor := lipgloss.Color(theme.TextMuted)

	runes := []rune(content)
	mutedStart := -1
	if idx := strings.Index(content, muted); idx >= 0 {
		mutedStart = len([]rune(content[:idx]))
	}
	titleLen := len([]rune(headerTitle))

	width := len(runes)
	var result strings.Builder
	for i, r := range runes {
		t := float64(i) / float64(width)
		cr := int(float64(startR)*(1-t) + float64(endR)*t)
		cg := int(float64(startG)*(1-t) + float64(endG)*t)
		cb := int(float64(startB)*(1-t) + float64(endB)*t)

		style := lipgloss.NewStyle().
			Background(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", cr, cg, cb))).
			Bold(i < titleLen)

		if mutedStart >= 0 && i >= mutedStart {
			style = style.Foreground(mutedColor)
		} else {
			style = style.Foreground(textColor)
		}
		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}
