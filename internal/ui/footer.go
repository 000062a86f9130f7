package ui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// FlashType selects the icon and color of a flash message.
type FlashType int

const (
	FlashInfo FlashType = iota
	FlashSuccess
	FlashWarning
	FlashError
)

// FlashMessage is a transient footer notice.
type FlashMessage struct {
	Text      string
	Type      FlashType
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired reports whether the message has outlived its duration.
func (f *FlashMessage) IsExpired() bool {
	return time.Since(f.CreatedAt) >= f.Duration
}

// FlashTickMsg drives flash expiry.
type FlashTickMsg time.Time

// FlashTick schedules the next expiry check.
func FlashTick() tea.Cmd {
	return tea.Tick(FlashTickInterval, func(t time.Time) tea.Msg {
		return FlashTickMsg(t)
	})
}

// FooterContext is the app state the footer picks its bindings from.
type FooterContext struct {
	SidebarOpen    bool
	SidebarFocused bool
	OnSession      bool // a session route is active
	CanGoBack      bool
}

// Footer represents the bottom footer bar with keybindings and flash messages
type Footer struct {
	width        int
	context      FooterContext
	flashMessage *FlashMessage
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{}
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetContext updates the footer's context for conditional bindings
func (f *Footer) SetContext(c FooterContext) {
	f.context = c
}

// SetFlash shows a flash message for DefaultFlashDuration.
func (f *Footer) SetFlash(text string, flashType FlashType) {
	f.SetFlashWithDuration(text, flashType, DefaultFlashDuration)
}

// SetFlashWithDuration shows a flash message for a custom duration.
func (f *Footer) SetFlashWithDuration(text string, flashType FlashType, d time.Duration) {
	f.flashMessage = &FlashMessage{
		Text:      text,
		Type:      flashType,
		CreatedAt: time.Now(),
		Duration:  d,
	}
}

// ClearFlash removes any flash message.
func (f *Footer) ClearFlash() {
	f.flashMessage = nil
}

// HasFlash reports whether a flash message is showing.
func (f *Footer) HasFlash() bool {
	return f.flashMessage != nil
}

// ClearIfExpired clears an expired flash and reports whether it did.
func (f *Footer) ClearIfExpired() bool {
	if f.flashMessage != nil && f.flashMessage.IsExpired() {
		f.flashMessage = nil
		return true
	}
	return false
}

// Bindings returns the key bindings for the current context.
func (f *Footer) Bindings() []KeyBinding {
	c := f.context
	var b []KeyBinding

	if c.SidebarOpen {
		b = append(b, KeyBinding{Key: "[", Desc: "hide sidebar"})
		if c.SidebarFocused {
			b = append(b,
				KeyBinding{Key: "↑/↓", Desc: "navigate"},
				KeyBinding{Key: "enter", Desc: "open"},
			)
		}
	} else {
		b = append(b, KeyBinding{Key: "]", Desc: "show sidebar"})
	}

	b = append(b, KeyBinding{Key: "n", Desc: "new chat"})
	if c.OnSession {
		b = append(b, KeyBinding{Key: "y", Desc: "copy link"})
	}
	if c.CanGoBack {
		b = append(b, KeyBinding{Key: "esc", Desc: "back"})
	}
	if c.SidebarOpen {
		b = append(b, KeyBinding{Key: "tab", Desc: "switch pane"})
	}
	b = append(b,
		KeyBinding{Key: "r", Desc: "refresh"},
		KeyBinding{Key: "q", Desc: "quit"},
	)
	return b
}

// View renders the footer
func (f *Footer) View() string {
	if f.flashMessage != nil {
		return f.renderFlash()
	}

	var parts []string
	for _, b := range f.Bindings() {
		parts = append(parts, FooterKeyStyle.Render(b.Key)+FooterDescStyle.Render(": "+b.Desc))
	}
	content := strings.Join(parts, "  "+FooterSepStyle.Render("|")+"  ")
	// Drop bindings that don't fit rather than wrapping onto a second line
	content = ansi.Truncate(content, max(f.width-2, 0), "…")

	return FooterStyle.Width(f.width).Render(content)
}

func (f *Footer) renderFlash() string {
	var icon string
	style := FooterStyle
	switch f.flashMessage.Type {
	case FlashError:
		icon = "✕"
		style = style.Foreground(ColorError)
	case FlashWarning:
		icon = "⚠"
		style = style.Foreground(ColorWarning)
	case FlashSuccess:
		icon = "✓"
		style = style.Foreground(ColorSuccess)
	default:
		icon = "ℹ"
		style = style.Foreground(ColorInfo)
	}

	text := ansi.Truncate(icon+" "+f.flashMessage.Text, max(f.width-2, 0), "…")
	return style.Width(f.width).Render(text)
}
