package ui

import (
	"context"
	"strings"
	"time"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	perrors "github.com/zhubert/recall/internal/errors"
	"github.com/zhubert/recall/internal/logger"
	"github.com/zhubert/recall/internal/router"
	"github.com/zhubert/recall/internal/session"
	"github.com/zhubert/recall/internal/timefmt"
)

// SessionDetailLoadedMsg carries a fetched session for the content panel.
type SessionDetailLoadedMsg struct {
	SessionID string
	Session   *session.Session
	Err       error
}

// Panel is the content area beside the sidebar. It shows the new chat screen
// on the home route and a session's details on a session route.
type Panel struct {
	width   int
	height  int
	focused bool

	route   router.Route
	detail  *session.Session
	loading bool
	err     error

	viewport viewport.Model
	now      func() time.Time
}

// NewPanel creates a panel showing the home route
func NewPanel() *Panel {
	return &Panel{
		route:    router.Home(),
		viewport: viewport.New(),
		now:      time.Now,
	}
}

// SetSize sets the panel dimensions
func (p *Panel) SetSize(width, height int) {
	p.width = width
	p.height = height

	ctx := GetViewContext()
	p.viewport.SetWidth(ctx.InnerWidth(width))
	p.viewport.SetHeight(max(ctx.InnerHeight(height), 1))
	p.updateContent()
}

// SetFocused sets the focus state
func (p *Panel) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns the focus state
func (p *Panel) IsFocused() bool {
	return p.focused
}

// Route returns the route the panel is showing
func (p *Panel) Route() router.Route {
	return p.route
}

// Detail returns the loaded session, or nil
func (p *Panel) Detail() *session.Session {
	return p.detail
}

// Loading reports whether a detail fetch is in flight
func (p *Panel) Loading() bool {
	return p.loading
}

// Err returns the last detail fetch error
func (p *Panel) Err() error {
	return p.err
}

// ShowHome switches to the new chat screen
func (p *Panel) ShowHome() {
	p.route = router.Home()
	p.detail = nil
	p.loading = false
	p.err = nil
	p.updateContent()
}

// ShowSession switches to route's session and returns the command that
// fetches it.
func (p *Panel) ShowSession(ctx context.Context, getter session.Getter, route router.Route) tea.Cmd {
	p.route = route
	p.detail = nil
	p.err = nil
	p.loading = true
	p.updateContent()

	id := route.SessionID
	return func() tea.Msg {
		if getter == nil {
			return SessionDetailLoadedMsg{SessionID: id, Err: perrors.E(perrors.Op("panel.ShowSession"), perrors.KindConfig, "no session service configured")}
		}
		sess, err := getter.GetSession(ctx, id)
		return SessionDetailLoadedMsg{SessionID: id, Session: sess, Err: err}
	}
}

// Update handles detail results and, while focused, scroll keys.
func (p *Panel) Update(msg tea.Msg) (*Panel, tea.Cmd) {
	switch msg := msg.(type) {
	case SessionDetailLoadedMsg:
		if p.route.IsHome() || msg.SessionID != p.route.SessionID {
			logger.WithComponent("panel").Debug("dropping detail for inactive session", "sessionID", msg.SessionID)
			return p, nil
		}
		p.loading = false
		p.detail = msg.Session
		p.err = msg.Err
		if msg.Err != nil {
			logger.WithSession(msg.SessionID).Warn("failed to load session detail", "error", msg.Err)
		}
		p.updateContent()
		return p, nil

	case tea.MouseWheelMsg:
		if p.route.IsHome() {
			return p, nil
		}
		var cmd tea.Cmd
		p.viewport, cmd = p.viewport.Update(msg)
		return p, cmd

	case tea.KeyPressMsg:
		if !p.focused || p.route.IsHome() {
			return p, nil
		}
		switch msg.String() {
		case "pgup", "pgdown", "up", "down", "home", "end", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			p.viewport, cmd = p.viewport.Update(msg)
			return p, cmd
		}
	}
	return p, nil
}

func (p *Panel) updateContent() {
	if p.route.IsHome() {
		return
	}
	p.viewport.SetContent(p.renderDetail())
	p.viewport.GotoTop()
}

func (p *Panel) renderDetail() string {
	labelStyle := lipgloss.NewStyle().Foreground(ColorTextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(ColorText)
	wrapWidth := p.viewport.Width()
	if wrapWidth <= 0 {
		wrapWidth = DefaultWrapWidth
	}

	switch {
	case p.loading:
		return StatusLoadingStyle.Render("Loading session...")
	case p.err != nil:
		msg := "Couldn't load this session"
		if perrors.Is(p.err, perrors.KindNotFound) {
			msg = "This session no longer exists"
		}
		return StatusErrorStyle.Render(msg) + "\n\n" +
			labelStyle.Width(wrapWidth).Render(p.err.Error())
	case p.detail == nil:
		return StatusEmptyStyle.Render("Nothing to show")
	}

	d := p.detail
	title := d.Title
	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}
	now := p.now()

	var sb strings.Builder
	sb.WriteString(PanelTitleStyle.Width(wrapWidth).Render(title))
	sb.WriteString("\n\n")

	fields := []struct{ label, value string }{
		{"ID", d.ID},
		{"Route", router.SessionRoute(d.ID).Path()},
		{"Updated", timefmt.Relative(d.UpdatedAt, now)},
		{"Created", formatCreated(d.CreatedAt, now)},
	}
	for _, f := range fields {
		sb.WriteString(labelStyle.Render(padRight(f.label, 9)))
		sb.WriteString(valueStyle.Render(ansi.Truncate(f.value, max(wrapWidth-9, 1), "…")))
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatCreated renders an absolute creation time with its relative age.
func formatCreated(ts string, now time.Time) string {
	t, err := timefmt.Parse(ts)
	if err != nil {
		return timefmt.Unknown
	}
	return t.UTC().Format("Jan 2, 2006 15:04 UTC") + " (" + timefmt.RelativeTime(t, now) + ")"
}

func padRight(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func (p *Panel) renderHome() string {
	msgStyle := lipgloss.NewStyle().Foreground(ColorTextMuted)
	keyStyle := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)

	var sb strings.Builder
	sb.WriteString(PanelTitleStyle.Render("New chat"))
	sb.WriteString("\n\n")
	sb.WriteString(msgStyle.Italic(true).Render("What can I help you with?"))
	sb.WriteString("\n\n")
	sb.WriteString(msgStyle.Render("  • Press "))
	sb.WriteString(keyStyle.Render("]"))
	sb.WriteString(msgStyle.Render(" to browse past chats"))
	sb.WriteString("\n")
	sb.WriteString(msgStyle.Render("  • Press "))
	sb.WriteString(keyStyle.Render("r"))
	sb.WriteString(msgStyle.Render(" to refresh the history"))
	return sb.String()
}

// View renders the panel
func (p *Panel) View() string {
	style := PanelStyle
	if p.focused {
		style = PanelFocusedStyle
	}

	var content string
	if p.route.IsHome() {
		content = p.renderHome()
	} else {
		content = p.viewport.View()
	}
	return style.Width(p.width).Height(p.height).Render(content)
}
