package app

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	perrors "github.com/zhubert/recall/internal/errors"
	"github.com/zhubert/recall/internal/keys"
	"github.com/zhubert/recall/internal/logger"
	"github.com/zhubert/recall/internal/router"
	"github.com/zhubert/recall/internal/session"
	"github.com/zhubert/recall/internal/ui"
)

// RouteCopiedMsg reports the result of copying a route to the clipboard
type RouteCopiedMsg struct {
	Path string
	Err  error
}

// Update handles messages. This is the core Bubble Tea update function that routes
// all messages to appropriate handlers.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case tea.KeyPressMsg:
		if result, cmd := m.handleKeyPress(msg); result != nil {
			return result, cmd
		}
		// Key not handled globally, let it fall through to the focused panel

	case tea.MouseClickMsg:
		return m, m.handleMouseClick(msg)

	case tea.MouseWheelMsg:
		return m, m.handleMouseWheel(msg)

	case ui.SessionsLoadedMsg:
		return m, m.handleSessionsLoaded(msg)

	case ui.SidebarTickMsg:
		_, cmd := m.sidebar.Update(msg)
		return m, cmd

	case ui.NavigateMsg:
		return m, m.navigate(msg.Route)

	case ui.NavigationErrorMsg:
		logger.WithComponent("app").Warn("navigation refused", "sessionID", msg.SessionID, "error", msg.Err)
		return m, m.ShowFlashError("Can't open that chat: invalid session id")

	case ui.SessionDetailLoadedMsg:
		return m, m.handleSessionDetailLoaded(msg)

	case RouteCopiedMsg:
		if msg.Err != nil {
			logger.WithComponent("app").Warn("clipboard write failed", "error", msg.Err)
			return m, m.ShowFlashError("Couldn't copy link to clipboard")
		}
		return m, m.ShowFlashSuccess("Copied " + msg.Path)

	case ui.FlashTickMsg:
		m.footer.ClearIfExpired()
		if m.footer.HasFlash() {
			return m, ui.FlashTick()
		}
		return m, nil
	}

	// Update focused panel for other messages
	var cmd tea.Cmd
	if m.focus == FocusSidebar {
		_, cmd = m.sidebar.Update(msg)
	} else {
		_, cmd = m.panel.Update(msg)
	}
	return m, cmd
}

// handleKeyPress handles global keys.
// Returns (model, cmd) if the key was handled, or (nil, nil) if it should fall through
// to the focused panel for handling.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	logger.WithComponent("app").Debug("key pressed", "key", key, "focus", m.focus)

	// ctrl+c always quits
	if key == keys.CtrlC {
		return shortcutQuit(m)
	}

	if result, cmd, handled := m.ExecuteShortcut(key); handled {
		return result, cmd
	}
	return nil, nil
}

func (m *Model) handleSessionsLoaded(msg ui.SessionsLoadedMsg) tea.Cmd {
	// Stale and post-unmount results are dropped by the sidebar; only a
	// result it accepts may raise a flash
	current := m.sidebar.IsMounted() && msg.Generation == m.sidebar.Generation()
	m.sidebar.Update(msg)

	if !current {
		return nil
	}
	if msg.Err == nil {
		m.refreshHeaderTitle()
		return nil
	}

	text := loadErrorText(msg.Err)
	cmds := []tea.Cmd{m.ShowFlashError(text)}
	if m.config.GetNotificationsEnabled() {
		notify := m.notify
		cmds = append(cmds, func() tea.Msg {
			if err := notify(text); err != nil {
				logger.WithComponent("app").Warn("desktop notification failed", "error", err)
			}
			return nil
		})
	}
	return tea.Batch(cmds...)
}

// loadErrorText turns a fetch failure into footer text.
func loadErrorText(err error) string {
	switch {
	case perrors.Is(err, perrors.KindTimeout) || errors.Is(err, context.DeadlineExceeded):
		return "Timed out loading sessions"
	case perrors.Is(err, perrors.KindInvalid):
		return "Couldn't load sessions: no actor configured"
	default:
		return "Couldn't load sessions"
	}
}

func (m *Model) handleSessionDetailLoaded(msg ui.SessionDetailLoadedMsg) tea.Cmd {
	route := m.router.Current()
	m.panel.Update(msg)
	if route.IsHome() || route.SessionID != msg.SessionID {
		return nil
	}

	if msg.Err != nil {
		if perrors.Is(msg.Err, perrors.KindNotFound) {
			return m.ShowFlashWarning("That chat no longer exists")
		}
		return m.ShowFlashError("Couldn't load chat")
	}
	if msg.Session != nil {
		m.header.SetRoute(route.Path(), msg.Session.Title)
	}
	return nil
}

// navigate pushes route and, when it changed, updates every component that
// reflects the current route.
func (m *Model) navigate(route router.Route) tea.Cmd {
	changed, err := m.router.Push(route)
	if err != nil {
		logger.WithComponent("app").Warn("navigation failed", "path", route.Path(), "error", err)
		return m.ShowFlashError("Can't open " + route.Path())
	}
	if !changed {
		return nil
	}
	return m.applyRoute(route)
}

// back returns to the previous route, if any.
func (m *Model) back() tea.Cmd {
	route, ok := m.router.Back()
	if !ok {
		return nil
	}
	return m.applyRoute(route)
}

// applyRoute syncs the sidebar, header and panel with route.
func (m *Model) applyRoute(route router.Route) tea.Cmd {
	if route.IsHome() {
		m.sidebar.SetSelectedSession("")
		m.header.SetRoute(route.Path(), "New chat")
		m.panel.ShowHome()
		return nil
	}

	m.sidebar.SetSelectedSession(route.SessionID)
	m.header.SetRoute(route.Path(), m.sessionTitle(route.SessionID))

	var getter session.Getter
	if m.sessions != nil {
		getter = m.sessions
	}
	return m.panel.ShowSession(m.ctx, getter, route)
}

// refreshHeaderTitle picks up the current session's title once the list arrives.
func (m *Model) refreshHeaderTitle() {
	route := m.router.Current()
	if route.IsHome() {
		return
	}
	if title := m.sessionTitle(route.SessionID); title != "" {
		m.header.SetRoute(route.Path(), title)
	}
}

func (m *Model) sessionTitle(id string) string {
	for _, s := range m.sidebar.Sessions() {
		if s.ID == id {
			return s.Title
		}
	}
	return ""
}

// copyRoute copies the current session's route path to the clipboard.
func (m *Model) copyRoute() tea.Cmd {
	path := m.router.Current().Path()
	write := m.copyText
	return func() tea.Msg {
		return RouteCopiedMsg{Path: path, Err: write(path)}
	}
}
