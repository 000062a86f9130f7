package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/recall/internal/keys"
	"github.com/zhubert/recall/internal/logger"
)

// Shortcut represents a keyboard shortcut with its metadata and handler.
// This is the single source of truth for all global shortcuts.
type Shortcut struct {
	Key             string                              // The key binding (e.g., "n", "ctrl+b")
	Description     string                              // Human-readable description
	RequiresSession bool                                // Current route must be a session
	Handler         func(m *Model) (tea.Model, tea.Cmd) // Action to perform
	Condition       func(m *Model) bool                 // Optional extra condition
}

// ShortcutRegistry is the central registry of global keyboard shortcuts.
// Keys not listed here fall through to the focused panel.
var ShortcutRegistry = []Shortcut{
	{Key: "q", Description: "Quit", Handler: shortcutQuit},
	{Key: keys.Tab, Description: "Switch between sidebar and content", Handler: shortcutToggleFocus},
	{Key: keys.CtrlB, Description: "Toggle sidebar", Handler: shortcutToggleSidebar},
	{Key: "[", Description: "Hide sidebar", Handler: shortcutCloseSidebar},
	{Key: "]", Description: "Show sidebar", Handler: shortcutOpenSidebar},
	{Key: "n", Description: "New chat", Handler: shortcutNewChat},
	{Key: keys.CtrlN, Description: "New chat", Handler: shortcutNewChat},
	{Key: "r", Description: "Refresh sessions", Handler: shortcutRefresh},
	{Key: keys.CtrlR, Description: "Refresh sessions", Handler: shortcutRefresh},
	{Key: "y", Description: "Copy chat link", RequiresSession: true, Handler: shortcutCopyRoute},
	{Key: keys.Escape, Description: "Back", Handler: shortcutBack},
	{Key: "b", Description: "Back", Handler: shortcutBack},
}

// ExecuteShortcut finds and executes a shortcut by key.
// Returns (model, cmd, true) if the shortcut was found and executed.
// Returns (model, nil, false) if the shortcut was not found or guards failed.
func (m *Model) ExecuteShortcut(key string) (tea.Model, tea.Cmd, bool) {
	log := logger.WithComponent("shortcuts")
	for _, s := range ShortcutRegistry {
		if s.Key != key {
			continue
		}
		if s.RequiresSession && m.router.Current().IsHome() {
			log.Debug("guard failed: no session open", "key", key)
			return m, nil, false
		}
		if s.Condition != nil && !s.Condition(m) {
			log.Debug("guard failed: condition", "key", key)
			return m, nil, false
		}
		result, cmd := s.Handler(m)
		return result, cmd, true
	}
	return m, nil, false
}

func shortcutQuit(m *Model) (tea.Model, tea.Cmd) {
	m.Close()
	return m, tea.Quit
}

func shortcutToggleFocus(m *Model) (tea.Model, tea.Cmd) {
	m.toggleFocus()
	return m, nil
}

func shortcutToggleSidebar(m *Model) (tea.Model, tea.Cmd) {
	if m.sidebar.IsOpen() {
		m.closeSidebar()
	} else {
		m.openSidebar()
	}
	return m, nil
}

func shortcutCloseSidebar(m *Model) (tea.Model, tea.Cmd) {
	m.closeSidebar()
	return m, nil
}

func shortcutOpenSidebar(m *Model) (tea.Model, tea.Cmd) {
	m.openSidebar()
	return m, nil
}

func shortcutNewChat(m *Model) (tea.Model, tea.Cmd) {
	return m, m.sidebar.NewChat()
}

func shortcutRefresh(m *Model) (tea.Model, tea.Cmd) {
	return m, m.sidebar.Refresh()
}

func shortcutCopyRoute(m *Model) (tea.Model, tea.Cmd) {
	return m, m.copyRoute()
}

func shortcutBack(m *Model) (tea.Model, tea.Cmd) {
	return m, m.back()
}
