package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/recall/internal/ui"
)

// handleMouseClick routes a left click to the sidebar or the content panel.
// Sidebar coordinates are relative to its top-left corner, below the header.
func (m *Model) handleMouseClick(msg tea.MouseClickMsg) tea.Cmd {
	if msg.Button != tea.MouseLeft {
		return nil
	}
	ctx := ui.GetViewContext()
	y := msg.Y - ui.HeaderHeight
	if y < 0 || y >= ctx.ContentHeight {
		return nil
	}

	if msg.X < m.sidebar.Width() {
		wasOpen := m.sidebar.IsOpen()
		cmd := m.sidebar.Click(msg.X, y)
		if m.sidebar.IsOpen() != wasOpen {
			m.syncSidebar()
		} else {
			m.setFocus(FocusSidebar)
		}
		return cmd
	}

	m.setFocus(FocusContent)
	return nil
}

// handleMouseWheel scrolls the content panel when the wheel is over it.
func (m *Model) handleMouseWheel(msg tea.MouseWheelMsg) tea.Cmd {
	if msg.X < m.sidebar.Width() {
		return nil
	}
	_, cmd := m.panel.Update(msg)
	return cmd
}
