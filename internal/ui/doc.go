// Package ui provides the user interface components for the recall TUI.
//
// # Overview
//
// The ui package implements the visual components of recall using the Bubble Tea
// framework and Lipgloss styling library. It follows the Model-Update-View pattern
// established by Bubble Tea.
//
// # Layout System
//
// The layout is organized as follows:
//
//	┌─────────────────────────────────────────────────────┐
//	│ Header (1 line)                                     │
//	├─────────────────┬───────────────────────────────────┤
//	│ + New Chat      │                                   │
//	│ / Search chats  │         Content Panel             │
//	│ Folder        8 │                                   │
//	│ ...sessions...  │                                   │
//	│ Settings        │                                   │
//	│ (J) Jane     «  │                                   │
//	├─────────────────┴───────────────────────────────────┤
//	│ Footer (1 line)                                     │
//	└─────────────────────────────────────────────────────┘
//
// When closed the sidebar collapses to a RailWidth column holding only the
// open affordance.
//
// # Components
//
// ViewContext: Singleton that manages centralized layout calculations.
// All size calculations should go through ViewContext to ensure consistency.
//
// Header: The application title with the current session title and route path.
//
// Footer: Context-aware keyboard shortcuts and timed flash messages.
//
// Sidebar: The collapsible session history. It fetches through a
// session.Lister when mounted and reports results as SessionsLoadedMsg.
// Results from a superseded or unmounted fetch are dropped.
// Activating an entry emits NavigateMsg; it never touches the router itself.
//
// Panel: The content area. The new chat screen on the home route, the
// session detail on a session route.
//
// # Styles
//
// All styles are defined in styles.go and rebuilt by SetTheme. The default
// palette uses ColorPrimary (#7C3AED) for highlights and focused elements.
package ui
