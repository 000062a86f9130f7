// Package ui provides constants for layout calculations and configuration.
package ui

import "time"

// Layout constants for panel sizing
const (
	// HeaderHeight is the height of the header in lines
	HeaderHeight = 1

	// FooterHeight is the height of the footer in lines
	FooterHeight = 1

	// BorderSize is the total border width (1 on each side)
	BorderSize = 2

	// SidebarWidthRatio is the denominator for sidebar width (1/3 of total width)
	SidebarWidthRatio = 3

	// SidebarMinWidth keeps the open sidebar usable on narrow terminals
	SidebarMinWidth = 24

	// SidebarMaxWidth stops the sidebar from dominating wide terminals
	SidebarMaxWidth = 40

	// RailWidth is the width of the collapsed sidebar, border included
	RailWidth = 3

	// MinTerminalWidth is the smallest width the layout is computed for
	MinTerminalWidth = 40

	// MinTerminalHeight is the smallest height the layout is computed for
	MinTerminalHeight = 12

	// DefaultWrapWidth is the default width for text wrapping when viewport width is unknown
	DefaultWrapWidth = 80
)

// Sidebar content
const (
	// SessionSubtitle is the placeholder preview shown under every session title
	SessionSubtitle = "to provide you with more..."

	// SidebarSearchCharLimit is the character limit for the search placeholder input
	SidebarSearchCharLimit = 100

	// CloseAffordance and OpenAffordance are the sidebar toggle glyphs
	CloseAffordance = "«"
	OpenAffordance  = "»"
)

// Flash messages
const (
	// DefaultFlashDuration is how long a flash message stays in the footer
	DefaultFlashDuration = 4 * time.Second

	// FlashTickInterval is how often expiry is checked
	FlashTickInterval = 500 * time.Millisecond
)
