// Package keys holds the key strings recall binds, derived from
// tea.KeyPressMsg.String() so they match what Bubble Tea reports at runtime.
//
// Printable single-character bindings ("q", "n", "[", "]") are compared
// literally at the call site.
package keys

import tea "charm.land/bubbletea/v2"

// Navigation keys
var (
	Up   = tea.KeyPressMsg{Code: tea.KeyUp}.String()   // "up"
	Down = tea.KeyPressMsg{Code: tea.KeyDown}.String() // "down"
	Home = tea.KeyPressMsg{Code: tea.KeyHome}.String() // "home"
	End  = tea.KeyPressMsg{Code: tea.KeyEnd}.String()  // "end"
)

// Action keys
var (
	Enter    = tea.KeyPressMsg{Code: tea.KeyEnter}.String()                    // "enter"
	Tab      = tea.KeyPressMsg{Code: tea.KeyTab}.String()                      // "tab"
	ShiftTab = (tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}).String() // "shift+tab"
	Escape   = tea.KeyPressMsg{Code: tea.KeyEscape}.String()                   // "esc"
)

// Ctrl combinations
var (
	CtrlC = (tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}).String() // "ctrl+c"
	CtrlB = (tea.KeyPressMsg{Code: 'b', Mod: tea.ModCtrl}).String() // "ctrl+b"
	CtrlN = (tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl}).String() // "ctrl+n"
	CtrlR = (tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl}).String() // "ctrl+r"
)
