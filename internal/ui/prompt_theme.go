package ui

import (
	"charm.land/bubbles/v2/help"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
)

// PromptTheme returns a huh theme built from the current palette. Call it
// each time a form is created so theme changes are picked up.
func PromptTheme() huh.Theme {
	return huh.ThemeFunc(promptStyles)
}

func promptStyles(isDark bool) *huh.Styles {
	t := huh.ThemeBase(isDark)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(ColorPrimary)
	t.Focused.Card = t.Focused.Base
	t.Focused.Title = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(ColorTextMuted).Italic(true)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(ColorWarning).SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(ColorWarning)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(ColorPrimary)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(ColorTextMuted)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(ColorPrimary)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(ColorText)

	// Confirm buttons
	t.Focused.FocusedButton = lipgloss.NewStyle().
		Padding(0, 2).
		MarginRight(1).
		Foreground(ColorTextInverse).
		Background(ColorPrimary)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Padding(0, 2).
		MarginRight(1).
		Foreground(ColorTextMuted)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().PaddingLeft(2)
	t.Blurred.Card = t.Blurred.Base

	t.FieldSeparator = lipgloss.NewStyle().SetString("\n")
	t.Help = help.New().Styles

	return t
}
