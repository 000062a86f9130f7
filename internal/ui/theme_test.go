package ui

import "testing"

func TestThemeNames_AllBuiltin(t *testing.T) {
	names := ThemeNames()
	if len(names) != len(BuiltinThemes) {
		t.Errorf("ThemeNames() has %d entries, BuiltinThemes has %d", len(names), len(BuiltinThemes))
	}
	for _, name := range names {
		theme, ok := BuiltinThemes[name]
		if !ok {
			t.Errorf("theme %q listed but not defined", name)
			continue
		}
		if theme.Primary == "" || theme.Text == "" || theme.Border == "" || theme.Success == "" {
			t.Errorf("theme %q is missing required colors", name)
		}
	}
}

func TestGetTheme_UnknownFallsBack(t *testing.T) {
	if got := GetTheme("no-such-theme"); got.Name != BuiltinThemes[DefaultTheme].Name {
		t.Errorf("GetTheme(unknown) = %q, want default", got.Name)
	}
}

func TestSetThemeByName(t *testing.T) {
	defer SetTheme(DefaultTheme)

	SetThemeByName("nord")
	if CurrentThemeName() != ThemeNord {
		t.Errorf("CurrentThemeName() = %q, want nord", CurrentThemeName())
	}
	if CurrentTheme().Primary != BuiltinThemes[ThemeNord].Primary {
		t.Error("current theme colors should follow SetThemeByName")
	}

	SetThemeByName("")
	if CurrentThemeName() != DefaultTheme {
		t.Errorf("empty theme name should select the default, got %q", CurrentThemeName())
	}
}

func TestTheme_Defaults(t *testing.T) {
	th := Theme{Primary: "#111111"}
	if th.GetBgSelected() != "#111111" {
		t.Error("BgSelected should default to Primary")
	}
	if th.GetBorderFocus() != "#111111" {
		t.Error("BorderFocus should default to Primary")
	}
	th.BgSelected = "#222222"
	th.BorderFocus = "#333333"
	if th.GetBgSelected() != "#222222" || th.GetBorderFocus() != "#333333" {
		t.Error("explicit colors should win")
	}
}
