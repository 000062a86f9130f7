package app

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestShowFlash(t *testing.T) {
	tests := []struct {
		name string
		show func(m *Model, text string) bool
		icon string
	}{
		{"error", func(m *Model, s string) bool { return m.ShowFlashError(s) != nil }, "✕"},
		{"warning", func(m *Model, s string) bool { return m.ShowFlashWarning(s) != nil }, "⚠"},
		{"success", func(m *Model, s string) bool { return m.ShowFlashSuccess(s) != nil }, "✓"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModelWithSize(t, testSessions(), Options{}, 120, 40)

			if !tt.show(m, "hello there") {
				t.Error("ShowFlash should return the auto-dismiss tick")
			}
			footer := ansi.Strip(m.footer.View())
			if !strings.Contains(footer, tt.icon+" hello there") {
				t.Errorf("footer = %q", footer)
			}
		})
	}
}
