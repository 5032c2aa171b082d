package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// Not parallel: tests mutate the package-level theme.

func TestSetTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	tests := []struct {
		name string
		want string
	}{
		{"dark", "dark"},
		{"light", "light"},
		{"none", "none"},
		{"unknown", "dark"},
	}
	for _, tt := range tests {
		SetTheme(tt.name)
		if got := GetCurrentTheme().Name; got != tt.want {
			t.Errorf("SetTheme(%q): active theme %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestInitTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	InitTheme(true)
	if ColorRed() != "" || ColorReset() != "" {
		t.Error("--no-color should blank every color")
	}

	t.Setenv("NO_COLOR", "1")
	InitTheme(false)
	if GetCurrentTheme().Name != "none" {
		t.Error("NO_COLOR should disable colors")
	}
}

func TestColorAccessorsFollowTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	SetCurrentTheme(DarkTheme)
	if ColorGreen() != DarkTheme.Success || ColorCyan() != DarkTheme.Primary || ColorBold() != DarkTheme.Bold {
		t.Error("color accessors do not match DarkTheme")
	}
	SetCurrentTheme(LightTheme)
	if ColorGreen() != LightTheme.Success {
		t.Error("color accessors do not follow theme changes")
	}
}

func TestGetCurrentTUITheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	SetCurrentTheme(NoColorTheme)
	if _, ok := GetCurrentTUITheme().Accent.(lipgloss.NoColor); !ok {
		t.Error("no-color theme should map to NoColorTUITheme")
	}
	SetCurrentTheme(DarkTheme)
	if GetCurrentTUITheme().Accent != DarkTUITheme.Accent {
		t.Error("dark theme should map to DarkTUITheme")
	}
}
