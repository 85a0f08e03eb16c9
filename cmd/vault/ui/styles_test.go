package ui

import (
	"testing"
)

func TestThemeByName(t *testing.T) {
	if theme := ThemeByName("dark"); !theme.IsDark {
		t.Error("Expected dark theme")
	}
	if theme := ThemeByName("light"); theme.IsDark {
		t.Error("Expected light theme")
	}
}

func TestDetectThemeEnvOverride(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("PROMPTVAULT_DARK_MODE", "1")
	if theme := DetectTheme(); !theme.IsDark {
		t.Error("Expected dark theme from PROMPTVAULT_DARK_MODE")
	}
}

func TestDetectThemeFromColorFgBg(t *testing.T) {
	t.Setenv("PROMPTVAULT_DARK_MODE", "")
	t.Setenv("COLORFGBG", "15;0")
	if theme := DetectTheme(); !theme.IsDark {
		t.Error("Expected dark theme for background index 0")
	}

	t.Setenv("COLORFGBG", "0;15")
	if theme := DetectTheme(); theme.IsDark {
		t.Error("Expected light theme for background index 15")
	}
}

func TestNewStylesUsesTheme(t *testing.T) {
	styles := NewStyles(DarkTheme())
	if styles.Theme.Primary != DarkPrimary {
		t.Error("Expected styles to carry the dark primary color")
	}
}
