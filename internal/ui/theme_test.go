package ui

import (
	"slices"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"Nightfox", "Kanagawa", "Slate"}
	if !slices.Equal(names, want) {
		t.Fatalf("ThemeNames() = %v, want %v", names, want)
	}

	names[0] = "changed"
	if ThemeNames()[0] != "Nightfox" {
		t.Fatal("ThemeNames() must return a copy")
	}
}

func TestNextTheme(t *testing.T) {
	cases := map[string]string{
		"Nightfox": "Kanagawa",
		"Kanagawa": "Slate",
		"Slate":    "Nightfox",
		"Unknown":  "Nightfox",
	}
	for current, want := range cases {
		if got := NextTheme(current); got != want {
			t.Fatalf("NextTheme(%q) = %q, want %q", current, got, want)
		}
	}
}

func TestGetTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		if th.Name != name {
			t.Fatalf("GetTheme(%q).Name = %q", name, th.Name)
		}
		if th.Today == "" || th.Danger == "" || th.SelectionBg == "" {
			t.Fatalf("theme %q has empty colors: %+v", name, th)
		}
	}

	if got := GetTheme("Unknown").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Nightfox (fallback)", got)
	}
}

func TestKindStyle(t *testing.T) {
	th := GetTheme("Slate")
	styles := th.Styles()

	cases := map[string]string{
		"success": th.Success,
		"danger":  th.Danger,
		"warning": th.Warning,
		"info":    th.Info,
		"other":   th.Info,
	}
	for kind, color := range cases {
		if got := styles.KindStyle(kind).GetForeground(); got != lipgloss.Color(color) {
			t.Fatalf("KindStyle(%q) foreground = %v, want %v", kind, got, color)
		}
	}
}

func TestLevelStyle(t *testing.T) {
	th := GetTheme("Kanagawa")
	styles := th.Styles()

	cases := map[string]string{
		"ERROR": th.Danger,
		"warn":  th.Warning,
		"INFO":  th.Info,
		"DEBUG": th.Faint,
		"":      th.Muted,
	}
	for level, color := range cases {
		if got := styles.LevelStyle(level).GetForeground(); got != lipgloss.Color(color) {
			t.Fatalf("LevelStyle(%q) foreground = %v, want %v", level, got, color)
		}
	}
}

func TestWithBackground_KeepsForeground(t *testing.T) {
	th := GetTheme("Nightfox")
	styles := th.Styles().WithBackground(th.Surface)

	if got := styles.DangerText.GetBackground(); got != lipgloss.Color(th.Surface) {
		t.Fatalf("DangerText background = %v, want %v", got, th.Surface)
	}
	if got := styles.DangerText.GetForeground(); got != lipgloss.Color(th.Danger) {
		t.Fatalf("DangerText foreground = %v, want %v", got, th.Danger)
	}
}
