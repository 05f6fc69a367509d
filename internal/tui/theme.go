package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// Windows must stay readable on light and dark terminals: colors are adaptive and
// "faint" is only used on dark backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted         lipgloss.TerminalColor = ac("240", "243")
	colorSurfaceFg     lipgloss.TerminalColor = ac("235", "252")
	colorControlBg     lipgloss.TerminalColor = ac("252", "237")
	colorSelectedBg    lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg    lipgloss.TerminalColor = ac("235", "255")
	colorAccent        lipgloss.TerminalColor = ac("27", "62")
	colorAccentFg      lipgloss.TerminalColor = ac("255", "235")
	colorFocusBorder   lipgloss.TerminalColor = ac("232", "255")
	colorUnfocusBorder lipgloss.TerminalColor = ac("250", "240")
	colorError         lipgloss.TerminalColor = ac("160", "203")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleButton() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorSurfaceFg).Background(colorControlBg)
}

func styleButtonActive() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorAccentFg).Background(colorAccent).Bold(true)
}

func styleButtonCursor() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Underline(true)
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorError)
}

// applyColorProfilePreference sets Lip Gloss's color profile for the TUI.
//
// termenv.EnvColorProfile honors CLICOLOR which can disable colors in a TUI by accident;
// here only NO_COLOR is honored and otherwise the terminal's capabilities are followed.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()

	// TERM/COLORTERM may report more than the detector (macOS Terminal.app under-reports).
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") && (profile == termenv.Ascii || profile == termenv.ANSI) {
		profile = termenv.ANSI256
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures background detection.
//
// Priority:
// 1) NOTEWIN_TUI_THEME=light|dark|auto
// 2) config tui.theme
// 3) COLORFGBG heuristic ("15;0" = fg;bg)
func applyThemePreference(configTheme string) {
	theme := strings.TrimSpace(os.Getenv("NOTEWIN_TUI_THEME"))
	if theme == "" {
		theme = configTheme
	}
	switch strings.ToLower(strings.TrimSpace(theme)) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			// 0-6 and 8 are dark in the usual 16-color palette.
			lipgloss.SetHasDarkBackground(bg <= 6 || bg == 8)
		}
	}
}
