package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted      lipgloss.TerminalColor = ac("240", "243")
	colorAccent     lipgloss.TerminalColor = ac("25", "75")
	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")
	colorError      lipgloss.TerminalColor = ac("160", "203")
)

type styles struct {
	tab        lipgloss.Style
	tabActive  lipgloss.Style
	task       lipgloss.Style
	taskDone   lipgloss.Style
	selected   lipgloss.Style
	status     lipgloss.Style
	statusErr  lipgloss.Style
	prompt     lipgloss.Style
	pickActive lipgloss.Style
}

// applyColorProfile forces plain ASCII output when color is disabled.
func applyColorProfile(noColor bool) {
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

func newStyles() styles {
	return styles{
		tab:        lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted),
		tabActive:  lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(colorAccent),
		task:       lipgloss.NewStyle(),
		taskDone:   lipgloss.NewStyle().Foreground(colorMuted).Strikethrough(true),
		selected:   lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true),
		status:     lipgloss.NewStyle().Foreground(colorMuted),
		statusErr:  lipgloss.NewStyle().Foreground(colorError),
		prompt:     lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		pickActive: lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Underline(true),
	}
}
