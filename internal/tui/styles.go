package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	colorPrimary = lipgloss.Color("#2EC4B6")
	colorSahur   = lipgloss.Color("#7AA2F7")
	colorIftar   = lipgloss.Color("#F39C12")
	colorMuted   = lipgloss.Color("#666666")
	colorError   = lipgloss.Color("#E74C3C")
	colorFg      = lipgloss.Color("#C0CAF5")
	colorSubtle  = lipgloss.Color("#414868")
)

// Styles
var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 3)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	cityStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	sahurLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSahur)

	iftarLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorIftar)

	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorError)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)
)
