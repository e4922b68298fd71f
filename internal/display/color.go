// Package display renders plain terminal output (tables, highlighted
// values) for the non-interactive commands.
//
// It respects the NO_COLOR environment variable (https://no-color.org/) and
// detects whether stdout is a terminal. Colors are disabled when output is
// piped or redirected, or when NO_COLOR is set.
package display

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	enabled  bool
	renderer = lipgloss.NewRenderer(os.Stdout)

	boldStyle   lipgloss.Style
	dimStyle    lipgloss.Style
	yellowStyle lipgloss.Style
	cyanStyle   lipgloss.Style
	accentStyle lipgloss.Style
)

func init() {
	SetEnabled(shouldEnable())
}

// shouldEnable determines whether to use color output.
func shouldEnable() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if _, ok := os.LookupEnv("FORCE_COLOR"); ok {
		return true
	}
	return isTerminal(os.Stdout)
}

// isTerminal reports whether f is connected to a terminal.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// SetEnabled overrides the auto-detected color state.
// --json forces plain output through this.
func SetEnabled(b bool) {
	enabled = b
	if b {
		renderer.SetColorProfile(termenv.ANSI)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}

	boldStyle = renderer.NewStyle().Bold(true)
	dimStyle = renderer.NewStyle().Faint(true)
	yellowStyle = renderer.NewStyle().Foreground(lipgloss.Color("3"))
	cyanStyle = renderer.NewStyle().Foreground(lipgloss.Color("6"))
	accentStyle = renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
}

// Enabled reports whether color output is currently active.
func Enabled() bool {
	return enabled
}

func render(s lipgloss.Style, text string) string {
	if !enabled {
		return text
	}
	return s.Render(text)
}

// Bold returns text rendered in bold.
func Bold(text string) string { return render(boldStyle, text) }

// Dim returns text rendered faint.
func Dim(text string) string { return render(dimStyle, text) }

// Yellow is used for the Sahur countdown.
func Yellow(text string) string { return render(yellowStyle, text) }

// Cyan is used for the İftar countdown.
func Cyan(text string) string { return render(cyanStyle, text) }

// Accent highlights today's row and the active countdown.
func Accent(text string) string { return render(accentStyle, text) }

// Boldf formats and bolds a string.
func Boldf(format string, a ...interface{}) string {
	return Bold(fmt.Sprintf(format, a...))
}
