// Package ui provides the shared styles used to render command output.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Theme colors (Catppuccin Mocha inspired).
var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#1e66f5", Dark: "#89b4fa"} // Blue
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#cba6f7"} // Mauve
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#40a02b", Dark: "#a6e3a1"} // Green
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#df8e1d", Dark: "#f9e2af"} // Yellow
	ColorError     = lipgloss.AdaptiveColor{Light: "#d20f39", Dark: "#f38ba8"} // Red
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#6c6f85", Dark: "#6c7086"} // Overlay0
)

// Styles contains the lipgloss styles for command output.
type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Muted   lipgloss.Style

	// Sync actions
	Create lipgloss.Style
	Update lipgloss.Style
	Delete lipgloss.Style
	Skip   lipgloss.Style
}

// DefaultStyles returns the colored styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary),

		Success: lipgloss.NewStyle().
			Foreground(ColorSuccess),

		Warning: lipgloss.NewStyle().
			Foreground(ColorWarning),

		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(ColorPrimary),

		Muted: lipgloss.NewStyle().
			Foreground(ColorMuted),

		Create: lipgloss.NewStyle().
			Foreground(ColorSuccess),

		Update: lipgloss.NewStyle().
			Foreground(ColorWarning),

		Delete: lipgloss.NewStyle().
			Foreground(ColorError),

		Skip: lipgloss.NewStyle().
			Foreground(ColorMuted),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Title:   plain,
		Header:  plain,
		Success: plain,
		Warning: plain,
		Error:   plain,
		Info:    plain,
		Muted:   plain,
		Create:  plain,
		Update:  plain,
		Delete:  plain,
		Skip:    plain,
	}
}

// StylesFor picks colored styles when f is a terminal and color was not
// turned off, and plain styles otherwise.
func StylesFor(f *os.File, noColor bool) Styles {
	if noColor || os.Getenv("NO_COLOR") != "" || !IsTerminal(f) {
		return PlainStyles()
	}
	return DefaultStyles()
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
