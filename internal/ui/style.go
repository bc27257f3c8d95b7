// Package ui provides the terminal user interface for the clicker.
package ui

import "github.com/charmbracelet/lipgloss"

// Colors defines the color scheme used throughout the application
type Colors struct {
	Subtle    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Special   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
}

var defaultColors = Colors{
	Subtle:    lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"},
	Highlight: lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"},
	Special:   lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"},
	Error:     lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF4040"},
}

// Style represents a collection of styles used in the application
type Style struct {
	Title      lipgloss.Style
	Armed      lipgloss.Style
	Disarmed   lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	StatusLine lipgloss.Style
	Help       lipgloss.Style
	Error      lipgloss.Style
}

// DefaultStyle returns the default style configuration
func DefaultStyle() Style {
	base := lipgloss.NewStyle().
		PaddingLeft(1).
		PaddingRight(1)

	return Style{
		Title: base.Bold(true).
			Foreground(defaultColors.Highlight),

		Armed: base.
			Foreground(defaultColors.Special),

		Disarmed: base.
			Foreground(defaultColors.Subtle),

		Selected: base.Bold(true).
			Foreground(defaultColors.Highlight),

		Unselected: base.
			Foreground(defaultColors.Subtle),

		StatusLine: base,

		Help: base.
			Foreground(defaultColors.Subtle),

		Error: base.
			Foreground(defaultColors.Error),
	}
}

// Current holds the current style configuration
var Current = DefaultStyle()
