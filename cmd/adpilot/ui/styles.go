// Package ui provides the visual styling for the adpilot interactive CLI.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Semantic colors
	Accent      = lipgloss.Color("#8BC34A") // Lime Green
	Info        = lipgloss.Color("#2196F3") // Blue
	Destructive = lipgloss.Color("#e53935") // Red
	Muted       = lipgloss.Color("#9aa5b1")
)

// Styles holds the prompt and message styles used by the terminal console.
// Error is rendered by the CLI entry point on fatal exits; Separator frames
// the final payload dump.
type Styles struct {
	AIPrefix   lipgloss.Style
	UserPrefix lipgloss.Style
	Error      lipgloss.Style
	Separator  lipgloss.Style
}

// DefaultStyles returns the adpilot styling.
func DefaultStyles() Styles {
	return Styles{
		AIPrefix:   lipgloss.NewStyle().Foreground(Accent).Bold(true),
		UserPrefix: lipgloss.NewStyle().Foreground(Info).Bold(true),
		Error:      lipgloss.NewStyle().Foreground(Destructive),
		Separator:  lipgloss.NewStyle().Foreground(Muted),
	}
}
