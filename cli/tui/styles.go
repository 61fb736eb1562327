// Package tui provides Bubble Tea views for the pathbench CLI.
//
// The TUI is opt-in (--tui), read-only, and renders the same payload as the
// json, yaml and table formats.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/justapithecus/pathbench/types"
)

// Palette, keyed by what the color means in a report.
var (
	accentColor   = lipgloss.Color("#7C3AED")
	okColor       = lipgloss.Color("#10B981")
	timeoutColor  = lipgloss.Color("#F59E0B")
	failureColor  = lipgloss.Color("#EF4444")
	dimColor      = lipgloss.Color("#6B7280")
	neutralColor  = lipgloss.Color("#3B82F6")
	plainColor    = lipgloss.Color("#F9FAFB")
	selectedColor = lipgloss.Color("#1F2937")
)

var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor).MarginBottom(1)
	LabelStyle = lipgloss.NewStyle().Foreground(dimColor).Width(10)
	ValueStyle = lipgloss.NewStyle().Foreground(plainColor)
	HelpStyle  = lipgloss.NewStyle().Foreground(dimColor).MarginTop(1)

	// BoxStyle frames the run header.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(dimColor).
			Padding(0, 1)

	// StatBoxStyle frames one counter; the border takes the counter's color.
	StatBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(14).
			Align(lipgloss.Center)

	StatLabelStyle = lipgloss.NewStyle().Foreground(dimColor)
	StatValueStyle = lipgloss.NewStyle().Bold(true)

	// TableHeaderStyle and TableSelectedStyle style the bubbles tables.
	TableHeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(accentColor).BorderBottom(true)
	TableSelectedStyle = lipgloss.NewStyle().Foreground(plainColor).Background(selectedColor)
)

// StatusColor maps an invocation status or run mode to a color.
func StatusColor(s string) lipgloss.Color {
	switch s {
	case string(types.StatusOK), string(types.ModeBenchmark):
		return okColor
	case string(types.StatusTimeout), string(types.ModeValidation):
		return timeoutColor
	case string(types.StatusFailure):
		return failureColor
	}
	return neutralColor
}
