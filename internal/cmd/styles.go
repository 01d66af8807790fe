package cmd

import "github.com/charmbracelet/lipgloss"

var (
	// Colors meet WCAG AA contrast (4.5:1) on dark terminals
	primaryColor   = lipgloss.Color("#A78BFA") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	warningColor   = lipgloss.Color("#F59E0B") // Amber
	errorColor     = lipgloss.Color("#F87171") // Red
	mutedColor     = lipgloss.Color("#9CA3AF") // Gray
	borderColor    = lipgloss.Color("#6B7280") // Gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(secondaryColor)

	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor)
	okStyle      = lipgloss.NewStyle().Foreground(secondaryColor)

	keyStyle = lipgloss.NewStyle().
			Bold(true).
			Width(14)

	laneStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(8)

	spanStyle = lipgloss.NewStyle().Width(16)

	summaryBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)
)
