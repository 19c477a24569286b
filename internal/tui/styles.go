package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - all colors meet WCAG AA contrast (4.5:1) on both black and dark surfaces
	primaryColor = lipgloss.Color("#A78BFA") // Purple (violet-400)
	successColor = lipgloss.Color("#10B981") // Green
	warningColor = lipgloss.Color("#F59E0B") // Amber
	errorColor   = lipgloss.Color("#F87171") // Red (red-400)
	mutedColor   = lipgloss.Color("#9CA3AF") // Gray (brighter for readability)
	surfaceColor = lipgloss.Color("#1F2937") // Dark surface
	textColor    = lipgloss.Color("#F9FAFB") // Light text
	borderColor  = lipgloss.Color("#6B7280") // Gray (gray-500)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(borderColor).
			MarginBottom(1).
			PaddingBottom(1)

	rowStyle = lipgloss.NewStyle().
			Padding(0, 1)

	rowLabelStyle = lipgloss.NewStyle().
			Foreground(textColor)

	rowTargetStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(surfaceColor).
			Padding(0, 1)

	helpBarStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	helpKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(successColor)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1).
			MarginTop(1)

	errorMsgStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	infoMsgStyle = lipgloss.NewStyle().
			Foreground(successColor)

	timestampStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// statusColor returns the color for a launch status.
func statusColor(status launchStatus) lipgloss.Color {
	switch status {
	case statusRunning:
		return successColor
	case statusFinished:
		return primaryColor
	case statusFailed:
		return errorColor
	case statusCanceled:
		return warningColor
	default:
		return mutedColor
	}
}

// statusIcon returns an icon for a launch status.
func statusIcon(status launchStatus) string {
	switch status {
	case statusRunning:
		return "●"
	case statusFinished:
		return "✓"
	case statusFailed:
		return "✗"
	case statusCanceled:
		return "⊘"
	default:
		return "○"
	}
}
