// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/four-pillars/internal/model"
)

var (
	primaryColor = lipgloss.Color("#E34234") // Cinnabar
	successColor = lipgloss.Color("#4ECDC4") // Teal
	warningColor = lipgloss.Color("#FFE66D") // Yellow
	errorColor   = lipgloss.Color("#FF6B6B") // Red
	infoColor    = lipgloss.Color("#95E1D3") // Light teal
	subtleColor  = lipgloss.Color("#666666") // Gray

	elementColors = [model.ElementCount]lipgloss.Color{
		model.Wood:  lipgloss.Color("#3FA34D"),
		model.Fire:  lipgloss.Color("#E34234"),
		model.Earth: lipgloss.Color("#C9A227"),
		model.Metal: lipgloss.Color("#B8C4CC"),
		model.Water: lipgloss.Color("#3B7DD8"),
	}

	// titleStyle is used for section titles.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// subtitleStyle is used for secondary lines.
	subtitleStyle = lipgloss.NewStyle().
			Foreground(subtleColor)

	// successStyle formats success messages.
	successStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// warningStyle formats warning messages.
	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	// errorStyle formats error messages.
	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	// infoStyle formats informational messages.
	infoStyle = lipgloss.NewStyle().
			Foreground(infoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(subtleColor)

	// boldStyle makes text bold.
	boldStyle = lipgloss.NewStyle().
			Bold(true)

	// boxStyle is used for bordered content boxes.
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(lipgloss.Color("#333"))

	// TableCellStyle formats table cells with appropriate padding.
	TableCellStyle = lipgloss.NewStyle().
			PaddingRight(2)
)

// Icons.
const (
	successIcon = "✓"
	errorIcon   = "✗"
	warningIcon = "⚠️"
	infoIcon    = "ℹ️"
	pillarsIcon = "☯"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return successStyle.Render(successIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return errorStyle.Render(errorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return warningStyle.Render(warningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return infoStyle.Render(infoIcon + " " + message)
}

// formatTitle formats a title with the pillars icon.
func formatTitle(title string) string {
	return titleStyle.Render(pillarsIcon + " " + title)
}

// ElementStyle returns the foreground style for an element.
func ElementStyle(e model.Element) lipgloss.Style {
	if !e.Valid() {
		return SubtleStyle
	}
	return lipgloss.NewStyle().Foreground(elementColors[e])
}

// renderBox renders content in a styled box.
func renderBox(title, content string) string {
	boxTitle := titleStyle.
		UnsetMargins().
		Render(title)

	boxContent := lipgloss.JoinVertical(
		lipgloss.Left,
		boxTitle,
		content,
	)

	return boxStyle.Render(boxContent)
}
