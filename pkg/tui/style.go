package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// UI styles and layout settings
// Color palette "Blue Moon" from https://gogh-co.github.io/Gogh/
const (
	colorGray     = "#353b52"
	colorWhite    = "#ffffff"
	colorGreen    = "#acfab4"
	colorGreenDim = "#b4c4b4"
	colorRed      = "#e61f44"
	colorPurple   = "#b9a3eb"
	colorBlue     = "#89ddff"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue)).
			Background(lipgloss.Color(colorGray)).
			Padding(0, 2).Align(lipgloss.Center)
	subtitleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue))
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Background(lipgloss.Color(colorGreen))
	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorWhite))
	fieldNameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorBlue))
	tagValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorPurple))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorRed))
	statusOkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGreenDim))
	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray))
)

// truncate shortens text to fit availableWidth, marking the cut with dots.
func truncate(text string, availableWidth int) string {
	if len(text) <= availableWidth || availableWidth <= 3 {
		return text
	}
	return text[:availableWidth-2] + ".."
}

// generateLinePointer renders the focus pointer column.
func generateLinePointer(isPoint bool) string {
	if isPoint {
		return "> "
	}
	return "  "
}
