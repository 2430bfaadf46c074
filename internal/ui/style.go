package ui

import "github.com/charmbracelet/lipgloss"

var TitleStyle = lipgloss.NewStyle().Inline(true).Bold(true).Foreground(lipgloss.Color("252")).Render
var HelpStyle = lipgloss.NewStyle().Inline(true).Foreground(lipgloss.Color("241")).Render
var AddressStyle = lipgloss.NewStyle().Inline(true).Foreground(lipgloss.Color("86")).Render

// Gradient ends for progress bars.
const (
	GradientStart = "#68b1b1"
	GradientEnd   = "#6ea4ff"
)
