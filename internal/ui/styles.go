package ui

import "github.com/charmbracelet/lipgloss"

// Monochrome palette on the standard ANSI colors.
var (
	colorText   = lipgloss.ANSIColor(15) // bright white
	colorSoft   = lipgloss.ANSIColor(7)  // white (light gray)
	colorDim    = lipgloss.ANSIColor(8)  // bright black (dark gray)
	colorBorder = lipgloss.ANSIColor(8)
)

var (
	decoStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	firstNameStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true).
			Italic(true)

	lastNameStyle = lipgloss.NewStyle().
			Foreground(colorSoft).
			Italic(true).
			Underline(true)

	handleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.ANSIColor(0)).
			Background(colorText).
			Bold(true).
			Padding(0, 1)

	bioStyle = lipgloss.NewStyle().
			Foreground(colorSoft).
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(colorText).
			PaddingLeft(1)

	linkStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorBorder).
			Padding(0, 2)

	linkIndexStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	linkLabelStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	linkURLStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	audibleStyle = lipgloss.NewStyle().
			Foreground(colorSoft)

	quietStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	barFrameStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	controlStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorBorder).
			Foreground(colorText).
			Width(4).
			Align(lipgloss.Center)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)
