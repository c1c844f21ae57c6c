package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#00D7FF")
	colorText   = lipgloss.Color("#D0D0D0")
	colorDim    = lipgloss.Color("#5F6F7F")
	colorGood   = lipgloss.Color("#5FFF87")
	colorWarn   = lipgloss.Color("#FFAF00")
	colorError  = lipgloss.Color("#FF5F5F")
)

var (
	styleTitle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true).
			Padding(0, 1)

	styleDistance = lipgloss.NewStyle().
			Foreground(colorGood).
			Bold(true).
			Padding(0, 2)

	styleMiss = lipgloss.NewStyle().
			Foreground(colorWarn).
			Bold(true).
			Padding(0, 2)

	styleLabel = lipgloss.NewStyle().
			Foreground(colorDim)

	styleValue = lipgloss.NewStyle().
			Foreground(colorText)

	styleSpark = lipgloss.NewStyle().
			Foreground(colorAccent)

	styleError = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	stylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)

	styleHelp = lipgloss.NewStyle().
			Foreground(colorDim).
			Padding(0, 1)
)
