package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorText    lipgloss.Color = "#cdd6f4"
	colorMuted   lipgloss.Color = "#a6adc8"
	colorBorder  lipgloss.Color = "#585b70"
	colorAccent  lipgloss.Color = "#89b4fa"
	colorSuccess lipgloss.Color = "#a6e3a1"
	colorError   lipgloss.Color = "#f38ba8"
	colorWarn    lipgloss.Color = "#f9e2af"
	colorTabOff  lipgloss.Color = "#7f849c"
	colorSurface lipgloss.Color = "#313244"
)

var (
	tabOnStyle     = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	tabOffStyle    = lipgloss.NewStyle().Foreground(colorTabOff)
	statusStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	statusErrStyle = lipgloss.NewStyle().Foreground(colorError)
	legendStyle    = lipgloss.NewStyle().Foreground(colorTabOff)
	crumbStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	noticeStyle    = lipgloss.NewStyle().Foreground(colorWarn)
	dividerStyle   = lipgloss.NewStyle().Foreground(colorBorder)
	dockTitleStyle = lipgloss.NewStyle().Foreground(colorText).Bold(true).Background(colorSurface)
	searchStyle    = lipgloss.NewStyle().Foreground(colorText)
)
