// styles.go defines lipgloss styles shared by the browser panels and the list table.
package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	colorText    = lipgloss.Color("#FFFFFF")
	colorMuted   = lipgloss.Color("#A1A1AA")
	colorDim     = lipgloss.Color("#71717A")
	colorBorder  = lipgloss.Color("#52525B")
	colorAccent  = lipgloss.Color("#8B5CF6")
	colorDeep    = lipgloss.Color("#4C1D95")
	colorRule    = lipgloss.Color("#6D28D9")
	colorShell   = lipgloss.Color("#14B8A6")
	colorFailure = lipgloss.Color("#E11D48")
)

// Panels.
var (
	panelStyle       = boxStyle(colorBorder)
	activePanelStyle = boxStyle(colorAccent)

	titleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(colorText).
			Background(colorDeep).
			Padding(0, 1)
)

// Effect list rows and the list command table.
var (
	headerStyle = lipgloss.NewStyle().Bold(true).
			Foreground(colorText).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colorRule)

	selectedRowStyle = lipgloss.NewStyle().Foreground(colorText).Background(colorDeep)
	normalRowStyle   = lipgloss.NewStyle().Foreground(colorMuted)

	tableBorderStyle = lipgloss.NewStyle().Foreground(colorRule)
	cellStyle        = lipgloss.NewStyle().Padding(0, 1)
)

// Detail and stats key-value pairs.
var (
	labelStyle = lipgloss.NewStyle().Foreground(colorMuted).Width(16)
	valueStyle = lipgloss.NewStyle().Foreground(colorText)
)

// Indicators.
var (
	// shellStyle marks sub-plugins of shell plugins.
	shellStyle   = lipgloss.NewStyle().Foreground(colorShell)
	failureStyle = lipgloss.NewStyle().Foreground(colorFailure)
	filterStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
)

// Footer.
var (
	helpStyle    = lipgloss.NewStyle().Foreground(colorDim)
	helpKeyStyle = lipgloss.NewStyle().Foreground(colorShell).Bold(true)
)

func boxStyle(border lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}
