package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table styles shared by the status and resolve/sync/push report tables.
var (
	TableHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorAccent).
		Align(lipgloss.Center)

	TableWarningStyle = lipgloss.NewStyle().Foreground(ColorWarn)
	TableSuccessStyle = lipgloss.NewStyle().Foreground(ColorPass)
	TableFailStyle    = lipgloss.NewStyle().Foreground(ColorFail)
	TableHintStyle    = lipgloss.NewStyle().Foreground(ColorMuted)
	TableBorderStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
)

// NewReportTable returns a rounded-border table pre-wired with the
// package's border styling, sized to the terminal width.
func NewReportTable(width int) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(TableBorderStyle).
		Width(width)
}
