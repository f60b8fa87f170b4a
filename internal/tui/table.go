package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/insajin/vstscan/internal/vst"
)

// tableHeaders are the columns of the list table.
var tableHeaders = []string{"Effect", "Vendor", "Shell ID", "File", "ID"}

// RenderTable renders effects as a bordered table for the list command.
func RenderTable(effects []vst.EffectDescriptor) string {
	rows := make([][]string, 0, len(effects))
	for _, d := range effects {
		shellID := ""
		if d.Shell {
			shellID = fmt.Sprintf("%d", d.PluginID)
		}
		rows = append(rows, []string{d.EffectName, d.VendorString, shellID, d.FileName, d.ID})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers(tableHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return cellStyle.Bold(true).Foreground(colorText)
			case col == 2:
				return cellStyle.Inherit(shellStyle)
			default:
				return cellStyle
			}
		})

	return t.Render()
}
