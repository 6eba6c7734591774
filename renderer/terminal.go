package renderer

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// profitLossColumn is the index of the Profit/Loss column in Headers.
const profitLossColumn = 4

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	gainStyle   = cellStyle.Foreground(lipgloss.Color("2"))
	lossStyle   = cellStyle.Foreground(lipgloss.Color("1"))
)

// SignStyle returns the style of a profit/loss cell: green for a gain, red for a loss.
func SignStyle(s Sign) lipgloss.Style {
	switch s {
	case Positive:
		return gainStyle
	case Negative:
		return lossStyle
	default:
		return cellStyle
	}
}

// Terminal renders the table with borders and colour coded profit/loss.
func Terminal(t Table) string {
	if t.Empty() {
		return EmptyMessage + "\n"
	}
	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		rows = append(rows, r.Cells())
	}
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(Headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == profitLossColumn && row >= 0 && row < len(t.Rows):
				return SignStyle(t.Rows[row].Sign)
			default:
				return cellStyle
			}
		})
	return tbl.String() + "\n"
}
