package live

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"lingoquiz/internal/score"
)

// tableStyles returns table styles for the review log.
func tableStyles(noColor bool) table.Styles {
	styles := table.DefaultStyles()
	if noColor {
		styles.Selected = lipgloss.NewStyle()
		return styles
	}
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// reviewColumns sizes the prompt column to the terminal width.
func reviewColumns(width int) []table.Column {
	fixed := 4 + 12 + 10 + 8
	prompt := width - fixed - 22
	if prompt < 20 {
		prompt = 20
	}
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Question", Width: prompt},
		{Title: "Answer", Width: 12},
		{Title: "Verdict", Width: 10},
		{Title: "Points", Width: 8},
	}
}

// reviewRows converts the review log into table rows.
func reviewRows(report score.Report) []table.Row {
	rows := make([]table.Row, 0, len(report.Review))
	for _, row := range report.Review {
		rows = append(rows, table.Row{
			fmtInt(row.Position),
			truncate(row.Prompt, 80),
			truncate(row.Submitted, 12),
			string(row.Verdict),
			fmtInt(row.Earned) + "/" + fmtInt(row.Possible),
		})
	}
	return rows
}
