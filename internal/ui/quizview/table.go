package quizview

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"ragclass/internal/quiz"
)

func resultColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Yours", Width: 7},
		{Title: "Answer", Width: 7},
		{Title: "Result", Width: 12},
	}
}

// tableStyles returns table styles for the results table.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// resultRows converts a graded result into table rows.
func resultRows(result quiz.Result) []table.Row {
	rows := make([]table.Row, 0, len(result.Questions))
	for _, question := range result.Questions {
		user := question.User
		if user == "" {
			user = "-"
		}
		rows = append(rows, table.Row{
			strconv.Itoa(question.ID),
			user,
			question.Standard,
			StatusLabel(question.Status),
		})
	}
	return rows
}
