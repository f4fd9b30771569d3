package viewer

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Title is shown above the table.
const Title = "Customer Data Viewer"

var titleCaser = cases.Title(language.English)

// Heading turns a column name into its display heading,
// e.g. "contact_method" -> "Contact Method".
func Heading(col string) string {
	return titleCaser.String(strings.ReplaceAll(col, "_", " "))
}

// ColumnWidth returns the display width for a column by name.
func ColumnWidth(col string) int {
	switch col {
	case "id":
		return 6
	case "name":
		return 20
	case "email":
		return 26
	default:
		return 16
	}
}

// tableColumns builds table columns for the given column names.
func tableColumns(names []string) []table.Column {
	cols := make([]table.Column, len(names))
	for i, n := range names {
		cols[i] = table.Column{Title: Heading(n), Width: ColumnWidth(n)}
	}
	return cols
}

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})
}

func warnStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "208", Dark: "208"})
}

func dimStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.AdaptiveColor{Light: "240", Dark: "240"}).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.AdaptiveColor{Light: "0", Dark: "15"}).
		Background(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})
	return s
}
