package entry

import "github.com/charmbracelet/lipgloss"

// Title is shown above the form.
const Title = "New Customer Registration"

// labelWidth fits the longest label, "Birthday (YYYY-MM-DD):".
const labelWidth = 24

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"}).
		MarginBottom(1)
}

func labelStyle(focused bool) lipgloss.Style {
	s := lipgloss.NewStyle().Width(labelWidth)
	if focused {
		return s.Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})
	}
	return s
}

func optionStyle(selected bool) lipgloss.Style {
	if selected {
		return lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "0", Dark: "15"}).
			Background(lipgloss.AdaptiveColor{Light: "4", Dark: "12"}).
			Padding(0, 1)
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"}).
		Padding(0, 1)
}

func successStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "2", Dark: "10"})
}

func errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "1", Dark: "9"})
}
