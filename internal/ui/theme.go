package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("60")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(1, 2)

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	okStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(1, 0, 0, 0)

	statusStyles = map[string]lipgloss.Style{
		"working":  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		"on_break": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		"off":      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245")),
	}
)

func statusLabel(status string) string {
	style, ok := statusStyles[status]
	if !ok {
		style = statusStyles["off"]
	}
	switch status {
	case "working":
		return style.Render("WORKING")
	case "on_break":
		return style.Render("ON BREAK")
	default:
		return style.Render("OFF")
	}
}
