package dashboard

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by the dashboard.
type Styles struct {
	Title     lipgloss.Style
	StatusBar lipgloss.Style
	Connected lipgloss.Style
	Offline   lipgloss.Style
	Heating   lipgloss.Style
	Idle      lipgloss.Style
	Error     lipgloss.Style
	Help      lipgloss.Style
	Table     lipgloss.Style
}

// DefaultStyles returns the default dashboard styles.
func DefaultStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")).
			Padding(0, 1),
		Connected: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Offline:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Heating:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Idle:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1),
		Table: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")),
	}
}
