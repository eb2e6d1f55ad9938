package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss renderers shared across the dashboard's
// panes, following the teacher's cmd/nerd/ui DefaultStyles convention.
type Styles struct {
	Header    lipgloss.Style
	Compliant lipgloss.Style
	Breach    lipgloss.Style
	Dim       lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69")).Padding(0, 1),
		Compliant: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Breach:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
	}
}
