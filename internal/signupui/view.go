package signupui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	buttonStyle  = lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder())
	focusStyle   = buttonStyle.BorderForeground(lipgloss.Color("12")).Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Register"))
	b.WriteString("\n")

	if msg := m.form.Success(); msg != "" {
		b.WriteString(successStyle.Render(msg))
		b.WriteString("\n\n")
	}

	for i, rule := range m.rules {
		b.WriteString(labelStyle.Render(rule.Label))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
		if hint := m.form.FieldError(rule.Field); hint != "" {
			b.WriteString(errorStyle.Render(hint))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	button := buttonStyle
	if m.focus == len(m.inputs) {
		button = focusStyle
	}
	b.WriteString(button.Render("Register"))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab: next • shift+tab: prev • enter: register • esc: quit"))
	b.WriteString("\n")

	return b.String()
}
