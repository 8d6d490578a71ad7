// Package signupui renders the registration form in the terminal.
//
// Keyboard:
//
//	Tab, Down        - next field
//	Shift+Tab, Up    - previous field
//	Enter            - submit
//	Esc, Ctrl+C      - quit
package signupui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wichananm65/registration-service/internal/form"
	"github.com/wichananm65/registration-service/internal/validation"
)

// submittedMsg carries the reply of the POST issued after a valid submit.
type submittedMsg struct {
	res *form.Response
	err error
}

type Model struct {
	ctx    context.Context
	form   *form.Form
	client form.Submitter

	rules  validation.Schema
	inputs []textinput.Model
	// focus indexes inputs; len(inputs) is the Register button.
	focus int
}

func New(ctx context.Context, f *form.Form, client form.Submitter) Model {
	m := Model{
		ctx:    ctx,
		form:   f,
		client: client,
		rules:  f.Rules(),
	}
	for _, rule := range m.rules {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = rule.Placeholder
		ti.CharLimit = 64
		ti.SetValue(f.Value(rule.Field))
		m.inputs = append(m.inputs, ti)
	}
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down":
			return m, m.setFocus(m.focus + 1)
		case "shift+tab", "up":
			return m, m.setFocus(m.focus - 1)
		case "enter":
			return m, m.submit()
		}

	case submittedMsg:
		m.form.Resolve(msg.res, msg.err)
		return m, nil
	}

	return m, m.updateFocusedInput(msg)
}

// Form exposes the underlying form state.
func (m Model) Form() *form.Form { return m.form }

func (m *Model) setFocus(i int) tea.Cmd {
	n := len(m.inputs) + 1
	m.focus = ((i % n) + n) % n

	var cmd tea.Cmd
	for j := range m.inputs {
		if j == m.focus {
			cmd = m.inputs[j].Focus()
			continue
		}
		m.inputs[j].Blur()
	}
	return cmd
}

func (m *Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	if m.focus >= len(m.inputs) {
		return nil
	}
	var cmd tea.Cmd
	before := m.inputs[m.focus].Value()
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if after := m.inputs[m.focus].Value(); after != before {
		m.form.Set(m.rules[m.focus].Field, after)
	}
	return cmd
}

func (m *Model) submit() tea.Cmd {
	reg, ok := m.form.Submit()
	if !ok {
		return nil
	}
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		res, err := client.Register(ctx, reg)
		return submittedMsg{res: res, err: err}
	}
}
