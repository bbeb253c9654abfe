package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/cstr"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	stackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2E8B57")).
			Padding(0, 1)

	heapStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#B8860B")).
			Padding(0, 1)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const (
	fieldTemplate = iota
	fieldArgs
	fieldCapacity
	fieldCount
)

type interactiveModel struct {
	err      error
	inputs   []textinput.Model
	result   *cstr.CString
	focusIdx int
}

func newInteractiveModel() *interactiveModel {
	inputs := make([]textinput.Model, fieldCount)

	ti := textinput.New()
	ti.Prompt = "template: "
	ti.Placeholder = "Pi = %.2f"
	ti.Width = 48
	ti.Focus()
	inputs[fieldTemplate] = ti

	ti = textinput.New()
	ti.Prompt = "args:     "
	ti.Placeholder = "3.14159"
	ti.Width = 48
	inputs[fieldArgs] = ti

	ti = textinput.New()
	ti.Prompt = "capacity: "
	ti.Placeholder = fmt.Sprintf("%d", cstr.DefaultCapacity)
	ti.Width = 8
	inputs[fieldCapacity] = ti

	return &interactiveModel{inputs: inputs}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab", "shift+tab":
			m.inputs[m.focusIdx].Blur()
			if msg.String() == "tab" {
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
			} else {
				m.focusIdx = (m.focusIdx + len(m.inputs) - 1) % len(m.inputs)
			}
			m.inputs[m.focusIdx].Focus()
			return m, nil

		case "enter":
			m.render()
			return m, nil
		}
	}

	var cmds []tea.Cmd
	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *interactiveModel) render() {
	capacity := cstr.DefaultCapacity
	if v := strings.TrimSpace(m.inputs[fieldCapacity].Value()); v != "" {
		if n, ok := convertArg(v).(int64); ok {
			capacity = int(n)
		}
	}

	args := parseArgs(m.inputs[fieldArgs].Value())
	s, err := cstr.FormatCapacity(capacity, m.inputs[fieldTemplate].Value(), args...)
	if err != nil {
		m.err = err
		m.result = nil
		return
	}
	m.err = nil
	m.result = &s
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("cstrfmt"))
	b.WriteString("\n\n")

	for i := range m.inputs {
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")

	case m.result != nil:
		badge := stackStyle.Render("stack")
		if m.result.Heap() {
			badge = heapStyle.Render("heap")
		}
		b.WriteString(badge)
		b.WriteString(" ")
		b.WriteString(resultStyle.Render(m.result.String()))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("%d bytes: % x", len(m.result.Bytes()), preview(m.result.Bytes()))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab next field • enter render • esc quit"))
	return b.String()
}

func preview(b []byte) []byte {
	if len(b) > 24 {
		return b[:24]
	}
	return b
}

func runInteractive() error {
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
