package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/bitfield/compiler"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	// One style per field, cycled, so adjacent fields stay visually
	// distinct in the bit rendering.
	bitPalette = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB86C")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6")),
	}

	paddingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectField modelState = iota
	stateEditField
)

type inspectModel struct {
	err      error
	ct       *compiler.Compiled
	value    compiler.Packed
	input    textinput.Model
	selected int
	state    modelState
}

func newInspectModel(ct *compiler.Compiled) *inspectModel {
	return &inspectModel{
		ct:    ct,
		value: ct.New(),
		state: stateSelectField,
	}
}

func (m *inspectModel) Init() tea.Cmd {
	return nil
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.state == stateEditField {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.state = stateSelectField
			m.err = nil
		case "enter":
			m.applyInput()
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.selected < len(m.ct.Accessors())-1 {
			m.selected++
		}

	case "r":
		m.value = m.ct.New()
		m.err = nil

	case "enter":
		m.startEdit()
	}

	return m, nil
}

func (m *inspectModel) startEdit() {
	a := m.ct.Accessors()[m.selected]

	ti := textinput.New()
	ti.Prompt = a.Name() + " = "
	ti.Placeholder = a.DeclType()
	ti.Width = 40
	ti.Focus()

	m.input = ti
	m.err = nil
	m.state = stateEditField
}

func (m *inspectModel) applyInput() {
	a := m.ct.Accessors()[m.selected]

	v, err := parseValue(m.input.Value(), a)
	if err != nil {
		m.err = err
		return
	}
	if err := m.value.Set(a.Name(), v); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.state = stateSelectField
}

// parseValue interprets the typed text per the field's class. Custom
// types get the raw string; their into hook decides what it means.
func parseValue(s string, a *compiler.Accessor) (any, error) {
	s = strings.TrimSpace(s)
	switch a.Class() {
	case compiler.ClassBool:
		switch s {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return nil, fmt.Errorf("%q is not a bool", s)
	case compiler.ClassSInt:
		v, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a signed integer", s)
		}
		return v, nil
	case compiler.ClassUInt:
		v, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an unsigned integer", s)
		}
		return v, nil
	default:
		return s, nil
	}
}

func (m *inspectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Bitfield Inspector"))
	b.WriteString(" ")
	st := m.ct.Storage()
	b.WriteString(fmt.Sprintf("%s: %s, %s first", m.ct.Name(), st.Type, st.Order))
	b.WriteString("\n\n")

	b.WriteString(m.renderWord())
	b.WriteString("\n\n")

	accs := m.ct.Accessors()
	for i, a := range accs {
		line := fmt.Sprintf("%-16s %s = %v",
			a.Name(), typeStyle.Render(a.DeclType()), a.Get(m.value.Raw()))
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + fieldStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if m.state == stateEditField {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.state == stateEditField {
		b.WriteString(helpStyle.Render("enter apply • esc cancel"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓ select • enter edit • r reset • q quit"))
	}
	b.WriteString("\n")

	return b.String()
}

// renderWord draws the storage word bit by bit, top bit first, colored
// per field. Words wider than 64 bits are shown as hex.
func (m *inspectModel) renderWord() string {
	total := m.ct.TotalBits()
	if total > 64 {
		return "  raw: " + m.value.Raw().String()
	}

	fields := m.ct.Fields()
	selected := m.ct.Accessors()[m.selected]
	raw := m.value.Uint64()

	var b strings.Builder
	b.WriteString("  ")
	prev := -1
	for bit := int(total) - 1; bit >= 0; bit-- {
		idx := -1
		for fi, f := range fields {
			if f.Covers(uint32(bit)) {
				idx = fi
				break
			}
		}
		if prev != -1 && idx != prev {
			b.WriteString(" ")
		}
		prev = idx

		ch := "0"
		if raw>>uint(bit)&1 == 1 {
			ch = "1"
		}
		switch {
		case idx == -1:
			b.WriteString(ch)
		case fields[idx].Padding:
			b.WriteString(paddingStyle.Render(ch))
		case fields[idx].Name == selected.Name():
			b.WriteString(selectedStyle.Render(ch))
		default:
			b.WriteString(bitPalette[idx%len(bitPalette)].Render(ch))
		}
	}
	b.WriteString(fmt.Sprintf("  = %#x", raw))
	return b.String()
}

func runInteractive(ct *compiler.Compiled) error {
	if len(ct.Accessors()) == 0 {
		return fmt.Errorf("%s has no visible fields", ct.Name())
	}
	p := tea.NewProgram(newInspectModel(ct), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
