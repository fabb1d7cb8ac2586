package main

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// formField is one line of a modal form: either a free-text input or a
// fixed-option selector cycled with left/right.
type formField struct {
	label    string
	input    textinput.Model
	options  []string
	optIndex int
	numeric  bool
	required bool
}

func textField(label, placeholder, value string, required bool) formField {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 120
	in.SetValue(value)
	return formField{label: label, input: in, required: required}
}

func numberField(label, placeholder, value string, required bool) formField {
	f := textField(label, placeholder, value, required)
	f.numeric = true
	return f
}

func selectField(label string, options []string, selected string) formField {
	idx := 0
	for i, opt := range options {
		if opt == selected {
			idx = i
			break
		}
	}
	return formField{label: label, options: options, optIndex: idx}
}

func (f *formField) value() string {
	if len(f.options) > 0 {
		return f.options[f.optIndex]
	}
	return strings.TrimSpace(f.input.Value())
}

func (f *formField) floatValue() float64 {
	v, _ := strconv.ParseFloat(strings.ReplaceAll(f.value(), ",", "."), 64)
	return v
}

func (f *formField) intValue() int {
	v, _ := strconv.Atoi(f.value())
	return v
}

type modalForm struct {
	title  string
	fields []formField
	focus  int
	errMsg string
}

func newModalForm(title string, fields []formField) *modalForm {
	form := &modalForm{title: title, fields: fields}
	form.focusField(0)
	return form
}

func (m *modalForm) focusField(idx int) {
	if len(m.fields) == 0 {
		return
	}
	if idx < 0 {
		idx = len(m.fields) - 1
	}
	if idx >= len(m.fields) {
		idx = 0
	}
	for i := range m.fields {
		m.fields[i].input.Blur()
	}
	m.focus = idx
	if len(m.fields[idx].options) == 0 {
		m.fields[idx].input.Focus()
	}
}

// Update feeds a message into the form. done reports a submit, cancelled an
// escape; the caller reads field values only when done.
func (m *modalForm) Update(msg tea.Msg) (cmd tea.Cmd, done, cancelled bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if len(m.fields[m.focus].options) == 0 {
			m.fields[m.focus].input, cmd = m.fields[m.focus].input.Update(msg)
		}
		return cmd, false, false
	}

	switch keyMsg.String() {
	case "esc":
		return nil, false, true
	case "tab", "down":
		m.focusField(m.focus + 1)
		return nil, false, false
	case "shift+tab", "up":
		m.focusField(m.focus - 1)
		return nil, false, false
	case "left":
		if field := &m.fields[m.focus]; len(field.options) > 0 {
			field.optIndex = (field.optIndex + len(field.options) - 1) % len(field.options)
			return nil, false, false
		}
	case "right":
		if field := &m.fields[m.focus]; len(field.options) > 0 {
			field.optIndex = (field.optIndex + 1) % len(field.options)
			return nil, false, false
		}
	case "enter":
		if m.focus < len(m.fields)-1 {
			m.focusField(m.focus + 1)
			return nil, false, false
		}
		if !m.valid() {
			m.errMsg = "Preencha os campos obrigatórios."
			return nil, false, false
		}
		return nil, true, false
	case "ctrl+s":
		if !m.valid() {
			m.errMsg = "Preencha os campos obrigatórios."
			return nil, false, false
		}
		return nil, true, false
	}

	if len(m.fields[m.focus].options) == 0 {
		m.fields[m.focus].input, cmd = m.fields[m.focus].input.Update(msg)
	}
	return cmd, false, false
}

func (m *modalForm) valid() bool {
	for i := range m.fields {
		field := &m.fields[i]
		if field.required && field.value() == "" {
			return false
		}
		if field.numeric && field.value() != "" {
			if _, err := strconv.ParseFloat(strings.ReplaceAll(field.value(), ",", "."), 64); err != nil {
				return false
			}
		}
	}
	return true
}

func (m *modalForm) field(idx int) *formField {
	return &m.fields[idx]
}

func (m *modalForm) View(s styles, width int) string {
	var rows []string
	rows = append(rows, s.formLabel.Render(m.title), "")
	for i := range m.fields {
		field := &m.fields[i]
		label := field.label
		if field.required {
			label += " *"
		}
		marker := "  "
		if i == m.focus {
			marker = "> "
		}
		var value string
		if len(field.options) > 0 {
			value = "◀ " + field.options[field.optIndex] + " ▶"
		} else {
			value = field.input.View()
		}
		rows = append(rows, marker+s.formLabel.Render(label), marker+value)
	}
	if m.errMsg != "" {
		rows = append(rows, "", s.formLabel.Foreground(palette.danger).Render(m.errMsg))
	}
	rows = append(rows, "", s.formHint.Render("enter: avançar/salvar · esc: cancelar · ←/→: opções"))
	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return s.formOverlay.Width(width).Render(body)
}
