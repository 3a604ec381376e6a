package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskdeck/taskdeck/internal/form"
	"github.com/taskdeck/taskdeck/internal/tui"
)

// maxFormWidth caps the width of form inputs.
const maxFormWidth = 60

func inputWidth(width int) int {
	w := width - 16
	if w > maxFormWidth {
		w = maxFormWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

// ============================================================================
// fieldSet: single-line credential fields
// ============================================================================

type field struct {
	key   string
	label string
	input textinput.Model
}

// fieldSet is an ordered group of text inputs with one focused at a time
// and a validation message per field.
type fieldSet struct {
	fields []field
	focus  int
	errors form.Errors
}

func newField(key, label, placeholder string, secret bool, width int) field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 254
	ti.Width = inputWidth(width)
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return field{key: key, label: label, input: ti}
}

func newFieldSet(fields ...field) fieldSet {
	s := fieldSet{fields: fields, errors: form.Errors{}}
	s.focusAt(0)
	return s
}

func (s *fieldSet) focusAt(i int) tea.Cmd {
	s.focus = i
	var cmd tea.Cmd
	for j := range s.fields {
		if j == i {
			cmd = s.fields[j].input.Focus()
			continue
		}
		s.fields[j].input.Blur()
	}
	return cmd
}

func (s *fieldSet) next() tea.Cmd {
	return s.focusAt((s.focus + 1) % len(s.fields))
}

func (s *fieldSet) prev() tea.Cmd {
	return s.focusAt((s.focus + len(s.fields) - 1) % len(s.fields))
}

func (s *fieldSet) value(key string) string {
	for _, f := range s.fields {
		if f.key == key {
			return f.input.Value()
		}
	}
	return ""
}

func (s *fieldSet) setWidth(width int) {
	for i := range s.fields {
		s.fields[i].input.Width = inputWidth(width)
	}
}

func (s *fieldSet) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.fields[s.focus].input, cmd = s.fields[s.focus].input.Update(msg)
	return cmd
}

func (s fieldSet) view() string {
	var b strings.Builder
	for _, f := range s.fields {
		b.WriteString(tui.LabelStyle.Render(f.label))
		b.WriteString("\n")
		b.WriteString(f.input.View())
		b.WriteString("\n")
		if msg := s.errors[f.key]; msg != "" {
			b.WriteString(tui.FieldError(msg))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ============================================================================
// taskFields: title plus multi-line description
// ============================================================================

const (
	focusTitle = iota
	focusDescription
)

// taskFields is the title/description editor shared by the create form,
// the edit screen and the dashboard's inline editor.
type taskFields struct {
	title  textinput.Model
	desc   textarea.Model
	focus  int
	errors form.Errors
}

func newTaskFields(width, descHeight int) taskFields {
	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 200
	ti.Width = inputWidth(width)

	ta := textarea.New()
	ta.Placeholder = "Description (optional)"
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetWidth(inputWidth(width))
	ta.SetHeight(descHeight)

	f := taskFields{title: ti, desc: ta, errors: form.Errors{}}
	f.focusAt(focusTitle)
	return f
}

func (f *taskFields) set(title, description string) {
	f.title.SetValue(title)
	f.title.CursorEnd()
	f.desc.SetValue(description)
}

func (f *taskFields) values() form.Task {
	return form.Task{Title: f.title.Value(), Description: f.desc.Value()}
}

func (f *taskFields) focusAt(i int) tea.Cmd {
	f.focus = i
	if i == focusTitle {
		f.desc.Blur()
		return f.title.Focus()
	}
	f.title.Blur()
	return f.desc.Focus()
}

func (f *taskFields) toggle() tea.Cmd {
	if f.focus == focusTitle {
		return f.focusAt(focusDescription)
	}
	return f.focusAt(focusTitle)
}

func (f *taskFields) setWidth(width int) {
	f.title.Width = inputWidth(width)
	f.desc.SetWidth(inputWidth(width))
}

func (f *taskFields) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.focus == focusTitle {
		f.title, cmd = f.title.Update(msg)
	} else {
		f.desc, cmd = f.desc.Update(msg)
	}
	return cmd
}

func (f taskFields) view() string {
	var b strings.Builder
	b.WriteString(tui.LabelStyle.Render("Title"))
	b.WriteString("\n")
	b.WriteString(f.title.View())
	b.WriteString("\n")
	if msg := f.errors[form.FieldTitle]; msg != "" {
		b.WriteString(tui.FieldError(msg))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(tui.LabelStyle.Render("Description"))
	b.WriteString("\n")
	b.WriteString(f.desc.View())
	b.WriteString("\n")
	return b.String()
}
