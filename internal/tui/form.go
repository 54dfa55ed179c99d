package tui

import (
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// field is one editable line of a form.
type field struct {
	label  string
	value  string
	secret bool
}

// form is a minimal vertical text form: tab/arrows move focus, typed runes
// append to the focused field.
type form struct {
	fields []field
	focus  int
}

func newForm(labels ...string) form {
	fields := make([]field, len(labels))
	for i, l := range labels {
		fields[i] = field{label: l}
	}
	return form{fields: fields}
}

func (f *form) markSecret(indexes ...int) {
	for _, i := range indexes {
		if i >= 0 && i < len(f.fields) {
			f.fields[i].secret = true
		}
	}
}

func (f *form) value(i int) string {
	if i < 0 || i >= len(f.fields) {
		return ""
	}
	return strings.TrimSpace(f.fields[i].value)
}

func (f *form) setValue(i int, v string) {
	if i >= 0 && i < len(f.fields) {
		f.fields[i].value = v
	}
}

// handleKey edits the form. It returns true when the key was consumed.
func (f *form) handleKey(key tea.KeyMsg) bool {
	if len(f.fields) == 0 {
		return false
	}
	switch key.String() {
	case "tab", "down":
		f.focus = (f.focus + 1) % len(f.fields)
		return true
	case "shift+tab", "up":
		f.focus = (f.focus + len(f.fields) - 1) % len(f.fields)
		return true
	case "backspace":
		v := f.fields[f.focus].value
		if v != "" {
			_, size := utf8.DecodeLastRuneInString(v)
			f.fields[f.focus].value = v[:len(v)-size]
		}
		return true
	}
	if key.Type == tea.KeyRunes {
		f.fields[f.focus].value += string(key.Runes)
		return true
	}
	if key.Type == tea.KeySpace {
		f.fields[f.focus].value += " "
		return true
	}
	return false
}

func (f *form) view() string {
	var b strings.Builder
	for i, fl := range f.fields {
		cursor := "  "
		if i == f.focus {
			cursor = cursorStyle.Render("> ")
		}
		shown := fl.value
		if fl.secret {
			shown = strings.Repeat("*", utf8.RuneCountInString(fl.value))
		}
		label := fl.label
		if i == f.focus {
			label = selectedStyle.Render(label)
		}
		b.WriteString(cursor + label + ": " + shown + "\n")
	}
	return b.String()
}
