package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/actualize/actualize/internal/ui/theme"
)

// TextInput is a focused single-line field with optional validation.
// A failed Submit keeps the field open and shows the error under it until
// the next edit.
type TextInput struct {
	Model    textinput.Model
	Validate func(string) error
	err      error
}

// NewTextInput creates a focused input accepting at most limit characters (0 for no limit).
func NewTextInput(placeholder string, limit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Focus()
	return TextInput{Model: ti}
}

func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	before := t.Model.Value()
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	if t.Model.Value() != before {
		t.err = nil
	}
	return t, cmd
}

// Value returns the input with surrounding whitespace removed.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// Submit validates the current value. On failure the error is kept for View.
func (t *TextInput) Submit() (string, bool) {
	v := t.Value()
	if t.Validate != nil {
		if err := t.Validate(v); err != nil {
			t.err = err
			return "", false
		}
	}
	t.err = nil
	return v, true
}

// Err is the error from the last failed Submit, if the value has not changed since.
func (t TextInput) Err() error {
	return t.err
}

func (t TextInput) View() string {
	view := t.Model.View()
	if t.err != nil {
		view += "\n" + lipgloss.NewStyle().Foreground(theme.Error).Render("✗ "+t.err.Error())
	}
	return view
}
