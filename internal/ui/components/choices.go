package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/actualize/actualize/internal/catalog"
	"github.com/actualize/actualize/internal/ui/theme"
)

// ChoiceList renders a question's labeled options. It holds no answer state of
// its own: the caller supplies the chosen label and, once revealed, the correct one.
type ChoiceList struct {
	Options  []catalog.Option
	Cursor   int
	Chosen   string
	Correct  string
	Revealed bool
}

// NewChoiceList creates a list over options with the cursor on the first one.
func NewChoiceList(options []catalog.Option) ChoiceList {
	return ChoiceList{Options: options}
}

// Up moves the cursor up, clamping at the top.
func (c *ChoiceList) Up() {
	if c.Cursor > 0 {
		c.Cursor--
	}
}

// Down moves the cursor down, clamping at the bottom.
func (c *ChoiceList) Down() {
	if c.Cursor < len(c.Options)-1 {
		c.Cursor++
	}
}

// Highlighted returns the label under the cursor.
func (c ChoiceList) Highlighted() (string, bool) {
	if c.Cursor < 0 || c.Cursor >= len(c.Options) {
		return "", false
	}
	return c.Options[c.Cursor].Label, true
}

// LabelAt maps a 1-based option number or a letter key to a label.
func (c ChoiceList) LabelAt(k string) (string, bool) {
	for i, o := range c.Options {
		if strings.EqualFold(o.Label, k) || k == fmt.Sprintf("%d", i+1) {
			return o.Label, true
		}
	}
	return "", false
}

// View renders the options.
func (c ChoiceList) View() string {
	var b strings.Builder
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Cursor && !c.Revealed {
			prefix = "▸ "
		}
		marker := " "
		if opt.Label == c.Chosen {
			marker = "●"
		}
		line := fmt.Sprintf("%s%s %s)  %s", prefix, marker, opt.Label, opt.Text)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case c.Revealed && opt.Label == c.Correct:
			style = theme.Correct
		case c.Revealed && opt.Label == c.Chosen:
			style = theme.Incorrect
		case c.Revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == c.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
