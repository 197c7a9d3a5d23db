package components

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/actualize/actualize/internal/ui/theme"
)

// MenuItem is one entry of a Menu. Detail, when set, is evaluated on every
// render and shown dimmed after the label.
type MenuItem struct {
	Label    string
	Detail   func() string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of actions. The cursor wraps and never rests on a
// disabled item.
type Menu struct {
	Items    []MenuItem
	Selected int
}

var menuKeys = struct {
	Up, Down, Choose key.Binding
}{
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Choose: key.NewBinding(key.WithKeys("enter")),
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.step(1)
	return m
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(kmsg, menuKeys.Up):
		m.step(-1)
	case key.Matches(kmsg, menuKeys.Down):
		m.step(1)
	case key.Matches(kmsg, menuKeys.Choose):
		if item, ok := m.current(); ok && item.Action != nil {
			return m, item.Action()
		}
	}
	return m, nil
}

// step moves the cursor to the next enabled item in direction dir.
func (m *Menu) step(dir int) {
	n := len(m.Items)
	for i := 1; i <= n; i++ {
		next := ((m.Selected+dir*i)%n + n) % n
		if !m.Items[next].Disabled {
			m.Selected = next
			return
		}
	}
}

func (m Menu) current() (MenuItem, bool) {
	if m.Selected < 0 || m.Selected >= len(m.Items) || m.Items[m.Selected].Disabled {
		return MenuItem{}, false
	}
	return m.Items[m.Selected], true
}

func (m Menu) View() string {
	width := 0
	for _, item := range m.Items {
		width = max(width, lipgloss.Width(item.Label))
	}
	detail := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	for i, item := range m.Items {
		label := item.Label + strings.Repeat(" ", width-lipgloss.Width(item.Label))
		switch {
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("▸ " + label))
		case item.Disabled:
			b.WriteString(detail.Render("  " + label))
		default:
			b.WriteString(theme.Unselected.Render("  " + label))
		}
		if item.Detail != nil {
			if d := item.Detail(); d != "" {
				b.WriteString("   " + detail.Render(d))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
