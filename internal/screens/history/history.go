package history

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/actualize/actualize/internal/progress"
	"github.com/actualize/actualize/internal/router"
	"github.com/actualize/actualize/internal/screen"
	"github.com/actualize/actualize/internal/ui/layout"
	"github.com/actualize/actualize/internal/ui/theme"
)

// HistoryScreen lists past simulated tests, newest first.
type HistoryScreen struct {
	tests    []progress.MockTestResult
	selected int
	expanded map[int]bool
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(store *progress.Store) *HistoryScreen {
	s := &HistoryScreen{expanded: make(map[int]bool)}
	s.setTests(store.Snapshot().Progress.MockTests)
	return s
}

// setTests lists tests newest first.
func (s *HistoryScreen) setTests(tests []progress.MockTestResult) {
	s.tests = make([]progress.MockTestResult, 0, len(tests))
	for i := len(tests) - 1; i >= 0; i-- {
		s.tests = append(s.tests, tests[i])
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return nil
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if pmsg, ok := msg.(screen.ProgressMsg); ok {
		s.setTests(pmsg.State.Progress.MockTests)
		s.selected = min(s.selected, max(len(s.tests)-1, 0))
		return s, nil
	}
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.tests)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if len(s.tests) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No simulated tests yet. Take one from Practice!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, t := range s.tests {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %-12s %-9s %2d/36  %3.0f%%",
			prefix, t.Date.Format("Jan 02, 2006"), t.Variant.DisplayName(),
			t.Section.DisplayName(), t.Composite, t.Percentage)

		style := lipgloss.NewStyle().Foreground(compositeColor(t.Composite))
		if i == s.selected {
			style = style.Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    %s  ·  %d of %d correct", t.Variant.ExamCode(), t.Correct, t.Total)
			if t.ExtendedTime {
				detail += "  ·  extended time"
			}
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(detail)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func compositeColor(composite int) color.Color {
	switch {
	case composite >= 30:
		return theme.Success
	case composite >= 24:
		return theme.Primary
	case composite >= 18:
		return theme.Accent
	default:
		return theme.Error
	}
}
