package lessons

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/actualize/actualize/internal/catalog"
	"github.com/actualize/actualize/internal/progress"
	"github.com/actualize/actualize/internal/screen"
	"github.com/actualize/actualize/internal/ui/components"
	"github.com/actualize/actualize/internal/ui/layout"
	"github.com/actualize/actualize/internal/ui/theme"
)

// LessonsScreen lists the study plan and marks lessons complete.
type LessonsScreen struct {
	store    *progress.Store
	lessons  []catalog.Lesson
	selected int
	warning  string
}

var _ screen.Screen = (*LessonsScreen)(nil)
var _ screen.KeyHintProvider = (*LessonsScreen)(nil)

// New creates a new LessonsScreen.
func New(cat *catalog.Catalog, store *progress.Store) *LessonsScreen {
	return &LessonsScreen{store: store, lessons: cat.Lessons()}
}

func (s *LessonsScreen) Init() tea.Cmd {
	return nil
}

func (s *LessonsScreen) Title() string {
	return "Study Plan"
}

func (s *LessonsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Mark complete"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LessonsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.lessons)-1 {
			s.selected++
		}
	case "enter":
		if s.selected < len(s.lessons) {
			id := s.lessons[s.selected].ID
			if err := s.store.CompleteLesson(context.Background(), id); err != nil {
				s.warning = "Progress not saved: " + err.Error()
			}
		}
	}
	return s, nil
}

func (s *LessonsScreen) View(width, height int) string {
	if len(s.lessons) == 0 {
		return layout.Centered(theme.Hint, width, "\n\nNo lessons in the catalog.")
	}

	st := s.store.Snapshot()
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(components.NewProgressBar("Plan", float64(s.store.OverallProgress())/100, cw-6).View())
	b.WriteString("\n\n")

	// Window the list around the cursor.
	visible := max(3, height-10)
	start := max(0, min(s.selected-visible/2, len(s.lessons)-visible))
	end := min(len(s.lessons), start+visible)

	for i := start; i < end; i++ {
		l := s.lessons[i]
		mark := "○"
		style := theme.Unselected
		if st.Progress.HasCompleted(l.ID) {
			mark = "✓"
			style = lipgloss.NewStyle().Foreground(theme.Success)
		}
		line := fmt.Sprintf("%s Week %d Day %d  %-36s %s", mark, l.Week, l.Day, truncate(l.Title, 36), l.Section.DisplayName())
		if i == s.selected {
			b.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			b.WriteString(style.Render("  " + line))
		}
		b.WriteString("\n")
	}

	content := components.Panel("Study Plan", b.String(), cw)
	if s.warning != "" {
		content += "\n" + lipgloss.NewStyle().Foreground(theme.Warning).Render(s.warning)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
