package dashboard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/actualize/actualize/internal/progress"
	"github.com/actualize/actualize/internal/report"
	"github.com/actualize/actualize/internal/screen"
	"github.com/actualize/actualize/internal/ui/components"
	"github.com/actualize/actualize/internal/ui/theme"
)

// DashboardScreen shows accuracy analytics derived from the progress store.
type DashboardScreen struct {
	store *progress.Store
	state progress.State
}

var _ screen.Screen = (*DashboardScreen)(nil)

// New creates a new DashboardScreen.
func New(store *progress.Store) *DashboardScreen {
	return &DashboardScreen{store: store, state: store.Snapshot()}
}

func (s *DashboardScreen) Init() tea.Cmd {
	return nil
}

func (s *DashboardScreen) Title() string {
	return "Dashboard"
}

func (s *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(screen.ProgressMsg); ok {
		s.state = msg.State
	}
	return s, nil
}

func (s *DashboardScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	agg := s.state.Progress
	barWidth := cw - 6
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	var overview strings.Builder
	overview.WriteString(components.NewProgressBar("Study plan",
		float64(progress.OverallProgress(agg, s.store.TotalLessons()))/100, barWidth).View())
	overview.WriteString("\n\n")
	estimate := "--"
	if est, ok := progress.EstimatedScore(agg); ok {
		estimate = fmt.Sprintf("%d", est)
	}
	known, reviewed := progress.FlashcardRecall(agg)
	overview.WriteString(theme.Body.Render(fmt.Sprintf(
		"Estimated score %s/36  ·  %d mock tests  ·  %s studied",
		estimate, len(agg.MockTests), report.FormatMinutes(agg.TotalStudyMinutes))))
	overview.WriteString("\n")
	overview.WriteString(dim.Render(fmt.Sprintf("Flashcards: knew %d of %d reviews", known, reviewed)))

	sections := []string{components.Panel("Overview", overview.String(), cw)}

	breakdown := progress.SectionBreakdown(agg)
	if len(breakdown) == 0 {
		sections = append(sections, components.Panel("Accuracy",
			theme.Hint.Render("No answers yet. Start a study session to see your accuracy."), cw))
	} else {
		var b strings.Builder
		for _, st := range breakdown {
			label := fmt.Sprintf("%-8s %3d/%-3d", st.Section.DisplayName(), st.Correct, st.Total)
			b.WriteString(components.NewProgressBar(label, float64(st.Percentage)/100, barWidth).Scored().View())
			b.WriteString("\n")
		}
		sections = append(sections, components.Panel("Accuracy by Section", b.String(), cw))

		b.Reset()
		for _, c := range progress.CategoryPerformance(agg) {
			label := fmt.Sprintf("%-20s %3d/%-3d", truncate(c.Category, 20), c.Correct, c.Total)
			b.WriteString(components.NewProgressBar(label, float64(c.Percentage)/100, barWidth).Scored().View())
			b.WriteString("\n")
		}
		sections = append(sections, components.Panel("Accuracy by Category", b.String(), cw))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(sections, "\n"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
