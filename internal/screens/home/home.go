package home

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/actualize/actualize/internal/catalog"
	"github.com/actualize/actualize/internal/practice"
	"github.com/actualize/actualize/internal/progress"
	"github.com/actualize/actualize/internal/report"
	"github.com/actualize/actualize/internal/router"
	"github.com/actualize/actualize/internal/screen"
	"github.com/actualize/actualize/internal/screens/dashboard"
	"github.com/actualize/actualize/internal/screens/flashcards"
	"github.com/actualize/actualize/internal/screens/history"
	"github.com/actualize/actualize/internal/screens/lessons"
	practicescreen "github.com/actualize/actualize/internal/screens/practice"
	"github.com/actualize/actualize/internal/ui/components"
	"github.com/actualize/actualize/internal/ui/theme"
)

// Services are the long-lived objects screens operate on.
type Services struct {
	Catalog  *catalog.Catalog
	Progress *progress.Store
	Engine   *practice.Engine
	Now      func() time.Time
}

// HomeScreen is the main menu with a progress overview.
type HomeScreen struct {
	svc   Services
	menu  components.Menu
	stats stats
	warn  string
}

type stats struct {
	name           string
	overall        int
	estimate       int
	hasEstimate    bool
	target         int
	daysToTest     int
	hasTestDate    bool
	studyMinutes   int
	questionsTotal int
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(svc Services) *HomeScreen {
	if svc.Now == nil {
		svc.Now = time.Now
	}
	h := &HomeScreen{svc: svc}
	h.menu = components.NewMenu(h.menuItems())
	h.load(svc.Progress.Snapshot())
	return h
}

func (h *HomeScreen) menuItems() []components.MenuItem {
	push := func(s func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: s()} }
		}
	}
	svc := h.svc
	return []components.MenuItem{
		{Label: "PRACTICE", Action: push(func() screen.Screen {
			return practicescreen.New(svc.Engine, svc.Catalog, svc.Progress)
		})},
		{Label: "FLASHCARDS", Detail: func() string {
			return fmt.Sprintf("%d cards", len(svc.Catalog.FilterFlashcards(catalog.SectionAll, catalog.CategoryAll)))
		}, Action: push(func() screen.Screen {
			return flashcards.New(svc.Catalog, svc.Progress, rand.New(rand.NewPCG(uint64(svc.Now().UnixNano()), 0)))
		})},
		{Label: "LESSONS", Detail: func() string {
			return fmt.Sprintf("%d/%d done", len(svc.Progress.Snapshot().Progress.CompletedLessons), svc.Progress.TotalLessons())
		}, Action: push(func() screen.Screen {
			return lessons.New(svc.Catalog, svc.Progress)
		})},
		{Label: "DASHBOARD", Action: push(func() screen.Screen {
			return dashboard.New(svc.Progress)
		})},
		{Label: "HISTORY", Detail: func() string {
			switch n := len(svc.Progress.Snapshot().Progress.MockTests); n {
			case 0:
				return ""
			case 1:
				return "1 mock test"
			default:
				return fmt.Sprintf("%d mock tests", n)
			}
		}, Action: push(func() screen.Screen {
			return history.New(svc.Progress)
		})},
		{Label: "TOGGLE DARK MODE", Detail: func() string {
			if theme.IsDark() {
				return "dark"
			}
			return "light"
		}, Action: func() tea.Cmd {
			h.toggleDarkMode()
			return nil
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) load(st progress.State) {
	s := stats{
		name:           st.User.Name,
		overall:        progress.OverallProgress(st.Progress, h.svc.Progress.TotalLessons()),
		target:         st.User.TargetScore,
		studyMinutes:   st.Progress.TotalStudyMinutes,
		questionsTotal: len(st.Progress.AnswerLog),
	}
	s.estimate, s.hasEstimate = progress.EstimatedScore(st.Progress)
	if st.User.TestDate != nil {
		s.hasTestDate = true
		s.daysToTest = daysUntil(h.svc.Now(), *st.User.TestDate)
	}
	h.stats = s
	theme.Apply(st.User.Settings.DarkMode)
}

func (h *HomeScreen) toggleDarkMode() {
	dark := !h.svc.Progress.Snapshot().User.Settings.DarkMode
	if err := h.svc.Progress.UpdateSettings(context.Background(), progress.SettingsUpdate{DarkMode: &dark}); err != nil {
		h.warn = "Setting not saved: " + err.Error()
	}
	theme.Apply(dark)
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(screen.ProgressMsg); ok {
		h.load(msg.State)
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	compact := height < 22

	var sections []string
	if !compact {
		sections = append(sections, renderTitle(cw))
	}
	sections = append(sections, components.Panel(
		fmt.Sprintf("Welcome back, %s", h.stats.name),
		h.renderStats(cw-4),
		cw,
	))
	sections = append(sections, lipgloss.PlaceHorizontal(cw, lipgloss.Center, h.menu.View()))
	if h.warn != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Warning).Render(h.warn))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) renderStats(w int) string {
	s := h.stats
	var b strings.Builder

	b.WriteString(components.NewProgressBar("Study plan", float64(s.overall)/100, w).View())
	b.WriteString("\n\n")

	estimate := "--"
	if s.hasEstimate {
		estimate = fmt.Sprintf("%d", s.estimate)
	}
	scoreStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	b.WriteString(scoreStyle.Render("Estimated " + estimate))
	b.WriteString(dim.Render(fmt.Sprintf("  target %d", s.target)))

	if s.hasTestDate {
		b.WriteString(dim.Render("  ·  "))
		switch {
		case s.daysToTest > 0:
			b.WriteString(theme.Body.Render(fmt.Sprintf("%d days to test", s.daysToTest)))
		case s.daysToTest == 0:
			b.WriteString(theme.Body.Render("Test day"))
		default:
			b.WriteString(dim.Render("Test date passed"))
		}
	}
	b.WriteString("\n")
	b.WriteString(dim.Render(fmt.Sprintf("%d questions answered  ·  %s studied",
		s.questionsTotal, report.FormatMinutes(s.studyMinutes))))
	return b.String()
}

func renderTitle(cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("A C T U A L I Z E") + "\n" +
		lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("ACT self-study")
}

// daysUntil counts calendar days from now to the test date.
func daysUntil(now, test time.Time) int {
	y, m, d := now.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	y, m, d = test.Date()
	to := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
