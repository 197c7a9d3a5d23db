package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/actualize/actualize/internal/progress"
	"github.com/actualize/actualize/internal/router"
	"github.com/actualize/actualize/internal/screen"
	"github.com/actualize/actualize/internal/screens/home"
	"github.com/actualize/actualize/internal/screens/welcome"
	"github.com/actualize/actualize/internal/ui/layout"
	"github.com/actualize/actualize/internal/ui/theme"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	svc    home.Services
	router *router.Router
	status layout.Status
	width  int
	height int
}

// Option adjusts the initial screen stack.
type Option func(*options)

type options struct {
	start func(home.Services) screen.Screen
}

// WithStartScreen opens the given screen on top of home, so esc returns to the menu.
// First-time users still see the welcome screen instead.
func WithStartScreen(factory func(home.Services) screen.Screen) Option {
	return func(o *options) { o.start = factory }
}

// newAppModel creates the root model. First-time users see the welcome screen.
func newAppModel(svc home.Services, opts ...Option) AppModel {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	theme.Apply(svc.Progress.Snapshot().User.Settings.DarkMode)

	homeFactory := func() screen.Screen { return home.New(svc) }
	var initial screen.Screen
	if welcome.NeedsWelcome(svc.Progress.Snapshot()) {
		initial = welcome.New(svc.Progress, homeFactory)
	} else {
		initial = homeFactory()
	}
	r := router.New(initial)
	if o.start != nil && !welcome.NeedsWelcome(svc.Progress.Snapshot()) {
		r.Push(o.start(svc))
	}
	return AppModel{
		svc:    svc,
		router: r,
		status: statusFor(svc.Progress.Snapshot(), svc.Progress.TotalLessons()),
	}
}

func statusFor(st progress.State, totalLessons int) layout.Status {
	status := layout.Status{OverallProgress: progress.OverallProgress(st.Progress, totalLessons)}
	status.EstimatedScore, status.HasEstimate = progress.EstimatedScore(st.Progress)
	return status
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.ProgressMsg:
		m.status = statusFor(msg.State, m.svc.Progress.TotalLessons())

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.router.PopToRoot()
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status, m.width)

	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is cancelled.
// Engine and store changes reach the screens as SessionMsg and ProgressMsg.
func Run(ctx context.Context, svc home.Services, logger *zap.Logger, opts ...Option) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newAppModel(svc, opts...), tea.WithContext(ctx))
	stop := forwardUpdates(ctx, svc, p.Send)
	defer stop()

	logger.Debug("tui starting")
	if _, err := p.Run(); err != nil {
		logger.Error("tui exited with error", zap.Error(err))
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
