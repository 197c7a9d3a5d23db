package welcome

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/actualize/actualize/internal/progress"
	"github.com/actualize/actualize/internal/router"
	"github.com/actualize/actualize/internal/screen"
	"github.com/actualize/actualize/internal/ui/components"
	"github.com/actualize/actualize/internal/ui/layout"
	"github.com/actualize/actualize/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	revealAfter  = 500 * time.Millisecond
)

type tickMsg time.Time

// WelcomeScreen greets a first-time user, asks for a name, then hands off to home.
type WelcomeScreen struct {
	store        *progress.Store
	homeFactory  func() screen.Screen
	input        components.TextInput
	elapsed      time.Duration
	transitioned bool
	warning      string
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by homeFactory.
func New(store *progress.Store, homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		store:       store,
		homeFactory: homeFactory,
		input:       newNameInput(),
	}
}

func newNameInput() components.TextInput {
	in := components.NewTextInput("Your name", 64)
	in.Validate = func(name string) error {
		if name != "" && !strings.ContainsFunc(name, unicode.IsLetter) {
			return errors.New("a name needs at least one letter")
		}
		return nil
	}
	return in
}

// NeedsWelcome reports whether st looks like a first run.
func NeedsWelcome(st progress.State) bool {
	p := st.Progress
	return st.User.Name == progress.DefaultName &&
		len(p.CompletedLessons) == 0 &&
		len(p.AnswerLog) == 0 &&
		len(p.MockTests) == 0
}

func (w *WelcomeScreen) Title() string {
	return "Welcome"
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tea.Batch(w.input.Init(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		w.elapsed += tickInterval
		if w.elapsed < revealAfter {
			return w, tick()
		}
		return w, nil

	case tea.KeyPressMsg:
		if msg.String() == "enter" {
			return w, w.transition()
		}
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

// transition saves a non-empty name and replaces this screen with home.
func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	name, ok := w.input.Submit()
	if !ok {
		return nil
	}
	if name != "" {
		if err := w.store.UpdateProfile(context.Background(), progress.ProfileUpdate{Name: &name}); err != nil {
			w.warning = err.Error()
		}
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{RenderBanner(width)}

	if w.elapsed >= revealAfter {
		sections = append(sections,
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Your ACT study plan, practice tests and flashcards."),
			"",
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("What should we call you?"),
			w.input.View(),
			"",
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("press enter to continue"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
