package practice

import (
	"context"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/actualize/actualize/internal/catalog"
	"github.com/actualize/actualize/internal/practice"
	"github.com/actualize/actualize/internal/progress"
	"github.com/actualize/actualize/internal/screen"
	"github.com/actualize/actualize/internal/ui/components"
	"github.com/actualize/actualize/internal/ui/layout"
)

// PracticeScreen drives one practice.Engine session from setup to results.
type PracticeScreen struct {
	engine  *practice.Engine
	catalog *catalog.Catalog
	store   *progress.Store
	keys    keyMap

	form    setupForm
	choices components.ChoiceList
	shownID string

	reviewCursor int
	warning      string
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.Closer = (*PracticeScreen)(nil)

// New creates a PracticeScreen. The setup form starts from the engine's last
// configuration and the stored extended-time accommodation.
func New(engine *practice.Engine, cat *catalog.Catalog, store *progress.Store) *PracticeScreen {
	initial := engine.Snapshot().Setup
	if store != nil {
		initial.ExtendedTime = store.Snapshot().User.Settings.ExtendedTime
	}
	return &PracticeScreen{
		engine:  engine,
		catalog: cat,
		store:   store,
		keys:    defaultKeyMap(),
		form:    newSetupForm(cat, initial),
	}
}

func (s *PracticeScreen) Init() tea.Cmd {
	s.syncChoices()
	return nil
}

func (s *PracticeScreen) Title() string {
	switch s.engine.Phase() {
	case practice.PhaseReview:
		return "Review"
	case practice.PhaseResults:
		return "Results"
	case practice.PhaseActive:
		if s.engine.Snapshot().Timed() {
			return "Simulated Test"
		}
		return "Study"
	default:
		return "Practice"
	}
}

// Close abandons an unfinished session when the screen leaves the stack.
func (s *PracticeScreen) Close() {
	s.engine.Abandon()
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	k := s.keys
	back := layout.KeyHint{Key: "Esc", Description: "Back"}
	snap := s.engine.Snapshot()

	var hints []layout.KeyHint
	switch snap.Phase {
	case practice.PhaseSetup:
		hints = layout.HintsFor(k.Up, k.Left, k.Enter)
	case practice.PhaseActive:
		if snap.ShowingFeedback {
			hints = layout.HintsFor(k.Next, k.Prev, k.Submit)
		} else if snap.Timed() {
			hints = layout.HintsFor(k.Up, k.Enter, k.Flag, k.Next, k.Prev, k.EndTest)
		} else {
			hints = layout.HintsFor(k.Up, k.Enter, k.Next, k.Prev, k.Submit)
		}
	case practice.PhaseReview:
		hints = []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Revisit"},
			{Key: "S", Description: "Submit"},
		}
	case practice.PhaseResults:
		hints = layout.HintsFor(k.Again)
	}
	return append(hints, back)
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.SessionMsg:
		s.syncChoices()

	case tea.KeyPressMsg:
		s.handleKey(msg)
		s.syncChoices()
	}
	return s, nil
}

func (s *PracticeScreen) handleKey(msg tea.KeyPressMsg) {
	switch s.engine.Phase() {
	case practice.PhaseSetup:
		s.handleSetupKey(msg)
	case practice.PhaseActive:
		s.handleActiveKey(msg)
	case practice.PhaseReview:
		s.handleReviewKey(msg)
	case practice.PhaseResults:
		if key.Matches(msg, s.keys.Again) {
			s.engine.Reset()
			s.form = newSetupForm(s.catalog, s.engine.Snapshot().Setup)
			s.reviewCursor = 0
		}
	}
}

func (s *PracticeScreen) handleSetupKey(msg tea.KeyPressMsg) {
	k := s.keys
	switch {
	case key.Matches(msg, k.Up):
		s.form.up()
	case key.Matches(msg, k.Down):
		s.form.down()
	case key.Matches(msg, k.Left):
		s.changeSetup(-1)
	case key.Matches(msg, k.Right):
		s.changeSetup(1)
	case key.Matches(msg, k.Enter):
		s.engine.Configure(s.form.setup)
		s.engine.Start()
		s.shownID = ""
		s.reviewCursor = 0
	}
}

func (s *PracticeScreen) changeSetup(delta int) {
	before := s.form.setup.ExtendedTime
	s.form.change(delta)
	if s.form.setup.ExtendedTime == before || s.store == nil {
		return
	}
	extended := s.form.setup.ExtendedTime
	s.noteWarning(s.store.UpdateSettings(context.Background(), progress.SettingsUpdate{ExtendedTime: &extended}))
}

func (s *PracticeScreen) handleActiveKey(msg tea.KeyPressMsg) {
	k := s.keys
	snap := s.engine.Snapshot()
	id, ok := snap.CurrentID()
	if !ok {
		return
	}

	switch {
	case key.Matches(msg, k.Up):
		s.choices.Up()
	case key.Matches(msg, k.Down):
		s.choices.Down()
	case key.Matches(msg, k.Enter):
		if snap.ShowingFeedback {
			s.engine.Next()
			return
		}
		if label, ok := s.choices.Highlighted(); ok {
			s.engine.SelectAnswer(id, label)
		}
	case key.Matches(msg, k.Flag):
		s.engine.ToggleFlag(id)
	case key.Matches(msg, k.Next), key.Matches(msg, k.Right):
		s.engine.Next()
	case key.Matches(msg, k.Prev), key.Matches(msg, k.Left):
		s.engine.Move(-1)
	case key.Matches(msg, k.EndTest):
		s.engine.EndTest()
	case key.Matches(msg, k.Submit):
		if !snap.Timed() {
			s.engine.Submit()
		}
	default:
		if label, ok := s.choices.LabelAt(msg.String()); ok {
			s.engine.SelectAnswer(id, label)
		}
	}
}

func (s *PracticeScreen) handleReviewKey(msg tea.KeyPressMsg) {
	k := s.keys
	snap := s.engine.Snapshot()
	switch {
	case key.Matches(msg, k.Up):
		if s.reviewCursor > 0 {
			s.reviewCursor--
		}
	case key.Matches(msg, k.Down):
		if s.reviewCursor < len(snap.Deck)-1 {
			s.reviewCursor++
		}
	case key.Matches(msg, k.Enter):
		s.engine.Revisit(s.reviewCursor)
	case key.Matches(msg, k.Submit):
		s.engine.Submit()
	}
}

// syncChoices rebuilds the option list when the current question changes.
func (s *PracticeScreen) syncChoices() {
	snap := s.engine.Snapshot()
	if snap.Phase != practice.PhaseActive {
		s.shownID = ""
		return
	}
	q, ok := s.engine.Current()
	if !ok {
		return
	}
	if q.ID != s.shownID {
		s.shownID = q.ID
		s.choices = components.NewChoiceList(q.Options)
		for i, o := range q.Options {
			if o.Label == snap.Answers[q.ID] {
				s.choices.Cursor = i
			}
		}
	}
	s.choices.Chosen = snap.Answers[q.ID]
	s.choices.Revealed = snap.ShowingFeedback
	if snap.ShowingFeedback {
		s.choices.Correct = q.Correct
	} else {
		s.choices.Correct = ""
	}
}

func (s *PracticeScreen) noteWarning(err error) {
	s.warning = ""
	if err != nil {
		s.warning = "Setting not saved: " + err.Error()
	}
}

// currentWarning prefers the engine's warning, which covers the latest session operation.
func (s *PracticeScreen) currentWarning() string {
	if err := s.engine.LastWarning(); err != nil {
		return "Progress not saved: " + err.Error()
	}
	return s.warning
}
