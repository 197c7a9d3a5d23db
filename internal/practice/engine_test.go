package practice

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actualize/actualize/internal/catalog"
	"github.com/actualize/actualize/internal/clock"
	"github.com/actualize/actualize/internal/progress"
)

// fakeRecorder captures everything the engine persists.
type fakeRecorder struct {
	answers []progress.AnswerLogEntry
	mocks   []progress.MockTestResult
	minutes int
	err     error
}

func (r *fakeRecorder) RecordAnswer(_ context.Context, e progress.AnswerLogEntry) error {
	r.answers = append(r.answers, e)
	return r.err
}

func (r *fakeRecorder) RecordMockTest(_ context.Context, m progress.MockTestResult) error {
	r.mocks = append(r.mocks, m)
	return r.err
}

func (r *fakeRecorder) AddStudyMinutes(_ context.Context, n int) error {
	r.minutes += n
	return r.err
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	var qs []string
	add := func(id, section, category string) {
		qs = append(qs, fmt.Sprintf(`{"id": %q, "section": %q, "category": %q, "prompt": "p",
			"options": [{"label": "A", "text": "a"}, {"label": "B", "text": "b"},
			            {"label": "C", "text": "c"}, {"label": "D", "text": "d"}],
			"correct": "A", "explanation": "because"}`, id, section, category))
	}
	add("m1", "math", "Algebra")
	add("m2", "math", "Algebra")
	add("m3", "math", "Geometry")
	add("m4", "math", "Geometry")
	add("m5", "math", "Functions")
	add("e1", "english", "Grammar")

	c, err := catalog.Load(strings.NewReader(`{"questions": [` + strings.Join(qs, ",") + `]}`))
	require.NoError(t, err)
	return c
}

type harness struct {
	engine *Engine
	rec    *fakeRecorder
	sched  *clock.ManualScheduler
	clock  *fakeClock
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		rec:   &fakeRecorder{},
		sched: clock.NewManualScheduler(),
		clock: &fakeClock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)},
	}
	h.engine = NewEngine(testCatalog(t), h.rec, WithScheduler(h.sched), WithNow(h.clock.Now))
	return h
}

func (h *harness) startStudy(section catalog.Section, category string) {
	h.engine.Configure(Setup{Mode: ModeStudy, Section: section, Category: category})
	h.engine.Start()
}

func (h *harness) startSimulate(section catalog.Section, extended bool) {
	h.engine.Configure(Setup{
		Mode:         ModeSimulate,
		Variant:      catalog.VariantEnhanced,
		Section:      section,
		Category:     catalog.CategoryAll,
		ExtendedTime: extended,
	})
	h.engine.Start()
}

func assertSubsets(t *testing.T, s Session) {
	t.Helper()
	for id := range s.Answers {
		assert.Contains(t, s.Deck, id, "answer key outside deck")
	}
	for id := range s.Flagged {
		assert.Contains(t, s.Deck, id, "flag outside deck")
	}
	assert.GreaterOrEqual(t, s.RemainingSeconds, 0)
}

func TestStart_UnresolvedSetupIsNoop(t *testing.T) {
	tests := []struct {
		name  string
		setup Setup
	}{
		{"study without section", Setup{Mode: ModeStudy, Category: catalog.CategoryAll}},
		{"study with all sections", Setup{Mode: ModeStudy, Section: catalog.SectionAll, Category: catalog.CategoryAll}},
		{"study without category", Setup{Mode: ModeStudy, Section: catalog.SectionMath}},
		{"simulate without variant", Setup{Mode: ModeSimulate, Section: catalog.SectionMath}},
		{"simulate without section", Setup{Mode: ModeSimulate, Variant: catalog.VariantLegacy}},
		{"no mode", Setup{Section: catalog.SectionMath, Category: catalog.CategoryAll}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.engine.Configure(tt.setup)
			h.engine.Start()
			assert.Equal(t, PhaseSetup, h.engine.Phase())
			assert.Empty(t, h.engine.Snapshot().Deck)
			assert.Equal(t, 0, h.sched.Active())
		})
	}
}

func TestStart_StudyBuildsFilteredDeck(t *testing.T) {
	h := newHarness(t)
	h.startStudy(catalog.SectionMath, "Geometry")

	s := h.engine.Snapshot()
	assert.Equal(t, PhaseActive, s.Phase)
	assert.Equal(t, []string{"m3", "m4"}, s.Deck)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, 0, s.BudgetSeconds)
	assert.Equal(t, 0, h.sched.Active(), "study sessions are untimed")

	q, ok := h.engine.Current()
	require.True(t, ok)
	assert.Equal(t, "m3", q.ID)
}

func TestStudy_WrongAnswerLoggedImmediatelyAndLocked(t *testing.T) {
	h := newHarness(t)
	h.startStudy(catalog.SectionMath, catalog.CategoryAll)

	h.clock.Advance(7 * time.Second)
	h.engine.SelectAnswer("m1", "C")

	require.Len(t, h.rec.answers, 1)
	entry := h.rec.answers[0]
	assert.Equal(t, "m1", entry.QuestionID)
	assert.Equal(t, "C", entry.Chosen)
	assert.False(t, entry.Correct)
	assert.Equal(t, catalog.SectionMath, entry.Section)
	assert.Equal(t, "Algebra", entry.Category)
	assert.Equal(t, int64(7000), entry.ElapsedMs)
	assert.Equal(t, "study", entry.Mode)

	s := h.engine.Snapshot()
	assert.True(t, s.ShowingFeedback)

	h.engine.SelectAnswer("m1", "A")
	assert.Len(t, h.rec.answers, 1, "locked question accepted a second answer")
	assert.Equal(t, "C", h.engine.Snapshot().Answers["m1"])
}

func TestSelectAnswer_IgnoresForeignIDsAndLabels(t *testing.T) {
	h := newHarness(t)
	h.startStudy(catalog.SectionMath, catalog.CategoryAll)

	h.engine.SelectAnswer("e1", "A")
	h.engine.SelectAnswer("nope", "A")
	h.engine.SelectAnswer("m1", "E")
	h.engine.ToggleFlag("e1")

	s := h.engine.Snapshot()
	assert.Empty(t, s.Answers)
	assert.Empty(t, s.Flagged)
	assert.Empty(t, h.rec.answers)
	assertSubsets(t, s)
}

func TestSimulate_AnswersOverwriteWithoutFeedback(t *testing.T) {
	h := newHarness(t)
	h.startSimulate(catalog.SectionMath, false)

	h.engine.SelectAnswer("m1", "B")
	h.engine.SelectAnswer("m1", "A")

	s := h.engine.Snapshot()
	assert.Equal(t, "A", s.Answers["m1"])
	assert.False(t, s.ShowingFeedback)
	assert.Empty(t, h.rec.answers, "simulate answers are not logged individually")
}

func TestSimulate_BudgetFromTimingTable(t *testing.T) {
	h := newHarness(t)
	h.startSimulate(catalog.SectionMath, false)
	s := h.engine.Snapshot()
	assert.Equal(t, 50*60, s.BudgetSeconds)
	assert.Equal(t, s.BudgetSeconds, s.RemainingSeconds)
	assert.Equal(t, 1, h.sched.Active())
}

func TestSimulate_ExtendedTimeBudget(t *testing.T) {
	h := newHarness(t)
	h.startSimulate(catalog.SectionEnglish, true)
	assert.Equal(t, 3150, h.engine.Snapshot().BudgetSeconds)
}

func TestSimulate_TimerExpiryScenario(t *testing.T) {
	h := newHarness(t)
	h.startSimulate(catalog.SectionMath, false)
	require.Len(t, h.engine.Snapshot().Deck, 5)

	h.engine.SelectAnswer("m1", "A")
	h.engine.SelectAnswer("m2", "B")
	h.engine.SelectAnswer("m4", "C")

	var reviews int
	h.engine.Subscribe(func(s Session) {
		if s.Phase == PhaseReview && s.Expired {
			reviews++
		}
	})

	budget := h.engine.Snapshot().BudgetSeconds
	h.sched.Advance(budget - 1)
	s := h.engine.Snapshot()
	assert.Equal(t, PhaseActive, s.Phase)
	assert.Equal(t, 1, s.RemainingSeconds)

	h.sched.Advance(1)
	s = h.engine.Snapshot()
	assert.Equal(t, PhaseReview, s.Phase)
	assert.True(t, s.Expired)
	assert.Equal(t, 0, s.RemainingSeconds)
	assert.Equal(t, 0, h.sched.Active(), "tick task must be cancelled on expiry")

	sum := h.engine.ReviewSummary()
	assert.Len(t, sum.Answered, 3)
	assert.Len(t, sum.Unanswered, 2)
	assert.Equal(t, map[string]string{"m1": "A", "m2": "B", "m4": "C"}, s.Answers)

	h.sched.Advance(10)
	assert.Equal(t, 1, reviews, "exactly one forced transition")
	assert.Equal(t, 0, h.engine.Snapshot().RemainingSeconds)

	h.engine.Revisit(0)
	assert.Equal(t, PhaseReview, h.engine.Phase(), "cannot revisit with no time left")
}

func TestStaleTickIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.startSimulate(catalog.SectionMath, false)
	h.sched.Advance(5)
	stale := h.engine.timer.Epoch()

	h.engine.EndTest()
	remaining := h.engine.Snapshot().RemainingSeconds
	h.engine.tick(stale)
	assert.Equal(t, remaining, h.engine.Snapshot().RemainingSeconds)

	h.engine.Revisit(2)
	h.engine.tick(stale)
	assert.Equal(t, remaining, h.engine.Snapshot().RemainingSeconds)
	h.sched.Advance(1)
	assert.Equal(t, remaining-1, h.engine.Snapshot().RemainingSeconds)
}

func TestEndTestAndRevisit(t *testing.T) {
	h := newHarness(t)
	h.startSimulate(catalog.SectionMath, false)
	h.sched.Advance(10)

	h.engine.EndTest()
	s := h.engine.Snapshot()
	assert.Equal(t, PhaseReview, s.Phase)
	assert.False(t, s.Expired)
	assert.Equal(t, 0, h.sched.Active())

	h.sched.Advance(30)
	assert.Equal(t, s.RemainingSeconds, h.engine.Snapshot().RemainingSeconds, "no ticks in review")

	h.engine.Revisit(99)
	s = h.engine.Snapshot()
	assert.Equal(t, PhaseActive, s.Phase)
	assert.Equal(t, 4, s.Index)
	assert.Equal(t, 1, h.sched.Active())

	h.sched.Advance(2)
	assert.Equal(t, 50*60-12, h.engine.Snapshot().RemainingSeconds)
}

func TestEndTest_StudyIsNoop(t *testing.T) {
	h := newHarness(t)
	h.startStudy(catalog.SectionMath, catalog.CategoryAll)
	h.engine.EndTest()
	assert.Equal(t, PhaseActive, h.engine.Phase())
}

func TestSubmitTwiceRecordsOneMockTest(t *testing.T) {
	h := newHarness(t)
	h.startSimulate(catalog.SectionMath, false)
	h.engine.SelectAnswer("m1", "A")
	h.engine.SelectAnswer("m2", "A")
	h.engine.SelectAnswer("m3", "B")

	h.engine.Submit()
	h.engine.Submit()

	require.Len(t, h.rec.mocks, 1)
	m := h.rec.mocks[0]
	assert.Equal(t, 5, m.Total)
	assert.Equal(t, 2, m.Correct)
	assert.InDelta(t, 40.0, m.Percentage, 1e-9)
	assert.Equal(t, 14, m.Composite)
	assert.Equal(t, catalog.VariantEnhanced, m.Variant)
	assert.Equal(t, catalog.SectionMath, m.Section)
	assert.Equal(t, 0, h.sched.Active())

	res, ok := h.engine.Result()
	require.True(t, ok)
	assert.Equal(t, 3, res.Answered)
	assert.Equal(t, 2, res.Correct)
	assert.Equal(t, []CategoryResult{
		{Section: catalog.SectionMath, Category: "Algebra", Correct: 2, Total: 2},
		{Section: catalog.SectionMath, Category: "Geometry", Correct: 0, Total: 2},
		{Section: catalog.SectionMath, Category: "Functions", Correct: 0, Total: 1},
	}, res.Categories)
}

func TestSubmit_NoopInSetup(t *testing.T) {
	h := newHarness(t)
	h.engine.Submit()
	assert.Equal(t, PhaseSetup, h.engine.Phase())
	assert.Empty(t, h.rec.mocks)
}

func TestNext_StudyFinishesAtEndOfDeck(t *testing.T) {
	h := newHarness(t)
	h.startStudy(catalog.SectionMath, "Algebra")

	h.engine.SelectAnswer("m1", "A")
	h.engine.Next()
	h.clock.Advance(3*time.Minute + 20*time.Second)
	h.engine.SelectAnswer("m2", "D")
	h.engine.Next()

	assert.Equal(t, PhaseResults, h.engine.Phase())
	assert.Len(t, h.rec.answers, 2, "end of deck adds no duplicate entries")
	assert.Empty(t, h.rec.mocks)
	assert.Equal(t, 3, h.rec.minutes)

	res, ok := h.engine.Result()
	require.True(t, ok)
	assert.Equal(t, 1, res.Correct)
	assert.Equal(t, 18, res.Composite)
}

func TestNext_SimulateMovesToReviewAtLastQuestion(t *testing.T) {
	h := newHarness(t)
	h.startSimulate(catalog.SectionMath, false)
	for i := 0; i < 4; i++ {
		h.engine.Next()
	}
	assert.Equal(t, 4, h.engine.Snapshot().Index)
	assert.Equal(t, PhaseActive, h.engine.Phase())

	h.engine.Next()
	assert.Equal(t, PhaseReview, h.engine.Phase())
	assert.Equal(t, 0, h.sched.Active())
}

func TestMove_Clamps(t *testing.T) {
	h := newHarness(t)
	h.startStudy(catalog.SectionMath, catalog.CategoryAll)

	h.engine.Move(-3)
	assert.Equal(t, 0, h.engine.Snapshot().Index)
	h.engine.Move(2)
	assert.Equal(t, 2, h.engine.Snapshot().Index)
	h.engine.GoTo(100)
	assert.Equal(t, 4, h.engine.Snapshot().Index)
	h.engine.GoTo(-1)
	assert.Equal(t, 0, h.engine.Snapshot().Index)

	h.engine.GoTo(1)
	h.engine.Move(math.MaxInt)
	assert.Equal(t, 4, h.engine.Snapshot().Index)
	h.engine.GoTo(1)
	h.engine.Move(math.MinInt)
	assert.Equal(t, 0, h.engine.Snapshot().Index)
}

func TestToggleFlag(t *testing.T) {
	h := newHarness(t)
	h.startSimulate(catalog.SectionMath, false)

	h.engine.ToggleFlag("m2")
	h.engine.ToggleFlag("m5")
	h.engine.ToggleFlag("m2")

	assert.Equal(t, []string{"m5"}, h.engine.ReviewSummary().Flagged)
	assertSubsets(t, h.engine.Snapshot())
}

func TestEmptyDeckIsTerminal(t *testing.T) {
	h := newHarness(t)
	h.startStudy(catalog.SectionScience, catalog.CategoryAll)

	s := h.engine.Snapshot()
	assert.Equal(t, PhaseResults, s.Phase)
	assert.True(t, s.Empty)
	assert.Empty(t, s.Deck)
	assert.Equal(t, 0, h.sched.Active())

	h.engine.Submit()
	assert.Empty(t, h.rec.mocks)
	assert.Zero(t, h.rec.minutes)
}

func TestReset_KeepsSetupAndLeavesOldSnapshotIntact(t *testing.T) {
	h := newHarness(t)
	h.startSimulate(catalog.SectionMath, true)
	h.engine.SelectAnswer("m1", "A")
	h.engine.Submit()

	final := h.engine.Snapshot()
	h.engine.Reset()

	s := h.engine.Snapshot()
	assert.Equal(t, PhaseSetup, s.Phase)
	assert.Empty(t, s.Deck)
	assert.Nil(t, s.Result)
	assert.Equal(t, final.Setup, s.Setup)
	assert.NotEqual(t, final.ID, s.ID)

	assert.Equal(t, PhaseResults, final.Phase)
	assert.Equal(t, "A", final.Answers["m1"])
	require.NotNil(t, final.Result)

	h.engine.Start()
	assert.Equal(t, PhaseActive, h.engine.Phase())
	assert.Len(t, h.rec.mocks, 1)
}

func TestAbandon_CancelsTimerWithoutPersisting(t *testing.T) {
	h := newHarness(t)
	h.startSimulate(catalog.SectionMath, false)
	h.engine.SelectAnswer("m1", "A")
	h.clock.Advance(10 * time.Minute)

	h.engine.Abandon()
	assert.Equal(t, PhaseSetup, h.engine.Phase())
	assert.Equal(t, 0, h.sched.Active())
	assert.Empty(t, h.rec.mocks)
	assert.Zero(t, h.rec.minutes)
}

func TestPersistFailureIsAWarning(t *testing.T) {
	h := newHarness(t)
	h.rec.err = &progress.PersistError{Op: "record mock test", Err: errors.New("disk full")}
	h.startSimulate(catalog.SectionMath, false)
	h.engine.Submit()

	assert.Equal(t, PhaseResults, h.engine.Phase())
	var perr *progress.PersistError
	assert.ErrorAs(t, h.engine.LastWarning(), &perr)
	_, ok := h.engine.Result()
	assert.True(t, ok)
}

func TestPersistWarningClearsOnNextSession(t *testing.T) {
	h := newHarness(t)
	h.rec.err = &progress.PersistError{Op: "record mock test", Err: errors.New("disk full")}
	h.startSimulate(catalog.SectionMath, false)
	h.engine.Submit()
	require.Error(t, h.engine.LastWarning())

	h.rec.err = nil
	h.engine.Reset()
	assert.NoError(t, h.engine.LastWarning())

	h.engine.Start()
	h.engine.Submit()
	assert.Equal(t, PhaseResults, h.engine.Phase())
	assert.Len(t, h.rec.mocks, 2)
	assert.NoError(t, h.engine.LastWarning())
}

func TestPersistWarningLastsUntilNextOperation(t *testing.T) {
	h := newHarness(t)
	h.rec.err = errors.New("disk full")
	h.startStudy(catalog.SectionMath, catalog.CategoryAll)
	h.engine.SelectAnswer("m1", "B")
	require.Error(t, h.engine.LastWarning())

	h.rec.err = nil
	h.engine.Move(1)
	assert.NoError(t, h.engine.LastWarning())
}

func TestSimulate_IgnoresCategory(t *testing.T) {
	h := newHarness(t)
	h.engine.Configure(Setup{
		Mode:     ModeSimulate,
		Variant:  catalog.VariantEnhanced,
		Section:  catalog.SectionMath,
		Category: "Geometry",
	})
	assert.Equal(t, catalog.CategoryAll, h.engine.Snapshot().Setup.Category)
	h.engine.Start()

	s := h.engine.Snapshot()
	assert.Equal(t, []string{"m1", "m2", "m3", "m4", "m5"}, s.Deck)
	assert.Equal(t, catalog.CategoryAll, s.Setup.Category)
}

func TestSubscribe_ReceivesTicks(t *testing.T) {
	h := newHarness(t)
	var remaining []int
	unsubscribe := h.engine.Subscribe(func(s Session) {
		if s.Phase == PhaseActive {
			remaining = append(remaining, s.RemainingSeconds)
		}
	})
	h.startSimulate(catalog.SectionEnglish, false)
	h.sched.Advance(2)
	unsubscribe()
	h.sched.Advance(1)

	assert.Equal(t, []int{2100, 2099, 2098}, remaining)
}

func TestConfigure_OnlyInSetup(t *testing.T) {
	h := newHarness(t)
	h.startStudy(catalog.SectionMath, catalog.CategoryAll)
	h.engine.Configure(Setup{Mode: ModeSimulate, Variant: catalog.VariantLegacy, Section: catalog.SectionAll})
	assert.Equal(t, ModeStudy, h.engine.Snapshot().Setup.Mode)
}
