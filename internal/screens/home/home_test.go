package home

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/actualize/actualize/internal/catalog"
	"github.com/actualize/actualize/internal/clock"
	"github.com/actualize/actualize/internal/practice"
	"github.com/actualize/actualize/internal/progress"
	"github.com/actualize/actualize/internal/router"
	"github.com/actualize/actualize/internal/screen"
	"github.com/actualize/actualize/internal/ui/theme"
)

type memRepo struct{ state progress.State }

func (m *memRepo) Load(context.Context) (progress.State, bool, error) { return m.state, false, nil }
func (m *memRepo) Save(_ context.Context, st progress.State) error    { m.state = st; return nil }
func (m *memRepo) Clear(context.Context) error                        { return nil }

func testHome(t *testing.T) (*HomeScreen, *progress.Store) {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	store := progress.NewStore(&memRepo{})
	engine := practice.NewEngine(cat, store, practice.WithScheduler(clock.NewManualScheduler()))
	now := func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }
	return New(Services{Catalog: cat, Progress: store, Engine: engine, Now: now}), store
}

func TestHome_Title(t *testing.T) {
	h, _ := testHome(t)
	if h.Title() != "Home" {
		t.Errorf("Title = %q", h.Title())
	}
}

func TestHome_StatsFollowProgressMsg(t *testing.T) {
	h, store := testHome(t)
	ctx := context.Background()

	store.CompleteLesson(ctx, "w1d1")
	store.RecordMockTest(ctx, progress.MockTestResult{Composite: 29})
	testDate := time.Date(2026, 6, 13, 8, 0, 0, 0, time.UTC)
	store.UpdateProfile(ctx, progress.ProfileUpdate{TestDate: &testDate})

	if strings.Contains(h.View(100, 40), "Estimated 29") {
		t.Fatal("stats should only change on a progress message")
	}
	h.Update(screen.ProgressMsg{State: store.Snapshot()})
	view := h.View(100, 40)
	for _, want := range []string{"Estimated 29", "43 days to test", "Study plan", "1/56 done", "1 mock test"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHome_PracticePushesScreen(t *testing.T) {
	h, _ := testHome(t)
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if msg.Screen.Title() != "Practice" {
		t.Errorf("pushed %q, want Practice", msg.Screen.Title())
	}
}

func TestHome_ToggleDarkMode(t *testing.T) {
	t.Cleanup(func() { theme.Apply(true) })
	h, store := testHome(t)

	h.toggleDarkMode()
	if !store.Snapshot().User.Settings.DarkMode {
		t.Error("expected dark mode saved")
	}
	if !theme.IsDark() {
		t.Error("expected dark theme applied")
	}

	h.toggleDarkMode()
	if store.Snapshot().User.Settings.DarkMode || theme.IsDark() {
		t.Error("expected light mode after second toggle")
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, 5, 1, 23, 0, 0, 0, time.UTC)
	if got := daysUntil(now, time.Date(2026, 5, 2, 1, 0, 0, 0, time.UTC)); got != 1 {
		t.Errorf("daysUntil = %d, want 1", got)
	}
	if got := daysUntil(now, time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)); got != -1 {
		t.Errorf("daysUntil = %d, want -1", got)
	}
}
