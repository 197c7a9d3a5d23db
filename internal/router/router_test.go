package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/actualize/actualize/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
	inits   int
	msgs    []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	s.inits++
	return nil
}
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.msgs = append(s.msgs, msg)
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

func TestPush(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPop(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "first" {
		t.Errorf("expected active 'first', got %q", r.Active().Title())
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
}

func TestReplace(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Replace(s2)

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after replace, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on replaced screen")
	}
}

func TestReplaceScreenMsg(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Update(ReplaceScreenMsg{Screen: s2})

	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run via ReplaceScreenMsg")
	}
}

func TestReplacePreservesStackDepth(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	s3 := &stubScreen{title: "third"}
	r.Replace(s3)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "third" {
		t.Errorf("expected active 'third', got %q", r.Active().Title())
	}
}

// closingScreen records Close calls.
type closingScreen struct {
	stubScreen
	closed int
}

func (s *closingScreen) Close() { s.closed++ }

func TestPopClosesScreen(t *testing.T) {
	r := New(&stubScreen{title: "root"})
	c := &closingScreen{stubScreen: stubScreen{title: "practice"}}
	r.Push(c)

	r.Update(PopScreenMsg{})

	if c.closed != 1 {
		t.Errorf("expected Close once, got %d", c.closed)
	}
}

func TestPopReinitsUncoveredScreen(t *testing.T) {
	root := &stubScreen{title: "root"}
	r := New(root)
	r.Push(&stubScreen{title: "second"})
	r.Pop()

	if root.inits != 1 {
		t.Errorf("expected root Init once after pop, got %d", root.inits)
	}
}

func TestPopToRoot(t *testing.T) {
	root := &stubScreen{title: "root"}
	r := New(root)
	a := &closingScreen{stubScreen: stubScreen{title: "a"}}
	b := &closingScreen{stubScreen: stubScreen{title: "b"}}
	r.Push(a)
	r.Push(b)

	r.Update(PopToRootMsg{})

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "root" {
		t.Errorf("expected root active, got %q", r.Active().Title())
	}
	if a.closed != 1 || b.closed != 1 {
		t.Errorf("expected both screens closed, got a=%d b=%d", a.closed, b.closed)
	}
}

func TestReplaceClosesReplaced(t *testing.T) {
	r := New(&stubScreen{title: "root"})
	c := &closingScreen{stubScreen: stubScreen{title: "practice"}}
	r.Push(c)
	r.Replace(&stubScreen{title: "next"})

	if c.closed != 1 {
		t.Errorf("expected replaced screen closed, got %d", c.closed)
	}
}

func TestProgressMsgReachesEveryScreen(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	s2 := &stubScreen{title: "second"}
	r := New(s1)
	r.Push(s2)

	r.Update(screen.ProgressMsg{})
	if len(s1.msgs) != 1 || len(s2.msgs) != 1 {
		t.Errorf("expected both screens updated, got %d and %d", len(s1.msgs), len(s2.msgs))
	}

	r.Update(screen.SessionMsg{})
	if len(s1.msgs) != 1 {
		t.Error("other messages should only reach the active screen")
	}
	if len(s2.msgs) != 2 {
		t.Errorf("expected active screen to get the session message, got %d", len(s2.msgs))
	}
}
