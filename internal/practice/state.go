// Package practice runs one practice session at a time: untimed study drills
// with immediate feedback, and timed exam simulations with review and submit.
package practice

import (
	"time"

	"github.com/actualize/actualize/internal/catalog"
)

// Mode selects study or simulate behavior.
type Mode string

const (
	ModeStudy    Mode = "study"
	ModeSimulate Mode = "simulate"
)

// Phase is the lifecycle stage of a session.
type Phase int

const (
	PhaseSetup   Phase = iota // Accumulating configuration
	PhaseActive               // Serving questions
	PhaseReview               // Simulate only: summary before submit
	PhaseResults              // Terminal until Reset
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseActive:
		return "active"
	case PhaseReview:
		return "review"
	case PhaseResults:
		return "results"
	default:
		return "unknown"
	}
}

// MarshalText renders the phase by name in JSON.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Setup is the configuration gathered before a session starts.
type Setup struct {
	Mode         Mode            `json:"mode"`
	Variant      catalog.Variant `json:"variant,omitempty"`
	Section      catalog.Section `json:"section,omitempty"`
	Category     string          `json:"category,omitempty"`
	ExtendedTime bool            `json:"extendedTime"`
}

// Ready reports whether the selection is resolved enough to start.
// Study needs a concrete section and a category (or "all");
// simulate needs a variant and a section (or "all").
func (s Setup) Ready() bool {
	switch s.Mode {
	case ModeStudy:
		return s.Section.Valid() && s.Category != ""
	case ModeSimulate:
		return s.Variant.Valid() && (s.Section.Valid() || s.Section == catalog.SectionAll)
	default:
		return false
	}
}

// normalized drops fields the mode ignores. A simulated test always covers
// every category of its section.
func (s Setup) normalized() Setup {
	if s.Mode == ModeSimulate {
		s.Category = catalog.CategoryAll
	}
	return s
}

// Session is a point-in-time copy of the live session. Mutating it has no
// effect on the engine.
type Session struct {
	ID      string            `json:"id,omitempty"`
	Setup   Setup             `json:"setup"`
	Phase   Phase             `json:"phase"`
	Deck    []string          `json:"deck"`
	Index   int               `json:"index"`
	Answers map[string]string `json:"answers"`
	Flagged map[string]bool   `json:"flagged"`

	StartedAt        time.Time `json:"startedAt,omitzero"`
	BudgetSeconds    int       `json:"budgetSeconds"`
	RemainingSeconds int       `json:"remainingSeconds"`

	// ShowingFeedback is true in study mode when the current question has been answered.
	ShowingFeedback bool `json:"showingFeedback"`

	// Empty is set when the filters matched no questions.
	Empty bool `json:"empty"`

	// Expired is set when the countdown forced the move to review.
	Expired bool `json:"expired"`

	Result *Result `json:"result,omitempty"`
}

// Timed reports whether the session runs against the clock.
func (s Session) Timed() bool {
	return s.Setup.Mode == ModeSimulate
}

// CurrentID returns the question ID at the current index.
func (s Session) CurrentID() (string, bool) {
	if s.Index < 0 || s.Index >= len(s.Deck) {
		return "", false
	}
	return s.Deck[s.Index], true
}

// Answered reports whether id has a recorded answer.
func (s Session) Answered(id string) bool {
	_, ok := s.Answers[id]
	return ok
}

func (s *Session) clone() Session {
	out := *s
	out.Deck = append([]string(nil), s.Deck...)
	out.Answers = make(map[string]string, len(s.Answers))
	for k, v := range s.Answers {
		out.Answers[k] = v
	}
	out.Flagged = make(map[string]bool, len(s.Flagged))
	for k, v := range s.Flagged {
		out.Flagged[k] = v
	}
	if s.Result != nil {
		r := *s.Result
		r.Categories = append([]CategoryResult(nil), s.Result.Categories...)
		out.Result = &r
	}
	return out
}

func (s *Session) inDeck(id string) bool {
	for _, d := range s.Deck {
		if d == id {
			return true
		}
	}
	return false
}

func newSession(setup Setup) *Session {
	return &Session{
		Setup:   setup,
		Phase:   PhaseSetup,
		Answers: make(map[string]string),
		Flagged: make(map[string]bool),
	}
}
