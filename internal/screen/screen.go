package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/actualize/actualize/internal/practice"
	"github.com/actualize/actualize/internal/progress"
	"github.com/actualize/actualize/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Closer is implemented by screens that hold resources which must be
// released when they leave the stack.
type Closer interface {
	Close()
}

// SessionMsg carries the practice session after an engine change, countdown
// ticks included.
type SessionMsg struct {
	Session practice.Session
}

// ProgressMsg carries the progress state after a store change. The router
// delivers it to every screen on the stack.
type ProgressMsg struct {
	State progress.State
}
