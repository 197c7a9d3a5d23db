package app

import (
	"context"
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/actualize/actualize/internal/practice"
	"github.com/actualize/actualize/internal/progress"
	"github.com/actualize/actualize/internal/screen"
	"github.com/actualize/actualize/internal/screens/home"
)

// latest holds the newest value published to it. Put never blocks, so it is
// safe to call from a subscriber running inside the program's Update.
type latest[T any] struct {
	mu      sync.Mutex
	value   T
	pending bool
	wake    chan struct{}
}

func newLatest[T any]() *latest[T] {
	return &latest[T]{wake: make(chan struct{}, 1)}
}

// Put replaces any value not yet taken.
func (l *latest[T]) Put(v T) {
	l.mu.Lock()
	l.value = v
	l.pending = true
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Take returns the pending value, if any, and clears it.
func (l *latest[T]) Take() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.value, l.pending
	var zero T
	l.value = zero
	l.pending = false
	return v, ok
}

// run hands each pending value to send until ctx is done.
func (l *latest[T]) run(ctx context.Context, send func(T)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.wake:
		}
		if v, ok := l.Take(); ok {
			send(v)
		}
	}
}

// forwardUpdates subscribes to the engine and the store and delivers their
// changes to send as screen messages. Bursts collapse to the newest value.
// The returned stop unsubscribes; the forwarding goroutines exit with ctx.
func forwardUpdates(ctx context.Context, svc home.Services, send func(tea.Msg)) (stop func()) {
	sessions := newLatest[practice.Session]()
	states := newLatest[progress.State]()

	var unsubs []func()
	if svc.Engine != nil {
		unsubs = append(unsubs, svc.Engine.Subscribe(sessions.Put))
		go sessions.run(ctx, func(s practice.Session) { send(screen.SessionMsg{Session: s}) })
	}
	if svc.Progress != nil {
		unsubs = append(unsubs, svc.Progress.Subscribe(states.Put))
		go states.run(ctx, func(st progress.State) { send(screen.ProgressMsg{State: st}) })
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}
