package clock

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler runs a function periodically until cancelled.
type Scheduler interface {
	Every(d time.Duration, fn func()) (cancel func())
}

// TickerScheduler runs tasks on real time.Tickers, one goroutine per task.
type TickerScheduler struct{}

// NewTickerScheduler returns a Scheduler backed by the wall clock.
func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{}
}

// Every starts fn every d. Once cancel returns, no new invocation of fn
// starts; an invocation already past its check may still finish, so fn
// must tolerate running after cancellation.
func (s *TickerScheduler) Every(d time.Duration, fn func()) func() {
	var stopped atomic.Bool
	done := make(chan struct{})
	ticker := time.NewTicker(d)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if stopped.Load() {
					return
				}
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			stopped.Store(true)
			close(done)
		})
	}
}

// ManualScheduler fires tasks only when Advance is called.
type ManualScheduler struct {
	mu     sync.Mutex
	nextID int
	tasks  map[int]func()
}

// NewManualScheduler returns an empty ManualScheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{tasks: make(map[int]func())}
}

func (s *ManualScheduler) Every(_ time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.tasks[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.tasks, id)
	}
}

// Advance fires every live task n times, in registration order.
// A task cancelled during Advance is not fired again.
func (s *ManualScheduler) Advance(n int) {
	for i := 0; i < n; i++ {
		for _, id := range s.liveIDs() {
			s.mu.Lock()
			fn, ok := s.tasks[id]
			s.mu.Unlock()
			if ok {
				fn()
			}
		}
	}
}

// Active returns the number of live tasks.
func (s *ManualScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *ManualScheduler) liveIDs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
