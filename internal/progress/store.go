package progress

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/actualize/actualize/internal/catalog"
)

// PersistError reports that a mutation was applied in memory but could not be saved.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Store owns the in-memory State and writes it through to a Repo after each change.
// The in-memory state stays authoritative when a save fails.
type Store struct {
	mu           sync.Mutex
	repo         Repo
	state        State
	subs         map[int]func(State)
	nextSub      int
	totalLessons int
	now          func() time.Time
	logger       *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithTotalLessons overrides the plan size used by OverallProgress.
func WithTotalLessons(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.totalLessons = n
		}
	}
}

// WithNow overrides the time source.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore returns a Store holding the default state. Call Load to read persisted data.
func NewStore(repo Repo, opts ...Option) *Store {
	s := &Store{
		repo:         repo,
		state:        DefaultState(),
		subs:         make(map[int]func(State)),
		totalLessons: catalog.TotalLessons,
		now:          time.Now,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory state with the persisted one, or defaults if none exists.
func (s *Store) Load(ctx context.Context) error {
	st, ok, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	if !ok {
		st = DefaultState()
	}

	s.mu.Lock()
	s.state = st.Clone()
	snap, subs := s.snapshotLocked()
	s.mu.Unlock()

	notify(subs, snap)
	return nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn to be called with the new state after every change.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// CompleteLesson marks a lesson complete.
func (s *Store) CompleteLesson(ctx context.Context, lessonID string) error {
	return s.update(ctx, "complete lesson", func(st State) State {
		st.Progress = CompleteLesson(st.Progress, lessonID)
		return st
	})
}

// RecordAnswer appends an answer log entry.
func (s *Store) RecordAnswer(ctx context.Context, e AnswerLogEntry) error {
	return s.update(ctx, "record answer", func(st State) State {
		st.Progress = AppendAnswer(st.Progress, e)
		return st
	})
}

// RecordMockTest appends a mock test result.
func (s *Store) RecordMockTest(ctx context.Context, r MockTestResult) error {
	return s.update(ctx, "record mock test", func(st State) State {
		st.Progress = AppendMockTest(st.Progress, r)
		return st
	})
}

// ReviewFlashcard logs whether the student knew a card.
func (s *Store) ReviewFlashcard(ctx context.Context, cardID string, known bool) error {
	r := FlashcardReview{CardID: cardID, Known: known, Timestamp: s.now()}
	return s.update(ctx, "review flashcard", func(st State) State {
		st.Progress = AppendFlashcardReview(st.Progress, r)
		return st
	})
}

// AddStudyMinutes adds to the total study time.
func (s *Store) AddStudyMinutes(ctx context.Context, minutes int) error {
	if minutes <= 0 {
		return nil
	}
	return s.update(ctx, "add study time", func(st State) State {
		st.Progress = AddStudyMinutes(st.Progress, minutes)
		return st
	})
}

// UpdateSettings changes the named settings.
func (s *Store) UpdateSettings(ctx context.Context, u SettingsUpdate) error {
	return s.update(ctx, "update settings", func(st State) State {
		st.User = ApplySettings(st.User, u)
		return st
	})
}

// UpdateProfile changes the named profile fields.
func (s *Store) UpdateProfile(ctx context.Context, u ProfileUpdate) error {
	return s.update(ctx, "update profile", func(st State) State {
		st.User = ApplyProfile(st.User, u)
		return st
	})
}

// Reset discards all progress and the profile.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.state = DefaultState()
	err := s.repo.Clear(ctx)
	snap, subs := s.snapshotLocked()
	s.mu.Unlock()

	notify(subs, snap)
	return s.warn("reset", err)
}

// TotalLessons returns the plan size used for overall progress.
func (s *Store) TotalLessons() int { return s.totalLessons }

// OverallProgress returns the percent of lessons completed.
func (s *Store) OverallProgress() int {
	return OverallProgress(s.Snapshot().Progress, s.totalLessons)
}

// ScoreBySection returns the rounded accuracy for a section.
func (s *Store) ScoreBySection(section catalog.Section) (int, bool) {
	return ScoreBySection(s.Snapshot().Progress, section)
}

// EstimatedScore returns the latest mock test composite.
func (s *Store) EstimatedScore() (int, bool) {
	return EstimatedScore(s.Snapshot().Progress)
}

// CategoryPerformance returns per-category accuracy.
func (s *Store) CategoryPerformance() []CategoryStat {
	return CategoryPerformance(s.Snapshot().Progress)
}

// SectionBreakdown returns per-section accuracy.
func (s *Store) SectionBreakdown() []SectionStat {
	return SectionBreakdown(s.Snapshot().Progress)
}

// StudyMinutes returns the accumulated study time.
func (s *Store) StudyMinutes() int {
	return s.Snapshot().Progress.TotalStudyMinutes
}

func (s *Store) update(ctx context.Context, op string, fn func(State) State) error {
	s.mu.Lock()
	s.state = fn(s.state)
	err := s.repo.Save(ctx, s.state.Clone())
	snap, subs := s.snapshotLocked()
	s.mu.Unlock()

	notify(subs, snap)
	return s.warn(op, err)
}

func (s *Store) warn(op string, err error) error {
	if err == nil {
		return nil
	}
	s.logger.Warn("progress not persisted", zap.String("op", op), zap.Error(err))
	return &PersistError{Op: op, Err: err}
}

func (s *Store) snapshotLocked() (State, []func(State)) {
	subs := make([]func(State), 0, len(s.subs))
	for i := 0; i < s.nextSub; i++ {
		if fn, ok := s.subs[i]; ok {
			subs = append(subs, fn)
		}
	}
	return s.state.Clone(), subs
}

func notify(subs []func(State), st State) {
	for _, fn := range subs {
		fn(st.Clone())
	}
}
