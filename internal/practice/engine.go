package practice

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/actualize/actualize/internal/catalog"
	"github.com/actualize/actualize/internal/clock"
	"github.com/actualize/actualize/internal/progress"
	"github.com/actualize/actualize/internal/scoring"
)

// QuestionSource supplies the questions a deck is built from.
type QuestionSource interface {
	FilterQuestions(section catalog.Section, category string) []catalog.Question
}

// Recorder persists session outcomes. *progress.Store implements it.
type Recorder interface {
	RecordAnswer(ctx context.Context, e progress.AnswerLogEntry) error
	RecordMockTest(ctx context.Context, r progress.MockTestResult) error
	AddStudyMinutes(ctx context.Context, minutes int) error
}

// TickInterval is how often a timed session's countdown advances.
const TickInterval = time.Second

// Engine owns the single live session. All operations and clock ticks are
// serialized behind one mutex. Operations that do not apply in the current
// phase are silent no-ops; callers inspect the resulting Phase.
type Engine struct {
	mu        sync.Mutex
	source    QuestionSource
	recorder  Recorder
	scheduler clock.Scheduler
	now       func() time.Time
	logger    *zap.Logger
	ctx       context.Context

	session   *Session
	questions map[string]catalog.Question
	timer     clock.Timer
	cancel    func()
	shownAt   time.Time

	subs    map[int]func(Session)
	nextSub int

	lastWarning error
}

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler sets the scheduler driving the countdown.
func WithScheduler(s clock.Scheduler) Option {
	return func(e *Engine) { e.scheduler = s }
}

// WithNow sets the time source.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithContext sets the context passed to the recorder.
func WithContext(ctx context.Context) Option {
	return func(e *Engine) { e.ctx = ctx }
}

// NewEngine returns an Engine with a fresh session in setup.
func NewEngine(source QuestionSource, recorder Recorder, opts ...Option) *Engine {
	e := &Engine{
		source:    source,
		recorder:  recorder,
		scheduler: clock.NewTickerScheduler(),
		now:       time.Now,
		logger:    zap.NewNop(),
		ctx:       context.Background(),
		session:   newSession(Setup{Mode: ModeStudy, Variant: catalog.VariantEnhanced}),
		subs:      make(map[int]func(Session)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Configure replaces the setup. Only applies in setup.
func (e *Engine) Configure(s Setup) {
	e.act(func() bool {
		if e.session.Phase != PhaseSetup {
			return false
		}
		e.session.Setup = s.normalized()
		return true
	})
}

// Start materializes the deck and enters active. It is a no-op unless the
// session is in setup with a resolved selection. A filter matching no
// questions ends the session immediately with Empty set.
func (e *Engine) Start() {
	e.act(func() bool {
		s := e.session
		if s.Phase != PhaseSetup || !s.Setup.Ready() {
			return false
		}
		s.Setup = s.Setup.normalized()

		qs := e.source.FilterQuestions(s.Setup.Section, s.Setup.Category)
		e.questions = make(map[string]catalog.Question, len(qs))
		s.Deck = make([]string, 0, len(qs))
		for _, q := range qs {
			if _, dup := e.questions[q.ID]; dup {
				continue
			}
			e.questions[q.ID] = q
			s.Deck = append(s.Deck, q.ID)
		}
		s.ID = uuid.NewString()
		s.Index = 0
		s.Answers = make(map[string]string)
		s.Flagged = make(map[string]bool)
		s.StartedAt = e.now()
		e.shownAt = s.StartedAt

		if len(s.Deck) == 0 {
			s.Empty = true
			s.Phase = PhaseResults
			s.Result = &Result{}
			e.logger.Info("session has no questions",
				zap.String("section", string(s.Setup.Section)),
				zap.String("category", s.Setup.Category))
			return true
		}

		s.Phase = PhaseActive
		if s.Timed() {
			base := catalog.BaseMinutes(s.Setup.Variant, s.Setup.Section)
			s.BudgetSeconds = clock.BudgetSeconds(base, s.Setup.ExtendedTime)
			s.RemainingSeconds = s.BudgetSeconds
			e.startTickingLocked()
		}
		e.logger.Debug("session started",
			zap.String("session_id", s.ID),
			zap.String("mode", string(s.Setup.Mode)),
			zap.Int("questions", len(s.Deck)),
			zap.Int("budget_seconds", s.BudgetSeconds))
		return true
	})
}

// SelectAnswer records label for question id. IDs outside the deck and labels
// that are not among the question's options are ignored. Study answers are
// judged and logged immediately and then locked; simulate answers may be
// overwritten until submit.
func (e *Engine) SelectAnswer(id, label string) {
	e.act(func() bool {
		s := e.session
		if s.Phase != PhaseActive || !s.inDeck(id) {
			return false
		}
		q, ok := e.questions[id]
		if !ok || !q.HasOption(label) {
			return false
		}

		if s.Setup.Mode == ModeSimulate {
			if s.Answers[id] == label {
				return false
			}
			s.Answers[id] = label
			return true
		}

		if s.Answered(id) {
			return false
		}
		s.Answers[id] = label
		now := e.now()
		entry := progress.AnswerLogEntry{
			QuestionID: id,
			Section:    q.Section,
			Category:   q.Category,
			Chosen:     label,
			Correct:    scoring.Judge(q, label),
			ElapsedMs:  now.Sub(e.shownAt).Milliseconds(),
			Timestamp:  now,
			Mode:       string(ModeStudy),
		}
		e.warnLocked("record answer", e.recorder.RecordAnswer(e.ctx, entry))
		return true
	})
}

// ToggleFlag marks or unmarks a deck question for later review.
func (e *Engine) ToggleFlag(id string) {
	e.act(func() bool {
		s := e.session
		if s.Phase != PhaseActive || !s.inDeck(id) {
			return false
		}
		if s.Flagged[id] {
			delete(s.Flagged, id)
		} else {
			s.Flagged[id] = true
		}
		return true
	})
}

// Move shifts the current index by delta, clamped to the deck.
func (e *Engine) Move(delta int) {
	e.act(func() bool {
		n := len(e.session.Deck)
		delta = max(-n, min(n, delta))
		return e.goToLocked(e.session.Index + delta)
	})
}

// GoTo jumps to index, clamped to the deck.
func (e *Engine) GoTo(index int) {
	e.act(func() bool {
		return e.goToLocked(index)
	})
}

// Next advances one question. At the last question a study session finishes
// and a simulate session moves to review.
func (e *Engine) Next() {
	e.act(func() bool {
		s := e.session
		if s.Phase != PhaseActive {
			return false
		}
		if s.Index < len(s.Deck)-1 {
			return e.goToLocked(s.Index + 1)
		}
		if s.Setup.Mode == ModeStudy {
			e.finishLocked()
		} else {
			e.toReviewLocked(false)
		}
		return true
	})
}

// EndTest moves a simulate session from active to review.
func (e *Engine) EndTest() {
	e.act(func() bool {
		s := e.session
		if s.Phase != PhaseActive || s.Setup.Mode != ModeSimulate {
			return false
		}
		e.toReviewLocked(false)
		return true
	})
}

// Revisit returns from review to active at index while time remains.
func (e *Engine) Revisit(index int) {
	e.act(func() bool {
		s := e.session
		if s.Phase != PhaseReview || s.RemainingSeconds <= 0 {
			return false
		}
		s.Phase = PhaseActive
		s.Index = clamp(index, len(s.Deck))
		e.shownAt = e.now()
		e.startTickingLocked()
		return true
	})
}

// Submit scores the session and enters results. A simulate session records
// one mock test result. Submitting in setup or results is a no-op.
func (e *Engine) Submit() {
	e.act(func() bool {
		switch e.session.Phase {
		case PhaseActive, PhaseReview:
			e.finishLocked()
			return true
		default:
			return false
		}
	})
}

// Reset discards the current session and starts a new one in setup,
// keeping the last configuration. Nothing is persisted.
func (e *Engine) Reset() {
	e.act(func() bool {
		e.resetLocked()
		return true
	})
}

// Abandon is Reset for navigation away from an unfinished session.
func (e *Engine) Abandon() {
	e.act(func() bool {
		s := e.session
		if s.Phase == PhaseActive || s.Phase == PhaseReview {
			e.logger.Debug("session abandoned",
				zap.String("session_id", s.ID),
				zap.Int("answered", len(s.Answers)))
		}
		e.resetLocked()
		return true
	})
}

// Snapshot returns a copy of the live session.
func (e *Engine) Snapshot() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Phase returns the live session's phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Phase
}

// Current returns the question at the current index.
func (e *Engine) Current() (catalog.Question, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, ok := e.session.CurrentID()
	if !ok {
		return catalog.Question{}, false
	}
	q, ok := e.questions[id]
	return q, ok
}

// Question returns a question in the live deck.
func (e *Engine) Question(id string) (catalog.Question, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	q, ok := e.questions[id]
	return q, ok
}

// ReviewSummary classifies the deck by answer and flag status.
func (e *Engine) ReviewSummary() ReviewSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return BuildReviewSummary(*e.session)
}

// Result returns the outcome once the session is in results.
func (e *Engine) Result() (Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session.Phase != PhaseResults || e.session.Result == nil {
		return Result{}, false
	}
	return *e.session.snapshotResult(), true
}

// LastWarning returns the persistence failure raised by the most recent
// operation, or nil.
func (e *Engine) LastWarning() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastWarning
}

// Subscribe registers fn to receive a snapshot after every change, including ticks.
func (e *Engine) Subscribe(fn func(Session)) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

func (e *Engine) tick(epoch clock.Epoch) {
	e.apply(func() bool {
		if e.session.Phase != PhaseActive {
			return false
		}
		res := e.timer.Tick(epoch)
		if !res.Applied {
			return false
		}
		e.session.RemainingSeconds = res.Remaining
		if res.Expired {
			e.toReviewLocked(true)
		}
		return true
	})
}

// act is apply for caller-driven operations. The last warning only
// describes the operation that raised it.
func (e *Engine) act(fn func() bool) {
	e.apply(func() bool {
		e.lastWarning = nil
		return fn()
	})
}

// apply runs fn under the lock and, if it reports a change, notifies subscribers
// after the lock is released.
func (e *Engine) apply(fn func() bool) {
	e.mu.Lock()
	if !fn() {
		e.mu.Unlock()
		return
	}
	snap := e.snapshotLocked()
	subs := make([]func(Session), 0, len(e.subs))
	for i := 0; i < e.nextSub; i++ {
		if sub, ok := e.subs[i]; ok {
			subs = append(subs, sub)
		}
	}
	e.mu.Unlock()

	for _, sub := range subs {
		sub(snap.clone())
	}
}

func (e *Engine) snapshotLocked() Session {
	snap := e.session.clone()
	if snap.Setup.Mode == ModeStudy && snap.Phase == PhaseActive {
		if id, ok := snap.CurrentID(); ok {
			snap.ShowingFeedback = snap.Answered(id)
		}
	}
	return snap
}

func (e *Engine) goToLocked(index int) bool {
	s := e.session
	if s.Phase != PhaseActive {
		return false
	}
	next := clamp(index, len(s.Deck))
	if next == s.Index {
		return false
	}
	s.Index = next
	e.shownAt = e.now()
	return true
}

func (e *Engine) toReviewLocked(expired bool) {
	e.stopTickingLocked()
	e.session.Phase = PhaseReview
	if expired {
		e.session.Expired = true
		e.logger.Info("time expired", zap.String("session_id", e.session.ID))
	}
}

func (e *Engine) finishLocked() {
	e.stopTickingLocked()
	s := e.session
	now := e.now()
	elapsed := now.Sub(s.StartedAt)

	s.Result = BuildResult(*s, e.lookup, elapsed)
	s.Phase = PhaseResults

	if s.Setup.Mode == ModeSimulate {
		e.warnLocked("record mock test", e.recorder.RecordMockTest(e.ctx, progress.MockTestResult{
			Date:         now,
			Variant:      s.Setup.Variant,
			Section:      s.Setup.Section,
			Total:        s.Result.Total,
			Correct:      s.Result.Correct,
			Percentage:   s.Result.Percentage,
			Composite:    s.Result.Composite,
			ExtendedTime: s.Setup.ExtendedTime,
		}))
	}
	if minutes := int(elapsed / time.Minute); minutes > 0 {
		e.warnLocked("add study time", e.recorder.AddStudyMinutes(e.ctx, minutes))
	}
	e.logger.Debug("session finished",
		zap.String("session_id", s.ID),
		zap.Int("correct", s.Result.Correct),
		zap.Int("total", s.Result.Total))
}

func (e *Engine) resetLocked() {
	e.stopTickingLocked()
	e.session = newSession(e.session.Setup)
	e.questions = nil
	e.lastWarning = nil
}

func (e *Engine) startTickingLocked() {
	e.stopTickingLocked()
	epoch := e.timer.Start(e.session.RemainingSeconds)
	e.cancel = e.scheduler.Every(TickInterval, func() { e.tick(epoch) })
}

func (e *Engine) stopTickingLocked() {
	e.timer.Stop()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

func (e *Engine) warnLocked(op string, err error) {
	if err == nil {
		return
	}
	e.lastWarning = err
	e.logger.Warn("session outcome not persisted", zap.String("op", op), zap.Error(err))
}

func (e *Engine) lookup(id string) (catalog.Question, bool) {
	q, ok := e.questions[id]
	return q, ok
}

func (s *Session) snapshotResult() *Result {
	c := s.clone()
	return c.Result
}

func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
