// Package progress holds the student's persistent record: profile, settings,
// completed lessons, answer log, mock test results and flashcard reviews.
package progress

import (
	"time"

	"github.com/actualize/actualize/internal/catalog"
)

// Defaults for a first run.
const (
	DefaultName        = "Student"
	DefaultTargetScore = 32
)

// Settings are user-facing preferences.
type Settings struct {
	ExtendedTime bool `json:"extendedTime"`
	DarkMode     bool `json:"darkMode"`
}

// Profile is the student's identity and preferences.
type Profile struct {
	Name        string     `json:"name"`
	TargetScore int        `json:"targetScore"`
	TestDate    *time.Time `json:"testDate,omitempty"`
	Settings    Settings   `json:"settings"`
}

// AnswerLogEntry records one judged answer.
type AnswerLogEntry struct {
	QuestionID string          `json:"questionId"`
	Section    catalog.Section `json:"section"`
	Category   string          `json:"category"`
	Chosen     string          `json:"chosen"`
	Correct    bool            `json:"correct"`
	ElapsedMs  int64           `json:"timeSpent"`
	Timestamp  time.Time       `json:"timestamp"`
	Mode       string          `json:"mode"`
}

// MockTestResult summarizes one submitted simulated exam.
type MockTestResult struct {
	Date         time.Time       `json:"date"`
	Variant      catalog.Variant `json:"variant"`
	Section      catalog.Section `json:"section"`
	Total        int             `json:"total"`
	Correct      int             `json:"correct"`
	Percentage   float64         `json:"percentage"`
	Composite    int             `json:"composite"`
	ExtendedTime bool            `json:"extendedTime"`
}

// FlashcardReview records whether the student knew a card.
type FlashcardReview struct {
	CardID    string    `json:"cardId"`
	Known     bool      `json:"known"`
	Timestamp time.Time `json:"timestamp"`
}

// Aggregate is the progress record. It is replaced as a whole on every change.
type Aggregate struct {
	CompletedLessons  []string          `json:"completedLessons"`
	AnswerLog         []AnswerLogEntry  `json:"questionsAnswered"`
	MockTests         []MockTestResult  `json:"mockTestScores"`
	FlashcardReviews  []FlashcardReview `json:"flashcardsReviewed"`
	TotalStudyMinutes int               `json:"totalStudyTime"`
}

// State is everything persisted for one user.
type State struct {
	User     Profile   `json:"user"`
	Progress Aggregate `json:"progress"`
}

// DefaultState returns the state used when nothing has been stored yet.
func DefaultState() State {
	return State{
		User: Profile{
			Name:        DefaultName,
			TargetScore: DefaultTargetScore,
		},
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	if s.User.TestDate != nil {
		d := *s.User.TestDate
		out.User.TestDate = &d
	}
	out.Progress = s.Progress.Clone()
	return out
}

// Clone returns a deep copy of a.
func (a Aggregate) Clone() Aggregate {
	return Aggregate{
		CompletedLessons:  cloneSlice(a.CompletedLessons),
		AnswerLog:         cloneSlice(a.AnswerLog),
		MockTests:         cloneSlice(a.MockTests),
		FlashcardReviews:  cloneSlice(a.FlashcardReviews),
		TotalStudyMinutes: a.TotalStudyMinutes,
	}
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// HasCompleted reports whether the lesson is in the completed set.
func (a Aggregate) HasCompleted(lessonID string) bool {
	for _, id := range a.CompletedLessons {
		if id == lessonID {
			return true
		}
	}
	return false
}
