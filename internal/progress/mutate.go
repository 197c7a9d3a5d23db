package progress

import "time"

// SettingsUpdate names the settings fields a caller may change. Nil fields are left alone.
type SettingsUpdate struct {
	ExtendedTime *bool `json:"extendedTime,omitempty"`
	DarkMode     *bool `json:"darkMode,omitempty"`
}

// ProfileUpdate names the profile fields a caller may change. Nil fields are left alone.
type ProfileUpdate struct {
	Name          *string    `json:"name,omitempty" validate:"omitempty,min=1,max=64"`
	TargetScore   *int       `json:"targetScore,omitempty" validate:"omitempty,min=1,max=36"`
	TestDate      *time.Time `json:"testDate,omitempty"`
	ClearTestDate bool       `json:"clearTestDate,omitempty"`
}

// The functions below never modify the backing arrays of their input.

// CompleteLesson adds a lesson to the completed set. Completing twice is a no-op.
func CompleteLesson(a Aggregate, lessonID string) Aggregate {
	if lessonID == "" || a.HasCompleted(lessonID) {
		return a
	}
	out := a
	out.CompletedLessons = appendCopy(a.CompletedLessons, lessonID)
	return out
}

// AppendAnswer adds an entry to the answer log.
func AppendAnswer(a Aggregate, e AnswerLogEntry) Aggregate {
	out := a
	out.AnswerLog = appendCopy(a.AnswerLog, e)
	return out
}

// AppendMockTest adds a mock test result.
func AppendMockTest(a Aggregate, r MockTestResult) Aggregate {
	out := a
	out.MockTests = appendCopy(a.MockTests, r)
	return out
}

// AppendFlashcardReview adds a flashcard review.
func AppendFlashcardReview(a Aggregate, r FlashcardReview) Aggregate {
	out := a
	out.FlashcardReviews = appendCopy(a.FlashcardReviews, r)
	return out
}

// AddStudyMinutes increases total study time. Non-positive values are ignored.
func AddStudyMinutes(a Aggregate, minutes int) Aggregate {
	if minutes <= 0 {
		return a
	}
	out := a
	out.TotalStudyMinutes += minutes
	return out
}

// ApplySettings returns p with the update applied.
func ApplySettings(p Profile, u SettingsUpdate) Profile {
	if u.ExtendedTime != nil {
		p.Settings.ExtendedTime = *u.ExtendedTime
	}
	if u.DarkMode != nil {
		p.Settings.DarkMode = *u.DarkMode
	}
	return p
}

// ApplyProfile returns p with the update applied.
func ApplyProfile(p Profile, u ProfileUpdate) Profile {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.TargetScore != nil {
		p.TargetScore = *u.TargetScore
	}
	switch {
	case u.ClearTestDate:
		p.TestDate = nil
	case u.TestDate != nil:
		d := *u.TestDate
		p.TestDate = &d
	}
	return p
}

func appendCopy[T any](s []T, v T) []T {
	out := make([]T, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}
