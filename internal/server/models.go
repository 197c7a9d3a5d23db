package server

import (
	"github.com/actualize/actualize/internal/catalog"
	"github.com/actualize/actualize/internal/practice"
	"github.com/actualize/actualize/internal/progress"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type ProgressResponse struct {
	User            progress.Profile         `json:"user"`
	Progress        progress.Aggregate       `json:"progress"`
	OverallProgress int                      `json:"overallProgress"`
	TotalLessons    int                      `json:"totalLessons"`
	EstimatedScore  *int                     `json:"estimatedScore"`
	SectionScores   map[catalog.Section]*int `json:"sectionScores"`
	Categories      []progress.CategoryStat  `json:"categoryPerformance"`
	Warning         string                   `json:"warning,omitempty"`
}

type LessonResponse struct {
	catalog.Lesson
	Completed bool `json:"completed"`
}

type ReviewFlashcardRequest struct {
	Known bool `json:"known"`
}

type AnswerRequest struct {
	QuestionID string `json:"questionId" validate:"required"`
	Label      string `json:"label" validate:"required"`
}

type FlagRequest struct {
	QuestionID string `json:"questionId" validate:"required"`
}

// MoveRequest moves by Delta, or jumps to Index when set.
type MoveRequest struct {
	Delta int  `json:"delta"`
	Index *int `json:"index,omitempty"`
}

type SessionResponse struct {
	Session practice.Session       `json:"session"`
	Current *QuestionView          `json:"current,omitempty"`
	Review  practice.ReviewSummary `json:"review"`
	Warning string                 `json:"warning,omitempty"`
}

// QuestionView is a question as shown to the student. The answer and
// explanation are withheld until study feedback is showing.
type QuestionView struct {
	ID          string           `json:"id"`
	Section     catalog.Section  `json:"section"`
	Category    string           `json:"category"`
	Prompt      string           `json:"prompt"`
	Passage     string           `json:"passage,omitempty"`
	Options     []catalog.Option `json:"options"`
	Selected    string           `json:"selected,omitempty"`
	Flagged     bool             `json:"flagged"`
	Correct     string           `json:"correct,omitempty"`
	Explanation string           `json:"explanation,omitempty"`
}

func newQuestionView(q catalog.Question, s practice.Session) QuestionView {
	v := QuestionView{
		ID:       q.ID,
		Section:  q.Section,
		Category: q.Category,
		Prompt:   q.Prompt,
		Passage:  q.Passage,
		Options:  q.Options,
		Selected: s.Answers[q.ID],
		Flagged:  s.Flagged[q.ID],
	}
	if s.ShowingFeedback {
		v.Correct = q.Correct
		v.Explanation = q.Explanation
	}
	return v
}
