package practice

import (
	"time"

	"github.com/actualize/actualize/internal/catalog"
	"github.com/actualize/actualize/internal/scoring"
)

// Result is the outcome of a finished session.
type Result struct {
	Total      int              `json:"total"`
	Answered   int              `json:"answered"`
	Correct    int              `json:"correct"`
	Score      float64          `json:"score"`
	Percentage float64          `json:"percentage"`
	Composite  int              `json:"composite"`
	Duration   time.Duration    `json:"duration"`
	Categories []CategoryResult `json:"categories,omitempty"`
}

// CategoryResult is the per-category tally within one session.
type CategoryResult struct {
	Section  catalog.Section `json:"section"`
	Category string          `json:"category"`
	Correct  int             `json:"correct"`
	Total    int             `json:"total"`
}

// ReviewSummary lists deck question IDs by answer and flag status, in deck order.
type ReviewSummary struct {
	Answered   []string `json:"answered"`
	Unanswered []string `json:"unanswered"`
	Flagged    []string `json:"flagged"`
}

// BuildReviewSummary classifies every deck entry of s.
func BuildReviewSummary(s Session) ReviewSummary {
	var sum ReviewSummary
	for _, id := range s.Deck {
		if s.Answered(id) {
			sum.Answered = append(sum.Answered, id)
		} else {
			sum.Unanswered = append(sum.Unanswered, id)
		}
		if s.Flagged[id] {
			sum.Flagged = append(sum.Flagged, id)
		}
	}
	return sum
}

// BuildResult scores s. Categories appear in the order their first question appears in the deck.
func BuildResult(s Session, lookup scoring.Lookup, duration time.Duration) *Result {
	res := &Result{
		Total:    len(s.Deck),
		Answered: len(s.Answers),
		Correct:  scoring.CountCorrect(s.Deck, s.Answers, lookup),
		Duration: duration,
	}
	res.Score = scoring.SessionScore(res.Correct, res.Total)
	res.Percentage = scoring.Percentage(res.Correct, res.Total)
	res.Composite = scoring.Composite(res.Percentage)

	index := make(map[string]int)
	for _, id := range s.Deck {
		q, ok := lookup(id)
		if !ok {
			continue
		}
		key := string(q.Section) + "/" + q.Category
		i, seen := index[key]
		if !seen {
			i = len(res.Categories)
			index[key] = i
			res.Categories = append(res.Categories, CategoryResult{Section: q.Section, Category: q.Category})
		}
		res.Categories[i].Total++
		if label, answered := s.Answers[id]; answered && scoring.Judge(q, label) {
			res.Categories[i].Correct++
		}
	}
	return res
}
