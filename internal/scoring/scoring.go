// Package scoring judges answers and converts raw counts into session,
// percentage and composite scores.
package scoring

import (
	"math"

	"github.com/actualize/actualize/internal/catalog"
)

// MaxComposite is the top of the composite scale.
const MaxComposite = 36

// Judge reports whether label is the question's correct choice. No partial credit.
func Judge(q catalog.Question, label string) bool {
	return label != "" && label == q.Correct
}

// Lookup resolves a question ID.
type Lookup func(id string) (catalog.Question, bool)

// CountCorrect counts deck entries whose recorded answer is correct.
// Unanswered questions and IDs the lookup cannot resolve count as incorrect.
func CountCorrect(deck []string, answers map[string]string, lookup Lookup) int {
	correct := 0
	for _, id := range deck {
		label, ok := answers[id]
		if !ok {
			continue
		}
		q, ok := lookup(id)
		if !ok {
			continue
		}
		if Judge(q, label) {
			correct++
		}
	}
	return correct
}

// SessionScore returns the fraction of the deck answered correctly, 0 for an empty deck.
func SessionScore(correct, deckLen int) float64 {
	if deckLen <= 0 {
		return 0
	}
	return float64(correct) / float64(deckLen)
}

// Percentage returns correct/total*100, 0 when total is 0.
func Percentage(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

// Composite maps a percentage onto the 1-36 style scale with a single
// linear factor. It is a coarse approximation, not an official conversion table.
func Composite(percentage float64) int {
	c := int(math.Round(percentage / 100 * MaxComposite))
	if c < 0 {
		return 0
	}
	if c > MaxComposite {
		return MaxComposite
	}
	return c
}

// RoundPercent returns the rounded whole percent of correct over total.
func RoundPercent(correct, total int) int {
	return int(math.Round(Percentage(correct, total)))
}
