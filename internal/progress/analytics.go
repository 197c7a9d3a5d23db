package progress

import (
	"math"

	"github.com/actualize/actualize/internal/catalog"
	"github.com/actualize/actualize/internal/scoring"
)

// CategoryStat is the accuracy for one question category.
type CategoryStat struct {
	Category   string          `json:"category"`
	Section    catalog.Section `json:"section"`
	Correct    int             `json:"correct"`
	Total      int             `json:"total"`
	Percentage int             `json:"percentage"`
}

// SectionStat is the accuracy for one section.
type SectionStat struct {
	Section    catalog.Section `json:"section"`
	Correct    int             `json:"correct"`
	Total      int             `json:"total"`
	Percentage int             `json:"percentage"`
}

// OverallProgress returns the percentage of the plan's lessons completed, clamped to [0,100].
func OverallProgress(a Aggregate, totalLessons int) int {
	if totalLessons <= 0 {
		return 0
	}
	pct := int(math.Round(float64(len(a.CompletedLessons)) / float64(totalLessons) * 100))
	return max(0, min(100, pct))
}

// ScoreBySection returns the rounded percent of correct answers logged for the
// section. ok is false when there is no data.
func ScoreBySection(a Aggregate, section catalog.Section) (pct int, ok bool) {
	correct, total := 0, 0
	for _, e := range a.AnswerLog {
		if e.Section != section {
			continue
		}
		total++
		if e.Correct {
			correct++
		}
	}
	if total == 0 {
		return 0, false
	}
	return scoring.RoundPercent(correct, total), true
}

// EstimatedScore returns the composite of the most recently recorded mock test.
func EstimatedScore(a Aggregate) (int, bool) {
	if len(a.MockTests) == 0 {
		return 0, false
	}
	return a.MockTests[len(a.MockTests)-1].Composite, true
}

// CategoryPerformance returns one entry per distinct category in the order
// each first appears in the answer log.
func CategoryPerformance(a Aggregate) []CategoryStat {
	var stats []CategoryStat
	index := make(map[string]int)
	for _, e := range a.AnswerLog {
		i, ok := index[e.Category]
		if !ok {
			i = len(stats)
			index[e.Category] = i
			stats = append(stats, CategoryStat{Category: e.Category, Section: e.Section})
		}
		stats[i].Total++
		if e.Correct {
			stats[i].Correct++
		}
	}
	for i := range stats {
		stats[i].Percentage = scoring.RoundPercent(stats[i].Correct, stats[i].Total)
	}
	return stats
}

// SectionBreakdown returns accuracy for every section with logged answers, in section order.
func SectionBreakdown(a Aggregate) []SectionStat {
	var out []SectionStat
	for _, sec := range catalog.AllSections() {
		st := SectionStat{Section: sec}
		for _, e := range a.AnswerLog {
			if e.Section != sec {
				continue
			}
			st.Total++
			if e.Correct {
				st.Correct++
			}
		}
		if st.Total == 0 {
			continue
		}
		st.Percentage = scoring.RoundPercent(st.Correct, st.Total)
		out = append(out, st)
	}
	return out
}

// FlashcardRecall returns how many reviews were marked known out of all reviews.
func FlashcardRecall(a Aggregate) (known, total int) {
	for _, r := range a.FlashcardReviews {
		total++
		if r.Known {
			known++
		}
	}
	return known, total
}
