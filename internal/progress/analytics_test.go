package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/actualize/actualize/internal/catalog"
)

func TestOverallProgress(t *testing.T) {
	lessons := func(n int) Aggregate {
		var a Aggregate
		for i := 0; i < n; i++ {
			a.CompletedLessons = append(a.CompletedLessons, string(rune('a'+i)))
		}
		return a
	}
	assert.Equal(t, 0, OverallProgress(Aggregate{}, 56))
	assert.Equal(t, 14, OverallProgress(lessons(8), 56))
	assert.Equal(t, 100, OverallProgress(lessons(10), 5))
	assert.Equal(t, 0, OverallProgress(lessons(3), 0))
}

func TestScoreBySection(t *testing.T) {
	a := Aggregate{AnswerLog: []AnswerLogEntry{
		entry(catalog.SectionMath, "Algebra", true),
		entry(catalog.SectionMath, "Algebra", false),
		entry(catalog.SectionMath, "Geometry", true),
		entry(catalog.SectionEnglish, "Grammar", false),
	}}

	pct, ok := ScoreBySection(a, catalog.SectionMath)
	assert.True(t, ok)
	assert.Equal(t, 67, pct)

	pct, ok = ScoreBySection(a, catalog.SectionEnglish)
	assert.True(t, ok)
	assert.Equal(t, 0, pct)

	_, ok = ScoreBySection(a, catalog.SectionScience)
	assert.False(t, ok, "no data is distinct from zero")
}

func TestEstimatedScore_MostRecent(t *testing.T) {
	_, ok := EstimatedScore(Aggregate{})
	assert.False(t, ok)

	a := Aggregate{MockTests: []MockTestResult{{Composite: 30}, {Composite: 21}}}
	got, ok := EstimatedScore(a)
	assert.True(t, ok)
	assert.Equal(t, 21, got)
}

func TestCategoryPerformance_FirstAppearanceOrder(t *testing.T) {
	a := Aggregate{AnswerLog: []AnswerLogEntry{
		entry(catalog.SectionScience, "Data Representation", false),
		entry(catalog.SectionMath, "Algebra", true),
		entry(catalog.SectionScience, "Data Representation", true),
		entry(catalog.SectionMath, "Algebra", true),
	}}

	got := CategoryPerformance(a)
	assert.Equal(t, []CategoryStat{
		{Category: "Data Representation", Section: catalog.SectionScience, Correct: 1, Total: 2, Percentage: 50},
		{Category: "Algebra", Section: catalog.SectionMath, Correct: 2, Total: 2, Percentage: 100},
	}, got)
	assert.Empty(t, CategoryPerformance(Aggregate{}))
}

func TestSectionBreakdown(t *testing.T) {
	a := Aggregate{AnswerLog: []AnswerLogEntry{
		entry(catalog.SectionReading, "Inference", true),
		entry(catalog.SectionEnglish, "Grammar", true),
		entry(catalog.SectionEnglish, "Grammar", false),
	}}
	got := SectionBreakdown(a)
	if assert.Len(t, got, 2) {
		assert.Equal(t, catalog.SectionEnglish, got[0].Section)
		assert.Equal(t, 50, got[0].Percentage)
		assert.Equal(t, catalog.SectionReading, got[1].Section)
		assert.Equal(t, 100, got[1].Percentage)
	}
}

func TestFlashcardRecall(t *testing.T) {
	a := AppendFlashcardReview(Aggregate{}, FlashcardReview{CardID: "f1", Known: true})
	a = AppendFlashcardReview(a, FlashcardReview{CardID: "f2"})
	known, total := FlashcardRecall(a)
	assert.Equal(t, 1, known)
	assert.Equal(t, 2, total)
}
