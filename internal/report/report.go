// Package report renders the student's progress as Markdown and PDF.
package report

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/actualize/actualize/internal/progress"
)

//go:embed templates/report.md.tmpl
var reportTemplate string

// Data is everything the report template needs.
type Data struct {
	Name               string
	TargetScore        int
	TestDate           *time.Time
	GeneratedAt        time.Time
	TotalLessons       int
	CompletedLessons   int
	OverallProgress    int
	Estimated          int
	HasEstimate        bool
	StudyMinutes       int
	FlashcardsKnown    int
	FlashcardsReviewed int
	Sections           []progress.SectionStat
	Categories         []progress.CategoryStat
	MockTests          []progress.MockTestResult
}

// Build derives report data from a state snapshot.
func Build(st progress.State, totalLessons int, now time.Time) Data {
	a := st.Progress
	est, ok := progress.EstimatedScore(a)
	known, reviewed := progress.FlashcardRecall(a)
	return Data{
		Name:               st.User.Name,
		TargetScore:        st.User.TargetScore,
		TestDate:           st.User.TestDate,
		GeneratedAt:        now,
		TotalLessons:       totalLessons,
		CompletedLessons:   len(a.CompletedLessons),
		OverallProgress:    progress.OverallProgress(a, totalLessons),
		Estimated:          est,
		HasEstimate:        ok,
		StudyMinutes:       a.TotalStudyMinutes,
		FlashcardsKnown:    known,
		FlashcardsReviewed: reviewed,
		Sections:           progress.SectionBreakdown(a),
		Categories:         progress.CategoryPerformance(a),
		MockTests:          a.MockTests,
	}
}

func parseTemplate() (*template.Template, error) {
	funcMap := template.FuncMap{
		"minutes": FormatMinutes,
	}
	tmpl, err := template.New("report.md").Funcs(funcMap).Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}

// RenderMarkdown writes the report as Markdown.
func RenderMarkdown(w io.Writer, d Data) error {
	tmpl, err := parseTemplate()
	if err != nil {
		return err
	}
	if err := tmpl.Execute(w, d); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// WriteMarkdown renders the report into dir and returns the file path.
func WriteMarkdown(dir string, d Data) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, "progress-"+d.GeneratedAt.Format("20060102")+".md")

	var sb strings.Builder
	if err := RenderMarkdown(&sb, d); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// FormatMinutes renders a duration in minutes as "3h 05m" or "45m".
func FormatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", m/60, m%60)
}
