package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/actualize/actualize/internal/catalog"
	"github.com/actualize/actualize/internal/clock"
	"github.com/actualize/actualize/internal/practice"
	"github.com/actualize/actualize/internal/ui/components"
	"github.com/actualize/actualize/internal/ui/layout"
	"github.com/actualize/actualize/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	snap := s.engine.Snapshot()

	var body string
	switch snap.Phase {
	case practice.PhaseSetup:
		body = s.renderSetup(width)
	case practice.PhaseActive:
		body = s.renderQuestion(snap, width)
	case practice.PhaseReview:
		body = s.renderReview(snap, width)
	case practice.PhaseResults:
		body = s.renderResults(snap, width)
	}

	if warning := s.currentWarning(); warning != "" {
		body += "\n\n" + layout.Centered(lipgloss.NewStyle().Foreground(theme.Warning), width, warning)
	}
	return body
}

func (s *PracticeScreen) renderSetup(width int) string {
	f := s.form
	cw := components.ContentWidth(width)

	var b strings.Builder
	for i, field := range f.fields() {
		label, value := fieldText(f, field)
		line := fmt.Sprintf("%-16s ‹ %s ›", label, value)
		if i == f.cursor {
			b.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	summary := fmt.Sprintf("%d questions", f.questionCount())
	if f.setup.Mode == practice.ModeSimulate {
		base := catalog.BaseMinutes(f.setup.Variant, f.setup.Section)
		budget := clock.BudgetSeconds(base, f.setup.ExtendedTime)
		summary += fmt.Sprintf("  ·  %s on the clock", clock.FormatRemaining(budget))
	}
	b.WriteString(theme.Hint.Render(summary))

	panel := components.Panel("New Session", b.String(), cw)
	return "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, panel)
}

func fieldText(f setupForm, field setupField) (string, string) {
	st := f.setup
	switch field {
	case fieldMode:
		if st.Mode == practice.ModeSimulate {
			return "Mode", "Simulate test"
		}
		return "Mode", "Study"
	case fieldVariant:
		return "Exam", fmt.Sprintf("%s (%s)", st.Variant.DisplayName(), st.Variant.ExamCode())
	case fieldSection:
		return "Section", st.Section.DisplayName()
	case fieldCategory:
		if st.Category == catalog.CategoryAll {
			return "Category", "All categories"
		}
		return "Category", st.Category
	case fieldExtended:
		if st.ExtendedTime {
			return "Extended time", "On (1.5x)"
		}
		return "Extended time", "Off"
	}
	return "", ""
}

func (s *PracticeScreen) renderQuestion(snap practice.Session, width int) string {
	q, ok := s.engine.Current()
	if !ok {
		return ""
	}

	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %s · %s", q.Section.DisplayName(), q.Category))

	right := fmt.Sprintf("Q %d/%d", snap.Index+1, len(snap.Deck))
	if snap.Flagged[q.ID] {
		right = lipgloss.NewStyle().Foreground(theme.Accent).Render("⚑ flagged") + "  " + right
	}
	if snap.Timed() {
		right += "  " + renderCountdown(snap.RemainingSeconds)
	}
	infoRight := lipgloss.NewStyle().Foreground(theme.TextDim).Render(right)

	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(0, width-4))))
	b.WriteString("\n\n")

	textWidth := min(width-8, 76)
	if q.Passage != "" {
		passage := lipgloss.NewStyle().
			Width(textWidth).
			Foreground(theme.TextDim).
			Render(q.Passage)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, passage))
		b.WriteString("\n\n")
	}

	prompt := lipgloss.NewStyle().
		Width(textWidth).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Prompt)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, prompt))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choices.View()))

	if snap.ShowingFeedback {
		b.WriteString("\n")
		b.WriteString(renderFeedback(q, snap.Answers[q.ID], width, textWidth))
	}
	return b.String()
}

func renderCountdown(remaining int) string {
	style := lipgloss.NewStyle().Foreground(theme.Accent)
	if remaining < clock.LowTimeThreshold {
		style = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
	}
	return style.Render("⏱ " + clock.FormatRemaining(remaining))
}

func renderFeedback(q catalog.Question, chosen string, width, textWidth int) string {
	var b strings.Builder
	if chosen == q.Correct {
		b.WriteString(layout.Centered(theme.Correct, width, "Correct!"))
	} else {
		b.WriteString(layout.Centered(theme.Incorrect, width, "Not quite"))
		b.WriteString("\n")
		b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.TextDim), width,
			fmt.Sprintf("Correct answer: %s", q.Correct)))
	}
	if q.Explanation != "" {
		b.WriteString("\n\n")
		exp := lipgloss.NewStyle().Width(textWidth).Foreground(theme.Text).Render(q.Explanation)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, exp))
	}
	return b.String()
}

func (s *PracticeScreen) renderReview(snap practice.Session, width int) string {
	sum := practice.BuildReviewSummary(snap)
	cw := components.ContentWidth(width)

	var b strings.Builder
	if snap.Expired {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("Time is up."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(theme.Body.Render("Time remaining: " + clock.FormatRemaining(snap.RemainingSeconds)))
		b.WriteString("\n\n")
	}
	b.WriteString(fmt.Sprintf("Answered %d · Unanswered %d · Flagged %d\n\n",
		len(sum.Answered), len(sum.Unanswered), len(sum.Flagged)))

	for i, id := range snap.Deck {
		status := "answered"
		style := theme.Unselected
		if !snap.Answered(id) {
			status = "unanswered"
			style = lipgloss.NewStyle().Foreground(theme.Warning)
		}
		flag := " "
		if snap.Flagged[id] {
			flag = "⚑"
		}
		line := fmt.Sprintf("%s Q%-3d %s", flag, i+1, status)
		if i == s.reviewCursor {
			b.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			b.WriteString(style.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if snap.Expired {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Answers are locked. Press S to submit."))
	}

	panel := components.Panel("Review", b.String(), cw)
	return "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, panel)
}

func (s *PracticeScreen) renderResults(snap practice.Session, width int) string {
	cw := components.ContentWidth(width)
	res := snap.Result
	if snap.Empty || res == nil {
		msg := theme.Hint.Render("No questions match this selection. Press Enter to choose again.")
		return "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Panel("Results", msg, cw))
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("%d / %d correct", res.Correct, res.Total)))
	b.WriteString("\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("Score %.0f%%", res.Percentage)))
	if snap.Timed() {
		b.WriteString(theme.Body.Render(fmt.Sprintf("  ·  Composite %d/36", res.Composite)))
	}
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Answered %d of %d in %s",
		res.Answered, res.Total, clock.FormatRemaining(int(res.Duration.Seconds())))))
	b.WriteString("\n\n")

	barWidth := cw - 6
	for _, c := range res.Categories {
		pct := 0.0
		if c.Total > 0 {
			pct = float64(c.Correct) / float64(c.Total)
		}
		label := fmt.Sprintf("%-20s %d/%d", truncate(c.Category, 20), c.Correct, c.Total)
		b.WriteString(components.NewProgressBar(label, pct, barWidth).Scored().View())
		b.WriteString("\n")
	}

	panel := components.Panel("Results", b.String(), cw)
	return "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, panel)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
