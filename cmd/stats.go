package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/actualize/actualize/internal/progress"
	"github.com/actualize/actualize/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progress statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		printStats(cmd.OutOrStdout(), e.progress, time.Now())
		return nil
	},
}

func printStats(w io.Writer, ps *progress.Store, now time.Time) {
	bold := color.New(color.Bold)
	st := ps.Snapshot()
	user := st.User

	bold.Fprintf(w, "%s\n", user.Name)
	fmt.Fprintln(w, strings.Repeat("─", 52))
	fmt.Fprintf(w, "%-24s %s\n", "Target score", fmt.Sprintf("%d/36", user.TargetScore))
	if user.TestDate != nil {
		days := int(user.TestDate.Sub(now).Hours() / 24)
		if days < 0 {
			days = 0
		}
		fmt.Fprintf(w, "%-24s %s (%d days)\n", "Test date", user.TestDate.Format("Jan 2, 2006"), days)
	}
	fmt.Fprintf(w, "%-24s %d%% (%d/%d lessons)\n", "Plan progress",
		ps.OverallProgress(), len(st.Progress.CompletedLessons), ps.TotalLessons())
	if est, ok := ps.EstimatedScore(); ok {
		scoreColor(est, user.TargetScore).Fprintf(w, "%-24s %d/36\n", "Estimated score", est)
	} else {
		fmt.Fprintf(w, "%-24s --\n", "Estimated score")
	}
	fmt.Fprintf(w, "%-24s %s\n", "Study time", report.FormatMinutes(ps.StudyMinutes()))
	fmt.Fprintf(w, "%-24s %d\n", "Questions answered", len(st.Progress.AnswerLog))
	fmt.Fprintf(w, "%-24s %d\n", "Mock tests", len(st.Progress.MockTests))
	known, reviewed := progress.FlashcardRecall(st.Progress)
	fmt.Fprintf(w, "%-24s %d/%d known\n", "Flashcards", known, reviewed)

	sections := ps.SectionBreakdown()
	if len(sections) > 0 {
		fmt.Fprintln(w)
		bold.Fprintf(w, "%-24s %8s %6s\n", "Section", "Correct", "Score")
		for _, s := range sections {
			fmt.Fprintf(w, "%-24s %8s ", s.Section.DisplayName(), fmt.Sprintf("%d/%d", s.Correct, s.Total))
			percentColor(s.Percentage).Fprintf(w, "%5d%%\n", s.Percentage)
		}
	}

	categories := ps.CategoryPerformance()
	if len(categories) > 0 {
		fmt.Fprintln(w)
		bold.Fprintf(w, "%-24s %8s %6s\n", "Category", "Correct", "Score")
		for _, c := range categories {
			name := c.Category
			if len(name) > 24 {
				name = name[:21] + "..."
			}
			fmt.Fprintf(w, "%-24s %8s ", name, fmt.Sprintf("%d/%d", c.Correct, c.Total))
			percentColor(c.Percentage).Fprintf(w, "%5d%%\n", c.Percentage)
		}
	}
}

func percentColor(pct int) *color.Color {
	switch {
	case pct >= 80:
		return color.New(color.FgGreen)
	case pct >= 60:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func scoreColor(score, target int) *color.Color {
	if score >= target {
		return color.New(color.FgGreen)
	}
	return color.New(color.FgYellow)
}
