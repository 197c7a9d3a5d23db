package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var lessonCmd = &cobra.Command{
	Use:   "lesson",
	Short: "Browse and complete study-plan lessons",
}

var lessonListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all lessons with completion status",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		agg := e.progress.Snapshot().Progress
		done := color.New(color.FgGreen)

		fmt.Fprintf(out, "%-3s %-12s %-8s %-10s %s\n", "", "ID", "Day", "Section", "Title")
		for _, l := range e.catalog.Lessons() {
			mark := " "
			if agg.HasCompleted(l.ID) {
				mark = done.Sprint("✓")
			}
			fmt.Fprintf(out, "%-3s %-12s %-8s %-10s %s\n",
				mark, l.ID, fmt.Sprintf("W%d D%d", l.Week, l.Day), l.Section.DisplayName(), l.Title)
		}
		fmt.Fprintf(out, "\n%d/%d lessons completed (%d%% of plan)\n",
			len(agg.CompletedLessons), e.progress.TotalLessons(), e.progress.OverallProgress())
		return nil
	},
}

var lessonCompleteCmd = &cobra.Command{
	Use:   "complete <lesson-id>",
	Short: "Mark a lesson as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		id := args[0]
		lesson, ok := e.catalog.Lesson(id)
		if !ok {
			return fmt.Errorf("unknown lesson %q", id)
		}
		if err := e.progress.CompleteLesson(cmd.Context(), id); err != nil {
			return fmt.Errorf("complete lesson: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Completed %s: %s (%d%% of plan)\n",
			lesson.ID, lesson.Title, e.progress.OverallProgress())
		return nil
	},
}

func init() {
	lessonCmd.AddCommand(lessonListCmd)
	lessonCmd.AddCommand(lessonCompleteCmd)
}
