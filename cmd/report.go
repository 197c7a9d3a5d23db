package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/actualize/actualize/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a Markdown progress report, optionally converted to PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = e.cfg.Report.Directory
		}

		data := report.Build(e.progress.Snapshot(), e.progress.TotalLessons(), time.Now())
		mdPath, err := report.WriteMarkdown(dir, data)
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		e.logger.Info("report written", zap.String("path", mdPath))
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Report: %s\n", mdPath)

		if pdf, _ := cmd.Flags().GetBool("pdf"); pdf {
			pdfPath, err := report.ConvertMarkdownToPDF(mdPath)
			if err != nil {
				return fmt.Errorf("convert report to pdf: %w", err)
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "PDF:    %s\n", pdfPath)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().Bool("pdf", false, "Also render the report as PDF")
	reportCmd.Flags().String("dir", "", "Output directory (default report.directory from config)")
}
