package cmd

import (
	"github.com/spf13/cobra"

	"github.com/actualize/actualize/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "actualize",
	Short: "ACT self-study practice",
	Long:  "Actualize is a terminal app for ACT preparation: timed mock tests, study drills, flashcards and progress tracking.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ACTUALIZE_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config.yaml (default ./config.yaml or $HOME/.config/actualize/config.yaml)")

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(flashcardsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(lessonCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then database.path from config, then ACTUALIZE_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
