package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/actualize/actualize/internal/progress"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		var u progress.SettingsUpdate
		changed := false
		if cmd.Flags().Changed("extended-time") {
			v, _ := cmd.Flags().GetBool("extended-time")
			u.ExtendedTime = &v
			changed = true
		}
		if cmd.Flags().Changed("dark-mode") {
			v, _ := cmd.Flags().GetBool("dark-mode")
			u.DarkMode = &v
			changed = true
		}

		e, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		if changed {
			if err := e.progress.UpdateSettings(cmd.Context(), u); err != nil {
				return fmt.Errorf("update settings: %w", err)
			}
		}

		s := e.progress.Snapshot().User.Settings
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-14s %s\n", "Extended time", onOff(s.ExtendedTime))
		fmt.Fprintf(out, "%-14s %s\n", "Dark mode", onOff(s.DarkMode))
		return nil
	},
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func init() {
	settingsCmd.Flags().Bool("extended-time", false, "Give timed tests 1.5x the standard time")
	settingsCmd.Flags().Bool("dark-mode", false, "Use the dark terminal theme")
}
