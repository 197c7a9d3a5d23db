package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/actualize/actualize/internal/config"
	"github.com/actualize/actualize/internal/progress"
)

const testDateLayout = "2006-01-02"

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update the student profile",
	Long:  "Without flags, prints the profile. Flags update only the named fields.",
	RunE: func(cmd *cobra.Command, args []string) error {
		update, err := profileUpdateFromFlags(cmd)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		if update != nil {
			if err := e.progress.UpdateProfile(cmd.Context(), *update); err != nil {
				return fmt.Errorf("update profile: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		user := e.progress.Snapshot().User
		fmt.Fprintf(out, "%-14s %s\n", "Name", user.Name)
		fmt.Fprintf(out, "%-14s %d/36\n", "Target score", user.TargetScore)
		if user.TestDate != nil {
			fmt.Fprintf(out, "%-14s %s\n", "Test date", user.TestDate.Format(testDateLayout))
		} else {
			fmt.Fprintf(out, "%-14s not set\n", "Test date")
		}
		return nil
	},
}

// profileUpdateFromFlags returns nil when no profile flag was given.
func profileUpdateFromFlags(cmd *cobra.Command) (*progress.ProfileUpdate, error) {
	flags := cmd.Flags()
	var u progress.ProfileUpdate
	changed := false

	if flags.Changed("name") {
		name, _ := flags.GetString("name")
		u.Name = &name
		changed = true
	}
	if flags.Changed("target") {
		target, _ := flags.GetInt("target")
		u.TargetScore = &target
		changed = true
	}
	if flags.Changed("test-date") {
		raw, _ := flags.GetString("test-date")
		d, err := time.ParseInLocation(testDateLayout, raw, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid --test-date %q: want YYYY-MM-DD", raw)
		}
		u.TestDate = &d
		changed = true
	}
	if clearDate, _ := flags.GetBool("clear-test-date"); clearDate {
		if u.TestDate != nil {
			return nil, fmt.Errorf("use --test-date or --clear-test-date, not both")
		}
		u.ClearTestDate = true
		changed = true
	}
	if !changed {
		return nil, nil
	}

	validate, err := config.NewValidator()
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(u); err != nil {
		return nil, err
	}
	return &u, nil
}

func init() {
	profileCmd.Flags().String("name", "", "Student name")
	profileCmd.Flags().Int("target", 0, "Target composite score (1-36)")
	profileCmd.Flags().String("test-date", "", "Test date (YYYY-MM-DD)")
	profileCmd.Flags().Bool("clear-test-date", false, "Remove the test date")
}
