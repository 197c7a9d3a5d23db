package cmd

import (
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/actualize/actualize/internal/app"
	"github.com/actualize/actualize/internal/screen"
	"github.com/actualize/actualize/internal/screens/flashcards"
	"github.com/actualize/actualize/internal/screens/home"
	practicescreen "github.com/actualize/actualize/internal/screens/practice"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Start a study drill or timed mock test",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, app.WithStartScreen(func(svc home.Services) screen.Screen {
			return practicescreen.New(svc.Engine, svc.Catalog, svc.Progress)
		}))
	},
}

var flashcardsCmd = &cobra.Command{
	Use:   "flashcards",
	Short: "Review flashcards",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, app.WithStartScreen(func(svc home.Services) screen.Screen {
			return flashcards.New(svc.Catalog, svc.Progress, rand.New(rand.NewPCG(uint64(svc.Now().UnixNano()), 0)))
		}))
	},
}

// runTUI opens the store, builds services, and launches the terminal UI.
func runTUI(cmd *cobra.Command, opts ...app.Option) error {
	ctx := cmd.Context()
	e, err := openEnv(cmd, envOptions{logToFile: true})
	if err != nil {
		return err
	}
	defer e.Close()

	svc := home.Services{
		Catalog:  e.catalog,
		Progress: e.progress,
		Engine:   e.newEngine(ctx),
		Now:      time.Now,
	}
	return app.Run(ctx, svc, e.logger, opts...)
}
