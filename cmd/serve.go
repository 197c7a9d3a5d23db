package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/actualize/actualize/internal/config"
	"github.com/actualize/actualize/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve progress and the practice session over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		port := e.cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}

		validate, err := config.NewValidator()
		if err != nil {
			return err
		}

		engine := e.newEngine(ctx)
		defer engine.Abandon()

		srv := server.New(e.catalog, e.progress, engine, validate, e.cfg.Server.CORS.AllowedOrigins, e.logger)
		if err := srv.Run(ctx, port); err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "Listen port (default server.port from config)")
}
