package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"shopagent/internal/interfaces/httpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the agent over HTTP (POST /v1/ask) with health and metrics endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		server := httpserver.New(a.cfg, a.log, a.runner, a.systemPrompt())
		if err := server.Run(ctx); err != nil {
			return err
		}

		a.log.Info().Msg("server exited cleanly")
		return nil
	},
}
