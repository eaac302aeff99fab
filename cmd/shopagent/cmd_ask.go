package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"shopagent/internal/domain/agent"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the agent one question and print the answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		runCtx, cancel := context.WithTimeout(ctx, a.cfg.RunTimeout)
		defer cancel()

		result, err := a.runner.Run(runCtx, agent.RunParams{
			Question:     strings.Join(args, " "),
			SystemPrompt: a.systemPrompt(),
		})
		if err != nil {
			return err
		}

		fmt.Println(result.FinalAnswer)
		return nil
	},
}
