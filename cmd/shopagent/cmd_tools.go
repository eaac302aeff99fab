package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the registered tools and their argument schemas",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		for _, def := range a.registry.Definitions() {
			params, err := json.MarshalIndent(def.Function.Parameters, "  ", "  ")
			if err != nil {
				return fmt.Errorf("marshal schema for %s: %w", def.Function.Name, err)
			}
			fmt.Printf("%s\n  %s\n  %s\n\n", def.Function.Name, def.Function.Description, params)
		}
		return nil
	},
}
