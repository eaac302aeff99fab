package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

var profilePath string

var rootCmd = &cobra.Command{
	Use:   "shopagent",
	Short: "LLM agent for answering questions about a Shopify store catalog",
	Long: `shopagent answers natural-language questions about a Shopify store's
product catalog by letting an LLM call store API tools.

Configuration comes from the environment (or a .env file):
  OPENAI_API_BASE, OPENAI_API_KEY, SHOPIFY_SHOP_URL, SHOPIFY_ACCESS_TOKEN

Examples:
  shopagent ask "What is the price of product 12345?"
  shopagent chat
  shopagent tools
  shopagent serve`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "path to a YAML profile overriding model settings and the system prompt")
	rootCmd.AddCommand(askCmd, chatCmd, toolsCmd, serveCmd)
}
