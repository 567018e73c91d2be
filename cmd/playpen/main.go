// Package main provides the playpen CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"playpen/cli"
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	opts := cli.DefaultOptions()

	rootCmd := &cobra.Command{
		Use:   "playpen",
		Short: "A sandboxed terminal coding agent",
		Long: `An interactive coding agent that pairs an LLM with a sandboxed workspace.

The model can run shell commands and read or write files, but every path is
confined to the workspace directory and shell commands wait for your
approval before they run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Run(context.Background(), opts)
		},
	}

	rootCmd.Flags().StringVarP(&opts.Provider, "provider", "p", opts.Provider, "LLM provider (gemini, anthropic, openai, deepseek)")
	rootCmd.Flags().StringVarP(&opts.Model, "model", "m", "", "Model name (defaults per provider)")
	rootCmd.Flags().StringVarP(&opts.Workspace, "workspace", "w", opts.Workspace, "Sandbox workspace directory")
	rootCmd.Flags().IntVar(&opts.MaxRounds, "max-rounds", 0, "Maximum tool rounds per instruction")
	rootCmd.Flags().StringVar(&opts.ThinkingLevel, "thinking-level", opts.ThinkingLevel, "Model thinking level (LOW, HIGH, AUTO)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
