// Package cmd wires the promptcheck CLI.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

// NewRootCommand creates the root cobra command for promptcheck.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promptcheck",
		Short: "Quality analysis for prompt and instruction documents",
		Long: `Promptcheck analyzes markdown prompt documents (agents, prompts,
instructions, skills) and reports quality, safety, and clarity findings.

It parses each document into a structured model, runs a deterministic rule
set over it, and optionally composes the document with its linked documents
for cross-document conflict analysis.`,
		Version:      Version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "path to config file (default .promptcheck.yaml)")

	cmd.AddCommand(NewCheckCommand())
	cmd.AddCommand(NewWatchCommand())
	cmd.AddCommand(NewCacheCommand())

	return cmd
}
