// Package main is the entry point for the keycalc calculator.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "keycalc",
		Short:        "Four-function keypad calculator",
		SilenceUsage: true,
	}
	root.Version = version + " (commit=" + commit + ", built=" + date + ")"
	root.SetVersionTemplate("keycalc version {{.Version}}\n")

	root.AddCommand(
		newServeCmd(),
		newEvalCmd(),
		newRunCmd(),
		newReplCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
