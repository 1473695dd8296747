package main

import (
	"fmt"

	"github.com/lemonberrylabs/keycalc/pkg/calculator"
	"github.com/lemonberrylabs/keycalc/pkg/tape"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run TAPE...",
		Short: "Replay YAML key tapes and check the expected displays",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runTapes,
	}
}

func runTapes(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range args {
		tp, err := tape.Load(path)
		if err != nil {
			return err
		}
		name := tp.Name
		if name == "" {
			name = path
		}

		mismatches := tp.Run(calculator.New())
		if len(mismatches) == 0 {
			fmt.Fprintf(out, "ok   %s\n", name)
			continue
		}
		failed++
		fmt.Fprintf(out, "FAIL %s\n", name)
		for _, m := range mismatches {
			fmt.Fprintf(out, "     %s\n", m)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d tapes failed", failed, len(args))
	}
	return nil
}
