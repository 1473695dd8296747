package main

import (
	"fmt"
	"strings"

	"github.com/lemonberrylabs/keycalc/pkg/calculator"
	"github.com/lemonberrylabs/keycalc/pkg/input"
	"github.com/spf13/cobra"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval KEY...",
		Short: "Press keys, then equals, and print the display",
		Example: `  keycalc eval 2x3+4
  keycalc eval 1 0 / 4`,
		Args: cobra.MinimumNArgs(1),
		RunE: eval,
	}
	cmd.Flags().Bool("comma-decimal", true, "treat ',' as the decimal point")
	return cmd
}

func eval(cmd *cobra.Command, args []string) error {
	comma, _ := cmd.Flags().GetBool("comma-decimal")
	calc := calculator.New(calculator.WithClassifier(
		input.NewClassifier(input.Options{CommaAsDecimal: comma}),
	))

	for _, k := range input.Split(strings.Join(args, " ")) {
		calc.Press(k, input.SourceKeyboard)
	}
	calc.Press("Enter", input.SourceKeyboard)

	if calc.HasError() {
		return fmt.Errorf("%s", calc.Display())
	}
	fmt.Fprintln(cmd.OutOrStdout(), calc.Display())
	return nil
}
