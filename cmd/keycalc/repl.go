package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/lemonberrylabs/keycalc/pkg/calculator"
	"github.com/lemonberrylabs/keycalc/pkg/input"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const prompt = "> "

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Type keys line by line and see the display after each line",
		Long: `Each input line is split into keys and pressed on one calculator.
Letters form key names such as enter, backspace or escape; every other
character is one key. The display is printed after each line. Type quit
to leave.`,
		Args: cobra.NoArgs,
		RunE: repl,
	}
}

func repl(cmd *cobra.Command, args []string) error {
	interactive := false
	if f, ok := cmd.InOrStdin().(*os.File); ok {
		interactive = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return runRepl(cmd, calculator.New(), interactive)
}

func runRepl(cmd *cobra.Command, calc *calculator.Calculator, interactive bool) error {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		if interactive {
			fmt.Fprint(out, prompt)
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "exit" {
			return nil
		}
		for _, k := range input.Split(line) {
			calc.Press(k, input.SourceKeyboard)
		}
		fmt.Fprintln(out, calc.Display())
	}
	if interactive {
		fmt.Fprintln(out)
	}
	return scanner.Err()
}
