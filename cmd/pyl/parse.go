package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pyl/internal/diagfmt"
	"pyl/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.pyl",
	Short: "Parse a pyl source file and output its AST",
	Long:  `Parse builds the abstract syntax tree of a pyl source file and prints it`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Parse(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	if err := printBag(cmd, result.Bag, result.FileSet); err != nil {
		return err
	}
	if !result.Parsed() {
		return driver.ErrHasErrors
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		return diagfmt.FormatASTJSON(out, result.Builder, result.AST)
	}
	return diagfmt.FormatASTPretty(out, result.Builder, result.AST, result.FileSet)
}
