package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pyl/internal/diag"
	"pyl/internal/driver"
	"pyl/internal/fix"
	"pyl/internal/source"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.pyl|directory>",
	Short: "Apply suggested fixes to pyl source files",
	Long: `Fix runs diagnostics and applies the edits suggested by them. By default
only the first fix is applied; use --all to apply every non-conflicting fix.`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply every non-conflicting fix")
	fixCmd.Flags().String("id", "", "apply the fix with this id (see --list)")
	fixCmd.Flags().Bool("list", false, "list available fixes without applying them")
	fixCmd.Flags().Bool("dry-run", false, "report changes without writing files")
}

func runFix(cmd *cobra.Command, args []string) error {
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fmt.Errorf("failed to get all flag: %w", err)
	}
	id, err := cmd.Flags().GetString("id")
	if err != nil {
		return fmt.Errorf("failed to get id flag: %w", err)
	}
	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return fmt.Errorf("failed to get list flag: %w", err)
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}
	if all && id != "" {
		return fmt.Errorf("--all and --id cannot be used together")
	}

	opts, err := baseDiagnoseOptions(cmd, args[0])
	if err != nil {
		return err
	}
	// исправления нужны полностью: без обрезки и без фильтра предупреждений
	opts.MaxDiagnostics = 0
	opts.IgnoreWarnings = false
	opts.WarningsAsErrors = false

	target := args[0]
	fs, results, err := diagnoseTarget(cmd, target, opts)
	if err != nil {
		return err
	}
	merged := diag.NewBag(0)
	for _, r := range results {
		if r != nil {
			merged.Merge(r.Bag)
		}
	}
	diagnostics := merged.Items()

	out := cmd.OutOrStdout()
	if list {
		for _, d := range diagnostics {
			for i, f := range d.Fixes {
				if len(f.Edits) > 0 {
					fmt.Fprintf(out, "%s  %s\n", fix.FixID(d, i), f.Title)
				}
			}
		}
		return nil
	}

	applyOpts := fix.ApplyOptions{Mode: fix.ApplyModeOnce, DryRun: dryRun}
	switch {
	case all:
		applyOpts.Mode = fix.ApplyModeAll
	case id != "":
		applyOpts.Mode = fix.ApplyModeID
		applyOpts.TargetID = id
	}

	res, err := fix.Apply(fs, diagnostics, applyOpts)
	if errors.Is(err, fix.ErrNoFixes) {
		fmt.Fprintln(out, "no applicable fixes found")
		return nil
	}
	if err != nil {
		return err
	}
	for _, a := range res.Applied {
		fmt.Fprintf(out, "fixed %s %s: %s\n", a.Code.ID(), a.PrimaryPath, a.Title)
	}
	for _, s := range res.Skipped {
		if s.Reason == "fix has no edits" {
			continue
		}
		fmt.Fprintf(out, "skipped %s: %s\n", s.ID, s.Reason)
	}
	verb := "changed"
	if dryRun {
		verb = "would change"
	}
	for _, c := range res.FileChanges {
		fmt.Fprintf(out, "%s %s (%d edit(s))\n", verb, c.Path, c.EditCount)
	}
	return nil
}

func diagnoseTarget(cmd *cobra.Command, target string, opts driver.DiagnoseOptions) (*source.FileSet, []*driver.DiagnoseResult, error) {
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		fs, results, err := driver.DiagnoseDir(cmd.Context(), target, opts, 0)
		if err != nil {
			return nil, nil, fmt.Errorf("diagnose failed: %w", err)
		}
		return fs, results, nil
	}
	res, err := driver.Diagnose(cmd.Context(), target, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("diagnose failed: %w", err)
	}
	return res.FileSet, []*driver.DiagnoseResult{res}, nil
}
