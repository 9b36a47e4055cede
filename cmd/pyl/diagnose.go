package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"pyl/internal/buildpipeline"
	"pyl/internal/diagfmt"
	"pyl/internal/driver"
	"pyl/internal/observ"
	"pyl/internal/sema"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] <file.pyl|directory>",
	Short: "Run diagnostics on a pyl source file or directory",
	Long:  `Run diagnostics to find lexical, syntax and semantic issues in a pyl source file or in every *.pyl file of a directory`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDiagnose,
}

func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|short|json|yaml)")
	diagCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	diagCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	diagCmd.Flags().Bool("disk-cache", false, "reuse diagnostics from the on-disk cache (cleared by pyl clean)")
	diagCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	diagCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	diagCmd.Flags().Bool("with-notes", false, "include notes and fixes in json/yaml output")
	diagCmd.Flags().String("path-mode", "auto", "file path display (auto|absolute|relative|basename)")
	diagCmd.Flags().Bool("signatures", false, "print function signatures of files without errors")
}

type diagFlags struct {
	format     string
	jobs       int
	ui         uiMode
	diskCache  bool
	withNotes  bool
	pathMode   diagfmt.PathMode
	signatures bool
	quiet      bool
	timings    bool
}

func readDiagFlags(cmd *cobra.Command) (diagFlags, error) {
	var f diagFlags
	var err error
	if f.format, err = cmd.Flags().GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch f.format {
	case "pretty", "short", "json", "yaml":
	default:
		return f, fmt.Errorf("unknown format: %s", f.format)
	}
	if f.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiValue); err != nil {
		return f, err
	}
	if f.diskCache, err = cmd.Flags().GetBool("disk-cache"); err != nil {
		return f, fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	if f.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return f, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	modeValue, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return f, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	mode, ok := diagfmt.ParsePathMode(modeValue)
	if !ok {
		return f, fmt.Errorf("invalid --path-mode value %q", modeValue)
	}
	f.pathMode = mode
	if f.signatures, err = cmd.Flags().GetBool("signatures"); err != nil {
		return f, fmt.Errorf("failed to get signatures flag: %w", err)
	}
	if f.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return f, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if f.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return f, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return f, nil
}

// baseDiagnoseOptions merges defaults, the pyl.toml manifest and an
// explicit --max-diagnostics, in that order.
func baseDiagnoseOptions(cmd *cobra.Command, target string) (driver.DiagnoseOptions, error) {
	lints := sema.DefaultLints()
	opts := driver.DiagnoseOptions{MaxDiagnostics: 100, Lints: &lints}

	start := target
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		start = filepath.Dir(target)
	}
	manifest, _, err := loadProjectManifest(start)
	if err != nil {
		return opts, err
	}
	manifest.apply(&opts)

	root := cmd.Root().PersistentFlags()
	if root.Changed("max-diagnostics") {
		if opts.MaxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
			return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	return opts, nil
}

// diagnoseOptions adds the severity flags of `pyl diag` on top of
// baseDiagnoseOptions.
func diagnoseOptions(cmd *cobra.Command, target string) (driver.DiagnoseOptions, error) {
	opts, err := baseDiagnoseOptions(cmd, target)
	if err != nil {
		return opts, err
	}
	if cmd.Flags().Changed("warnings-as-errors") {
		if opts.WarningsAsErrors, err = cmd.Flags().GetBool("warnings-as-errors"); err != nil {
			return opts, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
		}
	}
	if opts.IgnoreWarnings, err = cmd.Flags().GetBool("no-warnings"); err != nil {
		return opts, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	if opts.IgnoreWarnings && opts.WarningsAsErrors {
		return opts, fmt.Errorf("no-warnings and warnings-as-errors cannot be used together")
	}
	return opts, nil
}

// runDiagnose exits non-zero (via driver.ErrHasErrors) when any file has
// error diagnostics.
func runDiagnose(cmd *cobra.Command, args []string) error {
	target := args[0]
	flags, err := readDiagFlags(cmd)
	if err != nil {
		return err
	}
	opts, err := diagnoseOptions(cmd, target)
	if err != nil {
		return err
	}
	opts.EnableTimings = flags.timings
	if flags.diskCache {
		cache, cacheErr := driver.OpenDiskCache(cacheApp)
		if cacheErr != nil && !flags.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: disk cache disabled: %v\n", cacheErr)
		}
		opts.Cache = cache
	}

	req := buildpipeline.DiagnoseRequest{TargetPath: target, Options: opts, Jobs: flags.jobs}

	var outcome buildpipeline.DiagnoseOutcome
	if !flags.quiet && shouldUseTUI(flags.ui) {
		files, listErr := buildpipeline.ListFiles(target, "")
		if listErr != nil {
			return fmt.Errorf("diagnose failed: %w", listErr)
		}
		outcome, err = runDiagnoseWithUI(cmd.Context(), "pyl diag "+target, files, req)
	} else {
		outcome, err = buildpipeline.Diagnose(cmd.Context(), req)
	}
	if err != nil {
		return fmt.Errorf("diagnose failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := renderOutcome(cmd, out, outcome, flags); err != nil {
		return err
	}
	if flags.signatures {
		if err := printSignatures(out, outcome); err != nil {
			return err
		}
	}
	if flags.timings {
		printTimings(cmd.ErrOrStderr(), outcome)
	}
	if !flags.quiet && (flags.format == "pretty" || flags.format == "short") {
		printSummary(cmd.ErrOrStderr(), outcome)
	}
	if outcome.ErrorCount() > 0 {
		return driver.ErrHasErrors
	}
	return nil
}

func renderOutcome(cmd *cobra.Command, out io.Writer, outcome buildpipeline.DiagnoseOutcome, flags diagFlags) error {
	switch flags.format {
	case "pretty":
		useColor, err := colorEnabled(cmd, os.Stdout)
		if err != nil {
			return err
		}
		opts := diagfmt.PrettyOpts{
			Color:     useColor,
			Context:   1,
			PathMode:  flags.pathMode,
			ShowNotes: true,
			ShowFixes: true,
		}
		for _, r := range outcome.Results {
			if r != nil && r.Bag.Len() > 0 {
				diagfmt.Pretty(out, r.Bag, outcome.FileSet, opts)
			}
		}
		return nil
	case "short":
		for _, r := range outcome.Results {
			if r == nil {
				continue
			}
			if err := diagfmt.Short(out, r.Bag, outcome.FileSet); err != nil {
				return err
			}
		}
		return nil
	}

	jsonOpts := diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         flags.pathMode,
		IncludeNotes:     flags.withNotes,
		IncludeFixes:     flags.withNotes,
		IncludePreviews:  flags.withNotes,
	}
	if !outcome.IsDir && len(outcome.Results) == 1 {
		r := outcome.Results[0]
		if flags.format == "yaml" {
			return diagfmt.YAML(out, r.Bag, outcome.FileSet, jsonOpts)
		}
		return diagfmt.JSON(out, r.Bag, outcome.FileSet, jsonOpts)
	}

	// директория: документ на каждый файл
	doc := make(map[string]diagfmt.DiagnosticsOutput, len(outcome.Results))
	for i, r := range outcome.Results {
		if r == nil {
			continue
		}
		doc[outcome.Files[i]] = diagfmt.BuildDiagnosticsOutput(r.Bag, outcome.FileSet, jsonOpts)
	}
	if flags.format == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func printSignatures(out io.Writer, outcome buildpipeline.DiagnoseOutcome) error {
	for i, r := range outcome.Results {
		if r == nil || r.HasErrors() {
			continue
		}
		for _, fn := range r.Functions {
			if _, err := fmt.Fprintf(out, "%s: %s\n", outcome.Files[i], formatSignature(fn)); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatSignature(fn sema.FunctionSig) string {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("fn %s(%s) -> %s", fn.Name, strings.Join(params, ", "), fn.Result)
}

func printTimings(w io.Writer, outcome buildpipeline.DiagnoseOutcome) {
	reports := make([]observ.Report, 0, len(outcome.Results))
	for _, r := range outcome.Results {
		if r != nil && r.Timing != nil {
			reports = append(reports, *r.Timing)
		}
	}
	if len(reports) == 0 {
		return
	}
	fmt.Fprint(w, observ.Merge(reports...).Summary())
	fmt.Fprintf(w, "  %-12s %8.2f ms\n", "wall", toMillis(outcome.Elapsed))
}

func printSummary(w io.Writer, outcome buildpipeline.DiagnoseOutcome) {
	cached := 0
	for _, r := range outcome.Results {
		if r != nil && r.Cached {
			cached++
		}
	}
	line := fmt.Sprintf("%d file(s) checked: %d error(s), %d warning(s)",
		len(outcome.Results), outcome.ErrorCount(), outcome.WarningCount())
	if cached > 0 {
		line += fmt.Sprintf(", %d from cache", cached)
	}
	fmt.Fprintln(w, line)
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
