package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new pyl project",
	Long: `Initialize a new pyl project by creating a manifest (pyl.toml) and an
entry file (main.pyl). If [path|name] is omitted, initializes the current
directory. A non-existing name creates the directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

// runInit refuses to touch a directory that already has pyl.toml and
// keeps an existing main.pyl.
func runInit(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	target := wd
	if len(args) == 1 && args[0] != "." {
		target = args[0]
		if !filepath.IsAbs(target) {
			target = filepath.Join(wd, target)
		}
	}

	created, err := initProject(target)
	if err != nil {
		return err
	}

	rel := target
	if r, err := filepath.Rel(wd, target); err == nil {
		rel = r
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized pyl project in %s\n", rel)
	fmt.Fprintf(out, "  - %s\n", manifestName)
	if created {
		fmt.Fprintln(out, "  - main.pyl")
	} else {
		fmt.Fprintln(out, "  - main.pyl (existing)")
	}
	return nil
}

// initProject writes pyl.toml and, when absent, main.pyl into target. It
// reports whether main.pyl was created.
func initProject(target string) (bool, error) {
	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return false, err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return false, fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return false, fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "pyl-project"
	}

	manifestPath := filepath.Join(target, manifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return false, fmt.Errorf("project already initialized: %s exists", manifestPath)
	}
	if err := os.WriteFile(manifestPath, []byte(buildDefaultManifest(name)), 0o600); err != nil {
		return false, fmt.Errorf("failed to write manifest: %w", err)
	}

	mainPath := filepath.Join(target, "main.pyl")
	if _, err := os.Stat(mainPath); !errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err := os.WriteFile(mainPath, []byte(defaultMain), 0o600); err != nil {
		return false, fmt.Errorf("failed to write main.pyl: %w", err)
	}
	return true, nil
}

const defaultMain = `// entry point
fn add(a: int, b: int) -> int {
    return a + b;
}

fn main() -> int {
    return add(1, 2);
}
`
