package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"pyl/internal/driver"
	"pyl/internal/sema"
)

const manifestName = "pyl.toml"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
	meta   toml.MetaData
}

type projectConfig struct {
	Package packageConfig `toml:"package"`
	Diag    diagConfig    `toml:"diag"`
	Lint    lintConfig    `toml:"lint"`
}

type packageConfig struct {
	Name string `toml:"name"`
}

type diagConfig struct {
	Max              int  `toml:"max"`
	WarningsAsErrors bool `toml:"warnings_as_errors"`
}

type lintConfig struct {
	UnusedVariables bool `toml:"unused_variables"`
	UnusedFunctions bool `toml:"unused_functions"`
	UnreachableCode bool `toml:"unreachable_code"`
}

func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadProjectManifest walks up from startDir; a missing manifest is not an
// error and yields (nil, false, nil).
func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, meta, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
		meta:   meta,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, toml.MetaData, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, meta, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return projectConfig{}, meta, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return projectConfig{}, meta, fmt.Errorf("%s: missing [package].name", path)
	}
	if meta.IsDefined("diag", "max") && cfg.Diag.Max < 0 {
		return projectConfig{}, meta, fmt.Errorf("%s: [diag].max must not be negative", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return projectConfig{}, meta, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	return cfg, meta, nil
}

// apply overlays manifest values onto opts. Keys absent from the file keep
// the values already in opts.
func (m *projectManifest) apply(opts *driver.DiagnoseOptions) {
	if m == nil {
		return
	}
	if m.meta.IsDefined("diag", "max") {
		opts.MaxDiagnostics = m.Config.Diag.Max
	}
	if m.meta.IsDefined("diag", "warnings_as_errors") {
		opts.WarningsAsErrors = m.Config.Diag.WarningsAsErrors
	}

	lints := sema.DefaultLints()
	if opts.Lints != nil {
		lints = *opts.Lints
	}
	if m.meta.IsDefined("lint", "unused_variables") {
		lints.UnusedVariables = m.Config.Lint.UnusedVariables
	}
	if m.meta.IsDefined("lint", "unused_functions") {
		lints.UnusedFunctions = m.Config.Lint.UnusedFunctions
	}
	if m.meta.IsDefined("lint", "unreachable_code") {
		lints.UnreachableCode = m.Config.Lint.UnreachableCode
	}
	opts.Lints = &lints
}

// buildDefaultManifest returns the manifest written by `pyl init`.
func buildDefaultManifest(name string) string {
	return fmt.Sprintf(`# pyl project manifest
[package]
name = %q

[diag]
max = 100
warnings_as_errors = false

[lint]
unused_variables = true
unused_functions = true
unreachable_code = true
`, name)
}
