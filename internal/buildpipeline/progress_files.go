package buildpipeline

import (
	"path/filepath"
	"strings"
)

// displayName makes path relative to baseDir when it lies under it, with
// forward slashes. Paths outside baseDir are kept as is.
func displayName(path, baseDir string) string {
	if path == "" {
		return path
	}
	clean := filepath.Clean(path)
	base := strings.TrimSpace(baseDir)
	if base != "" {
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
		if abs, err := filepath.Abs(clean); err == nil {
			clean = abs
		}
		if rel, err := filepath.Rel(base, clean); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
			clean = rel
		}
	}
	return filepath.ToSlash(clean)
}

// displayNames maps every path to its display name in order.
func displayNames(paths []string, baseDir string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = displayName(p, baseDir)
	}
	return out
}
