package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pyl/internal/driver"
)

// cacheApp names the cache directory under $XDG_CACHE_HOME.
const cacheApp = "pyl"

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the pyl diagnostics cache",
	Long:  "Remove the on-disk diagnostics cache used by `pyl diag --disk-cache`.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	cache, err := driver.OpenDiskCache(cacheApp)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to remove %q: %w", cache.Dir(), err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", cache.Dir())
	}
	return nil
}
