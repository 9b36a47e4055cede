package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pyl/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show pyl build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}
		info := version.Get()
		out := cmd.OutOrStdout()

		switch strings.ToLower(format) {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		case "pretty":
			colored, err := colorEnabled(cmd, os.Stdout)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, info.Pretty(colored))
			return err
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
		}
	},
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}
