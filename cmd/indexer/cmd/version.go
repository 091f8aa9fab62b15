package cmd

import (
	"encoding/json"
	"runtime"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X .../cmd.Version=... -X .../cmd.Commit=...".
var (
	Version = "dev"
	Commit  = "none"
)

func newVersionCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]string{
					"version":    Version,
					"commit":     Commit,
					"go_version": runtime.Version(),
					"os":         runtime.GOOS,
					"arch":       runtime.GOARCH,
				})
			}
			return printf(cmd, "indexer version %s (commit %s, %s %s/%s)\n",
				Version, Commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	return cmd
}
