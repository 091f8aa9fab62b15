package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/health"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run preflight checks and print a JSON report",
		Long: `Check verifies that the lexicon parses, the corpus directory is readable,
the output directory is writable and every enabled publisher backend is
reachable. It exits non-zero when any check is down.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			report := newChecker(opts.cfg).Run(ctx)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if report.Status == health.StatusDown {
				return fmt.Errorf("preflight checks failed")
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Overall time limit for all checks")

	return cmd
}
