// Package cmd provides the CLI commands for the inverted index builder.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/logger"
)

// rootOptions carries the persistent flags and the loaded configuration to
// the subcommands.
type rootOptions struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

// NewRootCmd creates the root command for the indexer CLI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "indexer",
		Short: "Build a word ID inverted index over a text corpus",
		Long: `indexer maps every document of a corpus directory to the word IDs of a
lexicon and writes, for each word ID, the ascending list of documents that
contain it as a CSV artifact.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}
	cmd.SetVersionTemplate("indexer version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")

	cmd.AddCommand(newBuildCmd(opts))
	cmd.AddCommand(newLookupCmd(opts))
	cmd.AddCommand(newCheckCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// load reads the config file and installs the logger. Logs go to the
// command's stderr so stdout carries only command output.
func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidConfig, o.configPath, err)
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	logger.SetupWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	o.cfg = cfg
	return nil
}

// ExecuteContext runs the root command. Cancelling ctx aborts a build in
// progress.
func ExecuteContext(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func printf(cmd *cobra.Command, format string, args ...any) error {
	_, err := fmt.Fprintf(cmd.OutOrStdout(), format, args...)
	return err
}
