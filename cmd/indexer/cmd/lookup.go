package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/internal/indexer/segment"
)

func newLookupCmd(opts *rootOptions) *cobra.Command {
	var indexPath string

	cmd := &cobra.Command{
		Use:   "lookup <wordID>...",
		Short: "Print the posting lists of word IDs from an index artifact",
		Long: `Lookup reads an index artifact and prints one line per word ID:

  <wordID>: <docID> <docID> ...

A word ID that appears in no document prints only "<wordID>:". Without --index
the artifact under the configured output path is read.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wordIDs := make([]int, len(args))
			for i, arg := range args {
				id, err := strconv.Atoi(arg)
				if err != nil || id < 0 {
					return fmt.Errorf("invalid word ID %q", arg)
				}
				wordIDs[i] = id
			}

			path := indexPath
			if path == "" {
				path = filepath.Join(opts.cfg.Indexer.OutputPath, opts.cfg.Indexer.OutputFile)
			}
			reader, err := segment.OpenReader(path)
			if err != nil {
				return err
			}

			for _, id := range wordIDs {
				docs, _ := reader.Lookup(id)
				parts := make([]string, len(docs))
				for i, d := range docs {
					parts[i] = strconv.Itoa(d)
				}
				line := strconv.Itoa(id) + ":"
				if len(parts) > 0 {
					line += " " + strings.Join(parts, " ")
				}
				if err := printf(cmd, "%s\n", line); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&indexPath, "index", "", "Path to the index artifact")

	return cmd
}
