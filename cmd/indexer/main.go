// Package main provides the entry point for the indexer CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adithya-Monish-Kumar-K/inverted-index-builder/cmd/indexer/cmd"
	apperrors "github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "indexer: %v\n", err)
		os.Exit(apperrors.ExitCode(err))
	}
}
