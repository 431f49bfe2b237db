// Package main provides the entry point for the dex CLI application.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ersonp/dex-core/internal/domain/services"
	"github.com/ersonp/dex-core/internal/infrastructure/config"
	"github.com/ersonp/dex-core/internal/infrastructure/logging"
)

var (
	version      = "0.1.0-dev"
	globalSource string
	globalView   string
	verbose      bool

	// logger is set in PersistentPreRunE; a no-op until then.
	logger = zap.NewNop()
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		var selErr *services.SelectionError
		if errors.As(err, &selErr) {
			fmt.Fprintf(os.Stderr, "invalid selection: %s\n", selErr.Message)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:           "dex",
		Short:         "Browse, rank and compare creature stats from a tabular dataset",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&globalSource, "source", "s", "", "Source dataset (default: data.source from config)")
	rootCmd.PersistentFlags().StringVar(&globalView, "view", "full", "Records to query: full (every form) or base (canonical forms only)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newInitCmd(),
		newLoadCmd(),
		newHistoryCmd(),
		newSearchCmd(),
		newShowCmd(),
		newRankCmd(),
		newTypesCmd(),
		newCompareCmd(),
		newImageCmd(),
		newSimilarCmd(),
		newCleanCmd(),
		newExportCmd(),
		newWatchCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}

func setupLogger() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	l, err := logging.New(cfg.Log, verbose)
	if err != nil {
		return err
	}
	logger = l
	return nil
}
