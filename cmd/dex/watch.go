package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/dex-core/internal/application/handlers"
	"github.com/ersonp/dex-core/internal/infrastructure/watcher"
)

type watchFlags struct {
	save  bool
	index bool
}

func newWatchCmd() *cobra.Command {
	var flags watchFlags

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload the dataset whenever the source file changes",
		Long: `Loads the source, then reloads it after every change until interrupted.
Each reload is validated and reported like "dex load".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.save, "save", true, "Record each reload in the load history")
	cmd.Flags().BoolVar(&flags.index, "index", false, "Rewrite stat vectors on each reload")

	return cmd
}

func runWatch(cmd *cobra.Command, flags watchFlags) error {
	ctx := cmd.Context()
	opts := handlers.LoadOptions{Persist: flags.save, Index: flags.index}

	return withDeps(ctx, func(d *Deps) error {
		result, err := d.LoadHandler.Handle(ctx, d.Source, opts)
		if err != nil {
			return err
		}
		displayLoadResult(result)

		reload := func(ctx context.Context, path string) error {
			result, err := d.LoadHandler.Handle(ctx, path, opts)
			if err != nil {
				return err
			}
			fmt.Println()
			displayLoadResult(result)
			return nil
		}

		w, err := watcher.New(d.Source, reload, watcher.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()

		fmt.Printf("\nWatching %s (Ctrl+C to stop)\n", w.Path())
		<-w.Done()

		stats := w.Stats()
		fmt.Printf("\nStopped after %d reloads (%d errors)\n", stats.Reloads, stats.Errors)
		return nil
	})
}
