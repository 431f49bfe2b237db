package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/dex-core/internal/application/handlers"
	"github.com/ersonp/dex-core/internal/domain/entities"
	"github.com/ersonp/dex-core/internal/domain/services"
)

type loadFlags struct {
	save  bool
	index bool
}

func newLoadCmd() *cobra.Command {
	var flags loadFlags

	cmd := &cobra.Command{
		Use:   "load [file]",
		Short: "Load and validate a dataset",
		Long: `Parses a CSV or JSON dataset, enriches every row and reports the rows that
were rejected. The run is recorded in the load history unless --save=false.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, args, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.save, "save", true, "Record the run in the load history")
	cmd.Flags().BoolVar(&flags.index, "index", false, "Write stat vectors to the Qdrant index")

	return cmd
}

func runLoad(cmd *cobra.Command, args []string, flags loadFlags) error {
	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		source := d.Source
		if len(args) == 1 {
			source = args[0]
		}

		result, err := d.LoadHandler.Handle(ctx, source, handlers.LoadOptions{
			Persist: flags.save,
			Index:   flags.index,
		})
		if err != nil {
			return err
		}

		displayLoadResult(result)
		return nil
	})
}

func displayLoadResult(result *handlers.LoadResult) {
	snap := result.Snapshot

	fmt.Printf("Loaded %s\n", snap.Source)
	fmt.Printf("  Records:    %d\n", len(snap.Full))
	fmt.Printf("  Base forms: %d\n", len(snap.Base))
	fmt.Printf("  Duplicates: %d\n", snap.Duplicates)
	fmt.Printf("  Rejected:   %d\n", len(snap.Rejected))

	switch {
	case result.Saved:
		fmt.Printf("  Run:        %s\n", result.Run.ID)
	case result.Run.ID != "":
		fmt.Printf("  Run:        %s (unchanged source)\n", result.Run.ID)
	}
	if result.Indexed {
		fmt.Println("  Stat vectors indexed")
	}

	if len(snap.Rejected) > 0 {
		fmt.Println()
		displayRejects(handlers.RejectsFromSnapshot(snap))
	}
}

func displayRejects(rejects []entities.Reject) {
	shown := rejects
	if len(shown) > MaxRejectsShown {
		shown = shown[:MaxRejectsShown]
	}

	fmt.Println("Rejected rows:")
	for _, r := range shown {
		e := services.DataQualityError{Line: r.Line, RecordID: r.RecordID, Message: r.Message}
		fmt.Printf("  %s\n", e.Error())
	}
	if len(rejects) > len(shown) {
		fmt.Printf("  ... and %d more\n", len(rejects)-len(shown))
	}
}

func newHistoryCmd() *cobra.Command {
	var (
		limit    int
		deleteID string
	)

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List past loads, or show one run's rejected rows",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, args, limit, deleteID)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultHistoryLimit, "Maximum number of runs to list")
	cmd.Flags().StringVar(&deleteID, "delete", "", "Delete the run with this ID")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string, limit int, deleteID string) error {
	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		if deleteID != "" {
			if err := d.HistoryHandler.Delete(ctx, deleteID); err != nil {
				return err
			}
			fmt.Printf("Deleted run %s\n", deleteID)
			return nil
		}

		if len(args) == 1 {
			detail, err := d.HistoryHandler.Show(ctx, args[0])
			if err != nil {
				return err
			}
			displayRun(*detail.Run)
			if len(detail.Rejects) > 0 {
				fmt.Println()
				displayRejects(detail.Rejects)
			}
			return nil
		}

		runs, err := d.HistoryHandler.List(ctx, limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No loads recorded.")
			return nil
		}
		for _, run := range runs {
			displayRun(run)
			fmt.Println()
		}
		return nil
	})
}

func displayRun(run entities.LoadRun) {
	fmt.Printf("Run: %s\n", run.ID)
	fmt.Printf("  Source:  %s\n", run.Source)
	fmt.Printf("  Loaded:  %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Records: %d (%d base, %d duplicates, %d rejected)\n",
		run.Records, run.BaseRecords, run.Duplicates, run.Rejected)
}
