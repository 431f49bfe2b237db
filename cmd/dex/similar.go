package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/dex-core/internal/application/handlers"
)

func newSimilarCmd() *cobra.Command {
	var (
		limit   int
		reindex bool
	)

	cmd := &cobra.Command{
		Use:   "similar <name>",
		Short: "Find creatures with the closest base stats",
		Long: `Ranks creatures by Euclidean distance between their six base stats. Uses the
Qdrant index when qdrant.host is configured, otherwise computes in memory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := parseView()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return withLoadedDeps(ctx, func(d *Deps) error {
				result, err := d.SimilarHandler.Handle(ctx, args[0], handlers.SimilarOptions{
					View:    view,
					Limit:   limit,
					Reindex: reindex,
				})
				if err != nil {
					return err
				}

				fmt.Printf("Closest to %s (total %.0f):\n\n", result.Target.Name, result.Target.TotalStats)
				if len(result.Matches) == 0 {
					fmt.Println("No matches.")
					return nil
				}
				for i, m := range result.Matches {
					fmt.Printf("%3d. %-30s distance %6.1f\n", i+1, m.Record.Name, m.Distance)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", DefaultSimilarLimit, "Number of matches")
	cmd.Flags().BoolVar(&reindex, "reindex", false, "Rewrite the view's stat vectors before searching")

	return cmd
}
