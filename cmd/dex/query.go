package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/dex-core/internal/domain/entities"
	"github.com/ersonp/dex-core/internal/domain/services"
)

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find creatures by name",
		Long:  "Case-insensitive substring search on base names; every form of a matching creature is listed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := parseView()
			if err != nil {
				return err
			}
			return withLoadedDeps(cmd.Context(), func(d *Deps) error {
				result, err := d.QueryHandler.Search(args[0], view)
				if err != nil {
					return err
				}
				if len(result.Records) == 0 {
					fmt.Println("No records found.")
					return nil
				}
				fmt.Printf("Found %d records:\n\n", len(result.Records))
				displayRecords(result.Records)
				return nil
			})
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show one creature's details and artwork",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := parseView()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return withLoadedDeps(ctx, func(d *Deps) error {
				detail, err := d.QueryHandler.Show(ctx, args[0], view)
				if err != nil {
					return err
				}
				displayDetail(detail.Record, detail.Image)
				return nil
			})
		},
	}
}

type rankFlags struct {
	metric    string
	limit     int
	ascending bool
	typeName  string
}

func newRankCmd() *cobra.Command {
	var flags rankFlags

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank creatures by a stat or derived score",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := parseView()
			if err != nil {
				return err
			}
			return withLoadedDeps(cmd.Context(), func(d *Deps) error {
				records, err := d.QueryHandler.Rank(services.RankOptions{
					Metric:    entities.Metric(flags.metric),
					View:      view,
					Ascending: flags.ascending,
					TopN:      flags.limit,
					Type:      flags.typeName,
				})
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Println("No records found.")
					return nil
				}
				displayRanked(records, flags.metric)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&flags.metric, "metric", "m", string(entities.MetricTotal), "Metric to rank by (total_stats, power_score or a stat column)")
	cmd.Flags().IntVarP(&flags.limit, "limit", "n", DefaultRankLimit, "Number of records to show (0 for all)")
	cmd.Flags().BoolVar(&flags.ascending, "asc", false, "Lowest first")
	cmd.Flags().StringVarP(&flags.typeName, "type", "t", "", "Only creatures with this primary or secondary type")

	return cmd
}

func newTypesCmd() *cobra.Command {
	var stats []string

	cmd := &cobra.Command{
		Use:   "types [type...]",
		Short: "List types and compare their average stats",
		Long:  "With no arguments every primary type is averaged. At least two types are needed for a comparison.",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := parseView()
			if err != nil {
				return err
			}
			return withLoadedDeps(cmd.Context(), func(d *Deps) error {
				summary, err := d.QueryHandler.Types(view, args, stats)
				if err != nil {
					return err
				}
				fmt.Printf("Types (%d): %s\n", len(summary.Types), strings.Join(summary.Types, ", "))
				if summary.Averages != nil {
					fmt.Println()
					displayAverages(summary.Averages)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&stats, "stats", nil, "Stats to average (default: all six)")

	return cmd
}

func newCompareCmd() *cobra.Command {
	var columns []string

	cmd := &cobra.Command{
		Use:   "compare <name> <name>...",
		Short: "Compare creatures side by side",
		Long:  "Resolves each base name to all of its forms. With --normalize the selected columns are min-max scaled against the whole view.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := parseView()
			if err != nil {
				return err
			}
			return withLoadedDeps(cmd.Context(), func(d *Deps) error {
				result, err := d.QueryHandler.Compare(args, view, columns)
				if err != nil {
					return err
				}
				if len(result.Set.Missing) > 0 {
					fmt.Printf("Not found: %s\n\n", strings.Join(result.Set.Missing, ", "))
				}
				if result.Normalized != nil {
					displayNormalized(result.Normalized)
					return nil
				}
				displayRecords(result.Set.Records())
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&columns, "normalize", nil, "Columns to min-max normalize (e.g. total_stats,Speed)")

	return cmd
}

func newImageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "image <id> [form]",
		Short: "Resolve the artwork file for a creature id and form",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid id %q", args[0])
			}
			form := entities.BaseForm
			if len(args) == 2 {
				form = args[1]
			}
			ctx := cmd.Context()
			return withDeps(ctx, func(d *Deps) error {
				fmt.Println(d.QueryHandler.Image(ctx, id, form))
				return nil
			})
		},
	}
}

func displayRecords(records []entities.Record) {
	for _, r := range records {
		fmt.Printf("#%-4d %-30s %-8s %-8s total %4.0f  power %6.1f\n",
			r.ID, r.Name, r.Type1, r.Type2, r.TotalStats, r.PowerScore)
	}
}

func displayRanked(records []entities.Record, metric string) {
	m, _ := services.ParseMetric(metric)
	for i, r := range records {
		v, _ := r.Metric(m)
		fmt.Printf("%3d. %-30s %-8s %8.1f\n", i+1, r.Name, r.Type1, v)
	}
}

func displayDetail(r entities.Record, image string) {
	fmt.Printf("#%d %s\n", r.ID, r.Name)
	fmt.Printf("  Base name: %s\n", r.BaseName)
	fmt.Printf("  Form:      %s\n", r.Form)
	fmt.Printf("  Types:     %s / %s\n", r.Type1, r.Type2)
	if r.Generation > 0 {
		fmt.Printf("  Generation: %d\n", r.Generation)
	}
	if r.Legendary {
		fmt.Println("  Legendary")
	}
	for i, s := range entities.StatOrder {
		fmt.Printf("  %-8s %4.0f\n", s, r.Stats[i])
	}
	fmt.Printf("  Total:     %.0f\n", r.TotalStats)
	fmt.Printf("  Power:     %.1f\n", r.PowerScore)
	fmt.Printf("  Image:     %s\n", image)
}

func displayAverages(avg *services.TypeAverages) {
	fmt.Printf("%-10s %5s", "Type", "Count")
	for _, s := range avg.Stats {
		fmt.Printf(" %8s", s)
	}
	fmt.Println()
	for _, t := range avg.Types {
		fmt.Printf("%-10s %5d", t, avg.Counts[t])
		for _, s := range avg.Stats {
			fmt.Printf(" %8.1f", avg.Means[t][s])
		}
		fmt.Println()
	}
}

func displayNormalized(table *services.NormalizedTable) {
	fmt.Printf("%-30s", "Name")
	for _, c := range table.Columns {
		fmt.Printf(" %12s", c)
	}
	fmt.Println()
	for _, row := range table.Rows {
		fmt.Printf("%-30s", row.Record.Name)
		for _, v := range row.Values {
			fmt.Printf(" %12.3f", v)
		}
		fmt.Println()
	}
}
