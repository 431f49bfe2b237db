package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/dex-core/internal/domain/entities"
	"github.com/ersonp/dex-core/internal/infrastructure/parsers"
)

type exportFlags struct {
	format string
	output string
	runID  string
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export records to file",
		Long:  "Exports the loaded records, or the records saved with a past run, to JSON, CSV, or markdown format.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "Output format (json, csv, markdown)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&flags.runID, "run", "", "Export the records saved with this load run")

	return cmd
}

func runExport(cmd *cobra.Command, flags exportFlags) error {
	if !slices.Contains(validFormats, flags.format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, validFormats)
	}

	view, err := parseView()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	if flags.runID != "" {
		return withDeps(ctx, func(d *Deps) error {
			records, err := d.HistoryHandler.Records(ctx, flags.runID)
			if err != nil {
				return err
			}
			return exportRecords(records, flags.format, flags.output)
		})
	}

	return withLoadedDeps(ctx, func(d *Deps) error {
		records, err := d.QueryHandler.Records(view)
		if err != nil {
			return err
		}
		return exportRecords(records, flags.format, flags.output)
	})
}

func newCleanCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Write the enriched dataset as CSV",
		Long: `Writes every valid record with the derived base_name, form and image_file
columns appended. The output loads back with "dex load".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := parseView()
			if err != nil {
				return err
			}
			return withLoadedDeps(cmd.Context(), func(d *Deps) error {
				records, err := d.QueryHandler.Records(view)
				if err != nil {
					return err
				}
				return exportRecords(records, "csv", output)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func exportRecords(records []entities.Record, format, output string) (err error) {
	if len(records) == 0 {
		return fmt.Errorf("no records found to export")
	}

	var w io.Writer = os.Stdout
	if output != "" {
		var f *os.File
		f, err = os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("creating file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing file: %w", cerr)
			}
		}()
		w = f
	}

	if err := formatRecords(w, records, format); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if output != "" {
		fmt.Printf("Exported %d records to %s\n", len(records), output)
	}

	return nil
}

func formatRecords(w io.Writer, records []entities.Record, format string) error {
	switch format {
	case "json":
		return formatJSON(w, records)
	case "csv":
		return parsers.WriteCSV(w, records)
	case "markdown":
		return formatMarkdown(w, records)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func formatJSON(w io.Writer, records []entities.Record) error {
	if records == nil {
		records = []entities.Record{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}

func formatMarkdown(w io.Writer, records []entities.Record) error {
	if _, err := fmt.Fprintf(w, "# Exported Records\n\nTotal: %d records\n\n", len(records)); err != nil {
		return err
	}

	if _, err := fmt.Fprint(w, "| # | Name | Form | Type 1 | Type 2 | Total | Power | Image |\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "|---|------|------|--------|--------|-------|-------|-------|\n"); err != nil {
		return err
	}

	for _, r := range records {
		if _, err := fmt.Fprintf(w, "| %d | %s | %s | %s | %s | %.0f | %.1f | %s |\n",
			r.ID,
			escapeMarkdown(r.Name),
			escapeMarkdown(r.Form),
			escapeMarkdown(r.Type1),
			escapeMarkdown(r.Type2),
			r.TotalStats,
			r.PowerScore,
			escapeMarkdown(r.ImageKey),
		); err != nil {
			return err
		}
	}

	return nil
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
