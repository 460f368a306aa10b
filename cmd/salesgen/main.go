package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/generator"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "salesgen",
		Short: "Generate and summarise synthetic sales datasets",
		Long: `salesgen writes reproducible synthetic sales collections as CSV and
prints the headline figures of an existing collection.`,
		SilenceUsage: true,
	}
	root.AddCommand(newGenerateCmd(), newReportCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	var (
		count int
		seed  int64
		out   string
		now   string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic collection to a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			end := time.Now()
			if now != "" {
				t, err := time.Parse(time.DateOnly, now)
				if err != nil {
					return fmt.Errorf("invalid --now %q: %w", now, err)
				}
				end = t
			}

			records, err := generator.Generate(count, seed, end)
			if err != nil {
				return err
			}
			if err := dataset.Save(records, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", len(records), out)
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", generator.WindowDays, "number of records, at most one per day of the window")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	cmd.Flags().StringVar(&out, "out", "data/sales.csv", "destination CSV file")
	cmd.Flags().StringVar(&now, "now", "", "end of the date window as YYYY-MM-DD (default today)")
	return cmd
}

type report struct {
	Records    int                   `json:"records"`
	Metrics    models.MetricSnapshot `json:"metrics"`
	Trend      models.TrendSnapshot  `json:"trend"`
	TopSellers models.AggregateTable `json:"top_sellers"`
}

func newReportCmd() *cobra.Command {
	var (
		path   string
		top    int
		filter services.FilterInput
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print metrics, trend and top sellers of a CSV collection as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := dataset.Load(cmd.Context(), path)
			if err != nil {
				return err
			}

			view := services.Apply(records, filter.State())
			sellers, err := services.TopN(view, models.DimensionSeller, top)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report{
				Records:    len(view),
				Metrics:    services.ComputeMetrics(view),
				Trend:      services.ComputeTrend(view),
				TopSellers: sellers,
			})
		},
	}

	cmd.Flags().StringVar(&path, "path", "data/sales.csv", "CSV collection to read")
	cmd.Flags().IntVar(&top, "top", services.DefaultTopN, "number of sellers to list")
	cmd.Flags().StringVar(&filter.Start, "start", "", "first day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&filter.End, "end", "", "last day to include (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&filter.Statuses, "status", nil, "statuses to include")
	cmd.Flags().StringSliceVar(&filter.Categories, "category", nil, "categories to include")
	cmd.Flags().StringSliceVar(&filter.Regions, "region", nil, "regions to include")
	return cmd
}
