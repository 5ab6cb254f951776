package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/churn_guard/backend/internal/models"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show prediction KPIs and the combined history log",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			limit, _ := cmd.Flags().GetInt("limit")
			kpis, items := a.Predictions.History(contextOf(cmd))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total predictions: %d\n", kpis.Total)
			fmt.Fprintf(out, "Predicted churn:   %d\n", kpis.ChurnCount)
			fmt.Fprintf(out, "Predicted stay:    %d\n", kpis.StayCount)
			fmt.Fprintf(out, "Churn rate:        %.1f%%\n", kpis.ChurnRatePct)
			if len(items) == 0 {
				fmt.Fprintln(out, "\nNo predictions recorded yet.")
				return nil
			}
			if limit > 0 && len(items) > limit {
				items = items[:limit]
			}

			fmt.Fprintln(out)
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TIMESTAMP\tPREDICTION\t"+strings.Join(models.FeatureNames, "\t"))
			for _, rec := range items {
				row := []string{rec.Timestamp.Format(models.TimestampLayout), rec.PredictionLabel}
				values := rec.Features.Map()
				for _, name := range models.FeatureNames {
					row = append(row, fmt.Sprint(values[name]))
				}
				fmt.Fprintln(tw, strings.Join(row, "\t"))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntP("limit", "n", 0, "Show at most n records (0 for all)")
	return cmd
}
