package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func datasetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dataset",
		Short: "Print overview KPIs of the training dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ov, err := a.Dataset.Overview()
			if err != nil {
				return fmt.Errorf("load dataset %s: %w", a.Dataset.Path, err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Customers:           %d\n", ov.Customers)
			fmt.Fprintf(out, "Churn rate:          %.1f%%\n", ov.ChurnRatePct)
			fmt.Fprintf(out, "Avg tenure (weeks):  %.1f\n", ov.AvgTenureWeeks)
			fmt.Fprintf(out, "Avg monthly charge:  %.2f\n", ov.AvgMonthlyCharge)
			fmt.Fprintf(out, "Avg support calls:   %.2f\n", ov.AvgCustServCalls)
			fmt.Fprintf(out, "Monthly charge p50:  %.2f\n", ov.MonthlyChargeP50)
			fmt.Fprintf(out, "Monthly charge p90:  %.2f\n", ov.MonthlyChargeP90)
			if ov.SkippedRows > 0 {
				fmt.Fprintf(out, "Skipped rows:        %d\n", ov.SkippedRows)
			}
			return nil
		},
	}
}
