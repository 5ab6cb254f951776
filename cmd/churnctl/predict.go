package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/churn_guard/backend/internal/models"
	"github.com/churn_guard/backend/internal/scoring"
)

func predictCmd() *cobra.Command {
	defaults := models.DefaultFeatures()
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score one customer profile and record it in the history log",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			f := models.CustomerFeatures{}
			flags := cmd.Flags()
			f.AccountWeeks, _ = flags.GetInt("account-weeks")
			f.ContractRenewal, _ = flags.GetInt("contract-renewal")
			f.DataPlan, _ = flags.GetInt("data-plan")
			f.DataUsage, _ = flags.GetFloat64("data-usage")
			f.CustServCalls, _ = flags.GetInt("cust-serv-calls")
			f.DayMins, _ = flags.GetFloat64("day-mins")
			f.DayCalls, _ = flags.GetInt("day-calls")
			f.MonthlyCharge, _ = flags.GetFloat64("monthly-charge")
			f.OverageFee, _ = flags.GetFloat64("overage-fee")
			f.RoamMins, _ = flags.GetFloat64("roam-mins")
			f.AvgCallDuration, _ = flags.GetFloat64("avg-call-duration")
			f.CostPerUsage, _ = flags.GetFloat64("cost-per-usage")

			outcome, err := a.Predictions.Predict(contextOf(cmd), []models.CustomerFeatures{f})
			if err != nil {
				var se *scoring.Error
				if errors.As(err, &se) {
					return errors.New(se.UserMessage())
				}
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(outcome)
			}
			for _, rec := range outcome.Records {
				fmt.Fprintf(out, "%s  %s (raw=%d)\n", rec.Timestamp.Format(models.TimestampLayout), rec.PredictionLabel, rec.PredictionRaw)
			}
			if !outcome.Persisted {
				fmt.Fprintln(out, "warning: prediction was not saved to the history log")
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.Int("account-weeks", defaults.AccountWeeks, "Weeks the account has been active")
	fl.Int("contract-renewal", defaults.ContractRenewal, "1 if the contract was recently renewed, else 0")
	fl.Int("data-plan", defaults.DataPlan, "1 if the customer has a data plan, else 0")
	fl.Float64("data-usage", defaults.DataUsage, "Monthly data usage in GB")
	fl.Int("cust-serv-calls", defaults.CustServCalls, "Calls to customer service")
	fl.Float64("day-mins", defaults.DayMins, "Average daytime minutes per month")
	fl.Int("day-calls", defaults.DayCalls, "Average daytime calls")
	fl.Float64("monthly-charge", defaults.MonthlyCharge, "Average monthly bill")
	fl.Float64("overage-fee", defaults.OverageFee, "Largest overage fee in the last 12 months")
	fl.Float64("roam-mins", defaults.RoamMins, "Average roaming minutes")
	fl.Float64("avg-call-duration", defaults.AvgCallDuration, "Average call duration in minutes")
	fl.Float64("cost-per-usage", defaults.CostPerUsage, "Monthly charge per unit of usage")
	fl.Bool("json", false, "Print the outcome as JSON")
	return cmd
}
