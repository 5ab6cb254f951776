package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "churnctl",
		Short:         "Score customers and inspect the churn prediction log",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("env-file", ".env", "Path to the env file")

	root.AddCommand(predictCmd())
	root.AddCommand(historyCmd())
	root.AddCommand(datasetCmd())
	return root
}
