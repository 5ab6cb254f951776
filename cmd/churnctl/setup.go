package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/churn_guard/backend/internal/app"
	"github.com/churn_guard/backend/internal/config"
)

func buildApp(cmd *cobra.Command) (*app.App, zerolog.Logger, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.LoadFile(envFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	base := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	logger := app.NewLogger(cfg, base)

	a, err := app.Build(contextOf(cmd), cfg, logger)
	if err != nil {
		return nil, logger, err
	}
	return a, logger, nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
