package app

import (
	"context"
	"fmt"

	"github.com/rcrowley/go-metrics"
	"github.com/rs/zerolog"

	"github.com/churn_guard/backend/internal/auth"
	"github.com/churn_guard/backend/internal/config"
	"github.com/churn_guard/backend/internal/dataset"
	"github.com/churn_guard/backend/internal/db"
	"github.com/churn_guard/backend/internal/history"
	"github.com/churn_guard/backend/internal/scoring"
	"github.com/churn_guard/backend/internal/service"
)

// App holds the components shared by the server and the CLI.
type App struct {
	Config      config.Config
	Metrics     metrics.Registry
	Predictions *service.PredictionService
	Dataset     *dataset.Analyzer
	Auth        *auth.Authenticator
	DB          *db.Store
}

func NewLogger(cfg config.Config, base zerolog.Logger) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	return base.Level(level).With().Str("service", "churn-guard").Logger()
}

func Build(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*App, error) {
	a := &App{Config: cfg, Metrics: metrics.NewRegistry()}

	var store history.Store
	if cfg.DatabaseURL != "" {
		pg, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect db: %w", err)
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		a.DB = pg
		store = pg
		logger.Info().Msg("history stored in postgres")
	} else {
		store = history.NewCSVStore(cfg.HistoryPath)
		logger.Info().Str("path", cfg.HistoryPath).Msg("history stored in csv")
	}

	scorer := NewScorer(cfg, logger)
	ledger := history.NewLedger(store, logger.With().Str("component", "history").Logger())
	a.Predictions = service.NewPredictionService(scorer, ledger, logger.With().Str("component", "predict").Logger(), a.Metrics)
	a.Dataset = dataset.NewAnalyzer(cfg.DatasetPath, cfg.DatasetCacheTTL)

	if cfg.AuthConfigPath != "" {
		authCfg, err := auth.LoadConfig(cfg.AuthConfigPath)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Auth = auth.New(authCfg)
	} else {
		logger.Warn().Msg("AUTH_CONFIG_PATH not set, api is open")
	}
	return a, nil
}

// NewScorer returns the hosted scorer, or the local mock when no endpoint is
// configured outside production. In production a missing endpoint still
// yields the hosted scorer so every call fails with a configuration error.
func NewScorer(cfg config.Config, logger zerolog.Logger) scoring.Scorer {
	if cfg.ModelURL == "" && !cfg.IsProd() {
		logger.Info().Msg("MODEL_URL not set, using mock scorer")
		return scoring.MockScorer{}
	}
	if cfg.ModelURL == "" {
		logger.Error().Msg("MODEL_URL not set, predictions will fail")
	}
	return scoring.NewHTTPScorer(cfg.ModelURL, cfg.ModelAPIKey)
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
