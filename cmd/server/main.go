package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/churn_guard/backend/internal/app"
	"github.com/churn_guard/backend/internal/config"
	httpapi "github.com/churn_guard/backend/internal/http"
)

// @title Churn Guard API
// @version 1.0
// @description Customer churn scoring with a persistent prediction log and dataset analytics.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	logger := app.NewLogger(cfg, log.Logger)

	ctx := context.Background()
	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise")
	}
	defer a.Close()

	deps := httpapi.Deps{
		Predictions: a.Predictions,
		Dataset:     a.Dataset,
		Auth:        a.Auth,
		Metrics:     a.Metrics,
	}
	if a.DB != nil {
		deps.DB = a.DB
	}
	router := httpapi.Router(cfg, deps, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
