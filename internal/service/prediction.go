package service

import (
	"context"
	"time"

	"github.com/rcrowley/go-metrics"
	"github.com/rs/zerolog"

	"github.com/churn_guard/backend/internal/history"
	"github.com/churn_guard/backend/internal/models"
	"github.com/churn_guard/backend/internal/scoring"
)

const (
	MetricPredictionsTotal = "predictions.total"
	MetricPredictionsChurn = "predictions.churn"
	MetricPredictionsStay  = "predictions.stay"
	MetricScoringLatency   = "scoring.latency"
	metricErrorsPrefix     = "scoring.errors."
)

type PredictionService struct {
	Scorer  scoring.Scorer
	Ledger  *history.Ledger
	Logger  zerolog.Logger
	Metrics metrics.Registry
	Now     func() time.Time
}

type Outcome struct {
	Predictions []int                  `json:"predictions"`
	Labels      []string               `json:"labels"`
	Records     []models.HistoryRecord `json:"records"`
	Persisted   bool                   `json:"persisted"`
}

func NewPredictionService(scorer scoring.Scorer, ledger *history.Ledger, logger zerolog.Logger, registry metrics.Registry) *PredictionService {
	if registry == nil {
		registry = metrics.NewRegistry()
	}
	return &PredictionService{
		Scorer:  scorer,
		Ledger:  ledger,
		Logger:  logger,
		Metrics: registry,
		Now:     time.Now,
	}
}

// Predict scores the batch with one call and records every scored row in the
// ledger. A failed persist is logged; the predictions are still returned.
func (s *PredictionService) Predict(ctx context.Context, rows []models.CustomerFeatures) (Outcome, error) {
	start := time.Now()
	result, err := s.Scorer.Score(ctx, models.ScoreRequest{Items: rows})
	metrics.GetOrRegisterTimer(MetricScoringLatency, s.Metrics).UpdateSince(start)
	if err != nil {
		kind := scoring.KindOf(err)
		if kind == "" {
			kind = "unknown"
		}
		metrics.GetOrRegisterCounter(metricErrorsPrefix+string(kind), s.Metrics).Inc(1)
		s.Logger.Warn().Err(err).Str("kind", string(kind)).Int("rows", len(rows)).Msg("scoring failed")
		return Outcome{}, err
	}

	now := s.now()
	out := Outcome{
		Predictions: result.Predictions,
		Labels:      make([]string, 0, len(result.Predictions)),
		Records:     make([]models.HistoryRecord, 0, len(result.Predictions)),
	}
	var churned int64
	// The log keeps the rows as sent, not the endpoint's echo.
	for i, raw := range result.Predictions {
		rec := models.NewHistoryRecord(now, raw, rows[i])
		out.Labels = append(out.Labels, rec.PredictionLabel)
		out.Records = append(out.Records, rec)
		if raw == models.PredictionChurn {
			churned++
		}
	}

	metrics.GetOrRegisterCounter(MetricPredictionsTotal, s.Metrics).Inc(int64(len(out.Records)))
	metrics.GetOrRegisterCounter(MetricPredictionsChurn, s.Metrics).Inc(churned)
	metrics.GetOrRegisterCounter(MetricPredictionsStay, s.Metrics).Inc(int64(len(out.Records)) - churned)

	s.Ledger.Append(out.Records...)
	if err := s.Ledger.Persist(ctx); err != nil {
		s.Logger.Error().Err(err).Msg("persist history failed")
	} else {
		out.Persisted = true
	}

	s.Logger.Info().
		Int("rows", len(out.Records)).
		Int64("churn", churned).
		Dur("latency", time.Since(start)).
		Msg("prediction complete")
	return out, nil
}

// History returns the combined, newest-first log with its KPIs.
func (s *PredictionService) History(ctx context.Context) (models.HistoryKPIs, []models.HistoryRecord) {
	records := s.Ledger.LoadCombined(ctx)
	return history.Summarize(records), records
}

func (s *PredictionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
