package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rcrowley/go-metrics"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/churn_guard/backend/internal/history"
	"github.com/churn_guard/backend/internal/models"
	"github.com/churn_guard/backend/internal/scoring"
)

type failingScorer struct {
	err   error
	calls int
}

func (f *failingScorer) Score(ctx context.Context, req models.ScoreRequest) (models.ScoreResult, error) {
	f.calls++
	return models.ScoreResult{}, f.err
}

type rewritingScorer struct{}

func (rewritingScorer) Score(ctx context.Context, req models.ScoreRequest) (models.ScoreResult, error) {
	result := models.ScoreResult{}
	for _, f := range req.Items {
		f.MonthlyCharge += 100
		result.Predictions = append(result.Predictions, models.PredictionStay)
		result.EchoedInputs = append(result.EchoedInputs, f)
	}
	return result, nil
}

type brokenStore struct{}

func (brokenStore) Load(ctx context.Context) ([]models.HistoryRecord, error) { return nil, nil }
func (brokenStore) Save(ctx context.Context, records []models.HistoryRecord) error {
	return errors.New("disk full")
}

func churner() models.CustomerFeatures {
	f := models.DefaultFeatures()
	f.CustServCalls = 6
	f.ContractRenewal = 0
	return f
}

func newService(t *testing.T, scorer scoring.Scorer, store history.Store) *PredictionService {
	t.Helper()
	svc := NewPredictionService(scorer, history.NewLedger(store, zerolog.Nop()), zerolog.Nop(), metrics.NewRegistry())
	svc.Now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 45, 0, time.Local) }
	return svc
}

func counter(svc *PredictionService, name string) int64 {
	return metrics.GetOrRegisterCounter(name, svc.Metrics).Count()
}

func TestPredictRecordsAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	svc := newService(t, scoring.MockScorer{}, history.NewCSVStore(path))

	out, err := svc.Predict(context.Background(), []models.CustomerFeatures{models.DefaultFeatures(), churner()})
	require.NoError(t, err)
	assert.Equal(t, []int{models.PredictionStay, models.PredictionChurn}, out.Predictions)
	assert.Equal(t, []string{models.LabelStay, models.LabelChurn}, out.Labels)
	assert.True(t, out.Persisted)
	require.Len(t, out.Records, 2)
	assert.Equal(t, "2024-03-01 09:30", out.Records[0].Timestamp.Format(models.TimestampLayout))

	assert.Equal(t, int64(2), counter(svc, MetricPredictionsTotal))
	assert.Equal(t, int64(1), counter(svc, MetricPredictionsChurn))
	assert.Equal(t, int64(1), counter(svc, MetricPredictionsStay))

	durable, err := history.NewCSVStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, durable, 2)

	kpis, items := svc.History(context.Background())
	assert.Equal(t, 2, kpis.Total)
	assert.Equal(t, 1, kpis.ChurnCount)
	assert.Len(t, items, 2)
}

func TestPredictFailureRecordsNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	scorer := &failingScorer{err: &scoring.Error{Kind: scoring.KindAuthentication, StatusCode: 401}}
	svc := newService(t, scorer, history.NewCSVStore(path))

	_, err := svc.Predict(context.Background(), []models.CustomerFeatures{models.DefaultFeatures()})
	require.Error(t, err)
	assert.True(t, scoring.IsKind(err, scoring.KindAuthentication))
	assert.Equal(t, 1, scorer.calls)
	assert.Empty(t, svc.Ledger.Session())
	assert.Equal(t, int64(1), counter(svc, "scoring.errors.authentication"))
	assert.Equal(t, int64(0), counter(svc, MetricPredictionsTotal))
}

func TestPredictPersistFailureStillReturnsPredictions(t *testing.T) {
	svc := newService(t, scoring.MockScorer{}, brokenStore{})

	out, err := svc.Predict(context.Background(), []models.CustomerFeatures{models.DefaultFeatures()})
	require.NoError(t, err)
	assert.False(t, out.Persisted)
	assert.Len(t, svc.Ledger.Session(), 1)
}

func TestPredictRecordsRowsAsSent(t *testing.T) {
	svc := newService(t, rewritingScorer{}, history.NewCSVStore(filepath.Join(t.TempDir(), "history.csv")))

	sent := models.DefaultFeatures()
	out, err := svc.Predict(context.Background(), []models.CustomerFeatures{sent})
	require.NoError(t, err)
	require.Len(t, out.Records, 1)
	assert.Equal(t, sent, out.Records[0].Features)

	_, items := svc.History(context.Background())
	require.Len(t, items, 1)
	assert.Equal(t, sent, items[0].Features)
}
