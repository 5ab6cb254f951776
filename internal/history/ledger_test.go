package history

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/churn_guard/backend/internal/models"
)

func record(ts string, raw int, monthlyCharge float64, accountWeeks int) models.HistoryRecord {
	at, err := time.ParseInLocation(models.TimestampLayout, ts, time.Local)
	if err != nil {
		panic(err)
	}
	f := models.DefaultFeatures()
	f.MonthlyCharge = monthlyCharge
	f.AccountWeeks = accountWeeks
	return models.NewHistoryRecord(at, raw, f)
}

func keys(records []models.HistoryRecord) []models.RecordKey {
	out := make([]models.RecordKey, 0, len(records))
	for _, r := range records {
		out = append(out, r.Key())
	}
	return out
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, models.HistoryKPIs{}, Summarize(nil))
	assert.Equal(t, models.HistoryKPIs{}, Summarize([]models.HistoryRecord{}))
}

func TestSummarize(t *testing.T) {
	kpis := Summarize([]models.HistoryRecord{
		record("2024-01-01 10:00", 1, 60, 40),
		record("2024-01-01 10:01", 0, 60, 40),
		record("2024-01-01 10:02", 0, 60, 40),
		record("2024-01-01 10:03", 1, 60, 40),
	})
	assert.Equal(t, 4, kpis.Total)
	assert.Equal(t, 2, kpis.ChurnCount)
	assert.Equal(t, 2, kpis.StayCount)
	assert.InDelta(t, 50.0, kpis.ChurnRatePct, 1e-9)
}

func TestMergeSessionCopyWins(t *testing.T) {
	durable := record("2024-01-01 10:00", 1, 60, 40)
	session := record("2024-01-01 10:00", 1, 60, 40)
	session.Features.RoamMins = 99
	session.Features.CustServCalls = 7

	merged := Merge([]models.HistoryRecord{durable}, []models.HistoryRecord{session})
	require.Len(t, merged, 1)
	assert.Equal(t, 99.0, merged[0].Features.RoamMins)
	assert.Equal(t, 7, merged[0].Features.CustServCalls)
}

func TestMergeKeepsDistinctKeys(t *testing.T) {
	durable := []models.HistoryRecord{
		record("2024-01-01 10:00", 1, 60, 40),
		record("2024-01-01 10:00", 0, 60, 40),
	}
	session := []models.HistoryRecord{
		record("2024-01-01 10:00", 1, 61, 40),
		record("2024-01-01 10:00", 1, 60, 41),
		record("2024-01-01 10:01", 1, 60, 40),
	}
	assert.Len(t, Merge(durable, session), 5)
}

func TestMergeDuplicatesWithinDurable(t *testing.T) {
	first := record("2024-01-01 10:00", 0, 60, 40)
	second := record("2024-01-01 10:00", 0, 60, 40)
	second.Features.DayCalls = 12

	merged := Merge([]models.HistoryRecord{first, second}, nil)
	require.Len(t, merged, 1)
	assert.Equal(t, 12, merged[0].Features.DayCalls)
}

func TestLoadCombinedMissingStoreIsEmpty(t *testing.T) {
	ledger := NewLedger(NewCSVStore(filepath.Join(t.TempDir(), "none.csv")), zerolog.Nop())
	assert.Empty(t, ledger.LoadCombined(context.Background()))
}

func TestLoadCombinedDedupsAgainstDurable(t *testing.T) {
	ctx := context.Background()
	store := NewCSVStore(filepath.Join(t.TempDir(), "history.csv"))
	require.NoError(t, store.Save(ctx, []models.HistoryRecord{record("2024-01-01 10:00", 1, 60, 40)}))

	ledger := NewLedger(store, zerolog.Nop())
	echoed := record("2024-01-01 10:00", 1, 60, 40)
	echoed.Features.DataUsage = 42.5
	ledger.Append(echoed)

	combined := ledger.LoadCombined(ctx)
	require.Len(t, combined, 1)
	assert.Equal(t, 42.5, combined[0].Features.DataUsage)
}

func TestPersistThenReloadInFreshLedger(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.csv")

	first := NewLedger(NewCSVStore(path), zerolog.Nop())
	want := []models.HistoryRecord{
		record("2024-01-01 10:00", 1, 60, 40),
		record("2024-01-01 10:05", 0, 45.5, 100),
		record("2024-01-02 09:30", 1, 80.25, 3),
	}
	first.Append(want...)
	require.NoError(t, first.Persist(ctx))

	restarted := NewLedger(NewCSVStore(path), zerolog.Nop())
	got := restarted.LoadCombined(ctx)
	require.Len(t, got, 3)
	assert.ElementsMatch(t, keys(want), keys(got))
	assert.Equal(t, "2024-01-02 09:30", got[0].Key().Timestamp)
	assert.Equal(t, "2024-01-01 10:00", got[2].Key().Timestamp)
}

func TestPersistKeepsEarlierDurableRecords(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.csv")

	earlier := NewLedger(NewCSVStore(path), zerolog.Nop())
	earlier.Append(record("2024-01-01 10:00", 1, 60, 40))
	require.NoError(t, earlier.Persist(ctx))

	later := NewLedger(NewCSVStore(path), zerolog.Nop())
	later.Append(record("2024-01-03 11:00", 0, 30, 200))
	require.NoError(t, later.Persist(ctx))
	require.NoError(t, later.Persist(ctx))

	durable, err := NewCSVStore(path).Load(ctx)
	require.NoError(t, err)
	assert.Len(t, durable, 2)
}

func TestCorruptStoreIsTreatedAsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, os.WriteFile(path, []byte("timestamp,prediction_raw\n\"unterminated,1\n"), 0o600))

	_, err := NewCSVStore(path).Load(ctx)
	require.ErrorIs(t, err, ErrCorrupt)

	ledger := NewLedger(NewCSVStore(path), zerolog.Nop())
	ledger.Append(record("2024-01-01 10:00", 0, 60, 40))
	combined := ledger.LoadCombined(ctx)
	require.Len(t, combined, 1)

	require.NoError(t, ledger.Persist(ctx))
	durable, err := NewCSVStore(path).Load(ctx)
	require.NoError(t, err)
	assert.Len(t, durable, 1)
}

type flakyStore struct {
	records []models.HistoryRecord
	loadErr error
	saves   int
}

func (s *flakyStore) Load(ctx context.Context) ([]models.HistoryRecord, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.records, nil
}

func (s *flakyStore) Save(ctx context.Context, records []models.HistoryRecord) error {
	s.saves++
	s.records = records
	return nil
}

func TestPersistDoesNotOverwriteAfterReadFailure(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{records: []models.HistoryRecord{
		record("2024-01-01 10:00", 0, 60, 40),
		record("2024-01-01 10:01", 1, 70, 10),
		record("2024-01-01 10:02", 0, 80, 90),
	}}
	ledger := NewLedger(store, zerolog.Nop())
	ledger.Append(record("2024-01-02 09:00", 1, 55, 5))

	store.loadErr = errors.New("connection reset by peer")
	err := ledger.Persist(ctx)
	require.Error(t, err)
	assert.Equal(t, 0, store.saves)
	assert.Len(t, store.records, 3)

	assert.Len(t, ledger.LoadCombined(ctx), 1)

	store.loadErr = nil
	require.NoError(t, ledger.Persist(ctx))
	assert.Equal(t, 1, store.saves)
	assert.Len(t, store.records, 4)
}

func TestRoundTripEqualUnderIdentity(t *testing.T) {
	ctx := context.Background()
	store := NewCSVStore(filepath.Join(t.TempDir(), "nested", "history.csv"))
	want := []models.HistoryRecord{
		record("2024-02-01 08:00", 0, 12.125, 1),
		record("2024-02-01 08:00", 1, 12.125, 1),
		record("2024-02-01 08:01", 1, 0, 0),
	}
	want[2].Features.CostPerUsage = 0.1
	want[2].Features.AvgCallDuration = 1.0 / 3.0

	require.NoError(t, store.Save(ctx, want))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, keys(want), keys(got))
	for i := range want {
		assert.Equal(t, want[i].Features, got[i].Features)
		assert.Equal(t, want[i].PredictionLabel, got[i].PredictionLabel)
	}
}

func TestCSVStoreReadsHeaderCaseInsensitively(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	content := "\ufeffTimestamp,prediction_label,prediction_raw,AccountWeeks,ContractRenewal,DataPlan,DataUsage,CustServCalls,DayMins,DayCalls,MonthlyCharge,OverageFee,RoamMins,AvgCallDuration,CostPerUsage\n" +
		"2024-01-01 10:00,Churn,1,40,1,1,5.0,2,250.0,90.0,60.0,5.0,8.0,2.8,0.25\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	got, err := NewCSVStore(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 90, got[0].Features.DayCalls)
	assert.Equal(t, models.LabelChurn, got[0].PredictionLabel)
}
