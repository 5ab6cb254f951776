package history

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/churn_guard/backend/internal/models"
)

var ErrCorrupt = errors.New("history store is corrupt")

// Columns is the header of the history file, in write order.
var Columns = append([]string{"timestamp", "prediction_raw", "prediction_label"}, models.FeatureNames...)

// CSVStore keeps the durable history in a single CSV file that is rewritten
// in full on every Save.
type CSVStore struct {
	Path string
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{Path: path}
}

// Load returns nil, nil when the file does not exist and ErrCorrupt when any
// part of it cannot be parsed.
func (s *CSVStore) Load(ctx context.Context) ([]models.HistoryRecord, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	headers, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	index := headerIndex(headers)
	for _, col := range Columns {
		if _, ok := index[strings.ToLower(col)]; !ok {
			return nil, fmt.Errorf("%w: missing column %s", ErrCorrupt, col)
		}
	}

	var out []models.HistoryRecord
	line := 1
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrCorrupt, line, err)
		}
		r, err := parseRecord(rec, index)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrCorrupt, line, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *CSVStore) Save(ctx context.Context, records []models.HistoryRecord) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".history-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(Columns); err != nil {
		tmp.Close()
		return err
	}
	for _, r := range records {
		if err := w.Write(formatRecord(r)); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}
	return nil
}

func formatRecord(r models.HistoryRecord) []string {
	f := r.Features
	return []string{
		r.Timestamp.Format(models.TimestampLayout),
		strconv.Itoa(r.PredictionRaw),
		r.PredictionLabel,
		strconv.Itoa(f.AccountWeeks),
		strconv.Itoa(f.ContractRenewal),
		strconv.Itoa(f.DataPlan),
		formatFloat(f.DataUsage),
		strconv.Itoa(f.CustServCalls),
		formatFloat(f.DayMins),
		strconv.Itoa(f.DayCalls),
		formatFloat(f.MonthlyCharge),
		formatFloat(f.OverageFee),
		formatFloat(f.RoamMins),
		formatFloat(f.AvgCallDuration),
		formatFloat(f.CostPerUsage),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseRecord(rec []string, index map[string]int) (models.HistoryRecord, error) {
	ts, err := time.ParseInLocation(models.TimestampLayout, getField(rec, index, "timestamp"), time.Local)
	if err != nil {
		return models.HistoryRecord{}, fmt.Errorf("timestamp: %w", err)
	}
	raw, err := strconv.Atoi(getField(rec, index, "prediction_raw"))
	if err != nil || (raw != models.PredictionStay && raw != models.PredictionChurn) {
		return models.HistoryRecord{}, fmt.Errorf("prediction_raw: %q", getField(rec, index, "prediction_raw"))
	}

	row := make(map[string]any, len(models.FeatureNames))
	for _, name := range models.FeatureNames {
		row[name] = getField(rec, index, strings.ToLower(name))
	}
	features, err := models.ParseFeatures(row)
	if err != nil {
		return models.HistoryRecord{}, err
	}

	label := getField(rec, index, "prediction_label")
	if label == "" {
		label = models.PredictionLabel(raw)
	}
	return models.HistoryRecord{
		Timestamp:       ts,
		PredictionRaw:   raw,
		PredictionLabel: label,
		Features:        features,
	}, nil
}

func headerIndex(headers []string) map[string]int {
	idx := map[string]int{}
	for i, h := range headers {
		idx[normalizeHeader(h)] = i
	}
	return idx
}

func getField(rec []string, idx map[string]int, name string) string {
	pos, ok := idx[name]
	if !ok || pos >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[pos])
}

func normalizeHeader(h string) string {
	h = strings.ReplaceAll(h, "\ufeff", "")
	return strings.ToLower(strings.TrimSpace(h))
}
