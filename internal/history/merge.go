package history

import (
	"sort"

	"github.com/churn_guard/backend/internal/models"
)

// Merge unions durable and session records and drops duplicates by identity
// key. On conflict the copy appearing later in durable-then-session order
// wins. The result keeps the relative order of the surviving copies.
func Merge(durable, session []models.HistoryRecord) []models.HistoryRecord {
	combined := make([]models.HistoryRecord, 0, len(durable)+len(session))
	combined = append(combined, durable...)
	combined = append(combined, session...)

	seen := make(map[models.RecordKey]struct{}, len(combined))
	kept := make([]models.HistoryRecord, 0, len(combined))
	for i := len(combined) - 1; i >= 0; i-- {
		key := combined[i].Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, combined[i])
	}
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return kept
}

// SortNewestFirst orders records by timestamp descending, keeping merge order
// among records of the same minute.
func SortNewestFirst(records []models.HistoryRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
}

func Summarize(records []models.HistoryRecord) models.HistoryKPIs {
	kpis := models.HistoryKPIs{Total: len(records)}
	for _, r := range records {
		switch r.PredictionRaw {
		case models.PredictionChurn:
			kpis.ChurnCount++
		case models.PredictionStay:
			kpis.StayCount++
		}
	}
	if kpis.Total > 0 {
		kpis.ChurnRatePct = float64(kpis.ChurnCount) / float64(kpis.Total) * 100
	}
	return kpis
}
