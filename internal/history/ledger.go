package history

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/churn_guard/backend/internal/models"
)

// Store is the durable half of the ledger. Save replaces the full content.
type Store interface {
	Load(ctx context.Context) ([]models.HistoryRecord, error)
	Save(ctx context.Context, records []models.HistoryRecord) error
}

// Ledger is the prediction audit trail of one running process: records
// appended during its lifetime plus whatever the durable store holds.
type Ledger struct {
	store  Store
	logger zerolog.Logger

	mu      sync.Mutex
	session []models.HistoryRecord
}

func NewLedger(store Store, logger zerolog.Logger) *Ledger {
	return &Ledger{store: store, logger: logger}
}

func (l *Ledger) Append(records ...models.HistoryRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.session = append(l.session, records...)
}

// Session returns a copy of the records appended in this process.
func (l *Ledger) Session() []models.HistoryRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.HistoryRecord, len(l.session))
	copy(out, l.session)
	return out
}

// Persist rewrites the durable store with the merge of its current content
// and the session records. A corrupt store is replaced; any other read
// failure aborts without writing so durable records are never dropped.
func (l *Ledger) Persist(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	durable, err := l.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrCorrupt) {
			return fmt.Errorf("load durable history: %w", err)
		}
		l.logger.Warn().Err(err).Bool("corrupt", true).Msg("replacing corrupt durable history")
		durable = nil
	}

	merged := Merge(durable, l.session)
	if err := l.store.Save(ctx, merged); err != nil {
		return err
	}
	l.logger.Debug().Int("records", len(merged)).Msg("history persisted")
	return nil
}

// LoadCombined returns durable and session records, de-duplicated and sorted
// newest first. An unreadable durable store counts as empty.
func (l *Ledger) LoadCombined(ctx context.Context) []models.HistoryRecord {
	l.mu.Lock()
	durable := l.loadDurable(ctx)
	session := make([]models.HistoryRecord, len(l.session))
	copy(session, l.session)
	l.mu.Unlock()

	records := Merge(durable, session)
	SortNewestFirst(records)
	return records
}

func (l *Ledger) loadDurable(ctx context.Context) []models.HistoryRecord {
	records, err := l.store.Load(ctx)
	if err != nil {
		event := l.logger.Warn().Err(err)
		if errors.Is(err, ErrCorrupt) {
			event = event.Bool("corrupt", true)
		}
		event.Msg("durable history unreadable, treating as empty")
		return nil
	}
	return records
}
