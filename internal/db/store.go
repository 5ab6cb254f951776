package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/churn_guard/backend/internal/models"
)

const historyTable = "prediction_history"

var historyColumns = []string{
	"ts", "prediction_raw", "prediction_label",
	"account_weeks", "contract_renewal", "data_plan", "data_usage",
	"cust_serv_calls", "day_mins", "day_calls", "monthly_charge",
	"overage_fee", "roam_mins", "avg_call_duration", "cost_per_usage",
}

const schema = `CREATE TABLE IF NOT EXISTS prediction_history (
	seq               BIGSERIAL PRIMARY KEY,
	ts                TIMESTAMPTZ NOT NULL,
	prediction_raw    SMALLINT NOT NULL CHECK (prediction_raw IN (0, 1)),
	prediction_label  TEXT NOT NULL,
	account_weeks     INTEGER NOT NULL,
	contract_renewal  SMALLINT NOT NULL,
	data_plan         SMALLINT NOT NULL,
	data_usage        DOUBLE PRECISION NOT NULL,
	cust_serv_calls   INTEGER NOT NULL,
	day_mins          DOUBLE PRECISION NOT NULL,
	day_calls         INTEGER NOT NULL,
	monthly_charge    DOUBLE PRECISION NOT NULL,
	overage_fee       DOUBLE PRECISION NOT NULL,
	roam_mins         DOUBLE PRECISION NOT NULL,
	avg_call_duration DOUBLE PRECISION NOT NULL,
	cost_per_usage    DOUBLE PRECISION NOT NULL
)`

// Store is a PostgreSQL-backed durable history. It satisfies history.Store.
type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, schema)
	return err
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Load returns rows in insertion order so that merge order is preserved.
func (s *Store) Load(ctx context.Context) ([]models.HistoryRecord, error) {
	rows, err := s.Pool.Query(ctx, `SELECT ts, prediction_raw, prediction_label,
		account_weeks, contract_renewal, data_plan, data_usage,
		cust_serv_calls, day_mins, day_calls, monthly_charge,
		overage_fee, roam_mins, avg_call_duration, cost_per_usage
		FROM prediction_history ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.HistoryRecord
	for rows.Next() {
		var (
			r  models.HistoryRecord
			ts time.Time
			f  = &r.Features
		)
		if err := rows.Scan(&ts, &r.PredictionRaw, &r.PredictionLabel,
			&f.AccountWeeks, &f.ContractRenewal, &f.DataPlan, &f.DataUsage,
			&f.CustServCalls, &f.DayMins, &f.DayCalls, &f.MonthlyCharge,
			&f.OverageFee, &f.RoamMins, &f.AvgCallDuration, &f.CostPerUsage); err != nil {
			return nil, err
		}
		r.Timestamp = ts.Local()
		out = append(out, r)
	}
	return out, rows.Err()
}

// Save replaces the table content with records in one transaction.
func (s *Store) Save(ctx context.Context, records []models.HistoryRecord) error {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		f := r.Features
		rows = append(rows, []any{
			r.Timestamp, r.PredictionRaw, r.PredictionLabel,
			f.AccountWeeks, f.ContractRenewal, f.DataPlan, f.DataUsage,
			f.CustServCalls, f.DayMins, f.DayCalls, f.MonthlyCharge,
			f.OverageFee, f.RoamMins, f.AvgCallDuration, f.CostPerUsage,
		})
	}
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `TRUNCATE prediction_history RESTART IDENTITY`); err != nil {
			return fmt.Errorf("truncate history: %w", err)
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{historyTable}, historyColumns, pgx.CopyFromRows(rows)); err != nil {
			return fmt.Errorf("copy history: %w", err)
		}
		return nil
	})
}
