package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"worklogz/internal/core"
	applog "worklogz/internal/log"

	_ "modernc.org/sqlite"
)

// ErrSnapshotNotFound is returned when no snapshot exists for a period.
var ErrSnapshotNotFound = errors.New("report snapshot not found")

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// RecordTransaction persists a record and returns its assigned ID.
func (r *SQLiteRepository) RecordTransaction(ctx context.Context, rec core.TransactionRecord) (int64, error) {
	period := core.PeriodOf(rec.Date)

	row, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		Date:        rec.Date.String(),
		Period:      period.Key(),
		Type:        string(rec.Type),
		CreditCents: rec.Credit.Cents,
		DebitCents:  rec.Debit.Cents,
		SourceType:  rec.SourceType,
		GivenBy:     rec.GivenBy,
		Method:      rec.TransactionMethod,
		Comments:    rec.Comments,
	})
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		applog.FieldTxnID, row.ID,
		applog.FieldPeriod, row.Period,
		applog.FieldTxnType, row.Type,
		applog.FieldSourceType, row.SourceType)

	return row.ID, nil
}

// ListByPeriod returns every record dated inside the given period.
func (r *SQLiteRepository) ListByPeriod(ctx context.Context, period core.Period) ([]core.TransactionRecord, error) {
	rows, err := r.queries.GetTransactionsByPeriod(ctx, period.Key())
	if err != nil {
		return nil, fmt.Errorf("get transactions by period: %w", err)
	}

	records := make([]core.TransactionRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := recordFromRow(row)
		if err != nil {
			// A row we wrote ourselves should always parse. Skip rather
			// than fail the whole period.
			slog.WarnContext(ctx, "Skipping unparseable transaction row",
				applog.FieldTxnID, row.ID, applog.FieldError, err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// GetTransaction returns a single record by ID.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.TransactionRecord, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if err != nil {
		return core.TransactionRecord{}, fmt.Errorf("get transaction by id: %w", err)
	}
	return recordFromRow(row)
}

// ListPeriods returns every period that has at least one transaction,
// ascending.
func (r *SQLiteRepository) ListPeriods(ctx context.Context) ([]core.Period, error) {
	keys, err := r.queries.ListPeriods(ctx)
	if err != nil {
		return nil, fmt.Errorf("list periods: %w", err)
	}

	periods := make([]core.Period, 0, len(keys))
	for _, key := range keys {
		p, err := core.ParsePeriod(key)
		if err != nil {
			slog.Warn("Skipping unparseable period key", applog.FieldPeriod, key)
			continue
		}
		periods = append(periods, p)
	}
	return periods, nil
}

// CountByPeriod returns the number of transactions dated inside the period.
func (r *SQLiteRepository) CountByPeriod(ctx context.Context, period core.Period) (int64, error) {
	n, err := r.queries.CountTransactionsByPeriod(ctx, period.Key())
	if err != nil {
		return 0, fmt.Errorf("count transactions by period: %w", err)
	}
	return n, nil
}

// SaveSnapshot upserts the rendered report and insights for a period.
func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, periodKey string, reportJSON, insightsJSON []byte) error {
	err := r.queries.UpsertReportSnapshot(ctx, ReportSnapshot{
		Period:       periodKey,
		ReportJSON:   string(reportJSON),
		InsightsJSON: string(insightsJSON),
		GeneratedAt:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("upsert report snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Report snapshot saved", applog.FieldPeriod, periodKey)
	return nil
}

// GetSnapshot returns the stored snapshot for a period, or
// ErrSnapshotNotFound.
func (r *SQLiteRepository) GetSnapshot(ctx context.Context, periodKey string) (ReportSnapshot, error) {
	s, err := r.queries.GetReportSnapshot(ctx, periodKey)
	if errors.Is(err, sql.ErrNoRows) {
		return ReportSnapshot{}, ErrSnapshotNotFound
	}
	if err != nil {
		return ReportSnapshot{}, fmt.Errorf("get report snapshot: %w", err)
	}
	return s, nil
}

// DeleteSnapshot removes the stored snapshot for a period. Deleting a
// period that has no snapshot is not an error.
func (r *SQLiteRepository) DeleteSnapshot(ctx context.Context, periodKey string) error {
	if err := r.queries.DeleteReportSnapshot(ctx, periodKey); err != nil {
		return fmt.Errorf("delete report snapshot: %w", err)
	}
	return nil
}

func recordFromRow(row Transaction) (core.TransactionRecord, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.TransactionRecord{}, fmt.Errorf("parse transaction date %q: %w", row.Date, err)
	}

	return core.TransactionRecord{
		Date:              date,
		Type:              core.TransactionType(row.Type),
		Credit:            core.Money{Cents: row.CreditCents},
		Debit:             core.Money{Cents: row.DebitCents},
		SourceType:        row.SourceType,
		GivenBy:           row.GivenBy,
		TransactionMethod: row.Method,
		Comments:          row.Comments,
	}, nil
}
