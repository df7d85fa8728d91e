package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"worklogz/internal/core"
	"worklogz/internal/export"
	"worklogz/internal/insight"
	applog "worklogz/internal/log"
	"worklogz/internal/report"
	"worklogz/internal/storage"
)

// SnapshotProcessor rebuilds period report snapshots: it loads a period's
// transactions, runs the aggregator and the insight rules, stores the result
// and optionally pushes it to an exporter.
type SnapshotProcessor struct {
	storage  *storage.SQLiteRepository
	exporter export.ReportExporter
}

// NewSnapshotProcessor creates a processor. exporter may be nil, in which
// case snapshots are only persisted locally.
func NewSnapshotProcessor(storage *storage.SQLiteRepository, exporter export.ReportExporter) *SnapshotProcessor {
	return &SnapshotProcessor{
		storage:  storage,
		exporter: exporter,
	}
}

// Rebuild recomputes and stores the snapshot for one period. A period
// without transactions has its stale snapshot removed instead.
func (p *SnapshotProcessor) Rebuild(ctx context.Context, period core.Period) error {
	count, err := p.storage.CountByPeriod(ctx, period)
	if err != nil {
		return fmt.Errorf("count period records: %w", err)
	}
	if count == 0 {
		if err := p.storage.DeleteSnapshot(ctx, period.Key()); err != nil {
			return fmt.Errorf("remove stale snapshot: %w", err)
		}
		slog.InfoContext(ctx, "Removed snapshot for empty period",
			applog.FieldPeriod, period.Key())
		return nil
	}

	records, err := p.storage.ListByPeriod(ctx, period)
	if err != nil {
		return fmt.Errorf("load period records: %w", err)
	}

	rep := report.Aggregate(records, period)
	advisories := insight.Derive(rep.Metrics, rep.Categories)

	reportJSON, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	insightsJSON, err := json.Marshal(advisories)
	if err != nil {
		return fmt.Errorf("marshal insights: %w", err)
	}

	if err := p.storage.SaveSnapshot(ctx, period.Key(), reportJSON, insightsJSON); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Report snapshot rebuilt",
		applog.FieldPeriod, period.Key(),
		applog.FieldRecordCount, len(records),
		"advisories", len(advisories))

	if p.exporter != nil {
		if err := p.exporter.ExportReport(ctx, rep, advisories); err != nil {
			// Export is best effort; the local snapshot is the source of
			// truth.
			slog.ErrorContext(ctx, "Failed to export report",
				applog.FieldPeriod, period.Key(), applog.FieldError, err)
		}
	}

	return nil
}

// RebuildKey parses a period key and rebuilds its snapshot.
func (p *SnapshotProcessor) RebuildKey(ctx context.Context, periodKey string) error {
	period, err := core.ParsePeriod(periodKey)
	if err != nil {
		return fmt.Errorf("parse period %q: %w", periodKey, err)
	}
	return p.Rebuild(ctx, period)
}

// RebuildAll rebuilds the snapshot of every period that has transactions.
func (p *SnapshotProcessor) RebuildAll(ctx context.Context) error {
	periods, err := p.storage.ListPeriods(ctx)
	if err != nil {
		return fmt.Errorf("list periods: %w", err)
	}

	for _, period := range periods {
		if err := p.Rebuild(ctx, period); err != nil {
			return fmt.Errorf("rebuild %s: %w", period.Key(), err)
		}
	}

	slog.InfoContext(ctx, "All report snapshots rebuilt", "periods", len(periods))
	return nil
}
