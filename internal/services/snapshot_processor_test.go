package services

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"worklogz/internal/core"
	"worklogz/internal/insight"
	"worklogz/internal/report"
	"worklogz/internal/storage"
)

type captureExporter struct {
	reports    []report.Report
	advisories [][]insight.Advisory
}

func (c *captureExporter) ExportReport(_ context.Context, rep report.Report, advs []insight.Advisory) error {
	c.reports = append(c.reports, rep)
	c.advisories = append(c.advisories, advs)
	return nil
}

func newTestStorage(t *testing.T) *storage.SQLiteRepository {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSnapshotProcessorRebuild(t *testing.T) {
	repo := newTestStorage(t)
	ctx := context.Background()

	seed := []core.TransactionRecord{
		{
			Date:       core.NewDate(2025, 3, 1),
			Type:       core.Income,
			Credit:     core.Money{Cents: 100000},
			SourceType: "Consulting",
		},
		{
			Date:       core.NewDate(2025, 3, 2),
			Type:       core.Expense,
			Debit:      core.Money{Cents: 90000},
			SourceType: "Rent",
		},
	}
	for _, rec := range seed {
		if _, err := repo.RecordTransaction(ctx, rec); err != nil {
			t.Fatalf("RecordTransaction: %v", err)
		}
	}

	exporter := &captureExporter{}
	proc := NewSnapshotProcessor(repo, exporter)

	if err := proc.RebuildKey(ctx, "2025-03"); err != nil {
		t.Fatalf("RebuildKey: %v", err)
	}

	snap, err := repo.GetSnapshot(ctx, "2025-03")
	if err != nil {
		t.Fatalf("GetSnapshot: %v", err)
	}

	var rep report.Report
	if err := json.Unmarshal([]byte(snap.ReportJSON), &rep); err != nil {
		t.Fatalf("unmarshal stored report: %v", err)
	}
	if rep.Metrics.Profit.Cents != 10000 {
		t.Errorf("stored profit = %d cents, want 10000", rep.Metrics.Profit.Cents)
	}
	if rep.Metrics.ProfitMargin != 10 {
		t.Errorf("stored margin = %v, want 10", rep.Metrics.ProfitMargin)
	}

	if len(exporter.reports) != 1 {
		t.Fatalf("exporter received %d reports, want 1", len(exporter.reports))
	}
	if got := exporter.reports[0].Period.Key(); got != "2025-03" {
		t.Errorf("exported period = %s, want 2025-03", got)
	}
}

func TestSnapshotProcessorRemovesStaleSnapshot(t *testing.T) {
	repo := newTestStorage(t)
	ctx := context.Background()

	// A leftover snapshot for a period that no longer has any transactions.
	if err := repo.SaveSnapshot(ctx, "2030-01", []byte(`{}`), []byte(`[]`)); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	exporter := &captureExporter{}
	proc := NewSnapshotProcessor(repo, exporter)
	if err := proc.RebuildKey(ctx, "2030-01"); err != nil {
		t.Fatalf("RebuildKey: %v", err)
	}

	if _, err := repo.GetSnapshot(ctx, "2030-01"); !errors.Is(err, storage.ErrSnapshotNotFound) {
		t.Errorf("snapshot for empty period survived rebuild: err = %v", err)
	}
	if len(exporter.reports) != 0 {
		t.Errorf("exporter received %d reports for an empty period, want 0", len(exporter.reports))
	}
}

func TestSnapshotProcessorRebuildKeyInvalidPeriod(t *testing.T) {
	proc := NewSnapshotProcessor(newTestStorage(t), nil)

	if err := proc.RebuildKey(context.Background(), "2025-3"); err == nil {
		t.Error("expected error for malformed period key")
	}
}

func TestSnapshotProcessorRebuildAll(t *testing.T) {
	repo := newTestStorage(t)
	ctx := context.Background()

	for _, d := range []core.Date{
		core.NewDate(2025, 1, 15),
		core.NewDate(2025, 2, 15),
	} {
		if _, err := repo.RecordTransaction(ctx, core.TransactionRecord{
			Date:       d,
			Type:       core.Income,
			Credit:     core.Money{Cents: 5000},
			SourceType: "Sales",
		}); err != nil {
			t.Fatalf("RecordTransaction: %v", err)
		}
	}

	proc := NewSnapshotProcessor(repo, nil)
	if err := proc.RebuildAll(ctx); err != nil {
		t.Fatalf("RebuildAll: %v", err)
	}

	for _, key := range []string{"2025-01", "2025-02"} {
		if _, err := repo.GetSnapshot(ctx, key); err != nil {
			t.Errorf("GetSnapshot(%s): %v", key, err)
		}
	}
}
