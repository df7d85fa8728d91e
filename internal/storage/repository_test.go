package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"worklogz/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRecordAndListByPeriod(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	records := []core.TransactionRecord{
		{
			Date:              core.NewDate(2025, 3, 5),
			Type:              core.Income,
			Credit:            core.Money{Cents: 100000},
			SourceType:        "Consulting",
			GivenBy:           "Acme",
			TransactionMethod: "Bank",
		},
		{
			Date:              core.NewDate(2025, 3, 10),
			Type:              core.Expense,
			Debit:             core.Money{Cents: 45000},
			SourceType:        "Rent",
			TransactionMethod: "Bank",
		},
		{
			Date:       core.NewDate(2025, 4, 1),
			Type:       core.Income,
			Credit:     core.Money{Cents: 5000},
			SourceType: "Consulting",
		},
	}

	for _, rec := range records {
		if _, err := repo.RecordTransaction(ctx, rec); err != nil {
			t.Fatalf("RecordTransaction: %v", err)
		}
	}

	march, _ := core.ParsePeriod("2025-03")
	got, err := repo.ListByPeriod(ctx, march)
	if err != nil {
		t.Fatalf("ListByPeriod: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListByPeriod returned %d records, want 2", len(got))
	}
	if got[0].Type != core.Income || got[0].Credit.Cents != 100000 {
		t.Errorf("first record = %+v, want income of 100000 cents", got[0])
	}
	if got[1].SourceType != "Rent" {
		t.Errorf("second record source = %q, want Rent", got[1].SourceType)
	}
}

func TestGetTransaction(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.RecordTransaction(ctx, core.TransactionRecord{
		Date:       core.NewDate(2025, 1, 15),
		Type:       core.Expense,
		Debit:      core.Money{Cents: 2500},
		SourceType: "Supplies",
		Comments:   "printer paper",
	})
	if err != nil {
		t.Fatalf("RecordTransaction: %v", err)
	}

	rec, err := repo.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if rec.Comments != "printer paper" {
		t.Errorf("Comments = %q, want printer paper", rec.Comments)
	}
	if rec.Date.String() != "2025-01-15" {
		t.Errorf("Date = %s, want 2025-01-15", rec.Date)
	}
}

func TestListPeriods(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, d := range []core.Date{
		core.NewDate(2025, 2, 1),
		core.NewDate(2025, 2, 20),
		core.NewDate(2024, 12, 31),
	} {
		if _, err := repo.RecordTransaction(ctx, core.TransactionRecord{
			Date:       d,
			Type:       core.Income,
			Credit:     core.Money{Cents: 100},
			SourceType: "Misc",
		}); err != nil {
			t.Fatalf("RecordTransaction: %v", err)
		}
	}

	periods, err := repo.ListPeriods(ctx)
	if err != nil {
		t.Fatalf("ListPeriods: %v", err)
	}
	if len(periods) != 2 {
		t.Fatalf("got %d periods, want 2", len(periods))
	}
	if periods[0].Key() != "2024-12" || periods[1].Key() != "2025-02" {
		t.Errorf("periods = [%s %s], want [2024-12 2025-02]", periods[0].Key(), periods[1].Key())
	}
}

func TestCountByPeriod(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, d := range []core.Date{
		core.NewDate(2025, 5, 1),
		core.NewDate(2025, 5, 15),
		core.NewDate(2025, 6, 1),
	} {
		if _, err := repo.RecordTransaction(ctx, core.TransactionRecord{
			Date:       d,
			Type:       core.Expense,
			Debit:      core.Money{Cents: 200},
			SourceType: "Misc",
		}); err != nil {
			t.Fatalf("RecordTransaction: %v", err)
		}
	}

	may, _ := core.ParsePeriod("2025-05")
	n, err := repo.CountByPeriod(ctx, may)
	if err != nil {
		t.Fatalf("CountByPeriod: %v", err)
	}
	if n != 2 {
		t.Errorf("count for 2025-05 = %d, want 2", n)
	}

	july, _ := core.ParsePeriod("2025-07")
	n, err = repo.CountByPeriod(ctx, july)
	if err != nil {
		t.Fatalf("CountByPeriod (empty): %v", err)
	}
	if n != 0 {
		t.Errorf("count for 2025-07 = %d, want 0", n)
	}
}

func TestDeleteSnapshot(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveSnapshot(ctx, "2025-08", []byte(`{}`), []byte(`[]`)); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	if err := repo.DeleteSnapshot(ctx, "2025-08"); err != nil {
		t.Fatalf("DeleteSnapshot: %v", err)
	}
	if _, err := repo.GetSnapshot(ctx, "2025-08"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("GetSnapshot after delete: err = %v, want ErrSnapshotNotFound", err)
	}

	// Deleting a period that has no snapshot is a no-op.
	if err := repo.DeleteSnapshot(ctx, "1999-01"); err != nil {
		t.Errorf("DeleteSnapshot (missing): %v", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.GetSnapshot(ctx, "2025-03"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("GetSnapshot on empty table: err = %v, want ErrSnapshotNotFound", err)
	}

	reportJSON := []byte(`{"period":"2025-03"}`)
	insightsJSON := []byte(`[]`)
	if err := repo.SaveSnapshot(ctx, "2025-03", reportJSON, insightsJSON); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	snap, err := repo.GetSnapshot(ctx, "2025-03")
	if err != nil {
		t.Fatalf("GetSnapshot: %v", err)
	}
	if snap.ReportJSON != string(reportJSON) {
		t.Errorf("ReportJSON = %q, want %q", snap.ReportJSON, reportJSON)
	}

	// Upsert replaces the previous snapshot.
	if err := repo.SaveSnapshot(ctx, "2025-03", []byte(`{"v":2}`), insightsJSON); err != nil {
		t.Fatalf("SaveSnapshot (second): %v", err)
	}
	snap, err = repo.GetSnapshot(ctx, "2025-03")
	if err != nil {
		t.Fatalf("GetSnapshot (second): %v", err)
	}
	if snap.ReportJSON != `{"v":2}` {
		t.Errorf("ReportJSON after upsert = %q, want {\"v\":2}", snap.ReportJSON)
	}
}
