package storage

import (
	"context"
	"database/sql"
	"time"
)

// Queries wraps the raw SQL executed against the SQLite database.
type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// Transaction is a row of the transactions table.
type Transaction struct {
	ID          int64
	Date        string
	Period      string
	Type        string
	CreditCents int64
	DebitCents  int64
	SourceType  string
	GivenBy     string
	Method      string
	Comments    string
	CreatedAt   time.Time
}

type CreateTransactionParams struct {
	Date        string
	Period      string
	Type        string
	CreditCents int64
	DebitCents  int64
	SourceType  string
	GivenBy     string
	Method      string
	Comments    string
}

const createTransaction = `
INSERT INTO transactions (txn_date, period, txn_type, credit_cents, debit_cents, source_type, given_by, txn_method, comments)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, txn_date, period, txn_type, credit_cents, debit_cents, source_type, given_by, txn_method, comments, created_at
`

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, createTransaction,
		arg.Date, arg.Period, arg.Type,
		arg.CreditCents, arg.DebitCents,
		arg.SourceType, arg.GivenBy, arg.Method, arg.Comments)

	var t Transaction
	err := row.Scan(&t.ID, &t.Date, &t.Period, &t.Type,
		&t.CreditCents, &t.DebitCents,
		&t.SourceType, &t.GivenBy, &t.Method, &t.Comments, &t.CreatedAt)
	return t, err
}

const getTransactionsByPeriod = `
SELECT id, txn_date, period, txn_type, credit_cents, debit_cents, source_type, given_by, txn_method, comments, created_at
FROM transactions
WHERE period = ?
ORDER BY txn_date, id
`

func (q *Queries) GetTransactionsByPeriod(ctx context.Context, period string) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, getTransactionsByPeriod, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.Date, &t.Period, &t.Type,
			&t.CreditCents, &t.DebitCents,
			&t.SourceType, &t.GivenBy, &t.Method, &t.Comments, &t.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const getTransaction = `
SELECT id, txn_date, period, txn_type, credit_cents, debit_cents, source_type, given_by, txn_method, comments, created_at
FROM transactions
WHERE id = ?
`

func (q *Queries) GetTransaction(ctx context.Context, id int64) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, getTransaction, id)

	var t Transaction
	err := row.Scan(&t.ID, &t.Date, &t.Period, &t.Type,
		&t.CreditCents, &t.DebitCents,
		&t.SourceType, &t.GivenBy, &t.Method, &t.Comments, &t.CreatedAt)
	return t, err
}

const listPeriods = `
SELECT DISTINCT period FROM transactions ORDER BY period
`

func (q *Queries) ListPeriods(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listPeriods)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

const countTransactionsByPeriod = `
SELECT COUNT(*) FROM transactions WHERE period = ?
`

func (q *Queries) CountTransactionsByPeriod(ctx context.Context, period string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countTransactionsByPeriod, period).Scan(&n)
	return n, err
}

// ReportSnapshot is a row of the report_snapshots table.
type ReportSnapshot struct {
	Period       string
	ReportJSON   string
	InsightsJSON string
	GeneratedAt  time.Time
}

const upsertReportSnapshot = `
INSERT INTO report_snapshots (period, report_json, insights_json, generated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(period) DO UPDATE SET
    report_json = excluded.report_json,
    insights_json = excluded.insights_json,
    generated_at = excluded.generated_at
`

func (q *Queries) UpsertReportSnapshot(ctx context.Context, s ReportSnapshot) error {
	_, err := q.db.ExecContext(ctx, upsertReportSnapshot,
		s.Period, s.ReportJSON, s.InsightsJSON, s.GeneratedAt)
	return err
}

const getReportSnapshot = `
SELECT period, report_json, insights_json, generated_at
FROM report_snapshots
WHERE period = ?
`

func (q *Queries) GetReportSnapshot(ctx context.Context, period string) (ReportSnapshot, error) {
	row := q.db.QueryRowContext(ctx, getReportSnapshot, period)

	var s ReportSnapshot
	err := row.Scan(&s.Period, &s.ReportJSON, &s.InsightsJSON, &s.GeneratedAt)
	return s, err
}

const deleteReportSnapshot = `
DELETE FROM report_snapshots WHERE period = ?
`

func (q *Queries) DeleteReportSnapshot(ctx context.Context, period string) error {
	_, err := q.db.ExecContext(ctx, deleteReportSnapshot, period)
	return err
}
