package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"worklogz/internal/export"
	"worklogz/internal/insight"
	applog "worklogz/internal/log"
	"worklogz/internal/report"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client appends finished period reports to a Google Sheets spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	reportSheet   string
}

var _ export.ReportExporter = (*Client)(nil)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID plus service account credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional: GOOGLE_REPORT_SHEET_NAME (default "Reports").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	reportSheet := strings.TrimSpace(os.Getenv("GOOGLE_REPORT_SHEET_NAME"))
	if reportSheet == "" {
		reportSheet = "Reports"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		reportSheet:   reportSheet,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// ExportReport appends one summary row per period followed by a row per
// category and one per advisory.
func (c *Client) ExportReport(ctx context.Context, rep report.Report, advisories []insight.Advisory) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rows := [][]any{
		{
			rep.Period.Key(),
			"summary",
			rep.Metrics.Income.Amount(),
			rep.Metrics.Expense.Amount(),
			rep.Metrics.Profit.Amount(),
			rep.Metrics.ProfitMargin,
			rep.Metrics.TotalTransactions,
		},
	}

	// Category rows in name order so the sheet is stable across exports
	names := make([]string, 0, len(rep.Categories))
	for name := range rep.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		totals := rep.Categories[name]
		label := name
		if label == "" {
			label = "(uncategorized)"
		}
		rows = append(rows, []any{
			rep.Period.Key(),
			"category",
			label,
			totals.Income.Amount(),
			totals.Expense.Amount(),
			totals.Total.Amount(),
		})
	}

	for _, adv := range advisories {
		rows = append(rows, []any{
			rep.Period.Key(),
			"advisory",
			string(adv.Kind),
			adv.Title,
			adv.Message,
		})
	}

	rng := fmt.Sprintf("%s!A:G", c.reportSheet)
	vr := &gsheet.ValueRange{Values: rows}

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append report rows to sheet %s: %w", c.reportSheet, err)
	}

	slog.InfoContext(ctx, "Report exported to Google Sheets",
		applog.FieldPeriod, rep.Period.Key(),
		"rows", len(rows),
		"sheet", c.reportSheet)

	return nil
}
