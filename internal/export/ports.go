package export

import (
	"context"

	"worklogz/internal/insight"
	"worklogz/internal/report"
)

// ReportExporter pushes a finished period report to an external destination.
type ReportExporter interface {
	ExportReport(ctx context.Context, rep report.Report, advisories []insight.Advisory) error
}
