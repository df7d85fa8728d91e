package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"worklogz/internal/core"
	"worklogz/internal/insight"
	applog "worklogz/internal/log"
	"worklogz/internal/report"
)

// reportResponse inlines the report fields so clients see
// {period, metrics, dailySeries, categoryBreakdown, insights}.
type reportResponse struct {
	report.Report
	Insights []insight.Advisory `json:"insights"`
}

// handleGetReport serves the full report plus advisories for one stored
// period, caching the rendered result.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.lister == nil {
		writeError(w, http.StatusServiceUnavailable, "stored reports not available")
		return
	}

	periodKey := r.URL.Query().Get("period")
	period, err := core.ParsePeriod(periodKey)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period: expected YYYY-MM")
		return
	}

	if cached, ok := s.reportCache.Get(period.Key()); ok {
		slog.DebugContext(r.Context(), "Report cache hit", applog.FieldPeriod, period.Key())
		writeJSON(w, http.StatusOK, cached)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	records, err := s.lister.ListByPeriod(ctx, period)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load period records",
			applog.FieldPeriod, period.Key(), applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "failed to load records")
		return
	}

	rep := report.Aggregate(records, period)
	resp := reportResponse{
		Report:   rep,
		Insights: insight.Derive(rep.Metrics, rep.Categories),
	}

	s.reportCache.Set(period.Key(), resp)
	slog.DebugContext(r.Context(), "Report cached",
		applog.FieldPeriod, period.Key(),
		applog.FieldRecordCount, len(records),
		"advisories", len(resp.Insights))

	writeJSON(w, http.StatusOK, resp)
}
