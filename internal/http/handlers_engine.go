package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"worklogz/internal/core"
	"worklogz/internal/insight"
	applog "worklogz/internal/log"
	"worklogz/internal/report"
)

type aggregateRequest struct {
	PeriodKey string            `json:"periodKey"`
	Records   []json.RawMessage `json:"records"`
}

// handleAggregate computes a report for the posted records and period. The
// period is the only input that can fail the request; records that do not
// decode cleanly contribute nothing instead of erroring.
func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req aggregateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	records := decodeRecords(r, req.Records)

	rep, err := report.AggregateKey(records, req.PeriodKey)
	if err != nil {
		slog.WarnContext(r.Context(), "Aggregate rejected",
			applog.FieldPeriod, req.PeriodKey, applog.FieldError, err)
		writeError(w, http.StatusBadRequest, "invalid period: expected YYYY-MM")
		return
	}

	slog.InfoContext(r.Context(), "Aggregated records",
		applog.FieldPeriod, req.PeriodKey,
		applog.FieldRecordCount, len(records),
		"total_transactions", rep.Metrics.TotalTransactions)

	writeJSON(w, http.StatusOK, rep)
}

type insightsRequest struct {
	Metrics           report.PeriodMetrics     `json:"metrics"`
	CategoryBreakdown report.CategoryBreakdown `json:"categoryBreakdown"`
}

type insightsResponse struct {
	Insights []insight.Advisory `json:"insights"`
}

// handleInsights runs the advisory rules over posted metrics. The rule
// engine itself never fails; only an unreadable body is rejected.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req insightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	advisories := insight.Derive(req.Metrics, req.CategoryBreakdown)

	slog.InfoContext(r.Context(), "Derived insights",
		"advisories", len(advisories))

	writeJSON(w, http.StatusOK, insightsResponse{Insights: advisories})
}

// decodeRecords unmarshals each record independently so one malformed entry
// cannot fail the whole request. Undecodable records end up with a zero date
// and fall outside every period.
func decodeRecords(r *http.Request, raw []json.RawMessage) []core.TransactionRecord {
	records := make([]core.TransactionRecord, 0, len(raw))
	for i, data := range raw {
		var rec core.TransactionRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			slog.DebugContext(r.Context(), "Skipping undecodable record",
				"index", i, applog.FieldError, err)
			continue
		}
		records = append(records, rec)
	}
	return records
}
