package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"worklogz/internal/core"
	applog "worklogz/internal/log"
)

type createTransactionResponse struct {
	ID     int64  `json:"id"`
	Period string `json:"period"`
}

// handleCreateTransaction persists a posted record and invalidates the
// cached report of its period.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.recorder == nil {
		writeError(w, http.StatusServiceUnavailable, "transaction recording not available")
		return
	}

	var rec core.TransactionRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	rec.SourceType = sanitizeInput(rec.SourceType)
	rec.GivenBy = sanitizeInput(rec.GivenBy)
	rec.TransactionMethod = sanitizeInput(rec.TransactionMethod)
	rec.Comments = sanitizeInput(rec.Comments)

	id, err := s.recorder.RecordTransaction(r.Context(), rec)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Failed to record transaction", applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "failed to record transaction")
		return
	}

	period := core.PeriodOf(rec.Date)
	s.InvalidatePeriod(period.Key())

	writeJSON(w, http.StatusCreated, createTransactionResponse{
		ID:     id,
		Period: period.Key(),
	})
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidType) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrEmptySourceType)
}
