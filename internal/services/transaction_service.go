package services

import (
	"context"
	"fmt"
	"log/slog"

	"worklogz/internal/amqp"
	"worklogz/internal/core"
	applog "worklogz/internal/log"
	"worklogz/internal/storage"
)

// TransactionService orchestrates transaction writes across SQLite and AMQP.
type TransactionService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewTransactionService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// RecordTransaction validates and saves a record locally, then publishes a
// snapshot-invalidation message for its period.
func (s *TransactionService) RecordTransaction(ctx context.Context, rec core.TransactionRecord) (int64, error) {
	if err := rec.Validate(); err != nil {
		return 0, err
	}

	// Save to SQLite first (fast, reliable)
	id, err := s.storage.RecordTransaction(ctx, rec)
	if err != nil {
		return 0, fmt.Errorf("save transaction: %w", err)
	}

	period := core.PeriodOf(rec.Date)
	if err := s.publishRecorded(ctx, id, period.Key()); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction recorded message",
			applog.FieldTxnID, id, applog.FieldPeriod, period.Key(), applog.FieldError, err)
		// Don't fail the request - the transaction is saved locally
	}

	return id, nil
}

// ListByPeriod returns every record in the period.
func (s *TransactionService) ListByPeriod(ctx context.Context, period core.Period) ([]core.TransactionRecord, error) {
	return s.storage.ListByPeriod(ctx, period)
}

func (s *TransactionService) publishRecorded(ctx context.Context, id int64, period string) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping recorded message")
		return nil
	}

	return s.amqpClient.PublishTransactionRecorded(ctx, id, period)
}

// Close closes both storage and AMQP connections.
func (s *TransactionService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}

	return nil
}
