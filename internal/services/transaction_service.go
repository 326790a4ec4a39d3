package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"tracker/internal/amqp"
	"tracker/internal/core"
	"tracker/internal/ledger"
)

// EventPublisher publishes ledger change notifications. *amqp.Client
// implements it; a nil publisher disables notifications.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error
}

// TransactionService orchestrates ledger writes: the local store is the
// source of truth, the event bus is told afterwards on a best-effort basis.
type TransactionService struct {
	store ledger.TransactionWriter
	bus   EventPublisher
}

func NewTransactionService(store ledger.TransactionWriter, bus EventPublisher) *TransactionService {
	return &TransactionService{
		store: store,
		bus:   bus,
	}
}

// Create saves a transaction locally and publishes a created event.
func (s *TransactionService) Create(ctx context.Context, tx core.Transaction) (string, error) {
	id, err := s.store.Append(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("save transaction: %w", err)
	}

	// The write already succeeded; a failed notification only delays the
	// rollup worker until its next periodic rebuild.
	s.publish(ctx, amqp.NewLedgerEventMessage(id, amqp.EventCreated, tx.Date.ISO()))

	return id, nil
}

// Delete removes a transaction locally and publishes a deleted event.
func (s *TransactionService) Delete(ctx context.Context, id string, date core.Date) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publish(ctx, amqp.NewLedgerEventMessage(id, amqp.EventDeleted, date.ISO()))
	return nil
}

func (s *TransactionService) publish(ctx context.Context, msg *amqp.LedgerEventMessage) {
	if s.bus == nil {
		return
	}
	if err := s.bus.PublishLedgerEvent(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"id", msg.ID, "kind", msg.Kind, "error", err)
	}
}

// Close closes the store and bus if they are closable.
func (s *TransactionService) Close() error {
	var errs []error

	if closer, ok := s.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if closer, ok := s.bus.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("bus: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}
	return nil
}
