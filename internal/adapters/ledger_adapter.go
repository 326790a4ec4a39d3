package adapters

import (
	"context"
	"fmt"

	"tracker/internal/core"
	"tracker/internal/ledger"
	"tracker/internal/services"
)

// repository is the slice of the storage layer the adapter needs. Both the
// SQLite and Postgres repositories satisfy it.
type repository interface {
	ledger.TransactionReader
	ledger.SummaryReader
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
}

// LedgerAdapter routes writes through the transaction service, so every
// mutation publishes a change event, while reads go straight to the
// repository. It lets the HTTP handlers stay backend-agnostic.
type LedgerAdapter struct {
	storage repository
	service *services.TransactionService
}

func NewLedgerAdapter(storage repository, service *services.TransactionService) *LedgerAdapter {
	return &LedgerAdapter{
		storage: storage,
		service: service,
	}
}

// Append implements ledger.TransactionWriter.
func (a *LedgerAdapter) Append(ctx context.Context, tx core.Transaction) (string, error) {
	return a.service.Create(ctx, tx)
}

// Delete implements ledger.TransactionWriter. The record is looked up first
// so the change event carries the affected date.
func (a *LedgerAdapter) Delete(ctx context.Context, id string) error {
	tx, err := a.storage.GetTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("look up transaction %s: %w", id, err)
	}
	return a.service.Delete(ctx, id, tx.Date)
}

// ListTransactions implements ledger.TransactionReader.
func (a *LedgerAdapter) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return a.storage.ListTransactions(ctx)
}

// ReadDailySummaries implements ledger.SummaryReader.
func (a *LedgerAdapter) ReadDailySummaries(ctx context.Context, filter core.TypeFilter) ([]core.DailyTotal, error) {
	return a.storage.ReadDailySummaries(ctx, filter)
}

// ReadTopExpenses implements ledger.SummaryReader.
func (a *LedgerAdapter) ReadTopExpenses(ctx context.Context, limit int) ([]core.Transaction, error) {
	return a.storage.ReadTopExpenses(ctx, limit)
}
