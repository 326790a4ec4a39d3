package ledger

import (
	"context"
	"errors"

	"tracker/internal/core"
)

// ErrNotFound is returned by stores when a transaction id does not exist.
var ErrNotFound = errors.New("transaction not found")

// Ports for outbound adapters. Every read returns a complete, consistent
// snapshot; callers treat it as immutable for the duration of one pass.
type (
	TransactionWriter interface {
		// Append persists the transaction and returns its assigned id.
		Append(ctx context.Context, tx core.Transaction) (id string, err error)
		// Delete removes a transaction by id.
		Delete(ctx context.Context, id string) error
	}

	TransactionReader interface {
		// ListTransactions returns the full ledger snapshot in canonical
		// order: date descending, newest first.
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	// SummaryReader provides pre-aggregated rows for the stats screens.
	SummaryReader interface {
		// ReadDailySummaries returns date-bucketed sums for the matching
		// type, ascending by date.
		ReadDailySummaries(ctx context.Context, filter core.TypeFilter) ([]core.DailyTotal, error)
		// ReadTopExpenses returns the largest expense records, biggest first.
		ReadTopExpenses(ctx context.Context, limit int) ([]core.Transaction, error)
	}
)
