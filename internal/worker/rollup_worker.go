package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tracker/internal/amqp"
	"tracker/internal/core"
)

// RollupStore is the slice of the repository the worker needs: rebuilding
// the pre-aggregated daily_summaries rows. Both the sqlite and postgres
// repositories implement it.
type RollupStore interface {
	RebuildDailySummaries(ctx context.Context) error
	RebuildDailySummariesForDate(ctx context.Context, date core.Date) error
}

// RollupWorker keeps the daily_summaries rollup current. Ledger events tell
// it which date went stale; the periodic full rebuild is the backup path for
// lost messages.
type RollupWorker struct {
	store RollupStore
}

func NewRollupWorker(store RollupStore) *RollupWorker {
	return &RollupWorker{store: store}
}

// HandleLedgerEvent processes a single change notification from AMQP.
func (w *RollupWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"id", msg.ID,
		"kind", msg.Kind,
		"date", msg.Date)

	date, err := core.ParseDate(msg.Date)
	if err != nil {
		// An event with a mangled date still means the rollup is stale
		// somewhere; rebuild everything rather than dropping the message.
		slog.WarnContext(ctx, "Ledger event carries unparseable date, rebuilding all summaries",
			"date", msg.Date, "error", err)
		return w.store.RebuildDailySummaries(ctx)
	}

	if err := w.store.RebuildDailySummariesForDate(ctx, date); err != nil {
		return fmt.Errorf("rebuild summaries for %s: %w", date.ISO(), err)
	}
	return nil
}

// RunPeriodicRebuild rebuilds the whole rollup on every tick until the
// context is cancelled.
func (w *RollupWorker) RunPeriodicRebuild(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.store.RebuildDailySummaries(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic rollup rebuild failed", "error", err)
			}
		}
	}
}

// StartupRebuild runs one full rebuild so the rollup is consistent before
// events start flowing.
func (w *RollupWorker) StartupRebuild(ctx context.Context) error {
	if err := w.store.RebuildDailySummaries(ctx); err != nil {
		return fmt.Errorf("startup rollup rebuild: %w", err)
	}
	slog.InfoContext(ctx, "Startup rollup rebuild complete")
	return nil
}
