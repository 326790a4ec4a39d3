package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tracker/internal/core"
	"tracker/internal/ledger"
)

// Repository persists the ledger in Postgres with the same rollup semantics
// as the sqlite backend: daily_summaries is adjusted in the same database
// transaction as every write.
type Repository struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	repo := &Repository{pool: pool}
	if err := repo.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return repo, nil
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

func (r *Repository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			amount_cents BIGINT NOT NULL CHECK (amount_cents >= 0),
			type TEXT NOT NULL,
			date DATE NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date DESC, created_at DESC);
		CREATE TABLE IF NOT EXISTS daily_summaries (
			date DATE NOT NULL,
			type TEXT NOT NULL,
			total_cents BIGINT NOT NULL DEFAULT 0,
			PRIMARY KEY (date, type)
		);
	`)
	return err
}

// Append implements ledger.TransactionWriter
func (r *Repository) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}

	dbTx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback(ctx)

	_, err = dbTx.Exec(ctx,
		`INSERT INTO transactions (id, title, amount_cents, type, date, category) VALUES ($1, $2, $3, $4, $5, $6)`,
		tx.ID, tx.Title, tx.Amount.Cents, string(tx.Type), tx.Date.ISO(), tx.Category)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	_, err = dbTx.Exec(ctx,
		`INSERT INTO daily_summaries (date, type, total_cents) VALUES ($1, $2, $3)
		 ON CONFLICT (date, type) DO UPDATE SET total_cents = daily_summaries.total_cents + EXCLUDED.total_cents`,
		tx.Date.ISO(), string(tx.Type), tx.Amount.Cents)
	if err != nil {
		return "", fmt.Errorf("update daily summary: %w", err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to Postgres",
		"id", tx.ID,
		"title", tx.Title,
		"amount_cents", tx.Amount.Cents,
		"type", string(tx.Type),
		"date", tx.Date.ISO())

	return tx.ID, nil
}

// Delete implements ledger.TransactionWriter
func (r *Repository) Delete(ctx context.Context, id string) error {
	dbTx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback(ctx)

	var (
		amountCents int64
		typ         string
		dateStr     string
	)
	err = dbTx.QueryRow(ctx,
		`SELECT amount_cents, type, to_char(date, 'YYYY-MM-DD') FROM transactions WHERE id = $1`, id).
		Scan(&amountCents, &typ, &dateStr)
	if errors.Is(err, pgx.ErrNoRows) {
		return ledger.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}

	if _, err := dbTx.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	_, err = dbTx.Exec(ctx,
		`UPDATE daily_summaries SET total_cents = total_cents - $1 WHERE date = $2 AND type = $3`,
		amountCents, dateStr, typ)
	if err != nil {
		return fmt.Errorf("update daily summary: %w", err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction deleted from Postgres", "id", id)
	return nil
}

// ListTransactions implements ledger.TransactionReader
func (r *Repository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, amount_cents, type, to_char(date, 'YYYY-MM-DD'), category
		 FROM transactions ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// GetTransaction returns a single transaction by id.
func (r *Repository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, title, amount_cents, type, to_char(date, 'YYYY-MM-DD'), category FROM transactions WHERE id = $1`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Transaction{}, ledger.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

// ReadDailySummaries implements ledger.SummaryReader
func (r *Repository) ReadDailySummaries(ctx context.Context, filter core.TypeFilter) ([]core.DailyTotal, error) {
	query := `SELECT to_char(date, 'YYYY-MM-DD'), SUM(total_cents) FROM daily_summaries GROUP BY date HAVING SUM(total_cents) > 0 ORDER BY date ASC`
	args := []any{}
	switch filter {
	case core.FilterIncome:
		query = `SELECT to_char(date, 'YYYY-MM-DD'), total_cents FROM daily_summaries WHERE type = $1 AND total_cents > 0 ORDER BY date ASC`
		args = append(args, string(core.Income))
	case core.FilterExpense:
		query = `SELECT to_char(date, 'YYYY-MM-DD'), total_cents FROM daily_summaries WHERE type = $1 AND total_cents > 0 ORDER BY date ASC`
		args = append(args, string(core.Expense))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query daily summaries: %w", err)
	}
	defer rows.Close()

	var totals []core.DailyTotal
	for rows.Next() {
		var (
			dateStr string
			cents   int64
		)
		if err := rows.Scan(&dateStr, &cents); err != nil {
			return nil, fmt.Errorf("scan daily summary: %w", err)
		}
		date, err := core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse summary date %q: %w", dateStr, err)
		}
		totals = append(totals, core.DailyTotal{Date: date, Total: core.Money{Cents: cents}})
	}
	return totals, rows.Err()
}

// ReadTopExpenses implements ledger.SummaryReader
func (r *Repository) ReadTopExpenses(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, amount_cents, type, to_char(date, 'YYYY-MM-DD'), category
		 FROM transactions WHERE type = $1 ORDER BY amount_cents DESC LIMIT $2`,
		string(core.Expense), limit)
	if err != nil {
		return nil, fmt.Errorf("query top expenses: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// RebuildDailySummaries recomputes the whole rollup table from the ledger.
func (r *Repository) RebuildDailySummaries(ctx context.Context) error {
	dbTx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback(ctx)

	if _, err := dbTx.Exec(ctx, `DELETE FROM daily_summaries`); err != nil {
		return fmt.Errorf("clear daily summaries: %w", err)
	}
	_, err = dbTx.Exec(ctx,
		`INSERT INTO daily_summaries (date, type, total_cents)
		 SELECT date, type, SUM(amount_cents) FROM transactions GROUP BY date, type`)
	if err != nil {
		return fmt.Errorf("rebuild daily summaries: %w", err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Daily summaries rebuilt")
	return nil
}

// RebuildDailySummariesForDate recomputes the rollup buckets of one date.
func (r *Repository) RebuildDailySummariesForDate(ctx context.Context, date core.Date) error {
	dbTx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback(ctx)

	if _, err := dbTx.Exec(ctx, `DELETE FROM daily_summaries WHERE date = $1`, date.ISO()); err != nil {
		return fmt.Errorf("clear daily summary: %w", err)
	}
	_, err = dbTx.Exec(ctx,
		`INSERT INTO daily_summaries (date, type, total_cents)
		 SELECT date, type, SUM(amount_cents) FROM transactions WHERE date = $1 GROUP BY date, type`,
		date.ISO())
	if err != nil {
		return fmt.Errorf("rebuild daily summary: %w", err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func scanTransaction(row pgx.Row) (core.Transaction, error) {
	var (
		tx      core.Transaction
		typ     string
		dateStr string
	)
	if err := row.Scan(&tx.ID, &tx.Title, &tx.Amount.Cents, &typ, &dateStr, &tx.Category); err != nil {
		return core.Transaction{}, err
	}
	tx.Type = core.ParseTransactionType(typ)
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", dateStr, err)
	}
	tx.Date = date
	return tx, nil
}

func scanTransactions(rows pgx.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}
