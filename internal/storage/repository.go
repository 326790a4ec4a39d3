package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"tracker/internal/core"
	"tracker/internal/ledger"
)

// SQLiteRepository persists the ledger in a local sqlite file. It also keeps
// the daily_summaries rollup table current: every append and delete adjusts
// the affected bucket inside the same transaction, so summary reads never see
// a torn state.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements ledger.TransactionWriter
func (r *SQLiteRepository) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	_, err = dbTx.ExecContext(ctx,
		`INSERT INTO transactions (id, title, amount_cents, type, date, category) VALUES (?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Title, tx.Amount.Cents, string(tx.Type), tx.Date.ISO(), tx.Category)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	_, err = dbTx.ExecContext(ctx,
		`INSERT INTO daily_summaries (date, type, total_cents) VALUES (?, ?, ?)
		 ON CONFLICT(date, type) DO UPDATE SET total_cents = total_cents + excluded.total_cents`,
		tx.Date.ISO(), string(tx.Type), tx.Amount.Cents)
	if err != nil {
		return "", fmt.Errorf("update daily summary: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", tx.ID,
		"title", tx.Title,
		"amount_cents", tx.Amount.Cents,
		"type", string(tx.Type),
		"date", tx.Date.ISO())

	return tx.ID, nil
}

// Delete implements ledger.TransactionWriter
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	var (
		amountCents int64
		typ         string
		date        string
	)
	err = dbTx.QueryRowContext(ctx,
		`SELECT amount_cents, type, date FROM transactions WHERE id = ?`, id).
		Scan(&amountCents, &typ, &date)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	_, err = dbTx.ExecContext(ctx,
		`UPDATE daily_summaries SET total_cents = total_cents - ? WHERE date = ? AND type = ?`,
		amountCents, date, typ)
	if err != nil {
		return fmt.Errorf("update daily summary: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction deleted from SQLite", "id", id)
	return nil
}

// ListTransactions implements ledger.TransactionReader
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, amount_cents, type, date, category
		 FROM transactions ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// GetTransaction returns a single transaction by id.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, amount_cents, type, date, category FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ledger.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

// ReadDailySummaries implements ledger.SummaryReader. It reads the
// pre-aggregated rollup table rather than re-scanning the ledger.
func (r *SQLiteRepository) ReadDailySummaries(ctx context.Context, filter core.TypeFilter) ([]core.DailyTotal, error) {
	query := `SELECT date, SUM(total_cents) FROM daily_summaries GROUP BY date HAVING SUM(total_cents) > 0 ORDER BY date ASC`
	args := []any{}
	switch filter {
	case core.FilterIncome:
		query = `SELECT date, total_cents FROM daily_summaries WHERE type = ? AND total_cents > 0 ORDER BY date ASC`
		args = append(args, string(core.Income))
	case core.FilterExpense:
		query = `SELECT date, total_cents FROM daily_summaries WHERE type = ? AND total_cents > 0 ORDER BY date ASC`
		args = append(args, string(core.Expense))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
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
func (r *SQLiteRepository) ReadTopExpenses(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, amount_cents, type, date, category
		 FROM transactions WHERE type = ? ORDER BY amount_cents DESC LIMIT ?`,
		string(core.Expense), limit)
	if err != nil {
		return nil, fmt.Errorf("query top expenses: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// RebuildDailySummaries recomputes the whole rollup table from the ledger.
// Used by the worker as the backup path for missed events.
func (r *SQLiteRepository) RebuildDailySummaries(ctx context.Context) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM daily_summaries`); err != nil {
		return fmt.Errorf("clear daily summaries: %w", err)
	}
	_, err = dbTx.ExecContext(ctx,
		`INSERT INTO daily_summaries (date, type, total_cents)
		 SELECT date, type, SUM(amount_cents) FROM transactions GROUP BY date, type`)
	if err != nil {
		return fmt.Errorf("rebuild daily summaries: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Daily summaries rebuilt")
	return nil
}

// RebuildDailySummariesForDate recomputes the rollup buckets of one date.
func (r *SQLiteRepository) RebuildDailySummariesForDate(ctx context.Context, date core.Date) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM daily_summaries WHERE date = ?`, date.ISO()); err != nil {
		return fmt.Errorf("clear daily summary: %w", err)
	}
	_, err = dbTx.ExecContext(ctx,
		`INSERT INTO daily_summaries (date, type, total_cents)
		 SELECT date, type, SUM(amount_cents) FROM transactions WHERE date = ? GROUP BY date, type`,
		date.ISO())
	if err != nil {
		return fmt.Errorf("rebuild daily summary: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx      core.Transaction
		typ     string
		dateStr string
	)
	if err := row.Scan(&tx.ID, &tx.Title, &tx.Amount.Cents, &typ, &dateStr, &tx.Category); err != nil {
		return core.Transaction{}, err
	}
	// Stored type values pass through the permissive parser so rows written
	// by older schema versions degrade to Unknown instead of failing.
	tx.Type = core.ParseTransactionType(typ)
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", dateStr, err)
	}
	tx.Date = date
	return tx, nil
}

func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
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
