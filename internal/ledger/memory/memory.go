package memory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"tracker/internal/core"
	"tracker/internal/ledger"
)

// Store is an in-memory ledger, usable on its own for development and as the
// seed-file backend. Summaries are recomputed from the snapshot on every read.
type Store struct {
	mu    sync.Mutex
	items []core.Transaction
}

func New() *Store {
	return &Store{}
}

// NewFromFiles loads an optional JSON seed file from the data directory.
// A missing or malformed seed is not an error; the store starts empty.
func NewFromFiles(base string) *Store {
	s := New()
	s.items = readSeed(filepath.Join(base, "seed_transactions.json"))
	return s
}

// Append stores the transaction, assigning an id when it has none.
func (s *Store) Append(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, tx)
	return tx.ID, nil
}

// Delete removes a transaction by id.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tx := range s.items {
		if tx.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return ledger.ErrNotFound
}

// ListTransactions returns a snapshot in canonical order: date descending,
// newest insertion first within a date.
func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.Transaction(nil), s.items...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	// The stable sort keeps insertion order within a date; flip each group so
	// the newest insertion comes first there too.
	return reverseWithinDates(out), nil
}

// ReadDailySummaries recomputes the date buckets from the current snapshot.
func (s *Store) ReadDailySummaries(ctx context.Context, filter core.TypeFilter) ([]core.DailyTotal, error) {
	snapshot, err := s.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return core.DailyTotals(snapshot, filter), nil
}

// ReadTopExpenses returns the largest expense records, biggest first.
func (s *Store) ReadTopExpenses(ctx context.Context, limit int) ([]core.Transaction, error) {
	snapshot, err := s.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	expenses := core.Filter(snapshot, core.FilterExpense, core.RangeAllTime, time.Now())
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Amount.Cents > expenses[j].Amount.Cents
	})
	if limit > 0 && len(expenses) > limit {
		expenses = expenses[:limit]
	}
	return expenses, nil
}

type seedRecord struct {
	Title    string `json:"title"`
	Amount   string `json:"amount"`
	Type     string `json:"type"`
	Date     string `json:"date"`
	Category string `json:"category"`
}

func readSeed(path string) []core.Transaction {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var rows []seedRecord
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil
	}
	var out []core.Transaction
	for _, row := range rows {
		cents, err := core.ParseDecimalToCents(row.Amount)
		if err != nil {
			continue
		}
		date, err := core.ParseDate(row.Date)
		if err != nil {
			continue
		}
		out = append(out, core.Transaction{
			ID:       uuid.New().String(),
			Title:    row.Title,
			Amount:   core.Money{Cents: cents},
			Type:     core.ParseTransactionType(row.Type),
			Date:     date,
			Category: row.Category,
		})
	}
	return out
}

func reverseWithinDates(items []core.Transaction) []core.Transaction {
	i := 0
	for i < len(items) {
		j := i
		for j < len(items) && items[j].Date.Equal(items[i].Date.Time) {
			j++
		}
		for l, r := i, j-1; l < r; l, r = l+1, r-1 {
			items[l], items[r] = items[r], items[l]
		}
		i = j
	}
	return items
}
