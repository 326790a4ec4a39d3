package core

import "sort"

// Summary holds the derived totals for one snapshot of the ledger.
// It is recomputed on every read and never persisted.
type Summary struct {
	Income  Money
	Expense Money
	Balance Money // income minus expense, may be negative
}

// DailyTotal is a date-bucketed sum, the row shape the stats chart consumes.
type DailyTotal struct {
	Date  Date
	Total Money
}

// TotalIncome sums the amounts of all income records. Unknown-typed records
// count toward neither total.
func TotalIncome(records []Transaction) Money {
	var cents int64
	for _, tx := range records {
		if tx.Type == Income {
			cents += tx.Amount.Cents
		}
	}
	return Money{Cents: cents}
}

// TotalExpense sums the amounts of all expense records.
func TotalExpense(records []Transaction) Money {
	var cents int64
	for _, tx := range records {
		if tx.Type == Expense {
			cents += tx.Amount.Cents
		}
	}
	return Money{Cents: cents}
}

// Balance is total income minus total expense.
func Balance(records []Transaction) Money {
	return Money{Cents: TotalIncome(records).Cents - TotalExpense(records).Cents}
}

// Summarize computes all three totals in a single pass over the snapshot.
func Summarize(records []Transaction) Summary {
	var income, expense int64
	for _, tx := range records {
		switch tx.Type {
		case Income:
			income += tx.Amount.Cents
		case Expense:
			expense += tx.Amount.Cents
		}
	}
	return Summary{
		Income:  Money{Cents: income},
		Expense: Money{Cents: expense},
		Balance: Money{Cents: income - expense},
	}
}

// DailyTotals buckets the matching records by calendar date and sums each
// bucket, returning the buckets in ascending date order. The input snapshot is
// never mutated.
func DailyTotals(records []Transaction, filter TypeFilter) []DailyTotal {
	buckets := make(map[string]int64)
	dates := make(map[string]Date)
	for _, tx := range records {
		if !filter.Matches(tx.Type) {
			continue
		}
		key := tx.Date.ISO()
		buckets[key] += tx.Amount.Cents
		dates[key] = tx.Date
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	totals := make([]DailyTotal, 0, len(keys))
	for _, key := range keys {
		totals = append(totals, DailyTotal{
			Date:  dates[key],
			Total: Money{Cents: buckets[key]},
		})
	}
	return totals
}
