package core

import "testing"

func sampleRecords() []Transaction {
	return []Transaction{
		{ID: "1", Title: "Paycheck", Amount: Money{Cents: 50000}, Type: Income, Date: NewDate(2024, 1, 1)},
		{ID: "2", Title: "Groceries", Amount: Money{Cents: 20000}, Type: Expense, Date: NewDate(2024, 1, 2)},
		{ID: "3", Title: "Coffee", Amount: Money{Cents: 5000}, Type: Expense, Date: NewDate(2024, 1, 3)},
	}
}

func TestSummarize(t *testing.T) {
	records := sampleRecords()

	if got := TotalIncome(records).Cents; got != 50000 {
		t.Fatalf("total income: expected 50000, got %d", got)
	}
	if got := TotalExpense(records).Cents; got != 25000 {
		t.Fatalf("total expense: expected 25000, got %d", got)
	}
	if got := Balance(records).Cents; got != 25000 {
		t.Fatalf("balance: expected 25000, got %d", got)
	}

	s := Summarize(records)
	if s.Income.Cents != 50000 || s.Expense.Cents != 25000 || s.Balance.Cents != 25000 {
		t.Fatalf("summary mismatch: %+v", s)
	}
	if s.Balance.Cents != s.Income.Cents-s.Expense.Cents {
		t.Fatalf("balance must equal income minus expense: %+v", s)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Income.Cents != 0 || s.Expense.Cents != 0 || s.Balance.Cents != 0 {
		t.Fatalf("empty input must sum to zero: %+v", s)
	}
}

func TestSummarizeUnknownTypeExcluded(t *testing.T) {
	records := append(sampleRecords(), Transaction{
		ID: "4", Title: "Wire", Amount: Money{Cents: 99900}, Type: ParseTransactionType("Transfer"), Date: NewDate(2024, 1, 4),
	})

	if got := TotalIncome(records).Cents; got != 50000 {
		t.Fatalf("unknown type leaked into income: got %d", got)
	}
	if got := TotalExpense(records).Cents; got != 25000 {
		t.Fatalf("unknown type leaked into expense: got %d", got)
	}
	if got := len(Filter(records, FilterAll, RangeAllTime, NewDate(2024, 1, 5).Time)); got != 4 {
		t.Fatalf("unknown type must appear under All: got %d records", got)
	}
}

func TestSummarizeDoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	Summarize(records)
	DailyTotals(records, FilterAll)
	if records[0].Amount.Cents != 50000 || records[1].Type != Expense {
		t.Fatalf("input snapshot mutated: %+v", records)
	}
}

func TestDailyTotals(t *testing.T) {
	records := []Transaction{
		{Title: "a", Amount: Money{Cents: 100}, Type: Expense, Date: NewDate(2024, 1, 3)},
		{Title: "b", Amount: Money{Cents: 200}, Type: Expense, Date: NewDate(2024, 1, 1)},
		{Title: "c", Amount: Money{Cents: 300}, Type: Expense, Date: NewDate(2024, 1, 3)},
		{Title: "d", Amount: Money{Cents: 999}, Type: Income, Date: NewDate(2024, 1, 2)},
	}

	totals := DailyTotals(records, FilterExpense)
	if len(totals) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(totals))
	}
	if totals[0].Date.ISO() != "2024-01-01" || totals[0].Total.Cents != 200 {
		t.Fatalf("bucket 0 mismatch: %+v", totals[0])
	}
	if totals[1].Date.ISO() != "2024-01-03" || totals[1].Total.Cents != 400 {
		t.Fatalf("bucket 1 mismatch: %+v", totals[1])
	}
}

func TestDailyTotalsEmpty(t *testing.T) {
	if totals := DailyTotals(nil, FilterAll); len(totals) != 0 {
		t.Fatalf("expected empty buckets, got %+v", totals)
	}
}
