package core

import "testing"

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		cents int64
		out   string
	}{
		{0, "$0.00"},
		{1, "$0.01"},
		{123, "$1.23"},
		{50000, "$500.00"},
		{123456, "$1,234.56"},
		{100000000, "$1,000,000.00"},
		{-20000, "-$200.00"},
		{-5, "-$0.05"},
	}
	for _, tc := range cases {
		if got := FormatCurrency(tc.cents); got != tc.out {
			t.Fatalf("%d: expected %q, got %q", tc.cents, tc.out, got)
		}
	}
}

func TestSignedAmount(t *testing.T) {
	m := Money{Cents: 1500}
	if got := m.Signed(Income); got != 1500 {
		t.Fatalf("income must stay positive, got %d", got)
	}
	if got := m.Signed(Expense); got != -1500 {
		t.Fatalf("expense must render negative, got %d", got)
	}
	if got := FormatCurrency(m.Signed(Expense)); got != "-$15.00" {
		t.Fatalf("expected -$15.00, got %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(NewDate(2024, 1, 2)); got != "January 2, 2024" {
		t.Fatalf("expected 'January 2, 2024', got %q", got)
	}
	if got := FormatDate(NewDate(2023, 12, 25)); got != "December 25, 2023" {
		t.Fatalf("expected 'December 25, 2023', got %q", got)
	}
}

func TestSelectIcon(t *testing.T) {
	cases := []struct {
		tx   Transaction
		icon string
	}{
		{Transaction{Category: "Netflix", Type: Expense}, IconNetflix},
		{Transaction{Category: "salary", Type: Income}, IconSalary},
		{Transaction{Category: "Lottery", Type: Income}, IconIncome},
		{Transaction{Category: "Vet", Type: Expense}, IconExpense},
		{Transaction{Category: "", Type: Unknown}, IconDefault},
		{Transaction{Category: "???", Type: ParseTransactionType("Transfer")}, IconDefault},
	}
	for i, tc := range cases {
		if got := SelectIcon(tc.tx); got != tc.icon {
			t.Fatalf("case %d: expected %q, got %q", i, tc.icon, got)
		}
	}
}

func TestGreeting(t *testing.T) {
	cases := []struct {
		hour int
		out  string
	}{
		{0, "Good Morning"},
		{11, "Good Morning"},
		{12, "Good Afternoon"},
		{17, "Good Afternoon"},
		{18, "Good Evening"},
		{23, "Good Evening"},
	}
	for _, tc := range cases {
		if got := Greeting(tc.hour); got != tc.out {
			t.Fatalf("hour %d: expected %q, got %q", tc.hour, tc.out, got)
		}
	}
}
