package core

import (
	"strings"
	"time"
)

const (
	FilterAll     TypeFilter = "All"
	FilterIncome  TypeFilter = "Income"
	FilterExpense TypeFilter = "Expense"
)

const (
	RangeAllTime    DateRange = "All Time"
	RangeYesterday  DateRange = "Yesterday"
	RangeToday      DateRange = "Today"
	RangeLast30Days DateRange = "Last 30 Days"
	RangeLast90Days DateRange = "Last 90 Days"
	RangeLastYear   DateRange = "Last Year"
)

type (
	// TypeFilter selects records by transaction type.
	TypeFilter string

	// DateRange selects records whose date falls inside a window anchored at
	// the current date.
	DateRange string
)

// ParseTypeFilter maps a raw filter value to the closed enumeration. An
// unrecognized value degrades to the permissive All filter.
func ParseTypeFilter(s string) TypeFilter {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return FilterIncome
	case "expense":
		return FilterExpense
	default:
		return FilterAll
	}
}

// Matches reports whether a record of the given type passes the filter.
// Unknown-typed records only pass the All filter.
func (f TypeFilter) Matches(t TransactionType) bool {
	switch f {
	case FilterIncome:
		return t == Income
	case FilterExpense:
		return t == Expense
	default:
		return true
	}
}

// ParseDateRange maps a raw selector to the closed enumeration. Unrecognized
// or placeholder selectors degrade to All Time, which applies no filtering.
func ParseDateRange(s string) DateRange {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yesterday":
		return RangeYesterday
	case "today":
		return RangeToday
	case "last 30 days":
		return RangeLast30Days
	case "last 90 days":
		return RangeLast90Days
	case "last year":
		return RangeLastYear
	default:
		return RangeAllTime
	}
}

// Window returns the inclusive [start, end] date window for the range,
// anchored at now. The bounded result is false for All Time, meaning every
// date passes.
func (r DateRange) Window(now time.Time) (start, end Date, bounded bool) {
	today := DateOf(now)
	switch r {
	case RangeToday:
		return today, today, true
	case RangeYesterday:
		y := DateOf(today.AddDate(0, 0, -1))
		return y, y, true
	case RangeLast30Days:
		return DateOf(today.AddDate(0, 0, -29)), today, true
	case RangeLast90Days:
		return DateOf(today.AddDate(0, 0, -89)), today, true
	case RangeLastYear:
		return DateOf(today.AddDate(-1, 0, 0)), today, true
	default:
		return Date{}, Date{}, false
	}
}

// Contains reports whether a date falls inside the window, inclusive on both
// ends. Unbounded ranges contain every date.
func (r DateRange) Contains(d Date, now time.Time) bool {
	start, end, bounded := r.Window(now)
	if !bounded {
		return true
	}
	return !d.Before(start.Time) && !d.After(end.Time)
}

// Filter returns the subset of records matching both predicates, preserving
// the relative order of the input snapshot. The snapshot itself is never
// mutated; filtering an already-filtered list again is a no-op.
func Filter(records []Transaction, tf TypeFilter, dr DateRange, now time.Time) []Transaction {
	out := make([]Transaction, 0, len(records))
	for _, tx := range records {
		if !tf.Matches(tx.Type) {
			continue
		}
		if !dr.Contains(tx.Date, now) {
			continue
		}
		out = append(out, tx)
	}
	return out
}
