package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "Income"
	Expense TransactionType = "Expense"
	// Unknown is the explicit fallback arm for unrecognized type values.
	// Unknown records are excluded from income/expense sums and from typed
	// filtered views, but still appear under the "All" filter.
	Unknown TransactionType = "Unknown"
)

type (
	TransactionType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID       string // empty until persisted
		Title    string
		Amount   Money // non-negative magnitude; direction comes from Type
		Type     TransactionType
		Date     Date
		Category string // hint used to select a display icon
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyTitle    = errors.New("empty title")
	ErrInvalidType   = errors.New("invalid transaction type")
)

// ParseTransactionType maps a raw type value to the closed enumeration.
// Anything that is not income or expense becomes Unknown rather than an error.
func ParseTransactionType(s string) TransactionType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income
	case "expense":
		return Expense
	default:
		return Unknown
	}
}

// IsValid reports whether the type is one of the two persistable variants.
func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

func (t TransactionType) String() string {
	return string(t)
}

// NewDate creates a new Date from year, month, day. Dates carry no time
// component; everything is normalized to midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses the stored YYYY-MM-DD representation.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), time.UTC)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// ISO returns the canonical YYYY-MM-DD storage representation.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Signed returns the display-direction cents for a magnitude: expenses render
// negative, everything else keeps its stored magnitude.
func (m Money) Signed(t TransactionType) int64 {
	if t == Expense {
		return -m.Cents
	}
	return m.Cents
}

func (tx Transaction) Validate() error {
	if err := tx.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(tx.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(tx.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if !tx.Type.IsValid() {
		return ErrInvalidType
	}
	return nil
}
