package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Display icon identifiers. The mobile client maps these onto its drawable
// resources; unknown categories always get a usable default.
const (
	IconDefault   = "ic_default"
	IconIncome    = "ic_income"
	IconExpense   = "ic_expense"
	IconSalary    = "ic_salary"
	IconUpwork    = "ic_upwork"
	IconNetflix   = "ic_netflix"
	IconPaypal    = "ic_paypal"
	IconStarbucks = "ic_starbucks"
	IconRent      = "ic_rent"
	IconGroceries = "ic_groceries"
)

var categoryIcons = map[string]string{
	"salary":    IconSalary,
	"upwork":    IconUpwork,
	"netflix":   IconNetflix,
	"paypal":    IconPaypal,
	"starbucks": IconStarbucks,
	"rent":      IconRent,
	"groceries": IconGroceries,
}

// FormatCurrency renders signed cents as a currency string, e.g. 123456 ->
// "$1,234.56" and -20000 -> "-$200.00". Zero renders as "$0.00", never
// suppressed.
func FormatCurrency(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%s.%02d", sign, groupThousands(cents/100), cents%100)
}

func groupThousands(n int64) string {
	digits := strconv.FormatInt(n, 10)
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatDate renders a date as "Month Day, Year", e.g. "January 2, 2024".
func FormatDate(d Date) string {
	return d.Format("January 2, 2006")
}

// SelectIcon maps a record to a display icon identifier. It is total: an
// unrecognized category falls back to the type icon, and an unrecognized type
// to the default icon.
func SelectIcon(tx Transaction) string {
	if icon, ok := categoryIcons[strings.ToLower(strings.TrimSpace(tx.Category))]; ok {
		return icon
	}
	switch tx.Type {
	case Income:
		return IconIncome
	case Expense:
		return IconExpense
	default:
		return IconDefault
	}
}

// Greeting returns the time-of-day salutation shown on the home screen.
func Greeting(hour int) string {
	switch {
	case hour >= 0 && hour < 12:
		return "Good Morning"
	case hour >= 12 && hour < 18:
		return "Good Afternoon"
	default:
		return "Good Evening"
	}
}
