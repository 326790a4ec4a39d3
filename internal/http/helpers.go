package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tracker/internal/core"
)

// transactionView is the JSON shape of one ledger record with its
// presentation fields attached. Amount carries the display sign; the stored
// magnitude stays in amount_cents.
type transactionView struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Type          string `json:"type"`
	AmountCents   int64  `json:"amount_cents"`
	DisplayAmount string `json:"display_amount"`
	Date          string `json:"date"`
	DisplayDate   string `json:"display_date"`
	Icon          string `json:"icon"`
	Category      string `json:"category,omitempty"`
}

func newTransactionView(tx core.Transaction) transactionView {
	return transactionView{
		ID:            tx.ID,
		Title:         tx.Title,
		Type:          tx.Type.String(),
		AmountCents:   tx.Amount.Cents,
		DisplayAmount: core.FormatCurrency(tx.Amount.Signed(tx.Type)),
		Date:          tx.Date.ISO(),
		DisplayDate:   core.FormatDate(tx.Date),
		Icon:          core.SelectIcon(tx),
		Category:      tx.Category,
	}
}

func newTransactionViews(txs []core.Transaction) []transactionView {
	views := make([]transactionView, 0, len(txs))
	for _, tx := range txs {
		views = append(views, newTransactionView(tx))
	}
	return views
}

// summaryView is the JSON shape of the aggregate totals. The expense display
// string carries the negative sign; the cents fields are magnitudes except
// balance, which may be negative.
type summaryView struct {
	IncomeCents    int64  `json:"income_cents"`
	ExpenseCents   int64  `json:"expense_cents"`
	BalanceCents   int64  `json:"balance_cents"`
	DisplayIncome  string `json:"display_income"`
	DisplayExpense string `json:"display_expense"`
	DisplayBalance string `json:"display_balance"`
}

func newSummaryView(s core.Summary) summaryView {
	return summaryView{
		IncomeCents:    s.Income.Cents,
		ExpenseCents:   s.Expense.Cents,
		BalanceCents:   s.Balance.Cents,
		DisplayIncome:  core.FormatCurrency(s.Income.Signed(core.Income)),
		DisplayExpense: core.FormatCurrency(s.Expense.Signed(core.Expense)),
		DisplayBalance: core.FormatCurrency(s.Balance.Cents),
	}
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError writes a JSON error body with the given status.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
