package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tracker/internal/core"
	"tracker/internal/ledger"
)

type createTransactionRequest struct {
	Title    string `json:"title"`
	Amount   string `json:"amount"`
	Type     string `json:"type"`
	Date     string `json:"date"`
	Category string `json:"category"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTransactions(w, r)
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleListTransactions returns the filtered snapshot with presentation
// fields attached. Unrecognized filter values degrade to the permissive
// defaults instead of failing the request.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	typeFilter := core.ParseTypeFilter(r.URL.Query().Get("type"))
	dateRange := core.ParseDateRange(r.URL.Query().Get("range"))

	records, err := s.listSnapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read ledger")
		return
	}

	filtered := core.Filter(records, typeFilter, dateRange, time.Now())

	writeJSON(w, http.StatusOK, map[string]any{
		"filter":       string(typeFilter),
		"range":        string(dateRange),
		"count":        len(filtered),
		"transactions": newTransactionViews(filtered),
	})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	title := sanitizeInput(req.Title)
	if title == "" {
		writeError(w, http.StatusUnprocessableEntity, "title is required")
		return
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Amount))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	txType := core.ParseTransactionType(req.Type)
	if !txType.IsValid() {
		writeError(w, http.StatusUnprocessableEntity, "type must be income or expense")
		return
	}

	date := core.DateOf(time.Now())
	if strings.TrimSpace(req.Date) != "" {
		date, err = core.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "date must be YYYY-MM-DD")
			return
		}
	}

	tx := core.Transaction{
		Title:    title,
		Amount:   core.Money{Cents: cents},
		Type:     txType,
		Date:     date,
		Category: sanitizeInput(req.Category),
	}
	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.store.Append(r.Context(), tx)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create transaction", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save transaction")
		return
	}

	s.invalidateAndBroadcast(r.Context())

	tx.ID = id
	writeJSON(w, http.StatusCreated, newTransactionView(tx))
}

// handleTransactionByID serves /api/transactions/{id}.
func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", "DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "transaction id is required")
		return
	}

	if err := s.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to delete transaction", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	s.invalidateAndBroadcast(r.Context())

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}
