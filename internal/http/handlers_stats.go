package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"tracker/internal/core"
)

const defaultTopLimit = 10

// handleSummary returns the aggregate balance, income and expense totals.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	summary, err := s.currentSummary(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to compute summary", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read ledger")
		return
	}

	writeJSON(w, http.StatusOK, newSummaryView(summary))
}

// handleDailyStats returns chart points built from the pre-aggregated daily
// summaries, one point per calendar day in ascending order.
func (s *Server) handleDailyStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	typeFilter := core.ParseTypeFilter(r.URL.Query().Get("type"))

	totals, err := s.store.ReadDailySummaries(r.Context(), typeFilter)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to read daily summaries", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read daily summaries")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"filter": string(typeFilter),
		"points": core.ChartPoints(totals),
	})
}

// handleTopExpenses returns the largest expense records, biggest first.
func (s *Server) handleTopExpenses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := defaultTopLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	top, err := s.store.ReadTopExpenses(r.Context(), limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to read top expenses", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read top expenses")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"limit":        limit,
		"transactions": newTransactionViews(top),
	})
}
