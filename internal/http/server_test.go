package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"tracker/internal/core"
	"tracker/internal/ledger/memory"
	"tracker/internal/prefs"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store := memory.New()
	prefsStore, err := prefs.Load(filepath.Join(t.TempDir(), "prefs.json"))
	if err != nil {
		t.Fatalf("load prefs: %v", err)
	}

	srv := NewServer(":0", store, prefsStore)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func createTransaction(t *testing.T, srv *Server, title, amount, txType, date string) string {
	t.Helper()

	body := `{"title":"` + title + `","amount":"` + amount + `","type":"` + txType + `","date":"` + date + `"}`
	rr := doJSON(t, srv, http.MethodPost, "/api/transactions", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create %s: status=%d body=%s", title, rr.Code, rr.Body.String())
	}

	var view struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if view.ID == "" {
		t.Fatalf("created transaction has no id")
	}
	return view.ID
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := doJSON(t, srv, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestSummaryReflectsLedger(t *testing.T) {
	srv := newTestServer(t)

	createTransaction(t, srv, "Salary", "500.00", "income", "2024-06-10")
	createTransaction(t, srv, "Rent", "200.00", "expense", "2024-06-11")
	createTransaction(t, srv, "Groceries", "50.00", "expense", "2024-06-12")

	rr := doJSON(t, srv, http.MethodGet, "/api/summary", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("summary status=%d", rr.Code)
	}

	var view summaryView
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode summary: %v", err)
	}

	if view.BalanceCents != 25000 {
		t.Fatalf("expected balance 25000 cents, got %d", view.BalanceCents)
	}
	if view.DisplayIncome != "$500.00" {
		t.Fatalf("expected $500.00 income, got %q", view.DisplayIncome)
	}
	if view.DisplayExpense != "-$250.00" {
		t.Fatalf("expected -$250.00 expense, got %q", view.DisplayExpense)
	}
	if view.DisplayBalance != "$250.00" {
		t.Fatalf("expected $250.00 balance, got %q", view.DisplayBalance)
	}
}

func TestCreateValidation(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"empty title", `{"title":"","amount":"1.00","type":"income","date":"2024-06-10"}`, http.StatusUnprocessableEntity},
		{"bad amount", `{"title":"x","amount":"abc","type":"income","date":"2024-06-10"}`, http.StatusUnprocessableEntity},
		{"negative amount", `{"title":"x","amount":"-5","type":"income","date":"2024-06-10"}`, http.StatusUnprocessableEntity},
		{"unknown type", `{"title":"x","amount":"1.00","type":"transfer","date":"2024-06-10"}`, http.StatusUnprocessableEntity},
		{"bad date", `{"title":"x","amount":"1.00","type":"income","date":"junk"}`, http.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := doJSON(t, srv, http.MethodPost, "/api/transactions", tc.body)
			if rr.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestListFiltersByType(t *testing.T) {
	srv := newTestServer(t)

	createTransaction(t, srv, "Salary", "500.00", "income", "2024-06-10")
	createTransaction(t, srv, "Rent", "200.00", "expense", "2024-06-11")

	rr := doJSON(t, srv, http.MethodGet, "/api/transactions?type=income", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list status=%d", rr.Code)
	}

	var resp struct {
		Filter       string            `json:"filter"`
		Count        int               `json:"count"`
		Transactions []transactionView `json:"transactions"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list: %v", err)
	}

	if resp.Filter != "Income" {
		t.Fatalf("expected Income filter, got %q", resp.Filter)
	}
	if resp.Count != 1 || len(resp.Transactions) != 1 {
		t.Fatalf("expected one income record, got %d", resp.Count)
	}
	if resp.Transactions[0].Title != "Salary" {
		t.Fatalf("expected Salary, got %q", resp.Transactions[0].Title)
	}
	if resp.Transactions[0].DisplayAmount != "$500.00" {
		t.Fatalf("expected $500.00, got %q", resp.Transactions[0].DisplayAmount)
	}
}

func TestListUnknownFilterDegradesToAll(t *testing.T) {
	srv := newTestServer(t)

	createTransaction(t, srv, "Salary", "500.00", "income", "2024-06-10")
	createTransaction(t, srv, "Rent", "200.00", "expense", "2024-06-11")

	rr := doJSON(t, srv, http.MethodGet, "/api/transactions?type=junk&range=junk", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list status=%d", rr.Code)
	}

	var resp struct {
		Filter string `json:"filter"`
		Range  string `json:"range"`
		Count  int    `json:"count"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list: %v", err)
	}

	if resp.Filter != "All" || resp.Range != "All Time" {
		t.Fatalf("expected permissive defaults, got filter=%q range=%q", resp.Filter, resp.Range)
	}
	if resp.Count != 2 {
		t.Fatalf("expected both records, got %d", resp.Count)
	}
}

func TestDeleteTransaction(t *testing.T) {
	srv := newTestServer(t)

	id := createTransaction(t, srv, "Rent", "200.00", "expense", "2024-06-11")

	rr := doJSON(t, srv, http.MethodDelete, "/api/transactions/"+id, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, srv, http.MethodDelete, "/api/transactions/"+id, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for repeated delete, got %d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/transactions", "")
	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if resp.Count != 0 {
		t.Fatalf("expected empty ledger after delete, got %d", resp.Count)
	}
}

func TestDailyStats(t *testing.T) {
	srv := newTestServer(t)

	createTransaction(t, srv, "Salary", "500.00", "income", "2024-06-10")
	createTransaction(t, srv, "Rent", "200.00", "expense", "2024-06-11")
	createTransaction(t, srv, "Bonus", "100.00", "income", "2024-06-12")

	rr := doJSON(t, srv, http.MethodGet, "/api/stats/daily?type=income", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("daily stats status=%d", rr.Code)
	}

	var resp struct {
		Points []core.ChartPoint `json:"points"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode daily stats: %v", err)
	}

	if len(resp.Points) != 2 {
		t.Fatalf("expected two income days, got %d", len(resp.Points))
	}
	if resp.Points[0].X >= resp.Points[1].X {
		t.Fatalf("expected ascending x coordinates")
	}
	if resp.Points[0].Y != 500.0 {
		t.Fatalf("expected 500.0 on first day, got %v", resp.Points[0].Y)
	}
}

func TestTopExpenses(t *testing.T) {
	srv := newTestServer(t)

	createTransaction(t, srv, "Rent", "800.00", "expense", "2024-06-10")
	createTransaction(t, srv, "Groceries", "50.00", "expense", "2024-06-11")
	createTransaction(t, srv, "Salary", "5000.00", "income", "2024-06-12")

	rr := doJSON(t, srv, http.MethodGet, "/api/stats/top?limit=1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("top status=%d", rr.Code)
	}

	var resp struct {
		Transactions []transactionView `json:"transactions"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode top: %v", err)
	}

	if len(resp.Transactions) != 1 {
		t.Fatalf("expected one record, got %d", len(resp.Transactions))
	}
	if resp.Transactions[0].Title != "Rent" {
		t.Fatalf("expected biggest expense first, got %q", resp.Transactions[0].Title)
	}
	if resp.Transactions[0].DisplayAmount != "-$800.00" {
		t.Fatalf("expected -$800.00, got %q", resp.Transactions[0].DisplayAmount)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/api/profile", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("profile status=%d", rr.Code)
	}

	var view profileView
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if view.Name != "" {
		t.Fatalf("expected empty name initially, got %q", view.Name)
	}
	if !strings.HasPrefix(view.Greeting, "Good ") {
		t.Fatalf("unexpected greeting %q", view.Greeting)
	}

	rr = doJSON(t, srv, http.MethodPut, "/api/profile", `{"name":"Ada"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("profile update status=%d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/profile", "")
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if view.Name != "Ada" {
		t.Fatalf("expected Ada, got %q", view.Name)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPut, "/api/transactions"},
		{http.MethodPost, "/api/summary"},
		{http.MethodPost, "/api/stats/daily"},
		{http.MethodGet, "/api/transactions/some-id"},
	}

	for _, tc := range cases {
		rr := doJSON(t, srv, tc.method, tc.path, "")
		if rr.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s: expected 405, got %d", tc.method, tc.path, rr.Code)
		}
	}
}
