package http

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialFeed(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial feed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFeedEvent(t *testing.T, conn *websocket.Conn) feedEvent {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev feedEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read feed event: %v", err)
	}
	return ev
}

func TestFeedSnapshotOnConnect(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	createTransaction(t, srv, "Salary", "500.00", "income", "2024-06-10")

	conn := dialFeed(t, ts)

	ev := readFeedEvent(t, conn)
	if ev.Type != feedSnapshot {
		t.Fatalf("expected snapshot first, got %q", ev.Type)
	}
	if ev.Summary.BalanceCents != 50000 {
		t.Fatalf("expected 50000 cents balance, got %d", ev.Summary.BalanceCents)
	}
}

func TestFeedBroadcastsAfterMutation(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	conn := dialFeed(t, ts)
	if ev := readFeedEvent(t, conn); ev.Type != feedSnapshot {
		t.Fatalf("expected snapshot first, got %q", ev.Type)
	}

	createTransaction(t, srv, "Rent", "200.00", "expense", "2024-06-11")

	ev := readFeedEvent(t, conn)
	if ev.Type != feedUpdate {
		t.Fatalf("expected summary update, got %q", ev.Type)
	}
	if ev.Summary.BalanceCents != -20000 {
		t.Fatalf("expected -20000 cents balance, got %d", ev.Summary.BalanceCents)
	}
	if ev.Summary.DisplayBalance != "-$200.00" {
		t.Fatalf("expected -$200.00, got %q", ev.Summary.DisplayBalance)
	}
}
