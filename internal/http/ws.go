package http

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"tracker/internal/core"
)

// feedEvent is one message pushed to subscribed clients.
type feedEvent struct {
	Type    string      `json:"type"`
	Summary summaryView `json:"summary"`
}

const (
	feedSnapshot = "snapshot"
	feedUpdate   = "summary_update"
)

// feedHub fans ledger summary updates out to connected WebSocket clients.
// Every mutation re-broadcasts the aggregate summary so subscribers always
// hold the latest snapshot.
type feedHub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn

	stop     chan struct{}
	stopOnce sync.Once
}

func newFeedHub() *feedHub {
	return &feedHub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		stop:       make(chan struct{}),
	}
}

// start begins the hub loop. All client map access happens on this goroutine.
func (h *feedHub) start() {
	go func() {
		for {
			select {
			case client := <-h.register:
				h.clients[client] = true
				slog.Debug("Feed client connected", "clients", len(h.clients))
			case client := <-h.unregister:
				if _, ok := h.clients[client]; ok {
					delete(h.clients, client)
					client.Close()
				}
				slog.Debug("Feed client disconnected", "clients", len(h.clients))
			case message := <-h.broadcast:
				for client := range h.clients {
					if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
						slog.Warn("Failed to push feed message, dropping client", "error", err)
						client.Close()
						delete(h.clients, client)
					}
				}
			case <-h.stop:
				for client := range h.clients {
					client.Close()
					delete(h.clients, client)
				}
				return
			}
		}
	}()
}

// broadcastSummary queues a summary update for all subscribers. A full hub
// drops the update rather than blocking the request path; the next mutation
// re-broadcasts anyway.
func (h *feedHub) broadcastSummary(s core.Summary) {
	data, err := json.Marshal(feedEvent{Type: feedUpdate, Summary: newSummaryView(s)})
	if err != nil {
		slog.Error("Failed to marshal feed event", "error", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		slog.Warn("Feed broadcast buffer full, dropping update")
	}
}

func (h *feedHub) registerClient(conn *websocket.Conn) {
	select {
	case h.register <- conn:
	case <-h.stop:
		conn.Close()
	}
}

func (h *feedHub) unregisterClient(conn *websocket.Conn) {
	select {
	case h.unregister <- conn:
	case <-h.stop:
		conn.Close()
	}
}

// shutdown closes every connection and ends the hub loop.
func (h *feedHub) shutdown() {
	h.stopOnce.Do(func() {
		close(h.stop)
	})
}
