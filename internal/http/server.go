package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"tracker/internal/backend"
	"tracker/internal/cache"
	"tracker/internal/core"
	"tracker/internal/prefs"
)

type Server struct {
	http.Server
	store       backend.Backend
	prefs       *prefs.Store
	rateLimiter *rateLimiter
	metrics     *securityMetrics
	feed        *feedHub
	upgrader    websocket.Upgrader

	// Read caches, purged on every mutation
	listCache    *cache.LRUCache[[]core.Transaction]
	summaryCache *cache.LRUCache[core.Summary]
	cacheManager *cache.Manager

	startedAt    time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, store backend.Backend, prefsStore *prefs.Store) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		store:       store,
		prefs:       prefsStore,
		rateLimiter: newRateLimiter(),
		metrics:     &securityMetrics{},
		feed:        newFeedHub(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		listCache:    cache.NewLRUCache[[]core.Transaction](100, 5*time.Minute),
		summaryCache: cache.NewLRUCache[core.Summary](10, 5*time.Minute),
		cacheManager: cache.NewManager(),
		startedAt:    time.Now(),
	}

	s.cacheManager.Register(s.listCache)
	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.StartCleanup(10 * time.Minute)
	s.feed.start()

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("/api/transactions", s.withSecurityHeaders(s.handleTransactions))
	mux.HandleFunc("/api/transactions/", s.withSecurityHeaders(s.handleTransactionByID))
	mux.HandleFunc("/api/summary", s.withSecurityHeaders(s.handleSummary))
	mux.HandleFunc("/api/stats/daily", s.withSecurityHeaders(s.handleDailyStats))
	mux.HandleFunc("/api/stats/top", s.withSecurityHeaders(s.handleTopExpenses))
	mux.HandleFunc("/api/profile", s.withSecurityHeaders(s.handleProfile))
	mux.HandleFunc("/ws", s.handleFeed)

	return s
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Rate limit mutations only
		if (r.Method == http.MethodPost || r.Method == http.MethodDelete || r.Method == http.MethodPut) &&
			!s.rateLimiter.allow(clientIP, s.metrics) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).String(),
	})
}

// handleReady verifies the ledger store answers before reporting ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]string)

	if _, err := s.store.ReadTopExpenses(ctx, 1); err != nil {
		checks["store"] = "failed: " + err.Error()
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": status,
		"checks": checks,
	})
}

// handleFeed upgrades the connection and subscribes it to summary updates.
// The client receives the current snapshot immediately on connect.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.ErrorContext(r.Context(), "WebSocket upgrade failed", "error", err)
		return
	}

	summary, err := s.currentSummary(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to read summary for feed snapshot", "error", err)
	} else {
		data, err := json.Marshal(feedEvent{Type: feedSnapshot, Summary: newSummaryView(summary)})
		if err == nil {
			conn.WriteMessage(websocket.TextMessage, data)
		}
	}

	s.feed.registerClient(conn)

	// Drain the connection to detect disconnects; inbound messages are ignored.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.feed.unregisterClient(conn)
				return
			}
		}
	}()
}

// currentSummary computes the aggregate totals over the full snapshot,
// served from cache when fresh.
func (s *Server) currentSummary(ctx context.Context) (core.Summary, error) {
	if cached, ok := s.summaryCache.Get("summary"); ok {
		return cached, nil
	}

	records, err := s.listSnapshot(ctx)
	if err != nil {
		return core.Summary{}, err
	}

	summary := core.Summarize(records)
	s.summaryCache.Set("summary", summary)
	return summary, nil
}

// listSnapshot returns the full canonical-order snapshot, cached briefly.
func (s *Server) listSnapshot(ctx context.Context) ([]core.Transaction, error) {
	if cached, ok := s.listCache.Get("all"); ok {
		return cached, nil
	}

	records, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}

	s.listCache.Set("all", records)
	return records, nil
}

// invalidateAndBroadcast purges the read caches after a mutation and pushes
// the fresh summary to feed subscribers.
func (s *Server) invalidateAndBroadcast(ctx context.Context) {
	s.listCache.Purge()
	s.summaryCache.Purge()

	summary, err := s.currentSummary(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to compute summary for broadcast", "error", err)
		return
	}
	s.feed.broadcastSummary(summary)
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		s.feed.shutdown()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
