// Package http provides the HTTP server and handler implementations.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"notaspese/internal/cache"
	"notaspese/internal/core"
	"notaspese/internal/middleware/trace"
	"notaspese/internal/services"
)

// TextParser turns free-form text into a single expense candidate.
type TextParser interface {
	Parse(ctx context.Context, input string) (core.Candidate, error)
}

// ReceiptParser extracts expense candidates from a receipt image.
type ReceiptParser interface {
	Parse(ctx context.Context, image []byte, mimeType string) []core.Candidate
}

// Transcriber converts recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// ExpenseRecorder is the confirmation boundary for persisting expenses.
type ExpenseRecorder interface {
	Confirm(ctx context.Context, c core.Candidate) (core.Expense, error)
	ConfirmBatch(ctx context.Context, cands []core.Candidate) []services.BatchResult
	List(ctx context.Context) ([]core.Expense, error)
	Delete(ctx context.Context, id string) error
}

// Summarizer computes period totals.
type Summarizer interface {
	For(ctx context.Context, p core.Period) (core.Summary, error)
}

type Server struct {
	http.Server

	textParser    TextParser
	receiptParser ReceiptParser
	transcriber   Transcriber
	expenses      ExpenseRecorder
	summarizer    Summarizer

	maxUploadBytes int64
	rateLimiter    *rateLimiter

	// Summary cache, invalidated whenever a record is written or deleted.
	summaryCache     *cache.LRUCache[core.Summary]
	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

// startCleanup runs periodic cleanup to remove stale client entries
func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// stop gracefully shuts down the rate limiter cleanup goroutine
func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute
	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}

// NewServer configures routes and returns a ready-to-run http.Server.
func NewServer(addr string, maxUploadBytes int64, tp TextParser, rp ReceiptParser, tr Transcriber, er ExpenseRecorder, sm Summarizer) *Server {
	mux := http.NewServeMux()

	s := &Server{
		textParser:       tp,
		receiptParser:    rp,
		transcriber:      tr,
		expenses:         er,
		summarizer:       sm,
		maxUploadBytes:   maxUploadBytes,
		rateLimiter:      newRateLimiter(),
		summaryCache:     cache.NewLRUCache[core.Summary](8, 30*time.Second),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/api/expenses/parse", s.withLimits(s.handleParseText))
	mux.HandleFunc("/api/expenses/parse-receipt", s.withLimits(s.handleParseReceipt))
	mux.HandleFunc("/api/transcribe", s.withLimits(s.handleTranscribe))
	mux.HandleFunc("/api/expenses", s.withLimits(s.handleExpenses))
	mux.HandleFunc("/api/expenses/batch", s.withLimits(s.handleConfirmBatch))
	mux.HandleFunc("/api/expenses/", s.withLimits(s.handleExpenseByID))
	mux.HandleFunc("/api/summary", s.withLimits(s.handleSummary))

	tracer := trace.NewMiddleware()
	s.Server = http.Server{
		Addr:    addr,
		Handler: tracer.Middleware(mux),
	}

	return s
}

// withLimits applies rate limiting to mutating requests and sets
// baseline response headers.
func (s *Server) withLimits(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		next(w, r)
	}
}

// startCacheCleanup runs periodic cleanup for the summary cache.
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.summaryCache.CleanExpired()
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// invalidateSummaries drops all cached summaries. Every write path calls
// this so totals never lag behind the store.
func (s *Server) invalidateSummaries() {
	s.summaryCache.Purge()
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
