// Package http exposes the finance API over JSON.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
)

const overviewCacheSize = 1000

type Server struct {
	http.Server

	finance     *services.FinanceService
	rateLimiter *ratelimit.Limiter

	// Per-user overview cache, invalidated on posting.
	overviewCache *cache.TTLCache[core.Overview]

	shutdownOnce sync.Once
}

type ServerConfig struct {
	Addr             string
	JWTSecret        string
	OverviewCacheTTL time.Duration
	RateLimit        ratelimit.Config
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(cfg ServerConfig, finance *services.FinanceService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		finance:       finance,
		rateLimiter:   ratelimit.NewLimiter(cfg.RateLimit),
		overviewCache: cache.NewTTLCache[core.Overview](overviewCacheSize, cfg.OverviewCacheTTL),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/accounts", s.handleCreateAccount)
	mux.HandleFunc("GET /api/accounts", s.handleListAccounts)

	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("GET /api/transactions/recent", s.handleRecentTransactions)

	mux.HandleFunc("POST /api/goals", s.handleCreateGoal)
	mux.HandleFunc("GET /api/goals", s.handleListGoals)
	mux.HandleFunc("PATCH /api/goals/{id}/progress", s.handleUpdateGoalProgress)

	mux.HandleFunc("POST /api/subscriptions", s.handleCreateSubscription)
	mux.HandleFunc("GET /api/subscriptions", s.handleListSubscriptions)

	mux.HandleFunc("GET /api/overview", s.handleOverview)
	mux.HandleFunc("POST /api/categorize", s.handleCategorize)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	logger := applog.New(applog.Config{Component: applog.ComponentHTTP})

	var handler http.Handler = mux
	handler = auth.Middleware(cfg.JWTSecret)(handler)
	handler = applog.Middleware(logger)(handler)
	handler = trace.Middleware(handler)
	handler = s.rateLimiter.Middleware(handler)
	handler = headers.Middleware(handler)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Shutdown stops background cleanup before draining the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
