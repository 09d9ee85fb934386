// Package http exposes the JSON API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"finbook/internal/auth"
	"finbook/internal/cache"
	"finbook/internal/core"
	applog "finbook/internal/log"
	"finbook/internal/middleware/ratelimit"
	"finbook/internal/middleware/security"
	"finbook/internal/middleware/trace"
	"finbook/internal/services"
	"finbook/internal/storage"

	"github.com/go-chi/chi/v5"
)

// Options configures the API server.
type Options struct {
	Addr              string
	RequestsPerMinute int
	OverviewCacheSize int
	OverviewCacheTTL  time.Duration
}

type Server struct {
	http.Server

	storage      *storage.SQLiteRepository
	transactions *services.TransactionService
	tokens       *auth.TokenManager

	overviewCache *cache.LRUCache[core.MonthOverview]
	cacheManager  *cache.Manager
	limiter       *ratelimit.Limiter
	detector      *security.Detector
	logger        *applog.Logger
	structured    *applog.StructuredLogger

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(opts Options, store *storage.SQLiteRepository, transactions *services.TransactionService, tokens *auth.TokenManager) *Server {
	if opts.OverviewCacheSize <= 0 {
		opts.OverviewCacheSize = 128
	}
	if opts.OverviewCacheTTL <= 0 {
		opts.OverviewCacheTTL = 5 * time.Minute
	}

	s := &Server{
		storage:       store,
		transactions:  transactions,
		tokens:        tokens,
		overviewCache: cache.NewLRUCache[core.MonthOverview](opts.OverviewCacheSize, opts.OverviewCacheTTL),
		cacheManager:  cache.NewManager(),
		limiter:       ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RequestsPerMinute}),
		detector:      security.NewDetector(),
		logger:        applog.New(httpLoggerConfig()),
	}
	s.structured = applog.NewStructuredLogger(s.logger)

	s.cacheManager.Register(s.overviewCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func httpLoggerConfig() applog.Config {
	cfg := applog.DefaultConfig()
	cfg.Component = applog.ComponentHTTP
	return cfg
}

func (s *Server) routes() http.Handler {
	traceMW := trace.NewMiddleware(s.detector.ExtractClientIP)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	r := chi.NewRouter()
	r.Use(applog.Middleware(s.logger))
	r.Use(traceMW.Middleware)
	r.Use(headers.Middleware)
	r.Use(s.blockSuspicious)
	r.Use(s.limitMutating)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", s.handleListTransactions)
				r.Post("/", s.handleCreateTransaction)
				r.Get("/{id}", s.handleGetTransaction)
				r.Put("/{id}", s.handleUpdateTransaction)
				r.Delete("/{id}", s.handleDeleteTransaction)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", s.handleListCategories)
				r.Post("/", s.handleCreateCategory)
				r.Put("/{id}", s.handleRenameCategory)
				r.Delete("/{id}", s.handleDeleteCategory)
			})

			r.Route("/budgets", func(r chi.Router) {
				r.Get("/", s.handleListBudgets)
				r.Post("/", s.handleSaveBudget)
				r.Get("/status", s.handleBudgetStatus)
				r.Put("/{id}", s.handleUpdateBudget)
				r.Delete("/{id}", s.handleDeleteBudget)
			})

			r.Route("/goals", func(r chi.Router) {
				r.Get("/", s.handleListGoals)
				r.Post("/", s.handleCreateGoal)
				r.Put("/{id}", s.handleUpdateGoal)
				r.Delete("/{id}", s.handleDeleteGoal)
				r.Post("/{id}/contributions", s.handleAddContribution)
				r.Get("/{id}/projection", s.handleGoalProjection)
			})

			r.Route("/recurring", func(r chi.Router) {
				r.Get("/", s.handleListRecurring)
				r.Post("/", s.handleCreateRecurring)
				r.Put("/{id}", s.handleUpdateRecurring)
				r.Delete("/{id}", s.handleDeleteRecurring)
			})

			r.Get("/settings", s.handleGetSettings)
			r.Put("/settings", s.handleSaveSettings)

			r.Get("/analytics/overview", s.handleOverview)

			r.Get("/reports/transactions.csv", s.reportHandler("csv"))
			r.Get("/reports/transactions.json", s.reportHandler("json"))
			r.Get("/reports/transactions.xlsx", s.reportHandler("xlsx"))
			r.Get("/reports/transactions.html", s.reportHandler("html"))
		})
	})

	return r
}

// requireAuth validates the bearer token and puts the user ID on the context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			return
		}

		claims, err := s.tokens.Verify(token)
		if err != nil {
			respondError(r.Context(), w, err)
			return
		}

		ctx := auth.WithUserID(r.Context(), claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) blockSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			slog.WarnContext(r.Context(), "Blocked suspicious request",
				"method", r.Method,
				"path", r.URL.Path,
				"client_ip", s.detector.ExtractClientIP(r))
			respondJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// limitMutating rate-limits writes only; reads stay cheap and unthrottled.
func (s *Server) limitMutating(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
			if !s.limiter.Allow(s.detector.ExtractClientIP(r)) {
				w.Header().Set("Retry-After", "60")
				respondJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if err := s.storage.Ping(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// invalidateOverview drops all cached analytics for the user after a write.
func (s *Server) invalidateOverview(userID int64) {
	s.overviewCache.DeletePrefix(overviewKeyPrefix(userID))
}

// Shutdown stops background goroutines and then the HTTP listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
