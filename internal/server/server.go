package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/solcade/treasury/internal/custody"
	"github.com/solcade/treasury/internal/database"
	"github.com/solcade/treasury/internal/handler"
	"github.com/solcade/treasury/internal/logger"
	"github.com/solcade/treasury/internal/metrics"
	"github.com/solcade/treasury/internal/reconcile"
	"github.com/solcade/treasury/internal/treasury"
)

type Server struct {
	httpServer       *http.Server
	dbPool           database.Pool
	treasuryService  treasury.Service
	custodyService   custody.Service
	reconcileService reconcile.Service
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, gameMint string, trustedProxies []string, dbPool database.Pool, treasuryService treasury.Service, custodyService custody.Service, reconcileService reconcile.Service) *Server {
	r := chi.NewRouter()

	// Middleware stack; chi executes in order defined, outermost first
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool, reconcileService))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/balance", handler.HandleGetBalance(treasuryService, gameMint))
		r.Get("/transactions", handler.HandleListTransactions(treasuryService))

		r.Post("/deposit", handler.HandleDeposit(treasuryService, gameMint))
		r.Post("/withdraw", handler.HandleWithdraw(treasuryService, gameMint))
		r.Post("/transfer", handler.HandleTransfer(treasuryService, gameMint))

		r.Route("/rewards", func(r chi.Router) {
			r.Post("/", handler.HandleIssueReward(treasuryService))
			r.Get("/", handler.HandleListRewards(treasuryService))
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", handler.HandleListItems(custodyService))
			r.Post("/", handler.HandleIssueItem(custodyService))
			r.Post("/withdraw", handler.HandleWithdrawItem(custodyService))
			r.Post("/burn", handler.HandleBurnItem(custodyService))
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool:           dbPool,
		treasuryService:  treasuryService,
		custodyService:   custodyService,
		reconcileService: reconcileService,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Health checks and metrics scrapes would drown out real traffic
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
