package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/kjannette/mnm-price/internal/models"
	"go.uber.org/zap"
)

// PriceService is the aggregator behind the price routes.
type PriceService interface {
	CurrentPrice(ctx context.Context) models.PriceSnapshot
	History(ctx context.Context, days int) models.HistoryResult
}

type Options struct {
	Port            int
	CORSAllowOrigin string
	// UpstreamAuthenticated is reported by /health.
	UpstreamAuthenticated bool
	// Metrics, when set, is mounted at /metrics.
	Metrics http.Handler
}

type Server struct {
	prices     PriceService
	opts       Options
	logger     *zap.Logger
	started    time.Time
	httpServer *http.Server
}

func NewServer(prices PriceService, opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		prices:  prices,
		opts:    opts,
		logger:  logger,
		started: time.Now(),
	}

	mux := http.NewServeMux()

	// Price routes
	mux.Handle("GET /api/price/current", s.recoverJSON(msgCurrentFailed, http.HandlerFunc(s.handleCurrentPrice)))
	mux.Handle("GET /api/price/history", s.recoverJSON(msgHistoryFailed, http.HandlerFunc(s.handlePriceHistory)))

	mux.HandleFunc("GET /health", s.handleHealth)
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      s.logRequests(corsMiddleware(mux, opts.CORSAllowOrigin)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// Handler exposes the routed handler chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	s.logger.Info("REST API server started",
		zap.String("url", "http://localhost"+s.httpServer.Addr),
		zap.String("health", "http://localhost"+s.httpServer.Addr+"/health"),
		zap.Bool("upstream_authenticated", s.opts.UpstreamAuthenticated),
	)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// --- middleware ---

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// recoverJSON turns a panic in next into a 500 carrying msg.
func (s *Server) recoverJSON(msg string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			s.logger.Error("handler panic",
				zap.String("path", r.URL.Path),
				zap.Any("panic", rec),
				zap.Stack("stack"),
			)
			writeError(w, http.StatusInternalServerError, msg)
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)),
		)
	})
}

// --- validation helpers ---

// parseDays reads the history window; absent, non-numeric and non-positive
// values fall back to the default.
func parseDays(r *http.Request) int {
	v := r.URL.Query().Get("days")
	if v == "" {
		return models.DefaultHistoryDays
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return models.DefaultHistoryDays
	}
	return n
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
