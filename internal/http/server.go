package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"worklogz/internal/cache"
	"worklogz/internal/core"
	"worklogz/internal/middleware/ratelimit"
	"worklogz/internal/middleware/security"
	"worklogz/internal/middleware/trace"
)

// TransactionRecorder persists a new transaction record.
type TransactionRecorder interface {
	RecordTransaction(ctx context.Context, rec core.TransactionRecord) (int64, error)
}

// PeriodLister loads every record belonging to a period.
type PeriodLister interface {
	ListByPeriod(ctx context.Context, period core.Period) ([]core.TransactionRecord, error)
}

// Options tunes the server's cache and rate limiting.
type Options struct {
	ReportCacheSize    int
	ReportCacheTTL     time.Duration
	RateLimitPerMinute int
}

func DefaultOptions() Options {
	return Options{
		ReportCacheSize:    100,
		ReportCacheTTL:     5 * time.Minute,
		RateLimitPerMinute: 60,
	}
}

type Server struct {
	http.Server

	recorder TransactionRecorder
	lister   PeriodLister

	rateLimiter *ratelimit.Limiter
	tracer      *trace.Middleware

	// Cached rendered reports keyed by period
	reportCache  *cache.LRUCache[reportResponse]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server. lister may be nil when the server only evaluates ad-hoc payloads.
func NewServer(addr string, recorder TransactionRecorder, lister PeriodLister, opts Options) *Server {
	if opts.ReportCacheSize <= 0 || opts.ReportCacheTTL <= 0 {
		def := DefaultOptions()
		if opts.ReportCacheSize <= 0 {
			opts.ReportCacheSize = def.ReportCacheSize
		}
		if opts.ReportCacheTTL <= 0 {
			opts.ReportCacheTTL = def.ReportCacheTTL
		}
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		recorder: recorder,
		lister:   lister,
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
		tracer:       trace.NewMiddleware(clientIP),
		reportCache:  cache.NewLRUCache[reportResponse](opts.ReportCacheSize, opts.ReportCacheTTL),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.reportCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.rateLimiter.Middleware(clientIP, nil)

	api := func(h http.HandlerFunc) http.Handler {
		return headers.Middleware(s.tracer.Middleware(limit(h)))
	}

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	mux.Handle("/api/aggregate", api(s.handleAggregate))
	mux.Handle("/api/insights", api(s.handleInsights))
	mux.Handle("/api/transactions", api(s.handleCreateTransaction))
	mux.Handle("/api/reports", api(s.handleGetReport))

	return s
}

// InvalidatePeriod drops the cached report for a period, if any.
func (s *Server) InvalidatePeriod(periodKey string) {
	s.reportCache.Delete(periodKey)
}

// Shutdown stops the background goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
