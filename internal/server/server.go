// Package server exposes π computation over HTTP.
//
// Endpoints:
//
//	GET /pi?digits=N[&algo=NAME]  → {"digits", "algorithm", "value", "duration"}
//	GET /health                   → service and host status
//	GET /metrics                  → Prometheus exposition
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/agbru/picalc/internal/config"
	"github.com/agbru/picalc/internal/logging"
	"github.com/agbru/picalc/internal/pi"
)

const (
	// ReadHeaderTimeout bounds the time to read request headers.
	ReadHeaderTimeout = 10 * time.Second
	// WriteTimeoutMargin is added to the calculation timeout so a response
	// can still be written after a computation that used all of it.
	WriteTimeoutMargin = 10 * time.Second
	// ShutdownTimeout bounds the graceful shutdown.
	ShutdownTimeout = 30 * time.Second
)

// Server is the HTTP front end of the calculators.
type Server struct {
	factory  pi.CalculatorFactory
	cfg      config.AppConfig
	security SecurityConfig
	metrics  *Metrics
	logger   logging.Logger

	router     chi.Router
	httpServer *http.Server
	slots      chan struct{}
	startedAt  time.Time
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithSecurityConfig replaces DefaultSecurityConfig.
func WithSecurityConfig(sc SecurityConfig) Option {
	return func(s *Server) { s.security = sc }
}

// WithMaxConcurrentCalculations bounds the number of computations running at
// once; further requests get 503.
func WithMaxConcurrentCalculations(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.slots = make(chan struct{}, n)
		}
	}
}

// NewServer builds a server computing with factory's calculators. The digit
// bound is the smaller of cfg.MaxDigits and the security MaxDigitsValue.
func NewServer(factory pi.CalculatorFactory, cfg config.AppConfig, opts ...Option) *Server {
	s := &Server{
		factory:   factory,
		cfg:       cfg,
		security:  DefaultSecurityConfig(),
		metrics:   NewMetrics(),
		logger:    logging.NewDefaultLogger(),
		slots:     make(chan struct{}, runtime.NumCPU()),
		startedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if cfg.MaxDigits > 0 && cfg.MaxDigits < s.security.MaxDigitsValue {
		s.security.MaxDigitsValue = cfg.MaxDigits
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return SecurityMiddleware(s.security, next.ServeHTTP)
	})
	r.Get("/pi", s.metricsMiddleware(s.handlePi))
	r.Get("/health", s.metricsMiddleware(s.handleHealth))
	r.HandleFunc("/metrics", s.handleMetrics)
	s.router = r

	s.httpServer = &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: ReadHeaderTimeout,
		WriteTimeout:      cfg.Timeout + WriteTimeoutMargin,
		IdleTimeout:       2 * time.Minute,
	}
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("server listening",
		logging.String("addr", ln.Addr().String()),
		logging.Int("max_digits", s.security.MaxDigitsValue))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware tracks active requests, status codes and latency.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next(rec, r)
		s.metrics.RecordRequest(r.URL.Path, rec.status, time.Since(start))
	}
}
