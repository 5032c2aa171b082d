package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"time"

	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/logging"
	"github.com/agbru/picalc/internal/sysmon"
)

// PiResponse is the body of a successful /pi request.
type PiResponse struct {
	Digits    int    `json:"digits"`
	Algorithm string `json:"algorithm"`
	Value     string `json:"value"`
	Duration  string `json:"duration"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status     string  `json:"status"`
	Uptime     string  `json:"uptime"`
	Goroutines int     `json:"goroutines"`
	CPUPercent float64 `json:"cpu_percent"`
	MemPercent float64 `json:"mem_percent"`
	MaxDigits  int     `json:"max_digits"`
}

func (s *Server) handlePi(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	raw := q.Get("digits")
	if raw == "" {
		s.writeError(w, http.StatusBadRequest, "missing parameter", "the 'digits' query parameter is required")
		return
	}
	digits, err := strconv.Atoi(raw)
	if err != nil || digits <= 0 {
		s.writeError(w, http.StatusBadRequest, "invalid parameter", fmt.Sprintf("'digits' must be a positive integer, got %q", raw))
		return
	}
	if digits > s.security.MaxDigitsValue {
		s.writeError(w, http.StatusBadRequest, "invalid parameter",
			fmt.Sprintf("'digits' must not exceed %d", s.security.MaxDigitsValue))
		return
	}

	algo := q.Get("algo")
	if algo == "" {
		algo = s.cfg.Algo
	}
	if algo == "" || algo == "all" {
		algo = "parallel"
	}
	calc, err := s.factory.Get(algo)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "unknown algorithm", err.Error())
		return
	}

	select {
	case s.slots <- struct{}{}:
		defer func() { <-s.slots }()
	default:
		s.writeError(w, http.StatusServiceUnavailable, "busy", "too many computations in progress, retry later")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	value, err := calc.Calculate(ctx, nil, 0, digits, s.cfg.ToCalculationOptions())
	duration := time.Since(start)
	s.metrics.RecordCalculation(algo, digits, duration, err)

	if err != nil {
		status, kind := classifyError(err)
		s.logger.Error("calculation failed", err,
			logging.Int("digits", digits), logging.String("algorithm", algo))
		s.writeError(w, status, kind, err.Error())
		return
	}
	s.logger.Info("calculation served",
		logging.Int("digits", digits),
		logging.String("algorithm", algo),
		logging.String("duration", duration.String()))

	s.writeJSON(w, http.StatusOK, PiResponse{
		Digits:    digits,
		Algorithm: algo,
		Value:     value,
		Duration:  duration.String(),
	})
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "canceled"
	case errors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest, "invalid parameter"
	default:
		return http.StatusInternalServerError, "calculation failed"
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := sysmon.Sample(r.Context())
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:     "healthy",
		Uptime:     time.Since(s.startedAt).Round(time.Second).String(),
		Goroutines: runtime.NumGoroutine(),
		CPUPercent: stats.CPUPercent,
		MemPercent: stats.MemPercent,
		MaxDigits:  s.security.MaxDigitsValue,
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "only GET is supported")
		return
	}
	s.metrics.WritePrometheus(w, r)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil && s.logger != nil {
		s.logger.Error("failed to encode response", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, kind, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: kind, Message: message})
}
