package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agbru/picalc/internal/config"
	"github.com/agbru/picalc/internal/pi"
)

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	cfg := config.AppConfig{
		Algo:      "parallel",
		Timeout:   time.Minute,
		MaxDigits: 5000,
	}
	opts = append([]Option{WithLogger(newTestLogger())}, opts...)
	return NewServer(pi.GlobalFactory(), cfg, opts...)
}

func TestHandlePi(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(newTestServer(t).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/pi?digits=20&algo=sequential")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}

	var body PiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Value != "3.14159265358979323846" {
		t.Errorf("value = %q", body.Value)
	}
	if body.Digits != 20 || body.Algorithm != "sequential" || body.Duration == "" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestHandlePi_DefaultAlgorithm(t *testing.T) {
	t.Parallel()
	h := newTestServer(t).Handler()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pi?digits=5", http.NoBody))

	var body PiResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Algorithm != "parallel" || body.Value != "3.14159" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestHandlePi_Errors(t *testing.T) {
	t.Parallel()
	h := newTestServer(t).Handler()

	tests := []struct {
		name   string
		method string
		query  string
		status int
		kind   string
	}{
		{"missing digits", http.MethodGet, "", http.StatusBadRequest, "missing parameter"},
		{"not a number", http.MethodGet, "?digits=abc", http.StatusBadRequest, "invalid parameter"},
		{"zero", http.MethodGet, "?digits=0", http.StatusBadRequest, "invalid parameter"},
		{"negative", http.MethodGet, "?digits=-4", http.StatusBadRequest, "invalid parameter"},
		{"above config bound", http.MethodGet, "?digits=5001", http.StatusBadRequest, "invalid parameter"},
		{"unknown algorithm", http.MethodGet, "?digits=10&algo=nope", http.StatusBadRequest, "unknown algorithm"},
		{"wrong method", http.MethodPost, "?digits=10", http.StatusMethodNotAllowed, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, "/pi"+tt.query, http.NoBody))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.kind == "" {
				return
			}
			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Error != tt.kind {
				t.Errorf("error = %q, want %q", body.Error, tt.kind)
			}
		})
	}
}

func TestHandlePi_Timeout(t *testing.T) {
	t.Parallel()
	cfg := config.AppConfig{Algo: "sequential", Timeout: time.Nanosecond, MaxDigits: 100000}
	h := NewServer(pi.GlobalFactory(), cfg, WithLogger(newTestLogger())).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pi?digits=100000", http.NoBody))
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusGatewayTimeout)
	}
}

func TestHandlePi_Busy(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, WithMaxConcurrentCalculations(1))
	s.slots <- struct{}{}
	defer func() { <-s.slots }()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pi?digits=10", http.NoBody))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()
	newTestServer(t).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "healthy" || body.MaxDigits != 5000 || body.Goroutines <= 0 {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestMetricsEndpointCountsCalculations(t *testing.T) {
	t.Parallel()
	h := newTestServer(t).Handler()

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/pi?digits=10&algo=sequential", http.NoBody))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	body := rec.Body.String()
	for _, want := range []string{
		`picalc_calculations_total{algorithm="sequential",status="success"} 1`,
		`picalc_digits_computed_total 10`,
		`picalc_requests_total{path="/pi",status="200"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestServeGracefulShutdown(t *testing.T) {
	t.Parallel()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/health"
	var resp *http.Response
	for i := 0; i < 50; i++ {
		if resp, err = http.Get(url); err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never answered: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
