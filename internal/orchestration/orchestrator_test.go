package orchestration

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/pi"
	"github.com/agbru/picalc/internal/progress"
)

// recordingPresenter captures what AnalyzeComparisonResults presents.
type recordingPresenter struct {
	tableRows int
	presented *CalculationResult
}

func (p *recordingPresenter) PresentComparisonTable(results []CalculationResult, _ io.Writer) {
	p.tableRows = len(results)
}

func (p *recordingPresenter) PresentResult(result CalculationResult, _ PresentationOptions, _ io.Writer) {
	p.presented = &result
}

type fixedErrorHandler struct{ code int }

func (h fixedErrorHandler) HandleError(error, time.Duration, io.Writer) int { return h.code }

// MockCalculator is a pi.Calculator whose behavior is supplied by the test.
type MockCalculator struct {
	NameFunc      func() string
	CalculateFunc func(ctx context.Context, reporter progress.ProgressCallback, digits int) (string, error)
}

func (m *MockCalculator) Name() string {
	if m.NameFunc != nil {
		return m.NameFunc()
	}
	return "Mock"
}

func (m *MockCalculator) Calculate(ctx context.Context, progressChan chan<- progress.ProgressUpdate, index int, digits int, _ pi.Options) (string, error) {
	if m.CalculateFunc == nil {
		return "3.1", nil
	}
	reporter := func(v float64) {
		if progressChan != nil {
			progressChan <- progress.ProgressUpdate{CalculatorIndex: index, Value: v}
		}
	}
	return m.CalculateFunc(ctx, reporter, digits)
}

func TestExecuteCalculations(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		calculators []pi.Calculator
		wantErr     []bool
	}{
		{
			name: "Single success",
			calculators: []pi.Calculator{
				&MockCalculator{CalculateFunc: func(_ context.Context, report progress.ProgressCallback, digits int) (string, error) {
					report(1)
					return "3.14", nil
				}},
			},
			wantErr: []bool{false},
		},
		{
			name: "Failure does not cancel siblings",
			calculators: []pi.Calculator{
				&MockCalculator{CalculateFunc: func(context.Context, progress.ProgressCallback, int) (string, error) {
					return "", errors.New("mock error")
				}},
				&MockCalculator{CalculateFunc: func(ctx context.Context, _ progress.ProgressCallback, _ int) (string, error) {
					time.Sleep(10 * time.Millisecond)
					return "3.14", ctx.Err()
				}},
			},
			wantErr: []bool{true, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			results := ExecuteCalculations(context.Background(), tt.calculators, 2, pi.Options{}, NullProgressReporter{}, io.Discard)
			if len(results) != len(tt.wantErr) {
				t.Fatalf("expected %d results, got %d", len(tt.wantErr), len(results))
			}
			for i, want := range tt.wantErr {
				if (results[i].Err != nil) != want {
					t.Errorf("result %d: err = %v, want error %v", i, results[i].Err, want)
				}
			}
		})
	}
}

func TestExecuteCalculations_RealCalculators(t *testing.T) {
	t.Parallel()
	calcs := GetCalculatorsToRun("all", pi.NewDefaultFactory())
	results := ExecuteCalculations(context.Background(), calcs, 100, pi.Options{ParallelThreshold: 4}, NullProgressReporter{}, io.Discard)

	var presenter recordingPresenter
	code := AnalyzeComparisonResults(results, PresentationOptions{Digits: 100}, &presenter, fixedErrorHandler{apperrors.ExitErrorGeneric}, io.Discard)
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want success", code)
	}
	if presenter.presented == nil || !strings.HasPrefix(presenter.presented.Value, "3.14159265358979") {
		t.Fatalf("unexpected presented result: %+v", presenter.presented)
	}
}

func TestAnalyzeComparisonResults(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name           string
		results        []CalculationResult
		expectedStatus int
		wantPresented  string
	}{
		{
			name: "All success",
			results: []CalculationResult{
				{Name: "A", Value: "3.14", Duration: 2 * time.Millisecond},
				{Name: "B", Value: "3.14", Duration: time.Millisecond},
			},
			expectedStatus: apperrors.ExitSuccess,
			wantPresented:  "B",
		},
		{
			name: "Mismatch",
			results: []CalculationResult{
				{Name: "A", Value: "3.14", Duration: time.Millisecond},
				{Name: "B", Value: "3.15", Duration: time.Millisecond},
			},
			expectedStatus: apperrors.ExitErrorMismatch,
		},
		{
			name: "All failure",
			results: []CalculationResult{
				{Name: "A", Err: errors.New("fail")},
				{Name: "B", Err: errors.New("fail")},
			},
			expectedStatus: apperrors.ExitErrorPrecision,
		},
		{
			name: "Mixed success/failure",
			results: []CalculationResult{
				{Name: "A", Err: errors.New("fail"), Duration: time.Microsecond},
				{Name: "B", Value: "3.14", Duration: time.Millisecond},
			},
			expectedStatus: apperrors.ExitSuccess,
			wantPresented:  "B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var presenter recordingPresenter
			var out bytes.Buffer
			status := AnalyzeComparisonResults(tt.results, PresentationOptions{}, &presenter, fixedErrorHandler{apperrors.ExitErrorPrecision}, &out)
			if status != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, status)
			}
			if presenter.tableRows != len(tt.results) {
				t.Errorf("table rows = %d, want %d", presenter.tableRows, len(tt.results))
			}
			if tt.wantPresented != "" && (presenter.presented == nil || presenter.presented.Name != tt.wantPresented) {
				t.Errorf("presented %+v, want %s", presenter.presented, tt.wantPresented)
			}
		})
	}
}

func TestFindBestResult(t *testing.T) {
	t.Parallel()
	if FindBestResult(nil) != nil {
		t.Error("FindBestResult(nil) should be nil")
	}
	results := []CalculationResult{
		{Name: "slow", Value: "3.1", Duration: time.Second},
		{Name: "broken", Err: errors.New("x"), Duration: time.Nanosecond},
		{Name: "fast", Value: "3.1", Duration: time.Millisecond},
	}
	if best := FindBestResult(results); best == nil || best.Name != "fast" {
		t.Errorf("FindBestResult = %+v, want fast", best)
	}
}
