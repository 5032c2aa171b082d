package orchestration

import (
	"testing"

	"github.com/agbru/picalc/internal/pi"
)

func TestGetCalculatorsToRun(t *testing.T) {
	t.Parallel()
	factory := pi.GlobalFactory()

	tests := []struct {
		algo    string
		wantLen int
	}{
		{"sequential", 1},
		{"parallel", 1},
		{"all", len(factory.List())},
		{"unknown", 0},
	}
	for _, tt := range tests {
		t.Run(tt.algo, func(t *testing.T) {
			t.Parallel()
			calculators := GetCalculatorsToRun(tt.algo, factory)
			if len(calculators) != tt.wantLen {
				t.Fatalf("GetCalculatorsToRun(%q) returned %d calculators, want %d", tt.algo, len(calculators), tt.wantLen)
			}
			for _, c := range calculators {
				if c.Name() == "" {
					t.Error("calculator name should not be empty")
				}
			}
		})
	}
}
