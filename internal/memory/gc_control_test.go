package memory

import (
	"bytes"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewGCController_Modes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		mode   string
		digits int
		active bool
	}{
		{"auto", 1000, false},
		{"auto", GCAutoThreshold, true},
		{"aggressive", 10, true},
		{"disabled", 100_000_000, false},
		{"", 100_000_000, false},
	}
	for _, tt := range tests {
		if got := NewGCController(tt.mode, tt.digits).Active(); got != tt.active {
			t.Errorf("NewGCController(%q, %d).Active() = %v, want %v", tt.mode, tt.digits, got, tt.active)
		}
	}
}

func TestGCController_InactiveIsNoOp(t *testing.T) {
	t.Parallel()
	gc := NewGCController("disabled", 10)
	gc.Begin()
	gc.End()
	if gc.Stats() != (GCStats{}) {
		t.Errorf("inactive controller reported stats: %+v", gc.Stats())
	}
}

// Not parallel: it changes process-wide GC settings.
func TestGCController_RestoresSettings(t *testing.T) {
	original := debug.SetGCPercent(100)
	defer debug.SetGCPercent(original)

	var buf bytes.Buffer
	gc := NewGCController("aggressive", 10)
	gc.SetLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

	gc.Begin()
	_ = make([]byte, 1<<20)
	gc.End()

	if got := debug.SetGCPercent(100); got != 100 {
		t.Errorf("GC percent after End = %d, want 100", got)
	}
	if !strings.Contains(buf.String(), "gc disabled") || !strings.Contains(buf.String(), "gc re-enabled") {
		t.Errorf("expected both GC log events, got %q", buf.String())
	}
}
