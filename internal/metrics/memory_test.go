package metrics

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCollector_Snapshot(t *testing.T) {
	t.Parallel()

	mc := NewMemoryCollector()
	snap := mc.Snapshot()

	if snap.HeapAlloc == 0 {
		t.Error("HeapAlloc should be > 0")
	}
	if snap.Sys == 0 {
		t.Error("Sys should be > 0")
	}
}

func TestMemoryCollector_Delta(t *testing.T) {
	t.Parallel()

	mc := NewMemoryCollector()
	before := mc.Snapshot()

	// Allocate some memory
	_ = make([]byte, 1024*1024) // 1 MB

	after := mc.Snapshot()

	// Sys should not decrease between snapshots
	if after.Sys < before.Sys {
		t.Error("Sys should not decrease between snapshots")
	}
}

func TestPeakTracker(t *testing.T) {
	t.Parallel()

	p := NewPeakTracker(time.Millisecond)
	p.Start(context.Background())
	buf := make([]byte, 4<<20)
	time.Sleep(5 * time.Millisecond)
	peak := p.Stop()
	_ = buf[len(buf)-1]

	if peak == 0 {
		t.Fatal("peak should be > 0")
	}
	if p.Peak() != peak {
		t.Errorf("Peak() = %d after Stop returned %d", p.Peak(), peak)
	}
}

func TestPeakTracker_StopWithoutStart(t *testing.T) {
	t.Parallel()
	if NewPeakTracker(0).Stop() == 0 {
		t.Error("Stop should take a final sample")
	}
}
