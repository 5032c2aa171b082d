package sysmon

import (
	"context"
	"testing"
)

func TestSample_ReturnsValidRanges(t *testing.T) {
	s := Sample(context.Background())
	if s.CPUPercent < 0 || s.CPUPercent > 100 {
		t.Errorf("CPUPercent out of range: %f", s.CPUPercent)
	}
	if s.MemPercent < 0 || s.MemPercent > 100 {
		t.Errorf("MemPercent out of range: %f", s.MemPercent)
	}
	if s.MemAvailable > s.MemTotal {
		t.Errorf("MemAvailable %d exceeds MemTotal %d", s.MemAvailable, s.MemTotal)
	}
}

func TestSample_MemoryKnown(t *testing.T) {
	s := Sample(context.Background())
	if s.MemTotal == 0 {
		t.Error("expected non-zero MemTotal on a running system")
	}
	if s.LogicalCPUs <= 0 {
		t.Errorf("LogicalCPUs = %d, want > 0", s.LogicalCPUs)
	}
}

func TestAvailableMemory(t *testing.T) {
	if AvailableMemory(context.Background()) == 0 {
		t.Error("expected available memory to be reported")
	}
}
