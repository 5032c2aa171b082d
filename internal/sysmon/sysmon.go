// Package sysmon samples host-wide CPU and memory usage. The dashboard shows
// it next to the computation, the server reports it on /health, and the
// memory limit check compares estimates against the available RAM.
package sysmon

import (
	"context"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent   float64 // 0.0 .. 100.0
	MemPercent   float64 // 0.0 .. 100.0
	MemTotal     uint64  // bytes
	MemAvailable uint64  // bytes
	LogicalCPUs  int
}

// Sample collects a single system-wide snapshot. CPU uses interval=0 (delta
// since the previous call). Fields that cannot be read are left zero.
func Sample(ctx context.Context) Stats {
	var s Stats
	if pcts, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = pcts[0]
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		s.LogicalCPUs = n
	}
	if vmem, err := mem.VirtualMemoryWithContext(ctx); err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
		s.MemTotal = vmem.Total
		s.MemAvailable = vmem.Available
	}
	return s
}

// AvailableMemory returns the bytes the OS reports as available for new
// allocations, or 0 if unknown.
func AvailableMemory(ctx context.Context) uint64 {
	vmem, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil || vmem == nil {
		return 0
	}
	return vmem.Available
}
