// Package metrics reads Go runtime memory statistics during a computation.
package metrics

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by application
	HeapSys      uint64 // bytes obtained from OS for heap
	Sys          uint64 // total bytes obtained from OS
	NumGC        uint32 // number of completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
	HeapObjects  uint64 // number of allocated heap objects
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		HeapObjects:  m.HeapObjects,
	}
}

// PeakTracker samples the heap periodically and remembers the largest value
// seen. The product trees of a large split peak well above the final heap,
// so the end-of-run reading alone understates the footprint.
type PeakTracker struct {
	collector *MemoryCollector
	interval  time.Duration

	mu     sync.Mutex
	peak   uint64
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPeakTracker returns a tracker sampling every interval.
func NewPeakTracker(interval time.Duration) *PeakTracker {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &PeakTracker{collector: NewMemoryCollector(), interval: interval}
}

// Start begins sampling until ctx is done or Stop is called.
func (p *PeakTracker) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	p.observe()
	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.observe()
			}
		}
	}()
}

// Stop ends sampling and returns the peak heap allocation in bytes.
func (p *PeakTracker) Stop() uint64 {
	if p.cancel != nil {
		p.cancel()
		<-p.done
		p.cancel = nil
	}
	p.observe()
	return p.Peak()
}

// Peak returns the largest heap allocation observed so far.
func (p *PeakTracker) Peak() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.peak
}

func (p *PeakTracker) observe() {
	heap := p.collector.Snapshot().HeapAlloc
	p.mu.Lock()
	p.peak = max(p.peak, heap)
	p.mu.Unlock()
}
