package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/picalc/internal/format"
)

// sparklineHistory is the number of system samples kept per sparkline.
const sparklineHistory = 120

// MetricsModel displays runtime memory, host load and throughput.
type MetricsModel struct {
	alloc        uint64
	peakAlloc    uint64
	heapSys      uint64
	numGC        uint32
	pauseTotalNs uint64
	numGoroutine int

	cpu *RingBuffer
	mem *RingBuffer

	speed        float64 // progress per second, smoothed
	lastProgress float64
	lastUpdate   time.Time

	digitsPerSecond float64

	width  int
	height int
}

// NewMetricsModel creates a new metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{
		cpu:        NewRingBuffer(sparklineHistory),
		mem:        NewRingBuffer(sparklineHistory),
		lastUpdate: time.Now(),
	}
}

// SetSize updates dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// UpdateMemStats updates memory statistics.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.alloc = msg.Alloc
	m.peakAlloc = max(m.peakAlloc, msg.Alloc)
	m.heapSys = msg.HeapSys
	m.numGC = msg.NumGC
	m.pauseTotalNs = msg.PauseTotalNs
	m.numGoroutine = msg.NumGoroutine
}

// UpdateSysStats appends a host sample to the sparklines.
func (m *MetricsModel) UpdateSysStats(msg SysStatsMsg) {
	m.cpu.Push(msg.CPUPercent)
	m.mem.Push(msg.MemPercent)
}

// UpdateProgress updates the smoothed progress rate.
func (m *MetricsModel) UpdateProgress(progress float64) {
	now := time.Now()
	dt := now.Sub(m.lastUpdate).Seconds()
	if dt > 0.05 {
		dp := progress - m.lastProgress
		if dp > 0 {
			instantSpeed := dp / dt
			if m.speed > 0 {
				m.speed = 0.7*m.speed + 0.3*instantSpeed
			} else {
				m.speed = instantSpeed
			}
		}
		m.lastProgress = progress
		m.lastUpdate = now
	}
}

// SetThroughput records the digits per second of a finished run.
func (m *MetricsModel) SetThroughput(digits int, d time.Duration) {
	if d > 0 {
		m.digitsPerSecond = float64(digits) / d.Seconds()
	}
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	var rows strings.Builder
	rows.WriteString(panelTitleStyle.Render("System"))

	pipe := metricLabelStyle.Render(" | ")
	fmt.Fprintf(&rows, "\n %s %s%s%s %s",
		metricLabelStyle.Render("Heap:"), metricValueStyle.Render(format.FormatBytes(m.alloc)+" / "+format.FormatBytes(m.heapSys)),
		pipe,
		metricLabelStyle.Render("GC:"), metricValueStyle.Render(fmt.Sprintf("%d (%.1fms)", m.numGC, float64(m.pauseTotalNs)/1e6)))

	colWidth := max((m.width-6)/2, 0)
	rate := "-"
	if m.digitsPerSecond > 0 {
		rate = format.FormatNumberString(fmt.Sprintf("%.0f", m.digitsPerSecond))
	} else if m.speed > 0 {
		rate = fmt.Sprintf("%.1f%%/s", m.speed*100)
	}
	rows.WriteString("\n")
	rows.WriteString(formatMetricCol("Peak heap:", format.FormatBytes(m.peakAlloc), colWidth))
	rows.WriteString(formatMetricCol("Goroutines:", fmt.Sprint(m.numGoroutine), colWidth))
	rows.WriteString("\n")
	rows.WriteString(formatMetricCol("Rate:", rate, colWidth))

	sparkWidth := max(m.width-16, 0)
	if m.height >= 7 && sparkWidth > 0 {
		fmt.Fprintf(&rows, "\n %s %s %s",
			metricLabelStyle.Render("CPU"), cpuSparklineStyle.Render(RenderSparklineWidth(m.cpu, sparkWidth)),
			metricValueStyle.Render(fmt.Sprintf("%5.1f%%", m.cpu.Last())))
		fmt.Fprintf(&rows, "\n %s %s %s",
			metricLabelStyle.Render("MEM"), memSparklineStyle.Render(RenderSparklineWidth(m.mem, sparkWidth)),
			metricValueStyle.Render(fmt.Sprintf("%5.1f%%", m.mem.Last())))
	}

	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(rows.String())
}

func formatMetricCol(label, value string, colWidth int) string {
	cell := fmt.Sprintf(" %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-11s", label)),
		metricValueStyle.Render(value))
	if visible := lipgloss.Width(cell); visible < colWidth {
		cell += strings.Repeat(" ", colWidth-visible)
	}
	return cell
}
