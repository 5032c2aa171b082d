package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/agbru/picalc/internal/format"
	"github.com/agbru/picalc/internal/pi"
)

// ProgressModel shows the plan and the progress of every calculator.
type ProgressModel struct {
	names   []string
	values  []float64
	average float64
	eta     time.Duration
	plan    *pi.Plan
	done    bool
	width   int
	height  int
}

// NewProgressModel creates a progress panel for the named calculators.
func NewProgressModel(names []string, plan *pi.Plan) ProgressModel {
	return ProgressModel{names: names, values: make([]float64, len(names)), plan: plan}
}

func (p *ProgressModel) SetSize(w, h int) {
	p.width = w
	p.height = h
}

// Update records one progress message.
func (p *ProgressModel) Update(msg ProgressMsg) {
	if msg.CalculatorIndex >= 0 && msg.CalculatorIndex < len(p.values) {
		p.values[msg.CalculatorIndex] = msg.Value
	}
	p.average = msg.AverageProgress
	p.eta = msg.ETA
}

// SetDone fills every bar.
func (p *ProgressModel) SetDone() {
	p.done = true
	p.eta = 0
}

// Reset clears all bars.
func (p *ProgressModel) Reset() {
	clear(p.values)
	p.average = 0
	p.eta = 0
	p.done = false
}

// renderBar draws a bar of width cells; it returns "" when too narrow.
func renderBar(progress float64, width int) string {
	if width < 4 {
		return ""
	}
	progress = min(max(progress, 0), 1)
	filled := int(progress * float64(width))
	return barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// View renders the panel.
func (p ProgressModel) View() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Progress"))
	if p.plan != nil {
		fmt.Fprintf(&b, "  %s %s  %s %s",
			metricLabelStyle.Render("terms"), metricValueStyle.Render(format.FormatNumberString(fmt.Sprint(p.plan.Terms))),
			metricLabelStyle.Render("precision"), metricValueStyle.Render(format.FormatNumberString(fmt.Sprint(p.plan.Precision))+" bits"))
	}

	inner := max(p.width-4, 0)
	nameWidth := 0
	for _, n := range p.names {
		nameWidth = max(nameWidth, len(n))
	}
	barWidth := inner - nameWidth - 9
	for i, name := range p.names {
		v := p.values[i]
		if p.done {
			v = 1
		}
		fmt.Fprintf(&b, "\n%s %s %5.1f%%", logAlgoStyle.Render(fmt.Sprintf("%-*s", nameWidth, name)), renderBar(v, barWidth), v*100)
	}

	status := metricLabelStyle.Render("ETA: " + format.FormatETA(p.eta))
	overall := p.average
	if p.done {
		status = statusDoneStyle.Render("complete")
		overall = 1
	}
	fmt.Fprintf(&b, "\n%s %5.1f%%  %s", metricLabelStyle.Render("overall"), min(overall, 1)*100, status)
	return panelStyle.Width(max(p.width-2, 0)).Height(max(p.height-2, 0)).Render(b.String())
}
