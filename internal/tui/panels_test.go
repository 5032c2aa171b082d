package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/agbru/picalc/internal/orchestration"
	"github.com/agbru/picalc/internal/pi"
)

func TestLogsModel_ProgressMilestones(t *testing.T) {
	l := NewLogsModel([]string{"seq"})
	for _, v := range []float64{0.05, 0.12, 0.15, 0.31, 1.0} {
		l.AddProgressEntry(ProgressMsg{CalculatorIndex: 0, Value: v})
	}
	// 10%, 30%, 100%
	if len(l.entries) != 3 {
		t.Fatalf("entries = %d, want 3: %v", len(l.entries), l.entries)
	}
	if !strings.Contains(l.entries[2], "100%") {
		t.Errorf("last entry = %q", l.entries[2])
	}

	l.AddProgressEntry(ProgressMsg{CalculatorIndex: 5, Value: 0.5})
	if len(l.entries) != 3 {
		t.Error("out-of-range calculator index should be ignored")
	}
}

func TestLogsModel_ResultsAndScroll(t *testing.T) {
	l := NewLogsModel([]string{"a", "b"})
	l.SetSize(80, 5)
	l.AddResults([]orchestration.CalculationResult{
		{Name: "a", Value: "3.14", Duration: time.Millisecond},
		{Name: "b", Err: errors.New("boom")},
	})
	l.AddError(ErrorMsg{Err: errors.New("late"), Duration: time.Second})

	if got := l.visible(2); len(got) != 2 || !strings.Contains(got[1], "late") {
		t.Fatalf("visible(2) = %v", got)
	}
	l.ScrollUp(1)
	if got := l.visible(2); !strings.Contains(got[1], "boom") {
		t.Errorf("after scrolling up, visible(2) = %v", got)
	}
	l.ScrollUp(100)
	if l.offset != len(l.entries)-1 {
		t.Errorf("offset = %d, want %d", l.offset, len(l.entries)-1)
	}
	l.ScrollDown(100)
	if l.offset != 0 {
		t.Errorf("offset = %d, want 0", l.offset)
	}

	l.Reset()
	if len(l.entries) != 0 || l.offset != 0 {
		t.Error("Reset should clear the log")
	}
}

func TestLogsModel_Bounded(t *testing.T) {
	l := NewLogsModel(nil)
	for i := 0; i < maxLogEntries+10; i++ {
		l.AddInfo("x")
	}
	if len(l.entries) != maxLogEntries {
		t.Errorf("entries = %d, want %d", len(l.entries), maxLogEntries)
	}
}

func TestDigitsModel_WrapAndPage(t *testing.T) {
	d := NewDigitsModel()
	d.SetSize(28, 6) // two blocks per line, two rows
	d.SetValue("3." + strings.Repeat("1234567890", 9))

	if len(d.lines) != 5 {
		t.Fatalf("lines = %d, want 5: %v", len(d.lines), d.lines)
	}
	if d.lines[0] != "1234567890 1234567890" {
		t.Errorf("first line = %q", d.lines[0])
	}

	d.PageDown()
	if d.offset != 2 {
		t.Errorf("offset after PageDown = %d, want 2", d.offset)
	}
	d.PageDown()
	d.PageDown()
	if d.offset != d.maxOffset() {
		t.Errorf("offset = %d, want clamped to %d", d.offset, d.maxOffset())
	}
	d.PageUp()
	d.PageUp()
	d.PageUp()
	if d.offset != 0 {
		t.Errorf("offset after PageUp = %d, want 0", d.offset)
	}
	if !strings.Contains(d.View(), "1234567890") {
		t.Error("view should show digits")
	}

	d.Reset()
	if !strings.Contains(d.View(), "waiting") {
		t.Error("empty view should show a placeholder")
	}
}

func TestProgressModel(t *testing.T) {
	plan, err := pi.NewPlan(1000, 0)
	if err != nil {
		t.Fatal(err)
	}
	p := NewProgressModel([]string{"seq", "par"}, &plan)
	p.SetSize(60, 6)

	p.Update(ProgressMsg{CalculatorIndex: 1, Value: 0.5, AverageProgress: 0.25, ETA: time.Second})
	if p.values[1] != 0.5 || p.average != 0.25 {
		t.Errorf("unexpected state: %+v", p)
	}
	view := p.View()
	for _, want := range []string{"Progress", "terms", "72", "par", "50.0%", "ETA"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	p.SetDone()
	if !strings.Contains(p.View(), "complete") {
		t.Error("done view should say complete")
	}
	p.Reset()
	if p.values[1] != 0 || p.done {
		t.Error("Reset should clear progress")
	}
}

func TestRenderBar(t *testing.T) {
	if renderBar(0.5, 3) != "" {
		t.Error("too narrow bar should be empty")
	}
	bar := renderBar(0.5, 10)
	if strings.Count(bar, "█") != 5 || strings.Count(bar, "░") != 5 {
		t.Errorf("renderBar(0.5, 10) = %q", bar)
	}
	if strings.Count(renderBar(2, 10), "█") != 10 {
		t.Error("progress above 1 should be clamped")
	}
}

func TestHeaderModel(t *testing.T) {
	h := NewHeaderModel("v1.0.0", 1000)
	h.SetWidth(80)
	view := h.View()
	for _, want := range []string{"picalc v1.0.0", "1,000 digits", "Elapsed"} {
		if !strings.Contains(view, want) {
			t.Errorf("header missing %q: %s", want, view)
		}
	}
	h.SetDone()
	first := h.Elapsed()
	time.Sleep(2 * time.Millisecond)
	if h.Elapsed() != first {
		t.Error("elapsed should be frozen once done")
	}
}

func TestFooterModel_Status(t *testing.T) {
	f := NewFooterModel(DefaultKeyMap())
	f.SetWidth(100)
	if !strings.Contains(f.View(), "RUNNING") {
		t.Error("default status should be RUNNING")
	}
	f.SetPaused(true)
	if !strings.Contains(f.View(), "PAUSED") {
		t.Error("expected PAUSED")
	}
	f.SetDone(true)
	if !strings.Contains(f.View(), "DONE") {
		t.Error("expected DONE")
	}
	f.SetError(true)
	if !strings.Contains(f.View(), "ERROR") {
		t.Error("expected ERROR")
	}
	f.ToggleHelp()
	if !f.ShowAll() {
		t.Error("ToggleHelp should show the full help")
	}
}
