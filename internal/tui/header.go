package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/picalc/internal/format"
)

// HeaderModel renders the top bar: title, target digit count and elapsed
// time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	digits    int
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string, digits int) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		digits:    digits,
	}
}

// SetDone freezes the elapsed timer.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

// Reset restarts the elapsed timer.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
}

func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the time since the run started, frozen once done.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "picalc"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := versionStyle.Render(" | ")
	left := titleStyle.Render(titleText) + pipe +
		elapsedStyle.Render(fmt.Sprintf("π to %s digits", format.FormatNumberString(fmt.Sprint(h.digits)))) + pipe +
		elapsedStyle.Render("Elapsed: "+format.FormatExecutionDuration(h.Elapsed()))

	gap := max(h.width-2-lipgloss.Width(left), 0)
	return headerStyle.Width(h.width).Render(left + strings.Repeat(" ", gap))
}
