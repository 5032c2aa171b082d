package tui

import (
	"strings"

	"github.com/agbru/picalc/internal/format"
)

// digitBlock is the number of digits between spaces in the preview.
const digitBlock = 10

// DigitsModel previews the computed digits, grouped in blocks of ten and
// wrapped to the panel width.
type DigitsModel struct {
	value  string
	lines  []string
	offset int
	width  int
	height int
}

func NewDigitsModel() DigitsModel { return DigitsModel{} }

func (d *DigitsModel) SetSize(w, h int) {
	d.width = w
	d.height = h
	d.wrap()
}

// SetValue replaces the displayed value.
func (d *DigitsModel) SetValue(value string) {
	d.value = value
	d.offset = 0
	d.wrap()
}

// Reset clears the value.
func (d *DigitsModel) Reset() { d.SetValue("") }

// wrap splits the value into lines of whole blocks fitting the panel.
func (d *DigitsModel) wrap() {
	d.lines = nil
	if d.value == "" {
		return
	}
	frac := strings.TrimPrefix(d.value, "3.")
	perLine := max((d.width-6)/(digitBlock+1), 1) * digitBlock
	for i := 0; i < len(frac); i += perLine {
		d.lines = append(d.lines, format.GroupDigits(frac[i:min(i+perLine, len(frac))], digitBlock))
	}
	d.offset = min(d.offset, d.maxOffset())
}

func (d DigitsModel) rows() int { return max(d.height-4, 1) }

func (d DigitsModel) maxOffset() int { return max(len(d.lines)-d.rows(), 0) }

// PageUp and PageDown scroll by one panel height.
func (d *DigitsModel) PageUp()   { d.offset = max(d.offset-d.rows(), 0) }
func (d *DigitsModel) PageDown() { d.offset = min(d.offset+d.rows(), d.maxOffset()) }

// View renders the panel.
func (d DigitsModel) View() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Digits"))
	if d.value == "" {
		b.WriteString("\n" + metricLabelStyle.Render("waiting for the result…"))
	} else {
		b.WriteString("\n" + digitsStyle.Render("3."))
		end := min(d.offset+d.rows(), len(d.lines))
		for _, line := range d.lines[d.offset:end] {
			b.WriteString("\n  " + digitsStyle.Render(line))
		}
	}
	return panelStyle.Width(max(d.width-2, 0)).Height(max(d.height-2, 0)).Render(b.String())
}
