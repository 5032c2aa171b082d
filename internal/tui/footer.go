package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// FooterModel renders the run status and the key help.
type FooterModel struct {
	help   help.Model
	keymap KeyMap
	paused bool
	done   bool
	err    bool
	width  int
}

// NewFooterModel creates a footer showing the bindings of keymap.
func NewFooterModel(keymap KeyMap) FooterModel {
	h := help.New()
	h.Styles.ShortKey = metricValueStyle
	h.Styles.ShortDesc = metricLabelStyle
	h.Styles.FullKey = metricValueStyle
	h.Styles.FullDesc = metricLabelStyle
	return FooterModel{help: h, keymap: keymap}
}

func (f *FooterModel) SetWidth(w int) {
	f.width = w
	f.help.Width = w
}

func (f *FooterModel) SetPaused(p bool) { f.paused = p }
func (f *FooterModel) SetDone(d bool)   { f.done = d }
func (f *FooterModel) SetError(e bool)  { f.err = e }

// ToggleHelp switches between the short and full help.
func (f *FooterModel) ToggleHelp() { f.help.ShowAll = !f.help.ShowAll }

// ShowAll reports whether the full help is shown.
func (f FooterModel) ShowAll() bool { return f.help.ShowAll }

func (f FooterModel) status() string {
	switch {
	case f.err:
		return statusErrorStyle.Render("● ERROR")
	case f.done:
		return statusDoneStyle.Render("● DONE")
	case f.paused:
		return statusPausedStyle.Render("● PAUSED")
	default:
		return statusRunningStyle.Render("● RUNNING")
	}
}

// View renders the footer.
func (f FooterModel) View() string {
	return lipgloss.JoinHorizontal(lipgloss.Top, " ", f.status(), "  ", f.help.View(f.keymap))
}
