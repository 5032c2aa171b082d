package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/agbru/picalc/internal/format"
	"github.com/agbru/picalc/internal/orchestration"
)

// maxLogEntries bounds the event log.
const maxLogEntries = 500

// LogsModel is a scrollable event log.
type LogsModel struct {
	names     []string
	entries   []string
	milestone []int // last 10% step logged per calculator
	offset    int   // lines scrolled up from the bottom
	width     int
	height    int
}

// NewLogsModel creates an empty log for the named calculators.
func NewLogsModel(names []string) LogsModel {
	return LogsModel{names: names, milestone: make([]int, len(names))}
}

func (l *LogsModel) SetSize(w, h int) {
	l.width = w
	l.height = h
}

func (l *LogsModel) add(line string) {
	stamp := logTimeStyle.Render(time.Now().Format("15:04:05"))
	l.entries = append(l.entries, stamp+" "+line)
	if len(l.entries) > maxLogEntries {
		l.entries = l.entries[len(l.entries)-maxLogEntries:]
	}
}

func (l *LogsModel) name(i int) string {
	if i >= 0 && i < len(l.names) {
		return l.names[i]
	}
	return fmt.Sprintf("calculator %d", i)
}

// AddInfo appends a plain line.
func (l *LogsModel) AddInfo(line string) {
	l.add(logProgressStyle.Render(line))
}

// AddProgressEntry logs each 10% milestone once per calculator.
func (l *LogsModel) AddProgressEntry(msg ProgressMsg) {
	i := msg.CalculatorIndex
	if i < 0 || i >= len(l.milestone) {
		return
	}
	step := int(msg.Value * 10)
	if step <= l.milestone[i] {
		return
	}
	l.milestone[i] = step
	l.add(fmt.Sprintf("%s %s", logAlgoStyle.Render(l.name(i)), logProgressStyle.Render(fmt.Sprintf("%d%%", step*10))))
}

// AddResults logs the outcome of every calculator.
func (l *LogsModel) AddResults(results []orchestration.CalculationResult) {
	for _, r := range results {
		if r.Err != nil {
			l.add(fmt.Sprintf("%s %s", logAlgoStyle.Render(r.Name), logErrorStyle.Render("failed: "+r.Err.Error())))
			continue
		}
		l.add(fmt.Sprintf("%s %s", logAlgoStyle.Render(r.Name), logSuccessStyle.Render("finished in "+format.FormatExecutionDuration(r.Duration))))
	}
}

// AddFinalResult logs the selected result.
func (l *LogsModel) AddFinalResult(msg FinalResultMsg) {
	l.add(logSuccessStyle.Render(fmt.Sprintf("π to %d digits computed by %s in %s",
		msg.Digits, msg.Result.Name, format.FormatExecutionDuration(msg.Result.Duration))))
}

// AddError logs a failed run.
func (l *LogsModel) AddError(msg ErrorMsg) {
	l.add(logErrorStyle.Render(fmt.Sprintf("error after %s: %v", format.FormatExecutionDuration(msg.Duration), msg.Err)))
}

// Reset clears the log.
func (l *LogsModel) Reset() {
	l.entries = nil
	l.offset = 0
	clear(l.milestone)
}

// ScrollUp and ScrollDown move the view by n lines.
func (l *LogsModel) ScrollUp(n int) {
	l.offset = min(l.offset+n, max(len(l.entries)-1, 0))
}

func (l *LogsModel) ScrollDown(n int) {
	l.offset = max(l.offset-n, 0)
}

// visible returns the lines shown in a panel with room for rows lines.
func (l LogsModel) visible(rows int) []string {
	if rows <= 0 || len(l.entries) == 0 {
		return nil
	}
	end := len(l.entries) - l.offset
	start := max(end-rows, 0)
	return l.entries[start:end]
}

// View renders the panel at its configured height.
func (l LogsModel) View() string {
	rows := max(l.height-3, 0)
	body := panelTitleStyle.Render("Events")
	if lines := l.visible(rows); len(lines) > 0 {
		body += "\n" + strings.Join(lines, "\n")
	}
	return panelStyle.Width(max(l.width-2, 0)).Height(max(l.height-2, 0)).Render(body)
}
