// Package tui implements the --tui dashboard: live progress of every
// calculator, host and runtime metrics, an event log and a scrollable
// preview of the digits.
package tui

import (
	"context"
	"io"
	"runtime"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/picalc/internal/config"
	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/metrics"
	"github.com/agbru/picalc/internal/orchestration"
	"github.com/agbru/picalc/internal/pi"
	"github.com/agbru/picalc/internal/sysmon"
)

// Layout constants for the dashboard.
const (
	headerHeight          = 1
	minBodyHeight         = 8
	LeftPanelWidthPercent = 55
	MetricsPanelHeight    = 9
	tickInterval          = 500 * time.Millisecond
)

// ExecutionState holds the execution-related fields of a session.
type ExecutionState struct {
	ctx         context.Context
	cancel      context.CancelFunc
	calculators []pi.Calculator
	generation  uint64
	done        bool
	exitCode    int
}

// LayoutManager holds terminal dimensions and derives panel sizes.
type LayoutManager struct {
	width  int
	height int
}

func (l LayoutManager) bodyHeight(footerHeight int) int {
	return max(l.height-headerHeight-footerHeight, minBodyHeight)
}

func (l LayoutManager) leftWidth() int  { return l.width * LeftPanelWidthPercent / 100 }
func (l LayoutManager) rightWidth() int { return l.width - l.leftWidth() }

// progressHeight fits one bar per calculator plus title, summary and
// borders.
func (l LayoutManager) progressHeight(calculators int) int {
	return calculators + 4
}

// Model is the root bubbletea model of the dashboard.
type Model struct {
	header   HeaderModel
	progress ProgressModel
	logs     LogsModel
	metrics  MetricsModel
	digits   DigitsModel
	footer   FooterModel

	keymap KeyMap

	ExecutionState
	LayoutManager

	parentCtx context.Context
	config    config.AppConfig
	ref       *programRef
	paused    bool
}

// NewModel creates a dashboard computing cfg.Digits digits with
// calculators.
func NewModel(parentCtx context.Context, calculators []pi.Calculator, cfg config.AppConfig, version string) Model {
	names := make([]string, len(calculators))
	for i, c := range calculators {
		names[i] = c.Name()
	}

	var plan *pi.Plan
	if p, err := pi.NewPlan(cfg.Digits, cfg.SafetyFactor); err == nil {
		plan = &p
	}

	ctx, cancel := context.WithCancel(parentCtx)

	logs := NewLogsModel(names)
	logs.AddInfo(startMessage(cfg, len(calculators)))

	keymap := DefaultKeyMap()
	return Model{
		header:   NewHeaderModel(version, cfg.Digits),
		progress: NewProgressModel(names, plan),
		logs:     logs,
		metrics:  NewMetricsModel(),
		digits:   NewDigitsModel(),
		footer:   NewFooterModel(keymap),
		keymap:   keymap,
		ExecutionState: ExecutionState{
			ctx:         ctx,
			cancel:      cancel,
			calculators: calculators,
			exitCode:    apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		config:    cfg,
		ref:       &programRef{},
	}
}

func startMessage(cfg config.AppConfig, n int) string {
	if n == 1 {
		return "computing π to " + strconv.Itoa(cfg.Digits) + " digits"
	}
	return "comparing " + strconv.Itoa(n) + " algorithms on " + strconv.Itoa(cfg.Digits) + " digits"
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return m.startCmds()
}

func (m Model) startCmds() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startCalculationCmd(m.ref, m.ctx, m.calculators, m.config, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case ProgressMsg:
		if !m.paused {
			m.progress.Update(msg)
			m.logs.AddProgressEntry(msg)
			m.metrics.UpdateProgress(msg.AverageProgress)
		}
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case ComparisonResultsMsg:
		m.logs.AddResults(msg.Results)
		return m, nil

	case FinalResultMsg:
		m.logs.AddFinalResult(msg)
		m.digits.SetValue(msg.Result.Value)
		m.metrics.SetThroughput(msg.Digits, msg.Result.Duration)
		return m, nil

	case ErrorMsg:
		m.logs.AddError(msg)
		m.footer.SetError(true)
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if !m.paused {
			return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(m.ctx), tickCmd())
		}
		return m, tickCmd()

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.metrics.UpdateSysStats(msg)
		return m, nil

	case CalculationCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.exitCode = msg.ExitCode
		m.header.SetDone()
		if msg.ExitCode == apperrors.ExitSuccess {
			m.progress.SetDone()
		} else {
			m.footer.SetError(true)
		}
		m.footer.SetDone(true)
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		if m.cancel != nil {
			m.cancel()
		}
		m.generation++
		m.ctx, m.cancel = context.WithCancel(m.parentCtx)

		m.header.Reset()
		m.progress.Reset()
		m.logs.Reset()
		m.logs.AddInfo("restarted: " + startMessage(m.config, len(m.calculators)))
		m.digits.Reset()
		m.metrics = NewMetricsModel()
		m.footer.SetDone(false)
		m.footer.SetError(false)
		m.footer.SetPaused(false)
		m.done = false
		m.paused = false
		m.exitCode = apperrors.ExitSuccess
		m.layoutPanels()
		return m, m.startCmds()

	case key.Matches(msg, m.keymap.Up):
		m.logs.ScrollUp(1)
	case key.Matches(msg, m.keymap.Down):
		m.logs.ScrollDown(1)
	case key.Matches(msg, m.keymap.PageUp):
		m.digits.PageUp()
	case key.Matches(msg, m.keymap.PageDown):
		m.digits.PageDown()
	case key.Matches(msg, m.keymap.Help):
		m.footer.ToggleHelp()
		m.layoutPanels()
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	left := lipgloss.JoinVertical(lipgloss.Left, m.progress.View(), m.logs.View())
	right := lipgloss.JoinVertical(lipgloss.Left, m.metrics.View(), m.digits.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	body := m.bodyHeight(lipgloss.Height(m.footer.View()))

	progressHeight := min(m.progressHeight(len(m.calculators)), body/2)
	m.progress.SetSize(m.leftWidth(), progressHeight)
	m.logs.SetSize(m.leftWidth(), body-progressHeight)

	metricsHeight := min(MetricsPanelHeight, body/2)
	m.metrics.SetSize(m.rightWidth(), metricsHeight)
	m.digits.SetSize(m.rightWidth(), body-metricsHeight)
}

// Run starts the dashboard and returns the process exit code.
func Run(ctx context.Context, calculators []pi.Calculator, cfg config.AppConfig, version string) int {
	initTUIStyles()

	model := NewModel(ctx, calculators, cfg, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil && finalModel == nil {
		return apperrors.ExitErrorGeneric
	}
	if m, ok := finalModel.(Model); ok {
		m.cancel()
		if !m.done && ctx.Err() != nil {
			return apperrors.ExitErrorCanceled
		}
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startCalculationCmd runs the orchestration and reports its exit code.
func startCalculationCmd(ref *programRef, ctx context.Context, calculators []pi.Calculator, cfg config.AppConfig, gen uint64) tea.Cmd {
	return func() tea.Msg {
		progressReporter := &TUIProgressReporter{ref: ref}
		presenter := &TUIResultPresenter{ref: ref}

		results := orchestration.ExecuteCalculations(ctx, calculators, cfg.Digits, cfg.ToCalculationOptions(), progressReporter, io.Discard)
		presOpts := orchestration.PresentationOptions{
			Digits:    cfg.Digits,
			Verbose:   cfg.Verbose,
			Details:   cfg.Details,
			ShowValue: cfg.ShowValue,
		}
		exitCode := orchestration.AnalyzeComparisonResults(results, presOpts, presenter, presenter, io.Discard)
		return CalculationCompleteMsg{ExitCode: exitCode, Generation: gen}
	}
}

var memCollector = metrics.NewMemoryCollector()

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		snap := memCollector.Snapshot()
		return MemStatsMsg{
			Alloc:        snap.HeapAlloc,
			HeapSys:      snap.HeapSys,
			NumGC:        snap.NumGC,
			PauseTotalNs: snap.PauseTotalNs,
			NumGoroutine: runtime.NumGoroutine(),
		}
	}
}

func sampleSysStatsCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample(ctx)
		return SysStatsMsg{CPUPercent: s.CPUPercent, MemPercent: s.MemPercent}
	}
}

// watchContextCmd waits for the run's context to end.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
