package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
	"github.com/linqs/psl-grounding-benchmarks/internal/usecase"
)

const recentLeaves = 5

type model struct {
	theme      Theme
	experiment string

	spinner spinner.Model
	bar     progress.Model
	width   int

	events <-chan tea.Msg
	cancel context.CancelFunc

	total    int
	finished int
	counts   map[domain.LeafStatus]int
	current  *domain.Leaf
	recent   []domain.LeafResult

	stopping bool
	done     bool
	report   domain.MatrixReport
	err      error
}

// Run shows live progress while deps.Run executes the matrix. Pressing q or
// ctrl+c cancels the run; the view stays up until the matrix has restored
// its data and returned.
func Run(ctx context.Context, deps Deps) (domain.MatrixReport, error) {
	if deps.Run == nil {
		return domain.MatrixReport{}, errors.New("tui: Run is nil")
	}
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tea.Msg, 16)
	quit := make(chan struct{})
	result := make(chan matrixDoneMsg, 1)

	startMatrix(ctx, deps, events, quit, result)

	m := newModel(deps.Experiment, events, cancel)
	_, uiErr := tea.NewProgram(wrapSafe(m, log)).Run()
	close(quit)
	if uiErr != nil {
		log.Error("tui.failed", "err", uiErr)
		cancel()
	}

	done := <-result
	if uiErr != nil {
		return done.report, errors.Join(done.err, fmt.Errorf("tui: %w", uiErr))
	}
	return done.report, done.err
}

func newModel(experiment string, events <-chan tea.Msg, cancel context.CancelFunc) model {
	if cancel == nil {
		cancel = func() {}
	}
	return model{
		theme:      DefaultTheme(),
		experiment: experiment,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		bar:        progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		width:      80,
		events:     events,
		cancel:     cancel,
		counts:     map[domain.LeafStatus]int{},
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, cmdWaitForEvent(m.events))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = max(10, min(msg.Width-20, 80))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if m.done {
				return m, tea.Quit
			}
			if !m.stopping {
				m.stopping = true
				m.cancel()
			}
			return m, nil
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case matrixEventMsg:
		m.apply(msg.event)
		return m, cmdWaitForEvent(m.events)

	case matrixDoneMsg:
		m.done = true
		m.current = nil
		m.report = msg.report
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) apply(e usecase.Event) {
	switch e.Kind {
	case usecase.EventPlanned:
		m.total = e.Total

	case usecase.EventLeafStart:
		leaf := e.Leaf
		m.current = &leaf

	case usecase.EventLeafDone:
		m.current = nil
		m.finished++
		m.counts[e.Result.Status]++
		m.recent = append(m.recent, e.Result)
		if len(m.recent) > recentLeaves {
			m.recent = m.recent[len(m.recent)-recentLeaves:]
		}
	}
}

func (m model) percent() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.finished) / float64(m.total)
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("pslbench") + "\n" +
		m.theme.Subtitle.Render("experiment "+m.experiment) + "\n"

	bar := m.bar.ViewAs(m.percent()) + fmt.Sprintf("  %d/%d", m.finished, m.total)

	var status string
	switch {
	case m.done && m.err != nil:
		status = m.theme.Failed.Render("✗ " + userMessage(m.err))
	case m.done:
		status = m.theme.Succeeded.Render("✓ done")
	case m.stopping:
		status = m.spinner.View() + " stopping, waiting for PSL to exit…"
	case m.current != nil:
		status = m.spinner.View() + " " + clampString(shortLeaf(*m.current), m.width-8)
	default:
		status = m.spinner.View() + " planning…"
	}

	body := bar + "\n\n" + status + "\n\n" +
		renderCounts(m.theme, m.counts) + "\n\n" +
		renderRecent(m.theme, m.recent, m.width-16)

	help := m.theme.Help.Render("q/ctrl+c stop")
	if m.done {
		help = ""
	}
	return wrap.Render(header + "\n" + m.theme.Card.Render(body) + "\n" + help)
}
