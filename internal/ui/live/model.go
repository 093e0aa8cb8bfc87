package live

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lingoquiz/internal/grading"
	"lingoquiz/internal/question"
	"lingoquiz/internal/score"
	"lingoquiz/internal/session"
	"lingoquiz/internal/store"
)

// Model renders a quiz session using Bubble Tea.
type Model struct {
	ctx     context.Context
	ctrl    *session.Controller
	opts    Options
	snap    session.Snapshot
	cursor  int
	input   textinput.Model
	area    textarea.Model
	review  table.Model
	report  *score.Report
	saving  bool
	notice  string
	width   int
	started bool
}

// Options configures the quiz UI model.
type Options struct {
	Title        string
	NoColor      bool
	TickInterval time.Duration
	// AutoSave saves the attempt as soon as the summary appears.
	AutoSave bool
}

// NewModel constructs a UI model for a controller in the intro phase.
func NewModel(ctx context.Context, ctrl *session.Controller, opts Options) Model {
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	input := textinput.New()
	input.Placeholder = "type your answer"
	input.CharLimit = 200

	area := textarea.New()
	area.Placeholder = "write your answer"
	area.ShowLineNumbers = false
	area.SetHeight(6)

	review := table.New(
		table.WithColumns(reviewColumns(80)),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	review.SetStyles(tableStyles(opts.NoColor))

	return Model{
		ctx:    ctx,
		ctrl:   ctrl,
		opts:   opts,
		snap:   ctrl.Snapshot(),
		input:  input,
		area:   area,
		review: review,
		width:  80,
	}
}

// Init waits on the intro screen.
func (m Model) Init() tea.Cmd {
	return nil
}

// Snapshot returns the last session view the model rendered.
func (m Model) Snapshot() session.Snapshot {
	return m.snap
}

// loadedMsg reports the end of a load.
type loadedMsg struct {
	err error
}

// tickMsg carries a countdown tick for one session.
type tickMsg struct {
	sessionID string
}

// savedMsg reports the end of a save.
type savedMsg struct {
	receipt store.Receipt
	err     error
}

// Update handles keys, timer ticks and async results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.input.Width = max(typed.Width-4, 10)
		m.area.SetWidth(max(typed.Width-4, 10))
		m.review.SetColumns(reviewColumns(typed.Width))
		m.review.SetHeight(max(typed.Height-10, 3))
		return m, nil
	case loadedMsg:
		m = m.refresh()
		if m.snap.Phase == session.PhaseQuestion {
			m = m.resetInput()
			if m.snap.Timed {
				return m, m.tick()
			}
		}
		return m, nil
	case tickMsg:
		if typed.sessionID != m.ctrl.Snapshot().SessionID {
			return m, nil
		}
		running := m.ctrl.Tick(m.opts.TickInterval)
		var cmd tea.Cmd
		m, cmd = m.settle(m.ctrl.Snapshot())
		if running {
			return m, tea.Batch(cmd, m.tick())
		}
		return m, cmd
	case savedMsg:
		m.saving = false
		m = m.refresh()
		if typed.err != nil {
			m.notice = "Save failed: " + typed.err.Error() + " (press s to retry)"
		} else {
			m.notice = "Saved attempt " + typed.receipt.AttemptID
		}
		return m, nil
	case tea.KeyMsg:
		if typed.Type == tea.KeyCtrlC {
			m.ctrl.Restart()
			return m, tea.Quit
		}
		return m.handleKey(typed)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.snap.Phase {
	case session.PhaseIntro:
		switch msg.String() {
		case "enter":
			return m.start(false)
		case "q", "esc":
			return m, tea.Quit
		}
	case session.PhaseError:
		switch msg.String() {
		case "r", "enter":
			return m.start(true)
		case "q", "esc":
			return m, tea.Quit
		}
	case session.PhaseQuestion:
		return m.handleAnswerKey(msg)
	case session.PhaseFeedback:
		if msg.Type == tea.KeyEnter || msg.String() == "n" {
			return m.settle(m.ctrl.Next())
		}
	case session.PhaseSummary:
		switch msg.String() {
		case "s":
			return m.save()
		case "r":
			m.report = nil
			m.notice = ""
			m.started = false
			m.snap = m.ctrl.Restart()
			return m, nil
		case "q", "esc":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.review, cmd = m.review.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleAnswerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	q := m.snap.Question
	if q == nil {
		return m, nil
	}
	if msg.Type == tea.KeyTab {
		return m.settle(m.ctrl.Skip())
	}
	switch q.Kind {
	case question.KindChoice, question.KindTrueFalse:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(q.Options)-1 {
				m.cursor++
			}
		case "enter":
			if len(q.Options) == 0 {
				return m.settle(m.ctrl.Submit(grading.Response{}))
			}
			return m.settle(m.ctrl.Submit(grading.Choose(m.cursor)))
		default:
			if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(q.Options) {
				return m.settle(m.ctrl.Submit(grading.Choose(n - 1)))
			}
		}
		return m, nil
	case question.KindFreeText:
		if msg.Type == tea.KeyCtrlS {
			return m.settle(m.ctrl.Submit(grading.Text(m.area.Value())))
		}
		var cmd tea.Cmd
		m.area, cmd = m.area.Update(msg)
		return m, cmd
	default:
		if msg.Type == tea.KeyEnter {
			return m.settle(m.ctrl.Submit(grading.Text(m.input.Value())))
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// start loads the bank off the UI goroutine.
func (m Model) start(retry bool) (tea.Model, tea.Cmd) {
	if m.started && !retry {
		return m, nil
	}
	m.started = true
	m.notice = ""
	ctx, ctrl := m.ctx, m.ctrl
	m.snap.Phase = session.PhaseLoading
	return m, func() tea.Msg {
		if retry {
			return loadedMsg{err: ctrl.Retry(ctx)}
		}
		return loadedMsg{err: ctrl.Start(ctx)}
	}
}

func (m Model) save() (tea.Model, tea.Cmd) {
	if m.saving || m.snap.Save.State == session.SaveDone {
		return m, nil
	}
	m.saving = true
	m.notice = "Saving..."
	ctx, ctrl := m.ctx, m.ctrl
	return m, func() tea.Msg {
		receipt, err := ctrl.Save(ctx)
		return savedMsg{receipt: receipt, err: err}
	}
}

// settle adopts a new snapshot and prepares whatever the next phase needs.
func (m Model) settle(next session.Snapshot) (Model, tea.Cmd) {
	prev := m.snap
	m.snap = next
	if next.Phase == session.PhaseQuestion && (prev.Phase != session.PhaseQuestion || prev.Position != next.Position) {
		m = m.resetInput()
	}
	if next.Phase == session.PhaseSummary && prev.Phase != session.PhaseSummary {
		m = m.enterSummary()
		if m.opts.AutoSave {
			saved, cmd := m.save()
			return saved.(Model), cmd
		}
	}
	return m, nil
}

func (m Model) refresh() Model {
	m.snap = m.ctrl.Snapshot()
	return m
}

func (m Model) resetInput() Model {
	m.cursor = 0
	m.input.Reset()
	m.area.Reset()
	m.input.Blur()
	m.area.Blur()
	if q := m.snap.Question; q != nil {
		switch q.Kind {
		case question.KindFillBlank:
			m.input.Focus()
		case question.KindFreeText:
			m.area.Focus()
		}
	}
	return m
}

func (m Model) enterSummary() Model {
	report, err := m.ctrl.Report()
	if err != nil {
		return m
	}
	m.report = &report
	m.review.SetRows(reviewRows(report))
	return m
}

func (m Model) tick() tea.Cmd {
	id := m.snap.SessionID
	return tea.Tick(m.opts.TickInterval, func(time.Time) tea.Msg { return tickMsg{sessionID: id} })
}

// View renders the current phase.
func (m Model) View() string {
	header := renderHeader(m.snap, m.opts)
	var body string
	switch m.snap.Phase {
	case session.PhaseIntro:
		body = renderIntro(m.opts)
	case session.PhaseLoading:
		body = "Loading questions..."
	case session.PhaseError:
		body = renderError(m.snap, m.opts.NoColor)
	case session.PhaseQuestion:
		body = renderQuestion(m.snap, m.cursor, m.input.View(), m.area.View(), m.opts.NoColor)
	case session.PhaseFeedback:
		body = renderFeedback(m.snap, m.opts.NoColor)
	case session.PhaseSummary:
		body = renderSummary(m.snap, m.report, m.review.View(), m.opts.NoColor)
	}
	parts := []string{header, body}
	if m.notice != "" {
		parts = append(parts, stylize(m.notice, m.opts.NoColor, lipgloss.Color("244")))
	}
	parts = append(parts, renderFooter(m.snap))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
