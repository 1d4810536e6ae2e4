package loader

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"linkamp/pkg/spec"
)

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// Timer messages carry the id of the Model that armed them so a remounted
// splash never reacts to ticks from a previous one.
type progressTickMsg struct{ id int }
type statusTickMsg struct{ id int }
type graceMsg struct{ id int }

// CompleteMsg is emitted once, after progress hit 100 and the grace delay
// elapsed.
type CompleteMsg struct{}

const (
	minBarWidth = 10
	maxBarWidth = 48
)

var (
	headStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true).Italic(true)
	countStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	footStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Model schedules a Sequencer on bubbletea ticks and renders the splash.
type Model struct {
	seq    *Sequencer
	id     int
	bar    progress.Model
	width  int
	height int
}

// NewModel builds a splash for one sequencer run.
func NewModel(opts Options) Model {
	bar := progress.New(progress.WithSolidFill("#FFFFFF"), progress.WithoutPercentage())
	bar.Width = 40
	return Model{
		seq: New(opts, nil),
		id:  nextID(),
		bar: bar,
	}
}

// Sequencer exposes the underlying state machine.
func (m Model) Sequencer() *Sequencer { return m.seq }

// Init arms the progress and status timers.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.progressTick(), m.statusTick())
}

func (m Model) progressTick() tea.Cmd {
	id := m.id
	return tea.Tick(m.seq.Options().ProgressTick, func(time.Time) tea.Msg {
		return progressTickMsg{id: id}
	})
}

func (m Model) statusTick() tea.Cmd {
	id := m.id
	return tea.Tick(m.seq.Options().StatusTick, func(time.Time) tea.Msg {
		return statusTickMsg{id: id}
	})
}

func (m Model) graceTimer() tea.Cmd {
	id := m.id
	return tea.Tick(m.seq.Options().Grace, func(time.Time) tea.Msg {
		return graceMsg{id: id}
	})
}

func complete() tea.Msg { return CompleteMsg{} }

// Update advances the sequencer. A timer is re-armed only while the matching
// step says so; the grace timer is armed after the progress timer is dropped.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.bar.Width = max(minBarWidth, min(maxBarWidth, msg.Width-16))

	case progressTickMsg:
		if msg.id != m.id || m.seq.State() != Running {
			return m, nil
		}
		if m.seq.StepProgress() {
			return m, m.graceTimer()
		}
		return m, m.progressTick()

	case statusTickMsg:
		if msg.id != m.id {
			return m, nil
		}
		if m.seq.StepStatus() {
			return m, m.statusTick()
		}

	case graceMsg:
		if msg.id != m.id {
			return m, nil
		}
		if m.seq.FireGrace() {
			return m, complete
		}
	}
	return m, nil
}

// Teardown cancels the run; ticks already in flight are ignored.
func (m Model) Teardown() { m.seq.Teardown() }

// View renders the splash centered in the window.
func (m Model) View() string {
	p := m.seq.Progress()

	head := headStyle.Render("LOADING...")
	count := countStyle.Render(fmt.Sprintf("%d%% COMPLETE", p))
	gap := max(1, m.bar.Width+2-lipgloss.Width(head)-lipgloss.Width(count))
	top := head + strings.Repeat(" ", gap) + count

	bar := "[" + m.bar.ViewAs(float64(p)/spec.ProgressMax) + "]"

	pulse := "▮"
	if (p/4)%2 == 1 {
		pulse = " "
	}
	status := statusStyle.Render(pulse + " " + m.seq.Status())

	foot := footStyle.Render(fmt.Sprintf("VER: %s\nSOURCE: %s", spec.Version, spec.SourceName))

	body := lipgloss.JoinVertical(lipgloss.Left, top, bar, "", status, "", foot)
	if m.width == 0 || m.height == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}
