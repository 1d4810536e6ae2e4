package loader

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func fastOptions() Options {
	return Options{
		ProgressTick: time.Millisecond,
		StatusTick:   time.Millisecond,
		Grace:        time.Millisecond,
		Rand:         &seqRand{idx: []int{0}},
	}
}

func TestModelRunsToCompletion(t *testing.T) {
	m := NewModel(fastOptions())
	if m.Init() == nil {
		t.Fatal("expected Init to arm timers")
	}

	var cmd tea.Cmd
	for i := 0; i < 99; i++ {
		m, cmd = m.Update(progressTickMsg{id: m.id})
		if cmd == nil {
			t.Fatalf("expected progress timer re-armed at tick %d", i+1)
		}
	}
	m, cmd = m.Update(progressTickMsg{id: m.id})
	if m.Sequencer().State() != Completing || cmd == nil {
		t.Fatalf("expected grace timer armed on the 100th tick, state %s", m.Sequencer().State())
	}
	if msg := cmd(); msg != (graceMsg{id: m.id}) {
		t.Fatalf("expected grace message, got %#v", msg)
	}

	m, cmd = m.Update(graceMsg{id: m.id})
	if cmd == nil {
		t.Fatal("expected completion command")
	}
	if _, ok := cmd().(CompleteMsg); !ok {
		t.Fatal("expected CompleteMsg")
	}

	if _, cmd = m.Update(graceMsg{id: m.id}); cmd != nil {
		t.Fatal("completion must be emitted once")
	}
}

func TestModelIgnoresForeignTicks(t *testing.T) {
	a := NewModel(fastOptions())
	b := NewModel(fastOptions())

	a, cmd := a.Update(progressTickMsg{id: b.id})
	if cmd != nil || a.Sequencer().Progress() != 0 {
		t.Fatal("model reacted to another model's timer")
	}
}

func TestModelTeardownDropsTimers(t *testing.T) {
	m := NewModel(fastOptions())
	m, _ = m.Update(progressTickMsg{id: m.id})
	m.Teardown()

	var cmd tea.Cmd
	if m, cmd = m.Update(progressTickMsg{id: m.id}); cmd != nil {
		t.Fatal("progress timer re-armed after teardown")
	}
	if _, cmd = m.Update(statusTickMsg{id: m.id}); cmd != nil {
		t.Fatal("status timer re-armed after teardown")
	}
	if m.Sequencer().Progress() != 1 {
		t.Fatalf("expected progress frozen at 1, got %d", m.Sequencer().Progress())
	}
}

func TestModelViewShowsProgressAndStatus(t *testing.T) {
	m := NewModel(Options{Initial: "BOOTING"})
	for i := 0; i < 42; i++ {
		m, _ = m.Update(progressTickMsg{id: m.id})
	}
	out := m.View()
	if !strings.Contains(out, "42% COMPLETE") {
		t.Fatalf("expected progress in view, got:\n%s", out)
	}
	if !strings.Contains(out, "BOOTING") {
		t.Fatalf("expected status in view, got:\n%s", out)
	}
}

func TestModelSchedulesConfiguredPeriods(t *testing.T) {
	m := NewModel(Options{Grace: 5 * time.Millisecond})
	got := m.Sequencer().Options()
	if got.Grace != 5*time.Millisecond {
		t.Fatalf("expected configured grace 5ms, got %v", got.Grace)
	}
	if got.ProgressTick != 25*time.Millisecond || got.StatusTick != 400*time.Millisecond {
		t.Fatalf("expected default ticks, got %v %v", got.ProgressTick, got.StatusTick)
	}
}
