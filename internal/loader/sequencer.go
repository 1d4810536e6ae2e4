// Package loader drives the boot splash: a synthetic progress counter, a
// rotating status line and a single completion signal.
package loader

import (
	"math/rand"
	"time"

	"linkamp/pkg/spec"
)

// State is the sequencer lifecycle.
type State int

const (
	Running State = iota
	Completing
	Done
	Stopped // torn down before completion
)

func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case Completing:
		return "Completing"
	case Done:
		return "Done"
	default:
		return "Stopped"
	}
}

// Rand picks status messages. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Options configures a sequencer run. Zero fields take the pkg/spec defaults.
type Options struct {
	ProgressTick time.Duration
	StatusTick   time.Duration
	Grace        time.Duration
	Initial      string
	Messages     []string
	Rand         Rand
}

func (o Options) withDefaults() Options {
	if o.ProgressTick <= 0 {
		o.ProgressTick = spec.ProgressTick
	}
	if o.StatusTick <= 0 {
		o.StatusTick = spec.StatusTick
	}
	if o.Grace <= 0 {
		o.Grace = spec.GraceDelay
	}
	if o.Initial == "" {
		o.Initial = spec.InitialStatus
	}
	if len(o.Messages) == 0 {
		o.Messages = spec.StatusMessages
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}

// Sequencer is the loading state machine. It owns no timers: a scheduler
// calls StepProgress, StepStatus and FireGrace, and stops re-arming a timer
// as soon as the matching step reports false.
//
// Running -> Completing when progress reaches 100, Completing -> Done when the
// grace delay fires. Teardown moves any unfinished run to Stopped.
type Sequencer struct {
	opts       Options
	progress   int
	status     string
	state      State
	fired      bool
	onComplete func()
}

// New returns a sequencer at progress 0 showing the initial status message.
// onComplete may be nil.
func New(opts Options, onComplete func()) *Sequencer {
	opts = opts.withDefaults()
	return &Sequencer{
		opts:       opts,
		status:     opts.Initial,
		onComplete: onComplete,
	}
}

func (s *Sequencer) Options() Options { return s.opts }
func (s *Sequencer) Progress() int    { return s.progress }
func (s *Sequencer) Status() string   { return s.status }
func (s *Sequencer) State() State     { return s.state }

// Messages returns every status line the sequencer can show, initial first.
func (s *Sequencer) Messages() []string {
	out := make([]string, 0, len(s.opts.Messages)+1)
	out = append(out, s.opts.Initial)
	return append(out, s.opts.Messages...)
}

// StepProgress advances progress by one. It returns true exactly once, on the
// step that reaches 100; the caller then drops the progress timer and arms
// the grace delay.
func (s *Sequencer) StepProgress() bool {
	if s.state != Running {
		return false
	}
	s.progress++
	if s.progress < spec.ProgressMax {
		return false
	}
	s.progress = spec.ProgressMax
	s.state = Completing
	return true
}

// StepStatus picks a random status message. Repeats are allowed. It reports
// whether the status timer should stay armed.
func (s *Sequencer) StepStatus() bool {
	if s.state != Running {
		return false
	}
	s.status = s.opts.Messages[s.opts.Rand.Intn(len(s.opts.Messages))]
	return true
}

// FireGrace completes the run and invokes the completion callback. It returns
// true only for the call that performed the transition.
func (s *Sequencer) FireGrace() bool {
	if s.state != Completing || s.fired {
		return false
	}
	s.state = Done
	s.fired = true
	if s.onComplete != nil {
		s.onComplete()
	}
	return true
}

// Teardown stops an unfinished run so pending timers fire into a no-op.
func (s *Sequencer) Teardown() {
	if s.state == Running || s.state == Completing {
		s.state = Stopped
	}
}
