// Package visualizer bridges the page's single audio element to the bar
// display: it holds autoplay back until the first user gesture, attaches the
// analysis graph once, and reduces frequency data to a few buckets per frame.
package visualizer

import (
	"errors"
	"log"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"linkamp/internal/interaction"
	"linkamp/internal/playlist"
	"linkamp/pkg/audioengine"
	"linkamp/pkg/spec"
)

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// FrameMsg drives one sampling cycle.
type FrameMsg struct{ id int }

// TrackEndedMsg reports that the element finished its source.
type TrackEndedMsg struct{ id int }

// Options tunes a Bridge. Zero fields take the package defaults.
type Options struct {
	TransformSize int
	Buckets       int
	Volume        float64
	FrameInterval time.Duration
	// Resolve turns a track into an element source. Nil uses the track's Src.
	Resolve func(playlist.Track) audioengine.Source
}

func (o Options) withDefaults() Options {
	if o.TransformSize == 0 {
		o.TransformSize = spec.TransformSize
	}
	if o.Buckets <= 0 {
		o.Buckets = spec.BucketCount
	}
	if o.Volume == 0 {
		o.Volume = spec.BackgroundVolume
	}
	if o.FrameInterval <= 0 {
		o.FrameInterval = spec.FrameInterval
	}
	if o.Resolve == nil {
		o.Resolve = func(t playlist.Track) audioengine.Source {
			return audioengine.Source{Ref: t.Src}
		}
	}
	return o
}

// Bridge owns the element's analysis attachment and the frame loop. Its
// methods are called from the program's update loop only.
type Bridge struct {
	ctx  audioengine.Context
	el   audioengine.Element
	pl   *playlist.Playlist
	opts Options

	gate     *interaction.Gate
	analyser audioengine.Analyser
	// attached is set once the element has an analysis source, even if
	// configuring it failed; the platform allows one per element.
	attached bool

	id      int
	running bool
	done    chan struct{}
	levels  []float64
}

// New wires a bridge to a context, an element and a playlist. Nothing is
// started until Mount.
func New(ctx audioengine.Context, el audioengine.Element, pl *playlist.Playlist, opts Options) *Bridge {
	opts = opts.withDefaults()
	return &Bridge{
		ctx:    ctx,
		el:     el,
		pl:     pl,
		opts:   opts,
		id:     nextID(),
		done:   make(chan struct{}),
		levels: make([]float64, opts.Buckets),
	}
}

// Mount sets the background volume, loads the current track, arms the
// first-interaction gate and tries to autoplay. The returned command starts
// the frame loop and the end-of-track watcher.
func (b *Bridge) Mount() tea.Cmd {
	b.el.SetVolume(b.opts.Volume)
	if t, idx := b.pl.Current(); idx >= 0 {
		if err := b.el.SetSource(b.opts.Resolve(t)); err != nil {
			log.Printf("AUDIO: load %q: %v", t.Title, err)
		}
	}
	b.gate = interaction.NewGate(b.onFirstInteraction, interaction.All()...)
	b.running = true
	b.AttemptPlay()
	return tea.Batch(b.frame(), b.waitEnded())
}

// AttemptPlay tries to start playback. Being blocked by the autoplay policy
// is expected; the gate retries after the first interaction.
func (b *Bridge) AttemptPlay() {
	b.SetupAnalysisGraph()
	err := b.el.Play()
	switch {
	case err == nil:
	case errors.Is(err, audioengine.ErrPolicyBlocked):
		log.Printf("AUDIO: autoplay waiting for first interaction")
	default:
		log.Printf("AUDIO: play: %v", err)
	}
}

func (b *Bridge) onFirstInteraction(k interaction.Kind) {
	log.Printf("VIS: first interaction (%s)", k)
	b.el.Activate()
	b.AttemptPlay()
}

// Dispatch forwards an input event to the first-interaction gate. It
// reports whether the event was the first gesture.
func (b *Bridge) Dispatch(k interaction.Kind) bool {
	if b.gate == nil {
		return false
	}
	return b.gate.Dispatch(k)
}

// WaitingForInteraction reports whether the gate is still armed.
func (b *Bridge) WaitingForInteraction() bool {
	return b.gate != nil && b.gate.Armed()
}

// SetupAnalysisGraph connects the element to an analyser at most once.
// Failures are logged and leave the visualizer idle; a refused context is
// retried on the next call, an element that already has a source is not.
func (b *Bridge) SetupAnalysisGraph() {
	if b.attached {
		return
	}
	a, err := b.ctx.Connect(b.el)
	if err != nil {
		if errors.Is(err, audioengine.ErrAlreadyConnected) {
			b.attached = true
		}
		log.Printf("VIS: analysis unavailable: %v", err)
		return
	}
	b.attached = true
	if err := a.ConfigureTransformSize(b.opts.TransformSize); err != nil {
		log.Printf("VIS: keeping default transform size: %v", err)
	}
	b.analyser = a
}

// SampleFrequencies returns the current bucket levels in [0,255]. It is all
// zeros while the element is paused or no analyser is attached.
func (b *Bridge) SampleFrequencies() []float64 {
	if b.analyser == nil || b.el.Paused() {
		return make([]float64, b.opts.Buckets)
	}
	return Reduce(b.analyser.ReadFrequencyDomainBytes(), b.opts.Buckets)
}

// Reduce splits raw into n contiguous equal slices and returns the mean of
// each. Bins past n*floor(len(raw)/n) are dropped.
func Reduce(raw []byte, n int) []float64 {
	out := make([]float64, n)
	if n <= 0 {
		return out
	}
	step := len(raw) / n
	if step == 0 {
		return out
	}
	for i := range out {
		sum := 0
		for _, v := range raw[i*step : (i+1)*step] {
			sum += int(v)
		}
		out[i] = float64(sum) / float64(step)
	}
	return out
}

// TogglePlayPause flips playback. It never touches the mute flag.
func (b *Bridge) TogglePlayPause() {
	b.el.Activate()
	if !b.el.Paused() {
		b.el.Pause()
		return
	}
	b.AttemptPlay()
}

// ToggleMute flips the mute flag. It never stops playback.
func (b *Bridge) ToggleMute() {
	b.el.SetMuted(!b.el.Muted())
}

func (b *Bridge) IsPlaying() bool { return !b.el.Paused() }
func (b *Bridge) IsMuted() bool   { return b.el.Muted() }

// Current returns the track the element is on.
func (b *Bridge) Current() playlist.Track {
	t, _ := b.pl.Current()
	return t
}

// OnTrackEnd moves to the next track, wrapping to the first. Playback
// continues only if it was active.
func (b *Bridge) OnTrackEnd() {
	if b.pl.Len() == 0 {
		return
	}
	wasPlaying := !b.el.Paused()
	next := b.pl.Advance()
	if err := b.el.SetSource(b.opts.Resolve(next)); err != nil {
		log.Printf("AUDIO: load %q: %v", next.Title, err)
		return
	}
	if wasPlaying {
		b.AttemptPlay()
	}
}

// Levels returns the buckets of the last frame.
func (b *Bridge) Levels() []float64 {
	return append([]float64(nil), b.levels...)
}

func (b *Bridge) frame() tea.Cmd {
	id := b.id
	return tea.Tick(b.opts.FrameInterval, func(time.Time) tea.Msg {
		return FrameMsg{id: id}
	})
}

func (b *Bridge) waitEnded() tea.Cmd {
	id, ended, done := b.id, b.el.Ended(), b.done
	return func() tea.Msg {
		select {
		case <-ended:
			return TrackEndedMsg{id: id}
		case <-done:
			return nil
		}
	}
}

// Update samples on frame messages and advances on track end. Messages
// from another bridge or after Teardown are dropped.
func (b *Bridge) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case FrameMsg:
		if msg.id != b.id || !b.running {
			return nil
		}
		b.levels = b.SampleFrequencies()
		return b.frame()
	case TrackEndedMsg:
		if msg.id != b.id || !b.running {
			return nil
		}
		b.OnTrackEnd()
		return b.waitEnded()
	}
	return nil
}

// Teardown cancels the gate and the frame loop and pauses the element.
func (b *Bridge) Teardown() {
	if !b.running {
		return
	}
	b.running = false
	close(b.done)
	if b.gate != nil {
		b.gate.Cancel()
	}
	b.el.Pause()
	clear(b.levels)
}
