// Package audioengine is the playback platform of the page: an audio element
// on top of the beep speaker, sample taps, an FFT analysis context and the
// track decoders.
package audioengine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"

	"linkamp/pkg/spec"
)

var (
	// ErrPolicyBlocked is returned by Play before the first user gesture.
	ErrPolicyBlocked = errors.New("playback blocked until user interaction")
	// ErrNoSource is returned by Play when no track is loaded.
	ErrNoSource = errors.New("no source loaded")
	// ErrAlreadyConnected is returned when an element gets a second analysis source.
	ErrAlreadyConnected = errors.New("element already connected to an analyser")
	// ErrAnalysisUnavailable is returned when the context cannot analyse an element.
	ErrAnalysisUnavailable = errors.New("audio analysis unavailable")
	// ErrUnsupportedFormat is returned for track files no decoder handles.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// Source references a track file. Key is only used by sealed framed tracks.
type Source struct {
	Ref string
	Key []byte
}

// Element is a single media element: one current source, a paused flag, a
// mute flag independent of playback, and end-of-track notifications.
type Element interface {
	Play() error
	Pause()
	Paused() bool
	SetMuted(muted bool)
	Muted() bool
	SetVolume(v float64)
	Volume() float64
	// SetSource loads src. The paused flag carries over to the new source.
	SetSource(src Source) error
	CurrentSource() string
	// Activate records a user gesture; the autoplay policy is lifted after it.
	Activate()
	// Ended delivers one notification per track that played to its end.
	Ended() <-chan struct{}
}

// Opener decodes a source into a stream.
type Opener func(Source) (beep.StreamSeekCloser, beep.Format, error)

// SpeakerElement plays through the beep speaker:
//
//	[Decode] -> [Resample] -> [Tap] -> [Volume] -> [Ctrl] -> [Speaker]
//
// The tap sits before the volume stage, so mute and volume never blank the
// analyser.
type SpeakerElement struct {
	mu             sync.Mutex
	sr             beep.SampleRate
	open           Opener
	requireGesture bool
	activated      bool

	src      Source
	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl
	vol      *effects.Volume
	tap      *Tap

	volume float64
	muted  bool
	paused bool

	gen   atomic.Uint64 // invalidates end callbacks of replaced sources
	ended chan struct{}
}

// NewSpeakerElement creates a paused element. The speaker must already be
// initialised at sr. A nil open uses Open.
func NewSpeakerElement(sr beep.SampleRate, open Opener, requireGesture bool) *SpeakerElement {
	if open == nil {
		open = Open
	}
	return &SpeakerElement{
		sr:             sr,
		open:           open,
		requireGesture: requireGesture,
		tap:            NewTap(spec.MaxTransformSize),
		volume:         1,
		paused:         true,
		ended:          make(chan struct{}, 1),
	}
}

// Tap exposes the element's sample tap to an analysis context.
func (e *SpeakerElement) Tap() *Tap { return e.tap }

func (e *SpeakerElement) Activate() {
	e.mu.Lock()
	e.activated = true
	e.mu.Unlock()
}

func (e *SpeakerElement) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.requireGesture && !e.activated {
		return ErrPolicyBlocked
	}
	if e.ctrl == nil {
		if e.src.Ref == "" {
			return ErrNoSource
		}
		if err := e.load(); err != nil {
			return err
		}
	}
	e.paused = false
	speaker.Lock()
	e.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

func (e *SpeakerElement) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = true
	if e.ctrl != nil {
		speaker.Lock()
		e.ctrl.Paused = true
		speaker.Unlock()
	}
}

func (e *SpeakerElement) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

func (e *SpeakerElement) SetMuted(muted bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muted = muted
	e.applyGain()
}

func (e *SpeakerElement) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

// SetVolume sets the linear volume, clamped to [0,1].
func (e *SpeakerElement) SetVolume(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = max(0, min(1, v))
	e.applyGain()
}

func (e *SpeakerElement) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

func (e *SpeakerElement) SetSource(src Source) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.release()
	e.src = src
	if err := e.load(); err != nil {
		e.paused = true
		return err
	}
	return nil
}

func (e *SpeakerElement) CurrentSource() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.src.Ref
}

func (e *SpeakerElement) Ended() <-chan struct{} { return e.ended }

// Close stops playback and releases the current source.
func (e *SpeakerElement) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.release()
}

// load builds the pipeline for e.src and hands it to the speaker. Caller
// holds e.mu.
func (e *SpeakerElement) load() error {
	s, format, err := e.open(e.src)
	if err != nil {
		return fmt.Errorf("open %s: %w", e.src.Ref, err)
	}

	var st beep.Streamer = s
	if format.SampleRate != e.sr {
		st = beep.Resample(4, format.SampleRate, e.sr, st)
	}
	st = e.tap.Wrap(st)

	e.streamer = s
	e.vol = &effects.Volume{Streamer: st, Base: 2}
	e.ctrl = &beep.Ctrl{Streamer: e.vol, Paused: e.paused}
	e.applyGain()

	speaker.Play(e.pipeline(e.gen.Add(1)))
	return nil
}

// pipeline follows the current control stage with an end-of-track callback
// that only reports while generation g is current. Caller holds e.mu.
func (e *SpeakerElement) pipeline(g uint64) beep.Streamer {
	// The callback runs inside the speaker lock; it must not touch e.mu.
	return beep.Seq(e.ctrl, beep.Callback(func() {
		if e.gen.Load() != g {
			return
		}
		select {
		case e.ended <- struct{}{}:
		default:
		}
	}))
}

// release detaches the current source. Caller holds e.mu.
func (e *SpeakerElement) release() {
	e.gen.Add(1)
	if e.ctrl == nil && e.streamer == nil {
		return
	}
	speaker.Clear()
	e.tap.Reset()
	if e.streamer != nil {
		e.streamer.Close()
		e.streamer = nil
	}
	e.ctrl = nil
	e.vol = nil
}

// applyGain pushes volume and mute into the pipeline. Caller holds e.mu.
func (e *SpeakerElement) applyGain() {
	if e.vol == nil {
		return
	}
	exp, silent := VolumeExponent(e.volume)
	speaker.Lock()
	e.vol.Volume = exp
	e.vol.Silent = silent || e.muted
	speaker.Unlock()
}
