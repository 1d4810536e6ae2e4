package audioengine

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"

	"linkamp/pkg/spec"
)

const defaultTransformSize = 2048

// Analyser exposes frequency-domain data for one connected element.
type Analyser interface {
	ConfigureTransformSize(n int) error
	// FrequencyBinCount is half the transform size.
	FrequencyBinCount() int
	// ReadFrequencyDomainBytes returns one byte per bin, 0 for silence up to
	// 255 for loud.
	ReadFrequencyDomainBytes() []byte
}

// Context creates analysers. An element can be connected once per context
// lifetime; a second Connect fails with ErrAlreadyConnected.
type Context interface {
	Connect(el Element) (Analyser, error)
	Close() error
}

// Tapper is implemented by elements that expose their samples.
type Tapper interface {
	Tap() *Tap
}

// TapContext analyses elements through their sample taps.
type TapContext struct {
	mu        sync.Mutex
	connected map[Element]struct{}
	closed    bool
}

// NewContext returns an open analysis context.
func NewContext() *TapContext {
	return &TapContext{connected: make(map[Element]struct{})}
}

func (c *TapContext) Connect(el Element) (Analyser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, fmt.Errorf("context closed: %w", ErrAnalysisUnavailable)
	}
	if _, ok := c.connected[el]; ok {
		return nil, ErrAlreadyConnected
	}
	t, ok := el.(Tapper)
	if !ok || t.Tap() == nil {
		return nil, fmt.Errorf("element %T has no sample tap: %w", el, ErrAnalysisUnavailable)
	}
	c.connected[el] = struct{}{}
	return NewFFTAnalyser(t.Tap()), nil
}

// Close releases the context. Existing analysers keep working; new
// connections fail.
func (c *TapContext) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

// FFTAnalyser follows the browser analyser: Blackman window, magnitudes
// scaled by 1/N, exponential smoothing over time, then decibels mapped from
// [MinDecibels, MaxDecibels] onto [0,255].
type FFTAnalyser struct {
	mu        sync.Mutex
	tap       *Tap
	size      int
	window    []float64
	smoothed  []float64
	smoothing float64
	minDB     float64
	maxDB     float64
}

// NewFFTAnalyser reads from tap with the default transform size.
func NewFFTAnalyser(tap *Tap) *FFTAnalyser {
	a := &FFTAnalyser{
		tap:       tap,
		smoothing: spec.SmoothingTimeConstant,
		minDB:     spec.MinDecibels,
		maxDB:     spec.MaxDecibels,
	}
	a.resize(defaultTransformSize)
	return a
}

// ConfigureTransformSize accepts powers of two in [32, 32768] that fit in
// the tap's history.
func (a *FFTAnalyser) ConfigureTransformSize(n int) error {
	if n < spec.MinTransformSize || n > spec.MaxTransformSize || n&(n-1) != 0 {
		return fmt.Errorf("transform size %d: must be a power of two in [%d, %d]",
			n, spec.MinTransformSize, spec.MaxTransformSize)
	}
	if n > a.tap.Size() {
		return fmt.Errorf("transform size %d: tap keeps only %d samples", n, a.tap.Size())
	}
	a.mu.Lock()
	a.resize(n)
	a.mu.Unlock()
	return nil
}

func (a *FFTAnalyser) resize(n int) {
	a.size = n
	a.smoothed = make([]float64, n/2)
	a.window = make([]float64, n)
	for i := range n {
		x := float64(i) / float64(n)
		a.window[i] = 0.42 - 0.5*math.Cos(2*math.Pi*x) + 0.08*math.Cos(4*math.Pi*x)
	}
}

func (a *FFTAnalyser) FrequencyBinCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.size / 2
}

func (a *FFTAnalyser) ReadFrequencyDomainBytes() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()

	samples := a.tap.Samples(a.size)
	buf := make([]float64, a.size)
	for i, s := range samples {
		buf[i] = s * a.window[i]
	}
	coeffs := fft.FFTReal(buf)

	out := make([]byte, a.size/2)
	for k := range out {
		mag := cmplx.Abs(coeffs[k]) / float64(a.size)
		a.smoothed[k] = a.smoothing*a.smoothed[k] + (1-a.smoothing)*mag
		out[k] = a.toByte(20 * math.Log10(a.smoothed[k]))
	}
	return out
}

func (a *FFTAnalyser) toByte(db float64) byte {
	if math.IsNaN(db) || db <= a.minDB {
		return 0
	}
	scaled := 255 * (db - a.minDB) / (a.maxDB - a.minDB)
	if scaled >= 255 {
		return 255
	}
	return byte(scaled)
}
