package audioengine

import (
	"sync"

	"github.com/faiface/beep"
)

// Tap keeps the most recent mono samples of whatever stream it wraps so an
// analyser can read them. One Tap outlives the sources it is attached to.
type Tap struct {
	mu  sync.Mutex
	buf []float64
	pos int
}

// NewTap allocates a ring of size samples.
func NewTap(size int) *Tap {
	return &Tap{buf: make([]float64, size)}
}

// Size returns the ring capacity.
func (t *Tap) Size() int { return len(t.buf) }

// Wrap returns a streamer that passes s through while recording it.
func (t *Tap) Wrap(s beep.Streamer) beep.Streamer {
	return &tapStreamer{s: s, tap: t}
}

// Write records a block of stereo samples as a mono mix.
func (t *Tap) Write(samples [][2]float64) {
	t.mu.Lock()
	for _, s := range samples {
		t.buf[t.pos] = (s[0] + s[1]) / 2
		t.pos = (t.pos + 1) % len(t.buf)
	}
	t.mu.Unlock()
}

// Samples returns the last n samples in chronological order.
func (t *Tap) Samples(n int) []float64 {
	size := len(t.buf)
	n = min(n, size)
	out := make([]float64, n)
	t.mu.Lock()
	start := (t.pos - n + size) % size
	for i := range n {
		out[i] = t.buf[(start+i)%size]
	}
	t.mu.Unlock()
	return out
}

// Reset clears the ring.
func (t *Tap) Reset() {
	t.mu.Lock()
	clear(t.buf)
	t.pos = 0
	t.mu.Unlock()
}

type tapStreamer struct {
	s   beep.Streamer
	tap *Tap
}

func (ts *tapStreamer) Stream(samples [][2]float64) (int, bool) {
	n, ok := ts.s.Stream(samples)
	ts.tap.Write(samples[:n])
	return n, ok
}

func (ts *tapStreamer) Err() error { return ts.s.Err() }
