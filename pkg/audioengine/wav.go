package audioengine

import (
	"errors"
	"fmt"
	"io"

	"github.com/faiface/beep"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavChunkFrames = 4096

// wavStreamer adapts a go-audio WAV decoder to beep.
type wavStreamer struct {
	rsc    io.ReadSeekCloser
	dec    *wav.Decoder
	format beep.Format
	depth  int
	length int
	pos    int
	buf    *audio.IntBuffer
	err    error
}

// DecodeWav opens a PCM WAV stream. The returned streamer owns rsc.
func DecodeWav(rsc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	w := &wavStreamer{rsc: rsc}
	if err := w.reset(); err != nil {
		return nil, beep.Format{}, err
	}
	f := w.dec.Format()
	w.depth = int(w.dec.SampleBitDepth())
	if w.depth == 0 || w.depth > 32 || f.NumChannels < 1 {
		return nil, beep.Format{}, fmt.Errorf("wav: %d-bit %d-channel: %w", w.depth, f.NumChannels, ErrUnsupportedFormat)
	}
	w.format = beep.Format{
		SampleRate:  beep.SampleRate(f.SampleRate),
		NumChannels: f.NumChannels,
		Precision:   (w.depth-1)/8 + 1,
	}
	w.length = int(w.dec.PCMLen()) / (w.format.Precision * f.NumChannels)
	w.buf = &audio.IntBuffer{
		Format:         f,
		Data:           make([]int, wavChunkFrames*f.NumChannels),
		SourceBitDepth: w.depth,
	}
	return w, w.format, nil
}

// reset rewinds the file and positions a fresh decoder at the PCM chunk.
func (w *wavStreamer) reset() error {
	if _, err := w.rsc.Seek(0, io.SeekStart); err != nil {
		return err
	}
	w.dec = wav.NewDecoder(w.rsc)
	if !w.dec.IsValidFile() {
		return fmt.Errorf("wav: invalid file: %w", ErrUnsupportedFormat)
	}
	if err := w.dec.FwdToPCM(); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	w.pos = 0
	return nil
}

func (w *wavStreamer) Stream(samples [][2]float64) (int, bool) {
	if w.err != nil {
		return 0, false
	}
	ch := w.format.NumChannels
	scale := float64(int64(1) << (w.depth - 1))
	filled := 0
	for filled < len(samples) {
		want := min(len(samples)-filled, wavChunkFrames)
		w.buf.Data = w.buf.Data[:want*ch]
		n, err := w.dec.PCMBuffer(w.buf)
		if err != nil && !errors.Is(err, io.EOF) {
			w.err = err
			break
		}
		frames := n / ch
		if frames == 0 {
			break
		}
		for i := range frames {
			l := w.sample(i*ch, scale)
			r := l
			if ch > 1 {
				r = w.sample(i*ch+1, scale)
			}
			samples[filled+i] = [2]float64{l, r}
		}
		filled += frames
		w.pos += frames
	}
	return filled, filled > 0
}

func (w *wavStreamer) sample(i int, scale float64) float64 {
	v := w.buf.Data[i]
	if w.depth == 8 {
		v -= 128
	}
	return float64(v) / scale
}

func (w *wavStreamer) Err() error    { return w.err }
func (w *wavStreamer) Len() int      { return w.length }
func (w *wavStreamer) Position() int { return w.pos }

// Seek restarts decoding and discards frames up to p.
func (w *wavStreamer) Seek(p int) error {
	if p < 0 || p > w.length {
		return fmt.Errorf("wav: seek %d out of range [0, %d]", p, w.length)
	}
	if err := w.reset(); err != nil {
		return err
	}
	scratch := make([][2]float64, wavChunkFrames)
	for w.pos < p {
		if n, ok := w.Stream(scratch[:min(wavChunkFrames, p-w.pos)]); !ok || n == 0 {
			break
		}
	}
	return w.err
}

func (w *wavStreamer) Close() error { return w.rsc.Close() }
