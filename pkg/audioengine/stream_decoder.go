package audioengine

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/faiface/beep"
	"github.com/hraban/opus"

	"linkamp/internal/security"
	"linkamp/pkg/spec"
)

// ErrKeyRequired is returned when a sealed track is opened without a key.
var ErrKeyRequired = errors.New("sealed track needs a key")

// frameDecoder is the part of *opus.Decoder the streamer uses.
type frameDecoder interface {
	Decode(data []byte, pcm []int16) (int, error)
}

func newOpusDecoder() (frameDecoder, error) {
	return opus.NewDecoder(spec.SampleRate, spec.Channels)
}

// FramedStreamer plays a .lamp track: an 8-byte magic followed by Opus
// frames, each prefixed with its big-endian uint16 length. Frames of a
// sealed track are AES-GCM boxes. A frame that fails to open or decode
// plays as silence.
type FramedStreamer struct {
	r      io.ReadSeeker
	closer io.Closer
	sealer *security.Sealer
	newDec func() (frameDecoder, error)
	dec    frameDecoder

	offsets []int64
	next    int
	buffer  [][2]float64
	pcm     []int16
	err     error
}

// FramedFormat is the output format of every framed track.
var FramedFormat = beep.Format{SampleRate: spec.SampleRate, NumChannels: spec.Channels, Precision: 2}

// NewFramedStreamer indexes the frames of rsc. key is required for sealed
// tracks and ignored otherwise.
func NewFramedStreamer(rsc io.ReadSeekCloser, key []byte) (*FramedStreamer, beep.Format, error) {
	s, err := newFramedStreamer(rsc, key, newOpusDecoder)
	if err != nil {
		return nil, beep.Format{}, err
	}
	s.closer = rsc
	return s, FramedFormat, nil
}

func newFramedStreamer(r io.ReadSeeker, key []byte, newDec func() (frameDecoder, error)) (*FramedStreamer, error) {
	magic := make([]byte, len(spec.TrackMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	s := &FramedStreamer{r: r, newDec: newDec, pcm: make([]int16, spec.MaxFrameSamples*spec.Channels)}
	switch string(magic) {
	case spec.TrackMagic:
	case spec.SealedTrackMagic:
		if len(key) == 0 {
			return nil, ErrKeyRequired
		}
		sealer, err := security.NewSealer(key)
		if err != nil {
			return nil, err
		}
		s.sealer = sealer
	default:
		return nil, fmt.Errorf("bad magic %q: %w", magic, ErrUnsupportedFormat)
	}
	if err := s.index(); err != nil {
		return nil, err
	}
	dec, err := newDec()
	if err != nil {
		return nil, fmt.Errorf("opus decoder: %w", err)
	}
	s.dec = dec
	return s, nil
}

// index records the offset of every complete frame. A truncated tail is
// dropped.
func (s *FramedStreamer) index() error {
	size, err := s.r.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	off := int64(len(spec.TrackMagic))
	var hdr [2]byte
	for off+2 <= size {
		if _, err := s.r.Seek(off, io.SeekStart); err != nil {
			return err
		}
		if _, err := io.ReadFull(s.r, hdr[:]); err != nil {
			return err
		}
		end := off + 2 + int64(binary.BigEndian.Uint16(hdr[:]))
		if end > size {
			break
		}
		s.offsets = append(s.offsets, off)
		off = end
	}
	return nil
}

// Frames is the number of complete frames in the track.
func (s *FramedStreamer) Frames() int { return len(s.offsets) }

func (s *FramedStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}
	filled := 0
	for filled < len(samples) {
		if len(s.buffer) == 0 {
			if s.next >= len(s.offsets) {
				break
			}
			if err := s.decodeFrame(s.next); err != nil {
				s.err = err
				break
			}
			s.next++
		}
		n := copy(samples[filled:], s.buffer)
		s.buffer = s.buffer[n:]
		filled += n
	}
	return filled, filled > 0
}

func (s *FramedStreamer) decodeFrame(i int) error {
	if _, err := s.r.Seek(s.offsets[i], io.SeekStart); err != nil {
		return err
	}
	var hdr [2]byte
	if _, err := io.ReadFull(s.r, hdr[:]); err != nil {
		return err
	}
	data := make([]byte, binary.BigEndian.Uint16(hdr[:]))
	if _, err := io.ReadFull(s.r, data); err != nil {
		return err
	}

	n, err := s.decode(data)
	if err != nil {
		s.buffer = make([][2]float64, spec.FrameSamples)
		return nil
	}
	s.buffer = make([][2]float64, n)
	for j := range n {
		s.buffer[j] = [2]float64{
			float64(s.pcm[j*2]) / 32768.0,
			float64(s.pcm[j*2+1]) / 32768.0,
		}
	}
	return nil
}

func (s *FramedStreamer) decode(data []byte) (int, error) {
	if s.sealer != nil {
		plain, err := s.sealer.Open(data)
		if err != nil {
			return 0, err
		}
		data = plain
	}
	return s.dec.Decode(data, s.pcm)
}

func (s *FramedStreamer) Err() error { return s.err }

// Len assumes the fixed frame size the packer writes.
func (s *FramedStreamer) Len() int { return len(s.offsets) * spec.FrameSamples }

func (s *FramedStreamer) Position() int {
	return s.next*spec.FrameSamples - len(s.buffer)
}

// Seek moves to sample p. The decoder is recreated so no state from the
// previous position leaks into the first frame.
func (s *FramedStreamer) Seek(p int) error {
	if p < 0 || p > s.Len() {
		return fmt.Errorf("seek %d out of range [0, %d]", p, s.Len())
	}
	dec, err := s.newDec()
	if err != nil {
		return err
	}
	s.dec = dec
	s.err = nil
	s.buffer = nil
	s.next = p / spec.FrameSamples
	if skip := p % spec.FrameSamples; skip > 0 && s.next < len(s.offsets) {
		if err := s.decodeFrame(s.next); err != nil {
			return err
		}
		s.next++
		s.buffer = s.buffer[min(skip, len(s.buffer)):]
	}
	return nil
}

func (s *FramedStreamer) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
