package audioengine

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hraban/opus"

	"linkamp/internal/security"
	"linkamp/pkg/spec"
)

type EncoderResult struct {
	Frame []byte
	Error error
}

// StreamEncodeWavToOpus encodes a 48kHz 16-bit stereo WAV into 20ms Opus
// frames sent on resultChan, scaling samples by gain. resultChan is closed
// when encoding stops. It returns the duration in seconds.
func StreamEncodeWavToOpus(inputPath string, gain float64, resultChan chan<- EncoderResult) (float64, error) {
	defer close(resultChan)

	file, err := os.Open(inputPath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	dec := wav.NewDecoder(file)
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("%s: %w", inputPath, ErrUnsupportedFormat)
	}
	if err := dec.FwdToPCM(); err != nil {
		return 0, err
	}
	f := dec.Format()
	if f.SampleRate != spec.SampleRate || f.NumChannels != spec.Channels || dec.SampleBitDepth() != 16 {
		return 0, fmt.Errorf("%s: need %dHz 16-bit stereo, got %dHz %d-bit %d-channel: %w",
			inputPath, spec.SampleRate, f.SampleRate, dec.SampleBitDepth(), f.NumChannels, ErrUnsupportedFormat)
	}

	enc, err := opus.NewEncoder(spec.SampleRate, spec.Channels, opus.AppAudio)
	if err != nil {
		return 0, err
	}

	pcmBuf := make([]int16, spec.FrameSamples*spec.Channels)
	opusBuf := make([]byte, 1500)

	// One second per read; frames are cut from it.
	intBuf := &audio.IntBuffer{
		Data:   make([]int, spec.SampleRate*spec.Channels),
		Format: &audio.Format{NumChannels: spec.Channels, SampleRate: spec.SampleRate},
	}

	totalSamples := 0
	for {
		n, err := dec.PCMBuffer(intBuf)
		if err != nil && !errors.Is(err, io.EOF) {
			resultChan <- EncoderResult{Error: err}
			return 0, err
		}
		if n == 0 {
			break
		}

		for i := 0; i < n; i += len(pcmBuf) {
			batch := min(len(pcmBuf), n-i)
			if batch < len(pcmBuf) {
				clear(pcmBuf)
			}
			for j := range batch {
				pcmBuf[j] = int16(intBuf.Data[i+j])
			}
			if gain != 1 {
				ApplyQuickGain(pcmBuf[:batch], gain)
			}

			size, err := enc.Encode(pcmBuf, opusBuf)
			if err != nil {
				resultChan <- EncoderResult{Error: err}
				return 0, err
			}
			frame := make([]byte, size)
			copy(frame, opusBuf[:size])
			resultChan <- EncoderResult{Frame: frame}
			totalSamples += batch
		}

		if errors.Is(err, io.EOF) {
			break
		}
	}

	return float64(totalSamples) / spec.SampleRate / spec.Channels, nil
}

// WriteFramedTrack writes the .lamp layout read by FramedStreamer. Frames
// are sealed when sealer is non-nil. progress, if set, sees the running
// frame count. It returns the number of frames written.
func WriteFramedTrack(w io.Writer, frames <-chan EncoderResult, sealer *security.Sealer, progress func(int)) (int, error) {
	magic := spec.TrackMagic
	if sealer != nil {
		magic = spec.SealedTrackMagic
	}
	if _, err := io.WriteString(w, magic); err != nil {
		return 0, err
	}

	count := 0
	var hdr [2]byte
	for res := range frames {
		if res.Error != nil {
			return count, res.Error
		}
		data := res.Frame
		if sealer != nil {
			sealed, err := sealer.Seal(data)
			if err != nil {
				return count, fmt.Errorf("seal frame %d: %w", count, err)
			}
			data = sealed
		}
		if len(data) > 0xFFFF {
			return count, fmt.Errorf("frame %d: %d bytes exceeds frame limit", count, len(data))
		}
		binary.BigEndian.PutUint16(hdr[:], uint16(len(data)))
		if _, err := w.Write(hdr[:]); err != nil {
			return count, err
		}
		if _, err := w.Write(data); err != nil {
			return count, err
		}
		count++
		if progress != nil {
			progress(count)
		}
	}
	return count, nil
}
