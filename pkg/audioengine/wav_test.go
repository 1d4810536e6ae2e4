package audioengine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeWav(t *testing.T, frames int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	enc := wav.NewEncoder(f, 44100, 16, 2, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: 44100},
		Data:           make([]int, frames*2),
		SourceBitDepth: 16,
	}
	for i := range frames {
		buf.Data[2*i] = 16384
		buf.Data[2*i+1] = -8192
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDecodeWav(t *testing.T) {
	path := writeWav(t, 5000)
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	s, format, err := DecodeWav(f)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if format.SampleRate != 44100 || format.NumChannels != 2 || format.Precision != 2 {
		t.Fatalf("unexpected format %+v", format)
	}
	if s.Len() != 5000 {
		t.Fatalf("expected 5000 frames, got %d", s.Len())
	}

	buf := make([][2]float64, 1000)
	n, ok := s.Stream(buf)
	if !ok || n != 1000 {
		t.Fatalf("expected 1000 frames, got %d %v", n, ok)
	}
	if buf[0] != [2]float64{0.5, -0.25} {
		t.Fatalf("expected [0.5 -0.25], got %v", buf[0])
	}

	if err := s.Seek(4500); err != nil {
		t.Fatal(err)
	}
	if s.Position() != 4500 {
		t.Fatalf("expected position 4500, got %d", s.Position())
	}
	total := 0
	for {
		n, ok := s.Stream(buf)
		if !ok {
			break
		}
		total += n
	}
	if total != 500 {
		t.Fatalf("expected 500 frames after seek, got %d", total)
	}
}

func TestOpenRejectsUnknownExtension(t *testing.T) {
	if _, _, err := Open(Source{Ref: "cover.png"}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestOpenWav(t *testing.T) {
	s, format, err := Open(Source{Ref: writeWav(t, 10)})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if format.SampleRate != 44100 {
		t.Fatalf("unexpected rate %d", format.SampleRate)
	}
}
