package security

import (
	"bytes"
	"errors"
	"testing"
)

func TestSealOpenRoundTrip(t *testing.T) {
	s, err := NewSealer(TrackKey("suzume"))
	if err != nil {
		t.Fatal(err)
	}
	frame := []byte{1, 2, 3, 4, 5}
	sealed, err := s.Seal(frame)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(sealed, frame) {
		t.Fatal("sealed frame leaks plaintext")
	}
	got, err := s.Open(sealed)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, frame) {
		t.Fatalf("expected %v, got %v", frame, got)
	}
}

func TestOpenWithWrongKeyFails(t *testing.T) {
	a, _ := NewSealer(TrackKey("right"))
	b, _ := NewSealer(TrackKey("wrong"))
	sealed, err := a.Seal([]byte("frame"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Open(sealed); err == nil {
		t.Fatal("expected authentication failure with the wrong key")
	}
}

func TestOpenShortFrame(t *testing.T) {
	s, _ := NewSealer(TrackKey("x"))
	if _, err := s.Open([]byte{1, 2}); !errors.Is(err, ErrShortFrame) {
		t.Fatalf("expected ErrShortFrame, got %v", err)
	}
}

func TestDeriveKeyIsDeterministic(t *testing.T) {
	if !bytes.Equal(TrackKey("p"), TrackKey("p")) {
		t.Fatal("same passphrase produced different keys")
	}
	if len(TrackKey("p")) != 32 {
		t.Fatalf("expected 32-byte key, got %d", len(TrackKey("p")))
	}
	if bytes.Equal(TrackKey("p"), TrackKey("q")) {
		t.Fatal("different passphrases produced the same key")
	}
}
