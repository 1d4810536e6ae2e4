package audioengine

import (
	"math"
	"testing"
)

func TestApplyQuickGainClips(t *testing.T) {
	s := []int16{1000, -1000, 20000, -20000}
	ApplyQuickGain(s, 2)
	want := []int16{2000, -2000, 32767, -32768}
	for i := range want {
		if s[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, s)
		}
	}
}

func TestPeakGain(t *testing.T) {
	if g := PeakGain([]int16{0, 0}); g != 1 {
		t.Fatalf("expected unity gain for silence, got %v", g)
	}
	if g := PeakGain([]int16{100, -16380}); math.Abs(g-2) > 1e-9 {
		t.Fatalf("expected gain 2, got %v", g)
	}
}

func TestVolumeExponent(t *testing.T) {
	if _, silent := VolumeExponent(0); !silent {
		t.Fatal("expected zero volume to be silent")
	}
	if exp, silent := VolumeExponent(1); silent || exp != 0 {
		t.Fatalf("expected 0 exponent at full volume, got %v %v", exp, silent)
	}
	exp, _ := VolumeExponent(0.1)
	if math.Abs(math.Pow(2, exp)-0.1) > 1e-9 {
		t.Fatalf("2^%v != 0.1", exp)
	}
}
