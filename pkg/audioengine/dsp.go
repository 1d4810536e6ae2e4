package audioengine

import "math"

// ApplyQuickGain scales samples in place, clipping to int16.
func ApplyQuickGain(samples []int16, factor float64) {
	for i := range samples {
		val := float64(samples[i]) * factor
		if val > 32767 {
			val = 32767
		} else if val < -32768 {
			val = -32768
		}
		samples[i] = int16(val)
	}
}

// PeakGain returns the factor that brings the loudest sample to just under
// full scale, or 1 for silence.
func PeakGain(samples []int16) float64 {
	var peak float64
	for _, s := range samples {
		peak = max(peak, math.Abs(float64(s)))
	}
	if peak == 0 {
		return 1
	}
	return 32760.0 / peak
}

// VolumeExponent maps a linear element volume in [0,1] onto the base-2
// exponent used by effects.Volume. Zero volume is reported as silent.
func VolumeExponent(linear float64) (exp float64, silent bool) {
	if linear <= 0 {
		return 0, true
	}
	return math.Log2(min(linear, 1)), false
}
