package rig

import "math"

// osc is a unit sine of the given period, delayed by offset seconds.
func osc(t, period, offset float64) float64 {
	return math.Sin(2 * math.Pi * (t - offset) / period)
}

// swell rises 0 -> 1 -> 0 over one period, starting at offset.
// It is a closed loop: swell(t) == swell(t+period).
func swell(t, period, offset float64) float64 {
	s := math.Sin(math.Pi * (t - offset) / period)
	return s * s
}

// mirror is a triangle wave in [-1, 1] that starts at -1 and turns around
// every half period, like a tween played back and forth.
func mirror(t, period float64) float64 {
	u := math.Mod(t, period) / period
	if u < 0 {
		u++
	}
	if u < 0.5 {
		return 4*u - 1
	}
	return 3 - 4*u
}

// over reports whether a slow gate sine is above threshold. Duty-cycled
// extremes are only active while it is.
func over(t, period, threshold float64) bool {
	return osc(t, period, 0) > threshold
}
