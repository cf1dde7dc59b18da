package vmath

import "math"

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi
)

func DegToRad(d float64) float64 { return d * degToRad }
func RadToDeg(r float64) float64 { return r * radToDeg }

// NormalizeDegrees wraps d into [0, 360)
func NormalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	// -tiny + 360 rounds to exactly 360
	if d >= 360 {
		d = 0
	}
	return d
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
