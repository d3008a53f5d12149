// Package units provides shared angle and time conversions for posture analysis.
package units

import "math"

// DegreesPerRadian converts radians to degrees when multiplied.
const DegreesPerRadian = 180.0 / math.Pi

// Degrees converts an angle in radians to degrees.
func Degrees(rad float64) float64 {
	return rad * DegreesPerRadian
}

// Radians converts an angle in degrees to radians.
func Radians(deg float64) float64 {
	return deg / DegreesPerRadian
}

// NormalizeDegrees wraps an angle in degrees into the interval (-180, 180].
func NormalizeDegrees(deg float64) float64 {
	if math.IsNaN(deg) {
		return deg
	}
	for deg > 180 {
		deg -= 360
	}
	for deg <= -180 {
		deg += 360
	}
	return deg
}

// FramesToSeconds converts a frame count to a duration in seconds at the
// given frame rate. Returns 0 for a non-positive frame rate.
func FramesToSeconds(frames int, fps float64) float64 {
	if fps <= 0 {
		return 0
	}
	return float64(frames) / fps
}
