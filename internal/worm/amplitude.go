package worm

import "math"

// Amplitudes computes the maximum amplitude and the amplitude ratio of a
// rotated, centred skeleton. Max amplitude is the full vertical span
// max(y) - min(y). The ratio is the smaller of the two half-spans over the
// larger, regardless of sign, so it always lies in (0, 1]; a skeleton
// symmetric about the major axis reads exactly 1. Both are NaN with fewer
// than 2 points, and the ratio is NaN when the skeleton has no vertical
// extent at all.
func Amplitudes(rotated []Point) (maxAmplitude, ratio float64) {
	if len(rotated) < 2 {
		return undefined(), undefined()
	}
	minY, maxY := rotated[0].Y, rotated[0].Y
	for _, p := range rotated[1:] {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	maxAmplitude = maxY - minY

	up := math.Abs(maxY)
	down := math.Abs(minY)
	larger := math.Max(up, down)
	smaller := math.Min(up, down)
	if larger == 0 {
		return maxAmplitude, undefined()
	}
	return maxAmplitude, smaller / larger
}

// TrackLength returns the horizontal span max(x) - min(x) of the rotated
// skeleton: the extent of the worm's posture projected onto its major
// axis, not its arc length. NaN with fewer than 2 points.
func TrackLength(rotated []Point) float64 {
	if len(rotated) < 2 {
		return undefined()
	}
	minX, maxX := rotated[0].X, rotated[0].X
	for _, p := range rotated[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
	}
	return maxX - minX
}
