package worm

import (
	"math"

	"github.com/wormlab-data/posture.report/internal/units"
)

// ChainCodeLengths returns the cumulative arc length along the point
// sequence. Element i is the distance travelled from point 0 to point i,
// so element 0 is 0 and the last element is the total arc length.
func ChainCodeLengths(pts []Point) []float64 {
	cum := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		dx := pts[i].X - pts[i-1].X
		dy := pts[i].Y - pts[i-1].Y
		cum[i] = cum[i-1] + math.Hypot(dx, dy)
	}
	return cum
}

// ArcLength returns the total chain-code arc length of the point sequence.
func ArcLength(pts []Point) float64 {
	if len(pts) < 2 {
		return 0
	}
	return ChainCodeLengths(pts)[len(pts)-1]
}

// Centroid returns the mean position of the points. The second return is
// false for an empty slice.
func Centroid(pts []Point) (Point, bool) {
	if len(pts) == 0 {
		return Point{}, false
	}
	var sx, sy float64
	for _, p := range pts {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(pts))
	return Point{X: sx / n, Y: sy / n}, true
}

// edgePointCount returns the number of points at each skeleton end whose
// bend angle is structurally undefined: the first and last ⌈n·fraction⌉
// points have no full forward or backward tangent span.
func edgePointCount(n int, fraction float64) int {
	return int(math.Ceil(float64(n) * fraction))
}

// TangentAngles computes, for each skeleton point, the direction of the
// chain spanning edgeFraction of the total arc length ahead of the point
// (forward) and behind it (backward). Angles are degrees in (-180, 180].
// Points within edgeFraction of either end have no partner and are NaN in
// both outputs.
func TangentAngles(skel []Point, edgeFraction float64) (forward, backward []float64) {
	n := len(skel)
	forward = make([]float64, n)
	backward = make([]float64, n)
	for i := range forward {
		forward[i] = undefined()
		backward[i] = undefined()
	}
	if n < 2 {
		return forward, backward
	}

	cum := ChainCodeLengths(skel)
	total := cum[n-1]
	if total == 0 {
		return forward, backward
	}
	edgeLen := edgeFraction * total
	edge := edgePointCount(n, edgeFraction)

	for i := edge; i < n-edge; i++ {
		// Forward partner: first point at least edgeLen ahead along the chain.
		fj := -1
		for j := i + 1; j < n; j++ {
			if cum[j]-cum[i] >= edgeLen {
				fj = j
				break
			}
		}
		// Backward partner: last point at least edgeLen behind.
		bk := -1
		for k := i - 1; k >= 0; k-- {
			if cum[i]-cum[k] >= edgeLen {
				bk = k
				break
			}
		}
		if fj < 0 || bk < 0 {
			continue
		}
		forward[i] = units.Degrees(math.Atan2(skel[fj].Y-skel[i].Y, skel[fj].X-skel[i].X))
		backward[i] = units.Degrees(math.Atan2(skel[i].Y-skel[bk].Y, skel[i].X-skel[bk].X))
	}
	return forward, backward
}

// RotateAndCenter rotates every point by -orientationDeg and translates the
// result so the centroid sits at the origin. All analyzers that consume a
// rotated skeleton (amplitude, wavelength, track length) must be fed the
// output of this one function with the frame's shared orientation so they
// agree bit for bit.
func RotateAndCenter(pts []Point, orientationDeg float64) []Point {
	out := make([]Point, len(pts))
	if len(pts) == 0 {
		return out
	}
	c, _ := Centroid(pts)
	a := units.Radians(-orientationDeg)
	cos, sin := math.Cos(a), math.Sin(a)
	for i, p := range pts {
		dx := p.X - c.X
		dy := p.Y - c.Y
		out[i] = Point{
			X: dx*cos - dy*sin,
			Y: dx*sin + dy*cos,
		}
	}
	return out
}

// xMonotonic reports whether the x coordinates are strictly increasing or
// strictly decreasing along the point sequence. A rotated skeleton that
// fails this cannot be treated as a single-valued signal y(x).
func xMonotonic(pts []Point) bool {
	if len(pts) < 2 {
		return false
	}
	increasing := pts[1].X > pts[0].X
	for i := 1; i < len(pts); i++ {
		if increasing && pts[i].X <= pts[i-1].X {
			return false
		}
		if !increasing && pts[i].X >= pts[i-1].X {
			return false
		}
	}
	return true
}
