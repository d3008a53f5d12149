package worm

import "math"

// straightSkeleton returns n collinear points along +x with the head at the
// origin (so the head sits at smaller x than the tail).
func straightSkeleton(n int) []Point {
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{X: float64(i)}
	}
	return pts
}

// headForwardSkeleton returns n collinear points along +x with the head at
// the largest x, pointing the worm along the positive axis.
func headForwardSkeleton(n int) []Point {
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{X: float64(n - 1 - i)}
	}
	return pts
}

// sineSkeleton returns n points tracing amplitude*sin over the given number
// of periods along the x axis.
func sineSkeleton(n int, periods, amplitude float64) []Point {
	pts := make([]Point, n)
	for i := range pts {
		t := float64(i) / float64(n-1)
		pts[i] = Point{
			X: float64(i),
			Y: amplitude * math.Sin(2*math.Pi*periods*t),
		}
	}
	return pts
}

// arcSkeleton returns n points on the upper half of the unit circle,
// travelling from (-1, 0) to (1, 0). The heading rotates clockwise along
// the sequence, so the bend interior lies to the right of travel.
func arcSkeleton(n int) []Point {
	pts := make([]Point, n)
	for i := range pts {
		theta := math.Pi - math.Pi*float64(i)/float64(n-1)
		pts[i] = Point{X: math.Cos(theta), Y: math.Sin(theta)}
	}
	return pts
}

// ellipseContour returns an n-point closed contour of an ellipse with
// semi-axes a, b rotated by angleDeg around its centre.
func ellipseContour(cx, cy, a, b, angleDeg float64, n int) []Point {
	rad := angleDeg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	pts := make([]Point, n)
	for i := range pts {
		t := 2 * math.Pi * float64(i) / float64(n)
		x := a * math.Cos(t)
		y := b * math.Sin(t)
		pts[i] = Point{
			X: cx + x*cos - y*sin,
			Y: cy + x*sin + y*cos,
		}
	}
	return pts
}

// circleContour returns an n-point closed circular contour.
func circleContour(cx, cy, r float64, n int) []Point {
	return ellipseContour(cx, cy, r, r, 0, n)
}

// harmonicBasis returns an orthonormal, zero-mean 6x48 basis built from
// cosine harmonics (the DCT-II family), handy for orthonormality checks.
func harmonicBasis() [][]float64 {
	rows := make([][]float64, EigenwormCount)
	norm := math.Sqrt(2.0 / float64(EigenAngleCount))
	for j := range rows {
		row := make([]float64, EigenAngleCount)
		for k := range row {
			row[k] = norm * math.Cos(math.Pi*float64(j+1)*(float64(k)+0.5)/float64(EigenAngleCount))
		}
		rows[j] = row
	}
	return rows
}

// segmentedFrame wraps a skeleton (and optional contour) in a segmented
// Frame.
func segmentedFrame(index int, skel, contour []Point) Frame {
	return Frame{Index: index, Code: FrameSegmented, Skeleton: skel, Contour: contour}
}

// failedFrame returns an unsegmented frame with the given cause.
func failedFrame(index int, code FrameCode) Frame {
	return Frame{Index: index, Code: code}
}
