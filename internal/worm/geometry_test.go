package worm

import (
	"math"
	"testing"
)

func TestChainCodeLengths(t *testing.T) {
	pts := []Point{{0, 0}, {3, 4}, {3, 5}}
	cum := ChainCodeLengths(pts)
	want := []float64{0, 5, 6}
	for i := range want {
		if math.Abs(cum[i]-want[i]) > 1e-12 {
			t.Errorf("cum[%d] = %v, want %v", i, cum[i], want[i])
		}
	}
	if got := ArcLength(pts); math.Abs(got-6) > 1e-12 {
		t.Errorf("ArcLength = %v, want 6", got)
	}
	if got := ArcLength(pts[:1]); got != 0 {
		t.Errorf("ArcLength of single point = %v, want 0", got)
	}
}

func TestTangentAnglesEdgeRegionUndefined(t *testing.T) {
	skel := straightSkeleton(SkeletonPoints)
	forward, backward := TangentAngles(skel, 1.0/12.0)

	edge := int(math.Ceil(float64(SkeletonPoints) / 12.0)) // 5
	for i := 0; i < SkeletonPoints; i++ {
		definedRegion := i >= edge && i < SkeletonPoints-edge
		if definedRegion {
			if math.IsNaN(forward[i]) || math.IsNaN(backward[i]) {
				t.Errorf("point %d: tangents undefined inside the interior", i)
			}
		} else {
			if !math.IsNaN(forward[i]) || !math.IsNaN(backward[i]) {
				t.Errorf("point %d: tangents defined inside the edge region", i)
			}
		}
	}

	// A straight chain has identical forward and backward directions.
	for i := edge; i < SkeletonPoints-edge; i++ {
		if math.Abs(forward[i]) > 1e-12 || math.Abs(backward[i]) > 1e-12 {
			t.Errorf("point %d: tangents (%v, %v) on a straight chain, want 0", i, forward[i], backward[i])
		}
	}
}

func TestTangentAnglesDegenerate(t *testing.T) {
	forward, backward := TangentAngles([]Point{{1, 1}}, 1.0/12.0)
	if !math.IsNaN(forward[0]) || !math.IsNaN(backward[0]) {
		t.Error("single-point skeleton should have undefined tangents")
	}

	// All points coincident: zero arc length, everything undefined.
	same := make([]Point, 10)
	forward, backward = TangentAngles(same, 1.0/12.0)
	for i := range same {
		if !math.IsNaN(forward[i]) || !math.IsNaN(backward[i]) {
			t.Errorf("point %d: coincident skeleton should be undefined", i)
		}
	}
}

func TestRotateAndCenter(t *testing.T) {
	// A 45 degree diagonal rotated by its own orientation lands on the x
	// axis with the centroid at the origin.
	pts := make([]Point, 5)
	for i := range pts {
		pts[i] = Point{X: float64(i), Y: float64(i)}
	}
	rotated := RotateAndCenter(pts, 45)

	var sx, sy float64
	for _, p := range rotated {
		sx += p.X
		sy += p.Y
		if math.Abs(p.Y) > 1e-12 {
			t.Errorf("rotated point %+v should lie on the x axis", p)
		}
	}
	if math.Abs(sx) > 1e-9 || math.Abs(sy) > 1e-9 {
		t.Errorf("centroid (%v, %v) should be the origin", sx, sy)
	}

	// Same rotation convention for all callers: rotating by 0 only centres.
	centred := RotateAndCenter(pts, 0)
	if math.Abs(centred[0].X-(-2)) > 1e-12 || math.Abs(centred[0].Y-(-2)) > 1e-12 {
		t.Errorf("centred[0] = %+v, want (-2, -2)", centred[0])
	}
}

func TestXMonotonic(t *testing.T) {
	if !xMonotonic(straightSkeleton(10)) {
		t.Error("increasing x should be monotonic")
	}
	if !xMonotonic(headForwardSkeleton(10)) {
		t.Error("decreasing x should be monotonic")
	}
	s := straightSkeleton(10)
	s[5].X = s[3].X // introduce a fold
	if xMonotonic(s) {
		t.Error("folded x should not be monotonic")
	}
	if xMonotonic(s[:1]) {
		t.Error("single point is not monotonic")
	}
}
