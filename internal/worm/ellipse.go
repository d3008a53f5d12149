package worm

import (
	"math"

	"github.com/wormlab-data/posture.report/internal/units"
)

// covarianceEpsilon is the threshold below which covariance terms are
// treated as zero during the 2x2 eigenanalysis.
const covarianceEpsilon = 1e-9

// ShapeMeasures holds the per-frame equivalent-ellipse fit. Orientation is
// the major-axis angle in degrees; it is the single shared rotation value
// consumed by the amplitude, wavelength and track-length analyzers.
type ShapeMeasures struct {
	Eccentricity   float64
	OrientationDeg float64
}

// EquivalentEllipse fits an ellipse with the same area and second moments
// as the filled polygon bounded by the contour. It returns the ellipse
// eccentricity (0 for a circle, approaching 1 for a line) and the
// major-axis orientation in degrees. Both are NaN for a degenerate contour
// (fewer than 3 points or near-zero area).
func EquivalentEllipse(contour []Point) (eccentricity, orientationDeg float64) {
	if len(contour) < 3 {
		return undefined(), undefined()
	}

	// Polygon moments via Green's theorem. cross_i is the signed
	// parallelogram area of the edge i -> i+1.
	var area, mx, my, mxx, myy, mxy float64
	n := len(contour)
	for i := 0; i < n; i++ {
		p := contour[i]
		q := contour[(i+1)%n]
		cross := p.X*q.Y - q.X*p.Y
		area += cross
		mx += (p.X + q.X) * cross
		my += (p.Y + q.Y) * cross
		mxx += (p.X*p.X + p.X*q.X + q.X*q.X) * cross
		myy += (p.Y*p.Y + p.Y*q.Y + q.Y*q.Y) * cross
		mxy += (2*p.X*p.Y + p.X*q.Y + q.X*p.Y + 2*q.X*q.Y) * cross
	}
	area /= 2
	if math.Abs(area) < covarianceEpsilon {
		return undefined(), undefined()
	}
	cx := mx / (6 * area)
	cy := my / (6 * area)

	// Central second moments normalised by area. These match the
	// covariance of a uniform density over the silhouette, so the
	// equivalent ellipse shares the silhouette's mass distribution.
	uxx := mxx/(12*area) - cx*cx
	uyy := myy/(12*area) - cy*cy
	uxy := mxy/(24*area) - cx*cy

	lambda1, lambda2, evX, evY := symmetricEigen2x2(uxx, uxy, uyy)
	if lambda1 <= 0 {
		return undefined(), undefined()
	}
	ratio := lambda2 / lambda1
	if ratio < 0 {
		ratio = 0
	}
	eccentricity = math.Sqrt(1 - ratio)
	orientationDeg = units.Degrees(math.Atan2(evY, evX))
	return eccentricity, orientationDeg
}

// SkeletonOrientation returns the principal-axis angle in degrees of the
// skeleton point cloud. It is the orientation fallback for frames whose
// contour is unavailable, computed with the same eigenanalysis as the
// ellipse fit so the two conventions cannot drift.
func SkeletonOrientation(skel []Point) float64 {
	if len(skel) < 2 {
		return undefined()
	}
	c, _ := Centroid(skel)
	var cxx, cxy, cyy float64
	for _, p := range skel {
		dx := p.X - c.X
		dy := p.Y - c.Y
		cxx += dx * dx
		cxy += dx * dy
		cyy += dy * dy
	}
	nf := float64(len(skel))
	lambda1, _, evX, evY := symmetricEigen2x2(cxx/nf, cxy/nf, cyy/nf)
	if lambda1 <= 0 {
		return undefined()
	}
	return units.Degrees(math.Atan2(evY, evX))
}

// ComputeShape derives the frame's shape measures: eccentricity from the
// contour's equivalent ellipse, and the shared orientation. When the
// contour is missing or degenerate, eccentricity is NaN and orientation
// falls back to the skeleton principal axis.
func ComputeShape(skel, contour []Point) ShapeMeasures {
	ecc, orient := EquivalentEllipse(contour)
	if !isDefined(orient) {
		orient = SkeletonOrientation(skel)
	}
	return ShapeMeasures{Eccentricity: ecc, OrientationDeg: orient}
}

// symmetricEigen2x2 returns the eigenvalues (lambda1 >= lambda2) of the
// symmetric matrix [[a, b], [b, c]] and the unnormalised eigenvector of
// lambda1 (the principal axis).
func symmetricEigen2x2(a, b, c float64) (lambda1, lambda2, evX, evY float64) {
	trace := a + c
	det := a*c - b*b
	disc := trace*trace - 4*det
	if disc < 0 {
		disc = 0
	}
	sqrtDisc := math.Sqrt(disc)
	lambda1 = (trace + sqrtDisc) / 2
	lambda2 = (trace - sqrtDisc) / 2

	if math.Abs(b) > covarianceEpsilon {
		evX = b
		evY = lambda1 - a
	} else if a >= c {
		evX, evY = 1, 0
	} else {
		evX, evY = 0, 1
	}
	return lambda1, lambda2, evX, evY
}
