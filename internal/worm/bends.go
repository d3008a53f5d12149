package worm

import (
	"github.com/wormlab-data/posture.report/internal/units"
)

// BendStat is the aggregate bend statistic for one body segment.
type BendStat struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// BendAngles computes the signed supplementary bend angle at every skeleton
// point: the difference between the backward and forward tangent directions
// computed over edgeFraction of the arc length. A straight chain reads 0
// everywhere. The sign convention is ventral-interior-negative: with the
// ventral surface on the left of the head-to-tail direction, a
// counter-clockwise (leftward) bend is negative; VentralRight flips the
// sign, VentralUnknown behaves as VentralLeft. Points within edgeFraction
// of either end are NaN.
func BendAngles(skel []Point, ventral VentralSide, edgeFraction float64) []float64 {
	forward, backward := TangentAngles(skel, edgeFraction)
	angles := make([]float64, len(skel))
	flip := 1.0
	if ventral == VentralRight {
		flip = -1.0
	}
	for i := range angles {
		if !isDefined(forward[i]) || !isDefined(backward[i]) {
			angles[i] = undefined()
			continue
		}
		angles[i] = flip * units.NormalizeDegrees(backward[i]-forward[i])
	}
	return angles
}

// SegmentBendStats aggregates a per-point bend-angle series into the five
// canonical body segments. Undefined angles are excluded; a segment with no
// defined angles yields an undefined statistic, not zero.
func SegmentBendStats(angles []float64) [5]BendStat {
	var out [5]BendStat
	for i, part := range BendSegments {
		if part.End > len(angles) {
			out[i] = BendStat{Mean: undefined(), StdDev: undefined()}
			continue
		}
		seg := angles[part.Start:part.End]
		out[i] = BendStat{Mean: nanMean(seg), StdDev: nanStdDev(seg)}
	}
	return out
}
