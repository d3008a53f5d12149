package worm

import (
	"math"

	"github.com/wormlab-data/posture.report/internal/units"
)

// OrientationMeasures holds the per-frame angular directions derived from
// skeleton sub-centroids. Angles are degrees in (-180, 180]; 0 means the
// relevant direction points along the positive x axis. Overall is the
// direction from the tail-region centroid to the head-region centroid, so
// a worm lying on the x axis with its head at larger x reads 0 and with
// its head at smaller x reads 180.
type OrientationMeasures struct {
	OverallDeg float64
	HeadDeg    float64
	TailDeg    float64
}

// OrientationAngles computes the overall, head and tail directions for one
// frame. Head direction points from the head base toward the head tip;
// tail direction points from the tail base toward the tail tip. All three
// are independent per-frame computations with no smoothing, and all are
// NaN when the skeleton is not a full 49 points.
func OrientationAngles(skel []Point) OrientationMeasures {
	if len(skel) != SkeletonPoints {
		return OrientationMeasures{
			OverallDeg: undefined(),
			HeadDeg:    undefined(),
			TailDeg:    undefined(),
		}
	}
	return OrientationMeasures{
		OverallDeg: centroidAngle(skel, PartTail, PartHead),
		HeadDeg:    centroidAngle(skel, PartHeadBase, PartHeadTip),
		TailDeg:    centroidAngle(skel, PartTailBase, PartTailTip),
	}
}

// centroidAngle returns the direction in degrees from the centroid of the
// `from` partition to the centroid of the `to` partition.
func centroidAngle(skel []Point, from, to Partition) float64 {
	a, okA := Centroid(skel[from.Start:from.End])
	b, okB := Centroid(skel[to.Start:to.End])
	if !okA || !okB {
		return undefined()
	}
	return units.Degrees(math.Atan2(b.Y-a.Y, b.X-a.X))
}
