// Package worm computes posture features from per-frame worm skeletons
// and contours produced by an external video segmenter.
//
// Every analyzer in this package is a pure function of a single frame's
// geometry plus fixed read-only inputs (the eigenworm basis); only the
// coiling scanner carries state across frames. Per-feature failures are
// soft: an unavailable value is NaN, and aggregation skips NaN inputs.
package worm

import "math"

// SkeletonPoints is the number of points every normalized skeleton carries.
// The segmenter resamples each frame's midline to exactly this many points,
// ordered head to tail.
const SkeletonPoints = 49

// Point is a 2D position in image coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FrameCode describes the segmentation outcome of one video frame. The
// numeric values mirror the segmenter's frame-code table.
type FrameCode int

const (
	// FrameSegmented marks a frame with a valid skeleton and contour.
	FrameSegmented FrameCode = 1
	// FrameStageMovement marks a frame dropped due to stage movement.
	FrameStageMovement FrameCode = 2
	// FrameDropped marks a frame missing from the video.
	FrameDropped FrameCode = 3
	// FrameSegmentationFailed marks a generic segmentation failure.
	FrameSegmentationFailed FrameCode = 101
	// FrameTooFewEnds marks a failure to find two sharp contour ends,
	// a primary indicator of coiling.
	FrameTooFewEnds FrameCode = 105
	// FrameAsymmetricSides marks head/tail contour side lengths differing
	// by more than a factor of two, the other coiling indicator.
	FrameAsymmetricSides FrameCode = 106
)

// Segmented reports whether the frame produced a valid skeleton.
func (c FrameCode) Segmented() bool { return c == FrameSegmented }

// IndicatesCoiling reports whether the failure cause is one of the two
// coiling indicators.
func (c FrameCode) IndicatesCoiling() bool {
	return c == FrameTooFewEnds || c == FrameAsymmetricSides
}

// String returns a short human-readable name for the code.
func (c FrameCode) String() string {
	switch c {
	case FrameSegmented:
		return "segmented"
	case FrameStageMovement:
		return "stage-movement"
	case FrameDropped:
		return "dropped"
	case FrameSegmentationFailed:
		return "segmentation-failed"
	case FrameTooFewEnds:
		return "too-few-ends"
	case FrameAsymmetricSides:
		return "asymmetric-sides"
	default:
		return "unknown"
	}
}

// VentralSide labels which side of the head-to-tail direction the worm's
// ventral surface lies on. It fixes the sign convention for bend angles:
// a bend whose interior is on the ventral side is negative.
type VentralSide int

const (
	// VentralUnknown falls back to the VentralLeft convention.
	VentralUnknown VentralSide = iota
	// VentralLeft means the ventral surface is on the left of the
	// head-to-tail direction of travel.
	VentralLeft
	// VentralRight means the ventral surface is on the right.
	VentralRight
)

// Frame is one video frame's segmentation output.
type Frame struct {
	Index    int         `json:"index"`
	Code     FrameCode   `json:"code"`
	Skeleton []Point     `json:"skeleton,omitempty"`
	Contour  []Point     `json:"contour,omitempty"`
	Ventral  VentralSide `json:"ventral,omitempty"`
}

// Partition is a half-open index range [Start, End) over the 49 skeleton
// points.
type Partition struct {
	Start int
	End   int
}

// Len returns the number of points in the partition.
func (p Partition) Len() int { return p.End - p.Start }

// Canonical partitions of the 49-point skeleton. The five-segment set
// (head, neck, midbody, hips, tail) drives bend statistics; the tip/base
// refinements drive the orientation sub-centroids.
var (
	PartHead     = Partition{0, 8}
	PartNeck     = Partition{8, 16}
	PartMidbody  = Partition{16, 33}
	PartHips     = Partition{33, 41}
	PartTail     = Partition{41, 49}
	PartHeadTip  = Partition{0, 4}
	PartHeadBase = Partition{4, 8}
	PartTailBase = Partition{41, 45}
	PartTailTip  = Partition{45, 49}
	PartAll      = Partition{0, 49}
)

// BendSegmentNames lists the five bend-statistic segments head to tail.
var BendSegmentNames = [5]string{"head", "neck", "midbody", "hips", "tail"}

// BendSegments lists the partitions matching BendSegmentNames.
var BendSegments = [5]Partition{PartHead, PartNeck, PartMidbody, PartHips, PartTail}

// undefined is the explicit "no value" marker used throughout the package.
func undefined() float64 { return math.NaN() }

// isDefined reports whether v carries a value.
func isDefined(v float64) bool { return !math.IsNaN(v) }
