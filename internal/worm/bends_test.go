package worm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBendAnglesStraightWorm(t *testing.T) {
	angles := BendAngles(straightSkeleton(SkeletonPoints), VentralLeft, 1.0/12.0)
	edge := int(math.Ceil(float64(SkeletonPoints) / 12.0))
	for i, a := range angles {
		if i < edge || i >= SkeletonPoints-edge {
			assert.True(t, math.IsNaN(a), "point %d should be undefined", i)
			continue
		}
		assert.InDelta(t, 0, a, 1e-9, "point %d", i)
	}
}

func TestBendAnglesVentralSignConvention(t *testing.T) {
	// Calibration fixture: an arc whose heading rotates clockwise along
	// the worm, so the bend interior is on the right of travel. With the
	// ventral surface on the left the interior is dorsal and the angle is
	// positive; labelling the ventral surface right flips the sign.
	skel := arcSkeleton(SkeletonPoints)

	left := BendAngles(skel, VentralLeft, 1.0/12.0)
	right := BendAngles(skel, VentralRight, 1.0/12.0)
	unknown := BendAngles(skel, VentralUnknown, 1.0/12.0)

	seen := 0
	for i := range left {
		if math.IsNaN(left[i]) {
			assert.True(t, math.IsNaN(right[i]))
			continue
		}
		seen++
		assert.Greater(t, left[i], 0.0, "point %d: dorsal-interior bend should be positive", i)
		assert.InDelta(t, -left[i], right[i], 1e-12, "point %d: VentralRight flips the sign", i)
		assert.Equal(t, left[i], unknown[i], "point %d: VentralUnknown behaves as VentralLeft", i)
	}
	require.Greater(t, seen, 0, "no defined bend angles in fixture")
}

func TestSegmentBendStats(t *testing.T) {
	angles := make([]float64, SkeletonPoints)
	for i := range angles {
		angles[i] = math.NaN()
	}
	// Define a few midbody values only.
	angles[20] = 10
	angles[21] = 20
	angles[22] = 30

	stats := SegmentBendStats(angles)

	// head, neck, hips, tail have no defined points: undefined, not zero.
	for _, seg := range []int{0, 1, 3, 4} {
		assert.True(t, math.IsNaN(stats[seg].Mean), "%s mean", BendSegmentNames[seg])
		assert.True(t, math.IsNaN(stats[seg].StdDev), "%s stddev", BendSegmentNames[seg])
	}

	assert.InDelta(t, 20, stats[2].Mean, 1e-12)
	assert.InDelta(t, 10, stats[2].StdDev, 1e-12)
}

func TestSegmentBendStatsSingleValue(t *testing.T) {
	angles := make([]float64, SkeletonPoints)
	for i := range angles {
		angles[i] = math.NaN()
	}
	angles[PartHips.Start] = 5

	stats := SegmentBendStats(angles)
	assert.InDelta(t, 5, stats[3].Mean, 1e-12)
	assert.Equal(t, 0.0, stats[3].StdDev, "single defined point has zero spread")
}

func TestSegmentBendStatsShortSeries(t *testing.T) {
	stats := SegmentBendStats([]float64{1, 2, 3})
	// Every partition reaches past a 3-point series, so every statistic
	// is undefined.
	for i := range stats {
		assert.True(t, math.IsNaN(stats[i].Mean), "%s", BendSegmentNames[i])
	}
}
