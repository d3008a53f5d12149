package worm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() Params {
	p := DefaultParams()
	p.FPS = testFPS
	p.Workers = 1
	return p
}

func TestExtractFeaturesUnsegmentedFrame(t *testing.T) {
	ff := ExtractFeatures(failedFrame(7, FrameTooFewEnds), nil, testParams())

	assert.Equal(t, 7, ff.FrameIndex)
	assert.Equal(t, FrameTooFewEnds, ff.Code)
	assert.False(t, ff.Segmented)

	assert.True(t, math.IsNaN(ff.Length))
	assert.True(t, math.IsNaN(ff.CentroidX))
	assert.True(t, math.IsNaN(ff.Eccentricity))
	assert.True(t, math.IsNaN(ff.BendCount))
	assert.True(t, math.IsNaN(ff.AmplitudeMax))
	assert.True(t, math.IsNaN(ff.WavelengthPrimary))
	assert.True(t, math.IsNaN(ff.TrackLength))
	assert.True(t, math.IsNaN(ff.OrientationDeg))
	for i := range ff.Bends {
		assert.True(t, math.IsNaN(ff.Bends[i].Mean), "%s mean", BendSegmentNames[i])
	}
	for i := range ff.EigenProjections {
		assert.True(t, math.IsNaN(ff.EigenProjections[i]), "projection %d", i)
	}
}

func TestExtractFeaturesSineWorm(t *testing.T) {
	basis, err := NewEigenwormBasis(harmonicBasis())
	require.NoError(t, err)

	skel := sineSkeleton(SkeletonPoints, 2, 3)
	contour := ellipseContour(24, 0, 26, 5, 0, 360)
	ff := ExtractFeatures(segmentedFrame(0, skel, contour), basis, testParams())

	assert.True(t, ff.Segmented)
	assert.Greater(t, ff.Length, 48.0, "a sine worm is longer than its x span")
	assert.InDelta(t, 24, ff.CentroidX, 1)

	require.False(t, math.IsNaN(ff.Eccentricity))
	assert.Greater(t, ff.Eccentricity, 0.9, "an elongated contour is highly eccentric")

	require.False(t, math.IsNaN(ff.BendCount))
	assert.Greater(t, ff.BendCount, 0.0)
	for i := range ff.Bends {
		assert.False(t, math.IsNaN(ff.Bends[i].Mean), "%s mean should be defined", BendSegmentNames[i])
	}

	// The contour lies along x, so the rotated skeleton keeps its shape.
	assert.InDelta(t, 6, ff.AmplitudeMax, 0.2)
	assert.InDelta(t, 48, ff.TrackLength, 0.5)
	require.False(t, math.IsNaN(ff.WavelengthPrimary))
	assert.InDelta(t, 24, ff.WavelengthPrimary, 24*0.2)

	assert.False(t, math.IsNaN(ff.OrientationDeg))
	assert.False(t, math.IsNaN(ff.HeadOrientationDeg))
	assert.False(t, math.IsNaN(ff.TailOrientationDeg))

	for i := range ff.EigenProjections {
		assert.False(t, math.IsNaN(ff.EigenProjections[i]), "projection %d", i)
	}
}

func TestExtractFeaturesStraightWorm(t *testing.T) {
	ff := ExtractFeatures(segmentedFrame(0, straightSkeleton(SkeletonPoints), nil), nil, testParams())

	assert.InDelta(t, 48, ff.Length, 1e-9)
	assert.Equal(t, 0.0, ff.BendCount)
	assert.Equal(t, 0.0, ff.AmplitudeMax)
	assert.True(t, math.IsNaN(ff.AmplitudeRatio), "a flat worm has no amplitude ratio")
	assert.InDelta(t, 48, ff.TrackLength, 1e-9)

	// No contour: eccentricity is undefined but the skeleton principal axis
	// still orients the rotated analyzers.
	assert.True(t, math.IsNaN(ff.Eccentricity))
	assert.False(t, math.IsNaN(ff.EllipseOrientDeg))

	// A flat spectrum has no peak.
	assert.True(t, math.IsNaN(ff.WavelengthPrimary))

	// Nil basis: projections undefined even for a valid skeleton.
	for i := range ff.EigenProjections {
		assert.True(t, math.IsNaN(ff.EigenProjections[i]))
	}
}

func TestExtractFeaturesVentralFlipsBendSigns(t *testing.T) {
	skel := arcSkeleton(SkeletonPoints)
	p := testParams()

	left := ExtractFeatures(Frame{Index: 0, Code: FrameSegmented, Skeleton: skel, Ventral: VentralLeft}, nil, p)
	right := ExtractFeatures(Frame{Index: 0, Code: FrameSegmented, Skeleton: skel, Ventral: VentralRight}, nil, p)

	assert.InDelta(t, -left.Bends[2].Mean, right.Bends[2].Mean, 1e-9,
		"midbody bend mean flips with the ventral label")
	assert.Equal(t, left.BendCount, right.BendCount, "bend count is sign-blind")
}

func TestParamsFromTuningDefaults(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, SkeletonPoints, p.SkeletonPoints)
	assert.InDelta(t, 1.0/12.0, p.EdgeFraction, 1e-12)
	assert.Equal(t, 48, p.WavelengthSamples)
	assert.Equal(t, 512, p.FFTSize)
	assert.Equal(t, 2.0, p.WavelengthCapFactor)
	assert.Equal(t, 0.5, p.SecondaryPeakRatio)
	assert.Equal(t, 0.2, p.CoilMinSeconds)
	assert.Greater(t, p.Workers, 0, "workers default to the CPU count")
}
