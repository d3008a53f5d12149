package worm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testFPS         = 10.0
	testCoilMinSecs = 0.2
)

// frameSequence builds a frame list from per-index codes, attaching a
// trivial skeleton to segmented frames so other components could consume
// the same fixture.
func frameSequence(codes []FrameCode) []Frame {
	frames := make([]Frame, len(codes))
	for i, c := range codes {
		frames[i] = Frame{Index: i, Code: c}
		if c.Segmented() {
			frames[i].Skeleton = straightSkeleton(SkeletonPoints)
		}
	}
	return frames
}

func TestScanCoilingDetectsQualifyingRun(t *testing.T) {
	codes := []FrameCode{
		FrameSegmented, FrameSegmented,
		FrameSegmentationFailed, FrameTooFewEnds, FrameSegmentationFailed,
		FrameSegmentationFailed, FrameSegmentationFailed,
		FrameSegmented,
	}
	events := ScanCoiling(frameSequence(codes), testFPS, testCoilMinSecs)
	require.Len(t, events, 1)
	assert.Equal(t, 2, events[0].StartFrame)
	assert.Equal(t, 6, events[0].EndFrame)
	assert.InDelta(t, 0.5, events[0].DurationSeconds, 1e-12)
}

func TestScanCoilingShortTouchIgnored(t *testing.T) {
	// One unsegmented frame is 0.1 s at 10 fps: too fast to be a coil even
	// with a coiling-indicating cause.
	codes := []FrameCode{FrameSegmented, FrameTooFewEnds, FrameSegmented}
	events := ScanCoiling(frameSequence(codes), testFPS, testCoilMinSecs)
	assert.Empty(t, events)
}

func TestScanCoilingDurationMustExceedMinimum(t *testing.T) {
	// Two frames at 10 fps last exactly 0.2 s, which does not exceed the
	// threshold; three frames do.
	atThreshold := []FrameCode{FrameSegmented, FrameTooFewEnds, FrameTooFewEnds, FrameSegmented}
	assert.Empty(t, ScanCoiling(frameSequence(atThreshold), testFPS, testCoilMinSecs))

	overThreshold := []FrameCode{FrameSegmented, FrameTooFewEnds, FrameTooFewEnds, FrameTooFewEnds, FrameSegmented}
	events := ScanCoiling(frameSequence(overThreshold), testFPS, testCoilMinSecs)
	require.Len(t, events, 1)
	assert.InDelta(t, 0.3, events[0].DurationSeconds, 1e-12)
}

func TestScanCoilingRequiresCoilingCause(t *testing.T) {
	// A long run of generic failures is not coiling.
	codes := []FrameCode{
		FrameSegmented,
		FrameSegmentationFailed, FrameSegmentationFailed, FrameSegmentationFailed,
		FrameSegmentationFailed, FrameSegmentationFailed,
		FrameSegmented,
	}
	assert.Empty(t, ScanCoiling(frameSequence(codes), testFPS, testCoilMinSecs))
}

func TestScanCoilingMixedCausesQualify(t *testing.T) {
	// Stage movement and dropped frames extend the run; a single
	// asymmetric-sides frame inside it is enough cause.
	codes := []FrameCode{
		FrameSegmented,
		FrameStageMovement, FrameDropped, FrameAsymmetricSides, FrameStageMovement,
		FrameSegmented,
	}
	events := ScanCoiling(frameSequence(codes), testFPS, testCoilMinSecs)
	require.Len(t, events, 1)
	assert.Equal(t, 1, events[0].StartFrame)
	assert.Equal(t, 4, events[0].EndFrame)
}

func TestScanCoilingFlushesTrailingRun(t *testing.T) {
	// A qualifying run still open when the video ends is closed by Flush.
	codes := []FrameCode{
		FrameSegmented,
		FrameTooFewEnds, FrameTooFewEnds, FrameTooFewEnds,
	}
	events := ScanCoiling(frameSequence(codes), testFPS, testCoilMinSecs)
	require.Len(t, events, 1)
	assert.Equal(t, 1, events[0].StartFrame)
	assert.Equal(t, 3, events[0].EndFrame)
}

func TestScanCoilingMultipleEventsInOrder(t *testing.T) {
	codes := []FrameCode{
		FrameTooFewEnds, FrameTooFewEnds, FrameTooFewEnds,
		FrameSegmented,
		FrameAsymmetricSides, FrameAsymmetricSides, FrameAsymmetricSides, FrameAsymmetricSides,
		FrameSegmented,
	}
	events := ScanCoiling(frameSequence(codes), testFPS, testCoilMinSecs)
	require.Len(t, events, 2)
	assert.Equal(t, 0, events[0].StartFrame)
	assert.Equal(t, 2, events[0].EndFrame)
	assert.Equal(t, 4, events[1].StartFrame)
	assert.Equal(t, 7, events[1].EndFrame)
}

func TestCoilScannerObserveReturnsEventOnTransition(t *testing.T) {
	s := NewCoilScanner(testFPS, testCoilMinSecs)
	assert.Nil(t, s.Observe(0, FrameSegmented))
	assert.Nil(t, s.Observe(1, FrameTooFewEnds))
	assert.Nil(t, s.Observe(2, FrameTooFewEnds))
	assert.Nil(t, s.Observe(3, FrameTooFewEnds))

	ev := s.Observe(4, FrameSegmented)
	require.NotNil(t, ev)
	assert.Equal(t, 1, ev.StartFrame)
	assert.Equal(t, 3, ev.EndFrame)

	// The scanner resets: a following segmented stretch yields nothing.
	assert.Nil(t, s.Observe(5, FrameSegmented))
	assert.Nil(t, s.Flush())
}
