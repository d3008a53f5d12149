package worm

import (
	"testing"

	"github.com/wormlab-data/posture.report/internal/testutil"
)

func TestAmplitudesSymmetric(t *testing.T) {
	// Exactly symmetric about the major axis: ratio is exactly 1.
	pts := []Point{{0, 0}, {1, 1}, {2, 0}, {3, -1}, {4, 0}}
	maxAmp, ratio := Amplitudes(pts)
	if maxAmp != 2 {
		t.Errorf("max amplitude = %v, want 2", maxAmp)
	}
	if ratio != 1 {
		t.Errorf("amplitude ratio = %v, want exactly 1", ratio)
	}
}

func TestAmplitudesAsymmetric(t *testing.T) {
	pts := []Point{{0, 2}, {1, 0}, {2, -1}}
	maxAmp, ratio := Amplitudes(pts)
	if maxAmp != 3 {
		t.Errorf("max amplitude = %v, want 3", maxAmp)
	}
	if ratio != 0.5 {
		t.Errorf("amplitude ratio = %v, want 0.5", ratio)
	}
	if ratio <= 0 || ratio > 1 {
		t.Errorf("amplitude ratio %v outside (0, 1]", ratio)
	}
}

func TestAmplitudesDegenerate(t *testing.T) {
	maxAmp, ratio := Amplitudes([]Point{{1, 1}})
	testutil.AssertNaN(t, "max amplitude of single point", maxAmp)
	testutil.AssertNaN(t, "amplitude ratio of single point", ratio)

	// A worm lying exactly on its major axis has no vertical extent.
	maxAmp, ratio = Amplitudes(straightSkeleton(10))
	if maxAmp != 0 {
		t.Errorf("max amplitude of flat worm = %v, want 0", maxAmp)
	}
	testutil.AssertNaN(t, "amplitude ratio of flat worm", ratio)
}

func TestTrackLength(t *testing.T) {
	if got := TrackLength(straightSkeleton(SkeletonPoints)); got != 48 {
		t.Errorf("track length = %v, want 48", got)
	}
	testutil.AssertNaN(t, "track length of single point", TrackLength([]Point{{0, 0}}))

	// The horizontal span, not the arc length: a deep sine wave is much
	// longer along its body than across its x extent.
	skel := sineSkeleton(SkeletonPoints, 2, 10)
	if got := TrackLength(skel); got != 48 {
		t.Errorf("track length of sine worm = %v, want 48", got)
	}
	if arc := ArcLength(skel); arc <= 48 {
		t.Errorf("arc length %v should exceed the track length", arc)
	}
}
