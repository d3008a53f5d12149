package worm

import "github.com/wormlab-data/posture.report/internal/units"

// CoilingEvent is an interval of consecutive unsegmented frames attributed
// to the worm coiling on itself. Frame indices are inclusive.
type CoilingEvent struct {
	StartFrame      int     `json:"start_frame"`
	EndFrame        int     `json:"end_frame"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// coilState is the scanner's explicit state.
type coilState int

const (
	coilSegmented coilState = iota
	coilUnsegmentedRun
)

// CoilScanner detects coiling events from the per-frame segmentation codes.
// It is the one stateful, order-dependent analyzer: frames must be fed in
// strict temporal sequence. A run of consecutive unsegmented frames becomes
// a coiling event when it lasts longer than minSeconds AND at least one
// frame in the run failed with a coiling-indicating cause (too few sharp
// contour ends, or asymmetric head/tail side lengths). Runs failing either
// condition are dropped: fast touches and unrelated segmentation failures
// are not coiling.
type CoilScanner struct {
	fps        float64
	minSeconds float64

	state     coilState
	runStart  int
	runEnd    int
	causeSeen bool
}

// NewCoilScanner returns a scanner for a video at the given frame rate.
func NewCoilScanner(fps, minSeconds float64) *CoilScanner {
	return &CoilScanner{fps: fps, minSeconds: minSeconds, state: coilSegmented}
}

// Observe feeds the next frame. It returns a completed coiling event on an
// unsegmented-to-segmented transition that closes a qualifying run, or nil.
func (s *CoilScanner) Observe(index int, code FrameCode) *CoilingEvent {
	if code.Segmented() {
		ev := s.close()
		s.state = coilSegmented
		return ev
	}

	if s.state == coilSegmented {
		s.state = coilUnsegmentedRun
		s.runStart = index
		s.causeSeen = false
	}
	s.runEnd = index
	if code.IndicatesCoiling() {
		s.causeSeen = true
	}
	return nil
}

// Flush closes a run still open at the end of the video and returns its
// event if it qualifies.
func (s *CoilScanner) Flush() *CoilingEvent {
	ev := s.close()
	s.state = coilSegmented
	return ev
}

// close evaluates the current run against the duration and cause rules.
func (s *CoilScanner) close() *CoilingEvent {
	if s.state != coilUnsegmentedRun {
		return nil
	}
	duration := units.FramesToSeconds(s.runEnd-s.runStart+1, s.fps)
	if duration <= s.minSeconds || !s.causeSeen {
		return nil
	}
	return &CoilingEvent{
		StartFrame:      s.runStart,
		EndFrame:        s.runEnd,
		DurationSeconds: duration,
	}
}

// ScanCoiling runs a CoilScanner over a whole frame sequence and returns
// all coiling events in temporal order.
func ScanCoiling(frames []Frame, fps, minSeconds float64) []CoilingEvent {
	scanner := NewCoilScanner(fps, minSeconds)
	var events []CoilingEvent
	for _, f := range frames {
		if ev := scanner.Observe(f.Index, f.Code); ev != nil {
			events = append(events, *ev)
		}
	}
	if ev := scanner.Flush(); ev != nil {
		events = append(events, *ev)
	}
	return events
}
