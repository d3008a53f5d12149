package worm

import (
	"fmt"
	"sync"
)

// Result is the output of one pipeline run: a feature record per frame in
// frame order, plus the coiling event intervals.
type Result struct {
	Features []FrameFeatures `json:"features"`
	Coiling  []CoilingEvent  `json:"coiling"`
	Params   Params          `json:"params"`
}

// Pipeline orchestrates the per-frame analyzers over a frame sequence. The
// per-frame pass is embarrassingly parallel and fans out to a worker pool;
// the coiling scan runs sequentially because it is the one order-dependent
// component.
type Pipeline struct {
	params Params
	basis  *EigenwormBasis
}

// NewPipeline builds a pipeline with the given parameters and eigenworm
// basis. The basis may be nil, in which case eigen projections are
// undefined for every frame.
func NewPipeline(params Params, basis *EigenwormBasis) *Pipeline {
	if params.Workers < 1 {
		params.Workers = 1
	}
	return &Pipeline{params: params, basis: basis}
}

// Validate checks the frame sequence for configuration errors before any
// feature computation. A segmented frame whose skeleton is not exactly the
// configured point count is malformed input and fails the whole run; soft
// per-feature failures are handled downstream as undefined values instead.
func (p *Pipeline) Validate(frames []Frame) error {
	if p.params.FPS <= 0 {
		return fmt.Errorf("frame rate must be positive, got %v", p.params.FPS)
	}
	for _, f := range frames {
		if !f.Code.Segmented() {
			continue
		}
		if len(f.Skeleton) != p.params.SkeletonPoints {
			return fmt.Errorf("frame %d: skeleton has %d points, want %d",
				f.Index, len(f.Skeleton), p.params.SkeletonPoints)
		}
	}
	return nil
}

// Run validates the frames, extracts per-frame features in parallel and
// scans for coiling events. One frame's failure never corrupts another
// frame's record: workers write only their own result slot.
func (p *Pipeline) Run(frames []Frame) (*Result, error) {
	if err := p.Validate(frames); err != nil {
		return nil, err
	}

	features := make([]FrameFeatures, len(frames))
	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := p.params.Workers
	if workers > len(frames) && len(frames) > 0 {
		workers = len(frames)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				features[i] = ExtractFeatures(frames[i], p.basis, p.params)
			}
		}()
	}
	for i := range frames {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	coiling := ScanCoiling(frames, p.params.FPS, p.params.CoilMinSeconds)

	return &Result{
		Features: features,
		Coiling:  coiling,
		Params:   p.params,
	}, nil
}
