package worm

import (
	"runtime"

	"github.com/wormlab-data/posture.report/internal/config"
)

// Params captures every tunable of the per-frame analyzers. Values are
// plain (non-pointer) so a Params can be shared read-only across workers.
type Params struct {
	SkeletonPoints      int     `json:"skeleton_points"`
	EdgeFraction        float64 `json:"edge_fraction"`
	GaussianAlpha       float64 `json:"gaussian_alpha"`
	WavelengthSamples   int     `json:"wavelength_samples"`
	FFTSize             int     `json:"fft_size"`
	WavelengthCapFactor float64 `json:"wavelength_cap_factor"`
	SecondaryPeakRatio  float64 `json:"secondary_peak_ratio"`
	CoilMinSeconds      float64 `json:"coil_min_seconds"`
	FPS                 float64 `json:"fps"`
	Workers             int     `json:"workers"`
}

// DefaultParams returns the canonical analyzer parameters.
func DefaultParams() Params {
	return ParamsFromTuning(config.EmptyTuningConfig())
}

// ParamsFromTuning builds Params from a loaded TuningConfig. The frame rate
// comes from the input data, not the tuning file, and defaults to 0 (unset)
// here.
func ParamsFromTuning(cfg *config.TuningConfig) Params {
	workers := cfg.GetWorkers()
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return Params{
		SkeletonPoints:      cfg.GetSkeletonPoints(),
		EdgeFraction:        cfg.GetEdgeFraction(),
		GaussianAlpha:       cfg.GetGaussianAlpha(),
		WavelengthSamples:   cfg.GetWavelengthSamples(),
		FFTSize:             cfg.GetFFTSize(),
		WavelengthCapFactor: cfg.GetWavelengthCapFactor(),
		SecondaryPeakRatio:  cfg.GetSecondaryPeakRatio(),
		CoilMinSeconds:      cfg.GetCoilMinSeconds(),
		Workers:             workers,
	}
}

// FrameFeatures is the aggregate posture output for one frame. Every field
// except FrameIndex, Code and Segmented is NaN when undefined; an
// unsegmented frame carries a record with every feature undefined.
type FrameFeatures struct {
	FrameIndex int       `json:"frame_index"`
	Code       FrameCode `json:"code"`
	Segmented  bool      `json:"segmented"`

	// Skeleton summary measures
	Length    float64 `json:"length"`
	CentroidX float64 `json:"centroid_x"`
	CentroidY float64 `json:"centroid_y"`

	// Shape
	Eccentricity      float64 `json:"eccentricity"`
	EllipseOrientDeg  float64 `json:"ellipse_orientation_deg"`

	// Bends
	Bends     [5]BendStat `json:"bends"`
	BendCount float64     `json:"bend_count"`

	// Rotated-skeleton measures
	AmplitudeMax        float64 `json:"amplitude_max"`
	AmplitudeRatio      float64 `json:"amplitude_ratio"`
	WavelengthPrimary   float64 `json:"wavelength_primary"`
	WavelengthSecondary float64 `json:"wavelength_secondary"`
	TrackLength         float64 `json:"track_length"`

	// Directions
	OrientationDeg     float64 `json:"orientation_deg"`
	HeadOrientationDeg float64 `json:"head_orientation_deg"`
	TailOrientationDeg float64 `json:"tail_orientation_deg"`

	// Eigenworm projections
	EigenProjections [EigenwormCount]float64 `json:"eigen_projections"`
}

// undefinedFeatures returns a record with every feature undefined.
func undefinedFeatures(index int, code FrameCode) FrameFeatures {
	ff := FrameFeatures{
		FrameIndex: index,
		Code:       code,
		Segmented:  code.Segmented(),
		Length:     undefined(),
		CentroidX:  undefined(),
		CentroidY:  undefined(),

		Eccentricity:     undefined(),
		EllipseOrientDeg: undefined(),

		BendCount: undefined(),

		AmplitudeMax:        undefined(),
		AmplitudeRatio:      undefined(),
		WavelengthPrimary:   undefined(),
		WavelengthSecondary: undefined(),
		TrackLength:         undefined(),

		OrientationDeg:     undefined(),
		HeadOrientationDeg: undefined(),
		TailOrientationDeg: undefined(),
	}
	for i := range ff.Bends {
		ff.Bends[i] = BendStat{Mean: undefined(), StdDev: undefined()}
	}
	for i := range ff.EigenProjections {
		ff.EigenProjections[i] = undefined()
	}
	return ff
}

// ExtractFeatures computes the full posture feature record for one frame.
// It is a pure function of the frame's geometry, the shared read-only
// eigenworm basis and the parameters, so it is safe to call concurrently
// across frames. The shape orientation is computed once and passed by
// value to every rotated-skeleton analyzer.
func ExtractFeatures(f Frame, basis *EigenwormBasis, p Params) FrameFeatures {
	ff := undefinedFeatures(f.Index, f.Code)
	if !f.Code.Segmented() || len(f.Skeleton) == 0 {
		return ff
	}

	skel := f.Skeleton
	arcLength := ArcLength(skel)
	ff.Length = arcLength
	if c, ok := Centroid(skel); ok {
		ff.CentroidX = c.X
		ff.CentroidY = c.Y
	}

	shape := ComputeShape(skel, f.Contour)
	ff.Eccentricity = shape.Eccentricity
	ff.EllipseOrientDeg = shape.OrientationDeg

	angles := BendAngles(skel, f.Ventral, p.EdgeFraction)
	ff.Bends = SegmentBendStats(angles)
	ff.BendCount = CountBends(angles, p.EdgeFraction, p.GaussianAlpha)

	if isDefined(shape.OrientationDeg) {
		rotated := RotateAndCenter(skel, shape.OrientationDeg)
		ff.AmplitudeMax, ff.AmplitudeRatio = Amplitudes(rotated)
		// Non-monotonic rotated x is a degenerate shape: both the
		// wavelength and the track length are undefined for the frame.
		if xMonotonic(rotated) {
			ff.WavelengthPrimary, ff.WavelengthSecondary = Wavelengths(
				rotated, arcLength,
				p.WavelengthSamples, p.FFTSize,
				p.WavelengthCapFactor, p.SecondaryPeakRatio,
			)
			ff.TrackLength = TrackLength(rotated)
		}
	}

	orient := OrientationAngles(skel)
	ff.OrientationDeg = orient.OverallDeg
	ff.HeadOrientationDeg = orient.HeadDeg
	ff.TailOrientationDeg = orient.TailDeg

	if basis != nil {
		ff.EigenProjections = basis.Project(skel)
	}
	return ff
}
