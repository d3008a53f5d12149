package worm

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// Wavelengths computes the primary and secondary spatial wavelengths of a
// rotated, centred skeleton by spectral analysis of y as a function of x.
//
// The rotated x coordinates must be strictly monotonic along the point
// sequence; a self-overlapping posture cannot be treated as a single-valued
// periodic signal and yields NaN for both outputs. Otherwise y(x) is
// resampled onto a uniform grid, mean-removed, and zero-padded into an FFT
// whose padding provides sub-harmonic frequency resolution. The primary
// wavelength comes from the largest-magnitude spectral peak; the secondary
// from the second-largest peak outside the primary's interpolated mainlobe,
// and only when its magnitude is at least secondaryRatio of the primary's. Any wavelength
// exceeding capFactor times the skeleton arc length is clamped to exactly
// that cap.
func Wavelengths(rotated []Point, arcLength float64, samples, fftSize int, capFactor, secondaryRatio float64) (primary, secondary float64) {
	primary, secondary = undefined(), undefined()
	if len(rotated) < 2 || samples < 4 || fftSize < samples {
		return primary, secondary
	}
	if !xMonotonic(rotated) {
		return primary, secondary
	}

	pts := rotated
	if pts[len(pts)-1].X < pts[0].X {
		rev := make([]Point, len(pts))
		for i, p := range pts {
			rev[len(pts)-1-i] = p
		}
		pts = rev
	}
	xRange := pts[len(pts)-1].X - pts[0].X
	if xRange <= 0 {
		return primary, secondary
	}

	// Resample y onto a uniform x grid by linear interpolation.
	dx := xRange / float64(samples-1)
	y := make([]float64, fftSize)
	seg := 0
	for t := 0; t < samples; t++ {
		x := pts[0].X + float64(t)*dx
		for seg < len(pts)-2 && pts[seg+1].X < x {
			seg++
		}
		span := pts[seg+1].X - pts[seg].X
		frac := 0.0
		if span > 0 {
			frac = (x - pts[seg].X) / span
		}
		y[t] = pts[seg].Y + frac*(pts[seg+1].Y-pts[seg].Y)
	}
	mean := floats.Sum(y[:samples]) / float64(samples)
	for t := 0; t < samples; t++ {
		y[t] -= mean
	}

	fft := fourier.NewFFT(fftSize)
	coeffs := fft.Coefficients(nil, y)

	// Peak picking over the positive-frequency bins, skipping DC.
	mags := make([]float64, len(coeffs))
	for k, c := range coeffs {
		mags[k] = cmplx.Abs(c)
	}
	k1 := -1
	for k := 1; k < len(mags); k++ {
		if k1 < 0 || mags[k] > mags[k1] {
			k1 = k
		}
	}
	if k1 < 0 || mags[k1] == 0 {
		return primary, secondary
	}
	// The zero padding interpolates the spectrum, so the primary peak's
	// mainlobe spans about fftSize/samples bins on each side. The secondary
	// peak must sit outside that lobe or it is just the primary again.
	exclude := fftSize / samples
	if exclude < 1 {
		exclude = 1
	}
	k2 := -1
	for k := 1; k < len(mags); k++ {
		if absInt(k-k1) <= exclude {
			continue
		}
		if k2 < 0 || mags[k] > mags[k2] {
			k2 = k
		}
	}

	capLen := capFactor * arcLength
	primary = binWavelength(k1, fftSize, dx, capLen)
	if k2 > 0 && mags[k2] >= secondaryRatio*mags[k1] {
		secondary = binWavelength(k2, fftSize, dx, capLen)
	}
	return primary, secondary
}

// binWavelength converts an FFT bin index to a spatial wavelength, applying
// the cap.
func binWavelength(k, fftSize int, dx, capLen float64) float64 {
	wl := float64(fftSize) * dx / float64(k)
	if capLen > 0 && wl > capLen {
		wl = capLen
	}
	return wl
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
