package worm

import "math"

// gaussianKernel returns a Gaussian window of the given length with shape
// parameter alpha, normalised to unit sum so it acts as a pure smoothing
// low-pass filter.
func gaussianKernel(width int, alpha float64) []float64 {
	if width < 1 {
		width = 1
	}
	g := make([]float64, width)
	half := float64(width-1) / 2
	var sum float64
	for i := range g {
		x := 0.0
		if half > 0 {
			x = (float64(i) - half) / half
		}
		g[i] = math.Exp(-0.5 * (alpha * x) * (alpha * x))
		sum += g[i]
	}
	for i := range g {
		g[i] /= sum
	}
	return g
}

// smoothSeries convolves the defined interior of the series with a
// Gaussian window, leaving undefined entries undefined. Near the interior
// boundaries the kernel is truncated and renormalised over the samples it
// can reach.
func smoothSeries(series []float64, width int, alpha float64) []float64 {
	out := make([]float64, len(series))
	lo, hi := -1, -1
	for i, v := range series {
		out[i] = undefined()
		if isDefined(v) {
			if lo < 0 {
				lo = i
			}
			hi = i
		}
	}
	if lo < 0 {
		return out
	}

	g := gaussianKernel(width, alpha)
	half := (len(g) - 1) / 2
	for i := lo; i <= hi; i++ {
		var acc, wsum float64
		for k, w := range g {
			j := i + k - half
			if j < lo || j > hi || !isDefined(series[j]) {
				continue
			}
			acc += w * series[j]
			wsum += w
		}
		if wsum > 0 {
			out[i] = acc / wsum
		}
	}
	return out
}

// CountBends smooths the signed bend-angle series and counts bends as
// maximal same-sign runs of the smoothed series. A sign change or an exact
// zero crossing ends one bend. Terminal runs shorter than ⌈N/12⌉ points are
// tip artifacts and are discarded without counting. Returns NaN when the
// series is entirely undefined; a straight (all zero) worm counts 0. The
// count is invariant under flipping the sign of every angle.
func CountBends(angles []float64, edgeFraction, alpha float64) float64 {
	n := len(angles)
	if n == 0 {
		return undefined()
	}
	width := edgePointCount(n, edgeFraction)
	smoothed := smoothSeries(angles, width, alpha)

	// Collect maximal runs of strictly positive / strictly negative values.
	// Zeros and undefined entries terminate runs without joining one.
	type run struct{ length int }
	var runs []run
	sign := 0
	length := 0
	flush := func() {
		if sign != 0 && length > 0 {
			runs = append(runs, run{length: length})
		}
		sign, length = 0, 0
	}
	anyDefined := false
	for _, v := range smoothed {
		if !isDefined(v) {
			flush()
			continue
		}
		anyDefined = true
		s := 0
		if v > 0 {
			s = 1
		} else if v < 0 {
			s = -1
		}
		if s == 0 || s != sign {
			flush()
		}
		if s != 0 {
			sign = s
			length++
		}
	}
	flush()
	if !anyDefined {
		return undefined()
	}

	// Drop short terminal runs (first and last only).
	minRun := width
	if len(runs) > 0 && runs[len(runs)-1].length < minRun {
		runs = runs[:len(runs)-1]
	}
	if len(runs) > 0 && runs[0].length < minRun {
		runs = runs[1:]
	}
	return float64(len(runs))
}
