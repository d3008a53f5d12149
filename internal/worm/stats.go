package worm

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// definedValues returns the subset of vals that carry a value, preserving
// order. The result aliases nothing.
func definedValues(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if isDefined(v) {
			out = append(out, v)
		}
	}
	return out
}

// nanMean returns the mean of the defined values, or NaN when every input
// is undefined. Undefined inputs are skipped, never treated as zero.
func nanMean(vals []float64) float64 {
	d := definedValues(vals)
	if len(d) == 0 {
		return undefined()
	}
	return stat.Mean(d, nil)
}

// nanStdDev returns the sample standard deviation of the defined values.
// A single defined value has zero spread; no defined values yields NaN.
func nanStdDev(vals []float64) float64 {
	d := definedValues(vals)
	switch len(d) {
	case 0:
		return undefined()
	case 1:
		return 0
	}
	sd := stat.StdDev(d, nil)
	if math.IsNaN(sd) {
		return undefined()
	}
	return sd
}
