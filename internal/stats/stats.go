// Package stats holds the small numeric kernels shared by the array
// container and the raster encoder.
package stats

import (
	"math"
	"slices"

	"golang.org/x/exp/constraints"
)

// Number is an element type the kernels accept.
type Number interface {
	constraints.Integer | constraints.Float
}

// Abs returns |v| for every element, widened to float64.
func Abs[T Number](s []T) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = math.Abs(float64(v))
	}
	return out
}

// Float64s widens s to float64.
func Float64s[T Number](s []T) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = float64(v)
	}
	return out
}

// Percentile returns the p-th percentile of s using linear interpolation
// between closest ranks. NaNs are ignored. p outside [0, 100] extrapolates
// linearly from the two end samples. The input is not modified.
// ok is false when s has no finite-comparable values.
func Percentile(s []float64, p float64) (v float64, ok bool) {
	sorted := make([]float64, 0, len(s))
	for _, x := range s {
		if !math.IsNaN(x) {
			sorted = append(sorted, x)
		}
	}
	switch len(sorted) {
	case 0:
		return 0, false
	case 1:
		return sorted[0], true
	}
	slices.Sort(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	lo = min(max(lo, 0), len(sorted)-2)
	frac := rank - float64(lo)
	a, b := sorted[lo], sorted[lo+1]
	if frac == 0 {
		return a, true
	}
	if frac == 1 {
		return b, true
	}
	return a + frac*(b-a), true
}

// MinMax returns the smallest and largest non-NaN value of s.
func MinMax(s []float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range s {
		if math.IsNaN(v) {
			continue
		}
		lo = min(lo, v)
		hi = max(hi, v)
		ok = true
	}
	return lo, hi, ok
}
