package rsf

import "github.com/cplusv2023/rsfpy/internal/stats"

// PercentileClip returns the p-th percentile of |v| over all elements.
// It reports false for complex, byte and empty arrays. A p outside
// [0, 100] is logged and used as given.
func (a *Array) PercentileClip(p float64) (float64, bool) {
	if p < 0 || p > 100 {
		Logger().Warn("rsf: percentile outside [0,100]", "p", p)
	}
	switch d := a.data.(type) {
	case []int32:
		return stats.Percentile(stats.Abs(d), p)
	case []float32:
		return stats.Percentile(stats.Abs(d), p)
	}
	return 0, false
}
