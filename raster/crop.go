package raster

import (
	"math"
	"sort"
)

// Bounds limits a crop in coordinate units. NaN leaves a side at the
// first or last coordinate.
type Bounds struct {
	Min1, Max1 float64 // rows
	Min2, Max2 float64 // columns
}

// OpenBounds returns Bounds with every side open.
func OpenBounds() Bounds {
	nan := math.NaN()
	return Bounds{nan, nan, nan, nan}
}

type crop struct {
	coords1, coords2 []float64
	b                Bounds
}

// WithCrop restricts encoding to the rows whose coords1 value lies in
// [Min1, Max1] and the columns whose coords2 value lies in [Min2, Max2].
// Coordinates must be monotonic; nil means row or column indices.
func WithCrop(coords1, coords2 []float64, b Bounds) Option {
	return func(o *options) { o.crop = &crop{coords1: coords1, coords2: coords2, b: b} }
}

func (c *crop) apply(t Tile) (Tile, error) {
	r0, r1, err := window(c.coords1, t.Height, c.b.Min1, c.b.Max1)
	if err != nil {
		return Tile{}, err
	}
	c0, c1, err := window(c.coords2, t.Width, c.b.Min2, c.b.Max2)
	if err != nil {
		return Tile{}, err
	}
	if r0 >= r1 || c0 >= c1 {
		return Tile{}, inputErrorf("crop selects no pixels (rows %d:%d, columns %d:%d)", r0, r1, c0, c1)
	}
	return t.sub(r0, r1, c0, c1), nil
}

// window returns the index range [i, j) of coords inside [lo, hi].
func window(coords []float64, n int, lo, hi float64) (int, int, error) {
	if coords == nil {
		coords = make([]float64, n)
		for i := range coords {
			coords[i] = float64(i)
		}
	}
	if len(coords) != n {
		return 0, 0, inputErrorf("%d crop coordinates for %d samples", len(coords), n)
	}
	if math.IsNaN(lo) {
		lo = coords[0]
	}
	if math.IsNaN(hi) {
		hi = coords[n-1]
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	if coords[0] <= coords[n-1] {
		i := sort.Search(n, func(k int) bool { return coords[k] >= lo })
		j := sort.Search(n, func(k int) bool { return coords[k] > hi })
		return i, j, nil
	}
	i := sort.Search(n, func(k int) bool { return coords[k] <= hi })
	j := sort.Search(n, func(k int) bool { return coords[k] < lo })
	return i, j, nil
}
