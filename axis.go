package rsf

import "iter"

// MaxAxes is the number of axes an RSF header can describe (n1..n9).
const MaxAxes = 9

// Axis describes the regular sampling of one dimension.
type Axis struct {
	Count   int
	Origin  float64
	Spacing float64
	Label   string
	Unit    string
}

// axisDefaults holds the values used when a header omits an axis key.
var axisDefaults = [MaxAxes]Axis{
	{Count: 1, Spacing: 4e-3, Label: "Time", Unit: "s"},
	{Count: 1, Spacing: 8e-3, Label: "Distance", Unit: "km"},
	{Count: 1, Spacing: 8e-3, Label: "Distance", Unit: "km"},
	{Count: 1, Spacing: 1},
	{Count: 1, Spacing: 1},
	{Count: 1, Spacing: 1},
	{Count: 1, Spacing: 1},
	{Count: 1, Spacing: 1},
	{Count: 1, Spacing: 1},
}

// DefaultAxis returns the fallback descriptor for 0-based axis k.
func DefaultAxis(k int) Axis {
	if k < 0 || k >= MaxAxes {
		return Axis{Count: 1, Spacing: 1}
	}
	return axisDefaults[k]
}

// At returns the coordinate of sample i.
func (a Axis) At(i int) float64 {
	return a.Origin + float64(i)*a.Spacing
}

// Last returns the coordinate of the last sample.
func (a Axis) Last() float64 {
	if a.Count < 1 {
		return a.Origin
	}
	return a.At(a.Count - 1)
}

// Values yields Origin + i*Spacing for i in [0, Count). The sequence can
// be ranged over any number of times.
func (a Axis) Values() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for i := range a.Count {
			if !yield(a.At(i)) {
				return
			}
		}
	}
}

// Slice materializes Values.
func (a Axis) Slice() []float64 {
	out := make([]float64, 0, max(a.Count, 0))
	for v := range a.Values() {
		out = append(out, v)
	}
	return out
}

// LabelUnit returns "label (unit)", or just the label when unit is empty.
func (a Axis) LabelUnit() string {
	if a.Unit == "" {
		return a.Label
	}
	return a.Label + " (" + a.Unit + ")"
}
