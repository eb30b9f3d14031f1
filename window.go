package rsf

import (
	"fmt"
	"slices"
	"strconv"
)

// AxisWindow selects a strided index range along one axis.
//
// Count <= 0 selects up to the full extent, Stride 0 means 1 and a negative
// First counts from the end. Negative strides walk backwards.
type AxisWindow struct {
	Axis   int
	Count  int
	Stride int
	First  int
}

// indices resolves w against an axis of extent n and returns the selected
// indices, clipped to [0, n).
func (w AxisWindow) indices(n int) []int {
	count, stride, first := w.Count, w.Stride, w.First
	if count <= 0 {
		count = n
	}
	if stride == 0 {
		stride = 1
	}
	if first < 0 {
		first += n
	}
	var idx []int
	for i := range count {
		v := first + i*stride
		if v >= 0 && v < n {
			idx = append(idx, v)
			continue
		}
		if (stride > 0 && v >= n) || (stride < 0 && v < 0) {
			break
		}
	}
	return idx
}

// Window sub-samples the array in place. Every window is resolved against
// the extents, origins and spacings the array had before the call, so the
// result does not depend on argument order. Each windowed axis gets
// n = len(selection), o = o + first*d and d = d*stride, where first is the
// first selected index.
func (a *Array) Window(ws ...AxisWindow) error {
	const op = "window"
	type plan struct {
		idx    []int
		stride int
		axis   Axis
	}
	plans := make(map[int]plan, len(ws))
	for _, w := range ws {
		if w.Axis < 0 || w.Axis >= len(a.shape) {
			return newError(KindArgument, op, "", fmt.Sprintf("axis %d out of range for %d dimensions", w.Axis+1, len(a.shape)), nil)
		}
		if _, dup := plans[w.Axis]; dup {
			return newError(KindArgument, op, "", fmt.Sprintf("axis %d windowed twice", w.Axis+1), nil)
		}
		idx := w.indices(a.shape[w.Axis])
		if len(idx) == 0 {
			return newError(KindArgument, op, axisKey(fieldN, w.Axis), "window selects no samples", nil)
		}
		stride := w.Stride
		if stride == 0 {
			stride = 1
		}
		plans[w.Axis] = plan{idx: idx, stride: stride, axis: a.Axis(w.Axis)}
	}

	h := a.Header()
	for axis := range len(a.shape) {
		p, ok := plans[axis]
		if !ok {
			continue
		}
		if !identity(p.idx, a.shape[axis]) {
			a.data = takeAny(a.data, a.shape, axis, p.idx)
			a.shape[axis] = len(p.idx)
		}
		ax := p.axis
		h.setSampling(axis, len(p.idx), ax.At(p.idx[0]), ax.Spacing*float64(p.stride))
	}
	a.sync()
	return nil
}

func identity(idx []int, n int) bool {
	if len(idx) != n {
		return false
	}
	for i, v := range idx {
		if v != i {
			return false
		}
	}
	return true
}

// ParseWindow converts a command string such as "n1=10 j1=2 f1=-3 n2=5"
// into windows. Keys are n# (count), j# (stride) and f# (first); anything
// else is an argument error. Windows are returned in axis order.
func ParseWindow(cmd string) ([]AxisWindow, error) {
	byAxis := map[int]*AxisWindow{}
	for _, p := range Tokenize(cmd) {
		if len(p.Key) != 2 || p.Key[1] < '1' || p.Key[1] > '9' {
			return nil, newError(KindArgument, "window", p.Key, "unknown window key", nil)
		}
		axis := int(p.Key[1] - '1')
		v, err := strconv.Atoi(p.Value)
		if err != nil {
			return nil, newError(KindArgument, "window", p.Key, "want integer, got "+strconv.Quote(p.Value), err)
		}
		w := byAxis[axis]
		if w == nil {
			w = &AxisWindow{Axis: axis}
			byAxis[axis] = w
		}
		switch p.Key[0] {
		case 'n':
			w.Count = v
		case 'j':
			w.Stride = v
		case 'f':
			w.First = v
		default:
			return nil, newError(KindArgument, "window", p.Key, "unknown window key", nil)
		}
	}
	ws := make([]AxisWindow, 0, len(byAxis))
	for _, w := range byAxis {
		ws = append(ws, *w)
	}
	slices.SortFunc(ws, func(x, y AxisWindow) int { return x.Axis - y.Axis })
	return ws, nil
}

// Slice returns a new array holding index i along axis. The extent of
// axis becomes 1; the receiver is not modified.
func (a *Array) Slice(axis, i int) (*Array, error) {
	if axis < 0 || axis >= len(a.shape) {
		return nil, newError(KindArgument, "slice", "", fmt.Sprintf("axis %d out of range for %d dimensions", axis+1, len(a.shape)), nil)
	}
	if i < 0 || i >= a.shape[axis] {
		return nil, newError(KindArgument, "slice", axisKey(fieldN, axis), fmt.Sprintf("index %d out of range [0,%d)", i, a.shape[axis]), nil)
	}
	b := &Array{
		header:  a.Header().Clone(),
		history: a.history,
		shape:   slices.Clone(a.shape),
		data:    a.data,
	}
	if err := b.Window(AxisWindow{Axis: axis, Count: 1, First: i}); err != nil {
		return nil, err
	}
	if b.shape[axis] == a.shape[axis] {
		// Single-sample axis: Window kept the shared buffer.
		b.data = cloneData(b.data)
	}
	return b, nil
}
