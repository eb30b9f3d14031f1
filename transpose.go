package rsf

import (
	"fmt"
	"slices"
)

// Transpose permutes the array axes in place: axis i of the result is
// axis perm[i] of the receiver. With no arguments the axis order is
// reversed. Axis records follow their axes, with defaults written out for
// fields that were unset; records beyond the array's dimensions and
// non-axis keys are untouched.
func (a *Array) Transpose(perm ...int) error {
	nd := len(a.shape)
	if len(perm) == 0 {
		perm = make([]int, nd)
		for i := range perm {
			perm[i] = nd - 1 - i
		}
	}
	if err := checkPerm(perm, nd); err != nil {
		return err
	}

	a.data = permuteAny(a.data, a.shape, perm)
	shape := make([]int, nd)
	for i, p := range perm {
		shape[i] = a.shape[p]
	}
	a.shape = shape

	h := a.Header()
	for k := range nd {
		h.materialize(k)
	}
	old := h.axes
	for i, p := range perm {
		h.axes[i] = old[p]
	}
	a.sync()
	return nil
}

func checkPerm(perm []int, nd int) error {
	if len(perm) != nd {
		return newError(KindArgument, "transpose", "", fmt.Sprintf("permutation %v has %d entries, want %d", perm, len(perm), nd), nil)
	}
	seen := make([]bool, nd)
	for _, p := range perm {
		if p < 0 || p >= nd || seen[p] {
			return newError(KindArgument, "transpose", "", fmt.Sprintf("%v is not a permutation of 0..%d", perm, nd-1), nil)
		}
		seen[p] = true
	}
	return nil
}

// InversePerm returns the permutation that undoes perm.
func InversePerm(perm []int) []int {
	inv := make([]int, len(perm))
	for i, p := range perm {
		inv[p] = i
	}
	return inv
}

// Squeeze drops axes of extent 1, keeping at least one axis. The records
// of dropped axes move behind the remaining ones.
func (a *Array) Squeeze() {
	var keep, drop []int
	for k, n := range a.shape {
		if n == 1 {
			drop = append(drop, k)
		} else {
			keep = append(keep, k)
		}
	}
	if len(keep) == 0 && len(drop) > 0 {
		keep, drop = drop[:1], drop[1:]
	}
	if len(drop) == 0 {
		return
	}
	h := a.Header()
	for k := range a.shape {
		h.materialize(k)
	}
	old := h.axes
	order := append(slices.Clone(keep), drop...)
	for i, k := range order {
		h.axes[i] = old[k]
	}
	shape := make([]int, len(keep))
	for i, k := range keep {
		shape[i] = a.shape[k]
	}
	a.shape = shape
	a.sync()
}
