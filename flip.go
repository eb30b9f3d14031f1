package rsf

import "fmt"

// Flip reverses element order along axis in place. The axis origin moves
// to the old last coordinate o + (n-1)*d and the spacing is negated.
// Flipping the same axis again restores the previous origin exactly.
func (a *Array) Flip(axis int) error {
	if axis < 0 || axis >= len(a.shape) {
		return newError(KindArgument, "flip", "", fmt.Sprintf("axis %d out of range for %d dimensions", axis+1, len(a.shape)), nil)
	}
	reverseAny(a.data, a.shape, axis)

	h := a.Header()
	ax := a.Axis(axis)
	o := ax.Last()
	if m := h.axes[axis].flip; m != nil && m.flipped == ax.Origin {
		o = m.origin
	}
	h.setSampling(axis, ax.Count, o, -ax.Spacing)
	h.axes[axis].flip = &flipMemo{origin: ax.Origin, flipped: o}
	return nil
}
