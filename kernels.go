package rsf

// Element kernels shared by the shape-changing operations. All of them
// work on row-major buffers where the last axis varies fastest.

// blocks splits shape around axis into (outer, extent, inner) element
// counts.
func blocks(shape []int, axis int) (outer, extent, inner int) {
	outer, inner = 1, 1
	for _, s := range shape[:axis] {
		outer *= s
	}
	for _, s := range shape[axis+1:] {
		inner *= s
	}
	return outer, shape[axis], inner
}

// take selects idx along axis.
func take[T any](src []T, shape []int, axis int, idx []int) []T {
	outer, n, inner := blocks(shape, axis)
	dst := make([]T, outer*len(idx)*inner)
	for o := range outer {
		for j, i := range idx {
			s := (o*n + i) * inner
			d := (o*len(idx) + j) * inner
			copy(dst[d:d+inner], src[s:s+inner])
		}
	}
	return dst
}

// reverse reverses element order along axis in place.
func reverse[T any](s []T, shape []int, axis int) {
	outer, n, inner := blocks(shape, axis)
	for o := range outer {
		base := o * n * inner
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			a := s[base+i*inner : base+(i+1)*inner]
			b := s[base+j*inner : base+(j+1)*inner]
			for k := range a {
				a[k], b[k] = b[k], a[k]
			}
		}
	}
}

// permute returns the buffer with axis i of the result taken from axis
// perm[i] of the source.
func permute[T any](src []T, shape, perm []int) []T {
	dst := make([]T, len(src))
	if len(src) == 0 {
		return dst
	}
	st := strides(shape)
	nd := len(perm)
	out := make([]int, nd)
	step := make([]int, nd)
	for i, p := range perm {
		out[i] = shape[p]
		step[i] = st[p]
	}
	idx := make([]int, nd)
	s := 0
	for d := range dst {
		dst[d] = src[s]
		for k := nd - 1; k >= 0; k-- {
			idx[k]++
			s += step[k]
			if idx[k] < out[k] {
				break
			}
			s -= step[k] * out[k]
			idx[k] = 0
		}
	}
	return dst
}

func takeAny(data any, shape []int, axis int, idx []int) any {
	switch d := data.(type) {
	case []int32:
		return take(d, shape, axis, idx)
	case []float32:
		return take(d, shape, axis, idx)
	case []complex64:
		return take(d, shape, axis, idx)
	case []uint8:
		return take(d, shape, axis, idx)
	}
	return data
}

func reverseAny(data any, shape []int, axis int) {
	switch d := data.(type) {
	case []int32:
		reverse(d, shape, axis)
	case []float32:
		reverse(d, shape, axis)
	case []complex64:
		reverse(d, shape, axis)
	case []uint8:
		reverse(d, shape, axis)
	}
}

func permuteAny(data any, shape, perm []int) any {
	switch d := data.(type) {
	case []int32:
		return permute(d, shape, perm)
	case []float32:
		return permute(d, shape, perm)
	case []complex64:
		return permute(d, shape, perm)
	case []uint8:
		return permute(d, shape, perm)
	}
	return data
}
