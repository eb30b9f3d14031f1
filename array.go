package rsf

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cplusv2023/rsfpy/internal/stats"
)

// DType identifies the element type of an Array buffer.
type DType uint8

const (
	Invalid DType = iota
	Int32
	Float32
	Complex64
	Uint8
)

var dtypeNames = [...]string{"invalid", "int", "float", "complex", "uchar"}

func (t DType) String() string {
	if int(t) < len(dtypeNames) {
		return dtypeNames[t]
	}
	return "invalid"
}

// Size returns the element size in bytes.
func (t DType) Size() int {
	switch t {
	case Int32, Float32:
		return 4
	case Complex64:
		return 8
	case Uint8:
		return 1
	}
	return 0
}

// Element is the set of buffer element types an Array can hold.
type Element interface {
	int32 | float32 | complex64 | uint8
}

func dtypeOf(data any) DType {
	switch data.(type) {
	case []int32:
		return Int32
	case []float32:
		return Float32
	case []complex64:
		return Complex64
	case []uint8:
		return Uint8
	}
	return Invalid
}

// Array is a numeric buffer bound to an RSF header and a history log.
// Elements are stored row-major in declared shape order: the last axis
// varies fastest.
//
// The zero Array is empty. Window, Transpose, Flip and Squeeze mutate the
// array in place and keep n1..nK equal to the shape.
type Array struct {
	header  *Header
	history string
	shape   []int
	data    any // []int32, []float32, []complex64 or []uint8
}

// NewArray returns a zero-filled array of the given type and shape.
func NewArray(t DType, shape ...int) (*Array, error) {
	n, err := shapeLen(shape)
	if err != nil {
		return nil, err
	}
	var data any
	switch t {
	case Int32:
		data = make([]int32, n)
	case Float32:
		data = make([]float32, n)
	case Complex64:
		data = make([]complex64, n)
	case Uint8:
		data = make([]uint8, n)
	default:
		return nil, newError(KindArgument, "new", "", "invalid dtype", nil)
	}
	a := &Array{header: NewHeader(), shape: slices.Clone(shape), data: data}
	a.sync()
	return a, nil
}

// Wrap binds an existing buffer to a copy of h (nil for an empty header).
// The buffer is not copied.
func Wrap[T Element](data []T, shape []int, h *Header) (*Array, error) {
	n, err := shapeLen(shape)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, newError(KindArgument, "wrap", "", fmt.Sprintf("shape %v holds %d elements, buffer has %d", shape, n, len(data)), nil)
	}
	if h == nil {
		h = NewHeader()
	} else {
		h = h.Clone()
	}
	a := &Array{header: h, shape: slices.Clone(shape), data: data}
	a.sync()
	return a, nil
}

// FromRecord builds an array from a decoded file. The header text becomes
// the history.
func FromRecord(rec *Record) *Array {
	a := &Array{
		header:  rec.Header,
		history: rec.Text,
		shape:   slices.Clone(rec.Shape),
		data:    rec.Data,
	}
	if a.header == nil {
		a.header = NewHeader()
	}
	a.sync()
	return a
}

func shapeLen(shape []int) (int, error) {
	if len(shape) == 0 || len(shape) > MaxAxes {
		return 0, newError(KindShape, "shape", "", fmt.Sprintf("need 1 to %d axes, got %d", MaxAxes, len(shape)), nil)
	}
	n := 1
	for i, s := range shape {
		if s < 1 {
			return 0, newError(KindShape, "shape", axisKey(fieldN, i), fmt.Sprintf("extent %d is not positive", s), nil)
		}
		n *= s
	}
	return n, nil
}

// Copy returns a deep copy whose history is extended with history.
func (a *Array) Copy(history string) *Array {
	c := &Array{
		header:  a.Header().Clone(),
		history: a.history,
		shape:   slices.Clone(a.shape),
		data:    cloneData(a.data),
	}
	c.AppendHistory(history)
	return c
}

func cloneData(data any) any {
	switch d := data.(type) {
	case []int32:
		return slices.Clone(d)
	case []float32:
		return slices.Clone(d)
	case []complex64:
		return slices.Clone(d)
	case []uint8:
		return slices.Clone(d)
	}
	return nil
}

// Header returns the array's header. It is never nil.
func (a *Array) Header() *Header {
	if a.header == nil {
		a.header = NewHeader()
	}
	return a.header
}

// History returns the free-text history log.
func (a *Array) History() string { return a.history }

// AppendHistory adds a line to the history log.
func (a *Array) AppendHistory(s string) {
	if s == "" {
		return
	}
	if a.history != "" && !strings.HasSuffix(a.history, "\n") {
		a.history += "\n"
	}
	a.history += s
}

// DType returns the element type, or Invalid for an empty array.
func (a *Array) DType() DType { return dtypeOf(a.data) }

// Shape returns a copy of the shape.
func (a *Array) Shape() []int { return slices.Clone(a.shape) }

// NDim returns the number of axes.
func (a *Array) NDim() int { return len(a.shape) }

// Len returns the number of elements.
func (a *Array) Len() int {
	if len(a.shape) == 0 {
		return 0
	}
	n := 1
	for _, s := range a.shape {
		n *= s
	}
	return n
}

// Data returns the underlying buffer: []int32, []float32, []complex64,
// []uint8, or nil.
func (a *Array) Data() any { return a.data }

// Int32s returns the buffer if the array holds int32 elements.
func (a *Array) Int32s() []int32 { d, _ := a.data.([]int32); return d }

// Float32s returns the buffer if the array holds float32 elements.
func (a *Array) Float32s() []float32 { d, _ := a.data.([]float32); return d }

// Complex64s returns the buffer if the array holds complex64 elements.
func (a *Array) Complex64s() []complex64 { d, _ := a.data.([]complex64); return d }

// Bytes returns the buffer if the array holds uint8 elements.
func (a *Array) Bytes() []uint8 { d, _ := a.data.([]uint8); return d }

// Float64s returns a widened copy of int32, float32 or uint8 buffers.
func (a *Array) Float64s() ([]float64, bool) {
	switch d := a.data.(type) {
	case []int32:
		return stats.Float64s(d), true
	case []float32:
		return stats.Float64s(d), true
	case []uint8:
		return stats.Float64s(d), true
	}
	return nil, false
}

// Axis returns the descriptor of axis k. For k within the shape the count
// always equals the extent.
func (a *Array) Axis(k int) Axis {
	ax := a.Header().Axis(k)
	if k >= 0 && k < len(a.shape) {
		ax.Count = a.shape[k]
	}
	return ax
}

// Put applies a key=value string to the header and re-synchronizes n#.
func (a *Array) Put(params string) error {
	err := a.Header().Put(params)
	a.sync()
	return err
}

// String describes the array briefly, e.g. "float[3 2]".
func (a *Array) String() string {
	return fmt.Sprintf("%s%v", a.DType(), a.shape)
}

// sync writes the shape into n1..nK and replaces zero spacings with the
// axis default.
func (a *Array) sync() {
	h := a.Header()
	for k, n := range a.shape {
		h.setCount(k, n)
		if d, ok := h.axes[k].v[fieldD].Float(); ok && d == 0 {
			h.axes[k].v[fieldD] = FloatValue(DefaultAxis(k).Spacing)
		}
	}
}

// strides returns row-major element strides for shape.
func strides(shape []int) []int {
	st := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		st[i] = acc
		acc *= shape[i]
	}
	return st
}
