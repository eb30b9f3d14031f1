package rsf

import (
	"errors"
	"iter"
	"slices"
	"strconv"
)

type axisField uint8

const (
	fieldN axisField = iota
	fieldO
	fieldD
	fieldLabel
	fieldUnit
	numFields
)

var fieldPrefixes = [numFields]string{"n", "o", "d", "label", "unit"}

// axisRecord holds the typed values of one axis. A value that is not set
// falls back to the defaults table.
type axisRecord struct {
	v [numFields]Value

	// flip remembers the origin before the last Flip so that flipping
	// back restores it bit for bit.
	flip *flipMemo
}

type flipMemo struct {
	origin  float64 // origin before the flip
	flipped float64 // origin the flip produced
}

// Header is the metadata dictionary of an RSF array. Axis keys
// ({n,o,d,label,unit}1..9) are held as typed per-axis records; all other
// keys keep their insertion order.
//
// The zero Header is empty and ready to use.
type Header struct {
	axes  [MaxAxes]axisRecord
	order []string
	extra map[string]Value
}

// NewHeader returns an empty header.
func NewHeader() *Header {
	return &Header{}
}

// ParseHeader builds a header from key=value text, applying coercion.
// Coercion failures are logged and returned joined; the header is still
// complete.
func ParseHeader(text string) (*Header, error) {
	h := NewHeader()
	return h, h.Put(text)
}

// parseAxisKey splits "label3" into (fieldLabel, 2).
func parseAxisKey(key string) (axisField, int, bool) {
	for f, p := range fieldPrefixes {
		if isAxisKey(key, p) {
			return axisField(f), int(key[len(p)] - '1'), true
		}
	}
	return 0, 0, false
}

func axisKey(f axisField, axis int) string {
	return fieldPrefixes[f] + strconv.Itoa(axis+1)
}

// Set coerces raw according to key and stores it. A coercion failure keeps
// the raw text, logs a warning and is returned.
func (h *Header) Set(key, raw string) error {
	v, err := Coerce(key, raw)
	h.SetValue(key, v)
	if err != nil {
		Logger().Warn("rsf: keeping raw header value", "key", key, "value", raw, "err", err)
	}
	return err
}

// SetValue stores v under key without coercion. Setting an absent Value
// deletes the key.
func (h *Header) SetValue(key string, v Value) {
	if !v.IsSet() {
		h.Delete(key)
		return
	}
	if f, axis, ok := parseAxisKey(key); ok {
		rec := &h.axes[axis]
		rec.v[f] = v
		if f == fieldO || f == fieldD {
			rec.flip = nil
		}
		return
	}
	if h.extra == nil {
		h.extra = make(map[string]Value)
	}
	if _, ok := h.extra[key]; !ok {
		h.order = append(h.order, key)
	}
	h.extra[key] = v
}

// Get returns the value stored under key.
func (h *Header) Get(key string) (Value, bool) {
	if f, axis, ok := parseAxisKey(key); ok {
		v := h.axes[axis].v[f]
		return v, v.IsSet()
	}
	v, ok := h.extra[key]
	return v, ok
}

// String returns the textual value of key, or "" when absent.
func (h *Header) String(key string) string {
	v, _ := h.Get(key)
	return v.String()
}

// Delete removes key.
func (h *Header) Delete(key string) {
	if f, axis, ok := parseAxisKey(key); ok {
		h.axes[axis].v[f] = Value{}
		if f == fieldO || f == fieldD {
			h.axes[axis].flip = nil
		}
		return
	}
	if _, ok := h.extra[key]; !ok {
		return
	}
	delete(h.extra, key)
	h.order = slices.DeleteFunc(h.order, func(k string) bool { return k == key })
}

// Keys returns every key that is set: non-axis keys in insertion order,
// then axis keys grouped by axis in n, o, d, label, unit order.
func (h *Header) Keys() []string {
	keys := slices.Clone(h.order)
	for axis := range h.axes {
		for f := range numFields {
			if h.axes[axis].v[f].IsSet() {
				keys = append(keys, axisKey(f, axis))
			}
		}
	}
	return keys
}

// All yields every key and value in Keys order.
func (h *Header) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range h.Keys() {
			v, _ := h.Get(k)
			if !yield(k, v) {
				return
			}
		}
	}
}

// Len returns the number of keys that are set.
func (h *Header) Len() int {
	n := len(h.order)
	for axis := range h.axes {
		for f := range numFields {
			if h.axes[axis].v[f].IsSet() {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy.
func (h *Header) Clone() *Header {
	c := &Header{axes: h.axes, order: slices.Clone(h.order)}
	for i := range c.axes {
		if m := h.axes[i].flip; m != nil {
			cp := *m
			c.axes[i].flip = &cp
		}
	}
	if h.extra != nil {
		c.extra = make(map[string]Value, len(h.extra))
		for k, v := range h.extra {
			c.extra[k] = v
		}
	}
	return c
}

// Put applies a key=value string such as `n1=100 label2="Offset"`.
func (h *Header) Put(text string) error {
	var errs []error
	for _, p := range Tokenize(text) {
		if err := h.Set(p.Key, p.Value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Axis returns the descriptor of 0-based axis k, substituting defaults for
// keys that are absent or hold text.
func (h *Header) Axis(k int) Axis {
	a := DefaultAxis(k)
	if k < 0 || k >= MaxAxes {
		return a
	}
	rec := &h.axes[k]
	if n, ok := rec.v[fieldN].Int(); ok {
		a.Count = n
	}
	if o, ok := rec.v[fieldO].Float(); ok {
		a.Origin = o
	}
	if d, ok := rec.v[fieldD].Float(); ok {
		a.Spacing = d
	}
	if rec.v[fieldLabel].IsSet() {
		a.Label = rec.v[fieldLabel].String()
	}
	if rec.v[fieldUnit].IsSet() {
		a.Unit = rec.v[fieldUnit].String()
	}
	return a
}

// AxisValues yields the sample coordinates of axis k.
func (h *Header) AxisValues(k int) iter.Seq[float64] {
	return h.Axis(k).Values()
}

// LabelUnit returns "label (unit)" for axis k.
func (h *Header) LabelUnit(k int) string {
	return h.Axis(k).LabelUnit()
}

// SetAxis stores all five fields of axis k.
func (h *Header) SetAxis(k int, a Axis) {
	if k < 0 || k >= MaxAxes {
		return
	}
	h.axes[k] = axisRecord{v: [numFields]Value{
		IntValue(a.Count),
		FloatValue(a.Origin),
		FloatValue(a.Spacing),
		TextValue(a.Label),
		TextValue(a.Unit),
	}}
}

// setSampling stores the n, o, d triple of axis k and forgets flip state.
func (h *Header) setSampling(k, n int, o, d float64) {
	rec := &h.axes[k]
	rec.v[fieldN] = IntValue(n)
	rec.v[fieldO] = FloatValue(o)
	rec.v[fieldD] = FloatValue(d)
	rec.flip = nil
}

// materialize stores the default o, d, label and unit of axis k for every
// field that is not set, so the axis keeps its description when moved.
func (h *Header) materialize(k int) {
	rec := &h.axes[k]
	def := DefaultAxis(k)
	if !rec.v[fieldO].IsSet() {
		rec.v[fieldO] = FloatValue(def.Origin)
	}
	if !rec.v[fieldD].IsSet() {
		rec.v[fieldD] = FloatValue(def.Spacing)
	}
	if !rec.v[fieldLabel].IsSet() && def.Label != "" {
		rec.v[fieldLabel] = TextValue(def.Label)
	}
	if !rec.v[fieldUnit].IsSet() && def.Unit != "" {
		rec.v[fieldUnit] = TextValue(def.Unit)
	}
}

// setCount stores n{k+1}, leaving other fields alone.
func (h *Header) setCount(k, n int) {
	h.axes[k].v[fieldN] = IntValue(n)
}
