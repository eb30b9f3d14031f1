package raster

import (
	"math"

	rsf "github.com/cplusv2023/rsfpy"
	"github.com/cplusv2023/rsfpy/internal/stats"
)

// DefaultPclip is the percentile used when no clip, bounds or pclip is
// given.
const DefaultPclip = 99.0

// Option configures the clip pipeline, colormap and crop.
type Option func(*options)

type options struct {
	clip     float64
	hasClip  bool
	pclip    float64
	hasPclip bool
	bias     float64
	allpos   bool
	vmin     float64
	vmax     float64
	hasMin   bool
	hasMax   bool
	colormap string
	crop     *crop
}

func newOptions(opts []Option) options {
	o := options{colormap: "gray"}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClip sets the clip value: samples map over bias ± |clip|, or
// [0, |clip|] with WithAllpos. It wins over bounds and pclip.
func WithClip(clip float64) Option {
	return func(o *options) { o.clip, o.hasClip = clip, true }
}

// WithPclip clips at the p-th percentile of |sample|. A p outside
// [0, 100] is logged and used as given.
func WithPclip(p float64) Option {
	return func(o *options) { o.pclip, o.hasPclip = p, true }
}

// WithBias sets the value mapped to the centre of the colormap.
func WithBias(bias float64) Option {
	return func(o *options) { o.bias = bias }
}

// WithAllpos forces the lower bound to zero.
func WithAllpos(allpos bool) Option {
	return func(o *options) { o.allpos = allpos }
}

// WithMin sets the lower display bound. Without WithMax the upper bound is
// -vmin.
func WithMin(vmin float64) Option {
	return func(o *options) { o.vmin, o.hasMin = vmin, true }
}

// WithMax sets the upper display bound. Without WithMin the lower bound is
// -vmax.
func WithMax(vmax float64) Option {
	return func(o *options) { o.vmax, o.hasMax = vmax, true }
}

// WithBounds sets both display bounds. Inverted bounds are swapped.
func WithBounds(vmin, vmax float64) Option {
	return func(o *options) {
		o.vmin, o.hasMin = vmin, true
		o.vmax, o.hasMax = vmax, true
	}
}

// WithColormap selects the colormap by name. See LookupColormap.
func WithColormap(name string) Option {
	return func(o *options) { o.colormap = name }
}

// ClipRange returns the display range [vmin, vmax] for samples. An
// explicit clip wins, then explicit bounds, then the percentile clip
// (DefaultPclip when none is given). NaN samples are ignored.
func ClipRange(samples []float64, opts ...Option) (vmin, vmax float64) {
	o := newOptions(opts)
	return o.clipRange(samples)
}

func (o *options) clipRange(samples []float64) (float64, float64) {
	switch {
	case o.hasClip:
		return o.around(math.Abs(o.clip))
	case o.hasMin || o.hasMax:
		lo, hi := o.vmin, o.vmax
		if !o.hasMin {
			lo = -hi
		}
		if !o.hasMax {
			hi = -lo
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		return lo, hi
	}
	p := DefaultPclip
	if o.hasPclip {
		p = o.pclip
	}
	if p < 0 || p > 100 {
		rsf.Logger().Warn("raster: pclip outside [0,100]", "pclip", p)
	}
	c, ok := stats.Percentile(stats.Abs(samples), p)
	if !ok {
		c = 0
	}
	return o.around(c)
}

func (o *options) around(c float64) (float64, float64) {
	if o.allpos {
		return 0, c
	}
	return o.bias - c, o.bias + c
}

// normalize maps v into [0, 1] over [lo, hi]. An empty range maps to 0.
func normalize(v, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	x := (v - lo) / (hi - lo)
	return min(max(x, 0), 1)
}
