package raster

import (
	"image/color"
	"strings"

	"golang.org/x/image/colornames"

	rsf "github.com/cplusv2023/rsfpy"
	"github.com/cplusv2023/rsfpy/internal/cache"
)

// LUTSize is the number of entries in a colormap.
const LUTSize = 256

// Colormap is a 256-entry RGBA lookup table. Entry i is the colour of the
// normalized value i/255.
type Colormap struct {
	Name string
	LUT  [LUTSize]color.RGBA
}

// At returns the colour of x in [0, 1], using entry min(int(x*256), 255).
func (c *Colormap) At(x float64) color.RGBA {
	return c.LUT[lutIndex(x)]
}

func lutIndex(x float64) int {
	i := int(x * LUTSize)
	return min(max(i, 0), LUTSize-1)
}

// stop is one control point of a channel ramp.
type stop struct{ x, v float64 }

// ramp holds piecewise linear red, green and blue channels.
type ramp [3][]stop

func even(vals ...float64) []stop {
	s := make([]stop, len(vals))
	for i, v := range vals {
		s[i] = stop{float64(i) / float64(len(vals)-1), v}
	}
	return s
}

func hexRamp(hex ...uint32) ramp {
	var r ramp
	for c := range 3 {
		vals := make([]float64, len(hex))
		for i, h := range hex {
			vals[i] = float64(h>>(16-8*c)&0xff) / 255
		}
		r[c] = even(vals...)
	}
	return r
}

var ramps = map[string]ramp{
	"gray":   {even(0, 1), even(0, 1), even(0, 1)},
	"binary": {even(1, 0), even(1, 0), even(1, 0)},
	"seismic": {
		even(0, 0, 1, 1, 0.5),
		even(0, 0, 1, 0, 0),
		even(0.3, 1, 1, 0, 0),
	},
	"bwr": {even(0, 1, 1), even(0, 1, 0), even(1, 1, 0)},
	"hot": {
		{{0, 0.0416}, {0.365079, 1}, {1, 1}},
		{{0, 0}, {0.365079, 0}, {0.746032, 1}, {1, 1}},
		{{0, 0}, {0.746032, 0}, {1, 1}},
	},
	"jet": {
		{{0, 0}, {0.35, 0}, {0.66, 1}, {0.89, 1}, {1, 0.5}},
		{{0, 0}, {0.125, 0}, {0.375, 1}, {0.64, 1}, {0.91, 0}, {1, 0}},
		{{0, 0.5}, {0.11, 1}, {0.34, 1}, {0.65, 0}, {1, 0}},
	},
	"viridis": hexRamp(0x440154, 0x472c7a, 0x3b518b, 0x2c718e, 0x21908d, 0x27ad81, 0x5cc863, 0xaadc32, 0xfde725),
}

func (r ramp) eval(c int, x float64) float64 {
	s := r[c]
	if x <= s[0].x {
		return s[0].v
	}
	for i := 1; i < len(s); i++ {
		if x <= s[i].x {
			a, b := s[i-1], s[i]
			return a.v + (x-a.x)/(b.x-a.x)*(b.v-a.v)
		}
	}
	return s[len(s)-1].v
}

func (r ramp) colormap(name string) *Colormap {
	cm := &Colormap{Name: name}
	for i := range cm.LUT {
		x := float64(i) / (LUTSize - 1)
		cm.LUT[i] = color.RGBA{
			R: toByte(r.eval(0, x)),
			G: toByte(r.eval(1, x)),
			B: toByte(r.eval(2, x)),
			A: 0xff,
		}
	}
	return cm
}

func toByte(v float64) uint8 {
	v = min(max(v, 0), 1)
	return uint8(v*255 + 0.5)
}

var colormaps = cache.New[string, *Colormap](32)

// LookupColormap returns the named colormap. Names are gray (or grey),
// binary, seismic, bwr, hot, jet, viridis, or a colon separated list of
// CSS colour names such as "navy:white:darkred" spread evenly over [0, 1].
// A "_r" suffix reverses any of them. Tables are built once and shared;
// callers must not modify them.
func LookupColormap(name string) (*Colormap, bool) {
	return colormaps.GetOrCreate(name, func() (*Colormap, bool) {
		cm := buildColormap(name)
		return cm, cm != nil
	})
}

func buildColormap(name string) *Colormap {
	if base, ok := strings.CutSuffix(name, "_r"); ok {
		cm := buildColormap(base)
		if cm == nil {
			return nil
		}
		rev := &Colormap{Name: name}
		for i, c := range cm.LUT {
			rev.LUT[LUTSize-1-i] = c
		}
		return rev
	}
	if name == "grey" {
		name = "gray"
	}
	if r, ok := ramps[name]; ok {
		return r.colormap(name)
	}
	if !strings.Contains(name, ":") {
		return nil
	}
	parts := strings.Split(name, ":")
	var r ramp
	for c := range 3 {
		r[c] = make([]stop, len(parts))
	}
	for i, p := range parts {
		col, ok := colornames.Map[strings.ToLower(strings.TrimSpace(p))]
		if !ok {
			return nil
		}
		x := float64(i) / float64(len(parts)-1)
		r[0][i] = stop{x, float64(col.R) / 255}
		r[1][i] = stop{x, float64(col.G) / 255}
		r[2][i] = stop{x, float64(col.B) / 255}
	}
	return r.colormap(name)
}

// colormapOrGray resolves name, falling back to gray with a warning.
func colormapOrGray(name string) *Colormap {
	if cm, ok := LookupColormap(name); ok {
		return cm
	}
	rsf.Logger().Warn("raster: unknown colormap, using gray", "colormap", name)
	cm, _ := LookupColormap("gray")
	return cm
}
