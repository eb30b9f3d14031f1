// Package svgfig draws the minimal SVG figures the patch engine animates:
// one grey panel, or the three panels of a cube in flat or oblique layout,
// tagged with the identifiers the engine looks for.
package svgfig

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"github.com/cplusv2023/rsfpy/patch"
)

// Figure renders patch scenes. The zero value is not usable; call New.
type Figure struct {
	width, height            int
	left, top, right, bottom int
	point1, point2           float64
	flat                     bool
}

// Option configures a Figure.
type Option func(*Figure)

// WithSize sets the canvas size in pixels.
func WithSize(width, height int) Option {
	return func(f *Figure) { f.width, f.height = width, height }
}

// WithPoints sets the fraction of the plot height (point1) and width
// (point2) taken by the front panel of a cube.
func WithPoints(point1, point2 float64) Option {
	return func(f *Figure) { f.point1, f.point2 = point1, point2 }
}

// WithFlat lays the cube panels out as separate rectangles instead of an
// oblique projection.
func WithFlat() Option {
	return func(f *Figure) { f.flat = true }
}

// New returns a Figure.
func New(opts ...Option) *Figure {
	f := &Figure{
		width: 600, height: 480,
		left: 70, top: 40, right: 60, bottom: 50,
		point1: 0.6, point2: 0.6,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// gap separates flat cube panels.
const gap = 6

// corners returns the outline of a panel through (left, bottom),
// (right, bottom), (right, top) and (left, top).
func (f *Figure) corners(mode patch.Mode, panel int) [4]patch.Point {
	l, t := float64(f.left), float64(f.top)
	pw := float64(f.width - f.left - f.right)
	ph := float64(f.height - f.top - f.bottom)
	quad := func(x0, y0, x1, y1 float64) [4]patch.Point {
		return [4]patch.Point{pt(x0, y1), pt(x1, y1), pt(x1, y0), pt(x0, y0)}
	}
	if mode == patch.Grey {
		return quad(l, t, l+pw, t+ph)
	}
	fw := math.Round(pw * f.point2)
	fh := math.Round(ph * f.point1)
	sw, th := pw-fw, ph-fh
	switch {
	case panel == patch.AX1:
		return quad(l, t+th, l+fw, t+ph)
	case f.flat && panel == patch.AX2:
		return quad(l+fw+gap, t+th, l+pw, t+ph)
	case f.flat:
		return quad(l, t, l+fw, t+th-gap)
	case panel == patch.AX2:
		return [4]patch.Point{pt(l+fw, t+ph), pt(l+pw, t+fh), pt(l+pw, t), pt(l+fw, t+th)}
	default:
		return [4]patch.Point{pt(l, t+th), pt(l+fw, t+th), pt(l+pw, t), pt(l+sw, t)}
	}
}

func pt(x, y float64) patch.Point { return patch.Point{X: x, Y: y} }

// labelOffset places each frame label next to its anchor.
var labelOffset = [4]patch.Point{1: {X: 4, Y: 4}, 2: {Y: -6}, 3: {X: 4, Y: -6}}

// Render draws s.
func (f *Figure) Render(s patch.Scene) (string, error) {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(f.width, f.height)

	canvas.Gid(patch.IDBackground)
	canvas.Rect(0, 0, f.width, f.height, "fill:white")
	canvas.Gend()

	var panels [4]*patch.Panel
	for _, p := range s.Panels() {
		b := canonical(s.Bounds(p))
		c := f.corners(s.Mode, p)
		panel, err := patch.NewPanel(p, b, c)
		if err != nil {
			return "", err
		}
		panels[p] = panel

		payload, err := s.Payload(p)
		if err != nil {
			return "", err
		}
		canvas.Image(0, 0, 1, 1, patch.PNGDataPrefix+payload,
			`transform="`+panel.TransformAttr()+`"`, `preserveAspectRatio="none"`)
	}
	for _, p := range s.Panels() {
		canvas.Gid(patch.AnchorID(p, panels[p].Data))
		canvas.Path(patch.OutlinePath(panels[p].Corners()), `fill="none"`, `stroke="black"`)
		canvas.Gend()
	}

	front := panels[patch.AX1].Canvas
	canvas.Gid(patch.IDBaseAxes)
	canvas.Text(int(front.X0+front.X1)/2, int(front.Y1)+32, s.Array.Header().LabelUnit(1),
		`text-anchor="middle"`, `font-size="12"`)
	canvas.Text(int(front.X0)-40, int(front.Y0+front.Y1)/2, s.Array.Header().LabelUnit(0),
		`text-anchor="middle"`, `font-size="12"`)
	canvas.Gend()

	if s.Mode == patch.Grey {
		at := patch.Point{X: front.X1, Y: front.Y0 - 8}
		canvas.Gid(patch.LabelID(3))
		canvas.Text(0, 0, s.LabelText(3), `transform="`+patch.Translate(at)+`"`,
			`text-anchor="end"`, `font-size="10"`)
		canvas.Gend()
		canvas.End()
		return buf.String(), nil
	}

	for _, p := range s.Panels() {
		for _, h := range []bool{true, false} {
			p0, p1 := s.LineEnds(panels[p], h)
			canvas.Gid(patch.LineID(p, h))
			canvas.Path(patch.LinePath(p0, p1), `fill="none"`, `stroke="blue"`, `stroke-width="1"`)
			canvas.Gend()
		}
	}
	for axis := 1; axis <= 3; axis++ {
		a := s.LabelAnchor(panels, axis)
		off := labelOffset[axis]
		at := patch.Point{X: a.X + off.X, Y: a.Y + off.Y}
		canvas.Gid(patch.LabelID(axis))
		canvas.Text(0, 0, s.LabelText(axis), `transform="`+patch.Translate(at)+`"`, `font-size="10"`)
		canvas.Gend()
	}
	canvas.End()
	return buf.String(), nil
}

// canonical rounds b to the precision embedded in anchor identifiers, so
// the figure maps data exactly as a reader of the identifier does.
func canonical(b patch.Bounds) patch.Bounds {
	r := func(v float64) float64 {
		c, err := strconv.ParseFloat(fmt.Sprintf("%f", v), 64)
		if err != nil {
			return v
		}
		return c
	}
	return patch.Bounds{Left: r(b.Left), Right: r(b.Right), Bottom: r(b.Bottom), Top: r(b.Top)}
}
