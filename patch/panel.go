package patch

import (
	"fmt"
	"math"

	"golang.org/x/image/math/f64"
)

// Bounds is the data-space extent of a panel as embedded in its anchor
// identifier.
type Bounds struct {
	Left, Right, Bottom, Top float64
}

// Rect is an axis-aligned canvas rectangle.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Dx returns the width.
func (r Rect) Dx() float64 { return r.X1 - r.X0 }

// Dy returns the height.
func (r Rect) Dy() float64 { return r.Y1 - r.Y0 }

// Panel is the data to canvas mapping of one tagged axis rectangle.
//
// The outline runs through (left, bottom), (right, bottom), (right, top)
// and (left, top). Its first, second and fourth corners fix an affine map,
// so flat rectangles and the parallelograms of an oblique cube are handled
// alike.
type Panel struct {
	Index  int
	Data   Bounds
	Canvas Rect
	// M maps data (x, y) to canvas: X = M[0]x + M[1]y + M[2],
	// Y = M[3]x + M[4]y + M[5].
	M f64.Aff3

	origin, ex, ey Point // corner (left, bottom) and the two edge vectors
}

// NewPanel builds the mapping of panel index from its data bounds and
// outline corners.
func NewPanel(index int, data Bounds, corners [4]Point) (*Panel, error) {
	dx, dy := data.Right-data.Left, data.Top-data.Bottom
	if dx == 0 || dy == 0 || !finite(dx) || !finite(dy) {
		return nil, mismatch(fmt.Sprintf("panel %d: degenerate data bounds %+v", index, data))
	}
	for _, c := range corners {
		if !c.finite() {
			return nil, mismatch(fmt.Sprintf("panel %d: non-finite outline corner", index))
		}
	}
	p := &Panel{
		Index:  index,
		Data:   data,
		Canvas: bbox(corners[:]),
		origin: corners[0],
		ex:     corners[1].sub(corners[0]),
		ey:     corners[3].sub(corners[0]),
	}
	if cross := p.ex.X*p.ey.Y - p.ex.Y*p.ey.X; math.Abs(cross) < 1e-9 || p.Canvas.Dx() == 0 || p.Canvas.Dy() == 0 {
		return nil, mismatch(fmt.Sprintf("panel %d: degenerate outline", index))
	}
	sx, sy := 1/dx, 1/dy
	p.M = f64.Aff3{
		p.ex.X * sx, p.ey.X * sy, 0,
		p.ex.Y * sx, p.ey.Y * sy, 0,
	}
	p.M[2] = p.origin.X - p.M[0]*data.Left - p.M[1]*data.Bottom
	p.M[5] = p.origin.Y - p.M[3]*data.Left - p.M[4]*data.Bottom
	return p, nil
}

// Map returns the canvas position of data point (x, y).
func (p *Panel) Map(x, y float64) Point {
	m := &p.M
	return Point{m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]}
}

// Corners returns the outline corners in path order.
func (p *Panel) Corners() [4]Point {
	return [4]Point{p.origin, p.origin.add(p.ex), p.origin.add(p.ex).add(p.ey), p.origin.add(p.ey)}
}

func bbox(pts []Point) Rect {
	r := Rect{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, p := range pts {
		r.X0, r.X1 = min(r.X0, p.X), max(r.X1, p.X)
		r.Y0, r.Y1 = min(r.Y0, p.Y), max(r.Y1, p.Y)
	}
	return r
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
