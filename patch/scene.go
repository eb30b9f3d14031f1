package patch

import (
	"fmt"

	rsf "github.com/cplusv2023/rsfpy"
	"github.com/cplusv2023/rsfpy/raster"
)

// Mode selects how frames are laid out.
type Mode int

const (
	// Grey shows one 2-D panel (AX1) per frame, stepping along axis 3.
	Grey Mode = iota
	// Cube shows the three orthogonal panels of a 3-D array, stepping
	// along the movie axis.
	Cube
)

func (m Mode) String() string {
	switch m {
	case Grey:
		return "grey"
	case Cube:
		return "cube"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Position holds 0-based sample indices along axes 1, 2 and 3.
type Position struct {
	Frame1, Frame2, Frame3 int
}

// At returns the index along axis (1-based).
func (p Position) At(axis int) int {
	switch axis {
	case 1:
		return p.Frame1
	case 2:
		return p.Frame2
	}
	return p.Frame3
}

// With returns p with the index along axis set to i.
func (p Position) With(axis, i int) Position {
	switch axis {
	case 1:
		p.Frame1 = i
	case 2:
		p.Frame2 = i
	default:
		p.Frame3 = i
	}
	return p
}

// Scene is everything a renderer needs to draw one frame.
type Scene struct {
	Array     *rsf.Array
	Mode      Mode
	MovieAxis int // 1, 2 or 3
	Pos       Position
	// Vmin and Vmax are the frozen clip range shared by every frame.
	Vmin, Vmax float64
	Colormap   string

	flat []float64
}

// Extent returns the array extent along axis (1-based), treating missing
// axes as 1.
func (s *Scene) Extent(axis int) int {
	shape := s.Array.Shape()
	if axis-1 < len(shape) {
		return shape[axis-1]
	}
	return 1
}

// Coord returns the data coordinate of the current position along axis.
func (s *Scene) Coord(axis int) float64 {
	return s.Array.Axis(axis - 1).At(s.Pos.At(axis))
}

// Frame returns the position along the movie axis.
func (s *Scene) Frame() int { return s.Pos.At(s.MovieAxis) }

// panelAxes returns the array axes (1-based) shown across and down a panel.
func panelAxes(panel int) (across, down int) {
	switch panel {
	case AX2:
		return 3, 1
	case AX3:
		return 2, 3
	}
	return 2, 1
}

// Bounds returns the data bounds of a panel. Each side extends half a
// sample beyond the first and last coordinate so pixels are centred on
// their samples.
func (s *Scene) Bounds(panel int) Bounds {
	across, down := panelAxes(panel)
	left, right := s.span(across)
	top, bottom := s.span(down)
	if panel == AX3 {
		// Axis 3 runs upwards on the top panel.
		bottom, top = top, bottom
	}
	return Bounds{Left: left, Right: right, Bottom: bottom, Top: top}
}

func (s *Scene) span(axis int) (first, last float64) {
	ax := s.Array.Axis(axis - 1)
	return ax.Origin - ax.Spacing/2, ax.Last() + ax.Spacing/2
}

// Tile returns the panel's slice through the current position as a
// raster tile with row 0 at the top of the panel.
func (s *Scene) Tile(panel int) (raster.Tile, error) {
	n1, n2, n3 := s.Extent(1), s.Extent(2), s.Extent(3)
	at := func(i1, i2, i3 int) int { return (i1*n2+i2)*n3 + i3 }
	var (
		w, h int
		idx  func(r, c int) int
	)
	switch panel {
	case AX1:
		f := s.Pos.Frame3
		w, h = n2, n1
		idx = func(r, c int) int { return at(r, c, f) }
	case AX2:
		f := s.Pos.Frame2
		w, h = n3, n1
		idx = func(r, c int) int { return at(r, f, c) }
	case AX3:
		f := s.Pos.Frame1
		w, h = n2, n3
		idx = func(r, c int) int { return at(f, c, n3-1-r) }
	default:
		return raster.Tile{}, fmt.Errorf("patch: no panel %d", panel)
	}

	if b := s.Array.Bytes(); b != nil {
		pix := make([]uint8, 0, w*h)
		for r := range h {
			for c := range w {
				pix = append(pix, b[idx(r, c)])
			}
		}
		return raster.GrayBytes(w, h, pix), nil
	}
	flat, err := s.samples()
	if err != nil {
		return raster.Tile{}, err
	}
	out := make([]float64, 0, w*h)
	for r := range h {
		for c := range w {
			out = append(out, flat[idx(r, c)])
		}
	}
	return raster.GrayTile(w, h, out), nil
}

func (s *Scene) samples() ([]float64, error) {
	if s.flat == nil {
		f, ok := s.Array.Float64s()
		if !ok {
			return nil, fmt.Errorf("patch: cannot rasterize %s arrays", s.Array.DType())
		}
		s.flat = f
	}
	return s.flat, nil
}

// Payload returns the base64 PNG of a panel, clipped to the scene range.
func (s *Scene) Payload(panel int) (string, error) {
	t, err := s.Tile(panel)
	if err != nil {
		return "", err
	}
	return raster.EncodeBase64(t, raster.WithBounds(s.Vmin, s.Vmax), raster.WithColormap(s.Colormap))
}

// Panels lists the panels drawn in the scene's mode.
func (s *Scene) Panels() []int {
	if s.Mode == Grey {
		return []int{AX1}
	}
	return []int{AX1, AX2, AX3}
}

// LineEnds returns the endpoints of a panel's indicator line.
func (s *Scene) LineEnds(p *Panel, horizontal bool) (Point, Point) {
	across, down := panelAxes(p.Index)
	b := p.Data
	if horizontal {
		y := s.Coord(down)
		return p.Map(b.Left, y), p.Map(b.Right, y)
	}
	x := s.Coord(across)
	return p.Map(x, b.Bottom), p.Map(x, b.Top)
}

// LabelAnchor returns the canvas point a frame label for axis is placed
// relative to. panels is indexed by panel number.
func (s *Scene) LabelAnchor(panels [4]*Panel, axis int) Point {
	switch axis {
	case 1:
		p := panels[AX2]
		return p.Map(p.Data.Right, s.Coord(1))
	case 2:
		p := panels[AX3]
		return p.Map(s.Coord(2), p.Data.Top)
	}
	p := panels[AX2]
	return p.Map(s.Coord(3), p.Data.Top)
}

// LabelText returns the text of the frame label for axis.
func (s *Scene) LabelText(axis int) string {
	return FormatValue(s.Coord(axis))
}
