package raster

import (
	"fmt"

	rsf "github.com/cplusv2023/rsfpy"
)

// Tile is an in-memory image of Height rows by Width columns, row 0 on top.
//
// Numeric data lives in Samples (Channels values per pixel); byte data in
// Pix. Exactly one of them is set. One-channel numeric tiles go through the
// clip pipeline and a colormap; three and four channel numeric tiles hold
// intensities in [0, 1].
type Tile struct {
	Width    int
	Height   int
	Channels int
	Samples  []float64
	Pix      []uint8
}

// GrayTile returns a numeric one-channel tile.
func GrayTile(width, height int, samples []float64) Tile {
	return Tile{Width: width, Height: height, Channels: 1, Samples: samples}
}

// GrayBytes returns a byte one-channel tile. Bytes map to [0, 1] by /255
// before the colormap.
func GrayBytes(width, height int, pix []uint8) Tile {
	return Tile{Width: width, Height: height, Channels: 1, Pix: pix}
}

// RGBTile returns an interleaved RGB byte tile.
func RGBTile(width, height int, pix []uint8) Tile {
	return Tile{Width: width, Height: height, Channels: 3, Pix: pix}
}

// RGBATile returns an interleaved RGBA byte tile.
func RGBATile(width, height int, pix []uint8) Tile {
	return Tile{Width: width, Height: height, Channels: 4, Pix: pix}
}

// FromArray converts a 2-D int or float array (rows along axis 1) to a gray
// tile. Byte arrays are gray for two axes, RGB or RGBA when a third axis
// of extent 3 or 4 holds the channels.
func FromArray(a *rsf.Array) (Tile, error) {
	shape := a.Shape()
	if len(shape) < 2 {
		return Tile{}, inputErrorf("need a 2-D array, got %v", shape)
	}
	h, w := shape[0], shape[1]
	if b := a.Bytes(); b != nil {
		switch {
		case len(shape) == 2:
			return GrayBytes(w, h, b), nil
		case len(shape) == 3 && shape[2] == 3:
			return RGBTile(w, h, b), nil
		case len(shape) == 3 && shape[2] == 4:
			return RGBATile(w, h, b), nil
		}
		return Tile{}, inputErrorf("byte array of shape %v is not gray, RGB or RGBA", shape)
	}
	if len(shape) != 2 {
		return Tile{}, inputErrorf("need a 2-D array, got %v", shape)
	}
	s, ok := a.Float64s()
	if !ok {
		return Tile{}, inputErrorf("cannot rasterize %s elements", a.DType())
	}
	return GrayTile(w, h, s), nil
}

func (t Tile) validate() error {
	if t.Width < 1 || t.Height < 1 {
		return inputErrorf("tile size %dx%d is empty", t.Width, t.Height)
	}
	switch t.Channels {
	case 1, 3, 4:
	default:
		return inputErrorf("unsupported channel count %d", t.Channels)
	}
	want := t.Width * t.Height * t.Channels
	switch {
	case t.Samples != nil && t.Pix != nil:
		return inputErrorf("tile has both samples and bytes")
	case t.Samples != nil:
		if len(t.Samples) != want {
			return inputErrorf("tile %dx%dx%d needs %d samples, has %d", t.Width, t.Height, t.Channels, want, len(t.Samples))
		}
	case t.Pix != nil:
		if len(t.Pix) != want {
			return inputErrorf("tile %dx%dx%d needs %d bytes, has %d", t.Width, t.Height, t.Channels, want, len(t.Pix))
		}
	default:
		return inputErrorf("tile has no data")
	}
	return nil
}

// sub returns rows [r0,r1) and columns [c0,c1) as a new tile.
func (t Tile) sub(r0, r1, c0, c1 int) Tile {
	if r0 == 0 && c0 == 0 && r1 == t.Height && c1 == t.Width {
		return t
	}
	out := Tile{Width: c1 - c0, Height: r1 - r0, Channels: t.Channels}
	rowLen := out.Width * t.Channels
	if t.Samples != nil {
		out.Samples = make([]float64, 0, out.Height*rowLen)
		for r := r0; r < r1; r++ {
			start := (r*t.Width + c0) * t.Channels
			out.Samples = append(out.Samples, t.Samples[start:start+rowLen]...)
		}
		return out
	}
	out.Pix = make([]uint8, 0, out.Height*rowLen)
	for r := r0; r < r1; r++ {
		start := (r*t.Width + c0) * t.Channels
		out.Pix = append(out.Pix, t.Pix[start:start+rowLen]...)
	}
	return out
}

// InputError reports a tile or option the encoder cannot represent. It is
// returned before any output is produced.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return "raster: " + e.Msg }

func inputErrorf(format string, args ...any) error {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}
