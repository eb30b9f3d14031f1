package raster

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
	"math"
)

// PNG colour types written by the encoder.
const (
	colorRGB  = 2
	colorRGBA = 6
)

var signature = []byte("\x89PNG\r\n\x1a\n")

// Encode returns a complete PNG stream for t. One-channel tiles are
// normalized and coloured into RGBA; three and four channel tiles are
// written as RGB and RGBA. Invalid tiles or options return an *InputError
// and no bytes.
func Encode(t Tile, opts ...Option) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	o := newOptions(opts)
	if o.crop != nil {
		var err error
		if t, err = o.crop.apply(t); err != nil {
			return nil, err
		}
	}
	pix, colorType := o.pixels(t)
	return encodePNG(t.Width, t.Height, colorType, pix)
}

// EncodeBase64 returns Encode's stream as standard base64, the form
// embedded in data:image/png URIs.
func EncodeBase64(t Tile, opts ...Option) (string, error) {
	b, err := Encode(t, opts...)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// pixels returns interleaved 8-bit rows and the PNG colour type.
func (o *options) pixels(t Tile) ([]uint8, uint8) {
	n := t.Width * t.Height
	if t.Channels == 1 {
		cm := colormapOrGray(o.colormap)
		out := make([]uint8, 0, 4*n)
		if t.Pix != nil {
			for _, b := range t.Pix {
				c := cm.At(float64(b) / 255)
				out = append(out, c.R, c.G, c.B, c.A)
			}
			return out, colorRGBA
		}
		lo, hi := o.clipRange(t.Samples)
		for _, v := range t.Samples {
			if math.IsNaN(v) {
				out = append(out, 0, 0, 0, 0)
				continue
			}
			c := cm.At(normalize(v, lo, hi))
			out = append(out, c.R, c.G, c.B, c.A)
		}
		return out, colorRGBA
	}
	colorType := uint8(colorRGBA)
	if t.Channels == 3 {
		colorType = colorRGB
	}
	if t.Pix != nil {
		return t.Pix, colorType
	}
	out := make([]uint8, len(t.Samples))
	for i, v := range t.Samples {
		if !math.IsNaN(v) {
			out[i] = uint8(min(max(v*255, 0), 255))
		}
	}
	return out, colorType
}

func encodePNG(width, height int, colorType uint8, pix []uint8) ([]byte, error) {
	channels := 4
	if colorType == colorRGB {
		channels = 3
	}
	stride := width * channels

	var raw bytes.Buffer
	zw := zlib.NewWriter(&raw)
	for y := range height {
		// Filter type 0 (None) for every scanline.
		zw.Write([]byte{0})
		zw.Write(pix[y*stride : (y+1)*stride])
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	var ihdr [13]byte
	binary.BigEndian.PutUint32(ihdr[0:], uint32(width))
	binary.BigEndian.PutUint32(ihdr[4:], uint32(height))
	ihdr[8] = 8 // bit depth
	ihdr[9] = colorType
	// compression, filter and interlace methods are all 0

	var out bytes.Buffer
	out.Grow(len(signature) + 3*12 + len(ihdr) + raw.Len())
	out.Write(signature)
	writeChunk(&out, "IHDR", ihdr[:])
	writeChunk(&out, "IDAT", raw.Bytes())
	writeChunk(&out, "IEND", nil)
	return out.Bytes(), nil
}

// writeChunk appends length, type, payload and CRC32(type+payload).
func writeChunk(w *bytes.Buffer, typ string, data []byte) {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(data)))
	w.Write(n[:])
	w.WriteString(typ)
	w.Write(data)
	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(data)
	binary.BigEndian.PutUint32(n[:], crc.Sum32())
	w.Write(n[:])
}
