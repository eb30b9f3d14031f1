package raster

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	rsf "github.com/cplusv2023/rsfpy"
)

func decode(t *testing.T, b []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	return img
}

func TestEncodeGrayClip(t *testing.T) {
	nan := math.NaN()
	samples := []float64{
		-1, -0.5, 0, 0.5,
		1, 0.25, 2, -3,
		nan, 0, 0, 0,
		0, 0, 0, -1,
	}
	want := []int{
		0, 64, 128, 192,
		255, 160, 255, 0,
		-1, 128, 128, 128,
		128, 128, 128, 0,
	}
	b, err := Encode(GrayTile(4, 4, samples), WithClip(1), WithBias(0), WithColormap("gray"))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	img := decode(t, b)
	if got := img.Bounds(); got != image.Rect(0, 0, 4, 4) {
		t.Fatalf("Bounds() = %v, want 4x4", got)
	}
	for i, w := range want {
		x, y := i%4, i/4
		got := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
		if w < 0 {
			if got.A != 0 {
				t.Errorf("pixel (%d,%d) = %v, want transparent", x, y, got)
			}
			continue
		}
		g := uint8(w)
		if want := (color.NRGBA{g, g, g, 0xff}); got != want {
			t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
		}
	}
}

func TestEncodeStructure(t *testing.T) {
	b, err := Encode(GrayTile(3, 2, []float64{1, 2, 3, 4, 5, 6}))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, signature) {
		t.Fatalf("missing PNG signature")
	}
	var types []string
	for p := b[len(signature):]; len(p) > 0; {
		n := int(binary.BigEndian.Uint32(p))
		typ := string(p[4:8])
		body := p[8 : 8+n]
		sum := binary.BigEndian.Uint32(p[8+n:])
		if want := crc32.ChecksumIEEE(append([]byte(typ), body...)); sum != want {
			t.Errorf("%s CRC = %08x, want %08x", typ, sum, want)
		}
		if typ == "IHDR" {
			if body[8] != 8 || body[9] != colorRGBA {
				t.Errorf("IHDR depth=%d color=%d, want 8 and 6", body[8], body[9])
			}
		}
		types = append(types, typ)
		p = p[12+n:]
	}
	if got := len(types); got != 3 || types[0] != "IHDR" || types[1] != "IDAT" || types[2] != "IEND" {
		t.Errorf("chunks = %v, want [IHDR IDAT IEND]", types)
	}
}

func TestEncodeRGBAndRGBA(t *testing.T) {
	rgb := []uint8{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 10, 20, 30,
	}
	b, err := Encode(RGBTile(2, 2, rgb))
	if err != nil {
		t.Fatal(err)
	}
	if b[len(signature)+8+9] != colorRGB {
		t.Errorf("color type = %d, want %d", b[len(signature)+8+9], colorRGB)
	}
	img := decode(t, b)
	if got, want := color.NRGBAModel.Convert(img.At(1, 1)), (color.NRGBA{10, 20, 30, 255}); got != want {
		t.Errorf("pixel (1,1) = %v, want %v", got, want)
	}

	rgba := []uint8{1, 2, 3, 4}
	b, err = Encode(RGBATile(1, 1, rgba))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := color.NRGBAModel.Convert(decode(t, b).At(0, 0)), (color.NRGBA{1, 2, 3, 4}); got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}
}

func TestEncodeGrayBytes(t *testing.T) {
	b, err := Encode(GrayBytes(3, 1, []uint8{0, 128, 255}))
	if err != nil {
		t.Fatal(err)
	}
	img := decode(t, b)
	for x, w := range []uint8{0, 128, 255} {
		got := color.NRGBAModel.Convert(img.At(x, 0)).(color.NRGBA)
		if got.R != w {
			t.Errorf("pixel %d = %v, want gray %d", x, got, w)
		}
	}
}

func TestEncodeBase64(t *testing.T) {
	tile := GrayTile(2, 2, []float64{0, 1, 2, 3})
	s, err := EncodeBase64(tile, WithPclip(100))
	if err != nil {
		t.Fatal(err)
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		t.Fatalf("DecodeString() error = %v", err)
	}
	direct, _ := Encode(tile, WithPclip(100))
	if !bytes.Equal(raw, direct) {
		t.Error("EncodeBase64 does not decode to Encode output")
	}
}

func TestEncodeInputErrors(t *testing.T) {
	tests := []struct {
		name string
		tile Tile
		opts []Option
	}{
		{"empty", GrayTile(0, 3, nil), nil},
		{"short samples", GrayTile(2, 2, []float64{1, 2, 3}), nil},
		{"short pix", RGBTile(2, 1, []uint8{1, 2, 3}), nil},
		{"two channels", Tile{Width: 1, Height: 1, Channels: 2, Pix: []uint8{1, 2}}, nil},
		{"no data", Tile{Width: 1, Height: 1, Channels: 1}, nil},
		{"both", Tile{Width: 1, Height: 1, Channels: 1, Pix: []uint8{1}, Samples: []float64{1}}, nil},
		{"empty crop", GrayTile(2, 2, []float64{1, 2, 3, 4}), []Option{WithCrop(nil, nil, Bounds{Min1: 5, Max1: 6, Min2: 0, Max2: 1})}},
		{"crop coords", GrayTile(2, 2, []float64{1, 2, 3, 4}), []Option{WithCrop([]float64{0}, nil, OpenBounds())}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Encode(tt.tile, tt.opts...)
			var ie *InputError
			if !errors.As(err, &ie) {
				t.Fatalf("Encode() error = %v, want *InputError", err)
			}
			if b != nil {
				t.Errorf("Encode() returned %d bytes with an error", len(b))
			}
		})
	}
}

func TestEncodeCrop(t *testing.T) {
	// 3 rows x 4 columns holding their own index.
	samples := make([]float64, 12)
	for i := range samples {
		samples[i] = float64(i)
	}
	tile := GrayTile(4, 3, samples)
	rows := []float64{0, 0.5, 1}
	cols := []float64{30, 20, 10, 0} // descending
	b, err := Encode(tile, WithBounds(0, 11),
		WithCrop(rows, cols, Bounds{Min1: 0.5, Max1: 2, Min2: 5, Max2: 25}))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	img := decode(t, b)
	if got := img.Bounds(); got != image.Rect(0, 0, 2, 2) {
		t.Fatalf("Bounds() = %v, want 2x2", got)
	}
	// Top-left of the crop is row 1, column 1: sample 5.
	got := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA)
	if want := uint8(lutIndex(5.0 / 11)); got.R != want {
		t.Errorf("pixel (0,0) = %v, want gray %d", got, want)
	}
}

func TestCropWindow(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		coords []float64
		lo, hi float64
		i, j   int
	}{
		{[]float64{0, 1, 2, 3}, 1, 2, 1, 3},
		{[]float64{0, 1, 2, 3}, 2, 1, 1, 3},
		{[]float64{0, 1, 2, 3}, nan, nan, 0, 4},
		{[]float64{0, 1, 2, 3}, 0.5, 0.7, 1, 1},
		{[]float64{3, 2, 1, 0}, 1, 2, 1, 3},
		{[]float64{3, 2, 1, 0}, nan, 1.5, 0, 2},
		{nil, 1, 10, 1, 4},
	}
	for _, tt := range tests {
		i, j, err := window(tt.coords, 4, tt.lo, tt.hi)
		if err != nil {
			t.Fatalf("window(%v) error = %v", tt.coords, err)
		}
		if i != tt.i || j != tt.j {
			t.Errorf("window(%v, %v, %v) = %d, %d, want %d, %d", tt.coords, tt.lo, tt.hi, i, j, tt.i, tt.j)
		}
	}
}

func TestFromArray(t *testing.T) {
	a, _ := rsf.Wrap([]float32{1, 2, 3, 4, 5, 6}, []int{2, 3}, nil)
	tile, err := FromArray(a)
	if err != nil {
		t.Fatal(err)
	}
	if tile.Width != 3 || tile.Height != 2 || tile.Samples[5] != 6 {
		t.Errorf("FromArray() = %+v, want 3 wide, 2 high", tile)
	}
	rgb, _ := rsf.Wrap(make([]uint8, 2*2*3), []int{2, 2, 3}, nil)
	if tile, err := FromArray(rgb); err != nil || tile.Channels != 3 {
		t.Errorf("FromArray(rgb) = %+v, %v, want 3 channels", tile, err)
	}
	c, _ := rsf.Wrap(make([]complex64, 4), []int{2, 2}, nil)
	if _, err := FromArray(c); err == nil {
		t.Error("FromArray(complex) error = nil")
	}
}

func BenchmarkEncodeGray(b *testing.B) {
	samples := make([]float64, 256*256)
	for i := range samples {
		samples[i] = math.Sin(float64(i) / 97)
	}
	tile := GrayTile(256, 256, samples)
	b.ResetTimer()
	for b.Loop() {
		if _, err := EncodeBase64(tile, WithClip(1), WithColormap("seismic")); err != nil {
			b.Fatal(err)
		}
	}
}
