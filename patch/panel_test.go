package patch

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func near(p, q Point) bool {
	return math.Abs(p.X-q.X) < 1e-9 && math.Abs(p.Y-q.Y) < 1e-9
}

func TestPanelMap(t *testing.T) {
	b := Bounds{Left: 0, Right: 2, Bottom: 1, Top: 0} // y grows downwards in data
	tests := []struct {
		name    string
		corners [4]Point
		sheared bool
	}{
		{"rect", [4]Point{{10, 110}, {210, 110}, {210, 10}, {10, 10}}, false},
		{"side", [4]Point{{210, 110}, {290, 30}, {290, -70}, {210, 10}}, true},
		{"top", [4]Point{{10, 10}, {210, 10}, {290, -70}, {90, -70}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPanel(AX1, b, tt.corners)
			if err != nil {
				t.Fatalf("NewPanel() error = %v", err)
			}
			c := tt.corners
			data := [4][2]float64{{b.Left, b.Bottom}, {b.Right, b.Bottom}, {b.Right, b.Top}, {b.Left, b.Top}}
			for i, d := range data {
				if got := p.Map(d[0], d[1]); !near(got, c[i]) {
					t.Errorf("Map(%v) = %v, want corner %v", d, got, c[i])
				}
			}
			mid := p.Map(1, 0.5)
			if want := (Point{(c[0].X + c[2].X) / 2, (c[0].Y + c[2].Y) / 2}); !near(mid, want) {
				t.Errorf("Map(centre) = %v, want %v", mid, want)
			}
			if p.Sheared() != tt.sheared {
				t.Errorf("Sheared() = %v, want %v", p.Sheared(), tt.sheared)
			}
			if got := p.Corners(); got != c {
				t.Errorf("Corners() = %v, want %v", got, c)
			}

			// The image's unit square: (0,0) is the data top-left corner,
			// (1,1) the bottom-right.
			m := p.ImageTransform()
			apply := func(x, y float64) Point { return Point{m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]} }
			if got := apply(0, 0); !near(got, c[3]) {
				t.Errorf("image (0,0) -> %v, want %v", got, c[3])
			}
			if got := apply(1, 1); !near(got, c[1]) {
				t.Errorf("image (1,1) -> %v, want %v", got, c[1])
			}
		})
	}
}

func TestPanelShear(t *testing.T) {
	p, err := NewPanel(AX3, Bounds{0, 1, 0, 1}, [4]Point{{0, 50}, {100, 50}, {140, 0}, {40, 0}})
	if err != nil {
		t.Fatal(err)
	}
	kx, ky := p.Shear()
	if kx != -0.8 || ky != 0 {
		t.Errorf("Shear() = %v, %v, want -0.8, 0", kx, ky)
	}
	if got, want := p.TransformAttr(), "matrix(100 0 -40 50 40 0)"; got != want {
		t.Errorf("TransformAttr() = %q, want %q", got, want)
	}
	if r := p.Canvas; r != (Rect{0, 0, 140, 50}) {
		t.Errorf("Canvas = %+v, want {0 0 140 50}", r)
	}
}

func TestNewPanelDegenerate(t *testing.T) {
	square := [4]Point{{0, 10}, {10, 10}, {10, 0}, {0, 0}}
	tests := []struct {
		name    string
		b       Bounds
		corners [4]Point
	}{
		{"flat data", Bounds{0, 0, 0, 1}, square},
		{"nan data", Bounds{0, math.NaN(), 0, 1}, square},
		{"collinear", Bounds{0, 1, 0, 1}, [4]Point{{0, 0}, {10, 0}, {20, 0}, {5, 0}}},
		{"point", Bounds{0, 1, 0, 1}, [4]Point{}},
		{"inf corner", Bounds{0, 1, 0, 1}, [4]Point{{math.Inf(1), 0}, {10, 0}, {10, 10}, {0, 10}}},
	}
	for _, tt := range tests {
		if _, err := NewPanel(AX1, tt.b, tt.corners); !errors.Is(err, ErrStructuralMismatch) {
			t.Errorf("%s: NewPanel() error = %v, want ErrStructuralMismatch", tt.name, err)
		}
	}
}

func anchorDoc(panel int, b Bounds, d string) string {
	return `<svg><g id="RSFPY_BGRECT"><rect/></g>` +
		`<g id="` + AnchorID(panel, b) + `">` + "\n" +
		`<path d="` + d + `" fill="none"/>` + "\n" +
		`</g></svg>`
}

func TestFindPanel(t *testing.T) {
	b := Bounds{Left: -0.005, Right: 0.045, Bottom: 0.102, Top: -0.002}
	c := [4]Point{{70, 390}, {430, 390}, {430, 40}, {70, 40}}
	doc := anchorDoc(AX2, b, OutlinePath(c))
	if !strings.Contains(doc, "RSFPY_AX2_RECT_-0.005000_0.045000_0.102000_-0.002000") {
		t.Fatalf("AnchorID not embedded: %s", doc)
	}
	p, err := FindPanel(doc, AX2)
	if err != nil {
		t.Fatalf("FindPanel() error = %v", err)
	}
	if p.Index != AX2 || math.Abs(p.Data.Left-b.Left) > 1e-12 || math.Abs(p.Data.Top-b.Top) > 1e-12 {
		t.Errorf("panel = %+v, want index 2 and bounds %+v", p, b)
	}
	if p.Canvas != (Rect{70, 40, 430, 390}) {
		t.Errorf("Canvas = %+v", p.Canvas)
	}
	if got := p.Map(b.Right, b.Top); !near(got, c[2]) {
		t.Errorf("Map(right, top) = %v, want %v", got, c[2])
	}

	for name, bad := range map[string]string{
		"wrong panel":  anchorDoc(AX1, b, OutlinePath(c)),
		"three points": anchorDoc(AX2, b, "M 0 0 L 10 0 L 10 10 Z"),
		"bad path":     anchorDoc(AX2, b, "M 0 0 C 1 2 3 4 5 6"),
		"no path":      `<g id="` + AnchorID(AX2, b) + `"><rect/></g>`,
		"degenerate":   anchorDoc(AX2, Bounds{1, 1, 0, 1}, OutlinePath(c)),
		"bad bound":    strings.Replace(anchorDoc(AX2, b, OutlinePath(c)), "0.045000", "x", 1),
	} {
		if _, err := FindPanel(bad, AX2); !errors.Is(err, ErrStructuralMismatch) {
			t.Errorf("%s: FindPanel() error = %v, want ErrStructuralMismatch", name, err)
		}
	}
}
