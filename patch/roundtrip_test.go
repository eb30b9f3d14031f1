package patch_test

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"math"
	"regexp"
	"strings"
	"testing"

	rsf "github.com/cplusv2023/rsfpy"
	"github.com/cplusv2023/rsfpy/internal/svgfig"
	"github.com/cplusv2023/rsfpy/patch"
	"github.com/cplusv2023/rsfpy/raster"
)

func testCube(t *testing.T) *rsf.Array {
	t.Helper()
	const n1, n2, n3 = 8, 6, 5
	data := make([]float32, n1*n2*n3)
	for i := range data {
		data[i] = float32(math.Sin(float64(i) * 0.37))
	}
	h := rsf.NewHeader()
	if err := h.Put("o1=0 d1=0.004 label1=Time unit1=s o2=0.5 d2=0.025 o3=-0.2 d3=0.05 label3=Depth unit3=km"); err != nil {
		t.Fatal(err)
	}
	a, err := rsf.Wrap(data, []int{n1, n2, n3}, h)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

var (
	lineRE  = regexp.MustCompile(`id="(RSFPY_AX\d_[HV]LINE)">\s*<path d="([^"]*)"`)
	labelRE = regexp.MustCompile(`id="(RSFPY_FRAME\d_LABEL)">\s*<text[^>]*transform="(translate\([^)]*\))"[^>]*>([^<]*)</text>`)
	numRE   = regexp.MustCompile(`-?[0-9.]+`)
)

func numbers(t *testing.T, s string) []float64 {
	t.Helper()
	var out []float64
	for _, m := range numRE.FindAllString(s, -1) {
		var v float64
		if _, err := fmt.Sscan(m, &v); err != nil {
			t.Fatalf("bad number %q in %q", m, s)
		}
		out = append(out, v)
	}
	return out
}

func closeNumbers(t *testing.T, what, got, want string, tol float64) {
	t.Helper()
	g, w := numbers(t, got), numbers(t, want)
	if len(g) != len(w) {
		t.Errorf("%s = %q, want %q", what, got, want)
		return
	}
	for i := range g {
		if math.Abs(g[i]-w[i]) > tol {
			t.Errorf("%s = %q, want %q", what, got, want)
			return
		}
	}
}

type fragments struct {
	lines  map[string]string
	labels map[string][2]string
}

func parseFragments(doc string) fragments {
	f := fragments{lines: map[string]string{}, labels: map[string][2]string{}}
	for _, m := range lineRE.FindAllStringSubmatch(doc, -1) {
		f.lines[m[1]] = m[2]
	}
	for _, m := range labelRE.FindAllStringSubmatch(doc, -1) {
		f.labels[m[1]] = [2]string{m[2], m[3]}
	}
	return f
}

// compareFrames checks a patched frame against the same frame rendered
// from scratch.
func compareFrames(t *testing.T, got, want string, images int) {
	t.Helper()
	for i := range images {
		gt, err := patch.ExtractTemplate(got, i)
		if err != nil {
			t.Fatalf("patched frame: %v", err)
		}
		wt, err := patch.ExtractTemplate(want, i)
		if err != nil {
			t.Fatalf("rendered frame: %v", err)
		}
		if gt.Payload != wt.Payload {
			t.Errorf("image %d payload differs", i)
		}
		gv, _ := gt.Get("transform")
		wv, _ := wt.Get("transform")
		if gv != wv {
			t.Errorf("image %d transform = %q, want %q", i, gv, wv)
		}
	}
	gf, wf := parseFragments(got), parseFragments(want)
	if len(gf.lines) != len(wf.lines) || len(gf.labels) != len(wf.labels) {
		t.Fatalf("patched frame has %d lines and %d labels, rendered %d and %d",
			len(gf.lines), len(gf.labels), len(wf.lines), len(wf.labels))
	}
	for id, d := range wf.lines {
		closeNumbers(t, id, gf.lines[id], d, 2e-3)
	}
	for id, l := range wf.labels {
		closeNumbers(t, id+" position", gf.labels[id][0], l[0], 2e-3)
		if gf.labels[id][1] != l[1] {
			t.Errorf("%s text = %q, want %q", id, gf.labels[id][1], l[1])
		}
	}
}

func TestRoundTrip(t *testing.T) {
	a := testCube(t)
	tests := []struct {
		name  string
		fig   *svgfig.Figure
		opts  []patch.Option
		shear bool
	}{
		{"grey", svgfig.New(), []patch.Option{patch.WithMode(patch.Grey)}, false},
		{"oblique axis 1", svgfig.New(), []patch.Option{patch.WithMode(patch.Cube), patch.WithMovieAxis(1)}, true},
		{"oblique axis 2", svgfig.New(), []patch.Option{patch.WithMode(patch.Cube), patch.WithMovieAxis(2)}, true},
		{"oblique axis 3", svgfig.New(svgfig.WithPoints(0.7, 0.5)), []patch.Option{patch.WithMode(patch.Cube), patch.WithMovieAxis(3)}, true},
		{"flat axis 3", svgfig.New(svgfig.WithFlat()), []patch.Option{patch.WithMode(patch.Cube), patch.WithMovieAxis(3)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append(tt.opts, patch.WithColormap("seismic"), patch.WithClip(raster.WithPclip(95)))
			e, err := patch.NewEngine(a, tt.fig, opts...)
			if err != nil {
				t.Fatal(err)
			}
			sc := e.Scene()
			images := len(sc.Panels())
			for i := range e.Len() {
				got, err := e.Frame(i)
				if err != nil {
					t.Fatalf("Frame(%d) error = %v", i, err)
				}
				want, err := tt.fig.Render(e.Scene())
				if err != nil {
					t.Fatalf("Render() error = %v", err)
				}
				if i == 0 && got != want {
					t.Errorf("frame 0 is not the rendered document")
				}
				compareFrames(t, got, want, images)
			}
			if e.Oblique() != tt.shear {
				t.Errorf("Oblique() = %v, want %v", e.Oblique(), tt.shear)
			}
		})
	}
}

func TestRoundTripPixels(t *testing.T) {
	a := testCube(t)
	fig := svgfig.New()
	e, err := patch.NewEngine(a, fig, patch.WithMode(patch.Cube), patch.WithMovieAxis(1))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Frame(0); err != nil {
		t.Fatal(err)
	}
	doc, err := e.Frame(5)
	if err != nil {
		t.Fatal(err)
	}
	// The top panel slices axis 1; it is the tile that changes.
	tmpl, err := patch.ExtractTemplate(doc, patch.AX3-1)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := base64.StdEncoding.DecodeString(tmpl.Payload)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	s := e.Scene()
	tile, err := s.Tile(patch.AX3)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != tile.Width || b.Dy() != tile.Height {
		t.Fatalf("image is %v, want %dx%d", b, tile.Width, tile.Height)
	}
	direct, err := raster.Encode(tile, raster.WithBounds(s.Vmin, s.Vmax), raster.WithColormap(s.Colormap))
	if err != nil {
		t.Fatal(err)
	}
	want, _ := png.Decode(bytes.NewReader(direct))
	for y := range tile.Height {
		for x := range tile.Width {
			if img.At(x, y) != want.At(x, y) {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, img.At(x, y), want.At(x, y))
			}
		}
	}
}

var masks = []*regexp.Regexp{
	regexp.MustCompile(`base64,[^"]*"`),
	regexp.MustCompile(`(_[HV]LINE">\s*<path d=")[^"]*"`),
	regexp.MustCompile(`(_LABEL">\s*<text[^>]*transform=")[^"]*"`),
	regexp.MustCompile(`(_LABEL">\s*<text[^>]*>)[^<]*<`),
}

func mask(doc string) string {
	for _, re := range masks {
		doc = re.ReplaceAllString(doc, `${1}#"`)
	}
	return doc
}

func TestDeterminism(t *testing.T) {
	a := testCube(t)
	e, err := patch.NewEngine(a, svgfig.New(), patch.WithMode(patch.Cube), patch.WithMovieAxis(3))
	if err != nil {
		t.Fatal(err)
	}
	var docs []string
	for i := range 3 {
		doc, err := e.Frame(i)
		if err != nil {
			t.Fatal(err)
		}
		docs = append(docs, doc)
	}
	if docs[1] == docs[2] {
		t.Fatal("successive frames are identical")
	}
	if mask(docs[1]) != mask(docs[2]) {
		t.Error("frames differ outside the payloads and indicator fragments")
	}
	again, err := e.Frame(1)
	if err != nil {
		t.Fatal(err)
	}
	if again != docs[1] {
		t.Error("Frame(1) is not reproducible")
	}
	f1, f2 := parseFragments(docs[1]), parseFragments(docs[2])
	if f1.lines["RSFPY_AX1_HLINE"] != f2.lines["RSFPY_AX1_HLINE"] {
		t.Error("AX1 horizontal line moved when only axis 3 stepped")
	}
	if f1.lines["RSFPY_AX2_VLINE"] == f2.lines["RSFPY_AX2_VLINE"] {
		t.Error("AX2 vertical line did not follow axis 3")
	}
	if got, want := f2.labels["RSFPY_FRAME3_LABEL"][1], patch.FormatValue(-0.2+2*0.05); got != want {
		t.Errorf("frame 2 axis-3 label = %q, want %q", got, want)
	}
}

func TestStructuralMismatch(t *testing.T) {
	a := testCube(t)
	fig := svgfig.New()
	for name, broken := range map[string]func(string) string{
		"no anchor": func(doc string) string { return strings.ReplaceAll(doc, "_RECT_", "_BOX_") },
		"no image":  func(doc string) string { return strings.ReplaceAll(doc, "data:image/png", "data:image/gif") },
		"3-point outline": func(doc string) string {
			re := regexp.MustCompile(`(RSFPY_AX2_RECT_[^"]*">\s*<path d=")[^"]*"`)
			return re.ReplaceAllString(doc, `${1}M 0 0 L 1 0 L 1 1"`)
		},
	} {
		t.Run(name, func(t *testing.T) {
			r := patch.RendererFunc(func(s patch.Scene) (string, error) {
				doc, err := fig.Render(s)
				return broken(doc), err
			})
			e, err := patch.NewEngine(a, r, patch.WithMode(patch.Cube))
			if err != nil {
				t.Fatal(err)
			}
			doc, err := e.Frame(0)
			if !errors.Is(err, patch.ErrStructuralMismatch) {
				t.Fatalf("Frame(0) error = %v, want ErrStructuralMismatch", err)
			}
			if doc != "" {
				t.Error("Frame(0) returned a document with the error")
			}
		})
	}
}

func TestInconsistentGeometryKept(t *testing.T) {
	var logs bytes.Buffer
	rsf.SetLogger(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { rsf.SetLogger(nil) })

	a := testCube(t)
	fig := svgfig.New()
	re := regexp.MustCompile(`(RSFPY_AX1_HLINE">\s*<path d=")[^"]*"`)
	r := patch.RendererFunc(func(s patch.Scene) (string, error) {
		doc, err := fig.Render(s)
		return re.ReplaceAllString(doc, `${1}M 5 5"`), err
	})
	e, err := patch.NewEngine(a, r, patch.WithMode(patch.Cube), patch.WithMovieAxis(1))
	if err != nil {
		t.Fatal(err)
	}
	for i := range 3 {
		doc, err := e.Frame(i)
		if err != nil {
			t.Fatalf("Frame(%d) error = %v", i, err)
		}
		if got := parseFragments(doc).lines["RSFPY_AX1_HLINE"]; got != "M 5 5" {
			t.Errorf("frame %d AX1_HLINE = %q, want the cached value", i, got)
		}
	}
	if !strings.Contains(logs.String(), "RSFPY_AX1_HLINE") {
		t.Errorf("no warning for the unusable line; log:\n%s", logs.String())
	}
}
