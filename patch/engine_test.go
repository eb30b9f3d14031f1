package patch

import (
	"errors"
	"testing"

	rsf "github.com/cplusv2023/rsfpy"
)

func cube(t *testing.T, n1, n2, n3 int) *rsf.Array {
	t.Helper()
	data := make([]float32, n1*n2*n3)
	for i := range data {
		data[i] = float32(i%7) - 3
	}
	h := rsf.NewHeader()
	h.Put("o1=0 d1=0.004 o2=1 d2=0.01 o3=-0.1 d3=0.02")
	a, err := rsf.Wrap(data, []int{n1, n2, n3}, h)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestNewEngineErrors(t *testing.T) {
	noop := RendererFunc(func(Scene) (string, error) { return "", nil })
	c, _ := rsf.Wrap(make([]complex64, 4), []int{2, 2}, nil)
	if _, err := NewEngine(c, noop); err == nil {
		t.Error("NewEngine(complex) error = nil")
	}
	a := cube(t, 4, 3, 2)
	if _, err := NewEngine(a, noop, WithMode(Cube), WithMovieAxis(4)); err == nil {
		t.Error("NewEngine(movie axis 4) error = nil")
	}
	if _, err := NewEngine(a, noop, WithPosition(Position{0, 3, 0})); err == nil {
		t.Error("NewEngine(position outside axis 2) error = nil")
	}
	four, _ := rsf.Wrap(make([]float32, 16), []int{2, 2, 2, 2}, nil)
	if _, err := NewEngine(four, noop); err == nil {
		t.Error("NewEngine(4-D) error = nil")
	}
}

func TestEngineLen(t *testing.T) {
	noop := RendererFunc(func(Scene) (string, error) { return "", nil })
	a := cube(t, 5, 4, 3)
	tests := []struct {
		opts []Option
		want int
	}{
		{nil, 3},
		{[]Option{WithMode(Grey), WithMovieAxis(1)}, 3},
		{[]Option{WithMode(Cube), WithMovieAxis(1)}, 5},
		{[]Option{WithMode(Cube), WithMovieAxis(2)}, 4},
		{[]Option{WithMode(Cube)}, 3},
	}
	for _, tt := range tests {
		e, err := NewEngine(a, noop, tt.opts...)
		if err != nil {
			t.Fatal(err)
		}
		if got := e.Len(); got != tt.want {
			t.Errorf("Len() = %d, want %d", got, tt.want)
		}
	}
	e, _ := NewEngine(a, noop)
	if got, want := e.Scene().Pos, (Position{2, 2, 1}); got != want {
		t.Errorf("default position = %+v, want %+v", got, want)
	}
}

func TestEngineFrameErrors(t *testing.T) {
	renderErr := errors.New("boom")
	calls := 0
	r := RendererFunc(func(Scene) (string, error) {
		calls++
		if calls == 1 {
			return "", renderErr
		}
		return "<svg></svg>", nil
	})
	e, err := NewEngine(cube(t, 4, 3, 2), r)
	if err != nil {
		t.Fatal(err)
	}
	for _, i := range []int{-1, 2} {
		if _, err := e.Frame(i); !errors.Is(err, ErrFrameRange) {
			t.Errorf("Frame(%d) error = %v, want ErrFrameRange", i, err)
		}
	}
	if _, err := e.Frame(0); !errors.Is(err, renderErr) {
		t.Errorf("Frame(0) error = %v, want the render error", err)
	}
	// No image in the document: the tagging contract is broken.
	if _, err := e.Frame(0); !errors.Is(err, ErrStructuralMismatch) {
		t.Errorf("Frame(0) error = %v, want ErrStructuralMismatch", err)
	}
	if calls != 2 {
		t.Errorf("renderer called %d times, want 2", calls)
	}
}

func TestEngineScenePositions(t *testing.T) {
	var scenes []Scene
	doc := `<svg><image xlink:href="data:image/png;base64,AA"/></svg>`
	r := RendererFunc(func(s Scene) (string, error) {
		scenes = append(scenes, s)
		return doc, nil
	})
	e, err := NewEngine(cube(t, 4, 3, 5), r, WithPosition(Position{1, 2, 0}))
	if err != nil {
		t.Fatal(err)
	}
	got, err := e.Frame(3)
	if err != nil {
		t.Fatal(err)
	}
	if got != doc {
		t.Errorf("first frame = %q, want the rendered document", got)
	}
	if len(scenes) != 1 || scenes[0].Pos != (Position{1, 2, 3}) {
		t.Fatalf("scenes = %+v, want one at {1 2 3}", scenes)
	}
	if s := scenes[0]; s.Vmin != -3 || s.Vmax != 3 {
		t.Errorf("clip = %v, %v, want -3, 3", s.Vmin, s.Vmax)
	}
	next, err := e.Frame(4)
	if err != nil {
		t.Fatal(err)
	}
	tmpl, err := ExtractTemplate(next, 0)
	if err != nil {
		t.Fatal(err)
	}
	s := e.Scene()
	want, _ := s.Payload(AX1)
	if tmpl.Payload != want {
		t.Error("patched payload differs from a fresh encoding of frame 4")
	}
	if len(scenes) != 1 {
		t.Errorf("renderer called %d times, want 1", len(scenes))
	}
}
