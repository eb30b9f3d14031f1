package patch

import (
	"fmt"
	"slices"
	"strings"

	rsf "github.com/cplusv2023/rsfpy"
	"github.com/cplusv2023/rsfpy/raster"
)

// Renderer draws one complete document for a scene, following the
// identifier conventions in names.go.
type Renderer interface {
	Render(s Scene) (string, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(s Scene) (string, error)

// Render calls f(s).
func (f RendererFunc) Render(s Scene) (string, error) { return f(s) }

// Option configures an Engine.
type Option func(*config)

type config struct {
	mode     Mode
	movie    int
	pos      *Position
	colormap string
	clip     []raster.Option
}

// WithMode selects Grey (the default) or Cube.
func WithMode(m Mode) Option {
	return func(c *config) { c.mode = m }
}

// WithMovieAxis sets the axis (1, 2 or 3) stepped through by Cube frames.
// Grey frames always step along axis 3.
func WithMovieAxis(axis int) Option {
	return func(c *config) { c.movie = axis }
}

// WithPosition sets the indices of the slices shown by the panels the
// movie does not step through. The default is the middle of every axis.
func WithPosition(p Position) Option {
	return func(c *config) { c.pos = &p }
}

// WithColormap names the colormap of every tile.
func WithColormap(name string) Option {
	return func(c *config) { c.colormap = name }
}

// WithClip sets the clip options resolved on the first frame.
func WithClip(opts ...raster.Option) Option {
	return func(c *config) { c.clip = opts }
}

type imageSlot struct {
	*slot
	panel int
	href  string
	attrs []Attr
}

// Engine produces the frames of one animation. The first frame is drawn
// by the Renderer; later frames patch the cached document. An Engine is
// not safe for concurrent use.
type Engine struct {
	r     Renderer
	clip  []raster.Option
	scene Scene

	cached bool
	panels [4]*Panel
	images []*imageSlot
	elems  map[string]*element
	slots  []*slot
	segs   []string
	size   int
}

// NewEngine returns an engine animating a. Arrays must be int, float or
// byte valued with at most three axes.
func NewEngine(a *rsf.Array, r Renderer, opts ...Option) (*Engine, error) {
	c := config{mode: Grey, movie: 3, colormap: "gray"}
	for _, opt := range opts {
		opt(&c)
	}
	switch a.DType() {
	case rsf.Int32, rsf.Float32, rsf.Uint8:
	default:
		return nil, fmt.Errorf("patch: cannot animate %s arrays", a.DType())
	}
	if a.NDim() > 3 {
		return nil, fmt.Errorf("patch: need at most 3 axes, got shape %v", a.Shape())
	}
	if c.mode == Grey {
		c.movie = 3
	}
	if c.movie < 1 || c.movie > 3 {
		return nil, fmt.Errorf("patch: movie axis %d not in [1,3]", c.movie)
	}
	e := &Engine{
		r:    r,
		clip: c.clip,
		scene: Scene{
			Array:     a,
			Mode:      c.mode,
			MovieAxis: c.movie,
			Colormap:  c.colormap,
		},
	}
	s := &e.scene
	if c.pos != nil {
		s.Pos = *c.pos
	} else {
		s.Pos = Position{s.Extent(1) / 2, s.Extent(2) / 2, s.Extent(3) / 2}
	}
	for axis := 1; axis <= 3; axis++ {
		if i := s.Pos.At(axis); i < 0 || i >= s.Extent(axis) {
			return nil, fmt.Errorf("patch: position %d on axis %d not in [0,%d)", i, axis, s.Extent(axis))
		}
	}
	return e, nil
}

// Len returns the number of frames.
func (e *Engine) Len() int { return e.scene.Extent(e.scene.MovieAxis) }

// Scene returns the scene of the most recent frame.
func (e *Engine) Scene() Scene { return e.scene }

// Oblique reports whether the cached cube panels are sheared.
func (e *Engine) Oblique() bool {
	return e.panels[AX2] != nil && (e.panels[AX2].Sheared() || e.panels[AX3].Sheared())
}

// Frame returns the document for frame i.
func (e *Engine) Frame(i int) (string, error) {
	if n := e.Len(); i < 0 || i >= n {
		return "", fmt.Errorf("%w: %d not in [0,%d)", ErrFrameRange, i, n)
	}
	prev := e.scene.Pos
	e.scene.Pos = prev.With(e.scene.MovieAxis, i)
	if !e.cached {
		doc, err := e.first()
		if err != nil {
			e.scene.Pos = prev
			return "", err
		}
		return doc, nil
	}
	if err := e.patch(); err != nil {
		e.scene.Pos = prev
		return "", err
	}
	return e.assemble(), nil
}

// first resolves the clip range, renders and caches the document.
func (e *Engine) first() (string, error) {
	s := &e.scene
	var samples []float64
	for _, p := range s.Panels() {
		t, err := s.Tile(p)
		if err != nil {
			return "", err
		}
		samples = append(samples, t.Samples...)
	}
	if s.Array.DType() == rsf.Uint8 {
		s.Vmin, s.Vmax = 0, 255
	} else {
		s.Vmin, s.Vmax = raster.ClipRange(samples, e.clip...)
	}

	doc, err := e.r.Render(*s)
	if err != nil {
		return "", fmt.Errorf("patch: render: %w", err)
	}
	if err := e.index(doc); err != nil {
		return "", err
	}
	e.cached = true
	rsf.Logger().Debug("patch: template cached",
		"mode", s.Mode, "images", len(e.images), "elements", len(e.elems), "slots", len(e.slots))
	return doc, nil
}

func (e *Engine) index(doc string) error {
	s := &e.scene
	panels := s.Panels()
	tags := findImages(doc)
	if len(tags) < len(panels) {
		return mismatch(fmt.Sprintf("%s mode needs %d inline images, found %d", s.Mode, len(panels), len(tags)))
	}
	e.elems = make(map[string]*element)
	e.images = e.images[:0]
	for k, p := range panels {
		t := tags[k]
		img := &imageSlot{slot: newSlot(doc, t.start, t.end), panel: p, href: t.href, attrs: t.attrs}
		e.images = append(e.images, img)
	}

	if s.Mode == Cube {
		for _, p := range panels {
			panel, err := FindPanel(doc, p)
			if err != nil {
				return err
			}
			e.panels[p] = panel
		}
		for _, img := range e.images {
			img.attrs = setAttr(img.attrs, "transform", e.panels[img.panel].TransformAttr())
		}
		for _, p := range panels {
			for _, h := range []bool{true, false} {
				if el := findLine(doc, LineID(p, h)); el != nil {
					e.elems[el.id] = el
				}
			}
		}
		for axis := 1; axis <= 3; axis++ {
			anchor := s.LabelAnchor(e.panels, axis)
			if el := findLabel(doc, LabelID(axis), &anchor); el != nil {
				e.elems[el.id] = el
			}
		}
	} else if el := findLabel(doc, LabelID(3), nil); el != nil {
		e.elems[el.id] = el
	}

	e.slots = e.slots[:0]
	for _, img := range e.images {
		e.slots = append(e.slots, img.slot)
	}
	for _, el := range e.elems {
		e.slots = append(e.slots, el.slots()...)
	}
	slices.SortFunc(e.slots, func(a, b *slot) int { return a.start - b.start })

	e.segs = e.segs[:0]
	last := 0
	for _, sl := range e.slots {
		if sl.start < last {
			return mismatch("tagged elements overlap")
		}
		e.segs = append(e.segs, doc[last:sl.start])
		last = sl.end
	}
	e.segs = append(e.segs, doc[last:])
	e.size = len(doc)
	return nil
}

// patch recomputes the slot values for the current position.
func (e *Engine) patch() error {
	s := &e.scene
	for _, img := range e.images {
		if s.Mode == Cube && fixedAxis(img.panel) != s.MovieAxis-1 {
			continue
		}
		payload, err := s.Payload(img.panel)
		if err != nil {
			return err
		}
		img.value = imageElement(img.href, img.attrs, payload)
	}
	if s.Mode == Grey {
		if el := e.elems[LabelID(3)]; el != nil {
			el.setLabel(s.LabelText(3), Point{})
		}
		return nil
	}
	for _, p := range s.Panels() {
		for _, h := range []bool{true, false} {
			if el := e.elems[LineID(p, h)]; el != nil {
				el.setLine(s.LineEnds(e.panels[p], h))
			}
		}
	}
	for axis := 1; axis <= 3; axis++ {
		if el := e.elems[LabelID(axis)]; el != nil {
			el.setLabel(s.LabelText(axis), s.LabelAnchor(e.panels, axis))
		}
	}
	return nil
}

func (e *Engine) assemble() string {
	var b strings.Builder
	b.Grow(e.size + len(e.images)*64)
	for i, sl := range e.slots {
		b.WriteString(e.segs[i])
		b.WriteString(sl.value)
	}
	b.WriteString(e.segs[len(e.slots)])
	return b.String()
}
