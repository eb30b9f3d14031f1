// Command rsfmovie renders an RSF array as a multi-frame SVG movie. The
// first frame is drawn in full; later frames are patched in place.
//
//	rsfmovie -mode cube -movie 1 -pclip 98 -color seismic < cube.rsf > movie.svg
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	rsf "github.com/cplusv2023/rsfpy"
	"github.com/cplusv2023/rsfpy/internal/svgfig"
	"github.com/cplusv2023/rsfpy/patch"
	"github.com/cplusv2023/rsfpy/raster"
	"github.com/cplusv2023/rsfpy/sequence"
)

func main() {
	var (
		mode      = flag.String("mode", "grey", "grey or cube")
		movie     = flag.Int("movie", 3, "axis stepped through by cube frames (1, 2 or 3)")
		frame1    = flag.Int("frame1", -1, "axis 1 index of the fixed slices (-1 for the middle)")
		frame2    = flag.Int("frame2", -1, "axis 2 index of the fixed slices (-1 for the middle)")
		frame3    = flag.Int("frame3", -1, "axis 3 index of the fixed slices (-1 for the middle)")
		color     = flag.String("color", "gray", "colormap name, name_r, or colour:colour:...")
		clip      = flag.Float64("clip", 0, "clip value")
		pclip     = flag.Float64("pclip", raster.DefaultPclip, "clip percentile")
		bias      = flag.Float64("bias", 0, "value at the colormap centre")
		allpos    = flag.Bool("allpos", false, "map [0, clip] instead of [bias-clip, bias+clip]")
		minval    = flag.Float64("min", 0, "lower clip bound")
		maxval    = flag.Float64("max", 0, "upper clip bound")
		flat      = flag.Bool("flat", false, "lay cube panels out flat instead of obliquely")
		point1    = flag.Float64("point1", 0.6, "front panel fraction of the plot height")
		point2    = flag.Float64("point2", 0.6, "front panel fraction of the plot width")
		width     = flag.Int("width", 600, "figure width")
		height    = flag.Int("height", 480, "figure height")
		maxframes = flag.Int("maxframes", 0, "stop after this many frames (0 for all)")
		verbose   = flag.Bool("v", false, "log details")
	)
	flag.Parse()
	log.SetFlags(0)

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	rsf.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	var clipOpts []raster.Option
	if set["clip"] {
		clipOpts = append(clipOpts, raster.WithClip(*clip))
	}
	if set["min"] {
		clipOpts = append(clipOpts, raster.WithMin(*minval))
	}
	if set["max"] {
		clipOpts = append(clipOpts, raster.WithMax(*maxval))
	}
	clipOpts = append(clipOpts, raster.WithPclip(*pclip), raster.WithBias(*bias), raster.WithAllpos(*allpos))

	a, err := rsf.Read(os.Stdin)
	if err != nil {
		log.Fatalf("reading stdin: %v", err)
	}
	if a.NDim() > 3 {
		a.Squeeze()
	}

	figOpts := []svgfig.Option{svgfig.WithSize(*width, *height), svgfig.WithPoints(*point1, *point2)}
	if *flat {
		figOpts = append(figOpts, svgfig.WithFlat())
	}
	opts := []patch.Option{
		patch.WithColormap(*color),
		patch.WithClip(clipOpts...),
		patch.WithMovieAxis(*movie),
	}
	switch *mode {
	case "grey":
		opts = append(opts, patch.WithMode(patch.Grey))
	case "cube":
		opts = append(opts, patch.WithMode(patch.Cube))
	default:
		log.Fatalf("-mode: unknown mode %q", *mode)
	}
	pos := patch.Position{Frame1: *frame1, Frame2: *frame2, Frame3: *frame3}
	for axis := 1; axis <= 3; axis++ {
		if pos.At(axis) < 0 {
			pos = pos.With(axis, extent(a, axis)/2)
		}
	}
	opts = append(opts, patch.WithPosition(pos))

	eng, err := patch.NewEngine(a, svgfig.New(figOpts...), opts...)
	if err != nil {
		log.Fatal(err)
	}
	n := eng.Len()
	if *maxframes > 0 {
		n = min(n, *maxframes)
	}
	ax := a.Axis(eng.Scene().MovieAxis - 1)
	w := sequence.NewWriter(os.Stdout)
	for i := range n {
		doc, err := eng.Frame(i)
		if err != nil {
			log.Fatalf("frame %d: %v", i, err)
		}
		if err := w.WriteFrame(sequence.FrameLabel(ax.Label, ax.Unit, ax.At(i), ax.Last()), doc); err != nil {
			log.Fatal(err)
		}
		rsf.Logger().Debug("rsfmovie: frame written", "index", i, "of", n)
	}
}

func extent(a *rsf.Array, axis int) int {
	shape := a.Shape()
	if axis-1 < len(shape) {
		return shape[axis-1]
	}
	return 1
}
