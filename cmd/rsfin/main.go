// Command rsfin describes RSF files: where the payload lives, its element
// format and the sampling of every axis.
//
//	rsfin [-v] [-q] [-j n] file.rsf ...
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	rsf "github.com/cplusv2023/rsfpy"
	"github.com/cplusv2023/rsfpy/internal/parallel"
)

type report struct {
	text []byte
	err  error
}

func main() {
	var (
		verbose = flag.Bool("v", false, "log decoding details")
		quiet   = flag.Bool("q", false, "print only the element count of each file")
		jobs    = flag.Int("j", 0, "files decoded concurrently (0 = GOMAXPROCS)")
	)
	flag.Parse()
	log.SetFlags(0)

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	rsf.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if flag.NArg() == 0 {
		log.Fatal("usage: rsfin [-v] [-q] file.rsf ...")
	}
	pool := parallel.NewPool(*jobs)
	reports := parallel.Map(pool, flag.Args(), func(path string) report {
		var buf bytes.Buffer
		err := describe(&buf, path, *quiet)
		return report{text: buf.Bytes(), err: err}
	})
	pool.Close()

	failed := false
	for i, r := range reports {
		os.Stdout.Write(r.text)
		if r.err != nil {
			log.Printf("%s: %v", flag.Arg(i), r.err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func describe(w io.Writer, path string, quiet bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	rec, err := rsf.Decode(f)
	if err != nil {
		return err
	}

	n := 1
	for _, s := range rec.Shape {
		n *= s
	}
	size := rec.Format.DType.Size()
	if quiet {
		fmt.Fprintf(w, "%s: %d elements\n", path, n)
		return nil
	}

	in := rec.Header.String("in")
	fmt.Fprintf(w, "%s:\n", path)
	fmt.Fprintf(w, "    in=%q\n", in)
	fmt.Fprintf(w, "    esize=%d type=%s form=%s\n", size, rec.Format.DType, rec.Format.Layout)
	for k := range rec.Shape {
		ax := rec.Header.Axis(k)
		ax.Count = rec.Shape[k]
		fmt.Fprintf(w, "    n%d=%-10d d%d=%-12g o%d=%-12g label%d=%-12q unit%d=%q\n",
			k+1, ax.Count, k+1, ax.Spacing, k+1, ax.Origin, k+1, ax.Label, k+1, ax.Unit)
	}
	var extra []string
	for key, v := range rec.Header.All() {
		if isStandard(key) {
			continue
		}
		extra = append(extra, key+"="+v.String())
	}
	if len(extra) > 0 {
		fmt.Fprintf(w, "    %s\n", strings.Join(extra, " "))
	}
	fmt.Fprintf(w, "\t%d elements %d bytes\n", n, n*size)
	return nil
}

func isStandard(key string) bool {
	switch key {
	case "in", "esize", "data_format":
		return true
	}
	for _, p := range []string{"n", "o", "d", "label", "unit"} {
		if rest, ok := strings.CutPrefix(key, p); ok && len(rest) == 1 && rest[0] >= '1' && rest[0] <= '9' {
			return true
		}
	}
	return false
}
