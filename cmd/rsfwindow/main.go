// Command rsfwindow windows, transposes and flips an RSF stream.
//
//	rsfwindow [-transp 2,1] [-flip 1] [-squeeze] [-form xdr] [-out data.bin] [n1=10 f1=2 j1=3 ...] < in.rsf > out.rsf
//
// Window operands are n# (count), f# (first index, negative counts from
// the end) and j# (stride).
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	rsf "github.com/cplusv2023/rsfpy"
)

func main() {
	var (
		transp  = flag.String("transp", "", "comma separated 1-based axis permutation")
		flip    = flag.Int("flip", 0, "axis to reverse (1-based, 0 for none)")
		squeeze = flag.Bool("squeeze", false, "drop axes of extent 1")
		form    = flag.String("form", "native", "output layout: native, ascii or xdr")
		out     = flag.String("out", "", "write the payload to this file instead of after the header")
		verbose = flag.Bool("v", false, "log details")
	)
	flag.Parse()
	log.SetFlags(0)

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	rsf.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	layout, err := rsf.ParseLayout(*form)
	if err != nil {
		log.Fatal(err)
	}
	ws, err := rsf.ParseWindow(strings.Join(flag.Args(), " "))
	if err != nil {
		log.Fatal(err)
	}

	a, err := rsf.Read(os.Stdin)
	if err != nil {
		log.Fatalf("reading stdin: %v", err)
	}
	if len(ws) > 0 {
		if err := a.Window(ws...); err != nil {
			log.Fatal(err)
		}
	}
	if *transp != "" {
		perm, err := parsePerm(*transp)
		if err != nil {
			log.Fatalf("-transp: %v", err)
		}
		if err := a.Transpose(perm...); err != nil {
			log.Fatal(err)
		}
	}
	if *flip != 0 {
		if err := a.Flip(*flip - 1); err != nil {
			log.Fatal(err)
		}
	}
	if *squeeze {
		a.Squeeze()
	}
	a.AppendHistory(strings.Join(os.Args, " "))

	opts := []rsf.EncodeOption{rsf.WithLayout(layout)}
	if *out != "" {
		opts = append(opts, rsf.WithDataPath(*out))
	}
	if err := a.Write(os.Stdout, opts...); err != nil {
		log.Fatal(err)
	}
}

// parsePerm converts "3,1,2" to the 0-based permutation [2 0 1].
func parsePerm(s string) ([]int, error) {
	var perm []int
	for _, f := range strings.Split(s, ",") {
		k, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		perm = append(perm, k-1)
	}
	return perm, nil
}
