package rsf

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// EncodeOption configures Encode.
type EncodeOption func(*encodeOptions)

type encodeOptions struct {
	layout   Layout
	dataPath string
}

// WithLayout selects the payload encoding. The default is Native.
func WithLayout(l Layout) EncodeOption {
	return func(o *encodeOptions) { o.layout = l }
}

// WithDataPath stores the payload in a separate file at path and writes
// in=path into the header instead of following it with the payload.
func WithDataPath(path string) EncodeOption {
	return func(o *encodeOptions) { o.dataPath = path }
}

// Encode writes rec as an RSF header followed by its payload. The header
// is the record text, then one tab-indented key=value line per key, with
// in, esize and data_format last.
func Encode(w io.Writer, rec *Record, opts ...EncodeOption) error {
	const op = "encode"
	var o encodeOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.layout > XDR {
		return newError(KindFormat, op, "data_format", "unsupported layout "+o.layout.String(), nil)
	}
	t := dtypeOf(rec.Data)
	if t != Int32 && t != Float32 && t != Complex64 {
		return newError(KindFormat, op, "data_format", "cannot encode "+t.String()+" elements", nil)
	}
	n, err := shapeLen(rec.Shape)
	if err != nil {
		return err
	}
	if got := lenData(rec.Data); got != n {
		return newError(KindArgument, op, "", fmt.Sprintf("shape %v holds %d elements, buffer has %d", rec.Shape, n, got), nil)
	}
	format := DataFormat{Layout: o.layout, DType: t}

	h := NewHeader()
	if rec.Header != nil {
		h = rec.Header.Clone()
	}
	for k := range MaxAxes {
		switch {
		case k < len(rec.Shape):
			h.setCount(k, rec.Shape[k])
		case h.axes[k].v[fieldN].IsSet():
			h.setCount(k, 1)
		}
	}
	in := "stdin"
	if o.dataPath != "" {
		in = o.dataPath
	}
	for _, k := range []string{"in", "esize", "data_format"} {
		h.Delete(k)
	}

	bw := bufio.NewWriter(w)
	if rec.Text != "" {
		bw.WriteString(rec.Text)
		if !strings.HasSuffix(rec.Text, "\n") {
			bw.WriteByte('\n')
		}
	}
	for k, v := range h.All() {
		fmt.Fprintf(bw, "\t%s=%s\n", k, quoteValue(v.String()))
	}
	esize := t.Size()
	if o.layout == ASCII {
		esize = 0
	}
	fmt.Fprintf(bw, "\tin=%s\n\tesize=%d\n\tdata_format=%s\n", quoteValue(in), esize, format)

	if o.dataPath != "" {
		if err := bw.Flush(); err != nil {
			return newError(KindSource, op, "", "writing header", err)
		}
		return writePayloadFile(o.dataPath, rec, format)
	}
	bw.Write(Sentinel)
	if err := writePayload(bw, rec, format); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return newError(KindSource, op, "", "writing payload", err)
	}
	return nil
}

func writePayloadFile(path string, rec *Record, format DataFormat) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return newError(KindSource, "encode", "in", "creating data file", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = newError(KindSource, "encode", "in", "closing data file", cerr)
		}
	}()
	bw := bufio.NewWriter(f)
	if err := writePayload(bw, rec, format); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return newError(KindSource, "encode", "in", "writing data file", err)
	}
	return nil
}

func writePayload(w *bufio.Writer, rec *Record, format DataFormat) error {
	if format.Layout == ASCII {
		return writeASCII(w, rec.Data, rec.Shape[len(rec.Shape)-1])
	}
	order := format.Layout.byteOrder()
	var word [8]byte
	switch d := rec.Data.(type) {
	case []int32:
		for _, v := range d {
			order.PutUint32(word[:], uint32(v))
			w.Write(word[:4])
		}
	case []float32:
		for _, v := range d {
			order.PutUint32(word[:], math.Float32bits(v))
			w.Write(word[:4])
		}
	case []complex64:
		for _, v := range d {
			order.PutUint32(word[:], math.Float32bits(real(v)))
			order.PutUint32(word[4:], math.Float32bits(imag(v)))
			w.Write(word[:])
		}
	}
	return nil
}

// writeASCII writes one line per run of the fastest axis.
func writeASCII(w *bufio.Writer, data any, line int) error {
	var tok func(i int) string
	var n int
	switch d := data.(type) {
	case []int32:
		n = len(d)
		tok = func(i int) string { return strconv.FormatInt(int64(d[i]), 10) }
	case []float32:
		n = len(d)
		tok = func(i int) string { return strconv.FormatFloat(float64(d[i]), 'g', -1, 32) }
	case []complex64:
		n = len(d)
		tok = func(i int) string {
			s := strconv.FormatComplex(complex128(d[i]), 'g', -1, 64)
			return strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
		}
	}
	for i := range n {
		w.WriteString(tok(i))
		if (i+1)%line == 0 {
			w.WriteByte('\n')
		} else {
			w.WriteByte(' ')
		}
	}
	return nil
}

func lenData(data any) int {
	switch d := data.(type) {
	case []int32:
		return len(d)
	case []float32:
		return len(d)
	case []complex64:
		return len(d)
	case []uint8:
		return len(d)
	}
	return 0
}

// Record returns a record view of the array for Encode. The buffer is
// shared; the header is copied.
func (a *Array) Record() *Record {
	return &Record{
		Data:   a.data,
		Shape:  a.Shape(),
		Header: a.Header().Clone(),
		Text:   a.history,
		Format: DataFormat{DType: a.DType()},
	}
}

// Write encodes the array to w.
func (a *Array) Write(w io.Writer, opts ...EncodeOption) error {
	return Encode(w, a.Record(), opts...)
}

// WriteFile encodes the array to a new file at path.
func (a *Array) WriteFile(path string, opts ...EncodeOption) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return newError(KindSource, "encode", "", "creating "+path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = newError(KindSource, "encode", "", "closing "+path, cerr)
		}
	}()
	return a.Write(f, opts...)
}
