package rsf

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Sentinel terminates the header block when the payload follows in the
// same stream.
var Sentinel = []byte{0x0C, 0x0C, 0x04}

// Record is the transient result of decoding one file.
type Record struct {
	Data   any // []int32, []float32 or []complex64
	Shape  []int
	Header *Header
	Text   string // header text before the sentinel
	Format DataFormat
}

// DecodeOption configures Decode.
type DecodeOption func(*decodeOptions)

type decodeOptions struct {
	open func(name string) (io.ReadCloser, error)
}

func defaultDecodeOptions() decodeOptions {
	return decodeOptions{open: func(name string) (io.ReadCloser, error) { return os.Open(name) }}
}

// WithOpener sets the function used to open a detached payload named by
// the in key. Paths are passed as written in the header. The default is
// os.Open.
func WithOpener(open func(name string) (io.ReadCloser, error)) DecodeOption {
	return func(o *decodeOptions) {
		if open != nil {
			o.open = open
		}
	}
}

// Decode reads one RSF header and its payload from r.
//
// Structural problems (missing in, n1 or data_format, an unsupported
// format, an unreadable source or a short payload) return a nil record and
// an *Error matching ErrNullResult; they are also logged as warnings.
// Header values that fail coercion are logged and kept as text.
func Decode(r io.Reader, opts ...DecodeOption) (*Record, error) {
	o := defaultDecodeOptions()
	for _, opt := range opts {
		opt(&o)
	}
	rec, err := decode(bufio.NewReader(r), o)
	if err != nil {
		warnNull(err)
		return nil, err
	}
	return rec, nil
}

func decode(br *bufio.Reader, o decodeOptions) (*Record, error) {
	const op = "decode"
	raw, err := readHeader(br)
	if err != nil {
		return nil, newError(KindSource, op, "", "reading header", err)
	}
	text := decodeText(raw)
	h := NewHeader()
	_ = h.Put(text) // coercion failures are logged by Set and kept as text

	in := h.String("in")
	if in == "" {
		return nil, newError(KindMissingKey, op, "in", "key not found", nil)
	}

	shape, err := headerShape(h)
	if err != nil {
		return nil, err
	}

	fv, ok := h.Get("data_format")
	if !ok {
		return nil, newError(KindMissingKey, op, "data_format", "key not found", nil)
	}
	format, err := ParseDataFormat(fv.String())
	if err != nil {
		return nil, err
	}

	var payload io.Reader = br
	if in != "stdin" {
		f, err := o.open(in)
		if err != nil {
			return nil, newError(KindSource, op, "in", "data file not accessible", err)
		}
		defer f.Close()
		payload = bufio.NewReader(f)
	}

	count := 1
	for _, n := range shape {
		count *= n
	}
	var data any
	if format.Layout == ASCII {
		data, err = readASCII(payload, format.DType, count)
	} else {
		data, err = readBinary(payload, format, count)
	}
	if err != nil {
		return nil, err
	}
	return &Record{Data: data, Shape: shape, Header: h, Text: text, Format: format}, nil
}

// readHeader returns the bytes before the sentinel, or everything when the
// stream ends first (a header whose payload lives elsewhere).
func readHeader(br *bufio.Reader) ([]byte, error) {
	var buf []byte
	for {
		chunk, err := br.ReadSlice(Sentinel[2])
		buf = append(buf, chunk...)
		switch {
		case err == nil:
			if bytes.HasSuffix(buf, Sentinel) {
				return buf[:len(buf)-len(Sentinel)], nil
			}
		case errors.Is(err, bufio.ErrBufferFull):
		case errors.Is(err, io.EOF):
			return buf, nil
		default:
			return nil, err
		}
	}
}

// decodeText drops bytes that are not valid UTF-8.
func decodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	drop := runes.Remove(runes.Predicate(func(r rune) bool { return r == utf8.RuneError }))
	s, _, err := transform.Bytes(drop, b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "")
	}
	return string(s)
}

// headerShape collects n1..n9 up to the first missing key.
func headerShape(h *Header) ([]int, error) {
	var shape []int
	for k := range MaxAxes {
		v := h.axes[k].v[fieldN]
		if !v.IsSet() {
			break
		}
		n, ok := v.Int()
		if !ok || n < 1 {
			return nil, newError(KindShape, "decode", axisKey(fieldN, k), "invalid extent "+strconv.Quote(v.String()), nil)
		}
		shape = append(shape, n)
	}
	if len(shape) == 0 {
		return nil, newError(KindShape, "decode", "n1", "no n# keys found", nil)
	}
	return shape, nil
}

func readBinary(r io.Reader, f DataFormat, count int) (any, error) {
	buf := make([]byte, count*f.DType.Size())
	if n, err := io.ReadFull(r, buf); err != nil {
		return nil, newError(KindPayload, "decode", "", fmt.Sprintf("payload has %d of %d bytes", n, len(buf)), err)
	}
	order := f.Layout.byteOrder()
	switch f.DType {
	case Int32:
		out := make([]int32, count)
		for i := range out {
			out[i] = int32(order.Uint32(buf[4*i:]))
		}
		return out, nil
	case Float32:
		out := make([]float32, count)
		for i := range out {
			out[i] = math.Float32frombits(order.Uint32(buf[4*i:]))
		}
		return out, nil
	case Complex64:
		out := make([]complex64, count)
		for i := range out {
			re := math.Float32frombits(order.Uint32(buf[8*i:]))
			im := math.Float32frombits(order.Uint32(buf[8*i+4:]))
			out[i] = complex(re, im)
		}
		return out, nil
	}
	return nil, newError(KindFormat, "decode", "data_format", "unsupported kind "+f.DType.String(), nil)
}

func readASCII(r io.Reader, t DType, count int) (any, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, newError(KindPayload, "decode", "", "reading ascii payload", err)
	}
	fields := strings.Fields(decodeText(raw))
	if len(fields) != count {
		return nil, newError(KindPayload, "decode", "", fmt.Sprintf("payload has %d of %d values", len(fields), count), nil)
	}
	bad := func(tok string, err error) error {
		return newError(KindPayload, "decode", "", "bad ascii value "+strconv.Quote(tok), err)
	}
	switch t {
	case Int32:
		out := make([]int32, count)
		for i, tok := range fields {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, bad(tok, err)
			}
			out[i] = int32(v)
		}
		return out, nil
	case Float32:
		out := make([]float32, count)
		for i, tok := range fields {
			v, err := strconv.ParseFloat(tok, 32)
			if err != nil {
				return nil, bad(tok, err)
			}
			out[i] = float32(v)
		}
		return out, nil
	case Complex64:
		out := make([]complex64, count)
		for i, tok := range fields {
			v, err := strconv.ParseComplex(tok, 64)
			if err != nil {
				return nil, bad(tok, err)
			}
			out[i] = complex64(v)
		}
		return out, nil
	}
	return nil, newError(KindFormat, "decode", "data_format", "unsupported kind "+t.String(), nil)
}

// Read decodes an array from r.
func Read(r io.Reader, opts ...DecodeOption) (*Array, error) {
	rec, err := Decode(r, opts...)
	if err != nil {
		return nil, err
	}
	return FromRecord(rec), nil
}

// ReadFile decodes the array stored at path.
func ReadFile(path string, opts ...DecodeOption) (*Array, error) {
	f, err := os.Open(path)
	if err != nil {
		e := newError(KindSource, "decode", "", "opening "+path, err)
		warnNull(e)
		return nil, e
	}
	defer f.Close()
	return Read(f, opts...)
}
