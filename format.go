package rsf

import (
	"encoding/binary"
	"strings"
)

// Layout is the payload encoding named by the first half of data_format.
type Layout uint8

const (
	Native Layout = iota // host byte order binary
	ASCII                // whitespace separated text
	XDR                  // big-endian binary
)

var layoutNames = [...]string{"native", "ascii", "xdr"}

func (l Layout) String() string {
	if int(l) < len(layoutNames) {
		return layoutNames[l]
	}
	return "invalid"
}

// byteOrder returns the binary order of the layout. ASCII has none.
func (l Layout) byteOrder() binary.ByteOrder {
	switch l {
	case Native:
		return binary.NativeEndian
	case XDR:
		return binary.BigEndian
	}
	return nil
}

// DataFormat is a parsed data_format value such as "xdr_float".
type DataFormat struct {
	Layout Layout
	DType  DType
}

func (f DataFormat) String() string {
	return f.Layout.String() + "_" + f.DType.String()
}

// ParseLayout parses "native", "ascii" or "xdr".
func ParseLayout(s string) (Layout, error) {
	for i, name := range layoutNames {
		if s == name {
			return Layout(i), nil
		}
	}
	return 0, newError(KindFormat, "data_format", "data_format", "unsupported layout "+s, nil)
}

// ParseDataFormat parses "{native|ascii|xdr}_{int|float|complex}".
func ParseDataFormat(s string) (DataFormat, error) {
	layout, kind, ok := strings.Cut(s, "_")
	if !ok {
		return DataFormat{}, newError(KindFormat, "data_format", "data_format", "invalid data_format "+s, nil)
	}
	l, err := ParseLayout(layout)
	if err != nil {
		return DataFormat{}, err
	}
	f := DataFormat{Layout: l}
	switch kind {
	case "int":
		f.DType = Int32
	case "float":
		f.DType = Float32
	case "complex":
		f.DType = Complex64
	default:
		return DataFormat{}, newError(KindFormat, "data_format", "data_format", "unsupported kind "+kind, nil)
	}
	return f, nil
}
