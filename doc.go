// Package rsf reads, writes and transforms RSF arrays.
//
// # Overview
//
// An RSF file is a text header of whitespace separated key=value tokens
// followed by a typed payload. The header describes up to nine regularly
// sampled axes through the keys n1..n9 (count), o1..o9 (origin), d1..d9
// (spacing), label1..label9 and unit1..unit9, plus the payload location
// (in) and encoding (data_format).
//
// # Quick Start
//
//	a, err := rsf.ReadFile("cube.rsf")
//	if err != nil {
//		// errors.Is(err, rsf.ErrNullResult) for missing keys, bad formats
//		// and unreadable payloads
//	}
//	a.Window(rsf.AxisWindow{Axis: 0, Count: 100, Stride: 2})
//	a.Transpose()
//	a.WriteFile("out.rsf", rsf.WithLayout(rsf.XDR))
//
// # Data Layout
//
// Elements are stored row-major in declared shape order, so the last axis
// varies fastest: a header with n1=3 n2=2 holds a 3x2 buffer whose rows
// are (v0, v1), (v2, v3), (v4, v5).
//
// # Axis Invariants
//
// Window, Transpose, Flip and Squeeze always leave n1..nK equal to the
// array's extents and keep o#/d# consistent with the selected samples.
//
// # Logging
//
// Soft failures (header values that fail coercion, percentiles outside
// [0,100]) and null results are reported through a log/slog logger that is
// silent by default. See SetLogger.
package rsf

// Version is the library version.
const Version = "0.3.0"
