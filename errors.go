package rsf

import (
	"errors"
	"strings"
)

// ErrNullResult is matched (via errors.Is) by every error that means
// "no data was produced": missing required keys, unreadable sources,
// unsupported encodings and malformed payloads. Callers decide the fallback.
var ErrNullResult = errors.New("rsf: no data produced")

// ErrorKind classifies an Error.
type ErrorKind uint8

const (
	// KindCoercion is a header value that could not be converted to the
	// type its key requires. It is recoverable: the raw text is kept.
	KindCoercion ErrorKind = iota + 1

	// KindMissingKey is a required header key ("in", "data_format") that
	// is absent.
	KindMissingKey

	// KindShape means no n1 key was found, or a dimension is not positive.
	KindShape

	// KindFormat is an unsupported or malformed data_format.
	KindFormat

	// KindSource is a header or payload source that could not be opened.
	KindSource

	// KindPayload is a payload whose size or tokens do not match the header.
	KindPayload

	// KindArgument is an invalid argument to an array operation.
	KindArgument
)

var kindNames = [...]string{
	KindCoercion:   "coercion",
	KindMissingKey: "missing key",
	KindShape:      "shape",
	KindFormat:     "format",
	KindSource:     "source",
	KindPayload:    "payload",
	KindArgument:   "argument",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// NullResult reports whether errors of this kind mean no data was produced.
func (k ErrorKind) NullResult() bool {
	switch k {
	case KindMissingKey, KindShape, KindFormat, KindSource, KindPayload:
		return true
	}
	return false
}

// Error is the structured error returned by header, codec and array
// operations.
type Error struct {
	Kind ErrorKind
	Op   string // operation, e.g. "decode", "window"
	Key  string // header key involved, if any
	Msg  string
	Err  error // underlying cause, may be nil
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("rsf: ")
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Key != "" {
		b.WriteString(e.Key)
		b.WriteString(": ")
	}
	b.WriteString(e.Msg)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes null-result errors match ErrNullResult.
func (e *Error) Is(target error) bool {
	return target == ErrNullResult && e.Kind.NullResult()
}

func newError(kind ErrorKind, op, key, msg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Key: key, Msg: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
