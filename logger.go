package rsf

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discard drops every record; Enabled is false so no attributes are built.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (discard) WithAttrs([]slog.Attr) slog.Handler        { return discard{} }
func (discard) WithGroup(string) slog.Handler             { return discard{} }

var (
	silent = slog.New(discard{})
	active atomic.Pointer[slog.Logger]
)

func init() { active.Store(silent) }

// SetLogger installs the logger shared by rsf, raster, patch and sequence.
// Nothing is logged until it is called; nil restores that state. It may be
// called while other goroutines are decoding.
//
// Warn records soft failures: header values kept as text, unknown
// colormaps, clip percentiles outside [0,100], reads that produced no
// data, and frame elements whose geometry could not be used. Debug
// records template caching and frames written.
//
//	rsf.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	active.Store(l)
}

// Logger returns the logger installed by SetLogger.
func Logger() *slog.Logger { return active.Load() }

// warnNull logs an error that ended a read with no data.
func warnNull(err error) {
	Logger().Warn("rsf: no data read", "err", err)
}

// LogValue groups the fields of e so handlers can filter on kind and key.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("kind", e.Kind.String())}
	if e.Op != "" {
		attrs = append(attrs, slog.String("op", e.Op))
	}
	if e.Key != "" {
		attrs = append(attrs, slog.String("key", e.Key))
	}
	attrs = append(attrs, slog.String("msg", e.Msg))
	if e.Err != nil {
		attrs = append(attrs, slog.String("cause", e.Err.Error()))
	}
	return slog.GroupValue(attrs...)
}
