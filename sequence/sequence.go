// Package sequence reads and writes multi-frame documents: per-frame SVG
// documents concatenated behind comment markers that carry a frame label.
//
//	<!-- RSFPY_SPLIT framelabel="Depth (m): 120 of 500"-->
//	<svg ...>...</svg>
package sequence

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	rsf "github.com/cplusv2023/rsfpy"
)

// Marker starts every frame's splitter comment.
const Marker = "<!-- RSFPY_SPLIT"

// SingleFile labels the only frame of a document without markers.
const SingleFile = "Single file"

const labelAttr = `framelabel="`

// Frame is one document of a sequence.
type Frame struct {
	Label string
	Doc   string
}

// Splitter returns the comment written before a frame. Double quotes in
// label become single quotes and runs of '-' collapse to one, since a
// comment may not contain "--".
func Splitter(label string) string {
	label = strings.ReplaceAll(label, `"`, "'")
	for strings.Contains(label, "--") {
		label = strings.ReplaceAll(label, "--", "-")
	}
	return Marker + " " + labelAttr + label + `"-->`
}

// FrameLabel formats "label (unit): value of last". The unit part is
// omitted when unit is empty.
func FrameLabel(label, unit string, value, last float64) string {
	prefix := label
	if unit != "" {
		prefix += " (" + unit + ")"
	}
	return prefix + ": " + strconv.FormatFloat(value, 'g', -1, 64) + " of " + strconv.FormatFloat(last, 'g', -1, 64)
}

// Writer appends frames to an output stream. Every frame is flushed
// before WriteFrame returns, so stopping early never leaves a partial
// frame behind.
type Writer struct {
	w *bufio.Writer
	n int
}

// NewWriter returns a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteFrame writes the splitter for label followed by doc.
func (w *Writer) WriteFrame(label, doc string) error {
	w.w.WriteByte('\n')
	w.w.WriteString(Splitter(label))
	w.w.WriteByte('\n')
	w.w.WriteString(doc)
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("sequence: frame %d: %w", w.n, err)
	}
	rsf.Logger().Debug("sequence: frame written", "frame", w.n, "label", label, "bytes", len(doc))
	w.n++
	return nil
}

// Count returns the number of frames written.
func (w *Writer) Count() int { return w.n }

// Split parses a whole multi-frame document. Text before the first
// marker is ignored; a document without markers is a single frame
// labelled SingleFile. Empty segments are skipped and unlabelled frames
// are called "Frame N".
func Split(content string) []Frame {
	if !strings.Contains(content, Marker) {
		return []Frame{{Label: SingleFile, Doc: content}}
	}
	parts := strings.Split(content, Marker)
	var frames []Frame
	for _, seg := range parts[1:] {
		if f, ok := parseSegment(seg, len(frames)); ok {
			frames = append(frames, f)
		}
	}
	return frames
}

// parseSegment reads the text following a marker.
func parseSegment(seg string, n int) (Frame, bool) {
	end := strings.Index(seg, "-->")
	if end < 0 {
		return Frame{}, false
	}
	doc := strings.TrimSpace(seg[end+3:])
	if doc == "" {
		return Frame{}, false
	}
	label := fmt.Sprintf("Frame %d", n)
	head := seg[:end]
	if i := strings.Index(head, labelAttr); i >= 0 {
		rest := head[i+len(labelAttr):]
		if j := strings.IndexByte(rest, '"'); j > 0 {
			label = rest[:j]
		}
	}
	return Frame{Label: label, Doc: doc}, true
}

// MaxFrameSize bounds the size of one frame read by a Reader.
const MaxFrameSize = 256 << 20

var marker = []byte(Marker)

// ScanFrames is a bufio.SplitFunc returning one marker-led segment per
// token. Text before the first marker is returned as a token of its own.
func ScanFrames(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if len(data) > 1 {
		if i := bytes.Index(data[1:], marker); i >= 0 {
			return i + 1, data[:i+1], nil
		}
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Reader streams the frames of a multi-frame document.
type Reader struct {
	sc      *bufio.Scanner
	n       int
	started bool
	pending []byte
	frame   Frame
}

// NewReader returns a Reader on r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), MaxFrameSize)
	sc.Split(ScanFrames)
	return &Reader{sc: sc}
}

// Next advances to the next frame and reports whether there is one.
func (r *Reader) Next() bool {
	for {
		tok, ok := r.token()
		if !ok {
			return false
		}
		first := !r.started
		r.started = true
		if !bytes.HasPrefix(tok, marker) {
			if !first {
				continue
			}
			// A leading token without a marker is a preamble, or the
			// whole document when no marker follows.
			tok = bytes.Clone(tok)
			if r.sc.Scan() {
				r.pending = r.sc.Bytes()
				continue
			}
			if r.sc.Err() != nil || len(bytes.TrimSpace(tok)) == 0 {
				return false
			}
			r.frame = Frame{Label: SingleFile, Doc: string(tok)}
			r.n++
			return true
		}
		if f, ok := parseSegment(string(tok[len(marker):]), r.n); ok {
			r.frame = f
			r.n++
			return true
		}
	}
}

func (r *Reader) token() ([]byte, bool) {
	if r.pending != nil {
		tok := r.pending
		r.pending = nil
		return tok, true
	}
	if !r.sc.Scan() {
		return nil, false
	}
	return r.sc.Bytes(), true
}

// Frame returns the frame read by the last successful Next.
func (r *Reader) Frame() Frame { return r.frame }

// Err returns the first read error.
func (r *Reader) Err() error { return r.sc.Err() }
