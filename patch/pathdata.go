package patch

import (
	"fmt"
	"math"
	"regexp"
	stdstrconv "strconv"
	"strings"

	"github.com/tdewolff/parse/v2/strconv"
)

// Point is a canvas position.
type Point struct {
	X, Y float64
}

func (p Point) add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// ParsePoints returns the vertices of SVG path data made of M, L, H, V and
// Z commands, absolute or relative. Z adds no vertex.
func ParsePoints(d string) ([]Point, error) {
	path := []byte(d)
	var pts []Point
	var cur, start Point
	cmd := byte(0)
	i := skipSpace(path, 0)
	for i < len(path) {
		c := path[i]
		if isCommand(c) {
			cmd = c
			i = skipSpace(path, i+1)
			if cmd == 'Z' || cmd == 'z' {
				cur = start
				continue
			}
		} else if cmd == 0 || cmd == 'Z' || cmd == 'z' {
			return nil, fmt.Errorf("bad path: unexpected %q at position %d", c, i+1)
		}

		var f [2]float64
		args := 2
		if cmd == 'H' || cmd == 'h' || cmd == 'V' || cmd == 'v' {
			args = 1
		}
		for j := range args {
			num, n := strconv.ParseFloat(path[i:])
			if n == 0 {
				return nil, fmt.Errorf("bad path: number should follow command '%c' at position %d", cmd, i+1)
			}
			f[j] = num
			i = skipSpace(path, i+n)
		}

		switch cmd {
		case 'M', 'L':
			cur = Point{f[0], f[1]}
		case 'm', 'l':
			cur = cur.add(Point{f[0], f[1]})
		case 'H':
			cur.X = f[0]
		case 'h':
			cur.X += f[0]
		case 'V':
			cur.Y = f[0]
		case 'v':
			cur.Y += f[0]
		}
		if cmd == 'M' || cmd == 'm' {
			start = cur
			// Further pairs after a moveto are implicit linetos.
			cmd -= 'M' - 'L'
		}
		pts = append(pts, cur)
	}
	return pts, nil
}

func isCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'Z', 'z':
		return true
	}
	return false
}

func skipSpace(b []byte, i int) int {
	for i < len(b) && (b[i] == ' ' || b[i] == ',' || b[i] == '\n' || b[i] == '\r' || b[i] == '\t') {
		i++
	}
	return i
}

// parseNumber parses all of s as a number.
func parseNumber(s string) (float64, bool) {
	v, n := strconv.ParseFloat([]byte(s))
	return v, n > 0 && n == len(s)
}

// FormatCoord formats a canvas coordinate with at most three decimals.
func FormatCoord(v float64) string { return trimmed(v, 3) }

// FormatValue formats a data coordinate for a frame label.
func FormatValue(v float64) string { return trimmed(v, 6) }

func trimmed(v float64, prec int) string {
	s := stdstrconv.FormatFloat(v, 'f', prec, 64)
	s = strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// LinePath returns "M x0 y0 L x1 y1".
func LinePath(p0, p1 Point) string {
	return "M " + FormatCoord(p0.X) + " " + FormatCoord(p0.Y) +
		" L " + FormatCoord(p1.X) + " " + FormatCoord(p1.Y)
}

// OutlinePath returns a closed path through the four corners.
func OutlinePath(c [4]Point) string {
	var b strings.Builder
	for i, p := range c {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		b.WriteString(FormatCoord(p.X))
		b.WriteByte(' ')
		b.WriteString(FormatCoord(p.Y))
	}
	b.WriteString(" Z")
	return b.String()
}

// Translate returns "translate(x y)".
func Translate(p Point) string {
	return "translate(" + FormatCoord(p.X) + " " + FormatCoord(p.Y) + ")"
}

var translateRE = regexp.MustCompile(`translate\(\s*([^\s,)]+)(?:[\s,]+([^\s,)]+))?\s*\)`)

// parseTranslate extracts the offset of the first translate() in s. A
// missing y is 0.
func parseTranslate(s string) (Point, bool) {
	m := translateRE.FindStringSubmatch(s)
	if m == nil {
		return Point{}, false
	}
	x, ok := parseNumber(m[1])
	if !ok {
		return Point{}, false
	}
	var y float64
	if m[2] != "" {
		if y, ok = parseNumber(m[2]); !ok {
			return Point{}, false
		}
	}
	return Point{x, y}, true
}

// Matrix returns "matrix(a b c d e f)" for the affine x' = a*x + c*y + e,
// y' = b*x + d*y + f.
func Matrix(a, b, c, d, e, f float64) string {
	return "matrix(" + strings.Join([]string{
		trimmed(a, 6), trimmed(b, 6), trimmed(c, 6), trimmed(d, 6),
		FormatCoord(e), FormatCoord(f),
	}, " ") + ")"
}
