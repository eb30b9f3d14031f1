package patch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	anchorRE = regexp.MustCompile(`<g\b[^>]*?\sid="RSFPY_AX([1-9])_RECT_([^"_]+)_([^"_]+)_([^"_]+)_([^"_]+)"[^>]*>`)
	pathDRE  = regexp.MustCompile(`<path\b[^>]*?\sd="([^"]*)"`)
)

// FindPanel locates the axis rectangle anchor of panel index in doc,
// reads the data bounds from its identifier and measures the enclosed
// outline. A missing anchor, an outline with fewer than four points or
// degenerate geometry is a structural mismatch.
func FindPanel(doc string, index int) (*Panel, error) {
	for _, m := range anchorRE.FindAllStringSubmatchIndex(doc, -1) {
		if n, _ := strconv.Atoi(doc[m[2]:m[3]]); n != index {
			continue
		}
		var vals [4]float64
		for i := range vals {
			s := doc[m[4+2*i]:m[5+2*i]]
			v, ok := parseNumber(s)
			if !ok {
				return nil, mismatch(fmt.Sprintf("panel %d: bad anchor bound %q", index, s))
			}
			vals[i] = v
		}
		body := doc[m[1]:]
		if end := strings.Index(body, "</g>"); end >= 0 {
			body = body[:end]
		}
		pm := pathDRE.FindStringSubmatch(body)
		if pm == nil {
			return nil, mismatch(fmt.Sprintf("panel %d: anchor has no outline path", index))
		}
		pts, err := ParsePoints(pm[1])
		if err != nil {
			return nil, mismatch(fmt.Sprintf("panel %d: outline: %v", index, err))
		}
		if len(pts) < 4 {
			return nil, mismatch(fmt.Sprintf("panel %d: outline has %d points, want 4", index, len(pts)))
		}
		b := Bounds{Left: vals[0], Right: vals[1], Bottom: vals[2], Top: vals[3]}
		return NewPanel(index, b, [4]Point{pts[0], pts[1], pts[2], pts[3]})
	}
	return nil, mismatch(fmt.Sprintf("anchor for panel %d not found", index))
}
