package patch

import (
	"strings"

	rsf "github.com/cplusv2023/rsfpy"
)

// slot is a replaceable byte range of the first rendered document and the
// value currently substituted for it.
type slot struct {
	start, end int
	value      string
}

func newSlot(doc string, start, end int) *slot {
	return &slot{start: start, end: end, value: doc[start:end]}
}

// element is a tagged line or label located once in the first document.
type element struct {
	id   string
	geom *slot // path data of a line, translate() of a label
	text *slot // label content
	// offset is the label's translate() minus its anchor on the first
	// frame.
	offset Point
}

// groupBody returns the byte range between the opening tag of the group
// with the given id and its closing tag.
func groupBody(doc, id string) (int, int, bool) {
	i := strings.Index(doc, `id="`+id+`"`)
	if i < 0 {
		return 0, 0, false
	}
	open := strings.IndexByte(doc[i:], '>')
	if open < 0 {
		return 0, 0, false
	}
	start := i + open + 1
	end := strings.Index(doc[start:], "</g>")
	if end < 0 {
		return 0, 0, false
	}
	return start, start + end, true
}

// findLine locates the path data of a tagged indicator line. It returns
// nil when the group is absent; a group with unusable geometry yields an
// element without a geometry slot.
func findLine(doc, id string) *element {
	start, end, ok := groupBody(doc, id)
	if !ok {
		rsf.Logger().Warn("patch: element not found", "id", id)
		return nil
	}
	e := &element{id: id}
	m := pathDRE.FindStringSubmatchIndex(doc[start:end])
	if m == nil {
		rsf.Logger().Warn("patch: line has no path data", "id", id)
		return e
	}
	d := doc[start+m[2] : start+m[3]]
	if pts, err := ParsePoints(d); err != nil || len(pts) < 2 {
		rsf.Logger().Warn("patch: line geometry unusable, keeping it", "id", id, "d", d)
		return e
	}
	e.geom = newSlot(doc, start+m[2], start+m[3])
	return e
}

// findLabel locates the translate() and the content of a tagged label.
// anchor is where the label's own anchor lies on the first frame.
func findLabel(doc, id string, anchor *Point) *element {
	start, end, ok := groupBody(doc, id)
	if !ok {
		rsf.Logger().Warn("patch: element not found", "id", id)
		return nil
	}
	e := &element{id: id}
	body := doc[start:end]
	open := strings.Index(body, "<text")
	if open < 0 {
		rsf.Logger().Warn("patch: label has no text", "id", id)
		return e
	}
	tagEnd := strings.IndexByte(body[open:], '>')
	closeTag := strings.Index(body, "</text>")
	if tagEnd < 0 || closeTag < open+tagEnd {
		rsf.Logger().Warn("patch: label text is malformed", "id", id)
		return e
	}
	tagEnd += open
	e.text = newSlot(doc, start+tagEnd+1, start+closeTag)

	if anchor == nil {
		return e
	}
	tag := body[open:tagEnd]
	m := translateRE.FindStringIndex(tag)
	if m == nil {
		rsf.Logger().Warn("patch: label has no translate(), keeping its position", "id", id)
		return e
	}
	at, ok := parseTranslate(tag[m[0]:m[1]])
	if !ok || !at.finite() {
		rsf.Logger().Warn("patch: label position unusable, keeping it", "id", id)
		return e
	}
	e.geom = newSlot(doc, start+open+m[0], start+open+m[1])
	e.offset = at.sub(*anchor)
	return e
}

func (e *element) slots() []*slot {
	var s []*slot
	if e.geom != nil {
		s = append(s, e.geom)
	}
	if e.text != nil {
		s = append(s, e.text)
	}
	return s
}

// setLine stores new endpoints, keeping the cached path when they are not
// finite.
func (e *element) setLine(p0, p1 Point) {
	if e.geom == nil {
		return
	}
	if !p0.finite() || !p1.finite() {
		rsf.Logger().Warn("patch: non-finite line, keeping previous", "id", e.id)
		return
	}
	e.geom.value = LinePath(p0, p1)
}

// setLabel stores new label text and, when the label can move, its
// position relative to anchor.
func (e *element) setLabel(text string, anchor Point) {
	if e.text != nil {
		e.text.value = text
	}
	if e.geom == nil {
		return
	}
	at := anchor.add(e.offset)
	if !at.finite() {
		rsf.Logger().Warn("patch: non-finite label position, keeping previous", "id", e.id)
		return
	}
	e.geom.value = Translate(at)
}
