package patch

import (
	"fmt"
	"regexp"
	"strings"
)

// PNGDataPrefix starts every embedded raster payload.
const PNGDataPrefix = "data:image/png;base64,"

var (
	imageRE = regexp.MustCompile(`<image\b[^>]*?\s((?:xlink:)?href)\s*=\s*"data:image/png;base64,([^"]*)"[^>]*?/?>`)
	attrRE  = regexp.MustCompile(`([^\s=/<>"]+)\s*=\s*"([^"]*)"`)
)

// Attr is one attribute of an image element.
type Attr struct {
	Name, Value string
}

// Template is a document split around one inline raster element.
type Template struct {
	Prefix string
	Suffix string
	// Href is the name of the payload attribute ("xlink:href" or "href").
	Href string
	// Payload is the base64 PNG of the original image.
	Payload string
	// Attrs holds the remaining attributes in document order.
	Attrs []Attr
}

// imageTag is the byte range of an inline raster element.
type imageTag struct {
	start, end int
	href       string
	payload    string
	attrs      []Attr
}

func findImages(doc string) []imageTag {
	var tags []imageTag
	for _, m := range imageRE.FindAllStringSubmatchIndex(doc, -1) {
		tag := doc[m[0]:m[1]]
		t := imageTag{start: m[0], end: m[1], href: doc[m[2]:m[3]], payload: doc[m[4]:m[5]]}
		for _, a := range attrRE.FindAllStringSubmatch(tag, -1) {
			if a[1] == t.href {
				continue
			}
			t.attrs = append(t.attrs, Attr{Name: a[1], Value: a[2]})
		}
		tags = append(tags, t)
	}
	return tags
}

// ExtractTemplate splits doc around its i-th inline PNG image (0-based).
// A document with fewer images is a structural mismatch.
func ExtractTemplate(doc string, i int) (*Template, error) {
	tags := findImages(doc)
	if i < 0 || i >= len(tags) {
		return nil, mismatch(fmt.Sprintf("inline image %d not found (%d present)", i, len(tags)))
	}
	t := tags[i]
	return &Template{
		Prefix:  doc[:t.start],
		Suffix:  doc[t.end:],
		Href:    t.href,
		Payload: t.payload,
		Attrs:   t.attrs,
	}, nil
}

// Get returns the value of the named attribute.
func (t *Template) Get(name string) (string, bool) {
	return getAttr(t.Attrs, name)
}

// Set replaces or appends an attribute.
func (t *Template) Set(name, value string) {
	t.Attrs = setAttr(t.Attrs, name, value)
}

// Tag returns an image element carrying the base64 PNG payload.
func (t *Template) Tag(payload string) string {
	return imageElement(t.Href, t.Attrs, payload)
}

// Render returns the full document with payload in place of the
// original image.
func (t *Template) Render(payload string) string {
	return t.Prefix + t.Tag(payload) + t.Suffix
}

func imageElement(href string, attrs []Attr, payload string) string {
	if href == "" {
		href = "xlink:href"
	}
	var b strings.Builder
	b.Grow(len(payload) + 64*len(attrs) + 64)
	b.WriteString("<image ")
	b.WriteString(href)
	b.WriteString(`="`)
	b.WriteString(PNGDataPrefix)
	b.WriteString(payload)
	b.WriteByte('"')
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(a.Value)
		b.WriteByte('"')
	}
	if _, ok := getAttr(attrs, "preserveAspectRatio"); !ok {
		b.WriteString(` preserveAspectRatio="none"`)
	}
	b.WriteString("/>")
	return b.String()
}

func getAttr(attrs []Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func setAttr(attrs []Attr, name, value string) []Attr {
	for i := range attrs {
		if attrs[i].Name == name {
			attrs[i].Value = value
			return attrs
		}
	}
	return append(attrs, Attr{Name: name, Value: value})
}
