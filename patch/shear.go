package patch

import "golang.org/x/image/math/f64"

// Sheared reports whether the outline is a parallelogram rather than an
// axis-aligned rectangle.
func (p *Panel) Sheared() bool {
	return p.ex.Y != 0 || p.ey.X != 0
}

// Shear returns the horizontal and vertical shear factors of the outline:
// the canvas x drift per unit of height and the y drift per unit of width.
func (p *Panel) Shear() (kx, ky float64) {
	if p.ey.Y != 0 {
		kx = p.ey.X / p.ey.Y
	}
	if p.ex.X != 0 {
		ky = p.ex.Y / p.ex.X
	}
	return kx, ky
}

// ImageTransform maps the unit square of an image element (x right, y
// down, row 0 at the data top) onto the panel outline.
func (p *Panel) ImageTransform() f64.Aff3 {
	top := p.origin.add(p.ey)
	return f64.Aff3{
		p.ex.X, -p.ey.X, top.X,
		p.ex.Y, -p.ey.Y, top.Y,
	}
}

// TransformAttr formats ImageTransform as an SVG transform attribute
// value.
func (p *Panel) TransformAttr() string {
	m := p.ImageTransform()
	return Matrix(m[0], m[3], m[1], m[4], m[2], m[5])
}
