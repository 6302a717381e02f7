// Package coords converts between document space and display space.
//
// Document space has its origin at the bottom-left corner of the page and
// is unscaled. Display space has its origin at the top-left corner and is
// multiplied by the viewer zoom factor. Rectangles keep their origin in
// the corner nearest the space origin, so converting a position needs the
// element height to flip the vertical axis.
package coords

// Point is a position in document or display space.
type Point struct{ X, Y float64 }

// Size is an element extent.
type Size struct{ W, H float64 }

// Rect is an axis-aligned rectangle. In document space the origin is the
// bottom-left corner; in display space it is the top-left corner.
type Rect struct{ X, Y, W, H float64 }

func (r Rect) MaxX() float64 { return r.X + r.W }
func (r Rect) MaxY() float64 { return r.Y + r.H }
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }
func (r Rect) Dim() Size     { return Size{W: r.W, H: r.H} }

// Center returns the midpoint.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Inset returns r shrunk by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// Contains reports whether p lies inside r. Near edges are inclusive,
// far edges exclusive, so adjacent rectangles never claim the same point.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

// Intersects reports whether r and o overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.MaxX() && o.X < r.MaxX() && r.Y < o.MaxY() && o.Y < r.MaxY()
}

// Intersect returns the region shared by r and o, or the zero Rect when
// they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x, y := r.X, r.Y
	if o.X > x {
		x = o.X
	}
	if o.Y > y {
		y = o.Y
	}
	maxX, maxY := r.MaxX(), r.MaxY()
	if o.MaxX() < maxX {
		maxX = o.MaxX()
	}
	if o.MaxY() < maxY {
		maxY = o.MaxY()
	}
	if maxX <= x || maxY <= y {
		return Rect{}
	}
	return Rect{X: x, Y: y, W: maxX - x, H: maxY - y}
}

// Clamp returns r shifted into bounds, shrinking it first when it is
// larger than bounds on an axis. The result always lies inside bounds.
func (r Rect) Clamp(bounds Rect) Rect {
	if r.W > bounds.W {
		r.W = bounds.W
	}
	if r.H > bounds.H {
		r.H = bounds.H
	}
	if r.X < bounds.X {
		r.X = bounds.X
	}
	if r.MaxX() > bounds.MaxX() {
		r.X = bounds.MaxX() - r.W
	}
	if r.Y < bounds.Y {
		r.Y = bounds.Y
	}
	if r.MaxY() > bounds.MaxY() {
		r.Y = bounds.MaxY() - r.H
	}
	return r
}

// minScale guards against a zero zoom factor from a host mid-gesture.
const minScale = 1e-9

// Viewport describes the rendered page: document-space dimensions plus
// the display zoom factor.
type Viewport struct {
	PageWidth  float64
	PageHeight float64
	Scale      float64
}

// NewViewport builds a viewport, clamping the scale to a positive minimum.
func NewViewport(pageWidth, pageHeight, scale float64) Viewport {
	if scale < minScale {
		scale = minScale
	}
	return Viewport{PageWidth: pageWidth, PageHeight: pageHeight, Scale: scale}
}

// Bounds returns the page rectangle in document space.
func (v Viewport) Bounds() Rect {
	return Rect{X: 0, Y: 0, W: v.PageWidth, H: v.PageHeight}
}

// ToDisplay converts a document-space element origin to display space.
// elemHeight is the element height in document units.
func (v Viewport) ToDisplay(p Point, elemHeight float64) Point {
	return Point{
		X: p.X * v.Scale,
		Y: (v.PageHeight - p.Y - elemHeight) * v.Scale,
	}
}

// ToDocument converts a display-space element origin back to document
// space. It is the exact inverse of ToDisplay for the same elemHeight.
func (v Viewport) ToDocument(p Point, elemHeight float64) Point {
	return Point{
		X: p.X / v.Scale,
		Y: v.PageHeight - p.Y/v.Scale - elemHeight,
	}
}

// RectToDisplay converts a document-space rectangle to display space.
func (v Viewport) RectToDisplay(r Rect) Rect {
	o := v.ToDisplay(Point{X: r.X, Y: r.Y}, r.H)
	return Rect{X: o.X, Y: o.Y, W: r.W * v.Scale, H: r.H * v.Scale}
}

// RectToDocument converts a display-space rectangle to document space.
func (v Viewport) RectToDocument(r Rect) Rect {
	w := r.W / v.Scale
	h := r.H / v.Scale
	o := v.ToDocument(Point{X: r.X, Y: r.Y}, h)
	return Rect{X: o.X, Y: o.Y, W: w, H: h}
}
