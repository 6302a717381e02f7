package overlay

import (
	"math"

	"github.com/google/uuid"

	"stampkit/coords"
	"stampkit/observability"
	"stampkit/placement"
)

// Handle names one of the eight grips around an element or crop frame.
type Handle int

const (
	HandleN Handle = iota
	HandleNE
	HandleE
	HandleSE
	HandleS
	HandleSW
	HandleW
	HandleNW
)

func (h Handle) String() string {
	switch h {
	case HandleN:
		return "n"
	case HandleNE:
		return "ne"
	case HandleE:
		return "e"
	case HandleSE:
		return "se"
	case HandleS:
		return "s"
	case HandleSW:
		return "sw"
	case HandleW:
		return "w"
	case HandleNW:
		return "nw"
	}
	return "unknown"
}

// Document space runs bottom-up, so the north edge is the far Y edge
// and dragging a south handle moves the rectangle's origin.
func (h Handle) north() bool { return h == HandleN || h == HandleNE || h == HandleNW }
func (h Handle) south() bool { return h == HandleS || h == HandleSE || h == HandleSW }
func (h Handle) east() bool  { return h == HandleE || h == HandleNE || h == HandleSE }
func (h Handle) west() bool  { return h == HandleW || h == HandleNW || h == HandleSW }

func (h Handle) corner() bool {
	return h == HandleNE || h == HandleSE || h == HandleSW || h == HandleNW
}

// resizeRect applies a document-space pointer delta to one handle of
// start. The opposite corner or edge stays fixed. With aspect set, both
// dimensions scale by the axis that moved the least. min is enforced by
// growing back toward the moving side.
func resizeRect(start coords.Rect, h Handle, dx, dy float64, aspect bool, min float64) coords.Rect {
	r := start
	if h.east() {
		r.W = start.W + dx
	}
	if h.west() {
		r.X = start.X + dx
		r.W = start.W - dx
	}
	if h.north() {
		r.H = start.H + dy
	}
	if h.south() {
		r.Y = start.Y + dy
		r.H = start.H - dy
	}

	if aspect && h.corner() && start.W > 0 && start.H > 0 {
		sx := r.W / start.W
		sy := r.H / start.H
		s := sx
		if math.Abs(sy-1) < math.Abs(sx-1) {
			s = sy
		}
		r.W = start.W * s
		r.H = start.H * s
		if h.west() {
			r.X = start.MaxX() - r.W
		} else {
			r.X = start.X
		}
		if h.south() {
			r.Y = start.MaxY() - r.H
		} else {
			r.Y = start.Y
		}
	}

	if r.W < min {
		if h.west() {
			r.X = start.MaxX() - min
		}
		r.W = min
	}
	if r.H < min {
		if h.south() {
			r.Y = start.MaxY() - min
		}
		r.H = min
	}
	return r
}

// BeginResize grabs one handle of a placement. pointer is the
// display-space position where the grip was taken.
func (c *Controller) BeginResize(id string, h Handle, pointer coords.Point) error {
	if err := c.requireIdle(); err != nil {
		return err
	}
	p, err := c.editable(id)
	if err != nil {
		return err
	}
	c.op = operation{
		kind:      opResize,
		id:        uuid.New(),
		target:    id,
		revert:    p.Anchor,
		handle:    h,
		startRect: p.Rect(c.table, c.view.PageHeight),
		startPtr:  c.view.ToDocument(pointer, 0),
	}
	c.log.Debug("resize begin",
		observability.String("op", c.op.id.String()),
		observability.String("placement", id),
		observability.String("handle", h.String()))
	return nil
}

// ResizeTo stretches the grabbed handle to the pointer. Corner handles
// keep the aspect ratio unless freeAspect is set; edge handles always
// move a single axis. Geometry that would leave the page loses the
// overflowing extent. Resizing never snaps.
func (c *Controller) ResizeTo(pointer coords.Point, freeAspect bool) error {
	if c.op.kind != opResize {
		return ErrNoOperation
	}
	if _, err := c.editable(c.op.target); err != nil {
		return err
	}
	ptr := c.view.ToDocument(pointer, 0)
	aspect := !freeAspect && c.op.handle.corner()
	r := resizeRect(c.op.startRect, c.op.handle,
		ptr.X-c.op.startPtr.X, ptr.Y-c.op.startPtr.Y,
		aspect, placement.MinSize)
	r = r.Intersect(c.view.Bounds())
	return c.store.SetAnchor(c.op.target, placement.FreeAnchor{R: r})
}

// EndResize commits the resize at the element's current geometry.
func (c *Controller) EndResize() error {
	if c.op.kind != opResize {
		return ErrNoOperation
	}
	c.log.Debug("resize end",
		observability.String("op", c.op.id.String()),
		observability.String("placement", c.op.target))
	c.op = operation{}
	return nil
}

// CancelResize aborts the resize and restores the anchor held at
// BeginResize.
func (c *Controller) CancelResize() error {
	if c.op.kind != opResize {
		return ErrNoOperation
	}
	err := c.store.SetAnchor(c.op.target, c.op.revert)
	c.op = operation{}
	return err
}
