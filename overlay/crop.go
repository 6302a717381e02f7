package overlay

import (
	"github.com/google/uuid"

	"stampkit/coords"
	"stampkit/observability"
	"stampkit/placement"
)

// BeginCrop opens a crop frame over a placement. The frame starts as
// the element's full rectangle and is adjusted through the same eight
// handles as a resize. No other gesture may run until the crop is
// applied or cancelled.
func (c *Controller) BeginCrop(id string) error {
	if err := c.requireIdle(); err != nil {
		return err
	}
	p, err := c.editable(id)
	if err != nil {
		return err
	}
	rect := p.Rect(c.table, c.view.PageHeight)
	c.op = operation{
		kind:     opCrop,
		id:       uuid.New(),
		target:   id,
		revert:   p.Anchor,
		cropRect: rect,
		baseRect: rect,
	}
	c.log.Debug("crop begin",
		observability.String("op", c.op.id.String()),
		observability.String("placement", id))
	return nil
}

// PressCropHandle grabs one handle of the open crop frame.
func (c *Controller) PressCropHandle(h Handle, pointer coords.Point) error {
	if c.op.kind != opCrop {
		return ErrNoOperation
	}
	c.op.cropHeld = true
	c.op.cropHandle = h
	c.op.cropStart = c.op.cropRect
	c.op.cropPtr = c.view.ToDocument(pointer, 0)
	return nil
}

// MoveCropHandle drags the held handle. The frame never leaves the
// element it crops and never shrinks below MinCropSize. Crop framing
// has no aspect lock and no snapping.
func (c *Controller) MoveCropHandle(pointer coords.Point) error {
	if c.op.kind != opCrop || !c.op.cropHeld {
		return ErrNoOperation
	}
	ptr := c.view.ToDocument(pointer, 0)
	r := resizeRect(c.op.cropStart, c.op.cropHandle,
		ptr.X-c.op.cropPtr.X, ptr.Y-c.op.cropPtr.Y,
		false, MinCropSize)
	c.op.cropRect = r.Intersect(c.op.baseRect)
	return nil
}

// ReleaseCropHandle lets go of the held handle, keeping the frame where
// it is. The crop stays open for further adjustment.
func (c *Controller) ReleaseCropHandle() error {
	if c.op.kind != opCrop {
		return ErrNoOperation
	}
	c.op.cropHeld = false
	return nil
}

// CropRect returns the current frame while a crop is open.
func (c *Controller) CropRect() (coords.Rect, bool) {
	if c.op.kind != opCrop {
		return coords.Rect{}, false
	}
	return c.op.cropRect, true
}

// ApplyCrop commits the frame as the element's new rectangle and closes
// the crop.
func (c *Controller) ApplyCrop() error {
	if c.op.kind != opCrop {
		return ErrNoOperation
	}
	if _, err := c.editable(c.op.target); err != nil {
		return err
	}
	target, rect := c.op.target, c.op.cropRect
	c.op = operation{}
	c.log.Debug("crop applied",
		observability.String("placement", target),
		observability.Float64("w", rect.W),
		observability.Float64("h", rect.H))
	return c.store.SetAnchor(target, placement.FreeAnchor{R: rect})
}

// CancelCrop discards the frame and closes the crop. The element keeps
// the geometry it had at BeginCrop.
func (c *Controller) CancelCrop() error {
	if c.op.kind != opCrop {
		return ErrNoOperation
	}
	c.op = operation{}
	return nil
}
