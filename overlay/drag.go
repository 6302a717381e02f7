package overlay

import (
	"github.com/google/uuid"

	"stampkit/coords"
	"stampkit/observability"
	"stampkit/placement"
	"stampkit/snap"
)

// BeginDrag grabs a placement under a display-space pointer. The offset
// between pointer and element origin is kept so the element does not
// jump to the cursor on the first move.
func (c *Controller) BeginDrag(id string, pointer coords.Point) error {
	if err := c.requireIdle(); err != nil {
		return err
	}
	p, err := c.editable(id)
	if err != nil {
		return err
	}
	disp := c.view.RectToDisplay(p.Rect(c.table, c.view.PageHeight))
	c.op = operation{
		kind:   opDrag,
		id:     uuid.New(),
		target: id,
		revert: p.Anchor,
		grabDX: pointer.X - disp.X,
		grabDY: pointer.Y - disp.Y,
	}
	c.log.Debug("drag begin",
		observability.String("op", c.op.id.String()),
		observability.String("placement", id))
	return nil
}

// DragTo moves the grabbed element under the pointer and resolves the
// result through the snap engine. Cell-anchored elements convert to
// free rectangles on the first move. The returned guides are valid for
// this move only.
func (c *Controller) DragTo(pointer coords.Point) (snap.Guides, error) {
	if c.op.kind != opDrag {
		return snap.Guides{}, ErrNoOperation
	}
	p, err := c.editable(c.op.target)
	if err != nil {
		return snap.Guides{}, err
	}
	rect := p.Rect(c.table, c.view.PageHeight)
	origin := c.view.ToDocument(coords.Point{
		X: pointer.X - c.op.grabDX,
		Y: pointer.Y - c.op.grabDY,
	}, rect.H)

	res := c.engine.Resolve(c.scene(), snap.Request{
		Pos:     origin,
		Size:    rect.Dim(),
		Linked:  p.Linked,
		Exclude: p.ID,
		Mode:    snap.ModeDrag,
	})
	free := placement.FreeAnchor{R: coords.Rect{X: res.Pos.X, Y: res.Pos.Y, W: rect.W, H: rect.H}}
	if err := c.store.SetAnchor(p.ID, free); err != nil {
		return snap.Guides{}, err
	}
	return res.Guides, nil
}

// EndDrag commits the drag at the element's current position.
func (c *Controller) EndDrag() error {
	if c.op.kind != opDrag {
		return ErrNoOperation
	}
	c.log.Debug("drag end",
		observability.String("op", c.op.id.String()),
		observability.String("placement", c.op.target))
	c.op = operation{}
	return nil
}

// CancelDrag aborts the drag and restores the anchor held at BeginDrag,
// cell binding included.
func (c *Controller) CancelDrag() error {
	if c.op.kind != opDrag {
		return ErrNoOperation
	}
	err := c.store.SetAnchor(c.op.target, c.op.revert)
	c.op = operation{}
	return err
}
