package overlay

import (
	"errors"
	"testing"

	"stampkit/coords"
	"stampkit/layout"
	"stampkit/placement"
)

func putFreeSignature(t *testing.T, c *Controller, r coords.Rect) string {
	t.Helper()
	id := c.store.NextFreeSignatureID()
	c.store.Put(&placement.Placement{
		ID:     id,
		Kind:   placement.KindFreeSignature,
		Anchor: placement.FreeAnchor{R: r},
	})
	return id
}

func TestResizeCornerFreeAspect(t *testing.T) {
	c, _ := newTestController(t)
	id := putFreeSignature(t, c, coords.Rect{X: 200, Y: 300, W: 100, H: 100})

	// Grab the south-east corner and pull it 10 right, 10 down.
	if err := c.BeginResize(id, HandleSE, displayPoint(c.view, 300, 300)); err != nil {
		t.Fatalf("BeginResize failed: %v", err)
	}
	if err := c.ResizeTo(displayPoint(c.view, 310, 290), true); err != nil {
		t.Fatalf("ResizeTo failed: %v", err)
	}
	if err := c.EndResize(); err != nil {
		t.Fatalf("EndResize failed: %v", err)
	}

	// Both axes grow; the north-west corner (200, 400) stays put.
	wantRect(t, placedRect(t, c, id), coords.Rect{X: 200, Y: 290, W: 110, H: 110})
}

func TestResizeCornerAspectLocked(t *testing.T) {
	c, _ := newTestController(t)
	id := putFreeSignature(t, c, coords.Rect{X: 150, Y: 300, W: 200, H: 100})

	if err := c.BeginResize(id, HandleSE, displayPoint(c.view, 350, 300)); err != nil {
		t.Fatalf("BeginResize failed: %v", err)
	}
	// Pointer suggests 210x110; the milder stretch (5%) wins and the
	// other axis follows it.
	if err := c.ResizeTo(displayPoint(c.view, 360, 290), false); err != nil {
		t.Fatalf("ResizeTo failed: %v", err)
	}
	wantRect(t, placedRect(t, c, id), coords.Rect{X: 150, Y: 295, W: 210, H: 105})
}

func TestResizeMinSize(t *testing.T) {
	c, _ := newTestController(t)
	id := putFreeSignature(t, c, coords.Rect{X: 200, Y: 300, W: 100, H: 100})

	if err := c.BeginResize(id, HandleSE, displayPoint(c.view, 300, 300)); err != nil {
		t.Fatalf("BeginResize failed: %v", err)
	}
	// Collapse far past the opposite corner.
	if err := c.ResizeTo(displayPoint(c.view, 100, 500), true); err != nil {
		t.Fatalf("ResizeTo failed: %v", err)
	}
	// The minimum footprint hangs off the fixed corner at (200, 400).
	wantRect(t, placedRect(t, c, id), coords.Rect{X: 200, Y: 370, W: 30, H: 30})
}

func TestResizeEdgeMovesSingleAxis(t *testing.T) {
	t.Run("east", func(t *testing.T) {
		c, _ := newTestController(t)
		id := putFreeSignature(t, c, coords.Rect{X: 200, Y: 300, W: 100, H: 100})
		if err := c.BeginResize(id, HandleE, displayPoint(c.view, 300, 350)); err != nil {
			t.Fatalf("BeginResize failed: %v", err)
		}
		// The vertical part of the motion is ignored.
		if err := c.ResizeTo(displayPoint(c.view, 325, 310), false); err != nil {
			t.Fatalf("ResizeTo failed: %v", err)
		}
		wantRect(t, placedRect(t, c, id), coords.Rect{X: 200, Y: 300, W: 125, H: 100})
	})

	t.Run("north", func(t *testing.T) {
		c, _ := newTestController(t)
		id := putFreeSignature(t, c, coords.Rect{X: 200, Y: 300, W: 100, H: 100})
		if err := c.BeginResize(id, HandleN, displayPoint(c.view, 250, 400)); err != nil {
			t.Fatalf("BeginResize failed: %v", err)
		}
		if err := c.ResizeTo(displayPoint(c.view, 290, 415), false); err != nil {
			t.Fatalf("ResizeTo failed: %v", err)
		}
		wantRect(t, placedRect(t, c, id), coords.Rect{X: 200, Y: 300, W: 100, H: 115})
	})
}

func TestResizeShrinksAtPageEdge(t *testing.T) {
	c, _ := newTestController(t)
	id := putFreeSignature(t, c, coords.Rect{X: 500, Y: 700, W: 80, H: 80})

	if err := c.BeginResize(id, HandleSE, displayPoint(c.view, 580, 700)); err != nil {
		t.Fatalf("BeginResize failed: %v", err)
	}
	if err := c.ResizeTo(displayPoint(c.view, 680, 650), true); err != nil {
		t.Fatalf("ResizeTo failed: %v", err)
	}
	// Width stops at the page edge; the height keeps its full growth.
	wantRect(t, placedRect(t, c, id), coords.Rect{X: 500, Y: 650, W: 100, H: 130})
}

func TestResizeNeverSnaps(t *testing.T) {
	c, _ := newTestController(t)
	id := putFreeSignature(t, c, coords.Rect{X: 203, Y: 300, W: 100, H: 100})

	if err := c.BeginResize(id, HandleE, displayPoint(c.view, 303, 350)); err != nil {
		t.Fatalf("BeginResize failed: %v", err)
	}
	// 203 sits within grid reach of 200 and the new right edge lands
	// near a grid line; neither may move during a resize.
	if err := c.ResizeTo(displayPoint(c.view, 306, 350), false); err != nil {
		t.Fatalf("ResizeTo failed: %v", err)
	}
	wantRect(t, placedRect(t, c, id), coords.Rect{X: 203, Y: 300, W: 103, H: 100})
}

func TestCancelResizeRestoresAnchor(t *testing.T) {
	c, _ := newTestController(t)
	c.store.Put(&placement.Placement{
		ID:     "Medical Certificate",
		Kind:   placement.KindLinkedSignature,
		Anchor: placement.CellAnchor{Row: 2, Col: layout.ColumnAdviserSignature},
		Linked: "Medical Certificate",
	})

	if err := c.BeginResize("Medical Certificate", HandleSE, displayPoint(c.view, 590, 506)); err != nil {
		t.Fatalf("BeginResize failed: %v", err)
	}
	if err := c.ResizeTo(displayPoint(c.view, 595, 480), true); err != nil {
		t.Fatalf("ResizeTo failed: %v", err)
	}
	if err := c.CancelResize(); err != nil {
		t.Fatalf("CancelResize failed: %v", err)
	}

	p, _ := c.store.Get("Medical Certificate")
	if _, ok := p.Anchor.(placement.CellAnchor); !ok {
		t.Errorf("Expected the cell anchor restored, got %T", p.Anchor)
	}
	if c.Busy() {
		t.Errorf("Expected the controller idle after CancelResize")
	}
}

func TestResizeGates(t *testing.T) {
	t.Run("locked placement", func(t *testing.T) {
		c, _ := newTestController(t)
		id := c.store.NextFreeSignatureID()
		c.store.Put(&placement.Placement{
			ID:     id,
			Kind:   placement.KindFreeSignature,
			Anchor: placement.FreeAnchor{R: coords.Rect{X: 100, Y: 100, W: 150, H: 50}},
			Locked: true,
		})
		err := c.BeginResize(id, HandleE, displayPoint(c.view, 250, 125))
		if !errors.Is(err, placement.ErrPlacementLocked) {
			t.Errorf("Expected ErrPlacementLocked, got %v", err)
		}
	})

	t.Run("move without begin", func(t *testing.T) {
		c, _ := newTestController(t)
		if err := c.ResizeTo(displayPoint(c.view, 10, 10), false); !errors.Is(err, ErrNoOperation) {
			t.Errorf("Expected ErrNoOperation, got %v", err)
		}
		if err := c.EndResize(); !errors.Is(err, ErrNoOperation) {
			t.Errorf("Expected ErrNoOperation from EndResize, got %v", err)
		}
	})

	t.Run("busy during drag", func(t *testing.T) {
		c, _ := newTestController(t)
		id := putFreeSignature(t, c, coords.Rect{X: 100, Y: 100, W: 150, H: 50})
		if err := c.BeginDrag(id, displayPoint(c.view, 100, 150)); err != nil {
			t.Fatalf("BeginDrag failed: %v", err)
		}
		err := c.BeginResize(id, HandleE, displayPoint(c.view, 250, 125))
		if !errors.Is(err, ErrBusy) {
			t.Errorf("Expected ErrBusy, got %v", err)
		}
	})
}
