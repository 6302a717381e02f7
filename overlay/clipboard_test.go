package overlay

import (
	"context"
	"errors"
	"testing"

	"stampkit/coords"
	"stampkit/layout"
	"stampkit/placement"
	"stampkit/snap"
	"stampkit/template"
)

func TestCopyRestrictions(t *testing.T) {
	c, _ := newTestController(t)
	c.store.Put(&placement.Placement{
		ID:     "Medical Certificate",
		Kind:   placement.KindLinkedSignature,
		Anchor: placement.CellAnchor{Row: 2, Col: layout.ColumnAdviserSignature},
		Linked: "Medical Certificate",
	})
	freeID := putFreeSignature(t, c, coords.Rect{X: 100, Y: 200, W: 150, H: 50})
	stampID := c.store.NextDateStampID()
	c.store.Put(&placement.Placement{
		ID:     stampID,
		Kind:   placement.KindDateStamp,
		Anchor: placement.FreeAnchor{R: coords.Rect{X: 400, Y: 600, W: 100, H: 40}},
	})

	if err := c.Copy("Medical Certificate"); !errors.Is(err, ErrNotCopyable) {
		t.Errorf("Expected ErrNotCopyable for a linked signature, got %v", err)
	}
	if err := c.Copy(freeID); err != nil {
		t.Errorf("Expected a free signature to copy, got %v", err)
	}
	if err := c.Copy(stampID); err != nil {
		t.Errorf("Expected a date stamp to copy, got %v", err)
	}
	if err := c.Copy("nope"); !errors.Is(err, placement.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestPasteMintsFreshIDAndClearsTheSource(t *testing.T) {
	c, _ := newTestController(t)
	srcID := putFreeSignature(t, c, coords.Rect{X: 100, Y: 200, W: 150, H: 50})

	if err := c.Copy(srcID); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	newID, guides, err := c.Paste()
	if err != nil {
		t.Fatalf("Paste failed: %v", err)
	}
	if newID != "Free Signature #2" {
		t.Errorf("Expected %q, got %q", "Free Signature #2", newID)
	}
	// The +20 offset still overlaps the source, so the drop slides
	// right past it and the guides are withdrawn.
	wantRect(t, placedRect(t, c, newID), coords.Rect{X: 255, Y: 220, W: 150, H: 50})
	if guides.H != nil || guides.V != nil {
		t.Errorf("Expected no guides after an overlap shift, got %+v", guides)
	}
	// The source is untouched.
	wantRect(t, placedRect(t, c, srcID), coords.Rect{X: 100, Y: 200, W: 150, H: 50})
	if c.store.Len() != 2 {
		t.Errorf("Expected 2 placements, got %d", c.store.Len())
	}
}

func TestPasteReplacesLinkedStamp(t *testing.T) {
	c, _ := newTestController(t)
	// The stamp goes in first so resolution has to look past it to find
	// the signature of the same requirement.
	stampID := c.store.NextDateStampID()
	c.store.Put(&placement.Placement{
		ID:     stampID,
		Kind:   placement.KindDateStamp,
		Anchor: placement.CellAnchor{Row: 2, Col: layout.ColumnDateComplied},
		Linked: "Medical Certificate",
	})
	c.store.Put(&placement.Placement{
		ID:     "Medical Certificate",
		Kind:   placement.KindLinkedSignature,
		Anchor: placement.FreeAnchor{R: coords.Rect{X: 500, Y: 380, W: 90, H: 50}},
		Linked: "Medical Certificate",
	})

	if err := c.Copy(stampID); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	newID, guides, err := c.Paste()
	if err != nil {
		t.Fatalf("Paste failed: %v", err)
	}

	if newID != "Date Stamp #2" {
		t.Errorf("Expected %q, got %q", "Date Stamp #2", newID)
	}
	if _, ok := c.store.Get(stampID); ok {
		t.Errorf("Expected the old stamp replaced")
	}
	if c.store.Len() != 2 {
		t.Errorf("Expected 2 placements after the replace, got %d", c.store.Len())
	}

	// The requirement row, now defined by the dragged signature, owns
	// the pasted stamp's Y; its X keeps the paste offset and stays in
	// the date column.
	got := placedRect(t, c, newID)
	wantRect(t, got, coords.Rect{X: 280, Y: 380, W: 110, H: 48})
	wantGuide(t, guides.H, snap.GuideLinked, 380)
	if col, ok := c.table.ColumnAt(got.X); !ok || col != layout.ColumnDateComplied {
		t.Errorf("Expected the pasted stamp in the date column, got %v", col)
	}
	sig := placedRect(t, c, "Medical Certificate")
	if got.Y != sig.Y {
		t.Errorf("Expected the stamp row-aligned with the signature: %v vs %v", got.Y, sig.Y)
	}
}

func TestPasteEmptyClipboard(t *testing.T) {
	c, _ := newTestController(t)
	if _, _, err := c.Paste(); !errors.Is(err, ErrClipboardEmpty) {
		t.Errorf("Expected ErrClipboardEmpty, got %v", err)
	}
	if c.ClipboardLoaded() {
		t.Errorf("Expected an empty clipboard")
	}
}

func TestPasteGates(t *testing.T) {
	t.Run("locked template", func(t *testing.T) {
		c, life := newTestController(t)
		srcID := putFreeSignature(t, c, coords.Rect{X: 100, Y: 200, W: 150, H: 50})
		if err := c.Copy(srcID); err != nil {
			t.Fatalf("Copy failed: %v", err)
		}
		if err := life.Lock(context.Background()); err != nil {
			t.Fatalf("Lock failed: %v", err)
		}
		// Copying stays legal on a locked template; pasting does not.
		if err := c.Copy(srcID); err != nil {
			t.Errorf("Expected Copy to work while locked, got %v", err)
		}
		if _, _, err := c.Paste(); !errors.Is(err, template.ErrLocked) {
			t.Errorf("Expected ErrLocked, got %v", err)
		}
	})

	t.Run("locked replacement target", func(t *testing.T) {
		c, _ := newTestController(t)
		stampID := c.store.NextDateStampID()
		c.store.Put(&placement.Placement{
			ID:     stampID,
			Kind:   placement.KindDateStamp,
			Anchor: placement.CellAnchor{Row: 2, Col: layout.ColumnDateComplied},
			Linked: "Medical Certificate",
			Locked: true,
		})
		if err := c.Copy(stampID); err != nil {
			t.Fatalf("Copy failed: %v", err)
		}
		if _, _, err := c.Paste(); !errors.Is(err, placement.ErrPlacementLocked) {
			t.Errorf("Expected ErrPlacementLocked, got %v", err)
		}
		if c.store.Len() != 1 {
			t.Errorf("Expected the store unchanged, got %d placements", c.store.Len())
		}
	})
}
