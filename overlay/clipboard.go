package overlay

import (
	"fmt"

	"stampkit/coords"
	"stampkit/observability"
	"stampkit/placement"
	"stampkit/snap"
)

// Copy snapshots an element's kind, geometry, and requirement linkage
// into the clipboard slot. Identity is never copied; every paste mints
// a fresh id. Only free signatures and date stamps are copyable, and
// copying works on locked templates since nothing mutates.
func (c *Controller) Copy(id string) error {
	p, ok := c.store.Get(id)
	if !ok {
		return fmt.Errorf("%w: %q", placement.ErrNotFound, id)
	}
	if !p.Kind.Copyable() {
		return fmt.Errorf("%w: %s", ErrNotCopyable, p.Kind)
	}
	c.clip = &clipEntry{
		kind:   p.Kind,
		rect:   p.Rect(c.table, c.view.PageHeight),
		linked: p.Linked,
	}
	return nil
}

// ClipboardLoaded reports whether a Copy has filled the slot.
func (c *Controller) ClipboardLoaded() bool { return c.clip != nil }

// Paste materializes the clipboard content, offset so the copy never
// lands exactly on its source, and resolves it as a drop with the full
// rule chain. A copy linked to a requirement replaces that
// requirement's element of the same class; the outgoing element is
// excluded from resolution so the copy can take its spot.
func (c *Controller) Paste() (string, snap.Guides, error) {
	if err := c.life.Editable(); err != nil {
		return "", snap.Guides{}, err
	}
	if err := c.requireIdle(); err != nil {
		return "", snap.Guides{}, err
	}
	if c.clip == nil {
		return "", snap.Guides{}, ErrClipboardEmpty
	}

	exclude := ""
	if c.clip.linked != "" {
		if q, ok := c.store.LinkedOfClass(c.clip.linked, c.clip.kind); ok {
			if q.Locked {
				return "", snap.Guides{}, fmt.Errorf("%w: %q", placement.ErrPlacementLocked, q.ID)
			}
			exclude = q.ID
		}
	}

	cand := c.clip.rect.Translate(c.pasteOffset, c.pasteOffset)
	res := c.engine.Resolve(c.scene(), snap.Request{
		Pos:     cand.Origin(),
		Size:    cand.Dim(),
		Linked:  c.clip.linked,
		Exclude: exclude,
		Mode:    snap.ModeDrop,
	})

	var id string
	if c.clip.kind == placement.KindDateStamp {
		id = c.store.NextDateStampID()
	} else {
		id = c.store.NextFreeSignatureID()
	}
	c.store.Put(&placement.Placement{
		ID:     id,
		Kind:   c.clip.kind,
		Anchor: placement.FreeAnchor{R: coords.Rect{X: res.Pos.X, Y: res.Pos.Y, W: cand.W, H: cand.H}},
		Linked: c.clip.linked,
	})
	c.log.Info("pasted element",
		observability.String("placement", id),
		observability.String("requirement", c.clip.linked))
	return id, res.Guides, nil
}
