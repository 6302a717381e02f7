// Package template persists placement sets and runs the draft/locked
// lifecycle over an externally provided persistence boundary.
package template

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"stampkit/coords"
	"stampkit/layout"
	"stampkit/placement"
)

var (
	// ErrLocked reports a mutation or publish attempt on a locked
	// template.
	ErrLocked = errors.New("template: locked")
	// ErrPersistence wraps any failure of the persistence adapter or a
	// malformed snapshot. In-memory state is untouched when it occurs.
	ErrPersistence = errors.New("template: persistence failure")
)

// Snapshot is the persisted form of a template. Placement entries are
// keyed by their display id.
type Snapshot struct {
	IsLocked   bool             `json:"isLocked"`
	Revision   string           `json:"revision,omitempty"`
	Placements map[string]Entry `json:"placements"`
}

// Entry is one persisted placement. Exactly one form is populated: the
// cell form (RowIndex and Column) or the free form (X, Y, Width,
// Height).
type Entry struct {
	RowIndex *int     `json:"rowIndex,omitempty"`
	Column   string   `json:"column,omitempty"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	Linked   string   `json:"linkedRequirementType,omitempty"`
	IsStamp  bool     `json:"isDateStamp,omitempty"`
}

// encodeStore snapshots a store. With flatten set, cell anchors are
// written as absolute rectangles, the form older readers expect from a
// locked template.
func encodeStore(s *placement.Store, tbl layout.Table, pageHeight float64, flatten bool) *Snapshot {
	snap := &Snapshot{Placements: make(map[string]Entry, s.Len())}
	for _, p := range s.All() {
		var e Entry
		switch a := p.Anchor.(type) {
		case placement.CellAnchor:
			if flatten {
				e = rectEntry(a.Rect(tbl, pageHeight))
			} else {
				row := a.Row
				e.RowIndex = &row
				e.Column = a.Col.String()
			}
		case placement.FreeAnchor:
			e = rectEntry(a.R)
		}
		// The display id of a linked signature is its requirement label;
		// repeating it would be noise.
		if p.Linked != "" && p.Linked != p.ID {
			e.Linked = p.Linked
		}
		e.IsStamp = p.Kind == placement.KindDateStamp
		snap.Placements[p.ID] = e
	}
	return snap
}

func rectEntry(r coords.Rect) Entry {
	x, y, w, h := r.X, r.Y, r.W, r.H
	return Entry{X: &x, Y: &y, Width: &w, Height: &h}
}

// decoded is the validated content of a snapshot, ready to apply to a
// store in one step.
type decoded struct {
	placements     []*placement.Placement
	freeSignatures int
	dateStamps     int
}

// decodeSnapshot validates and rebuilds placements. Ids are visited in
// sorted order so a reloaded store iterates the same way every time.
func decodeSnapshot(snap *Snapshot, cat layout.Catalog) (*decoded, error) {
	ids := make([]string, 0, len(snap.Placements))
	for id := range snap.Placements {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	d := &decoded{}
	for _, id := range ids {
		e := snap.Placements[id]
		p, err := decodeEntry(id, e, cat)
		if err != nil {
			return nil, err
		}
		d.placements = append(d.placements, p)

		var n int
		if _, err := fmt.Sscanf(id, "Free Signature #%d", &n); err == nil && n > d.freeSignatures {
			d.freeSignatures = n
		}
		if _, err := fmt.Sscanf(id, "Date Stamp #%d", &n); err == nil && n > d.dateStamps {
			d.dateStamps = n
		}
	}
	return d, nil
}

func decodeEntry(id string, e Entry, cat layout.Catalog) (*placement.Placement, error) {
	p := &placement.Placement{ID: id, Linked: e.Linked}

	switch {
	case e.RowIndex != nil:
		col, err := layout.ParseColumn(e.Column)
		if err != nil {
			return nil, fmt.Errorf("placement %q: %w", id, err)
		}
		if _, err := cat.Label(*e.RowIndex); err != nil {
			return nil, fmt.Errorf("placement %q: %w", id, err)
		}
		p.Anchor = placement.CellAnchor{Row: *e.RowIndex, Col: col}
		if p.Linked == "" {
			lbl, _ := cat.Label(*e.RowIndex)
			p.Linked = lbl
		}
	case e.X != nil && e.Y != nil && e.Width != nil && e.Height != nil:
		p.Anchor = placement.FreeAnchor{R: coords.Rect{X: *e.X, Y: *e.Y, W: *e.Width, H: *e.Height}}
	default:
		return nil, fmt.Errorf("placement %q: neither cell nor rectangle form", id)
	}

	switch {
	case e.IsStamp:
		p.Kind = placement.KindDateStamp
	case anchoredSignature(id, e, cat):
		p.Kind = placement.KindLinkedSignature
		if p.Linked == "" {
			p.Linked = id
		}
	default:
		p.Kind = placement.KindFreeSignature
	}
	return p, nil
}

// anchoredSignature reports whether a non-stamp entry is a
// requirement-linked signature: cell anchored, or keyed by a catalog
// label.
func anchoredSignature(id string, e Entry, cat layout.Catalog) bool {
	if e.RowIndex != nil {
		return true
	}
	_, err := cat.RowOf(id)
	return err == nil
}

// fingerprint hashes a snapshot's content, ignoring the revision, so
// identical placement sets always hash identically.
func fingerprint(snap *Snapshot) string {
	c := *snap
	c.Revision = ""
	b, err := json.Marshal(&c)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
