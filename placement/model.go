// Package placement models annotation elements over the requirement
// table and the store that owns them.
package placement

import (
	"errors"

	"stampkit/coords"
	"stampkit/layout"
)

var (
	// ErrNotFound reports an unknown placement id.
	ErrNotFound = errors.New("placement: not found")
	// ErrPlacementLocked reports a mutation attempt on a locked placement.
	ErrPlacementLocked = errors.New("placement: locked")
)

// MinSize is the smallest width or height a placement may take, in
// document units.
const MinSize = 30.0

// Kind classifies a placement.
type Kind int

const (
	// KindLinkedSignature is a signature pinned to a requirement row.
	KindLinkedSignature Kind = iota
	// KindFreeSignature is a signature placed anywhere on the page.
	KindFreeSignature
	// KindDateStamp is a date stamp, cell-anchored or free.
	KindDateStamp
)

func (k Kind) String() string {
	switch k {
	case KindLinkedSignature:
		return "linkedSignature"
	case KindFreeSignature:
		return "freeSignature"
	case KindDateStamp:
		return "dateStamp"
	}
	return "unknown"
}

// Copyable reports whether the clipboard accepts this kind.
func (k Kind) Copyable() bool {
	return k == KindFreeSignature || k == KindDateStamp
}

// signatureClass groups the two signature kinds for the one-per-
// requirement rule.
func signatureClass(k Kind) bool {
	return k == KindLinkedSignature || k == KindFreeSignature
}

// Anchor fixes where a placement sits on the page.
type Anchor interface {
	// Rect resolves the anchor to a document-space rectangle.
	Rect(t layout.Table, pageHeight float64) coords.Rect
}

// CellAnchor pins a placement to a requirement-table cell. Its
// rectangle follows the table geometry.
type CellAnchor struct {
	Row int
	Col layout.Column
}

func (a CellAnchor) Rect(t layout.Table, pageHeight float64) coords.Rect {
	return t.CellRect(a.Row, a.Col, pageHeight)
}

// FreeAnchor is an absolute document-space rectangle.
type FreeAnchor struct {
	R coords.Rect
}

func (a FreeAnchor) Rect(layout.Table, float64) coords.Rect { return a.R }

// Placement is one annotation element.
type Placement struct {
	ID   string
	Kind Kind
	// Anchor is either a CellAnchor or a FreeAnchor.
	Anchor Anchor
	// Linked names the requirement this placement aligns with. It drives
	// row alignment only, never layout.
	Linked string
	// Locked freezes this placement independently of the template lock.
	Locked bool
}

// Rect resolves the placement to its document-space rectangle.
func (p *Placement) Rect(t layout.Table, pageHeight float64) coords.Rect {
	return p.Anchor.Rect(t, pageHeight)
}
