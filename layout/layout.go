// Package layout locates requirement-table cells on the page.
//
// Rows are the entries of an ordered requirement catalog; columns are
// fixed. Cell rectangles are derived from the table constants on every
// call and never stored, so distinct cells cannot overlap.
package layout

import (
	"errors"
	"fmt"

	"stampkit/coords"
)

var (
	// ErrUnknownRequirement reports a label missing from the catalog.
	ErrUnknownRequirement = errors.New("layout: unknown requirement")
	// ErrUnknownColumn reports an unrecognized column name.
	ErrUnknownColumn = errors.New("layout: unknown column")
)

// Column identifies a table column.
type Column int

const (
	ColumnRequirement Column = iota
	ColumnDateComplied
	ColumnRemarks
	ColumnAdviserSignature
)

var columnNames = [...]string{
	ColumnRequirement:      "requirement",
	ColumnDateComplied:     "dateComplied",
	ColumnRemarks:          "remarks",
	ColumnAdviserSignature: "adviserSignature",
}

// String returns the persisted wire name of the column.
func (c Column) String() string {
	if c < 0 || int(c) >= len(columnNames) {
		return fmt.Sprintf("column(%d)", int(c))
	}
	return columnNames[c]
}

// ParseColumn resolves a persisted column name.
func ParseColumn(s string) (Column, error) {
	for i, name := range columnNames {
		if name == s {
			return Column(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownColumn, s)
}

// Catalog is the ordered list of requirement labels. The position of a
// label fixes its row index for the life of the catalog.
type Catalog struct {
	labels []string
	rows   map[string]int
}

// NewCatalog builds a catalog from ordered labels. Duplicate or empty
// labels are rejected.
func NewCatalog(labels ...string) (Catalog, error) {
	rows := make(map[string]int, len(labels))
	for i, l := range labels {
		if l == "" {
			return Catalog{}, fmt.Errorf("layout: empty requirement label at row %d", i)
		}
		if _, dup := rows[l]; dup {
			return Catalog{}, fmt.Errorf("layout: duplicate requirement label %q", l)
		}
		rows[l] = i
	}
	return Catalog{labels: append([]string(nil), labels...), rows: rows}, nil
}

// Len returns the number of requirement rows.
func (c Catalog) Len() int { return len(c.labels) }

// RowOf returns the row index of a requirement label.
func (c Catalog) RowOf(label string) (int, error) {
	row, ok := c.rows[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRequirement, label)
	}
	return row, nil
}

// Label returns the requirement label at a row.
func (c Catalog) Label(row int) (string, error) {
	if row < 0 || row >= len(c.labels) {
		return "", fmt.Errorf("%w: row %d", ErrUnknownRequirement, row)
	}
	return c.labels[row], nil
}

// Labels returns a copy of the ordered labels.
func (c Catalog) Labels() []string {
	return append([]string(nil), c.labels...)
}

// Table holds the geometry constants of the requirement table. Margins
// are measured from the top-left of the page; all values are document
// units.
type Table struct {
	LeftMargin   float64
	TopMargin    float64
	HeaderHeight float64
	RowHeight    float64

	RequirementWidth float64
	DateWidth        float64
	RemarksWidth     float64
	SignatureWidth   float64
}

// TableOption adjusts table geometry.
type TableOption func(*Table)

// WithRowHeight sets the height of every requirement row.
func WithRowHeight(h float64) TableOption {
	return func(t *Table) { t.RowHeight = h }
}

// WithMargins sets the left and top page margins.
func WithMargins(left, top float64) TableOption {
	return func(t *Table) {
		t.LeftMargin = left
		t.TopMargin = top
	}
}

// WithHeaderHeight sets the header band height above row zero.
func WithHeaderHeight(h float64) TableOption {
	return func(t *Table) { t.HeaderHeight = h }
}

// WithColumnWidths sets the four column widths in table order.
func WithColumnWidths(requirement, date, remarks, signature float64) TableOption {
	return func(t *Table) {
		t.RequirementWidth = requirement
		t.DateWidth = date
		t.RemarksWidth = remarks
		t.SignatureWidth = signature
	}
}

// DefaultTable returns the stock completion-form geometry.
func DefaultTable(opts ...TableOption) Table {
	t := Table{
		LeftMargin:       40,
		TopMargin:        120,
		HeaderHeight:     30,
		RowHeight:        48,
		RequirementWidth: 220,
		DateWidth:        110,
		RemarksWidth:     130,
		SignatureWidth:   90,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// Width returns the width of a column.
func (t Table) Width(col Column) float64 {
	switch col {
	case ColumnRequirement:
		return t.RequirementWidth
	case ColumnDateComplied:
		return t.DateWidth
	case ColumnRemarks:
		return t.RemarksWidth
	case ColumnAdviserSignature:
		return t.SignatureWidth
	}
	return 0
}

// ColumnX returns the left edge of a column.
func (t Table) ColumnX(col Column) float64 {
	x := t.LeftMargin
	for c := ColumnRequirement; c < col; c++ {
		x += t.Width(c)
	}
	return x
}

// RowTop returns the document-space Y of the top edge of a row.
func (t Table) RowTop(row int, pageHeight float64) float64 {
	return pageHeight - t.TopMargin - t.HeaderHeight - float64(row)*t.RowHeight
}

// RowY returns the document-space Y of the bottom edge of a row, which
// is the origin Y of every cell rectangle in it.
func (t Table) RowY(row int, pageHeight float64) float64 {
	return t.RowTop(row, pageHeight) - t.RowHeight
}

// CellRect returns the document-space rectangle of a cell.
func (t Table) CellRect(row int, col Column, pageHeight float64) coords.Rect {
	return coords.Rect{
		X: t.ColumnX(col),
		Y: t.RowY(row, pageHeight),
		W: t.Width(col),
		H: t.RowHeight,
	}
}

// CellRectDisplay returns the cell rectangle in display space.
func (t Table) CellRectDisplay(row int, col Column, v coords.Viewport) coords.Rect {
	return v.RectToDisplay(t.CellRect(row, col, v.PageHeight))
}

// ColumnAt returns the column containing a document-space X.
func (t Table) ColumnAt(x float64) (Column, bool) {
	left := t.LeftMargin
	for c := ColumnRequirement; c <= ColumnAdviserSignature; c++ {
		right := left + t.Width(c)
		if x >= left && x < right {
			return c, true
		}
		left = right
	}
	return 0, false
}

// RowAt returns the row containing a document-space Y, bounded by the
// number of catalog rows.
func (t Table) RowAt(y, pageHeight float64, rows int) (int, bool) {
	top := t.RowTop(0, pageHeight)
	if y >= top || t.RowHeight <= 0 {
		return 0, false
	}
	row := int((top - y) / t.RowHeight)
	if y == top-float64(row)*t.RowHeight && row > 0 {
		row-- // a point on a shared edge belongs to the row above it
	}
	if row < 0 || row >= rows {
		return 0, false
	}
	return row, true
}

// CellAt returns the cell containing a document-space point.
func (t Table) CellAt(p coords.Point, pageHeight float64, rows int) (int, Column, bool) {
	col, ok := t.ColumnAt(p.X)
	if !ok {
		return 0, 0, false
	}
	row, ok := t.RowAt(p.Y, pageHeight, rows)
	if !ok {
		return 0, 0, false
	}
	return row, col, true
}
