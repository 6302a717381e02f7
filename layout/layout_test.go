package layout

import (
	"errors"
	"testing"

	"stampkit/coords"
)

func testCatalog(t *testing.T) Catalog {
	t.Helper()
	c, err := NewCatalog(
		"Registration Form",
		"Program of Study",
		"Medical Certificate",
		"Certificate of Completion",
		"Exit Clearance",
		"Final Evaluation",
	)
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	return c
}

func TestCatalogRows(t *testing.T) {
	c := testCatalog(t)
	if c.Len() != 6 {
		t.Fatalf("Expected 6 rows, got %d", c.Len())
	}
	row, err := c.RowOf("Medical Certificate")
	if err != nil {
		t.Fatalf("RowOf failed: %v", err)
	}
	if row != 2 {
		t.Errorf("Expected row 2, got %d", row)
	}
	if _, err := c.RowOf("Thesis Defense"); !errors.Is(err, ErrUnknownRequirement) {
		t.Errorf("Expected ErrUnknownRequirement, got %v", err)
	}
	label, err := c.Label(4)
	if err != nil {
		t.Fatalf("Label failed: %v", err)
	}
	if label != "Exit Clearance" {
		t.Errorf("Expected Exit Clearance, got %q", label)
	}
}

func TestCatalogRejectsDuplicates(t *testing.T) {
	if _, err := NewCatalog("A", "B", "A"); err == nil {
		t.Errorf("Expected duplicate label error")
	}
	if _, err := NewCatalog("A", ""); err == nil {
		t.Errorf("Expected empty label error")
	}
}

func TestDefaultTableOptions(t *testing.T) {
	tbl := DefaultTable()
	if tbl.RowHeight != 48 {
		t.Errorf("Expected row height 48, got %v", tbl.RowHeight)
	}

	tbl = DefaultTable(WithRowHeight(60), WithMargins(20, 80), WithHeaderHeight(24))
	if tbl.RowHeight != 60 || tbl.LeftMargin != 20 || tbl.TopMargin != 80 || tbl.HeaderHeight != 24 {
		t.Errorf("Options not applied: %+v", tbl)
	}
}

func TestCellRect(t *testing.T) {
	tbl := DefaultTable()
	const pageHeight = 800.0

	r := tbl.CellRect(0, ColumnRequirement, pageHeight)
	if r.X != 40 {
		t.Errorf("Expected x 40, got %v", r.X)
	}
	if r.MaxY() != 800-120-30 {
		t.Errorf("Expected top edge %v, got %v", 800-120-30, r.MaxY())
	}

	r = tbl.CellRect(2, ColumnDateComplied, pageHeight)
	if r.X != 40+220 {
		t.Errorf("Expected x 260, got %v", r.X)
	}
	if r.Y != 800-120-30-3*48 {
		t.Errorf("Expected y %v, got %v", 800-120-30-3*48, r.Y)
	}
	if r.W != 110 || r.H != 48 {
		t.Errorf("Expected 110x48, got %vx%v", r.W, r.H)
	}
}

func TestCellsNeverOverlap(t *testing.T) {
	tbl := DefaultTable()
	cols := []Column{ColumnRequirement, ColumnDateComplied, ColumnRemarks, ColumnAdviserSignature}
	type cell struct {
		row int
		col Column
	}
	var cells []cell
	for row := 0; row < 6; row++ {
		for _, col := range cols {
			cells = append(cells, cell{row, col})
		}
	}
	for i, a := range cells {
		for _, b := range cells[i+1:] {
			ra := tbl.CellRect(a.row, a.col, 800)
			rb := tbl.CellRect(b.row, b.col, 800)
			if ra.Intersects(rb) {
				t.Fatalf("cells (%d,%s) and (%d,%s) overlap", a.row, a.col, b.row, b.col)
			}
		}
	}
}

func TestCellAtInverse(t *testing.T) {
	tbl := DefaultTable()
	cat := testCatalog(t)
	cols := []Column{ColumnRequirement, ColumnDateComplied, ColumnRemarks, ColumnAdviserSignature}
	for row := 0; row < cat.Len(); row++ {
		for _, col := range cols {
			center := tbl.CellRect(row, col, 800).Center()
			gotRow, gotCol, ok := tbl.CellAt(center, 800, cat.Len())
			if !ok {
				t.Fatalf("CellAt missed center of (%d,%s)", row, col)
			}
			if gotRow != row || gotCol != col {
				t.Errorf("Expected (%d,%s), got (%d,%s)", row, col, gotRow, gotCol)
			}
		}
	}

	if _, _, ok := tbl.CellAt(coords.Point{X: 10, Y: 400}, 800, cat.Len()); ok {
		t.Errorf("Expected miss left of the table")
	}
	if _, _, ok := tbl.CellAt(coords.Point{X: 300, Y: 790}, 800, cat.Len()); ok {
		t.Errorf("Expected miss above row zero")
	}
	if _, _, ok := tbl.CellAt(coords.Point{X: 300, Y: 100}, 800, cat.Len()); ok {
		t.Errorf("Expected miss below the last row")
	}
}

func TestRowEdgeOwnership(t *testing.T) {
	tbl := DefaultTable()
	// The shared edge between rows 0 and 1 belongs to row 0.
	y := tbl.RowY(0, 800)
	row, ok := tbl.RowAt(y, 800, 6)
	if !ok || row != 0 {
		t.Errorf("Expected row 0 on shared edge, got %d (ok=%v)", row, ok)
	}
	// The top edge of row 0 belongs to the header, not the table.
	if _, ok := tbl.RowAt(tbl.RowTop(0, 800), 800, 6); ok {
		t.Errorf("Expected header edge to miss")
	}
}

func TestColumnNames(t *testing.T) {
	for _, col := range []Column{ColumnRequirement, ColumnDateComplied, ColumnRemarks, ColumnAdviserSignature} {
		parsed, err := ParseColumn(col.String())
		if err != nil {
			t.Fatalf("ParseColumn(%q) failed: %v", col.String(), err)
		}
		if parsed != col {
			t.Errorf("Expected %v, got %v", col, parsed)
		}
	}
	if _, err := ParseColumn("signature"); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("Expected ErrUnknownColumn, got %v", err)
	}
}

func TestCellRectDisplay(t *testing.T) {
	tbl := DefaultTable()
	v := coords.NewViewport(612, 792, 2.0)
	doc := tbl.CellRect(1, ColumnRemarks, 792)
	disp := tbl.CellRectDisplay(1, ColumnRemarks, v)
	if disp.W != doc.W*2 || disp.H != doc.H*2 {
		t.Errorf("Expected scaled size, got %vx%v", disp.W, disp.H)
	}
	if disp.Y != (792-doc.Y-doc.H)*2 {
		t.Errorf("Expected display y %v, got %v", (792-doc.Y-doc.H)*2, disp.Y)
	}
}
