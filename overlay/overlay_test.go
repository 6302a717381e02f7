package overlay

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"stampkit/coords"
	"stampkit/layout"
	"stampkit/snap"
	"stampkit/template"
)

func testCatalog(t *testing.T) layout.Catalog {
	t.Helper()
	cat, err := layout.NewCatalog(
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
	return cat
}

func newTestController(t *testing.T) (*Controller, *template.Lifecycle) {
	t.Helper()
	life := template.NewLifecycle(template.NewMemory(), layout.DefaultTable(), testCatalog(t), 800)
	c := NewController(life, coords.NewViewport(600, 800, 1))
	return c, life
}

// displayPoint is the pointer position a host UI would deliver for a
// document-space point.
func displayPoint(v coords.Viewport, x, y float64) coords.Point {
	return v.ToDisplay(coords.Point{X: x, Y: y}, 0)
}

func wantRect(t *testing.T, got, want coords.Rect) {
	t.Helper()
	const tol = 1e-9
	if !scalar.EqualWithinAbs(got.X, want.X, tol) ||
		!scalar.EqualWithinAbs(got.Y, want.Y, tol) ||
		!scalar.EqualWithinAbs(got.W, want.W, tol) ||
		!scalar.EqualWithinAbs(got.H, want.H, tol) {
		t.Errorf("Expected rect %+v, got %+v", want, got)
	}
}

func placedRect(t *testing.T, c *Controller, id string) coords.Rect {
	t.Helper()
	p, ok := c.store.Get(id)
	if !ok {
		t.Fatalf("Placement %q not found", id)
	}
	return p.Rect(c.table, c.view.PageHeight)
}

func wantGuide(t *testing.T, g *snap.Guide, kind snap.GuideKind, at float64) {
	t.Helper()
	if g == nil {
		t.Fatalf("Expected a %v guide at %v, got none", kind, at)
	}
	if g.Kind != kind || g.At != at {
		t.Errorf("Expected %v guide at %v, got %v at %v", kind, at, g.Kind, g.At)
	}
}
