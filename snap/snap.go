// Package snap resolves candidate positions for annotation elements
// against the page, the requirement table, and existing placements.
//
// Resolution runs a fixed rule chain. The linked-row lock binds the Y
// axis before anything else. Grid rounding is a weak default that any
// guide rule (page center, page edge, neighbor alignment, row affinity)
// overrides on its axis. Overlap avoidance and the bounds clamp run
// last. Axes resolve independently; the first guide rule to bind an
// axis wins it.
package snap

import (
	"math"

	"stampkit/coords"
	"stampkit/layout"
	"stampkit/observability"
	"stampkit/placement"
)

// Mode selects which rules participate in a resolution.
type Mode int

const (
	// ModeDrag is a pointer-driven move: no row affinity, no overlap
	// avoidance, no paste margin.
	ModeDrag Mode = iota
	// ModeDrop is an initial placement or paste: every rule runs.
	ModeDrop
)

// GuideKind classifies an alignment guide line.
type GuideKind int

const (
	// GuideCenter marks alignment with a page center line.
	GuideCenter GuideKind = iota
	// GuideEdge marks alignment with a page edge.
	GuideEdge
	// GuideElement marks alignment with another placement or an
	// occupied requirement row.
	GuideElement
	// GuideLinked marks the locked row of a linked requirement.
	GuideLinked
)

func (k GuideKind) String() string {
	switch k {
	case GuideCenter:
		return "center"
	case GuideEdge:
		return "edge"
	case GuideElement:
		return "element"
	case GuideLinked:
		return "linked"
	}
	return "unknown"
}

// Guide is one alignment line in document space.
type Guide struct {
	Kind GuideKind
	At   float64
}

// Guides is the visual feedback for a single resolution. H is a
// horizontal line at Y=At, V a vertical line at X=At. Guides are valid
// for exactly one resolution and are never shared state.
type Guides struct {
	H *Guide
	V *Guide
}

// Scene is the page a request resolves against.
type Scene struct {
	Viewport coords.Viewport
	Table    layout.Table
	Catalog  layout.Catalog
	Store    *placement.Store
}

// Request is one candidate rectangle to resolve.
type Request struct {
	// Pos is the candidate document-space origin.
	Pos  coords.Point
	Size coords.Size
	// Linked names the requirement the element aligns with, if any.
	Linked string
	// Exclude is the id of the moving element, skipped as a neighbor.
	Exclude string
	Mode    Mode
}

// Result is the resolved origin plus the guides that produced it.
type Result struct {
	Pos    coords.Point
	Guides Guides
}

// Engine applies the placement rule chain.
type Engine struct {
	grid          float64
	thresholdPx   float64
	edgeMargin    float64
	overlapPad    float64
	rowBandFactor float64
	log           observability.Logger
}

// Option adjusts engine tuning.
type Option func(*Engine)

// WithGridSize sets the grid pitch in document units.
func WithGridSize(u float64) Option {
	return func(e *Engine) { e.grid = u }
}

// WithThresholdPx sets the snap threshold in display pixels. The
// effective document-unit threshold shrinks as the viewer zooms in.
func WithThresholdPx(px float64) Option {
	return func(e *Engine) { e.thresholdPx = px }
}

// WithEdgeMargin sets the margin kept between a dropped element and the
// page edge.
func WithEdgeMargin(u float64) Option {
	return func(e *Engine) { e.edgeMargin = u }
}

// WithOverlapPadding sets the gap left when pushing a dropped element
// off an occupied spot.
func WithOverlapPadding(u float64) Option {
	return func(e *Engine) { e.overlapPad = u }
}

// WithRowBandFactor sets the row-affinity band as a multiple of the
// snap threshold.
func WithRowBandFactor(f float64) Option {
	return func(e *Engine) { e.rowBandFactor = f }
}

// WithLogger installs a logger. The default discards everything.
func WithLogger(l observability.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New returns an engine with the stock tuning: 20-unit grid, 10px
// threshold, 10-unit edge margin, 5-unit overlap padding, 3x row band.
func New(opts ...Option) *Engine {
	e := &Engine{
		grid:          20,
		thresholdPx:   10,
		edgeMargin:    10,
		overlapPad:    5,
		rowBandFactor: 3,
		log:           observability.NopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolve runs the rule chain over one candidate. Identical scenes and
// requests always produce identical results.
func (e *Engine) Resolve(sc Scene, req Request) Result {
	v := sc.Viewport
	threshold := e.thresholdPx / v.Scale
	bounds := v.Bounds()
	cand := coords.Rect{X: req.Pos.X, Y: req.Pos.Y, W: req.Size.W, H: req.Size.H}
	r := cand
	var guides Guides
	xBound, yBound := false, false

	// A requirement that already has a placement owns its row; the Y
	// axis locks to it before any other rule.
	if p, ok := sc.Store.FirstLinked(req.Linked, req.Exclude); ok {
		y := p.Rect(sc.Table, v.PageHeight).Y
		r.Y = y
		yBound = true
		guides.H = &Guide{Kind: GuideLinked, At: y}
	}

	// Grid rounding. Guide rules below overwrite it on their axis.
	if !xBound {
		if g := nearestMultiple(cand.X, e.grid); math.Abs(g-cand.X) <= threshold {
			r.X = g
		}
	}
	if !yBound {
		if g := nearestMultiple(cand.Y, e.grid); math.Abs(g-cand.Y) <= threshold {
			r.Y = g
		}
	}

	// Page center.
	if !xBound {
		c := bounds.X + bounds.W/2
		if math.Abs(cand.Center().X-c) <= threshold {
			r.X = c - cand.W/2
			xBound = true
			guides.V = &Guide{Kind: GuideCenter, At: c}
		}
	}
	if !yBound {
		c := bounds.Y + bounds.H/2
		if math.Abs(cand.Center().Y-c) <= threshold {
			r.Y = c - cand.H/2
			yBound = true
			guides.H = &Guide{Kind: GuideCenter, At: c}
		}
	}

	// Page edges. Drops keep the paste margin off the edge; drags snap
	// flush.
	margin := 0.0
	if req.Mode == ModeDrop {
		margin = e.edgeMargin
	}
	if !xBound {
		left := bounds.X + margin
		right := bounds.MaxX() - margin
		dl := math.Abs(cand.X - left)
		dr := math.Abs(cand.MaxX() - right)
		switch {
		case dl <= threshold && dl <= dr:
			r.X = left
			xBound = true
			guides.V = &Guide{Kind: GuideEdge, At: left}
		case dr <= threshold:
			r.X = right - cand.W
			xBound = true
			guides.V = &Guide{Kind: GuideEdge, At: right}
		}
	}
	if !yBound {
		bottom := bounds.Y + margin
		top := bounds.MaxY() - margin
		db := math.Abs(cand.Y - bottom)
		dt := math.Abs(cand.MaxY() - top)
		switch {
		case db <= threshold && db <= dt:
			r.Y = bottom
			yBound = true
			guides.H = &Guide{Kind: GuideEdge, At: bottom}
		case dt <= threshold:
			r.Y = top - cand.H
			yBound = true
			guides.H = &Guide{Kind: GuideEdge, At: top}
		}
	}

	// Neighbor alignment: corresponding features only, closest match
	// within threshold per axis, earliest placement wins ties.
	if !xBound || !yBound {
		bestX, bestY := e.closestNeighbor(sc, req, cand, threshold, xBound, yBound)
		if bestX != nil {
			r.X = bestX.pos
			xBound = true
			guides.V = &Guide{Kind: GuideElement, At: bestX.line}
		}
		if bestY != nil {
			r.Y = bestY.pos
			yBound = true
			guides.H = &Guide{Kind: GuideElement, At: bestY.line}
		}
	}

	// Row affinity: drops near an occupied requirement row join it.
	if req.Mode == ModeDrop && !yBound {
		if row, ok := e.affineRow(sc, req, cand, threshold); ok {
			y := sc.Table.RowY(row, v.PageHeight)
			r.Y = y
			guides.H = &Guide{Kind: GuideElement, At: y}
		}
	}

	// Overlap avoidance for drops. A shift invalidates the guides.
	if req.Mode == ModeDrop {
		if e.avoidOverlap(&r, sc, req.Exclude) {
			guides = Guides{}
		}
	}

	// The page always wins.
	r = r.Clamp(bounds)

	e.log.Debug("snap resolved",
		observability.Float64("x", r.X),
		observability.Float64("y", r.Y),
		observability.Int("mode", int(req.Mode)),
	)
	return Result{Pos: r.Origin(), Guides: guides}
}

type axisMatch struct {
	dist float64
	pos  float64
	line float64
}

func (e *Engine) closestNeighbor(sc Scene, req Request, cand coords.Rect, threshold float64, xBound, yBound bool) (bestX, bestY *axisMatch) {
	for _, q := range sc.Store.All() {
		if q.ID == req.Exclude {
			continue
		}
		qr := q.Rect(sc.Table, sc.Viewport.PageHeight)
		if !xBound {
			for _, c := range []axisMatch{
				{pos: qr.X, line: qr.X},
				{pos: qr.MaxX() - cand.W, line: qr.MaxX()},
				{pos: qr.Center().X - cand.W/2, line: qr.Center().X},
			} {
				c.dist = math.Abs(cand.X - c.pos)
				if c.dist <= threshold && (bestX == nil || c.dist < bestX.dist) {
					m := c
					bestX = &m
				}
			}
		}
		if !yBound {
			for _, c := range []axisMatch{
				{pos: qr.Y, line: qr.Y},
				{pos: qr.MaxY() - cand.H, line: qr.MaxY()},
				{pos: qr.Center().Y - cand.H/2, line: qr.Center().Y},
			} {
				c.dist = math.Abs(cand.Y - c.pos)
				if c.dist <= threshold && (bestY == nil || c.dist < bestY.dist) {
					m := c
					bestY = &m
				}
			}
		}
	}
	return bestX, bestY
}

func (e *Engine) affineRow(sc Scene, req Request, cand coords.Rect, threshold float64) (int, bool) {
	occupied := make(map[int]bool)
	for _, q := range sc.Store.All() {
		if q.ID == req.Exclude {
			continue
		}
		if row, ok := placementRow(q, sc.Catalog); ok {
			occupied[row] = true
		}
	}
	band := e.rowBandFactor * threshold
	bestRow, bestDist := -1, 0.0
	for row := 0; row < sc.Catalog.Len(); row++ {
		if !occupied[row] {
			continue
		}
		d := math.Abs(cand.Y - sc.Table.RowY(row, sc.Viewport.PageHeight))
		if d <= band && (bestRow < 0 || d < bestDist) {
			bestRow, bestDist = row, d
		}
	}
	return bestRow, bestRow >= 0
}

// placementRow maps a placement to the requirement row it occupies: the
// anchored cell row, or the catalog row of its linked requirement.
func placementRow(p *placement.Placement, cat layout.Catalog) (int, bool) {
	if a, ok := p.Anchor.(placement.CellAnchor); ok {
		return a.Row, true
	}
	if p.Linked != "" {
		if row, err := cat.RowOf(p.Linked); err == nil {
			return row, true
		}
	}
	return 0, false
}

// avoidOverlap pushes r right past each blocking placement, dropping to
// the band below the blocker when the row runs out, and gives up in
// place rather than cycling. It reports whether r moved.
func (e *Engine) avoidOverlap(r *coords.Rect, sc Scene, exclude string) bool {
	bounds := sc.Viewport.Bounds()
	startX := r.X
	shifted := false
	const maxPasses = 64
	for pass := 0; pass < maxPasses; pass++ {
		hit, ok := e.firstOverlap(*r, sc, exclude)
		if !ok {
			return shifted
		}
		next := hit.MaxX() + e.overlapPad
		if next+r.W > bounds.MaxX() {
			below := hit.Y - e.overlapPad - r.H
			if below < bounds.Y {
				return shifted
			}
			r.X = startX
			r.Y = below
		} else {
			r.X = next
		}
		shifted = true
	}
	return shifted
}

func (e *Engine) firstOverlap(r coords.Rect, sc Scene, exclude string) (coords.Rect, bool) {
	for _, q := range sc.Store.All() {
		if q.ID == exclude {
			continue
		}
		qr := q.Rect(sc.Table, sc.Viewport.PageHeight)
		if r.Intersects(qr) {
			return qr, true
		}
	}
	return coords.Rect{}, false
}

func nearestMultiple(v, unit float64) float64 {
	if unit <= 0 {
		return v
	}
	return math.Round(v/unit) * unit
}
