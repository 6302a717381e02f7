// Package overlay drives interactive editing of a stamp template: tool
// selection, cell clicks, drag, resize, crop, clipboard, and keyboard
// nudging. A Controller owns a single pointer operation at a time, so a
// drag can never start while a crop is in progress.
//
// Pointer coordinates arriving from a host UI are display-space
// (top-left origin, scaled); everything stored goes through
// coords.Viewport into document space first.
package overlay

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"stampkit/coords"
	"stampkit/layout"
	"stampkit/observability"
	"stampkit/placement"
	"stampkit/snap"
	"stampkit/template"
)

var (
	// ErrBusy is returned when a pointer operation is already running.
	ErrBusy = errors.New("overlay: another operation is in progress")
	// ErrNoOperation is returned by move/end calls with nothing begun.
	ErrNoOperation = errors.New("overlay: no operation in progress")
	// ErrNoSelection is returned by keyboard edits with nothing selected.
	ErrNoSelection = errors.New("overlay: nothing selected")
	// ErrNoTool is returned when a click needs an active tool.
	ErrNoTool = errors.New("overlay: no tool selected")
	// ErrWrongColumn is returned when the active tool cannot fill the
	// clicked column.
	ErrWrongColumn = errors.New("overlay: tool does not fill this column")
	// ErrNeedsCell is returned when a cell-only tool is dropped on open
	// canvas.
	ErrNeedsCell = errors.New("overlay: tool places into table cells")
	// ErrNotCopyable is returned for elements the clipboard refuses.
	ErrNotCopyable = errors.New("overlay: element cannot be copied")
	// ErrClipboardEmpty is returned by Paste before any Copy.
	ErrClipboardEmpty = errors.New("overlay: clipboard is empty")
)

// Tool selects what a canvas drop or cell click creates.
type Tool int

const (
	ToolNone Tool = iota
	// ToolSignatureAll fills the signature column of every row at once.
	ToolSignatureAll
	// ToolLinkedSignature fills the signature cell of the clicked row.
	ToolLinkedSignature
	// ToolFreeSignature places a freely positioned signature.
	ToolFreeSignature
	// ToolDateStamp places a date stamp, into a cell or freely.
	ToolDateStamp
)

func (t Tool) String() string {
	switch t {
	case ToolNone:
		return "none"
	case ToolSignatureAll:
		return "signature-all"
	case ToolLinkedSignature:
		return "linked-signature"
	case ToolFreeSignature:
		return "free-signature"
	case ToolDateStamp:
		return "date-stamp"
	}
	return fmt.Sprintf("Tool(%d)", int(t))
}

// Default element footprints in document units.
const (
	DefaultSignatureWidth  = 150.0
	DefaultSignatureHeight = 50.0
	DefaultStampWidth      = 100.0
	DefaultStampHeight     = 40.0

	// DefaultPasteOffset shifts each pasted copy down-right so it never
	// lands exactly on its source.
	DefaultPasteOffset = 20.0

	// MinCropSize is the smallest crop window a handle drag may leave.
	MinCropSize = 20.0
)

type opKind int

const (
	opNone opKind = iota
	opDrag
	opResize
	opCrop
)

// operation is the single in-flight pointer gesture. Only one exists at
// a time; its id ties Begin/End log lines together.
type operation struct {
	kind   opKind
	id     uuid.UUID
	target string
	revert placement.Anchor

	// drag: pointer-to-origin offset captured at grab time, display px
	grabDX float64
	grabDY float64

	// resize: geometry at BeginResize, pointer in document units
	handle    Handle
	startRect coords.Rect
	startPtr  coords.Point

	// crop: the window being framed, confined to baseRect
	cropRect   coords.Rect
	baseRect   coords.Rect
	cropStart  coords.Rect
	cropPtr    coords.Point
	cropHandle Handle
	cropHeld   bool
}

// clipEntry is the clipboard slot. It keeps geometry and linkage, never
// the identity, so every paste mints a fresh id.
type clipEntry struct {
	kind   placement.Kind
	rect   coords.Rect
	linked string
}

// Controller wires the placement store, snap engine, and table geometry
// behind the pointer and keyboard entry points a host UI calls.
type Controller struct {
	life    *template.Lifecycle
	store   *placement.Store
	view    coords.Viewport
	table   layout.Table
	catalog layout.Catalog
	engine  *snap.Engine
	log     observability.Logger

	op          operation
	tool        Tool
	clip        *clipEntry
	selected    string
	editingText bool

	sigSize     coords.Size
	stampSize   coords.Size
	pasteOffset float64
	nudgeSteps  [3]float64
}

// Option adjusts a Controller.
type Option func(*Controller)

// WithEngine replaces the default snap engine.
func WithEngine(e *snap.Engine) Option {
	return func(c *Controller) { c.engine = e }
}

// WithLogger attaches a logger to the controller.
func WithLogger(l observability.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithSignatureSize overrides the footprint of new signatures.
func WithSignatureSize(w, h float64) Option {
	return func(c *Controller) { c.sigSize = coords.Size{W: w, H: h} }
}

// WithStampSize overrides the footprint of new date stamps.
func WithStampSize(w, h float64) Option {
	return func(c *Controller) { c.stampSize = coords.Size{W: w, H: h} }
}

// WithPasteOffset overrides the down-right shift applied on paste.
func WithPasteOffset(d float64) Option {
	return func(c *Controller) { c.pasteOffset = d }
}

// WithNudgeSteps overrides the arrow-key step sizes for the plain,
// secondary, and primary modifier levels.
func WithNudgeSteps(plain, secondary, primary float64) Option {
	return func(c *Controller) { c.nudgeSteps = [3]float64{plain, secondary, primary} }
}

// NewController builds a controller editing the lifecycle's store
// through the given viewport.
func NewController(life *template.Lifecycle, view coords.Viewport, opts ...Option) *Controller {
	c := &Controller{
		life:        life,
		store:       life.Store(),
		view:        view,
		table:       life.Table(),
		catalog:     life.Catalog(),
		log:         observability.NopLogger{},
		sigSize:     coords.Size{W: DefaultSignatureWidth, H: DefaultSignatureHeight},
		stampSize:   coords.Size{W: DefaultStampWidth, H: DefaultStampHeight},
		pasteOffset: DefaultPasteOffset,
		nudgeSteps:  [3]float64{1, 5, 10},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.engine == nil {
		c.engine = snap.New(snap.WithLogger(c.log))
	}
	return c
}

// SetViewport follows a zoom or page change in the host view. Document
// state is untouched; only pointer conversion changes.
func (c *Controller) SetViewport(v coords.Viewport) { c.view = v }

// Viewport returns the current pointer-conversion viewport.
func (c *Controller) Viewport() coords.Viewport { return c.view }

// SetTool selects the palette tool used by ClickCell and Drop.
func (c *Controller) SetTool(t Tool) { c.tool = t }

// ActiveTool returns the current palette selection.
func (c *Controller) ActiveTool() Tool { return c.tool }

// Busy reports whether a drag, resize, or crop is in progress.
func (c *Controller) Busy() bool { return c.op.kind != opNone }

// Select marks a placement as the keyboard target.
func (c *Controller) Select(id string) error {
	if _, ok := c.store.Get(id); !ok {
		return fmt.Errorf("%w: %q", placement.ErrNotFound, id)
	}
	c.selected = id
	return nil
}

// ClearSelection drops the keyboard target.
func (c *Controller) ClearSelection() { c.selected = "" }

// Selected returns the id of the keyboard target, or "".
func (c *Controller) Selected() string { return c.selected }

// SetEditingText tells the controller a text input owns keyboard focus.
// While set, shortcuts are ignored rather than rejected.
func (c *Controller) SetEditingText(editing bool) { c.editingText = editing }

// scene bundles the current geometry for the snap engine.
func (c *Controller) scene() snap.Scene {
	return snap.Scene{
		Viewport: c.view,
		Table:    c.table,
		Catalog:  c.catalog,
		Store:    c.store,
	}
}

// editable resolves a placement and checks both lock levels: the
// template must be a draft and the placement itself unlocked.
func (c *Controller) editable(id string) (*placement.Placement, error) {
	if err := c.life.Editable(); err != nil {
		return nil, err
	}
	p, ok := c.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", placement.ErrNotFound, id)
	}
	if p.Locked {
		return nil, fmt.Errorf("%w: %q", placement.ErrPlacementLocked, id)
	}
	return p, nil
}

// requireIdle rejects a new gesture while another one runs.
func (c *Controller) requireIdle() error {
	if c.op.kind != opNone {
		return ErrBusy
	}
	return nil
}

// ClickCell applies the active tool to the table cell at (row, col).
// It returns the id of the placement created for the clicked row.
func (c *Controller) ClickCell(row int, col layout.Column) (string, error) {
	if err := c.life.Editable(); err != nil {
		return "", err
	}
	if err := c.requireIdle(); err != nil {
		return "", err
	}
	label, err := c.catalog.Label(row)
	if err != nil {
		return "", err
	}

	switch c.tool {
	case ToolNone:
		return "", ErrNoTool

	case ToolSignatureAll:
		if col != layout.ColumnAdviserSignature {
			return "", ErrWrongColumn
		}
		// Replacement must be all-or-nothing, so locked occupants are
		// checked before any row is touched.
		for _, l := range c.catalog.Labels() {
			if q, ok := c.store.LinkedOfClass(l, placement.KindLinkedSignature); ok && q.Locked {
				return "", fmt.Errorf("%w: %q", placement.ErrPlacementLocked, q.ID)
			}
		}
		for i, l := range c.catalog.Labels() {
			c.store.Put(&placement.Placement{
				ID:     l,
				Kind:   placement.KindLinkedSignature,
				Anchor: placement.CellAnchor{Row: i, Col: layout.ColumnAdviserSignature},
				Linked: l,
			})
		}
		c.log.Info("filled signature column",
			observability.Int("rows", c.catalog.Len()))
		return label, nil

	case ToolLinkedSignature:
		if col != layout.ColumnAdviserSignature {
			return "", ErrWrongColumn
		}
		if q, ok := c.store.LinkedOfClass(label, placement.KindLinkedSignature); ok && q.Locked {
			return "", fmt.Errorf("%w: %q", placement.ErrPlacementLocked, q.ID)
		}
		c.store.Put(&placement.Placement{
			ID:     label,
			Kind:   placement.KindLinkedSignature,
			Anchor: placement.CellAnchor{Row: row, Col: layout.ColumnAdviserSignature},
			Linked: label,
		})
		return label, nil

	case ToolDateStamp:
		if col != layout.ColumnDateComplied {
			return "", ErrWrongColumn
		}
		if q, ok := c.store.LinkedOfClass(label, placement.KindDateStamp); ok && q.Locked {
			return "", fmt.Errorf("%w: %q", placement.ErrPlacementLocked, q.ID)
		}
		id := c.store.NextDateStampID()
		c.store.Put(&placement.Placement{
			ID:     id,
			Kind:   placement.KindDateStamp,
			Anchor: placement.CellAnchor{Row: row, Col: layout.ColumnDateComplied},
			Linked: label,
		})
		return id, nil

	case ToolFreeSignature:
		// Free signatures are not cell-bound; the click seeds a drop at
		// the cell's origin and the snap engine takes it from there.
		cell := c.table.CellRect(row, col, c.view.PageHeight)
		res := c.engine.Resolve(c.scene(), snap.Request{
			Pos:  cell.Origin(),
			Size: c.sigSize,
			Mode: snap.ModeDrop,
		})
		id := c.store.NextFreeSignatureID()
		c.store.Put(&placement.Placement{
			ID:     id,
			Kind:   placement.KindFreeSignature,
			Anchor: placement.FreeAnchor{R: coords.Rect{X: res.Pos.X, Y: res.Pos.Y, W: c.sigSize.W, H: c.sigSize.H}},
		})
		return id, nil
	}
	return "", ErrNoTool
}

// Drop places the active tool's element at a display-space pointer on
// the open canvas. Cell-only tools are rejected with ErrNeedsCell.
func (c *Controller) Drop(pointer coords.Point) (string, snap.Guides, error) {
	if err := c.life.Editable(); err != nil {
		return "", snap.Guides{}, err
	}
	if err := c.requireIdle(); err != nil {
		return "", snap.Guides{}, err
	}

	var (
		kind placement.Kind
		size coords.Size
	)
	switch c.tool {
	case ToolFreeSignature:
		kind, size = placement.KindFreeSignature, c.sigSize
	case ToolDateStamp:
		kind, size = placement.KindDateStamp, c.stampSize
	case ToolSignatureAll, ToolLinkedSignature:
		return "", snap.Guides{}, ErrNeedsCell
	default:
		return "", snap.Guides{}, ErrNoTool
	}

	pos := c.view.ToDocument(pointer, size.H)
	res := c.engine.Resolve(c.scene(), snap.Request{
		Pos:  pos,
		Size: size,
		Mode: snap.ModeDrop,
	})

	var id string
	if kind == placement.KindDateStamp {
		id = c.store.NextDateStampID()
	} else {
		id = c.store.NextFreeSignatureID()
	}
	c.store.Put(&placement.Placement{
		ID:     id,
		Kind:   kind,
		Anchor: placement.FreeAnchor{R: coords.Rect{X: res.Pos.X, Y: res.Pos.Y, W: size.W, H: size.H}},
	})
	c.log.Info("dropped element",
		observability.String("placement", id),
		observability.Float64("x", res.Pos.X),
		observability.Float64("y", res.Pos.Y))
	return id, res.Guides, nil
}

// Remove deletes a placement. The element must be editable and not in
// the middle of a gesture.
func (c *Controller) Remove(id string) error {
	if c.op.kind != opNone && c.op.target == id {
		return ErrBusy
	}
	if _, err := c.editable(id); err != nil {
		return err
	}
	c.store.Delete(id)
	if c.selected == id {
		c.selected = ""
	}
	c.log.Info("removed element", observability.String("placement", id))
	return nil
}
