package overlay

import "stampkit/placement"

// Direction is an arrow-key nudge direction as the user sees the page.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Modifier selects the nudge step size.
type Modifier int

const (
	ModNone Modifier = iota
	// ModSecondary is the shift-level modifier.
	ModSecondary
	// ModPrimary is the platform primary modifier.
	ModPrimary
)

// Nudge moves the selected element one step: 1 unit plain, 5 with the
// secondary modifier, 10 with the primary one. While a text input owns
// keyboard focus the shortcut is swallowed without error. The element
// converts to a free rectangle and never leaves the page. Nudging does
// not snap.
func (c *Controller) Nudge(dir Direction, mod Modifier) error {
	if c.editingText {
		return nil
	}
	if err := c.requireIdle(); err != nil {
		return err
	}
	if c.selected == "" {
		return ErrNoSelection
	}
	p, err := c.editable(c.selected)
	if err != nil {
		return err
	}

	step := c.nudgeSteps[0]
	switch mod {
	case ModSecondary:
		step = c.nudgeSteps[1]
	case ModPrimary:
		step = c.nudgeSteps[2]
	}

	var dx, dy float64
	switch dir {
	case DirUp:
		// Screen-up is document +Y.
		dy = step
	case DirDown:
		dy = -step
	case DirLeft:
		dx = -step
	case DirRight:
		dx = step
	}

	r := p.Rect(c.table, c.view.PageHeight).Translate(dx, dy).Clamp(c.view.Bounds())
	return c.store.SetAnchor(p.ID, placement.FreeAnchor{R: r})
}
