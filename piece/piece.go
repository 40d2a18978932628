// Package piece implements the state machine of the active piece: fall and
// lock-delay timing, lateral moves, kicked rotation, ghost projection and
// hold eligibility.
package piece

import (
	"time"

	"github.com/plus3/blockfall/shape"
)

// State is the lifecycle state of an active piece.
type State int

const (
	Falling State = iota
	Landing
	Locked
	Held
)

var stateNames = [...]string{Falling: "falling", Landing: "landing", Locked: "locked", Held: "held"}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Active reports whether the piece is still in play.
func (s State) Active() bool {
	return s == Falling || s == Landing
}

// Collider answers whether a set of absolute cells is blocked.
// *playfield.Field satisfies it.
type Collider interface {
	CheckCollision(cells []shape.Cell) bool
}

// Timing holds the intervals a piece runs on. Fall is the gravity interval
// for the current level.
type Timing struct {
	Fall               time.Duration
	SoftDropMultiplier float64
	HardDrop           time.Duration
	LockDelay          time.Duration
}

// maxSpawnRaise bounds how far a blocked spawn is pushed upward.
const maxSpawnRaise = 64

// Step reports what happened during one Advance call.
type Step struct {
	Fell   int
	Landed bool
	Locked bool
}

// Controller drives a single piece from spawn until it locks or is held.
type Controller struct {
	field    Collider
	def      *shape.Definition
	kicks    []shape.Cell
	timing   Timing
	rotation int
	anchor   shape.Cell
	state    State
	holdable bool

	softDrop    bool
	hardDrop    bool
	fallElapsed time.Duration
	lockElapsed time.Duration
}

// Options configures a spawned piece.
type Options struct {
	Timing   Timing
	Kicks    []shape.Cell
	Holdable bool
	SoftDrop bool
}

// Spawn places a piece of kind k at anchor in rotation 0. If the spawn cells
// overlap the stack the piece is raised one row at a time until they do not;
// cells above the visible field never collide, so a blocked spawn ends up
// above the top and tops out when it locks.
func Spawn(field Collider, k shape.Kind, anchor shape.Cell, opts Options) *Controller {
	kicks := opts.Kicks
	if len(kicks) == 0 {
		kicks = []shape.Cell{{}}
	}
	c := &Controller{
		field:    field,
		def:      shape.Lookup(k),
		kicks:    kicks,
		timing:   opts.Timing,
		anchor:   anchor,
		state:    Falling,
		holdable: opts.Holdable,
		softDrop: opts.SoftDrop,
	}
	for i := 0; i < maxSpawnRaise && c.collides(c.rotation, c.anchor); i++ {
		c.anchor.Row++
	}
	return c
}

func (c *Controller) Kind() shape.Kind   { return c.def.Kind() }
func (c *Controller) State() State       { return c.state }
func (c *Controller) Rotation() int      { return c.rotation }
func (c *Controller) Anchor() shape.Cell { return c.anchor }

// CanHold reports whether Hold would succeed right now.
func (c *Controller) CanHold() bool {
	return c.holdable && c.state.Active()
}

// Cells returns the absolute cells the piece occupies.
func (c *Controller) Cells() []shape.Cell {
	return c.def.Place(c.rotation, c.anchor)
}

// Ghost returns the cells the piece would occupy if it dropped straight down
// from its current column and rotation.
func (c *Controller) Ghost() []shape.Cell {
	anchor := c.anchor
	for !c.collides(c.rotation, shape.Cell{Col: anchor.Col, Row: anchor.Row - 1}) {
		anchor.Row--
	}
	return c.def.Place(c.rotation, anchor)
}

func (c *Controller) collides(rotation int, anchor shape.Cell) bool {
	return c.field.CheckCollision(c.def.Place(rotation, anchor))
}

// interval is the current gravity interval after soft and hard drop.
func (c *Controller) interval() time.Duration {
	switch {
	case c.hardDrop:
		return c.timing.HardDrop
	case c.softDrop && c.timing.SoftDropMultiplier > 0:
		return time.Duration(float64(c.timing.Fall) / c.timing.SoftDropMultiplier)
	default:
		return c.timing.Fall
	}
}

func (c *Controller) lockDelay() time.Duration {
	if c.hardDrop {
		return 0
	}
	return c.timing.LockDelay
}

// moved is called after every successful move or rotation.
func (c *Controller) moved() {
	if c.state == Landing {
		c.state = Falling
		c.fallElapsed = 0
		c.lockElapsed = 0
	}
}

func (c *Controller) shift(dcol int) bool {
	if !c.state.Active() {
		return false
	}
	next := shape.Cell{Col: c.anchor.Col + dcol, Row: c.anchor.Row}
	if c.collides(c.rotation, next) {
		return false
	}
	c.anchor = next
	c.moved()
	return true
}

// MoveLeft shifts the piece one column left. It returns false and leaves the
// piece unchanged when the move is blocked.
func (c *Controller) MoveLeft() bool { return c.shift(-1) }

// MoveRight shifts the piece one column right.
func (c *Controller) MoveRight() bool { return c.shift(1) }

// RotateClockwise turns the piece a quarter clockwise, trying each kick
// offset in order and keeping the first that fits. It returns the kick used,
// or false with the piece unchanged if every offset collides.
func (c *Controller) RotateClockwise() (shape.Cell, bool) {
	if !c.state.Active() {
		return shape.Cell{}, false
	}
	rotation := shape.NormalizeRotation(c.rotation + 1)
	for _, kick := range c.kicks {
		anchor := c.anchor.Add(kick)
		if c.collides(rotation, anchor) {
			continue
		}
		c.rotation = rotation
		c.anchor = anchor
		c.moved()
		return kick, true
	}
	return shape.Cell{}, false
}

// SetSoftDrop switches the shortened gravity interval on or off.
func (c *Controller) SetSoftDrop(on bool) {
	c.softDrop = on
}

// SoftDrop reports whether soft drop is engaged.
func (c *Controller) SoftDrop() bool {
	return c.softDrop
}

// HardDrop switches to the hard-drop interval. A hard-dropped piece locks
// as soon as it lands, without lock delay.
func (c *Controller) HardDrop() {
	if c.state.Active() {
		c.hardDrop = true
	}
}

// Hold takes the piece out of play. It returns false if the piece may not be
// held.
func (c *Controller) Hold() bool {
	if !c.CanHold() {
		return false
	}
	c.state = Held
	c.holdable = false
	return true
}

// Advance runs the timers forward by dt. Gravity steps are taken for every
// full interval elapsed; time left over after a blocked step counts toward
// the lock delay, so the outcome does not depend on how dt is sliced.
func (c *Controller) Advance(dt time.Duration) Step {
	var step Step
	if !c.state.Active() || dt < 0 {
		return step
	}

	if c.state == Falling {
		budget := c.fallElapsed + dt
		interval := c.interval()
		dt = 0
		for c.state == Falling && budget >= interval {
			budget -= interval
			below := shape.Cell{Col: c.anchor.Col, Row: c.anchor.Row - 1}
			if !c.collides(c.rotation, below) {
				c.anchor = below
				step.Fell++
				continue
			}
			c.state = Landing
			c.lockElapsed = 0
			step.Landed = true
			dt = budget
			budget = 0
		}
		c.fallElapsed = budget
	}

	if c.state == Landing {
		c.lockElapsed += dt
		if c.lockElapsed >= c.lockDelay() {
			c.state = Locked
			step.Locked = true
		}
	}
	return step
}
