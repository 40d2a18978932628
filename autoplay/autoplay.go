// Package autoplay picks placements for the active piece and turns them
// into commands. Candidates are the positions reachable by rotating in place
// at the start position, shifting sideways and dropping straight down; each
// is scored on a copy of the field.
package autoplay

import (
	"math"

	"github.com/plus3/blockfall/piece"
	"github.com/plus3/blockfall/playfield"
	"github.com/plus3/blockfall/session"
	"github.com/plus3/blockfall/shape"
)

// Placement is a reachable resting position for a piece.
type Placement struct {
	Kind      shape.Kind
	Rotations int
	// Shift is the column offset after rotating, negative to the left.
	Shift    int
	Cells    []shape.Cell
	Features Features
	Score    float64
}

// Commands returns the input that steers the piece from its start position
// into the placement and drops it.
func (p Placement) Commands() []session.Command {
	cmds := make([]session.Command, 0, p.Rotations+abs(p.Shift)+1)
	for i := 0; i < p.Rotations; i++ {
		cmds = append(cmds, session.RotateClockwise)
	}
	move := session.MoveRight
	if p.Shift < 0 {
		move = session.MoveLeft
	}
	for i := 0; i < abs(p.Shift); i++ {
		cmds = append(cmds, move)
	}
	return append(cmds, session.HardDrop)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// placementID is far above anything a session allocates.
const placementID playfield.BlockID = math.MaxUint32 - shape.CellsPerPiece

// Planner scores placements with a fixed set of weights.
type Planner struct {
	Weights Weights
}

// NewPlanner returns a planner using DefaultWeights.
func NewPlanner() *Planner {
	return &Planner{Weights: DefaultWeights()}
}

// Plan runs the default planner.
func Plan(field playfield.Reader, k shape.Kind, from shape.Cell, kicks []shape.Cell) (Placement, bool) {
	return NewPlanner().Plan(field, k, from, kicks)
}

// Plan returns the best placement for a piece of kind k whose anchor sits at
// from in rotation 0. It returns false when every candidate tops out.
func (p *Planner) Plan(field playfield.Reader, k shape.Kind, from shape.Cell, kicks []shape.Cell) (Placement, bool) {
	var best Placement
	found := false
	seen := map[[shape.CellsPerPiece]shape.Cell]bool{}

	for _, candidate := range candidates(field, k, from, kicks) {
		key := [shape.CellsPerPiece]shape.Cell(candidate.Cells)
		if seen[key] {
			continue
		}
		seen[key] = true

		if !p.evaluate(field, &candidate) {
			continue
		}
		if !found || candidate.Score > best.Score {
			best = candidate
			found = true
		}
	}
	return best, found
}

func (p *Planner) evaluate(field playfield.Reader, c *Placement) bool {
	scratch := field.Clone()
	ids := make([]playfield.BlockID, len(c.Cells))
	for i := range ids {
		ids[i] = placementID + playfield.BlockID(i)
	}
	if err := scratch.Commit(c.Cells, ids); err != nil {
		return false
	}
	rows := scratch.DetectFullRows()
	scratch.ClearAndCollapse(rows)

	c.Features = Features{
		LandingHeight: landingHeight(c.Cells),
		RowsCleared:   len(rows),
	}
	measure(scratch, &c.Features)
	c.Score = p.Weights.Score(c.Features)
	return true
}

// candidates walks a probe piece through every rotation and sideways shift
// and records where it would land.
func candidates(field playfield.Reader, k shape.Kind, from shape.Cell, kicks []shape.Cell) []Placement {
	var out []Placement
	probe := func(rotations int) *piece.Controller {
		c := piece.Spawn(field, k, from, piece.Options{Kicks: kicks})
		for i := 0; i < rotations; i++ {
			if _, ok := c.RotateClockwise(); !ok {
				return nil
			}
		}
		return c
	}

	for r := 0; r < shape.Rotations; r++ {
		c := probe(r)
		if c == nil {
			continue
		}
		out = append(out, Placement{Kind: k, Rotations: r, Cells: c.Ghost()})

		for _, dir := range []int{-1, 1} {
			c = probe(r)
			for shift := dir; ; shift += dir {
				var moved bool
				if dir < 0 {
					moved = c.MoveLeft()
				} else {
					moved = c.MoveRight()
				}
				if !moved {
					break
				}
				out = append(out, Placement{Kind: k, Rotations: r, Shift: shift, Cells: c.Ghost()})
			}
		}
	}
	return out
}
