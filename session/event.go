package session

import (
	"github.com/plus3/blockfall/playfield"
	"github.com/plus3/blockfall/shape"
)

// Event is emitted by the session for the presentation layer. The set of
// events is closed; switch on the concrete type.
type Event interface {
	isEvent()
}

// PieceSpawned is emitted when a piece enters play from the queue.
type PieceSpawned struct {
	Shape   shape.Kind
	Cells   []shape.Cell
	Ghost   []shape.Cell
	Preview []shape.Kind
}

// PieceMoved is emitted after a successful move left or right.
type PieceMoved struct {
	Cells []shape.Cell
	Ghost []shape.Cell
}

// PieceRotated is emitted after a successful rotation.
type PieceRotated struct {
	Cells []shape.Cell
	Ghost []shape.Cell
	// Kick is the offset that made the rotation fit.
	Kick shape.Cell
}

// MoveRejected reports a move or rotation that was blocked.
type MoveRejected struct {
	Command Command
}

// PieceFell reports gravity steps taken during a tick.
type PieceFell struct {
	Cells []shape.Cell
	Rows  int
}

// PieceLanded marks the start of the lock delay.
type PieceLanded struct {
	Cells []shape.Cell
}

// PieceLocked is emitted once the cells are committed to the field. Blocks[i]
// is the id written at Cells[i].
type PieceLocked struct {
	Shape  shape.Kind
	Cells  []shape.Cell
	Blocks []playfield.BlockID
}

// RowsPending announces full rows that wait for CommitClear.
type RowsPending struct {
	Rows []int
}

// RowsCleared reports collapsed rows with the new line and level counters.
type RowsCleared struct {
	Rows    []int
	Lines   int
	Level   int
	Removed []playfield.BlockID
}

// LevelUp is emitted when the line counter crosses a level threshold.
type LevelUp struct {
	Level int
}

// HoldSwapped is emitted when the active piece goes to the hold slot and
// Active comes into play in its place. Preview changes when Active was drawn
// from the queue.
type HoldSwapped struct {
	Active  shape.Kind
	Held    shape.Kind
	Cells   []shape.Cell
	Ghost   []shape.Cell
	Preview []shape.Kind
}

// GameOver is emitted when a locked piece tops out.
type GameOver struct {
	Lines int
	Level int
}

// Restarted is emitted after a Restart command resets the session.
type Restarted struct{}

func (PieceSpawned) isEvent() {}
func (PieceMoved) isEvent()   {}
func (PieceRotated) isEvent() {}
func (MoveRejected) isEvent() {}
func (PieceFell) isEvent()    {}
func (PieceLanded) isEvent()  {}
func (PieceLocked) isEvent()  {}
func (RowsPending) isEvent()  {}
func (RowsCleared) isEvent()  {}
func (LevelUp) isEvent()      {}
func (HoldSwapped) isEvent()  {}
func (GameOver) isEvent()     {}
func (Restarted) isEvent()    {}
