package session

import (
	"github.com/plus3/blockfall/piece"
	"github.com/plus3/blockfall/shape"
)

// Snapshot is a copy of the session state for display. It shares nothing
// with the session.
type Snapshot struct {
	State      State
	Lines      int
	Level      int
	Active     shape.Kind
	PieceState piece.State
	Anchor     shape.Cell
	Rotation   int
	Cells      []shape.Cell
	Ghost      []shape.Cell
	Held       shape.Kind
	CanHold    bool
	Preview    []shape.Kind
	Pending    []int
	SoftDrop   bool
	Blocks     int
}

// Snapshot captures the current state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:    s.state,
		Lines:    s.lines,
		Level:    s.level,
		Held:     s.source.Held(),
		Preview:  s.source.Peek(s.cfg.Preview),
		Pending:  s.PendingRows(),
		SoftDrop: s.softDrop,
		Blocks:   s.field.Len(),
	}
	if s.active != nil {
		snap.Active = s.active.Kind()
		snap.PieceState = s.active.State()
		snap.Anchor = s.active.Anchor()
		snap.Rotation = s.active.Rotation()
		snap.Cells = s.active.Cells()
		snap.Ghost = s.active.Ghost()
		snap.CanHold = s.active.CanHold() && s.source.CanHold()
	}
	return snap
}
