package debugui_test

import (
	"testing"

	"github.com/plus3/blockfall/debugui"
	"github.com/plus3/blockfall/session"
	"github.com/plus3/blockfall/shape"
	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	assert.Equal(t, "rejected left", debugui.Describe(session.MoveRejected{Command: session.MoveLeft}))
	assert.Equal(t, "cleared [0 1] lines 12 level 2",
		debugui.Describe(session.RowsCleared{Rows: []int{0, 1}, Lines: 12, Level: 2}))
	assert.Equal(t, "hold T, playing I",
		debugui.Describe(session.HoldSwapped{Active: shape.I, Held: shape.T}))
	assert.Equal(t, "rotated to [(4,5)] kick (-1,0)",
		debugui.Describe(session.PieceRotated{Cells: []shape.Cell{{Col: 4, Row: 5}}, Kick: shape.Cell{Col: -1}}))
}

func TestEventLog(t *testing.T) {
	log := debugui.NewEventLog(3)
	assert.Empty(t, log.Lines())

	log.Add(session.LevelUp{Level: 2})
	log.Add(session.PieceFell{Rows: 1})
	assert.Equal(t, []string{"level 2"}, log.Lines())

	log.Add(session.LevelUp{Level: 3})
	log.Add(session.LevelUp{Level: 4})
	log.Add(session.Restarted{})
	assert.Equal(t, []string{"level 3", "level 4", "restarted"}, log.Lines())

	log.Quiet = false
	log.Add(session.PieceFell{Rows: 2})
	assert.Equal(t, []string{"level 4", "restarted", "fell 2"}, log.Lines())
}
