package autoplay_test

import (
	"testing"

	"github.com/plus3/blockfall/autoplay"
	"github.com/plus3/blockfall/loop"
	"github.com/plus3/blockfall/playfield"
	"github.com/plus3/blockfall/session"
	"github.com/plus3/blockfall/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var spawn = shape.Cell{Col: 4, Row: 19}

func TestPlan(t *testing.T) {
	t.Run("flat bar on an empty field", func(t *testing.T) {
		f := playfield.New(10, 20)
		p, ok := autoplay.Plan(f, shape.I, spawn, shape.DefaultKicks())
		require.True(t, ok)
		assert.Equal(t, 0, p.Rotations%2)
		for _, c := range p.Cells {
			assert.Equal(t, 0, c.Row)
		}
	})

	t.Run("completes a row", func(t *testing.T) {
		f := playfield.New(10, 20)
		for col := 0; col < 9; col++ {
			require.NoError(t, f.Commit(
				[]shape.Cell{{Col: col, Row: 0}},
				[]playfield.BlockID{playfield.BlockID(col + 1)}))
		}
		p, ok := autoplay.Plan(f, shape.I, spawn, shape.DefaultKicks())
		require.True(t, ok)
		assert.Equal(t, 1, p.Features.RowsCleared)
		assert.Contains(t, p.Cells, shape.Cell{Col: 9, Row: 0})
		assert.Equal(t, 9, f.Len(), "planning leaves the field alone")
	})

	t.Run("nothing fits", func(t *testing.T) {
		f := playfield.New(4, 2)
		require.NoError(t, f.Commit(
			[]shape.Cell{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}},
			[]playfield.BlockID{1, 2, 3, 4, 5, 6}))
		_, ok := autoplay.Plan(f, shape.O, shape.Cell{Col: 1, Row: 1}, shape.DefaultKicks())
		assert.False(t, ok)
	})
}

func TestPlacementCommands(t *testing.T) {
	p := autoplay.Placement{Rotations: 1, Shift: -2}
	assert.Equal(t, []session.Command{
		session.RotateClockwise,
		session.MoveLeft,
		session.MoveLeft,
		session.HardDrop,
	}, p.Commands())

	p = autoplay.Placement{Shift: 3}
	assert.Equal(t, []session.Command{
		session.MoveRight,
		session.MoveRight,
		session.MoveRight,
		session.HardDrop,
	}, p.Commands())
}

func TestPlayer(t *testing.T) {
	cfg := session.DefaultConfig()
	cfg.Seed = 17
	s, err := session.New(cfg)
	require.NoError(t, err)

	r := loop.NewRunner(s)
	player := autoplay.NewPlayer(cfg)
	player.UseHold = true
	r.Subscribe(player)

	r.Start()
	for i := 0; i < 1000; i++ {
		r.Once(1.0 / 60)
	}

	assert.Greater(t, player.Placed, 100)
	assert.Zero(t, player.Stuck)
	assert.GreaterOrEqual(t, s.Lines(), 10)
	assert.NotEqual(t, session.Over, s.State())
}

func TestPlayerCommitsDeferredClears(t *testing.T) {
	cfg := session.DefaultConfig()
	cfg.Seed = 5
	cfg.DeferClear = true
	s, err := session.New(cfg)
	require.NoError(t, err)

	r := loop.NewRunner(s)
	r.Subscribe(autoplay.NewPlayer(cfg))
	r.Start()
	for i := 0; i < 600; i++ {
		r.Once(1.0 / 60)
	}
	assert.Greater(t, s.Lines(), 0)
	assert.Zero(t, r.Stats().RejectedClears)
}
