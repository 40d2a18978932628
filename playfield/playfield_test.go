package playfield_test

import (
	"testing"

	"github.com/plus3/blockfall/playfield"
	"github.com/plus3/blockfall/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fillRow commits blocks across row, skipping the listed columns, and returns
// the next free id.
func fillRow(t *testing.T, f *playfield.Field, row int, next playfield.BlockID, skip ...int) playfield.BlockID {
	t.Helper()
	skipped := map[int]bool{}
	for _, c := range skip {
		skipped[c] = true
	}
	for col := 0; col < f.Width(); col++ {
		if skipped[col] {
			continue
		}
		require.NoError(t, f.Commit([]shape.Cell{{Col: col, Row: row}}, []playfield.BlockID{next}))
		next++
	}
	return next
}

func TestCheckCollision(t *testing.T) {
	f := playfield.New(10, 20)
	require.NoError(t, f.Commit([]shape.Cell{{Col: 4, Row: 0}}, []playfield.BlockID{1}))

	t.Run("bounds", func(t *testing.T) {
		assert.True(t, f.CheckCollision([]shape.Cell{{Col: -1, Row: 5}}))
		assert.True(t, f.CheckCollision([]shape.Cell{{Col: 10, Row: 5}}))
		assert.True(t, f.CheckCollision([]shape.Cell{{Col: 3, Row: -1}}))
		assert.False(t, f.CheckCollision([]shape.Cell{{Col: 0, Row: 0}, {Col: 9, Row: 19}}))
	})

	t.Run("no ceiling", func(t *testing.T) {
		assert.False(t, f.CheckCollision([]shape.Cell{{Col: 4, Row: 20}, {Col: 4, Row: 25}}))
		assert.True(t, f.CheckCollision([]shape.Cell{{Col: -1, Row: 25}}))
	})

	t.Run("occupied", func(t *testing.T) {
		assert.True(t, f.CheckCollision([]shape.Cell{{Col: 3, Row: 0}, {Col: 4, Row: 0}}))
	})

	t.Run("pure", func(t *testing.T) {
		before := f.String()
		for i := 0; i < 3; i++ {
			f.CheckCollision([]shape.Cell{{Col: 4, Row: 0}, {Col: -3, Row: -3}, {Col: 2, Row: 40}})
		}
		assert.Equal(t, before, f.String())
		assert.Equal(t, 1, f.Len())
	})
}

func TestCommit(t *testing.T) {
	t.Run("writes cells and indexes ids", func(t *testing.T) {
		f := playfield.New(4, 4)
		err := f.Commit(
			[]shape.Cell{{0, 0}, {1, 0}, {1, 1}},
			[]playfield.BlockID{7, 8, 9})
		require.NoError(t, err)
		assert.Equal(t, playfield.BlockID(9), f.At(shape.Cell{Col: 1, Row: 1}))
		assert.Equal(t, 2, f.RowFill(0))
		cell, ok := f.Locate(8)
		require.True(t, ok)
		assert.Equal(t, shape.Cell{Col: 1, Row: 0}, cell)
	})

	t.Run("top out keeps earlier writes", func(t *testing.T) {
		f := playfield.New(4, 4)
		err := f.Commit(
			[]shape.Cell{{0, 3}, {0, 4}, {1, 3}},
			[]playfield.BlockID{1, 2, 3})
		assert.ErrorIs(t, err, playfield.ErrTopOut)
		assert.True(t, f.Occupied(shape.Cell{Col: 0, Row: 3}))
		assert.False(t, f.Occupied(shape.Cell{Col: 1, Row: 3}))
	})

	t.Run("misuse", func(t *testing.T) {
		f := playfield.New(4, 4)
		assert.ErrorIs(t, f.Commit([]shape.Cell{{0, 0}}, nil), playfield.ErrBlockCount)
		assert.ErrorIs(t, f.Commit([]shape.Cell{{-1, 0}}, []playfield.BlockID{1}), playfield.ErrOutOfBounds)
		assert.ErrorIs(t, f.Commit([]shape.Cell{{0, -1}}, []playfield.BlockID{1}), playfield.ErrOutOfBounds)
		assert.ErrorIs(t, f.Commit([]shape.Cell{{0, 0}}, []playfield.BlockID{playfield.NoBlock}), playfield.ErrInvalidBlock)
		assert.Zero(t, f.Len())
	})
}

func TestDetectFullRows(t *testing.T) {
	f := playfield.New(5, 6)
	next := fillRow(t, f, 0, 1)
	next = fillRow(t, f, 1, next, 2)
	fillRow(t, f, 3, next)

	assert.Equal(t, []int{0, 3}, f.DetectFullRows())
}

func TestClearAndCollapse(t *testing.T) {
	t.Run("empty set is a no-op", func(t *testing.T) {
		f := playfield.New(5, 6)
		fillRow(t, f, 0, 1, 1)
		before := f.String()
		assert.Nil(t, f.ClearAndCollapse(nil))
		assert.Nil(t, f.ClearAndCollapse(f.DetectFullRows()))
		assert.Equal(t, before, f.String())
	})

	t.Run("rows above shift by the cleared count below", func(t *testing.T) {
		f := playfield.New(4, 8)
		next := fillRow(t, f, 0, 1)
		next = fillRow(t, f, 1, next, 0)
		next = fillRow(t, f, 2, next)
		next = fillRow(t, f, 3, next)
		require.NoError(t, f.Commit([]shape.Cell{{2, 5}}, []playfield.BlockID{next}))

		removed := f.ClearAndCollapse([]int{0, 2, 3})
		assert.Len(t, removed, 12)
		assert.Equal(t, playfield.BlockID(1), removed[0])

		// row 1 had one full row below it, the lone block at row 5 had three
		assert.Equal(t, 3, f.RowFill(0))
		assert.False(t, f.Occupied(shape.Cell{Col: 0, Row: 0}))
		assert.True(t, f.Occupied(shape.Cell{Col: 2, Row: 2}))
		cell, ok := f.Locate(next)
		require.True(t, ok)
		assert.Equal(t, shape.Cell{Col: 2, Row: 2}, cell)
		assert.Equal(t, 4, f.Len())

		_, ok = f.Locate(1)
		assert.False(t, ok)
		assert.Empty(t, f.DetectFullRows())
	})

	t.Run("ignores duplicates and out of range rows", func(t *testing.T) {
		f := playfield.New(3, 3)
		fillRow(t, f, 0, 1)
		removed := f.ClearAndCollapse([]int{0, 0, -1, 7})
		assert.Len(t, removed, 3)
		assert.Zero(t, f.Len())
	})
}

func TestCloneAndClear(t *testing.T) {
	f := playfield.New(4, 4)
	fillRow(t, f, 0, 1, 3)

	c := f.Clone()
	f.Clear()
	assert.Zero(t, f.Len())
	assert.Zero(t, f.RowFill(0))
	assert.Equal(t, 3, c.Len())

	cell, ok := c.Locate(2)
	require.True(t, ok)
	assert.Equal(t, shape.Cell{Col: 1, Row: 0}, cell)
}

func TestString(t *testing.T) {
	f := playfield.New(3, 2)
	require.NoError(t, f.Commit([]shape.Cell{{0, 0}, {2, 1}}, []playfield.BlockID{1, 2}))
	assert.Equal(t, "..#\n#..\n", f.String())
}
