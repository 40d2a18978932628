// Package playfield owns the grid of committed blocks. It answers collision
// queries, commits landed pieces, finds full rows and collapses them.
//
// Row 0 is the floor. The field has no ceiling: cells at or above Height
// never collide, which lets pieces spawn partially above the visible area,
// but they can never be committed there.
package playfield

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kamstrup/intmap"
	"github.com/plus3/blockfall/shape"
)

// BlockID correlates a committed cell with whatever the presentation layer
// drew for it. The zero value marks an empty cell.
type BlockID uint32

// NoBlock is the content of an empty cell.
const NoBlock BlockID = 0

var (
	// ErrTopOut is returned by Commit when a cell lies at or above the
	// visible top of the field.
	ErrTopOut = errors.New("playfield: cell above visible field")
	// ErrOutOfBounds is returned by Commit for cells left, right or below
	// the field.
	ErrOutOfBounds = errors.New("playfield: cell out of bounds")
	// ErrBlockCount is returned by Commit when cells and ids differ in length.
	ErrBlockCount = errors.New("playfield: block id count mismatch")
	// ErrInvalidBlock is returned by Commit for a NoBlock id.
	ErrInvalidBlock = errors.New("playfield: block id must be non-zero")
)

// Reader is the read-only view of a field handed to presentation code.
type Reader interface {
	Width() int
	Height() int
	At(c shape.Cell) BlockID
	Occupied(c shape.Cell) bool
	RowFill(row int) int
	CheckCollision(cells []shape.Cell) bool
	DetectFullRows() []int
	Locate(id BlockID) (shape.Cell, bool)
	Len() int
	Clone() *Field
}

// Field is a fixed-size grid of block ids.
type Field struct {
	width  int
	height int
	cells  []BlockID
	fill   []int
	index  *intmap.Map[BlockID, shape.Cell]
}

var _ Reader = (*Field)(nil)

// New creates an empty width x height field. Non-positive dimensions are
// clamped to one.
func New(width, height int) *Field {
	width = max(width, 1)
	height = max(height, 1)
	return &Field{
		width:  width,
		height: height,
		cells:  make([]BlockID, width*height),
		fill:   make([]int, height),
		index:  intmap.New[BlockID, shape.Cell](width * height),
	}
}

// Width returns the number of columns.
func (f *Field) Width() int { return f.width }

// Height returns the number of visible rows.
func (f *Field) Height() int { return f.height }

// Len returns the number of occupied cells.
func (f *Field) Len() int {
	return f.index.Len()
}

func (f *Field) inBounds(c shape.Cell) bool {
	return c.Col >= 0 && c.Col < f.width && c.Row >= 0 && c.Row < f.height
}

func (f *Field) offset(c shape.Cell) int {
	return c.Row*f.width + c.Col
}

// At returns the block id at c, or NoBlock for empty or out-of-range cells.
func (f *Field) At(c shape.Cell) BlockID {
	if !f.inBounds(c) {
		return NoBlock
	}
	return f.cells[f.offset(c)]
}

// Occupied reports whether c holds a committed block.
func (f *Field) Occupied(c shape.Cell) bool {
	return f.At(c) != NoBlock
}

// RowFill returns the number of occupied cells in row.
func (f *Field) RowFill(row int) int {
	if row < 0 || row >= f.height {
		return 0
	}
	return f.fill[row]
}

// Locate returns where the block with the given id currently sits.
func (f *Field) Locate(id BlockID) (shape.Cell, bool) {
	return f.index.Get(id)
}

// CheckCollision reports whether any cell is left of column 0, right of the
// last column, below row 0, or on an occupied cell. Cells at or above the
// visible top never collide. The field is not modified.
func (f *Field) CheckCollision(cells []shape.Cell) bool {
	for _, c := range cells {
		if c.Col < 0 || c.Col >= f.width || c.Row < 0 {
			return true
		}
		if c.Row >= f.height {
			continue
		}
		if f.cells[f.offset(c)] != NoBlock {
			return true
		}
	}
	return false
}

// Commit writes ids[i] at cells[i] in order. It stops at the first bad cell
// without undoing the writes already made; a top-out is reported as
// ErrTopOut and the caller is expected to end the game.
func (f *Field) Commit(cells []shape.Cell, ids []BlockID) error {
	if len(cells) != len(ids) {
		return fmt.Errorf("%w: %d cells, %d ids", ErrBlockCount, len(cells), len(ids))
	}
	for i, c := range cells {
		switch {
		case c.Row >= f.height && c.Col >= 0 && c.Col < f.width:
			return fmt.Errorf("%w: %s", ErrTopOut, c)
		case !f.inBounds(c):
			return fmt.Errorf("%w: %s", ErrOutOfBounds, c)
		case ids[i] == NoBlock:
			return fmt.Errorf("%w: at %s", ErrInvalidBlock, c)
		}
		f.set(c, ids[i])
	}
	return nil
}

func (f *Field) set(c shape.Cell, id BlockID) {
	off := f.offset(c)
	if prev := f.cells[off]; prev != NoBlock {
		f.index.Del(prev)
	} else {
		f.fill[c.Row]++
	}
	f.cells[off] = id
	f.index.Put(id, c)
}

// DetectFullRows returns the indices of every row whose columns are all
// occupied, in ascending order.
func (f *Field) DetectFullRows() []int {
	var rows []int
	for row, n := range f.fill {
		if n == f.width {
			rows = append(rows, row)
		}
	}
	return rows
}

// ClearAndCollapse empties the given rows and moves every row above them
// down by the number of cleared rows strictly below it. Rows outside the
// field and duplicates are ignored. It returns the ids that were removed,
// bottom row first. An empty row set leaves the field untouched.
func (f *Field) ClearAndCollapse(rows []int) []BlockID {
	cleared := make([]bool, f.height)
	touched := false
	for _, r := range rows {
		if r >= 0 && r < f.height {
			cleared[r] = true
			touched = true
		}
	}
	if !touched {
		return nil
	}

	var removed []BlockID
	dst := 0
	for src := 0; src < f.height; src++ {
		row := f.cells[src*f.width : (src+1)*f.width]
		if cleared[src] {
			for _, id := range row {
				if id != NoBlock {
					removed = append(removed, id)
					f.index.Del(id)
				}
			}
			continue
		}
		if dst != src {
			copy(f.cells[dst*f.width:(dst+1)*f.width], row)
			f.fill[dst] = f.fill[src]
			for col, id := range row {
				if id != NoBlock {
					f.index.Put(id, shape.Cell{Col: col, Row: dst})
				}
			}
		}
		dst++
	}
	for r := dst; r < f.height; r++ {
		clear(f.cells[r*f.width : (r+1)*f.width])
		f.fill[r] = 0
	}
	return removed
}

// Clear empties the whole field.
func (f *Field) Clear() {
	clear(f.cells)
	clear(f.fill)
	f.index.Clear()
}

// Clone returns an independent copy of the field.
func (f *Field) Clone() *Field {
	c := &Field{
		width:  f.width,
		height: f.height,
		cells:  append([]BlockID(nil), f.cells...),
		fill:   append([]int(nil), f.fill...),
		index:  intmap.New[BlockID, shape.Cell](f.width * f.height),
	}
	for off, id := range c.cells {
		if id != NoBlock {
			c.index.Put(id, shape.Cell{Col: off % f.width, Row: off / f.width})
		}
	}
	return c
}

// String draws the field top row first, '#' for blocks and '.' for empty.
func (f *Field) String() string {
	var b strings.Builder
	b.Grow((f.width + 1) * f.height)
	for row := f.height - 1; row >= 0; row-- {
		for col := 0; col < f.width; col++ {
			if f.cells[row*f.width+col] != NoBlock {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
