// Package shape holds the static piece table: the seven piece kinds, their
// cell offsets for every rotation state and the default wall-kick sequence.
//
// Coordinates are (column, row) with row 0 at the floor and rows growing
// upward. Offsets are relative to the piece anchor; a piece rotates clockwise
// around its anchor.
package shape

import (
	"fmt"
	"strings"
)

// Kind identifies one of the seven pieces. The zero value is None.
type Kind uint8

const (
	None Kind = iota
	I
	O
	T
	S
	Z
	J
	L
)

// Count is the number of playable kinds.
const Count = 7

// Rotations is the number of rotation states of every piece.
const Rotations = 4

// CellsPerPiece is the number of cells in every piece.
const CellsPerPiece = 4

var kindNames = [...]string{None: "-", I: "I", O: "O", T: "T", S: "S", Z: "Z", J: "J", L: "L"}

// Kinds returns the full playable set in table order.
func Kinds() []Kind {
	return []Kind{I, O, T, S, Z, J, L}
}

// Valid reports whether k is one of the seven playable kinds.
func (k Kind) Valid() bool {
	return k >= I && k <= L
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind converts a one-letter name ("I", "t", ...) to a Kind.
func ParseKind(name string) (Kind, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for _, k := range Kinds() {
		if kindNames[k] == upper {
			return k, nil
		}
	}
	return None, fmt.Errorf("unknown piece kind %q", name)
}

// Cell is a (column, row) pair. It is used both for absolute grid positions
// and for offsets relative to an anchor.
type Cell struct {
	Col, Row int
}

// Add returns the component-wise sum of c and o.
func (c Cell) Add(o Cell) Cell {
	return Cell{Col: c.Col + o.Col, Row: c.Row + o.Row}
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Col, c.Row)
}

// Translate returns a new slice with every cell moved by offset.
func Translate(cells []Cell, offset Cell) []Cell {
	moved := make([]Cell, len(cells))
	for i, c := range cells {
		moved[i] = c.Add(offset)
	}
	return moved
}

// DefaultKicks returns the wall-kick offsets tried, in order, when a
// rotation collides: none, one column either way, one row either way, two
// columns either way, two rows either way.
func DefaultKicks() []Cell {
	return []Cell{
		{0, 0},
		{-1, 0},
		{1, 0},
		{0, 1},
		{0, -1},
		{-2, 0},
		{2, 0},
		{0, 2},
		{0, -2},
	}
}
