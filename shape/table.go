package shape

// Definition is the immutable description of one piece kind. Definitions are
// built once and shared by every piece of that kind.
type Definition struct {
	kind    Kind
	offsets [Rotations][CellsPerPiece]Cell
}

// spawnOffsets are the rotation-0 layouts. The anchor is the cell at (0,0).
var spawnOffsets = [...][CellsPerPiece]Cell{
	I: {{-1, 0}, {0, 0}, {1, 0}, {2, 0}},
	O: {{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	T: {{-1, 0}, {0, 0}, {1, 0}, {0, 1}},
	S: {{-1, 0}, {0, 0}, {0, 1}, {1, 1}},
	Z: {{-1, 1}, {0, 1}, {0, 0}, {1, 0}},
	J: {{-1, 1}, {-1, 0}, {0, 0}, {1, 0}},
	L: {{-1, 0}, {0, 0}, {1, 0}, {1, 1}},
}

var definitions = buildDefinitions()

func buildDefinitions() [L + 1]*Definition {
	var table [L + 1]*Definition
	for _, k := range Kinds() {
		def := &Definition{kind: k}
		def.offsets[0] = spawnOffsets[k]
		for r := 1; r < Rotations; r++ {
			if k == O {
				// The square looks the same in every state; rotating it
				// around a corner cell would make it wander.
				def.offsets[r] = def.offsets[0]
				continue
			}
			def.offsets[r] = rotateClockwise(def.offsets[r-1])
		}
		table[k] = def
	}
	return table
}

// rotateClockwise maps (x, y) to (y, -x), a quarter turn clockwise with rows
// growing upward.
func rotateClockwise(cells [CellsPerPiece]Cell) [CellsPerPiece]Cell {
	var rotated [CellsPerPiece]Cell
	for i, c := range cells {
		rotated[i] = Cell{Col: c.Row, Row: -c.Col}
	}
	return rotated
}

// Lookup returns the shared definition for k. It panics if k is not one of
// the seven playable kinds.
func Lookup(k Kind) *Definition {
	if !k.Valid() {
		panic("shape: no definition for kind " + k.String())
	}
	return definitions[k]
}

// Kind returns the kind this definition describes.
func (d *Definition) Kind() Kind {
	return d.kind
}

// Offsets returns the relative cell offsets for a rotation state.
// The rotation is normalised into [0, Rotations).
func (d *Definition) Offsets(rotation int) [CellsPerPiece]Cell {
	return d.offsets[NormalizeRotation(rotation)]
}

// Place returns the absolute cells of the piece in the given rotation with
// its anchor at anchor.
func (d *Definition) Place(rotation int, anchor Cell) []Cell {
	offsets := d.Offsets(rotation)
	cells := make([]Cell, CellsPerPiece)
	for i, o := range offsets {
		cells[i] = anchor.Add(o)
	}
	return cells
}

// NormalizeRotation maps any integer onto a rotation state 0..3.
func NormalizeRotation(rotation int) int {
	return ((rotation % Rotations) + Rotations) % Rotations
}
