package autoplay

import (
	"github.com/plus3/blockfall/playfield"
	"github.com/plus3/blockfall/shape"
)

// Weights scale the board features into a placement score. Positive weights
// reward a feature, negative weights punish it.
type Weights struct {
	LandingHeight  float64
	RowsCleared    float64
	RowTransitions float64
	ColTransitions float64
	Holes          float64
	Wells          float64
}

// DefaultWeights are Pierre Dellacherie's features with El-Tetris tuning.
func DefaultWeights() Weights {
	return Weights{
		LandingHeight:  -4.500158825082766,
		RowsCleared:    3.4181268101392694,
		RowTransitions: -3.2178882868487753,
		ColTransitions: -9.348695305445199,
		Holes:          -7.899265427351652,
		Wells:          -3.3855972247263626,
	}
}

// Features are measured on the field after the piece locked and full rows
// were collapsed.
type Features struct {
	LandingHeight  float64
	RowsCleared    int
	RowTransitions int
	ColTransitions int
	Holes          int
	Wells          int
}

func (w Weights) Score(f Features) float64 {
	return w.LandingHeight*f.LandingHeight +
		w.RowsCleared*float64(f.RowsCleared) +
		w.RowTransitions*float64(f.RowTransitions) +
		w.ColTransitions*float64(f.ColTransitions) +
		w.Holes*float64(f.Holes) +
		w.Wells*float64(f.Wells)
}

// measure fills in the board features of field. Walls and the floor count
// as filled.
func measure(field playfield.Reader, f *Features) {
	width, height := field.Width(), field.Height()
	filled := func(col, row int) bool {
		if col < 0 || col >= width || row < 0 {
			return true
		}
		return field.Occupied(shape.Cell{Col: col, Row: row})
	}

	for row := 0; row < height; row++ {
		for col := 0; col <= width; col++ {
			if filled(col-1, row) != filled(col, row) {
				f.RowTransitions++
			}
		}
	}

	for col := 0; col < width; col++ {
		for row := 0; row < height; row++ {
			if filled(col, row) != filled(col, row-1) {
				f.ColTransitions++
			}
		}

		covered := false
		for row := height - 1; row >= 0; row-- {
			if filled(col, row) {
				covered = true
			} else if covered {
				f.Holes++
			}
		}

		depth := 0
		for row := height - 1; row >= 0; row-- {
			if !filled(col, row) && filled(col-1, row) && filled(col+1, row) {
				depth++
				f.Wells += depth
				continue
			}
			depth = 0
		}
	}
}

func landingHeight(cells []shape.Cell) float64 {
	sum := 0
	for _, c := range cells {
		sum += c.Row
	}
	return float64(sum) / float64(len(cells))
}
