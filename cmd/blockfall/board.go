package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/blockfall/loop"
	"github.com/plus3/blockfall/playfield"
	"github.com/plus3/blockfall/session"
	"github.com/plus3/blockfall/shape"
)

var kindColors = map[shape.Kind]color.RGBA{
	shape.I: {102, 191, 255, 255},
	shape.O: {255, 203, 0, 255},
	shape.T: {135, 60, 190, 255},
	shape.S: {0, 158, 47, 255},
	shape.Z: {255, 109, 194, 255},
	shape.J: {0, 121, 241, 255},
	shape.L: {255, 161, 0, 255},
}

var (
	backgroundColor = color.RGBA{24, 24, 32, 255}
	gridColor       = color.RGBA{40, 40, 52, 255}
	ghostColor      = color.RGBA{255, 255, 255, 60}
	flashColor      = color.RGBA{255, 255, 255, 255}
)

// board remembers which kind every committed block came from and runs the
// row flash before a deferred clear is committed.
type board struct {
	kinds      map[playfield.BlockID]shape.Kind
	clearDelay float64
	pending    []int
	remaining  float64
	elapsed    float64
	message    string
}

func newBoard(clearDelay time.Duration) *board {
	return &board{
		kinds:      make(map[playfield.BlockID]shape.Kind),
		clearDelay: clearDelay.Seconds(),
		message:    "press enter",
	}
}

func (b *board) Execute(frame *loop.Frame) {
	for _, e := range frame.Events {
		switch e := e.(type) {
		case session.PieceLocked:
			for _, id := range e.Blocks {
				b.kinds[id] = e.Shape
			}
		case session.RowsPending:
			b.pending = e.Rows
			b.remaining = b.clearDelay
		case session.RowsCleared:
			for _, id := range e.Removed {
				delete(b.kinds, id)
			}
		case session.LevelUp:
			b.message = fmt.Sprintf("level %d", e.Level)
		case session.GameOver:
			b.message = "game over - press enter"
		case session.Restarted:
			clear(b.kinds)
			b.pending = nil
			b.message = ""
		case session.PieceSpawned:
			if b.message == "press enter" {
				b.message = ""
			}
		}
	}

	if b.pending != nil && b.remaining <= 0 {
		frame.Commands.CommitClear(b.pending)
		b.pending = nil
	}
}

// Advance runs the flash timer.
func (b *board) Advance(dt float64) {
	b.elapsed += dt
	if b.pending != nil {
		b.remaining -= dt
	}
}

func (b *board) cellRect(field playfield.Reader, originX float32, c shape.Cell) (float32, float32, bool) {
	if c.Row < 0 || c.Row >= field.Height() {
		return 0, 0, false
	}
	x := originX + float32(c.Col*CellSize)
	y := float32(40 + (field.Height()-1-c.Row)*CellSize)
	return x, y, true
}

func (b *board) Draw(screen *ebiten.Image, s *session.Session) {
	screen.Fill(backgroundColor)

	field := s.Field()
	width := float32(field.Width() * CellSize)
	originX := (float32(screen.Bounds().Dx()) - width) / 2

	flashing := map[int]bool{}
	if int(b.elapsed*10)%2 == 0 {
		for _, r := range b.pending {
			flashing[r] = true
		}
	}

	for row := 0; row < field.Height(); row++ {
		for col := 0; col < field.Width(); col++ {
			c := shape.Cell{Col: col, Row: row}
			x, y, _ := b.cellRect(field, originX, c)
			fill := gridColor
			if id := field.At(c); id != playfield.NoBlock {
				fill = kindColors[b.kinds[id]]
				if flashing[row] {
					fill = flashColor
				}
			}
			vector.DrawFilledRect(screen, x+1, y+1, CellSize-2, CellSize-2, fill, false)
		}
	}

	snap := s.Snapshot()
	for _, c := range snap.Ghost {
		if x, y, ok := b.cellRect(field, originX, c); ok {
			vector.StrokeRect(screen, x+2, y+2, CellSize-4, CellSize-4, 2, ghostColor, false)
		}
	}
	for _, c := range snap.Cells {
		if x, y, ok := b.cellRect(field, originX, c); ok {
			vector.DrawFilledRect(screen, x+1, y+1, CellSize-2, CellSize-2, kindColors[snap.Active], false)
		}
	}

	sideX := originX + width + 24
	ebitenutil.DebugPrintAt(screen, "NEXT", int(sideX), 40)
	for i, k := range snap.Preview {
		drawMini(screen, k, sideX, float32(60+i*56))
	}

	holdX := originX - 24 - 4*CellSize/2
	ebitenutil.DebugPrintAt(screen, "HOLD", int(holdX), 40)
	if snap.Held != shape.None {
		drawMini(screen, snap.Held, holdX, 60)
	}

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("LINES %d\nLEVEL %d", snap.Lines, snap.Level), int(holdX), 140)
	if b.message != "" {
		ebitenutil.DebugPrintAt(screen, b.message, int(originX), 16)
	}
}

// drawMini draws a piece at half size with its anchor near (x, y).
func drawMini(screen *ebiten.Image, k shape.Kind, x, y float32) {
	const size = CellSize / 2
	for _, o := range shape.Lookup(k).Offsets(0) {
		px := x + float32((o.Col+1)*size)
		py := y + float32((1-o.Row)*size)
		vector.DrawFilledRect(screen, px, py, size-1, size-1, kindColors[k], false)
	}
}
