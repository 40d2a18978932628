package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/blockfall/loop"
	"github.com/plus3/blockfall/playfield"
	"github.com/plus3/blockfall/session"
	"github.com/plus3/blockfall/shape"
)

const (
	originX = 14
	originY = 1
)

var kindColors = map[shape.Kind]tcell.Color{
	shape.I: tcell.NewRGBColor(102, 191, 255),
	shape.O: tcell.NewRGBColor(255, 203, 0),
	shape.T: tcell.NewRGBColor(135, 60, 190),
	shape.S: tcell.NewRGBColor(0, 158, 47),
	shape.Z: tcell.NewRGBColor(255, 109, 194),
	shape.J: tcell.NewRGBColor(0, 121, 241),
	shape.L: tcell.NewRGBColor(255, 161, 0),
}

var (
	borderStyle = tcell.StyleDefault.Foreground(tcell.NewRGBColor(90, 90, 110))
	emptyStyle  = tcell.StyleDefault.Foreground(tcell.NewRGBColor(40, 40, 52))
	ghostStyle  = tcell.StyleDefault.Foreground(tcell.NewRGBColor(150, 150, 150))
	flashStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorWhite)
	textStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// view tracks block kinds for colouring and flashes pending rows before
// committing a deferred clear.
type view struct {
	kinds      map[playfield.BlockID]shape.Kind
	clearDelay float64
	pending    []int
	remaining  float64
	elapsed    float64
	message    string
}

func newView(clearDelay time.Duration) *view {
	return &view{
		kinds:      make(map[playfield.BlockID]shape.Kind),
		clearDelay: clearDelay.Seconds(),
		message:    "press enter",
	}
}

func (v *view) Execute(frame *loop.Frame) {
	for _, e := range frame.Events {
		switch e := e.(type) {
		case session.PieceLocked:
			for _, id := range e.Blocks {
				v.kinds[id] = e.Shape
			}
		case session.RowsPending:
			v.pending = e.Rows
			v.remaining = v.clearDelay
		case session.RowsCleared:
			for _, id := range e.Removed {
				delete(v.kinds, id)
			}
		case session.LevelUp:
			v.message = fmt.Sprintf("level %d", e.Level)
		case session.GameOver:
			v.message = "game over"
		case session.Restarted:
			clear(v.kinds)
			v.pending = nil
			v.message = ""
		case session.PieceSpawned:
			if v.message == "press enter" {
				v.message = ""
			}
		}
	}

	if v.pending != nil && v.remaining <= 0 {
		frame.Commands.CommitClear(v.pending)
		v.pending = nil
	}
}

func (v *view) Advance(dt float64) {
	v.elapsed += dt
	if v.pending != nil {
		v.remaining -= dt
	}
}

// setCell draws one board cell, two terminal columns wide.
func setCell(screen tcell.Screen, height int, c shape.Cell, glyph rune, style tcell.Style) {
	if c.Row < 0 || c.Row >= height {
		return
	}
	x := originX + 1 + c.Col*2
	y := originY + height - 1 - c.Row
	screen.SetContent(x, y, glyph, nil, style)
	screen.SetContent(x+1, y, glyph, nil, style)
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

func (v *view) Draw(screen tcell.Screen, s *session.Session) {
	field := s.Field()
	width, height := field.Width(), field.Height()

	for y := 0; y < height; y++ {
		screen.SetContent(originX, originY+y, '│', nil, borderStyle)
		screen.SetContent(originX+1+width*2, originY+y, '│', nil, borderStyle)
	}
	for x := 0; x <= width*2+1; x++ {
		r := '─'
		switch x {
		case 0:
			r = '└'
		case width*2 + 1:
			r = '┘'
		}
		screen.SetContent(originX+x, originY+height, r, nil, borderStyle)
	}

	flashing := map[int]bool{}
	if int(v.elapsed*10)%2 == 0 {
		for _, r := range v.pending {
			flashing[r] = true
		}
	}

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			c := shape.Cell{Col: col, Row: row}
			id := field.At(c)
			switch {
			case id == playfield.NoBlock:
				setCell(screen, height, c, '·', emptyStyle)
			case flashing[row]:
				setCell(screen, height, c, '█', flashStyle)
			default:
				setCell(screen, height, c, '█', tcell.StyleDefault.Foreground(kindColors[v.kinds[id]]))
			}
		}
	}

	snap := s.Snapshot()
	for _, c := range snap.Ghost {
		setCell(screen, height, c, '░', ghostStyle)
	}
	for _, c := range snap.Cells {
		setCell(screen, height, c, '█', tcell.StyleDefault.Foreground(kindColors[snap.Active]))
	}

	sideX := originX + width*2 + 4
	drawText(screen, sideX, originY, textStyle, "NEXT")
	for i, k := range snap.Preview {
		drawMini(screen, k, sideX, originY+2+i*3)
	}

	drawText(screen, 1, originY, textStyle, "HOLD")
	if snap.Held != shape.None {
		drawMini(screen, snap.Held, 1, originY+2)
	}
	drawText(screen, 1, originY+6, textStyle, fmt.Sprintf("LINES %d", snap.Lines))
	drawText(screen, 1, originY+7, textStyle, fmt.Sprintf("LEVEL %d", snap.Level))
	if snap.SoftDrop {
		drawText(screen, 1, originY+9, ghostStyle, "soft drop")
	}
	if v.message != "" {
		drawText(screen, originX+2, originY+height+1, textStyle, v.message)
	}
}

// drawMini draws a piece in spawn rotation with its anchor near (x, y).
func drawMini(screen tcell.Screen, k shape.Kind, x, y int) {
	style := tcell.StyleDefault.Foreground(kindColors[k])
	for _, o := range shape.Lookup(k).Offsets(0) {
		px := x + (o.Col+1)*2
		py := y + 1 - o.Row
		screen.SetContent(px, py, '█', nil, style)
		screen.SetContent(px+1, py, '█', nil, style)
	}
}
