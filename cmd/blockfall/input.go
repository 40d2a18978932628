package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/blockfall/session"
)

// input turns keyboard state into session commands, repeating held
// left/right after RepeatDelay every RepeatRate seconds.
type input struct {
	MoveLeftTime  float64
	MoveRightTime float64
	RepeatDelay   float64
	RepeatRate    float64
	cmds          []session.Command
}

func newInput() *input {
	return &input{
		RepeatDelay: 0.17,
		RepeatRate:  0.05,
	}
}

func (in *input) repeat(key ebiten.Key, held *float64, dt float64, cmd session.Command) {
	switch {
	case inpututil.IsKeyJustPressed(key):
		*held = 0
		in.cmds = append(in.cmds, cmd)
	case ebiten.IsKeyPressed(key):
		*held += dt
		if *held > in.RepeatDelay {
			*held -= in.RepeatRate
			in.cmds = append(in.cmds, cmd)
		}
	default:
		*held = 0
	}
}

// Poll returns the commands for this frame.
func (in *input) Poll(dt float64) []session.Command {
	in.cmds = in.cmds[:0]

	in.repeat(ebiten.KeyLeft, &in.MoveLeftTime, dt, session.MoveLeft)
	in.repeat(ebiten.KeyRight, &in.MoveRightTime, dt, session.MoveRight)

	if inpututil.IsKeyJustPressed(ebiten.KeyUp) || inpututil.IsKeyJustPressed(ebiten.KeyX) {
		in.cmds = append(in.cmds, session.RotateClockwise)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		in.cmds = append(in.cmds, session.SoftDropStart)
	}
	if inpututil.IsKeyJustReleased(ebiten.KeyDown) {
		in.cmds = append(in.cmds, session.SoftDropEnd)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		in.cmds = append(in.cmds, session.HardDrop)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) || inpututil.IsKeyJustPressed(ebiten.KeyShiftLeft) {
		in.cmds = append(in.cmds, session.Hold)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		in.cmds = append(in.cmds, session.Restart)
	}
	return in.cmds
}
