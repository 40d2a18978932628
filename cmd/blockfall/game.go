package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/blockfall/debugui"
	debugui_ebiten "github.com/plus3/blockfall/debugui/ebiten"
	"github.com/plus3/blockfall/loop"
	"github.com/plus3/blockfall/session"
)

type Game struct {
	runner       *loop.Runner
	board        *board
	input        *input
	demo         bool
	imguiBackend *debugui_ebiten.ImguiBackend
	overlay      *debugui.Overlay
	started      bool
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyQ) || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if g.imguiBackend != nil {
		g.imguiBackend.Frame(g.tick)
	} else {
		g.tick()
	}
	return nil
}

func (g *Game) tick() {
	const dt = 1.0 / TickRate

	if !g.started {
		g.started = true
		if g.demo {
			g.runner.Start()
			return
		}
	}

	capture := g.overlay != nil && g.overlay.InputState.WantCaptureKeyboard
	if !g.demo && !capture {
		if cmds := g.input.Poll(dt); len(cmds) > 0 {
			g.runner.Submit(cmds...)
		}
	}
	g.board.Advance(dt)
	g.runner.Once(dt)
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.runner.View(func(s *session.Session) {
		g.board.Draw(screen, s)
	})

	if g.imguiBackend != nil {
		g.imguiBackend.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.imguiBackend != nil {
		g.imguiBackend.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
