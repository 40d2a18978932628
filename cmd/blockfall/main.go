package main

import (
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/blockfall/autoplay"
	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/debugui"
	debugui_ebiten "github.com/plus3/blockfall/debugui/ebiten"
	"github.com/plus3/blockfall/loop"
	"github.com/plus3/blockfall/session"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 720
	CellSize     = 28
	TickRate     = 60
)

func main() {
	configPath := flag.String("config", "", "path to a rules file (default: search the user config dir)")
	seed := flag.Uint64("seed", 0, "bag seed, 0 for random")
	debug := flag.Bool("debug", false, "show the ImGui debug overlay")
	demo := flag.Bool("demo", false, "let the autoplayer drive")
	clearDelay := flag.Duration("clear-delay", 300*time.Millisecond, "row flash before collapse, 0 to collapse at once")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	cfg.DeferClear = *clearDelay > 0

	s, err := session.New(cfg)
	if err != nil {
		log.Fatalf("creating session: %v", err)
	}

	runner := loop.NewRunner(s)
	board := newBoard(*clearDelay)
	runner.Subscribe(board)

	if *demo {
		player := autoplay.NewPlayer(cfg)
		player.UseHold = true
		player.AutoRestart = true
		player.CommitClears = false
		runner.Subscribe(player)
	}

	ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
	ebiten.SetWindowTitle("blockfall")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(TickRate)

	game := &Game{
		runner: runner,
		board:  board,
		input:  newInput(),
		demo:   *demo,
	}

	if *debug {
		game.imguiBackend = debugui_ebiten.NewImguiBackend("blockfall", ScreenWidth, ScreenHeight)
		overlay := &debugui.Overlay{}
		sessionPanel := debugui.NewSessionPanel(runner, 64)
		overlay.Add(sessionPanel.Render, sessionPanel)
		overlay.Add(debugui.NewPerformancePanel(runner, 120).Render, nil)
		overlay.Add(debugui.NewFieldInspector(runner).Render, nil)
		runner.Subscribe(overlay)
		game.overlay = overlay
	}

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
