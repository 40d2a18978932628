package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/blockfall/autoplay"
	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/loop"
	"github.com/plus3/blockfall/session"
	"github.com/spf13/cobra"
)

var (
	configPath string
	seed       uint64
	mute       bool
	demo       bool
	logPath    string
	clearDelay time.Duration
)

var rootCmd = &cobra.Command{
	Use:          "blockfall-term",
	Short:        "Play blockfall in the terminal",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a rules file (default: search the user config dir)")
	rootCmd.Flags().Uint64Var(&seed, "seed", 0, "bag seed, 0 for random")
	rootCmd.Flags().BoolVar(&mute, "mute", false, "disable audio cues")
	rootCmd.Flags().BoolVar(&demo, "demo", false, "let the autoplayer drive")
	rootCmd.Flags().StringVar(&logPath, "log", "blockfall-term.log", "file that receives log output while the screen is active")
	rootCmd.Flags().DurationVar(&clearDelay, "clear-delay", 200*time.Millisecond, "row flash before collapse, 0 to collapse at once")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	cfg.DeferClear = clearDelay > 0

	s, err := session.New(cfg)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}

	runner := loop.NewRunner(s)
	v := newView(clearDelay)
	runner.Subscribe(v)

	if !mute {
		c, err := newCues()
		if err != nil {
			log.Printf("audio initialization failed: %v", err)
		} else {
			defer c.Close()
			runner.Subscribe(c)
		}
	}

	if demo {
		player := autoplay.NewPlayer(cfg)
		player.UseHold = true
		player.AutoRestart = true
		player.CommitClears = false
		runner.Subscribe(player)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	t := &terminal{
		screen: screen,
		runner: runner,
		view:   v,
		demo:   demo,
	}
	t.run()

	stats := runner.Stats()
	log.Printf("exiting after %d ticks, %d events", stats.Ticks, stats.Events)
	return nil
}
