package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/plus3/blockfall/autoplay"
	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/loop"
	"github.com/plus3/blockfall/session"
	"golang.org/x/sync/errgroup"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	sessions := flag.Int("sessions", runtime.NumCPU(), "The number of sessions to play in parallel.")
	seed := flag.Uint64("seed", 1, "Seed of the first session; session i uses seed+i.")
	tickRate := flag.Int("tick-rate", 60, "Simulated ticks per second of game time.")
	configPath := flag.String("config", "", "Rules file shared by every session.")
	deferClear := flag.Bool("defer-clear", false, "Run sessions with two-phase row clears.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	log.Println("Starting blockfall stress test...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.DeferClear = *deferClear

	report := &Report{
		Duration:       *duration,
		Sessions:       *sessions,
		TickRate:       *tickRate,
		DeferClear:     *deferClear,
		GCPauseMetrics: *gcPauseMetrics,
		Workers:        make([]WorkerResult, *sessions),
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running %d sessions for %s...\n", *sessions, *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < *sessions; i++ {
		w := &worker{
			id:   i,
			seed: *seed + uint64(i),
			cfg:  cfg,
			dt:   1 / float64(*tickRate),
		}
		g.Go(func() error {
			result, err := w.play(ctx)
			report.Workers[w.id] = result
			return err
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("Stress test failed: %v", err)
	}

	report.TotalTime = time.Since(startTime)
	report.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Simulation finished.")

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	log.Println("Stress test complete.")
}

type worker struct {
	id   int
	seed uint64
	cfg  session.Config
	dt   float64
}

// play runs one autoplayed session until the context is done. A consistency
// violation ends the run with an error.
func (w *worker) play(ctx context.Context) (WorkerResult, error) {
	result := WorkerResult{ID: w.id, Seed: w.seed}

	cfg := w.cfg
	cfg.Seed = w.seed
	s, err := session.New(cfg)
	if err != nil {
		return result, fmt.Errorf("session %d: %w", w.id, err)
	}

	runner := loop.NewRunner(s)
	player := autoplay.NewPlayer(cfg)
	player.UseHold = true
	player.AutoRestart = true
	runner.Subscribe(player)
	check := &checker{result: &result}
	runner.Subscribe(check)

	runner.Start()
	for ctx.Err() == nil {
		runner.Once(w.dt)
		if check.err != nil {
			return result, fmt.Errorf("session %d (seed %d): %w", w.id, w.seed, check.err)
		}
	}

	stats := runner.Stats()
	result.Ticks = stats.Ticks
	result.Events = stats.Events
	result.AvgTick = stats.AvgDuration
	result.MaxTick = stats.MaxDuration
	result.Placed = player.Placed
	result.Holds = player.Holds
	result.Stuck = player.Stuck
	return result, nil
}
