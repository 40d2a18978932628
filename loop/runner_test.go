package loop_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/plus3/blockfall/loop"
	"github.com/plus3/blockfall/session"
	"github.com/plus3/blockfall/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	ExecuteCount int
	Events       []session.Event
}

func (r *recorder) Execute(frame *loop.Frame) {
	r.ExecuteCount++
	r.Events = append(r.Events, frame.Events...)
}

func newRunner(t *testing.T, mutate func(*session.Config)) *loop.Runner {
	t.Helper()
	cfg := session.DefaultConfig()
	cfg.Seed = 3
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := session.New(cfg)
	require.NoError(t, err)
	return loop.NewRunner(s)
}

func TestRunner(t *testing.T) {
	t.Run("listeners see every tick", func(t *testing.T) {
		r := newRunner(t, nil)
		rec := &recorder{}
		r.Subscribe(rec)

		r.Start()
		r.Once(0.1)
		r.Once(0.1)

		if rec.ExecuteCount != 3 {
			t.Errorf("expected 3 executions, got %d", rec.ExecuteCount)
		}
		require.NotEmpty(t, rec.Events)
		assert.IsType(t, session.PieceSpawned{}, rec.Events[0])
	})

	t.Run("submitted commands apply on the next tick", func(t *testing.T) {
		r := newRunner(t, nil)
		r.Start()
		r.Submit(session.MoveRight)

		events := r.Once(0)
		require.Len(t, events, 1)
		assert.IsType(t, session.PieceMoved{}, events[0])
		assert.Empty(t, r.Once(0))
	})

	t.Run("listener commands are flushed to the next tick", func(t *testing.T) {
		r := newRunner(t, nil)
		var deferred int
		r.Subscribe(loop.ListenerFunc(func(frame *loop.Frame) {
			for _, e := range frame.Events {
				if _, ok := e.(session.PieceSpawned); ok {
					frame.Commands.Submit(session.HardDrop)
					frame.Commands.Defer(func() { deferred++ })
				}
			}
		}))

		r.Start()
		assert.Equal(t, 1, deferred)

		events := r.Once(1.0 / 60)
		var locked bool
		for _, e := range events {
			if _, ok := e.(session.PieceLocked); ok {
				locked = true
			}
		}
		assert.True(t, locked)
		assert.Equal(t, 2, deferred)
	})

	t.Run("deferred clears", func(t *testing.T) {
		r := newRunner(t, func(cfg *session.Config) {
			cfg.Width = 4
			cfg.Shapes = []shape.Kind{shape.I}
			cfg.DeferClear = true
		})
		r.Subscribe(loop.ListenerFunc(func(frame *loop.Frame) {
			for _, e := range frame.Events {
				if p, ok := e.(session.RowsPending); ok {
					frame.Commands.CommitClear(p.Rows)
				}
			}
		}))
		r.Start()
		r.Submit(session.HardDrop)

		events := r.Once(0.1)
		require.NotEmpty(t, events)
		assert.IsType(t, session.RowsPending{}, events[len(events)-1])

		events = r.Once(0)
		require.NotEmpty(t, events)
		assert.IsType(t, session.RowsCleared{}, events[0])

		r.CommitClear([]int{0})
		r.Once(0)
		assert.Equal(t, int64(1), r.Stats().RejectedClears)
	})

	t.Run("view", func(t *testing.T) {
		r := newRunner(t, nil)
		r.Start()
		var state session.State
		r.View(func(s *session.Session) {
			state = s.State()
		})
		assert.Equal(t, session.Playing, state)
	})

	t.Run("concurrent submit", func(t *testing.T) {
		r := newRunner(t, nil)
		r.Start()
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				r.Submit(session.RotateClockwise)
			}()
		}
		wg.Wait()
		events := r.Once(0)
		assert.Len(t, events, 8)
	})

	t.Run("context cancellation in run", func(t *testing.T) {
		r := newRunner(t, nil)
		rec := &recorder{}
		r.Subscribe(rec)
		r.Start()

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan bool)
		go func() {
			r.Run(ctx, 1*time.Millisecond)
			done <- true
		}()

		time.Sleep(10 * time.Millisecond)
		cancel()

		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
			t.Fatal("runner did not stop after context cancellation")
		}

		if rec.ExecuteCount < 2 {
			t.Error("expected listener to execute at least once after start")
		}
	})
}

func TestStats(t *testing.T) {
	r := newRunner(t, nil)
	rec := &recorder{}
	r.Subscribe(rec)
	r.Subscribe(loop.ListenerFunc(func(*loop.Frame) {}))

	stats := r.Stats()
	assert.Zero(t, stats.Ticks)
	assert.Zero(t, stats.MinDuration)

	r.Start()
	for i := 0; i < 5; i++ {
		r.Once(0.2)
	}

	stats = r.Stats()
	assert.Equal(t, int64(5), stats.Ticks)
	assert.Equal(t, int64(len(rec.Events)), stats.Events+1, "start events are not counted as a tick")
	require.Len(t, stats.Listeners, 2)
	assert.Equal(t, "recorder", stats.Listeners[0].Name)
	assert.Equal(t, "ListenerFunc", stats.Listeners[1].Name)
	assert.Equal(t, int64(6), stats.Listeners[0].ExecutionCount)
	assert.LessOrEqual(t, stats.MinDuration, stats.MaxDuration)
	assert.Equal(t, stats.TotalDuration/5, stats.AvgDuration)
}

func ExampleRunner() {
	cfg := session.DefaultConfig()
	cfg.Shapes = []shape.Kind{shape.I}
	s, _ := session.New(cfg)

	r := loop.NewRunner(s)
	r.Subscribe(loop.ListenerFunc(func(frame *loop.Frame) {
		for _, e := range frame.Events {
			switch e := e.(type) {
			case session.PieceSpawned:
				fmt.Println("spawned", e.Shape)
			case session.PieceLocked:
				fmt.Println("locked", e.Cells)
			}
		}
	}))

	r.Start()
	r.Submit(session.HardDrop)
	r.Once(1.0 / 60)
	// Output:
	// spawned I
	// locked [(3,0) (4,0) (5,0) (6,0)]
	// spawned I
}
