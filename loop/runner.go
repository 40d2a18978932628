// Package loop drives a session from a clock. It collects commands from any
// goroutine, ticks the session and hands each tick's events to listeners,
// keeping timing statistics along the way.
package loop

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/plus3/blockfall/session"
)

// Stats describes tick execution so far.
type Stats struct {
	Ticks          int64
	Events         int64
	RejectedClears int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
	Listeners      []ListenerStats
}

// ListenerStats describes the time spent in one listener.
type ListenerStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type timing struct {
	count int64
	min   time.Duration
	max   time.Duration
	total time.Duration
	last  time.Duration
}

func newTiming() timing {
	return timing{min: time.Duration(1<<63 - 1)}
}

func (t *timing) record(d time.Duration) {
	t.count++
	t.last = d
	t.total += d
	if d < t.min {
		t.min = d
	}
	if d > t.max {
		t.max = d
	}
}

func (t *timing) avg() time.Duration {
	if t.count == 0 {
		return 0
	}
	return t.total / time.Duration(t.count)
}

func (t *timing) minimum() time.Duration {
	if t.count == 0 {
		return 0
	}
	return t.min
}

type listenerEntry struct {
	name     string
	listener Listener
	timing   timing
}

// Runner owns a session and serialises every access to it.
type Runner struct {
	mu        sync.Mutex
	session   *session.Session
	inbox     []session.Command
	clears    [][]int
	listeners []*listenerEntry
	ticks     timing
	events    int64
	rejected  int64
}

// NewRunner wraps s. The session is not started until Start or a Restart
// command.
func NewRunner(s *session.Session) *Runner {
	return &Runner{
		session: s,
		ticks:   newTiming(),
	}
}

// Subscribe adds a listener. Listeners run in subscription order.
func (r *Runner) Subscribe(l Listener) {
	t := reflect.TypeOf(l)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, &listenerEntry{
		name:     t.Name(),
		listener: l,
		timing:   newTiming(),
	})
}

// Submit queues commands for the next tick. Safe for concurrent use.
func (r *Runner) Submit(cmds ...session.Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inbox = append(r.inbox, cmds...)
}

// CommitClear queues the collapse of pending rows for the next tick.
func (r *Runner) CommitClear(rows []int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clears = append(r.clears, rows)
}

// View calls fn with the session while holding the runner lock. fn must not
// call other Runner methods.
func (r *Runner) View(fn func(s *session.Session)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.session)
}

// Start starts the session and dispatches the first spawn.
func (r *Runner) Start() []session.Event {
	r.mu.Lock()
	events := r.session.Start()
	defers := r.dispatch(0, events)
	r.mu.Unlock()

	runAll(defers)
	return events
}

// Once applies queued clears and commands, ticks the session by dt seconds
// and runs every listener on the resulting events.
func (r *Runner) Once(dt float64) []session.Event {
	r.mu.Lock()
	start := time.Now()

	var events []session.Event
	clears := r.clears
	r.clears = nil
	for _, rows := range clears {
		evs, err := r.session.CommitClear(rows)
		if err != nil {
			r.rejected++
			continue
		}
		events = append(events, evs...)
	}

	cmds := r.inbox
	r.inbox = nil
	events = append(events, r.session.Tick(dt, cmds)...)

	defers := r.dispatch(dt, events)
	r.ticks.record(time.Since(start))
	r.events += int64(len(events))
	r.mu.Unlock()

	runAll(defers)
	return events
}

func (r *Runner) dispatch(dt float64, events []session.Event) []func() {
	frame := newFrame(dt, events, r.session)
	for _, entry := range r.listeners {
		start := time.Now()
		entry.listener.Execute(frame)
		entry.timing.record(time.Since(start))
	}
	return frame.Commands.flush(r)
}

func runAll(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}

// Run ticks the session at the given interval until the context is cancelled.
func (r *Runner) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			r.Once(dt)
		}
	}
}

// Stats returns a copy of the execution statistics.
func (r *Runner) Stats() *Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := &Stats{
		Ticks:          r.ticks.count,
		Events:         r.events,
		RejectedClears: r.rejected,
		MinDuration:    r.ticks.minimum(),
		MaxDuration:    r.ticks.max,
		AvgDuration:    r.ticks.avg(),
		LastDuration:   r.ticks.last,
		TotalDuration:  r.ticks.total,
		Listeners:      make([]ListenerStats, len(r.listeners)),
	}
	for i, entry := range r.listeners {
		stats.Listeners[i] = ListenerStats{
			Name:           entry.name,
			ExecutionCount: entry.timing.count,
			MinDuration:    entry.timing.minimum(),
			MaxDuration:    entry.timing.max,
			AvgDuration:    entry.timing.avg(),
			LastDuration:   entry.timing.last,
			TotalDuration:  entry.timing.total,
		}
	}
	return stats
}
