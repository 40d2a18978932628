package main

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/blockfall/loop"
	"github.com/plus3/blockfall/session"
)

const (
	FrameInterval = 16 * time.Millisecond
	// Terminals report no key releases, so soft drop ends once Down has not
	// repeated for this long.
	SoftDropRelease = 250 * time.Millisecond
)

type terminal struct {
	screen tcell.Screen
	runner *loop.Runner
	view   *view
	demo   bool

	softDrop bool
	lastDown time.Time
}

func (t *terminal) run() {
	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	if t.demo {
		t.runner.Start()
	}

	lastTime := time.Now()
	for {
		select {
		case ev := <-eventChan:
			if !t.handleEvent(ev) {
				return
			}

		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now

			if t.softDrop && now.Sub(t.lastDown) > SoftDropRelease {
				t.softDrop = false
				t.runner.Submit(session.SoftDropEnd)
			}
			t.view.Advance(dt)
			t.runner.Once(dt)
			t.draw()
		}
	}
}

// handleEvent reports false when the player asked to quit.
func (t *terminal) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyEnter:
			t.runner.Submit(session.Restart)
			return true
		}
		if t.demo {
			if ev.Key() == tcell.KeyRune && ev.Rune() == 'q' {
				return false
			}
			return true
		}
		if cmd, ok := t.command(ev); ok {
			t.runner.Submit(cmd)
		}
		if ev.Key() == tcell.KeyRune && ev.Rune() == 'q' {
			return false
		}

	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

func (t *terminal) command(ev *tcell.EventKey) (session.Command, bool) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return session.MoveLeft, true
	case tcell.KeyRight:
		return session.MoveRight, true
	case tcell.KeyUp:
		return session.RotateClockwise, true
	case tcell.KeyDown:
		t.lastDown = time.Now()
		if t.softDrop {
			return 0, false
		}
		t.softDrop = true
		return session.SoftDropStart, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			return session.HardDrop, true
		case 'x', 'X':
			return session.RotateClockwise, true
		case 'c', 'C':
			return session.Hold, true
		}
	}
	return 0, false
}

func (t *terminal) draw() {
	t.screen.Clear()
	t.runner.View(func(s *session.Session) {
		t.view.Draw(t.screen, s)
	})
	t.screen.Show()
}
