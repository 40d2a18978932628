package debugui

import (
	"fmt"

	"github.com/plus3/blockfall/session"
)

// Describe renders an event as a single log line.
func Describe(e session.Event) string {
	switch e := e.(type) {
	case session.PieceSpawned:
		return fmt.Sprintf("spawned %s at %v next %v", e.Shape, e.Cells, e.Preview)
	case session.PieceMoved:
		return fmt.Sprintf("moved to %v", e.Cells)
	case session.PieceRotated:
		return fmt.Sprintf("rotated to %v kick %s", e.Cells, e.Kick)
	case session.MoveRejected:
		return fmt.Sprintf("rejected %s", e.Command)
	case session.PieceFell:
		return fmt.Sprintf("fell %d", e.Rows)
	case session.PieceLanded:
		return fmt.Sprintf("landed at %v", e.Cells)
	case session.PieceLocked:
		return fmt.Sprintf("locked %s at %v", e.Shape, e.Cells)
	case session.RowsPending:
		return fmt.Sprintf("rows pending %v", e.Rows)
	case session.RowsCleared:
		return fmt.Sprintf("cleared %v lines %d level %d", e.Rows, e.Lines, e.Level)
	case session.LevelUp:
		return fmt.Sprintf("level %d", e.Level)
	case session.HoldSwapped:
		return fmt.Sprintf("hold %s, playing %s", e.Held, e.Active)
	case session.GameOver:
		return fmt.Sprintf("game over after %d lines", e.Lines)
	case session.Restarted:
		return "restarted"
	default:
		return fmt.Sprintf("%T", e)
	}
}

// EventLog keeps the most recent event descriptions.
type EventLog struct {
	lines []string
	next  int
	full  bool
	// Quiet drops PieceFell events, which otherwise flood the log.
	Quiet bool
}

// NewEventLog keeps the last size descriptions.
func NewEventLog(size int) *EventLog {
	return &EventLog{lines: make([]string, max(size, 1)), Quiet: true}
}

// Add records a description of e, overwriting the oldest when full.
func (l *EventLog) Add(e session.Event) {
	if _, fell := e.(session.PieceFell); fell && l.Quiet {
		return
	}
	l.lines[l.next] = Describe(e)
	l.next = (l.next + 1) % len(l.lines)
	if l.next == 0 {
		l.full = true
	}
}

// Lines returns the stored lines, oldest first.
func (l *EventLog) Lines() []string {
	if !l.full {
		return append([]string(nil), l.lines[:l.next]...)
	}
	out := make([]string, 0, len(l.lines))
	out = append(out, l.lines[l.next:]...)
	return append(out, l.lines[:l.next]...)
}
