package main

import (
	"fmt"

	"github.com/plus3/blockfall/loop"
	"github.com/plus3/blockfall/session"
	"github.com/plus3/blockfall/shape"
)

// checker verifies session invariants after every tick and tallies results.
type checker struct {
	result *WorkerResult
	err    error
	lines  int
}

func (c *checker) Execute(frame *loop.Frame) {
	if c.err != nil {
		return
	}
	for _, e := range frame.Events {
		switch e := e.(type) {
		case session.RowsCleared:
			if e.Lines != c.lines+len(e.Rows) {
				c.err = fmt.Errorf("line count jumped from %d to %d clearing %v", c.lines, e.Lines, e.Rows)
				return
			}
			c.lines = e.Lines
			c.result.Lines += len(e.Rows)
		case session.LevelUp:
			c.result.MaxLevel = max(c.result.MaxLevel, e.Level)
		case session.GameOver:
			c.result.Games++
		case session.Restarted:
			c.lines = 0
		}
	}
	c.err = verify(frame.Session)
}

func verify(s *session.Session) error {
	field := s.Field()
	occupied := 0
	for row := 0; row < field.Height(); row++ {
		fill := 0
		for col := 0; col < field.Width(); col++ {
			if field.Occupied(shape.Cell{Col: col, Row: row}) {
				fill++
			}
		}
		if fill != field.RowFill(row) {
			return fmt.Errorf("row %d fill count %d, counted %d", row, field.RowFill(row), fill)
		}
		if fill == field.Width() && s.State() == session.Playing {
			return fmt.Errorf("row %d left full after lock", row)
		}
		occupied += fill
	}
	if occupied != field.Len() {
		return fmt.Errorf("block index holds %d ids, field has %d blocks", field.Len(), occupied)
	}
	if s.State() == session.Playing && field.CheckCollision(s.ActiveCells()) {
		return fmt.Errorf("active piece overlaps the stack at %v", s.ActiveCells())
	}
	return nil
}

