package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/plus3/blockfall/shape"
)

// ErrInvalidConfig wraps every configuration problem reported by Validate.
var ErrInvalidConfig = errors.New("invalid session config")

// AutoSpawn lets New derive the spawn column or row from the field size.
const AutoSpawn = -1

// Config holds the rule constants of a session. It is read once by New and
// never changes while the session runs.
type Config struct {
	Width  int
	Height int
	// Preview is the lookahead queue depth.
	Preview            int
	BaseFall           time.Duration
	SoftDropMultiplier float64
	HardDrop           time.Duration
	LockDelay          time.Duration
	LinesPerLevel      int
	Kicks              []shape.Cell
	Shapes             []shape.Kind
	// SpawnColumn and SpawnRow place the anchor of new pieces. AutoSpawn
	// picks width/2-1 and the top visible row.
	SpawnColumn int
	SpawnRow    int
	// DeferClear holds completed rows until CommitClear is called.
	DeferClear bool
	// Seed seeds the bag shuffle. Zero picks a random seed.
	Seed uint64
}

// DefaultConfig returns a 10x20 field with guideline-like timing.
func DefaultConfig() Config {
	return Config{
		Width:              10,
		Height:             20,
		Preview:            5,
		BaseFall:           time.Second,
		SoftDropMultiplier: 20,
		HardDrop:           100 * time.Microsecond,
		LockDelay:          500 * time.Millisecond,
		LinesPerLevel:      10,
		Kicks:              shape.DefaultKicks(),
		Shapes:             shape.Kinds(),
		SpawnColumn:        AutoSpawn,
		SpawnRow:           AutoSpawn,
	}
}

// Spawn returns the resolved spawn anchor.
func (c Config) Spawn() shape.Cell {
	col, row := c.SpawnColumn, c.SpawnRow
	if col == AutoSpawn {
		col = c.Width/2 - 1
	}
	if row == AutoSpawn {
		row = c.Height - 1
	}
	return shape.Cell{Col: col, Row: row}
}

// Validate reports every problem with c at once.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Width < 4 {
		bad("width %d is less than 4", c.Width)
	}
	if c.Height < 2 {
		bad("height %d is less than 2", c.Height)
	}
	if c.Preview < 1 {
		bad("preview depth %d must be at least 1", c.Preview)
	}
	if c.BaseFall <= 0 {
		bad("base fall interval %s must be positive", c.BaseFall)
	}
	if c.SoftDropMultiplier < 1 {
		bad("soft drop multiplier %g must be at least 1", c.SoftDropMultiplier)
	}
	if c.HardDrop <= 0 {
		bad("hard drop interval %s must be positive", c.HardDrop)
	}
	if c.LockDelay < 0 {
		bad("lock delay %s must not be negative", c.LockDelay)
	}
	if c.LinesPerLevel < 1 {
		bad("lines per level %d must be at least 1", c.LinesPerLevel)
	}
	if len(c.Kicks) == 0 {
		bad("kick list is empty")
	}
	if len(c.Shapes) == 0 {
		bad("shape list is empty")
	}

	spawn := c.Spawn()
	if spawn.Row < 0 {
		bad("spawn row %d is below the floor", spawn.Row)
	}
	for _, k := range c.Shapes {
		if !k.Valid() {
			bad("unknown shape %s", k)
			continue
		}
		if c.Width < 4 {
			continue
		}
		for _, cell := range shape.Lookup(k).Place(0, spawn) {
			if cell.Col < 0 || cell.Col >= c.Width {
				bad("shape %s does not fit at spawn column %d", k, spawn.Col)
				break
			}
		}
	}
	return errors.Join(errs...)
}
