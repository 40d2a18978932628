// Package session runs one game: it feeds time and commands to the active
// piece, commits locked pieces to the field, clears rows, keeps the line and
// level counters and detects top-out.
//
// A Session is single-threaded. Every mutation happens inside Start, Tick or
// CommitClear, and each call returns the events it produced.
package session

import (
	"errors"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/plus3/blockfall/piece"
	"github.com/plus3/blockfall/playfield"
	"github.com/plus3/blockfall/shape"
	"github.com/plus3/blockfall/source"
)

var (
	// ErrNoPendingClear is returned by CommitClear when no rows wait.
	ErrNoPendingClear = errors.New("session: no rows pending")
	// ErrClearMismatch is returned by CommitClear when the rows differ from
	// the ones announced by RowsPending.
	ErrClearMismatch = errors.New("session: rows do not match pending clear")
)

// State is the phase of the session.
type State int

const (
	// Ready waits for Start or a Restart command.
	Ready State = iota
	Playing
	// Clearing waits for CommitClear.
	Clearing
	// Over waits for a Restart command after a top-out.
	Over
)

var stateNames = [...]string{Ready: "ready", Playing: "playing", Clearing: "clearing", Over: "game over"}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Option customises a session built by New.
type Option func(*Session)

// WithRand replaces the seeded random source used for the bag.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) {
		s.rng = rng
	}
}

// Session owns the playfield, the piece source and the active piece, and
// advances them one tick at a time. It is not safe for concurrent use.
type Session struct {
	cfg    Config
	rng    *rand.Rand
	field  *playfield.Field
	source *source.Source
	active *piece.Controller

	state    State
	lines    int
	level    int
	softDrop bool
	pending  []int
	nextID   playfield.BlockID

	events []Event
}

// New validates cfg and builds a session in the Ready state.
func New(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Kicks = slices.Clone(cfg.Kicks)
	cfg.Shapes = slices.Clone(cfg.Shapes)

	s := &Session{
		cfg:   cfg,
		field: playfield.New(cfg.Width, cfg.Height),
		level: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		s.rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}

	src, err := source.New(cfg.Shapes, cfg.Preview, s.rng)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	s.source = src
	return s, nil
}

// Config returns the validated configuration.
func (s *Session) Config() Config { return s.cfg }

// State returns the current phase.
func (s *Session) State() State { return s.state }

// Lines returns the number of rows cleared since the last restart.
func (s *Session) Lines() int { return s.lines }

// Level starts at 1 and rises every LinesPerLevel cleared rows.
func (s *Session) Level() int { return s.level }

// Field returns a read-only view of the committed blocks.
func (s *Session) Field() playfield.Reader {
	return s.field
}

// ActiveCells returns the cells of the piece in play, or nil.
func (s *Session) ActiveCells() []shape.Cell {
	if s.active == nil {
		return nil
	}
	return s.active.Cells()
}

// GhostCells returns the landing projection of the piece in play, or nil.
func (s *Session) GhostCells() []shape.Cell {
	if s.active == nil {
		return nil
	}
	return s.active.Ghost()
}

func (s *Session) emit(e Event) {
	s.events = append(s.events, e)
}

func (s *Session) flush() []Event {
	out := s.events
	s.events = nil
	return out
}

// Start leaves the Ready state and spawns the first piece. It does nothing
// in any other state.
func (s *Session) Start() []Event {
	if s.state != Ready {
		return nil
	}
	s.state = Playing
	s.spawnNext()
	return s.flush()
}

// Tick advances the session by dt seconds after applying cmds. A Restart
// anywhere in cmds restarts the game and the rest of the batch is dropped.
// Outside Playing only Restart and the soft drop level have an effect.
func (s *Session) Tick(dt float64, cmds []Command) []Event {
	cmds = ordered(cmds)
	if slices.Contains(cmds, Restart) {
		s.restart()
		return s.flush()
	}

	for _, cmd := range cmds {
		s.apply(cmd)
	}

	if s.state == Playing && s.active != nil && s.active.State().Active() {
		s.advance(time.Duration(dt * float64(time.Second)))
	}
	return s.flush()
}

func (s *Session) apply(cmd Command) {
	switch cmd {
	case SoftDropStart, SoftDropEnd:
		s.softDrop = cmd == SoftDropStart
		if s.active != nil {
			s.active.SetSoftDrop(s.softDrop)
		}
		return
	}

	if s.state != Playing || s.active == nil {
		return
	}
	a := s.active
	switch cmd {
	case MoveLeft, MoveRight:
		var ok bool
		if cmd == MoveLeft {
			ok = a.MoveLeft()
		} else {
			ok = a.MoveRight()
		}
		if !ok {
			s.emit(MoveRejected{Command: cmd})
			return
		}
		s.emit(PieceMoved{Cells: a.Cells(), Ghost: a.Ghost()})
	case RotateClockwise:
		kick, ok := a.RotateClockwise()
		if !ok {
			s.emit(MoveRejected{Command: cmd})
			return
		}
		s.emit(PieceRotated{Cells: a.Cells(), Ghost: a.Ghost(), Kick: kick})
	case HardDrop:
		a.HardDrop()
	case Hold:
		s.hold()
	}
}

func (s *Session) hold() {
	if !s.source.CanHold() || !s.active.Hold() {
		return
	}
	next, ok := s.source.Hold(s.active.Kind())
	if !ok {
		return
	}
	s.active = s.spawn(next)
	s.emit(HoldSwapped{
		Active:  next,
		Held:    s.source.Held(),
		Cells:   s.active.Cells(),
		Ghost:   s.active.Ghost(),
		Preview: s.source.Peek(s.cfg.Preview),
	})
}

func (s *Session) advance(dt time.Duration) {
	step := s.active.Advance(dt)
	if step.Fell > 0 {
		s.emit(PieceFell{Cells: s.active.Cells(), Rows: step.Fell})
	}
	if step.Landed {
		s.emit(PieceLanded{Cells: s.active.Cells()})
	}
	if step.Locked {
		s.lock()
	}
}

func (s *Session) timing() piece.Timing {
	return piece.Timing{
		Fall:               s.cfg.BaseFall / time.Duration(s.level),
		SoftDropMultiplier: s.cfg.SoftDropMultiplier,
		HardDrop:           s.cfg.HardDrop,
		LockDelay:          s.cfg.LockDelay,
	}
}

func (s *Session) spawn(k shape.Kind) *piece.Controller {
	return piece.Spawn(s.field, k, s.cfg.Spawn(), piece.Options{
		Timing:   s.timing(),
		Kicks:    s.cfg.Kicks,
		Holdable: s.source.CanHold(),
		SoftDrop: s.softDrop,
	})
}

func (s *Session) spawnNext() {
	k := s.source.Next()
	s.active = s.spawn(k)
	s.emit(PieceSpawned{
		Shape:   k,
		Cells:   s.active.Cells(),
		Ghost:   s.active.Ghost(),
		Preview: s.source.Peek(s.cfg.Preview),
	})
}

func (s *Session) allocate(n int) []playfield.BlockID {
	ids := make([]playfield.BlockID, n)
	for i := range ids {
		s.nextID++
		if s.nextID == playfield.NoBlock {
			s.nextID++
		}
		ids[i] = s.nextID
	}
	return ids
}

func (s *Session) lock() {
	a := s.active
	s.active = nil
	cells := a.Cells()
	ids := s.allocate(len(cells))

	if err := s.field.Commit(cells, ids); err != nil {
		s.state = Over
		s.emit(GameOver{Lines: s.lines, Level: s.level})
		return
	}
	s.emit(PieceLocked{Shape: a.Kind(), Cells: cells, Blocks: ids})

	rows := s.field.DetectFullRows()
	if len(rows) > 0 {
		if s.cfg.DeferClear {
			s.state = Clearing
			s.pending = rows
			s.emit(RowsPending{Rows: slices.Clone(rows)})
			return
		}
		s.clearRows(rows)
	}
	s.spawnNext()
}

func (s *Session) clearRows(rows []int) {
	removed := s.field.ClearAndCollapse(rows)
	prev := s.level
	s.lines += len(rows)
	s.level = 1 + s.lines/s.cfg.LinesPerLevel
	s.emit(RowsCleared{Rows: rows, Lines: s.lines, Level: s.level, Removed: removed})
	if s.level > prev {
		s.emit(LevelUp{Level: s.level})
	}
}

// CommitClear collapses the rows announced by the last RowsPending event and
// spawns the next piece.
func (s *Session) CommitClear(rows []int) ([]Event, error) {
	if s.state != Clearing {
		return nil, ErrNoPendingClear
	}
	if !slices.Equal(rows, s.pending) {
		return nil, ErrClearMismatch
	}
	s.pending = nil
	s.state = Playing
	s.clearRows(slices.Clone(rows))
	s.spawnNext()
	return s.flush(), nil
}

// PendingRows returns the rows waiting for CommitClear.
func (s *Session) PendingRows() []int {
	return slices.Clone(s.pending)
}

func (s *Session) restart() {
	s.field.Clear()
	s.source.Reset()
	s.active = nil
	s.lines = 0
	s.level = 1
	s.pending = nil
	s.state = Playing
	s.emit(Restarted{})
	s.spawnNext()
}
