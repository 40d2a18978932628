package autoplay

import (
	"github.com/plus3/blockfall/loop"
	"github.com/plus3/blockfall/session"
	"github.com/plus3/blockfall/shape"
)

// Player is a loop.Listener that plays the session: whenever a new piece
// comes into play it plans a placement and queues the commands for it.
type Player struct {
	Planner *Planner
	Kicks   []shape.Cell
	// UseHold swaps the active piece out when the alternative scores better.
	UseHold bool
	// AutoRestart queues Restart after a game over.
	AutoRestart bool
	// CommitClears answers RowsPending immediately.
	CommitClears bool

	Placed   int
	Holds    int
	Stuck    int
	Restarts int
}

// NewPlayer builds a player for sessions running with cfg.
func NewPlayer(cfg session.Config) *Player {
	return &Player{
		Planner:      NewPlanner(),
		Kicks:        cfg.Kicks,
		CommitClears: cfg.DeferClear,
	}
}

func (p *Player) Execute(frame *loop.Frame) {
	for _, e := range frame.Events {
		switch e := e.(type) {
		case session.PieceSpawned, session.HoldSwapped:
			p.steer(frame)
		case session.RowsPending:
			if p.CommitClears {
				frame.Commands.CommitClear(e.Rows)
			}
		case session.GameOver:
			if p.AutoRestart {
				p.Restarts++
				frame.Commands.Submit(session.Restart)
			}
		}
	}
}

func (p *Player) steer(frame *loop.Frame) {
	s := frame.Session
	snap := s.Snapshot()
	if snap.Active == shape.None || !snap.PieceState.Active() {
		return
	}

	best, ok := p.Planner.Plan(s.Field(), snap.Active, snap.Anchor, p.Kicks)

	if p.UseHold && snap.CanHold {
		alt := snap.Held
		if alt == shape.None && len(snap.Preview) > 0 {
			alt = snap.Preview[0]
		}
		if alt != shape.None {
			other, altOK := p.Planner.Plan(s.Field(), alt, s.Config().Spawn(), p.Kicks)
			if altOK && (!ok || other.Score > best.Score) {
				p.Holds++
				frame.Commands.Submit(session.Hold)
				return
			}
		}
	}

	if !ok {
		p.Stuck++
		frame.Commands.Submit(session.HardDrop)
		return
	}
	p.Placed++
	frame.Commands.Submit(best.Commands()...)
}
