package loop

import "github.com/plus3/blockfall/session"

// Frame is what listeners see of one tick.
type Frame struct {
	DeltaTime float64
	Events    []session.Event
	Commands  *Commands
	Session   *session.Session
}

func newFrame(dt float64, events []session.Event, s *session.Session) *Frame {
	return &Frame{
		DeltaTime: dt,
		Events:    events,
		Commands:  newCommands(),
		Session:   s,
	}
}
