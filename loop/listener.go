package loop

// Listener reacts to the events of every tick. Listeners may read the session
// through the frame but must queue input through frame.Commands.
type Listener interface {
	Execute(frame *Frame)
}

// ListenerFunc adapts a function to a Listener.
type ListenerFunc func(frame *Frame)

func (f ListenerFunc) Execute(frame *Frame) {
	f(frame)
}
