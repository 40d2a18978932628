package session

import (
	"slices"
)

// Command is one player input. Commands collected between two ticks are
// applied in the order of their values, so rotation and movement always land
// before drop speed changes.
type Command int

const (
	RotateClockwise Command = iota + 1
	MoveLeft
	MoveRight
	SoftDropStart
	SoftDropEnd
	HardDrop
	Hold
	Restart
)

var commandNames = map[Command]string{
	RotateClockwise: "rotate",
	MoveLeft:        "left",
	MoveRight:       "right",
	SoftDropStart:   "soft-drop-start",
	SoftDropEnd:     "soft-drop-end",
	HardDrop:        "hard-drop",
	Hold:            "hold",
	Restart:         "restart",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// ordered returns a copy of cmds sorted by precedence. Commands of the same
// kind keep their arrival order.
func ordered(cmds []Command) []Command {
	sorted := slices.Clone(cmds)
	slices.SortStableFunc(sorted, func(a, b Command) int {
		return int(a) - int(b)
	})
	return sorted
}
