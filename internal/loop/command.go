package loop

import "fmt"

// Command is one discrete input event. Each command toggles exactly one
// scheduler flag; repeating a command is a no-op.
type Command uint8

const (
	StartMoveLeft Command = iota + 1
	StartMoveRight
	StopMoveLeft
	StopMoveRight
	StartFire
	StopFire
)

var commandNames = map[Command]string{
	StartMoveLeft:  "start-move-left",
	StartMoveRight: "start-move-right",
	StopMoveLeft:   "stop-move-left",
	StopMoveRight:  "stop-move-right",
	StartFire:      "start-fire",
	StopFire:       "stop-fire",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(%d)", uint8(c))
}

// ParseCommand returns the command with the given textual name.
func ParseCommand(name string) (Command, error) {
	for c, n := range commandNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown command %q", name)
}

// controls holds the continuous input state read by Tick.
type controls struct {
	left   bool
	right  bool
	firing bool
}

// apply toggles the flag named by c. Starting one direction releases the
// other.
func (s *controls) apply(c Command) bool {
	switch c {
	case StartMoveLeft:
		s.left, s.right = true, false
	case StartMoveRight:
		s.right, s.left = true, false
	case StopMoveLeft:
		s.left = false
	case StopMoveRight:
		s.right = false
	case StartFire:
		s.firing = true
	case StopFire:
		s.firing = false
	default:
		return false
	}
	return true
}

// direction returns -1 while moving left, 1 while moving right, 0 otherwise.
func (s *controls) direction() float64 {
	switch {
	case s.left:
		return -1
	case s.right:
		return 1
	default:
		return 0
	}
}
