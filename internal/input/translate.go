package input

import "github.com/tomz197/orbit/internal/loop"

// Frame is what one frame of input asks of the game.
type Frame struct {
	Commands    []loop.Command
	Quit        bool
	TogglePause bool
	Restart     bool
	Knob        int // Digit pressed this frame, -1 if none
}

// Translator edge-detects held keys into game commands. Held movement and
// fire keys produce a start command when pressed and a stop command when
// released; the other keys trigger once per press.
type Translator struct {
	prev Keys
}

// NewTranslator creates a translator with nothing held.
func NewTranslator() *Translator {
	return &Translator{prev: Keys{Number: -1}}
}

// Translate compares keys with the previous frame.
func (t *Translator) Translate(keys Keys) Frame {
	f := Frame{Knob: -1}
	emit := func(c loop.Command) { f.Commands = append(f.Commands, c) }

	// Releases first so switching direction ends on the new one.
	if t.prev.Left && !keys.Left {
		emit(loop.StopMoveLeft)
	}
	if t.prev.Right && !keys.Right {
		emit(loop.StopMoveRight)
	}
	if t.prev.Fire && !keys.Fire {
		emit(loop.StopFire)
	}
	if keys.Left && !t.prev.Left {
		emit(loop.StartMoveLeft)
	}
	if keys.Right && !t.prev.Right {
		emit(loop.StartMoveRight)
	}
	if keys.Fire && !t.prev.Fire {
		emit(loop.StartFire)
	}

	f.Quit = keys.Quit
	f.TogglePause = keys.Pause && !t.prev.Pause
	f.Restart = keys.Restart && !t.prev.Restart
	if keys.Number >= 0 && keys.Number != t.prev.Number {
		f.Knob = keys.Number
	}

	t.prev = keys
	t.prev.Pressed = nil
	return f
}

// Reset forgets the previous frame.
func (t *Translator) Reset() {
	t.prev = Keys{Number: -1}
}
