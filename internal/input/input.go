// Package input turns raw terminal bytes into held-key state and game
// commands.
package input

import (
	"bufio"
	"io"
	"time"
)

// DefaultHoldDuration is how long a key counts as held after its last
// repeat. Terminals do not report key releases.
const DefaultHoldDuration = 120 * time.Millisecond

// Key is a logical key the game reacts to.
type Key uint8

const (
	KeyLeft Key = iota
	KeyRight
	KeyFire
	KeyQuit
	KeyPause
	KeyRestart
	keyCount
)

// Keys is the held-key state of one frame.
type Keys struct {
	Left    bool
	Right   bool
	Fire    bool
	Quit    bool
	Pause   bool
	Restart bool
	Number  int    // Most recent digit while held, -1 otherwise
	Pressed []byte // Raw bytes read this frame
}

// Tracker records when each key was last seen.
type Tracker struct {
	hold     time.Duration
	last     [keyCount]time.Time
	number   int
	numberAt time.Time
}

// NewTracker creates a tracker; hold <= 0 selects DefaultHoldDuration.
func NewTracker(hold time.Duration) *Tracker {
	if hold <= 0 {
		hold = DefaultHoldDuration
	}
	return &Tracker{hold: hold, number: -1}
}

// Press marks k as seen at now.
func (t *Tracker) Press(k Key, now time.Time) {
	if k < keyCount {
		t.last[k] = now
	}
}

// PressDigit marks digit d as seen at now.
func (t *Tracker) PressDigit(d int, now time.Time) {
	if d >= 0 && d <= 9 {
		t.number = d
		t.numberAt = now
	}
}

// Release forgets every held key, e.g. after a restart so a held fire key
// does not carry over.
func (t *Tracker) Release() {
	t.last = [keyCount]time.Time{}
	t.numberAt = time.Time{}
}

// Feed parses raw terminal bytes, including arrow key escape sequences.
func (t *Tracker) Feed(buf []byte, now time.Time) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'C':
				t.Press(KeyRight, now)
				i += 2
				continue
			case 'D':
				t.Press(KeyLeft, now)
				i += 2
				continue
			case 'A', 'B':
				i += 2
				continue
			}
		}
		t.feedByte(b, now)
	}
}

func (t *Tracker) feedByte(b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03':
		t.Press(KeyQuit, now)
	case 'a', 'A', 'j', 'J':
		t.Press(KeyLeft, now)
	case 'd', 'D', 'l', 'L':
		t.Press(KeyRight, now)
	case ' ':
		t.Press(KeyFire, now)
	case 'p', 'P':
		t.Press(KeyPause, now)
	case 'r', 'R', '\n', '\r':
		t.Press(KeyRestart, now)
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		t.PressDigit(int(b-'0'), now)
	}
}

// State returns the keys held at now.
func (t *Tracker) State(now time.Time) Keys {
	held := func(k Key) bool {
		return !t.last[k].IsZero() && now.Sub(t.last[k]) < t.hold
	}
	keys := Keys{
		Left:    held(KeyLeft),
		Right:   held(KeyRight),
		Fire:    held(KeyFire),
		Quit:    held(KeyQuit),
		Pause:   held(KeyPause),
		Restart: held(KeyRestart),
		Number:  -1,
	}
	if !t.numberAt.IsZero() && now.Sub(t.numberAt) < t.hold {
		keys.Number = t.number
	}
	return keys
}

// Stream delivers input bytes from a reader goroutine.
type Stream struct {
	ch      chan byte
	tracker *Tracker
}

// StartStream spawns a goroutine that reads r until it fails.
func StartStream(r io.Reader, tracker *Tracker) *Stream {
	s := &Stream{ch: make(chan byte, 128), tracker: tracker}
	br := bufio.NewReader(r)
	go func() {
		defer close(s.ch)
		for {
			b, err := br.ReadByte()
			if err != nil {
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Read drains all available bytes without blocking, feeds them to the
// tracker and returns the keys held at now. ok is false once the reader is
// exhausted.
func (s *Stream) Read(now time.Time) (keys Keys, ok bool) {
	var buf []byte
	ok = true
drain:
	for {
		select {
		case b, open := <-s.ch:
			if !open {
				ok = false
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	s.tracker.Feed(buf, now)
	keys = s.tracker.State(now)
	keys.Pressed = buf
	return keys, ok
}
