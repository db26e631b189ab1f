package input

import (
	"time"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// FeedKey records a tcell key event with the same bindings as the byte
// stream, plus Escape for quit.
func (t *Tracker) FeedKey(ev *tcell.EventKey, now time.Time) {
	switch ev.Key() {
	case tcell.KeyLeft:
		t.Press(KeyLeft, now)
	case tcell.KeyRight:
		t.Press(KeyRight, now)
	case tcell.KeyEnter:
		t.Press(KeyRestart, now)
	case tcell.KeyEscape, tcell.KeyCtrlC:
		t.Press(KeyQuit, now)
	case tcell.KeyRune:
		if r := ev.Rune(); r < utf8.RuneSelf {
			t.feedByte(byte(r), now)
		}
	}
}
