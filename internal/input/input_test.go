package input

import (
	"bytes"
	"slices"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/orbit/internal/loop"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestTrackerHoldsKeysBriefly(t *testing.T) {
	tr := NewTracker(100 * time.Millisecond)
	tr.Feed([]byte("a \x1b[C"), t0)

	keys := tr.State(t0.Add(50 * time.Millisecond))
	if !keys.Left || !keys.Right || !keys.Fire {
		t.Fatalf("keys %+v, want left, right and fire held", keys)
	}
	keys = tr.State(t0.Add(100 * time.Millisecond))
	if keys.Left || keys.Right || keys.Fire {
		t.Fatalf("keys %+v still held after the hold duration", keys)
	}
}

func TestTrackerParsesKeys(t *testing.T) {
	cases := map[string]func(Keys) bool{
		"q":      func(k Keys) bool { return k.Quit },
		"\x03":   func(k Keys) bool { return k.Quit },
		"\x1b[D": func(k Keys) bool { return k.Left },
		"l":      func(k Keys) bool { return k.Right },
		"p":      func(k Keys) bool { return k.Pause },
		"\r":     func(k Keys) bool { return k.Restart },
		"7":      func(k Keys) bool { return k.Number == 7 },
	}
	for in, check := range cases {
		tr := NewTracker(0)
		tr.Feed([]byte(in), t0)
		if keys := tr.State(t0); !check(keys) {
			t.Errorf("%q: unexpected keys %+v", in, keys)
		}
	}
}

func TestTrackerIgnoresVerticalArrows(t *testing.T) {
	tr := NewTracker(0)
	tr.Feed([]byte("\x1b[A\x1b[B"), t0)
	keys := tr.State(t0)
	if keys.Left || keys.Right || keys.Fire || keys.Quit || keys.Pause || keys.Restart {
		t.Fatalf("vertical arrows produced keys %+v", keys)
	}
}

func TestTranslatorEdges(t *testing.T) {
	tr := NewTranslator()

	f := tr.Translate(Keys{Left: true, Fire: true, Number: -1})
	want := []loop.Command{loop.StartMoveLeft, loop.StartFire}
	if !slices.Equal(f.Commands, want) {
		t.Fatalf("commands %v, want %v", f.Commands, want)
	}

	f = tr.Translate(Keys{Left: true, Fire: true, Number: -1})
	if len(f.Commands) != 0 {
		t.Fatalf("held keys repeated commands %v", f.Commands)
	}

	f = tr.Translate(Keys{Right: true, Number: -1})
	want = []loop.Command{loop.StopMoveLeft, loop.StopFire, loop.StartMoveRight}
	if !slices.Equal(f.Commands, want) {
		t.Fatalf("commands %v, want %v", f.Commands, want)
	}
}

func TestTranslatorOneShotActions(t *testing.T) {
	tr := NewTranslator()

	f := tr.Translate(Keys{Pause: true, Restart: true, Number: 3})
	if !f.TogglePause || !f.Restart || f.Knob != 3 {
		t.Fatalf("frame %+v, want pause, restart and knob 3", f)
	}
	f = tr.Translate(Keys{Pause: true, Restart: true, Number: 3})
	if f.TogglePause || f.Restart || f.Knob != -1 {
		t.Fatalf("held keys retriggered: %+v", f)
	}
	f = tr.Translate(Keys{Number: 5})
	if f.Knob != 5 {
		t.Fatalf("knob %d, want 5", f.Knob)
	}
}

func TestStreamRead(t *testing.T) {
	s := StartStream(bytes.NewReader([]byte("d")), NewTracker(time.Hour))

	var keys Keys
	ok := true
	for ok {
		var k Keys
		k, ok = s.Read(t0)
		if k.Right {
			keys = k
		}
	}
	if !keys.Right {
		t.Fatal("right key never reported")
	}
}

func TestTrackerFeedKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want func(Keys) bool
	}{
		{"left arrow", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), func(k Keys) bool { return k.Left }},
		{"right arrow", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), func(k Keys) bool { return k.Right }},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), func(k Keys) bool { return k.Quit }},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), func(k Keys) bool { return k.Restart }},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), func(k Keys) bool { return k.Fire }},
		{"digit", tcell.NewEventKey(tcell.KeyRune, '4', tcell.ModNone), func(k Keys) bool { return k.Number == 4 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker(DefaultHoldDuration)
			tr.FeedKey(tt.ev, t0)
			if !tt.want(tr.State(t0)) {
				t.Fatalf("state = %+v", tr.State(t0))
			}
		})
	}
}
