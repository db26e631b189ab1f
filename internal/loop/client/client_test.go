package client

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/orbit/internal/input"
	"github.com/tomz197/orbit/internal/loop/config"
)

func fixedSize(cols, rows int) func() (int, int, error) {
	return func() (int, int, error) { return cols, rows, nil }
}

func newTestClient(t *testing.T, out io.Writer) *Client {
	t.Helper()
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })

	c, err := New(pr, out, Options{
		Settings:     config.Default(),
		TermSizeFunc: fixedSize(120, 40),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(c.game.Close)
	return c
}

func idle() input.Keys { return input.Keys{Number: -1} }

func TestFrameDrawsHUD(t *testing.T) {
	var out bytes.Buffer
	c := newTestClient(t, &out)

	running, err := c.frame(idle(), time.Now())
	if err != nil || !running {
		t.Fatalf("frame = %v, %v", running, err)
	}
	if !strings.Contains(out.String(), "Score: 0") {
		t.Fatal("score missing from frame")
	}
	if !strings.Contains(out.String(), "Planet [") {
		t.Fatal("health bar missing from frame")
	}
}

func TestFramePauseToggle(t *testing.T) {
	c := newTestClient(t, io.Discard)
	now := time.Now()

	c.frame(input.Keys{Pause: true, Number: -1}, now)
	if !c.game.Status().Paused {
		t.Fatal("expected paused")
	}
	// Holding the key does not toggle again.
	c.frame(input.Keys{Pause: true, Number: -1}, now.Add(time.Millisecond))
	if !c.game.Status().Paused {
		t.Fatal("held key toggled pause")
	}
	c.frame(idle(), now.Add(2*time.Millisecond))
	c.frame(input.Keys{Pause: true, Number: -1}, now.Add(3*time.Millisecond))
	if c.game.Status().Paused {
		t.Fatal("expected resumed")
	}
}

func TestFrameKnobSetsAsteroidCount(t *testing.T) {
	c := newTestClient(t, io.Discard)

	c.frame(input.Keys{Number: 3}, time.Now())
	st := c.game.Status()
	if st.Target != 3*config.AsteroidKnobStep {
		t.Fatalf("target = %d, want %d", st.Target, 3*config.AsteroidKnobStep)
	}
	if st.Asteroids != st.Target {
		t.Fatalf("asteroids = %d, want %d", st.Asteroids, st.Target)
	}
}

func TestFrameQuit(t *testing.T) {
	c := newTestClient(t, io.Discard)
	running, err := c.frame(input.Keys{Quit: true, Number: -1}, time.Now())
	if err != nil || running {
		t.Fatalf("frame = %v, %v, want stop", running, err)
	}
}

func TestFrameRestart(t *testing.T) {
	c := newTestClient(t, io.Discard)
	now := time.Now()

	c.frame(input.Keys{Fire: true, Number: -1}, now)
	if c.game.Status().Bullets == 0 {
		t.Fatal("expected a bullet")
	}
	c.frame(input.Keys{Restart: true, Number: -1}, now.Add(time.Millisecond))

	st := c.game.Status()
	if st.Bullets != 0 || st.Score != 0 || !st.Playing {
		t.Fatalf("status after restart = %+v", st)
	}
	if c.scene.Particles() != 0 {
		t.Fatal("particles survived the restart")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	var out bytes.Buffer
	c := newTestClient(t, &out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(out.String(), "\033[?25h") {
		t.Fatal("cursor not restored")
	}
	if c.game.Planet() != nil {
		t.Fatal("game not closed")
	}
}

func TestRunStopsOnClosedInput(t *testing.T) {
	c, err := New(strings.NewReader(""), io.Discard, Options{
		Settings:     config.Default(),
		TermSizeFunc: fixedSize(80, 24),
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if ctx.Err() != nil {
		t.Fatal("run waited for the context instead of the closed input")
	}
}

func TestSessionAdvance(t *testing.T) {
	t0 := time.Now()
	s, err := NewSession(SessionOptions{Settings: config.Default(), Now: t0})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	frame := time.Second / 60
	if !s.Advance(input.Keys{Right: true, Number: -1}, t0.Add(frame)) {
		t.Fatal("session stopped")
	}
	if s.Game().Satellite().Rotation() <= 0 {
		t.Fatalf("rotation = %v, want positive while moving right", s.Game().Satellite().Rotation())
	}
	if s.Advance(input.Keys{Quit: true, Number: -1}, t0.Add(2*frame)) {
		t.Fatal("quit ignored")
	}
}
