package client

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/orbit/internal/draw"
	"github.com/tomz197/orbit/internal/input"
	"github.com/tomz197/orbit/internal/loop"
	"github.com/tomz197/orbit/internal/loop/config"
	"github.com/tomz197/orbit/internal/render"
)

// SessionOptions configures a Session.
type SessionOptions struct {
	Settings     config.Settings
	Logger       *log.Logger
	HoldDuration time.Duration // How long a key counts as held after its last byte
	SpeedVectors bool          // Draw asteroid velocity indicators
	Now          time.Time
}

// Session couples a game with its scene and input translation. It is
// independent of the output surface, so both the ANSI client and the tcell
// frontend drive one.
type Session struct {
	game       *loop.Game
	scene      *render.Scene
	tracker    *input.Tracker
	translator *input.Translator
	logger     *log.Logger
	lastFrame  time.Time
}

// NewSession starts a game at opts.Now.
func NewSession(opts SessionOptions) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	hold := opts.HoldDuration
	if hold <= 0 {
		hold = input.DefaultHoldDuration
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	s := opts.Settings
	scene := render.NewScene(s.ViewWidth, s.ViewHeight, config.CanvasWidth, config.CanvasHeight)
	scene.ShowSpeedVectors = opts.SpeedVectors

	game, err := loop.New(loop.Options{
		Settings:     s,
		Visual:       scene,
		SpeedVectors: scene.SpeedVector,
		Logger:       logger,
		Now:          now,
	})
	if err != nil {
		return nil, err
	}

	return &Session{
		game:       game,
		scene:      scene,
		tracker:    input.NewTracker(hold),
		translator: input.NewTranslator(),
		logger:     logger,
		lastFrame:  now,
	}, nil
}

// Game returns the simulation.
func (s *Session) Game() *loop.Game { return s.game }

// Scene returns the visual collaborator of the game.
func (s *Session) Scene() *render.Scene { return s.scene }

// Tracker returns the held-key tracker fed by the frontend.
func (s *Session) Tracker() *input.Tracker { return s.tracker }

// Advance applies the keys held at now and runs one frame. It returns false
// once the player asked to quit.
func (s *Session) Advance(keys input.Keys, now time.Time) bool {
	f := s.translator.Translate(keys)
	if f.Quit {
		return false
	}
	s.apply(f, now)

	s.game.Tick(now)
	s.scene.Advance(max(0, now.Sub(s.lastFrame)))
	s.lastFrame = now
	return true
}

// apply routes one frame of input to the game.
func (s *Session) apply(f input.Frame, now time.Time) {
	for _, cmd := range f.Commands {
		s.game.Handle(cmd)
	}

	st := s.game.Status()
	if f.TogglePause && !st.GameOver {
		s.game.SetPaused(!st.Paused)
	}
	if f.Restart {
		if err := s.game.Restart(now); err != nil {
			s.logger.Error("restart failed", "err", err)
		}
		s.tracker.Release()
		s.translator.Reset()
		s.scene.Reset()
	}
	if f.Knob >= 0 {
		if err := s.game.SetAsteroidCount(f.Knob * config.AsteroidKnobStep); err != nil {
			s.logger.Error("asteroid count change failed", "err", err)
		}
	}
}

// DrawScene renders the scene onto a cleared canvas.
func (s *Session) DrawScene(c *draw.Canvas) {
	c.Clear()
	s.scene.Draw(c)
}

// DrawHUD writes the overlay for a cols x rows terminal onto sink.
func (s *Session) DrawHUD(sink render.TextSink, cols, rows int, now time.Time) {
	render.DrawHUD(sink, s.game.Status(), cols, rows, now)
}

// Close tears the game down.
func (s *Session) Close() {
	s.game.Close()
}
