// Package loop runs the simulation: one Tick per frame advances input state,
// cadences, physics, collision routing and the entity update pass.
package loop

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/orbit/internal/loop/config"
	"github.com/tomz197/orbit/internal/object"
	"github.com/tomz197/orbit/internal/physics"
)

// Options configures a Game.
type Options struct {
	Settings     config.Settings
	World        physics.World             // Defaults to a Chipmunk space
	Visual       object.Visual             // Defaults to object.NopVisual
	SpeedVectors object.SpeedVectorFactory // Optional asteroid velocity indicators
	Logger       *log.Logger
	Rand         *rand.Rand // Spawn randomness, seeded from the clock if nil
	OnStatus     func(Status)
	Now          time.Time // Start time; the first Tick measures from here
}

// Game owns every entity, both registries and the handle lookup. It is
// driven from a single goroutine.
type Game struct {
	settings config.Settings
	world    physics.World
	visual   object.Visual
	speed    object.SpeedVectorFactory
	logger   *log.Logger
	rng      *rand.Rand
	onStatus func(Status)
	router   *Router

	bullets   *object.Registry[*object.Bullet]
	asteroids *object.Registry[*object.Asteroid]
	lookup    *object.Lookup
	planet    *object.Planet
	satellite *object.Satellite
	nextToken object.Token

	input     controls
	angle     float64
	fire      Cadence
	spawn     Cadence
	lastTick  time.Time
	score     int
	paused    bool
	wasActive bool
}

// New validates the settings and spawns the planet, the satellite and the
// initial asteroid population.
func New(opts Options) (*Game, error) {
	if err := opts.Settings.Validate(); err != nil {
		return nil, err
	}

	world := opts.World
	if world == nil {
		cfg := physics.DefaultSpaceConfig()
		cfg.Dimensions = opts.Settings.Dimensions
		space, err := physics.NewSpace(cfg)
		if err != nil {
			return nil, fmt.Errorf("physics world: %w", err)
		}
		world = space
	}

	g := &Game{
		settings:  opts.Settings,
		world:     world,
		visual:    opts.Visual,
		speed:     opts.SpeedVectors,
		logger:    opts.Logger,
		rng:       opts.Rand,
		onStatus:  opts.OnStatus,
		router:    NewRouter(opts.Settings.ScorePerLevel, opts.Settings.DamagePerLevel),
		bullets:   object.NewRegistry[*object.Bullet](),
		asteroids: object.NewRegistry[*object.Asteroid](),
		lookup:    object.NewLookup(),
	}
	if g.visual == nil {
		g.visual = object.NopVisual{}
	}
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	g.fire.Interval = g.settings.FireInterval()
	g.spawn.Interval = g.settings.SpawnInterval()

	if err := g.populate(opts.Now); err != nil {
		g.Close()
		return nil, err
	}
	return g, nil
}

// populate spawns a fresh round.
func (g *Game) populate(now time.Time) error {
	if err := g.spawnPlanet(); err != nil {
		return err
	}
	if err := g.spawnSatellite(); err != nil {
		return err
	}
	if err := g.regenerate(); err != nil {
		return err
	}
	g.lastTick = now
	g.spawn.Arm(now)
	g.wasActive = true
	return nil
}

// Handle applies one input command.
// Turning fire on shoots on the next tick, however recent the last shot.
func (g *Game) Handle(c Command) {
	wasFiring := g.input.firing
	if !g.input.apply(c) {
		g.logger.Warn("ignoring unknown command", "command", c)
		return
	}
	if g.input.firing && !wasFiring {
		g.fire.Reset()
	}
}

// Playing reports whether gameplay runs: the planet and the satellite are
// alive and the game is not paused.
func (g *Game) Playing() bool {
	return !g.paused && !g.over()
}

func (g *Game) over() bool {
	return g.planet == nil || g.satellite == nil
}

// Tick advances the game to now. Outside of play only the status is pushed.
func (g *Game) Tick(now time.Time) {
	elapsed := g.frameDelta(now)
	step := min(elapsed, g.settings.MaxStep)

	if !g.Playing() {
		g.wasActive = false
		g.pushStatus()
		return
	}
	if !g.wasActive {
		// Resume: cadences measure from here instead of catching up.
		g.spawn.Arm(now)
		g.wasActive = true
	}

	g.rotate(elapsed)
	if g.input.firing && g.fire.Ready(now) {
		g.shoot()
	}
	if g.spawn.Ready(now) {
		if err := g.spawnAsteroid(); err != nil {
			g.logger.Warn("asteroid spawn failed", "err", err)
		}
	}

	events := g.world.Step(step)
	g.router.Route(events, g.lookup, g.apply)
	g.update(step)
	g.pushStatus()
}

// frameDelta returns the time since the previous tick, never negative, and
// moves the reference to now. Rotation uses it whole; the physics step is
// clamped to MaxStep.
func (g *Game) frameDelta(now time.Time) time.Duration {
	var dt time.Duration
	if !g.lastTick.IsZero() {
		dt = now.Sub(g.lastTick)
	}
	g.lastTick = now
	return max(dt, 0)
}

func (g *Game) rotate(dt time.Duration) {
	dir := g.input.direction()
	if dir == 0 || dt <= 0 {
		return
	}
	g.angle = math.Remainder(g.angle+dir*g.settings.AngularSpeed*dt.Seconds(), 2*math.Pi)
	g.satellite.SetRotation(g.angle)
}

// apply mutates the game by one collision outcome, skipping entities that
// an earlier effect already removed.
func (g *Game) apply(eff Effects) {
	g.score += eff.Score

	if eff.PlanetDamage > 0 && g.planet != nil {
		if g.planet.Damage(eff.PlanetDamage) {
			g.logger.Info("planet destroyed", "score", g.score)
			g.planet.Remove()
		}
	}
	for _, e := range eff.Destroy {
		if !e.Removed() {
			e.Remove()
		}
	}
	for _, a := range eff.Explode {
		if a.Removed() {
			continue
		}
		if _, err := a.Explode(g.splitRule()); err != nil {
			g.logger.Warn("asteroid split failed", "err", err)
		}
	}
}

// update runs the visual-sync and culling pass over registry snapshots.
func (g *Game) update(dt time.Duration) {
	ctx := object.UpdateContext{Delta: dt, CullDistance: g.settings.CullDistance()}
	for _, b := range g.bullets.Snapshot() {
		b.Update(ctx)
	}
	for _, a := range g.asteroids.Snapshot() {
		a.Update(ctx)
	}
	if g.satellite != nil {
		g.satellite.Update(ctx)
	}
	if g.planet != nil {
		g.planet.Update(ctx)
	}
}

// SetPaused pauses or resumes gameplay. The tick keeps running.
func (g *Game) SetPaused(paused bool) {
	if g.paused == paused {
		return
	}
	g.paused = paused
	if paused {
		g.logger.Info("game paused")
	} else {
		g.logger.Info("game resumed")
	}
	g.pushStatus()
}

// SetAsteroidCount changes the asteroid population and regenerates the
// whole asteroid registry.
func (g *Game) SetAsteroidCount(n int) error {
	if n < 0 {
		g.logger.Warn("rejecting asteroid count", "count", n)
		return fmt.Errorf("%w: asteroid count must not be negative, got %d", config.ErrInvalidConfig, n)
	}
	g.settings.AsteroidCount = n
	if err := g.regenerate(); err != nil {
		return err
	}
	g.logger.Info("asteroids regenerated", "count", n)
	g.pushStatus()
	return nil
}

// regenerate replaces every asteroid with a fresh population.
func (g *Game) regenerate() error {
	g.asteroids.Clear(func(a *object.Asteroid) { a.Remove() })
	var errs []error
	for i := 0; i < g.settings.AsteroidCount; i++ {
		errs = append(errs, g.spawnAsteroid())
	}
	return errors.Join(errs...)
}

// Restart tears the round down and starts a new one at now.
func (g *Game) Restart(now time.Time) error {
	g.Close()
	g.score = 0
	g.angle = 0
	g.input = controls{}
	g.paused = false
	g.fire.Reset()
	if err := g.populate(now); err != nil {
		return err
	}
	g.logger.Info("game restarted")
	g.pushStatus()
	return nil
}

// Close removes every entity, leaving the world and the visual empty.
func (g *Game) Close() {
	g.bullets.Clear(func(b *object.Bullet) { b.Remove() })
	g.asteroids.Clear(func(a *object.Asteroid) { a.Remove() })
	if g.satellite != nil {
		g.satellite.Remove()
	}
	if g.planet != nil {
		g.planet.Remove()
	}
}

func (g *Game) token() object.Token {
	g.nextToken++
	return g.nextToken
}

func (g *Game) splitRule() object.SplitRule {
	return object.SplitRule{
		SpeedFactor: g.settings.SplitSpeedFactor,
		Gap:         g.settings.SplitGap,
		Phase:       func() float64 { return g.rng.Float64() * 2 * math.Pi },
		NextToken:   g.token,
	}
}
