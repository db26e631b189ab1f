// Package config centralizes all tunable game parameters.
package config

import (
	"errors"
	"fmt"
	"math"
	"time"

	envconfig "github.com/tomz197/orbit/internal/config"
)

// ErrInvalidConfig is returned for settings the game cannot run with.
var ErrInvalidConfig = errors.New("invalid config")

// Canvas resolution - the logical drawing surface in canvas units.
// Actual rendering scales to fit terminal size.
const (
	CanvasWidth  = 120 // Logical canvas width
	CanvasHeight = 80  // Logical canvas height (in sub-pixels, so 40 terminal rows)
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Asteroid-count knob: digit keys select digit*AsteroidKnobStep asteroids.
const AsteroidKnobStep = 2

// Settings holds every gameplay constant. World units are centred on the
// planet; the viewport spans [-ViewWidth/2, ViewWidth/2] horizontally.
type Settings struct {
	// Viewport
	ViewWidth      float64
	ViewHeight     float64
	CullMultiplier float64 // Entities further than half-diagonal*CullMultiplier are removed

	// Planet
	PlanetRadius float64
	PlanetHealth float64 // Starting (and maximum) health, at most 100

	// Satellite
	SatelliteRadius float64
	OrbitRadius     float64
	AngularSpeed    float64 // Radians per second while a move key is held

	// Bullets
	BulletRadius  float64
	BulletMass    float64
	BulletSpeed   float64
	FirePerSecond float64

	// Asteroids
	AsteroidBaseRadius float64 // Radius of a level 1 asteroid, doubling per level
	AsteroidBaseMass   float64 // Mass of a level 1 asteroid
	AsteroidMaxLevel   int
	AsteroidMinSpeed   float64
	AsteroidMaxSpeed   float64
	AsteroidsPerMinute float64
	AsteroidCount      int     // Asteroids spawned at start and on regeneration
	DirectedShare      float64 // Share of spawns aimed straight at the origin
	TargetBoxFactor    float64 // Size of the undirected target box relative to the viewport
	SpawnMargin        float64 // Gap between the viewport edge and a fresh asteroid

	// Rules
	DamagePerLevel   float64
	ScorePerLevel    int
	SplitSpeedFactor float64
	SplitGap         float64

	// Physics
	Dimensions  int
	MaxStep     time.Duration // Physics steps are clamped to this
	Friction    float64
	Restitution float64
}

// Default returns the stock game settings.
func Default() Settings {
	return Settings{
		ViewWidth:      240,
		ViewHeight:     160,
		CullMultiplier: 3.5,

		PlanetRadius: 15,
		PlanetHealth: 100,

		SatelliteRadius: 3,
		OrbitRadius:     30,
		AngularSpeed:    math.Pi, // 3°/frame at 60fps

		BulletRadius:  1,
		BulletMass:    0.5,
		BulletSpeed:   150,
		FirePerSecond: 2,

		AsteroidBaseRadius: 3,
		AsteroidBaseMass:   1,
		AsteroidMaxLevel:   3,
		AsteroidMinSpeed:   15,
		AsteroidMaxSpeed:   35,
		AsteroidsPerMinute: 40,
		AsteroidCount:      4,
		DirectedShare:      0.7,
		TargetBoxFactor:    1.5,
		SpawnMargin:        2,

		DamagePerLevel:   20,
		ScorePerLevel:    10,
		SplitSpeedFactor: 1.2,
		SplitGap:         0.1,

		Dimensions:  2,
		MaxStep:     50 * time.Millisecond,
		Friction:    0.5,
		Restitution: 0.5,
	}
}

// HalfDiagonal returns half the viewport diagonal.
func (s Settings) HalfDiagonal() float64 {
	return math.Hypot(s.ViewWidth, s.ViewHeight) / 2
}

// CullDistance returns the distance from the origin past which bullets and
// asteroids are removed.
func (s Settings) CullDistance() float64 {
	return s.HalfDiagonal() * s.CullMultiplier
}

// FireInterval returns the minimum time between two shots.
func (s Settings) FireInterval() time.Duration {
	return time.Duration(float64(time.Second) / s.FirePerSecond)
}

// SpawnInterval returns the minimum time between two asteroid spawns.
func (s Settings) SpawnInterval() time.Duration {
	return time.Duration(float64(time.Minute) / s.AsteroidsPerMinute)
}

// AsteroidRadius returns the radius of a freshly spawned asteroid of level.
func (s Settings) AsteroidRadius(level int) float64 {
	return s.AsteroidBaseRadius * math.Pow(2, float64(level-1))
}

// AsteroidMass returns the mass of a freshly spawned asteroid of level.
// A level N asteroid splits into N children of mass/N, so mass grows as N!.
func (s Settings) AsteroidMass(level int) float64 {
	m := s.AsteroidBaseMass
	for l := 2; l <= level; l++ {
		m *= float64(l)
	}
	return m
}

// Validate checks the settings and returns every problem found.
func (s Settings) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if !(v > 0) {
			errs = append(errs, fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, name, v))
		}
	}

	if s.Dimensions != 2 {
		errs = append(errs, fmt.Errorf("%w: only 2 dimensions are supported, got %d", ErrInvalidConfig, s.Dimensions))
	}

	positive("view width", s.ViewWidth)
	positive("view height", s.ViewHeight)
	positive("cull multiplier", s.CullMultiplier)
	positive("planet radius", s.PlanetRadius)
	positive("planet health", s.PlanetHealth)
	positive("satellite radius", s.SatelliteRadius)
	positive("orbit radius", s.OrbitRadius)
	positive("angular speed", s.AngularSpeed)
	positive("bullet radius", s.BulletRadius)
	positive("bullet mass", s.BulletMass)
	positive("bullet speed", s.BulletSpeed)
	positive("fire rate", s.FirePerSecond)
	positive("asteroid base radius", s.AsteroidBaseRadius)
	positive("asteroid base mass", s.AsteroidBaseMass)
	positive("asteroid spawn rate", s.AsteroidsPerMinute)
	positive("target box factor", s.TargetBoxFactor)
	positive("split speed factor", s.SplitSpeedFactor)
	positive("max step", float64(s.MaxStep))

	if s.PlanetHealth > 100 {
		errs = append(errs, fmt.Errorf("%w: planet health is a percentage, got %v", ErrInvalidConfig, s.PlanetHealth))
	}
	if s.OrbitRadius <= s.PlanetRadius+s.SatelliteRadius {
		errs = append(errs, fmt.Errorf("%w: orbit radius %v intersects the planet", ErrInvalidConfig, s.OrbitRadius))
	}
	if s.AsteroidMaxLevel < 1 {
		errs = append(errs, fmt.Errorf("%w: asteroid max level must be at least 1, got %d", ErrInvalidConfig, s.AsteroidMaxLevel))
	}
	if s.AsteroidMinSpeed < 0 || s.AsteroidMaxSpeed < s.AsteroidMinSpeed {
		errs = append(errs, fmt.Errorf("%w: asteroid speed range [%v, %v]", ErrInvalidConfig, s.AsteroidMinSpeed, s.AsteroidMaxSpeed))
	}
	if s.AsteroidCount < 0 {
		errs = append(errs, fmt.Errorf("%w: asteroid count must not be negative, got %d", ErrInvalidConfig, s.AsteroidCount))
	}
	if s.DirectedShare < 0 || s.DirectedShare > 1 {
		errs = append(errs, fmt.Errorf("%w: directed share must be within [0, 1], got %v", ErrInvalidConfig, s.DirectedShare))
	}
	if s.SpawnMargin < 0 || s.SplitGap < 0 {
		errs = append(errs, fmt.Errorf("%w: spawn margin and split gap must not be negative", ErrInvalidConfig))
	}
	if s.DamagePerLevel < 0 || s.ScorePerLevel < 0 {
		errs = append(errs, fmt.Errorf("%w: damage and score per level must not be negative", ErrInvalidConfig))
	}
	if s.Friction < 0 || s.Restitution < 0 {
		errs = append(errs, fmt.Errorf("%w: friction and restitution must not be negative", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// FromEnv applies ORBIT_* environment overrides on top of base and validates
// the result.
func FromEnv(base Settings) (Settings, error) {
	s := base
	var errs []error

	floats := []struct {
		key string
		dst *float64
	}{
		{"ORBIT_VIEW_WIDTH", &s.ViewWidth},
		{"ORBIT_VIEW_HEIGHT", &s.ViewHeight},
		{"ORBIT_CULL_MULTIPLIER", &s.CullMultiplier},
		{"ORBIT_ANGULAR_SPEED", &s.AngularSpeed},
		{"ORBIT_BULLET_SPEED", &s.BulletSpeed},
		{"ORBIT_FIRE_PER_SECOND", &s.FirePerSecond},
		{"ORBIT_ASTEROIDS_PER_MINUTE", &s.AsteroidsPerMinute},
		{"ORBIT_ASTEROID_MIN_SPEED", &s.AsteroidMinSpeed},
		{"ORBIT_ASTEROID_MAX_SPEED", &s.AsteroidMaxSpeed},
		{"ORBIT_DIRECTED_SHARE", &s.DirectedShare},
		{"ORBIT_SPLIT_SPEED_FACTOR", &s.SplitSpeedFactor},
		{"ORBIT_SPLIT_GAP", &s.SplitGap},
	}
	for _, f := range floats {
		v, err := envconfig.GetEnvFloat(f.key, *f.dst)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
			continue
		}
		*f.dst = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"ORBIT_ASTEROID_COUNT", &s.AsteroidCount},
		{"ORBIT_ASTEROID_MAX_LEVEL", &s.AsteroidMaxLevel},
	}
	for _, f := range ints {
		v, err := envconfig.GetEnvInt(f.key, *f.dst)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
			continue
		}
		*f.dst = v
	}

	maxStep, err := envconfig.GetEnvDuration("ORBIT_MAX_STEP", s.MaxStep)
	if err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}
	s.MaxStep = maxStep

	if len(errs) > 0 {
		return base, errors.Join(errs...)
	}
	if err := s.Validate(); err != nil {
		return base, err
	}
	return s, nil
}
