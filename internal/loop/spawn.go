package loop

import (
	"math"

	"github.com/tomz197/orbit/internal/object"
	"github.com/tomz197/orbit/internal/physics"
)

// muzzleClearance separates a fresh bullet from the satellite collider.
const muzzleClearance = 0.5

func (g *Game) spawnPlanet() error {
	p, err := object.NewPlanet(g.world, g.visual, object.PlanetParams{
		Token:       g.token(),
		Radius:      g.settings.PlanetRadius,
		Health:      g.settings.PlanetHealth,
		Friction:    g.settings.Friction,
		Restitution: g.settings.Restitution,
		OnDrop: func(p *object.Planet) {
			g.lookup.Delete(p.Handle())
			if g.planet == p {
				g.planet = nil
			}
		},
	})
	if err != nil {
		return err
	}
	g.planet = p
	g.lookup.Put(p)
	return nil
}

func (g *Game) spawnSatellite() error {
	s, err := object.NewSatellite(g.world, g.visual, object.SatelliteParams{
		Token:       g.token(),
		Orbit:       g.settings.OrbitRadius,
		Radius:      g.settings.SatelliteRadius,
		Angle:       g.angle,
		Friction:    g.settings.Friction,
		Restitution: g.settings.Restitution,
		OnDrop: func(s *object.Satellite) {
			g.lookup.Delete(s.Handle())
			if g.satellite == s {
				g.satellite = nil
			}
		},
	})
	if err != nil {
		return err
	}
	g.satellite = s
	g.lookup.Put(s)
	return nil
}

// shoot fires one bullet radially outward from the satellite.
func (g *Game) shoot() {
	x, y, dx, dy := g.satellite.Muzzle(g.settings.BulletRadius + muzzleClearance)
	b, err := object.NewBullet(g.world, g.visual, object.BulletParams{
		Token:       g.token(),
		X:           x,
		Y:           y,
		DirX:        dx,
		DirY:        dy,
		Speed:       g.settings.BulletSpeed,
		Radius:      g.settings.BulletRadius,
		Mass:        g.settings.BulletMass,
		Friction:    g.settings.Friction,
		Restitution: g.settings.Restitution,
		OnDrop:      g.dropBullet,
	})
	if err != nil {
		g.logger.Warn("bullet spawn failed", "err", err)
		return
	}
	g.registerBullet(b)
	g.logger.Debug("bullet fired", "token", b.Token(), "angle", g.angle)
}

func (g *Game) registerBullet(b *object.Bullet) {
	g.bullets.Add(b)
	g.lookup.Put(b)
}

func (g *Game) dropBullet(b *object.Bullet) {
	g.bullets.Delete(b.Token())
	g.lookup.Delete(b.Handle())
}

func (g *Game) asteroidHandlers() object.AsteroidHandlers {
	return object.AsteroidHandlers{
		Drop: func(a *object.Asteroid) {
			g.asteroids.Delete(a.Token())
			g.lookup.Delete(a.Handle())
		},
		Split:        g.registerAsteroid,
		SpeedVectors: g.speed,
	}
}

func (g *Game) registerAsteroid(a *object.Asteroid) {
	g.asteroids.Add(a)
	g.lookup.Put(a)
	g.logger.Debug("asteroid spawned", "token", a.Token(), "level", a.Level())
}

// spawnAsteroid places one asteroid outside the viewport. With no asteroid
// on screen it enters just past the viewport edge aimed at the origin.
// Otherwise it starts further out on the viewport's circumscribed circle and
// is aimed at the origin or, for the undirected share, at a random point of
// the enlarged target box.
func (g *Game) spawnAsteroid() error {
	s := g.settings
	level := 1 + g.rng.IntN(s.AsteroidMaxLevel)
	radius := s.AsteroidRadius(level)
	sin, cos := math.Sincos(g.rng.Float64() * 2 * math.Pi)

	var x, y, tx, ty float64
	if !g.asteroidVisible() {
		d := edgeDistance(cos, sin, s.ViewWidth/2+radius+s.SpawnMargin, s.ViewHeight/2+radius+s.SpawnMargin)
		x, y = cos*d, sin*d
	} else {
		d := s.HalfDiagonal() + radius + s.SpawnMargin
		x, y = cos*d, sin*d
		if g.rng.Float64() >= s.DirectedShare {
			tx = (g.rng.Float64() - 0.5) * s.ViewWidth * s.TargetBoxFactor
			ty = (g.rng.Float64() - 0.5) * s.ViewHeight * s.TargetBoxFactor
		}
	}

	dx, dy := physics.Normalize(tx-x, ty-y)
	speed := s.AsteroidMinSpeed + g.rng.Float64()*(s.AsteroidMaxSpeed-s.AsteroidMinSpeed)

	a, err := object.NewAsteroid(g.world, g.visual, object.AsteroidParams{
		Token:       g.token(),
		Level:       level,
		X:           x,
		Y:           y,
		VX:          dx * speed,
		VY:          dy * speed,
		Radius:      radius,
		Mass:        s.AsteroidMass(level),
		Friction:    s.Friction,
		Restitution: s.Restitution,
		Handlers:    g.asteroidHandlers(),
	})
	if err != nil {
		return err
	}
	g.registerAsteroid(a)
	return nil
}

// asteroidVisible reports whether any live asteroid overlaps the viewport.
// TODO: keep a visible count in the update pass once asteroid counts get
// large enough for this scan to matter.
func (g *Game) asteroidVisible() bool {
	halfW, halfH := g.settings.ViewWidth/2, g.settings.ViewHeight/2
	visible := false
	g.asteroids.Each(func(a *object.Asteroid) {
		if visible || a.Removed() {
			return
		}
		x, y := a.Position()
		r := a.Radius()
		visible = math.Abs(x) <= halfW+r && math.Abs(y) <= halfH+r
	})
	return visible
}

// edgeDistance returns how far a ray from the origin along (cos, sin) travels
// before leaving the box [-halfW, halfW] x [-halfH, halfH].
func edgeDistance(cos, sin, halfW, halfH float64) float64 {
	d := math.Inf(1)
	if c := math.Abs(cos); c > 1e-12 {
		d = halfW / c
	}
	if s := math.Abs(sin); s > 1e-12 {
		d = math.Min(d, halfH/s)
	}
	return d
}
