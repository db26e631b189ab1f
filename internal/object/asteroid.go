package object

import (
	"errors"
	"fmt"
	"math"

	"github.com/tomz197/orbit/internal/physics"
)

// AsteroidHandlers are the callbacks an asteroid carries. Children created by
// Explode receive the same handlers, so registry bookkeeping follows every
// generation.
type AsteroidHandlers struct {
	Drop         func(a *Asteroid)     // Called once after teardown
	Split        func(child *Asteroid) // Called for each child before the parent is torn down
	SpeedVectors SpeedVectorFactory    // Optional velocity indicator
}

// AsteroidParams describes an asteroid to spawn.
type AsteroidParams struct {
	Token       Token
	Level       int
	X, Y        float64
	VX, VY      float64
	Radius      float64
	Mass        float64
	Friction    float64
	Restitution float64
	Handlers    AsteroidHandlers
}

// SplitRule holds the tuned constants used when an asteroid explodes.
type SplitRule struct {
	SpeedFactor float64        // Child speed relative to the parent
	Gap         float64        // Added to the sum of two child radii to space children
	Phase       func() float64 // Random angular phase, zero if nil
	NextToken   func() Token   // Registry token source for children
}

// Asteroid is a destructible space rock. Its level drives its radius, the
// damage it deals and how many children it splits into.
type Asteroid struct {
	body
	level       int
	friction    float64
	restitution float64
	handlers    AsteroidHandlers
	speed       SpeedVector
}

// NewAsteroid creates a dynamic CCD body and attaches its visual.
func NewAsteroid(world physics.World, visual Visual, p AsteroidParams) (*Asteroid, error) {
	if p.Level < 1 {
		return nil, fmt.Errorf("%w: asteroid level must be at least 1, got %d", ErrInvalidParams, p.Level)
	}
	if err := checkPositive("asteroid radius", p.Radius); err != nil {
		return nil, err
	}
	if err := checkPositive("asteroid mass", p.Mass); err != nil {
		return nil, err
	}

	b, err := newBody(world, visual, p.Token, physics.BodyDesc{
		Kind:        physics.Dynamic,
		X:           p.X,
		Y:           p.Y,
		VX:          p.VX,
		VY:          p.VY,
		Radius:      p.Radius,
		Mass:        p.Mass,
		Friction:    p.Friction,
		Restitution: p.Restitution,
		CCD:         true,
	})
	if err != nil {
		return nil, err
	}

	a := &Asteroid{
		body:        b,
		level:       p.Level,
		friction:    p.Friction,
		restitution: p.Restitution,
		handlers:    p.Handlers,
	}
	a.visual.AttachVisual(a)
	a.visual.SetVisualPosition(a, p.X, p.Y)
	if p.Handlers.SpeedVectors != nil {
		a.speed = p.Handlers.SpeedVectors(a)
		if a.speed != nil {
			a.speed.Update(p.VX, p.VY)
		}
	}
	return a, nil
}

// Kind implements Collidable.
func (a *Asteroid) Kind() Kind { return KindAsteroid }

// Level returns the asteroid level (1 is the smallest).
func (a *Asteroid) Level() int { return a.level }

// Update syncs the visual and speed vector and removes the asteroid once it
// leaves the arena.
func (a *Asteroid) Update(ctx UpdateContext) {
	if a.removed {
		return
	}
	x, y := a.syncVisual(a)
	if a.speed != nil {
		a.speed.Update(a.Velocity())
	}
	if beyond(x, y, ctx.CullDistance) {
		a.Remove()
	}
}

// Remove tears the asteroid down without splitting and calls the drop handler.
func (a *Asteroid) Remove() {
	if !a.teardown(a) {
		return
	}
	if a.speed != nil {
		a.speed.Remove()
		a.speed = nil
	}
	if a.handlers.Drop != nil {
		a.handlers.Drop(a)
	}
}

// Explode destroys the asteroid. A level N > 1 asteroid first spawns N
// children of level N-1 around its last position; each child is handed to the
// Split handler before the parent is torn down. Level 1 asteroids leave
// nothing behind. Exploding a removed asteroid does nothing.
func (a *Asteroid) Explode(rule SplitRule) ([]*Asteroid, error) {
	if a.removed {
		return nil, nil
	}
	defer a.Remove()

	if a.level <= 1 {
		return nil, nil
	}

	n := a.level
	x, y := a.Position()
	vx, vy := a.Velocity()
	childRadius := a.radius / 2
	childMass := a.mass / float64(n)
	spacing := 2*childRadius + rule.Gap

	phase := 0.0
	if rule.Phase != nil {
		phase = rule.Phase()
	}

	children := make([]*Asteroid, 0, n)
	var errs []error
	for i := 0; i < n; i++ {
		angle := 2*math.Pi/float64(n)*float64(i) + phase
		sin, cos := math.Sincos(angle)
		cvx, cvy := physics.Rotate(vx, vy, angle)

		var token Token
		if rule.NextToken != nil {
			token = rule.NextToken()
		}

		child, err := NewAsteroid(a.world, a.visual, AsteroidParams{
			Token:       token,
			Level:       n - 1,
			X:           x + cos*spacing,
			Y:           y + sin*spacing,
			VX:          cvx * rule.SpeedFactor,
			VY:          cvy * rule.SpeedFactor,
			Radius:      childRadius,
			Mass:        childMass,
			Friction:    a.friction,
			Restitution: a.restitution,
			Handlers:    a.handlers,
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if a.handlers.Split != nil {
			a.handlers.Split(child)
		}
		children = append(children, child)
	}

	return children, errors.Join(errs...)
}
