package object

import (
	"errors"
	"fmt"
	"time"

	"github.com/tomz197/orbit/internal/physics"
)

// ErrInvalidParams is returned when an entity is constructed from malformed
// spawn parameters.
var ErrInvalidParams = errors.New("invalid spawn parameters")

// Kind tags the entity variant. Collision rules are keyed by pairs of kinds.
type Kind uint8

const (
	KindBullet Kind = iota + 1
	KindAsteroid
	KindSatellite
	KindPlanet
)

func (k Kind) String() string {
	switch k {
	case KindBullet:
		return "bullet"
	case KindAsteroid:
		return "asteroid"
	case KindSatellite:
		return "satellite"
	case KindPlanet:
		return "planet"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Token identifies an entity inside its registry.
type Token uint64

// UpdateContext provides all the information an entity needs during update.
type UpdateContext struct {
	Delta        time.Duration
	CullDistance float64 // Bullets and asteroids further than this from the origin remove themselves
}

// Collidable is implemented by entities that own a physics collider.
type Collidable interface {
	Kind() Kind
	Handle() physics.Handle
}

// Destructible is implemented by entities that can be torn down.
type Destructible interface {
	// Remove releases the body, collider and visual, then calls the drop
	// callback. Calling it again is a no-op.
	Remove()
	// Removed reports whether Remove has run.
	Removed() bool
}

// Updatable is implemented by entities that run every frame.
type Updatable interface {
	Update(ctx UpdateContext)
}

// Entity is any simulated object with a physics body.
type Entity interface {
	Collidable
	Destructible
	Updatable
	Token() Token
	Position() (x, y float64)
	Velocity() (vx, vy float64)
	Radius() float64
	Mass() float64
}

// Visual is the rendering collaborator. Calls are fire-and-forget.
type Visual interface {
	AttachVisual(e Entity)
	SetVisualPosition(e Entity, x, y float64)
	SetVisualRotation(e Entity, angle float64)
	DetachVisual(e Entity)
}

// NopVisual discards every call; used for headless simulations.
type NopVisual struct{}

func (NopVisual) AttachVisual(Entity) {}

func (NopVisual) SetVisualPosition(Entity, float64, float64) {}

func (NopVisual) SetVisualRotation(Entity, float64) {}

func (NopVisual) DetachVisual(Entity) {}

// SpeedVector is a visual velocity indicator attached to an entity.
type SpeedVector interface {
	Update(vx, vy float64)
	Remove()
}

// SpeedVectorFactory creates the speed vector for an entity.
type SpeedVectorFactory func(e Entity) SpeedVector

// body holds what every entity kind shares: its physics handle, the visual
// it is attached to and the removed flag guarding teardown.
type body struct {
	world   physics.World
	visual  Visual
	handle  physics.Handle
	token   Token
	radius  float64
	mass    float64
	removed bool
}

func newBody(world physics.World, visual Visual, token Token, desc physics.BodyDesc) (body, error) {
	if world == nil {
		return body{}, fmt.Errorf("%w: nil physics world", ErrInvalidParams)
	}
	if visual == nil {
		visual = NopVisual{}
	}
	h, err := world.CreateBody(desc)
	if err != nil {
		return body{}, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return body{
		world:  world,
		visual: visual,
		handle: h,
		token:  token,
		radius: desc.Radius,
		mass:   desc.Mass,
	}, nil
}

// Handle returns the physics handle of the entity's body and collider.
func (b *body) Handle() physics.Handle { return b.handle }

// Token returns the registry token.
func (b *body) Token() Token { return b.token }

// Position returns the body translation.
func (b *body) Position() (float64, float64) { return b.world.Translation(b.handle) }

// Velocity returns the body linear velocity.
func (b *body) Velocity() (float64, float64) { return b.world.LinearVelocity(b.handle) }

// Radius returns the collider radius.
func (b *body) Radius() float64 { return b.radius }

// Mass returns the body mass.
func (b *body) Mass() float64 { return b.mass }

// Removed reports whether the entity was torn down.
func (b *body) Removed() bool { return b.removed }

// teardown releases the physics body and collider and detaches the visual of
// e. It returns false if the entity was already removed, in which case
// nothing is touched.
func (b *body) teardown(e Entity) bool {
	if b.removed {
		return false
	}
	b.removed = true
	b.world.RemoveBody(b.handle)
	b.visual.DetachVisual(e)
	return true
}

// syncVisual pushes the physics translation of e to its visual and returns it.
func (b *body) syncVisual(e Entity) (float64, float64) {
	x, y := b.world.Translation(b.handle)
	b.visual.SetVisualPosition(e, x, y)
	return x, y
}

// beyond reports whether (x, y) lies past the cull distance from the origin.
func beyond(x, y, cull float64) bool {
	return cull > 0 && !physics.PointInCircle(x, y, 0, 0, cull)
}

func checkPositive(name string, v float64) error {
	if !(v > 0) {
		return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidParams, name, v)
	}
	return nil
}
