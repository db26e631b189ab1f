package physics

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidBody is returned for a body description the world cannot build.
	ErrInvalidBody = errors.New("invalid body description")
	// ErrDimensions is returned when a world is requested for anything but 2D.
	ErrDimensions = errors.New("only 2 dimensional physics is supported")
)

// Handle identifies a body/collider pair inside a World.
// Handles are assigned by the world and never reused while the world lives.
type Handle uint64

// BodyKind selects how a body is integrated.
type BodyKind uint8

const (
	// Fixed bodies never move but still generate collision events.
	Fixed BodyKind = iota
	// KinematicPosition bodies are moved by SetNextPosition, not by forces.
	KinematicPosition
	// Dynamic bodies are integrated from their velocity.
	Dynamic
)

func (k BodyKind) String() string {
	switch k {
	case Fixed:
		return "fixed"
	case KinematicPosition:
		return "kinematic"
	case Dynamic:
		return "dynamic"
	default:
		return fmt.Sprintf("BodyKind(%d)", uint8(k))
	}
}

// BodyDesc describes a circular body and its collider.
type BodyDesc struct {
	Kind        BodyKind
	X, Y        float64 // Initial position
	VX, VY      float64 // Initial linear velocity (dynamic only)
	Radius      float64
	Mass        float64 // Required for dynamic bodies
	Friction    float64
	Restitution float64
	CCD         bool // Sub-step the world so the body cannot tunnel
}

// Validate reports whether the description can be turned into a body.
func (d BodyDesc) Validate() error {
	if d.Kind > Dynamic {
		return fmt.Errorf("%w: unknown kind %v", ErrInvalidBody, d.Kind)
	}
	if !(d.Radius > 0) {
		return fmt.Errorf("%w: radius must be positive, got %v", ErrInvalidBody, d.Radius)
	}
	if d.Kind == Dynamic && !(d.Mass > 0) {
		return fmt.Errorf("%w: dynamic body mass must be positive, got %v", ErrInvalidBody, d.Mass)
	}
	return nil
}

// CollisionEvent reports that two colliders started or stopped touching.
type CollisionEvent struct {
	A, B    Handle
	Started bool
}

// World is the physics capability consumed by the game core.
//
// Removing a handle twice is undefined; callers guarantee it does not happen.
type World interface {
	CreateBody(desc BodyDesc) (Handle, error)
	RemoveBody(h Handle)
	SetNextPosition(h Handle, x, y float64)
	Translation(h Handle) (x, y float64)
	LinearVelocity(h Handle) (x, y float64)
	// Step advances the simulation by dt and drains the collision events
	// produced since the previous Step.
	Step(dt time.Duration) []CollisionEvent
}
