package object

import (
	"fmt"
	"math"

	"github.com/tomz197/orbit/internal/physics"
)

// SatelliteParams describes the player satellite.
type SatelliteParams struct {
	Token       Token
	Orbit       float64 // Distance from the origin
	Radius      float64
	Angle       float64 // Initial rotation in radians
	Friction    float64
	Restitution float64
	OnDrop      func(s *Satellite)
}

// Satellite is the player-controlled body. Its position is derived from the
// rotation angle and never integrated by forces.
type Satellite struct {
	body
	orbit  float64
	angle  float64
	onDrop func(s *Satellite)
}

// NewSatellite creates a kinematic body on the orbit at the initial angle.
func NewSatellite(world physics.World, visual Visual, p SatelliteParams) (*Satellite, error) {
	if err := checkPositive("satellite radius", p.Radius); err != nil {
		return nil, err
	}
	if err := checkPositive("satellite orbit", p.Orbit); err != nil {
		return nil, err
	}
	if math.IsNaN(p.Angle) || math.IsInf(p.Angle, 0) {
		return nil, fmt.Errorf("%w: satellite angle must be finite, got %v", ErrInvalidParams, p.Angle)
	}

	x, y := orbitPoint(p.Orbit, p.Angle)
	b, err := newBody(world, visual, p.Token, physics.BodyDesc{
		Kind:        physics.KinematicPosition,
		X:           x,
		Y:           y,
		Radius:      p.Radius,
		Friction:    p.Friction,
		Restitution: p.Restitution,
	})
	if err != nil {
		return nil, err
	}

	s := &Satellite{body: b, orbit: p.Orbit, angle: p.Angle, onDrop: p.OnDrop}
	s.visual.AttachVisual(s)
	s.visual.SetVisualPosition(s, x, y)
	s.visual.SetVisualRotation(s, p.Angle)
	return s, nil
}

// Kind implements Collidable.
func (s *Satellite) Kind() Kind { return KindSatellite }

// Rotation returns the authoritative rotation angle.
func (s *Satellite) Rotation() float64 { return s.angle }

// Orbit returns the orbit radius.
func (s *Satellite) Orbit() float64 { return s.orbit }

// SetRotation moves the satellite to angle on its orbit. The body reaches the
// new position on the next physics step.
func (s *Satellite) SetRotation(angle float64) {
	if s.removed {
		return
	}
	s.angle = angle
	x, y := orbitPoint(s.orbit, angle)
	s.world.SetNextPosition(s.handle, x, y)
	s.visual.SetVisualRotation(s, angle)
}

// Muzzle returns the bullet spawn point, clearance units outside the
// satellite collider, and the radial firing direction.
func (s *Satellite) Muzzle(clearance float64) (x, y, dirX, dirY float64) {
	dirY, dirX = math.Sincos(s.angle)
	d := s.orbit + s.radius + clearance
	return dirX * d, dirY * d, dirX, dirY
}

// Update syncs the visual with the physics translation.
func (s *Satellite) Update(UpdateContext) {
	if s.removed {
		return
	}
	s.syncVisual(s)
}

// Remove tears the satellite down and calls its drop callback.
func (s *Satellite) Remove() {
	if !s.teardown(s) {
		return
	}
	if s.onDrop != nil {
		s.onDrop(s)
	}
}

func orbitPoint(orbit, angle float64) (float64, float64) {
	sin, cos := math.Sincos(angle)
	return orbit * cos, orbit * sin
}
