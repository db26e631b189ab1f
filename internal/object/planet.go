package object

import (
	"fmt"
	"math"

	"github.com/tomz197/orbit/internal/physics"
)

// MaxHealth is the health of an undamaged planet.
const MaxHealth = 100

// IndicatorBands is the number of colour steps of the health indicator.
const IndicatorBands = 5

// PlanetParams describes the planet.
type PlanetParams struct {
	Token       Token
	Radius      float64
	Health      float64 // Starting health, (0, MaxHealth]
	Friction    float64
	Restitution float64
	OnDrop      func(p *Planet)
}

// Planet is the immovable body at the origin the player defends.
type Planet struct {
	body
	health float64
	onDrop func(p *Planet)
}

// NewPlanet creates a fixed body at the origin.
func NewPlanet(world physics.World, visual Visual, p PlanetParams) (*Planet, error) {
	if err := checkPositive("planet radius", p.Radius); err != nil {
		return nil, err
	}
	if !(p.Health > 0 && p.Health <= MaxHealth) {
		return nil, fmt.Errorf("%w: planet health must be within (0, %d], got %v", ErrInvalidParams, MaxHealth, p.Health)
	}

	b, err := newBody(world, visual, p.Token, physics.BodyDesc{
		Kind:        physics.Fixed,
		Radius:      p.Radius,
		Friction:    p.Friction,
		Restitution: p.Restitution,
	})
	if err != nil {
		return nil, err
	}

	planet := &Planet{body: b, health: p.Health, onDrop: p.OnDrop}
	planet.visual.AttachVisual(planet)
	planet.visual.SetVisualPosition(planet, 0, 0)
	return planet, nil
}

// Kind implements Collidable.
func (p *Planet) Kind() Kind { return KindPlanet }

// Health returns the remaining health, 0 to MaxHealth.
func (p *Planet) Health() float64 { return p.health }

// Damage lowers the health by amount, clamped at zero, and reports whether
// the planet is destroyed. The caller removes a destroyed planet.
func (p *Planet) Damage(amount float64) bool {
	if p.removed {
		return false
	}
	if amount > 0 {
		p.health = math.Max(0, p.health-amount)
	}
	return p.health <= 0
}

// Indicator returns the health ring value in percent.
func (p *Planet) Indicator() float64 {
	return p.health / MaxHealth * 100
}

// Band returns the colour step of the health ring, 0 (critical) to
// IndicatorBands-1 (full health).
func (p *Planet) Band() int {
	return HealthBand(p.Indicator())
}

// HealthBand maps a percentage to a colour step of the health ring.
func HealthBand(percent float64) int {
	percent = math.Min(math.Max(percent, 0), 100)
	return int(math.Floor((IndicatorBands - 1) * percent / 100))
}

// Update keeps the visual pinned to the body.
func (p *Planet) Update(UpdateContext) {
	if p.removed {
		return
	}
	p.syncVisual(p)
}

// Remove tears the planet down and calls its drop callback.
func (p *Planet) Remove() {
	if !p.teardown(p) {
		return
	}
	if p.onDrop != nil {
		p.onDrop(p)
	}
}
