package object

import (
	"fmt"

	"github.com/tomz197/orbit/internal/physics"
)

// BulletParams describes a bullet to spawn.
type BulletParams struct {
	Token       Token
	X, Y        float64 // Spawn position
	DirX, DirY  float64 // Direction of travel, normalized on spawn
	Speed       float64
	Radius      float64
	Mass        float64
	Friction    float64
	Restitution float64
	OnDrop      func(b *Bullet) // Called once after teardown
}

// Bullet is a projectile fired by the satellite.
type Bullet struct {
	body
	onDrop func(b *Bullet)
}

// NewBullet creates a dynamic CCD body travelling along (DirX, DirY) and
// attaches its visual.
func NewBullet(world physics.World, visual Visual, p BulletParams) (*Bullet, error) {
	if err := checkPositive("bullet radius", p.Radius); err != nil {
		return nil, err
	}
	if err := checkPositive("bullet mass", p.Mass); err != nil {
		return nil, err
	}
	if p.Speed < 0 {
		return nil, fmt.Errorf("%w: bullet speed must not be negative, got %v", ErrInvalidParams, p.Speed)
	}
	dx, dy := physics.Normalize(p.DirX, p.DirY)
	if p.Speed > 0 && dx == 0 && dy == 0 {
		return nil, fmt.Errorf("%w: bullet direction is zero", ErrInvalidParams)
	}

	b, err := newBody(world, visual, p.Token, physics.BodyDesc{
		Kind:        physics.Dynamic,
		X:           p.X,
		Y:           p.Y,
		VX:          dx * p.Speed,
		VY:          dy * p.Speed,
		Radius:      p.Radius,
		Mass:        p.Mass,
		Friction:    p.Friction,
		Restitution: p.Restitution,
		CCD:         true,
	})
	if err != nil {
		return nil, err
	}

	bullet := &Bullet{body: b, onDrop: p.OnDrop}
	bullet.visual.AttachVisual(bullet)
	bullet.visual.SetVisualPosition(bullet, p.X, p.Y)
	return bullet, nil
}

// Kind implements Collidable.
func (b *Bullet) Kind() Kind { return KindBullet }

// Update syncs the visual and removes the bullet once it leaves the arena.
func (b *Bullet) Update(ctx UpdateContext) {
	if b.removed {
		return
	}
	x, y := b.syncVisual(b)
	if beyond(x, y, ctx.CullDistance) {
		b.Remove()
	}
}

// Remove tears the bullet down and calls its drop callback.
func (b *Bullet) Remove() {
	if !b.teardown(b) {
		return
	}
	if b.onDrop != nil {
		b.onDrop(b)
	}
}
