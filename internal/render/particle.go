package render

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/tomz197/orbit/internal/draw"
)

var particlePool = sync.Pool{
	New: func() any { return &Particle{} },
}

// Particle is a short-lived explosion fragment in world coordinates.
type Particle struct {
	X, Y        float64
	VX, VY      float64
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64 // Initial lifetime, for fading
	Drag        float64 // Velocity kept per 1/60s (1.0 = no drag)
}

func newParticle(x, y, vx, vy, lifetime float64) *Particle {
	p := particlePool.Get().(*Particle)
	*p = Particle{X: x, Y: y, VX: vx, VY: vy, Lifetime: lifetime, MaxLifetime: lifetime, Drag: 0.95}
	return p
}

func (p *Particle) release() {
	particlePool.Put(p)
}

// update advances the particle and reports whether it expired.
func (p *Particle) update(dt time.Duration) bool {
	s := dt.Seconds()
	p.Lifetime -= s
	if p.Lifetime <= 0 {
		return true
	}
	drag := math.Pow(p.Drag, s*60)
	p.VX *= drag
	p.VY *= drag
	p.X += p.VX * s
	p.Y += p.VY * s
	return false
}

// visible reports whether the particle has not faded out yet.
func (p *Particle) visible() bool {
	return p.MaxLifetime <= 0 || p.Lifetime/p.MaxLifetime >= 0.25
}

// explosion spawns count particles in a circular burst around (x, y).
func explosion(x, y float64, count int, speed, lifetime float64) []*Particle {
	out := make([]*Particle, 0, count)
	for i := 0; i < count; i++ {
		sin, cos := math.Sincos(rand.Float64() * 2 * math.Pi)
		spd := speed * (0.5 + rand.Float64())
		life := lifetime * (0.5 + rand.Float64()*0.5)
		out = append(out, newParticle(x, y, cos*spd, sin*spd, life))
	}
	return out
}

func (s *Scene) drawParticles(c *draw.Canvas) {
	for _, p := range s.particles {
		if p.visible() {
			c.SetFloat(s.toCanvas(p.X, p.Y))
		}
	}
}
