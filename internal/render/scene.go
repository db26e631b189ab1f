// Package render draws the simulation into terminal canvases. Scene is the
// visual collaborator handed to the game: it mirrors entity transforms into
// sprites and owns purely visual effects.
package render

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/tomz197/orbit/internal/draw"
	"github.com/tomz197/orbit/internal/object"
)

// speedVectorScale is the look-ahead, in seconds, of a drawn speed vector.
const speedVectorScale = 0.5

type sprite struct {
	entity object.Entity
	x, y   float64
	angle  float64
	spin   float64   // Radians per second, asteroids only
	shape  []float64 // Vertex distances from the centre, asteroids only

	vx, vy    float64
	hasVector bool
}

// Scene keeps one sprite per attached entity plus explosion particles.
// It is used from the game goroutine only.
type Scene struct {
	scaleX, scaleY float64 // World to logical canvas units
	halfW, halfH   float64 // Half the visible world window

	sprites   map[object.Entity]*sprite
	particles []*Particle

	// ShowSpeedVectors draws asteroid velocity indicators.
	ShowSpeedVectors bool
}

var _ object.Visual = (*Scene)(nil)

// NewScene creates a scene showing a viewWidth x viewHeight world window,
// centred on the origin, on a canvas with the given logical size.
func NewScene(viewWidth, viewHeight, logicalWidth, logicalHeight float64) *Scene {
	return &Scene{
		scaleX:  logicalWidth / viewWidth,
		scaleY:  logicalHeight / viewHeight,
		halfW:   viewWidth / 2,
		halfH:   viewHeight / 2,
		sprites: make(map[object.Entity]*sprite),
	}
}

// toCanvas maps world coordinates (y up) to logical canvas coordinates
// (y down).
func (s *Scene) toCanvas(x, y float64) (float64, float64) {
	return (x + s.halfW) * s.scaleX, (s.halfH - y) * s.scaleY
}

// AttachVisual implements object.Visual.
func (s *Scene) AttachVisual(e object.Entity) {
	sp := &sprite{entity: e}
	if e.Kind() == object.KindAsteroid {
		sp.angle = rand.Float64() * 2 * math.Pi
		sp.spin = (rand.Float64() - 0.5) * 2
		sp.shape = make([]float64, 8+rand.IntN(5))
		for i := range sp.shape {
			sp.shape[i] = e.Radius() * (0.7 + rand.Float64()*0.6)
		}
	}
	s.sprites[e] = sp
}

// SetVisualPosition implements object.Visual.
func (s *Scene) SetVisualPosition(e object.Entity, x, y float64) {
	if sp, ok := s.sprites[e]; ok {
		sp.x, sp.y = x, y
	}
}

// SetVisualRotation implements object.Visual.
func (s *Scene) SetVisualRotation(e object.Entity, angle float64) {
	if sp, ok := s.sprites[e]; ok {
		sp.angle = angle
	}
}

// DetachVisual implements object.Visual. Asteroids and the planet leave an
// explosion behind.
func (s *Scene) DetachVisual(e object.Entity) {
	sp, ok := s.sprites[e]
	if !ok {
		return
	}
	delete(s.sprites, e)

	switch e.Kind() {
	case object.KindAsteroid:
		if a, ok := e.(*object.Asteroid); ok {
			s.particles = append(s.particles, explosion(sp.x, sp.y, 6*a.Level(), 20, 0.8)...)
		}
	case object.KindPlanet:
		s.particles = append(s.particles, explosion(sp.x, sp.y, 60, 40, 1.5)...)
	}
}

type speedVector struct {
	scene  *Scene
	entity object.Entity
}

func (v speedVector) Update(vx, vy float64) {
	if sp, ok := v.scene.sprites[v.entity]; ok {
		sp.vx, sp.vy, sp.hasVector = vx, vy, true
	}
}

func (v speedVector) Remove() {
	if sp, ok := v.scene.sprites[v.entity]; ok {
		sp.hasVector = false
	}
}

// SpeedVector is an object.SpeedVectorFactory.
func (s *Scene) SpeedVector(e object.Entity) object.SpeedVector {
	return speedVector{scene: s, entity: e}
}

// Len returns the number of attached sprites.
func (s *Scene) Len() int { return len(s.sprites) }

// Particles returns the number of live particles.
func (s *Scene) Particles() int { return len(s.particles) }

// Advance animates visual-only state: asteroid spin and particles.
func (s *Scene) Advance(dt time.Duration) {
	for _, sp := range s.sprites {
		sp.angle += sp.spin * dt.Seconds()
	}
	kept := s.particles[:0]
	for _, p := range s.particles {
		if p.update(dt) {
			p.release()
			continue
		}
		kept = append(kept, p)
	}
	clear(s.particles[len(kept):])
	s.particles = kept
}

// Draw renders every sprite and particle onto c.
func (s *Scene) Draw(c *draw.Canvas) {
	for _, sp := range s.sprites {
		switch e := sp.entity.(type) {
		case *object.Planet:
			s.drawPlanet(c, sp, e)
		case *object.Satellite:
			s.drawSatellite(c, sp, e)
		case *object.Asteroid:
			s.drawAsteroid(c, sp)
		default:
			c.SetFloat(s.toCanvas(sp.x, sp.y))
		}
	}
	s.drawParticles(c)
}

func (s *Scene) drawPlanet(c *draw.Canvas, sp *sprite, p *object.Planet) {
	cx, cy := s.toCanvas(sp.x, sp.y)
	c.DrawCircle(cx, cy, p.Radius()*s.scaleX, true)

	// Health ring, clockwise from the top.
	ring := p.Radius() + 4
	dots := int(48 * p.Indicator() / 100)
	for i := 0; i < dots; i++ {
		sin, cos := math.Sincos(math.Pi/2 - 2*math.Pi*float64(i)/48)
		c.SetFloat(s.toCanvas(sp.x+cos*ring, sp.y+sin*ring))
	}
}

func (s *Scene) drawSatellite(c *draw.Canvas, sp *sprite, sat *object.Satellite) {
	// Dotted orbit.
	for i := 0; i < 64; i++ {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / 64)
		c.SetFloat(s.toCanvas(cos*sat.Orbit(), sin*sat.Orbit()))
	}

	cx, cy := s.toCanvas(sp.x, sp.y)
	c.DrawCircle(cx, cy, sat.Radius()*s.scaleX, true)

	sin, cos := math.Sincos(sp.angle)
	bx, by := s.toCanvas(sp.x+cos*sat.Radius()*2, sp.y+sin*sat.Radius()*2)
	c.DrawLine(draw.Point{X: cx, Y: cy}, draw.Point{X: bx, Y: by})
}

func (s *Scene) drawAsteroid(c *draw.Canvas, sp *sprite) {
	points := c.BorrowPoints(len(sp.shape))
	for i, r := range sp.shape {
		sin, cos := math.Sincos(sp.angle + 2*math.Pi*float64(i)/float64(len(sp.shape)))
		x, y := s.toCanvas(sp.x+cos*r, sp.y+sin*r)
		points[i] = draw.Point{X: x, Y: y}
	}
	c.DrawPolygon(points, false)

	if s.ShowSpeedVectors && sp.hasVector {
		cx, cy := s.toCanvas(sp.x, sp.y)
		tx, ty := s.toCanvas(sp.x+sp.vx*speedVectorScale, sp.y+sp.vy*speedVectorScale)
		c.DrawLine(draw.Point{X: cx, Y: cy}, draw.Point{X: tx, Y: ty})
	}
}

// Reset drops every particle, leaving sprites untouched.
func (s *Scene) Reset() {
	for _, p := range s.particles {
		p.release()
	}
	clear(s.particles)
	s.particles = s.particles[:0]
}
