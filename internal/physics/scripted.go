package physics

import (
	"fmt"
	"time"
)

// Scripted is a deterministic World for tests. Bodies move by explicit Euler
// integration without contact response, and Step returns only the events
// queued with Queue.
type Scripted struct {
	bodies  map[Handle]*scriptedBody
	next    Handle
	queued  []CollisionEvent
	Removed []Handle // Handles in removal order
	Steps   int      // Number of Step calls
}

type scriptedBody struct {
	desc   BodyDesc
	x, y   float64
	vx, vy float64
}

// Compile-time check that Scripted implements World.
var _ World = (*Scripted)(nil)

// NewScripted creates an empty scripted world.
func NewScripted() *Scripted {
	return &Scripted{bodies: make(map[Handle]*scriptedBody)}
}

// CreateBody registers a body and returns its handle.
func (s *Scripted) CreateBody(desc BodyDesc) (Handle, error) {
	if err := desc.Validate(); err != nil {
		return 0, err
	}
	s.next++
	b := &scriptedBody{desc: desc, x: desc.X, y: desc.Y}
	if desc.Kind == Dynamic {
		b.vx, b.vy = desc.VX, desc.VY
	}
	s.bodies[s.next] = b
	return s.next, nil
}

// RemoveBody removes a body. Removing an unknown handle panics so tests catch
// double removal and dangling handles.
func (s *Scripted) RemoveBody(h Handle) {
	if _, ok := s.bodies[h]; !ok {
		panic(fmt.Sprintf("physics: remove of unknown handle %d", h))
	}
	delete(s.bodies, h)
	s.Removed = append(s.Removed, h)
}

// SetNextPosition moves the body immediately.
func (s *Scripted) SetNextPosition(h Handle, x, y float64) {
	if b, ok := s.bodies[h]; ok {
		b.x, b.y = x, y
	}
}

// SetPosition teleports any body; used by tests to stage a frame.
func (s *Scripted) SetPosition(h Handle, x, y float64) {
	s.SetNextPosition(h, x, y)
}

// SetVelocity overrides a body velocity.
func (s *Scripted) SetVelocity(h Handle, vx, vy float64) {
	if b, ok := s.bodies[h]; ok {
		b.vx, b.vy = vx, vy
	}
}

// Translation returns the body position.
func (s *Scripted) Translation(h Handle) (float64, float64) {
	if b, ok := s.bodies[h]; ok {
		return b.x, b.y
	}
	return 0, 0
}

// LinearVelocity returns the body velocity.
func (s *Scripted) LinearVelocity(h Handle) (float64, float64) {
	if b, ok := s.bodies[h]; ok {
		return b.vx, b.vy
	}
	return 0, 0
}

// Has reports whether h is a live body.
func (s *Scripted) Has(h Handle) bool {
	_, ok := s.bodies[h]
	return ok
}

// Len returns the number of live bodies.
func (s *Scripted) Len() int {
	return len(s.bodies)
}

// Desc returns the description a body was created with.
func (s *Scripted) Desc(h Handle) (BodyDesc, bool) {
	b, ok := s.bodies[h]
	if !ok {
		return BodyDesc{}, false
	}
	return b.desc, true
}

// Queue schedules events to be returned by the next Step.
func (s *Scripted) Queue(events ...CollisionEvent) {
	s.queued = append(s.queued, events...)
}

// Step integrates dynamic bodies and drains queued events.
func (s *Scripted) Step(dt time.Duration) []CollisionEvent {
	s.Steps++
	seconds := dt.Seconds()
	for _, b := range s.bodies {
		if b.desc.Kind != Dynamic {
			continue
		}
		b.x += b.vx * seconds
		b.y += b.vy * seconds
	}
	events := s.queued
	s.queued = nil
	return events
}
