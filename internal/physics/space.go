package physics

import (
	"fmt"
	"math"
	"time"

	"github.com/jakecoffman/cp"
)

// colliderType is the single Chipmunk collision type used by every shape so
// one handler observes all contacts.
const colliderType cp.CollisionType = 1

// SpaceConfig configures a Space.
type SpaceConfig struct {
	Dimensions  int  // Must be 2
	Iterations  uint // Solver iterations per step (0 keeps Chipmunk's default)
	MaxSubsteps int  // Upper bound on sub-steps taken for CCD bodies
}

// DefaultSpaceConfig returns the configuration used by the game.
func DefaultSpaceConfig() SpaceConfig {
	return SpaceConfig{
		Dimensions:  2,
		Iterations:  10,
		MaxSubsteps: 16,
	}
}

// Space is a World backed by a Chipmunk2D space with zero gravity.
// Not safe for concurrent use; the game drives it from its tick.
type Space struct {
	space       *cp.Space
	bodies      map[Handle]*spaceBody
	next        Handle
	events      []CollisionEvent
	maxSubsteps int
}

type spaceBody struct {
	desc      BodyDesc
	body      *cp.Body
	shape     *cp.Shape
	hasTarget bool
	targetX   float64
	targetY   float64
}

// Compile-time check that Space implements World.
var _ World = (*Space)(nil)

// NewSpace creates an empty physics world.
func NewSpace(cfg SpaceConfig) (*Space, error) {
	if cfg.Dimensions != 2 {
		return nil, fmt.Errorf("%w: got %d", ErrDimensions, cfg.Dimensions)
	}
	if cfg.MaxSubsteps < 1 {
		cfg.MaxSubsteps = 1
	}

	space := cp.NewSpace()
	space.SetGravity(cp.Vector{})
	if cfg.Iterations > 0 {
		space.Iterations = cfg.Iterations
	}

	s := &Space{
		space:       space,
		bodies:      make(map[Handle]*spaceBody),
		maxSubsteps: cfg.MaxSubsteps,
	}

	handler := space.NewCollisionHandler(colliderType, colliderType)
	handler.BeginFunc = s.begin
	handler.SeparateFunc = s.separate

	return s, nil
}

// CreateBody adds a body with one circular collider and returns its handle.
func (s *Space) CreateBody(desc BodyDesc) (Handle, error) {
	if err := desc.Validate(); err != nil {
		return 0, err
	}

	var body *cp.Body
	switch desc.Kind {
	case Fixed:
		body = cp.NewStaticBody()
	case KinematicPosition:
		body = cp.NewKinematicBody()
	case Dynamic:
		body = cp.NewBody(desc.Mass, cp.MomentForCircle(desc.Mass, 0, desc.Radius, cp.Vector{}))
	}
	body.SetPosition(cp.Vector{X: desc.X, Y: desc.Y})
	if desc.Kind == Dynamic {
		body.SetVelocity(desc.VX, desc.VY)
	}

	s.next++
	h := s.next

	shape := cp.NewCircle(body, desc.Radius, cp.Vector{})
	shape.SetFriction(desc.Friction)
	shape.SetElasticity(desc.Restitution)
	shape.SetCollisionType(colliderType)
	shape.UserData = h
	body.UserData = h

	s.space.AddBody(body)
	s.space.AddShape(shape)

	s.bodies[h] = &spaceBody{desc: desc, body: body, shape: shape}
	return h, nil
}

// RemoveBody removes the collider and body. Unknown handles are ignored.
func (s *Space) RemoveBody(h Handle) {
	sb, ok := s.bodies[h]
	if !ok {
		return
	}
	delete(s.bodies, h)
	s.space.RemoveShape(sb.shape)
	s.space.RemoveBody(sb.body)
}

// SetNextPosition schedules a kinematic body to arrive at (x, y) at the end
// of the next Step. Other body kinds are teleported immediately.
func (s *Space) SetNextPosition(h Handle, x, y float64) {
	sb, ok := s.bodies[h]
	if !ok {
		return
	}
	switch sb.desc.Kind {
	case Dynamic:
		sb.body.SetPosition(cp.Vector{X: x, Y: y})
		return
	case Fixed:
		// Static shapes are indexed once; re-add the shape so the broad
		// phase sees the new position.
		s.space.RemoveShape(sb.shape)
		sb.body.SetPosition(cp.Vector{X: x, Y: y})
		s.space.AddShape(sb.shape)
		return
	}
	sb.hasTarget = true
	sb.targetX = x
	sb.targetY = y
}

// Translation returns the body position, or the origin for unknown handles.
func (s *Space) Translation(h Handle) (float64, float64) {
	sb, ok := s.bodies[h]
	if !ok {
		return 0, 0
	}
	p := sb.body.Position()
	return p.X, p.Y
}

// LinearVelocity returns the body velocity, or zero for unknown handles.
func (s *Space) LinearVelocity(h Handle) (float64, float64) {
	sb, ok := s.bodies[h]
	if !ok {
		return 0, 0
	}
	v := sb.body.Velocity()
	return v.X, v.Y
}

// Len returns the number of live bodies.
func (s *Space) Len() int {
	return len(s.bodies)
}

// Step advances the space and returns the collision events it produced.
func (s *Space) Step(dt time.Duration) []CollisionEvent {
	seconds := dt.Seconds()
	if seconds > 0 {
		s.driveKinematic(seconds)

		substeps := s.substeps(seconds)
		h := seconds / float64(substeps)
		for i := 0; i < substeps; i++ {
			s.space.Step(h)
		}

		s.settleKinematic()
	}

	events := s.events
	s.events = nil
	return events
}

// driveKinematic gives kinematic bodies the velocity that carries them to
// their target over the step, so dynamic bodies see a moving collider.
func (s *Space) driveKinematic(seconds float64) {
	for _, sb := range s.bodies {
		if sb.desc.Kind != KinematicPosition || !sb.hasTarget {
			continue
		}
		p := sb.body.Position()
		sb.body.SetVelocity((sb.targetX-p.X)/seconds, (sb.targetY-p.Y)/seconds)
	}
}

// settleKinematic snaps kinematic bodies onto their targets and stops them.
func (s *Space) settleKinematic() {
	for _, sb := range s.bodies {
		if sb.desc.Kind != KinematicPosition || !sb.hasTarget {
			continue
		}
		sb.body.SetPosition(cp.Vector{X: sb.targetX, Y: sb.targetY})
		sb.body.SetVelocity(0, 0)
		sb.hasTarget = false
	}
}

// substeps returns how many sub-steps keep every CCD body from travelling
// further than its own radius within one sub-step.
func (s *Space) substeps(seconds float64) int {
	n := 1
	for _, sb := range s.bodies {
		if !sb.desc.CCD || sb.desc.Kind != Dynamic {
			continue
		}
		v := sb.body.Velocity()
		travel := math.Hypot(v.X, v.Y) * seconds
		need := int(math.Ceil(travel / sb.desc.Radius))
		if need > n {
			n = need
		}
	}
	if n > s.maxSubsteps {
		n = s.maxSubsteps
	}
	return n
}

func (s *Space) begin(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	s.record(arb, true)
	return true
}

func (s *Space) separate(arb *cp.Arbiter, _ *cp.Space, _ interface{}) {
	s.record(arb, false)
}

func (s *Space) record(arb *cp.Arbiter, started bool) {
	a, b := arb.Shapes()
	ha, okA := a.UserData.(Handle)
	hb, okB := b.UserData.(Handle)
	if !okA || !okB {
		return
	}
	s.events = append(s.events, CollisionEvent{A: ha, B: hb, Started: started})
}
