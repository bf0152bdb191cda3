package physics

import (
	"math"

	"github.com/VeerOneGPT/galileo-motion/internal/core/collision"
	"github.com/VeerOneGPT/galileo-motion/pkg/vec"
)

// BodyDef describes a body to add to the world. Zero values get documented
// defaults; Mass of math.Inf(1) or IsStatic marks the body immovable.
type BodyDef struct {
	Shape           collision.Shape
	Position        vec.Vector2D
	Angle           float64
	Velocity        vec.Vector2D
	AngularVelocity float64
	// Mass defaults to 1. Infinite mass implies a static body.
	Mass        float64
	Friction    float64
	Restitution float64
	// GravityScale multiplies the world gravity for this body. Defaults to 1.
	GravityScale *float64
	IsStatic     bool
	Filter       *collision.Filter
	UserData     any
}

func (d *BodyDef) validate() error {
	if d.Shape == nil {
		return ErrMissingShape
	}
	if err := d.Shape.Validate(); err != nil {
		return err
	}
	if d.Mass == 0 {
		d.Mass = 1
	}
	if d.Mass < 0 || math.IsNaN(d.Mass) {
		return ErrNonPositiveMass
	}
	if math.IsInf(d.Mass, 1) {
		d.IsStatic = true
	}
	if d.Restitution < 0 || d.Restitution > 1 {
		return ErrRestitutionOutOfRange
	}
	if d.Friction < 0 {
		return ErrNegativeFriction
	}
	return nil
}

// body is the world-owned simulation record. It is mutated only by the step
// loop and the world's documented operations.
type body struct {
	id              string
	shape           collision.Shape
	position        vec.Vector2D
	angle           float64
	velocity        vec.Vector2D
	angularVelocity float64
	mass            float64
	invMass         float64
	friction        float64
	restitution     float64
	gravityScale    float64
	static          bool
	filter          collision.Filter
	userData        any

	// force accumulates ApplyForce calls until consumed by the next substep.
	force vec.Vector2D

	sleeping  bool
	sleepTime float64
}

func newBody(id string, def BodyDef) *body {
	invMass := 0.0
	if !def.IsStatic && !math.IsInf(def.Mass, 1) {
		invMass = 1 / def.Mass
	}
	gravityScale := 1.0
	if def.GravityScale != nil {
		gravityScale = *def.GravityScale
	}
	filter := collision.DefaultFilter()
	if def.Filter != nil {
		filter = *def.Filter
	}
	return &body{
		id:              id,
		shape:           def.Shape,
		position:        def.Position,
		angle:           def.Angle,
		velocity:        def.Velocity,
		angularVelocity: def.AngularVelocity,
		mass:            def.Mass,
		invMass:         invMass,
		friction:        def.Friction,
		restitution:     def.Restitution,
		gravityScale:    gravityScale,
		static:          def.IsStatic,
		filter:          filter,
		userData:        def.UserData,
	}
}

// collision.Body implementation. Static bodies ignore kinematic writes so the
// static-body invariant holds even through the resolver.

func (b *body) ID() string                        { return b.id }
func (b *body) UserData() any                     { return b.userData }
func (b *body) Position() vec.Vector2D            { return b.position }
func (b *body) Velocity() vec.Vector2D            { return b.velocity }
func (b *body) Friction() float64                 { return b.friction }
func (b *body) Restitution() float64              { return b.restitution }
func (b *body) CollisionShape() collision.Shape   { return b.shape }
func (b *body) CollisionFilter() collision.Filter { return b.filter }
func (b *body) IsStatic() bool                    { return b.static }

func (b *body) InvMass() float64 {
	if b.static {
		return 0
	}
	return b.invMass
}

func (b *body) SetPosition(p vec.Vector2D) {
	if b.static {
		return
	}
	b.position = p
}

func (b *body) SetVelocity(v vec.Vector2D) {
	if b.static {
		return
	}
	b.velocity = v
}

// Wake resets the at-rest timer and resumes integration next substep.
func (b *body) Wake() {
	if b.static {
		return
	}
	b.sleeping = false
	b.sleepTime = 0
}

// BodyState is a read-only snapshot of a body, safe to hand to a rendering
// loop.
type BodyState struct {
	ID              string
	Position        vec.Vector2D
	Velocity        vec.Vector2D
	Angle           float64
	AngularVelocity float64
	IsStatic        bool
	Sleeping        bool
	UserData        any
}

func (b *body) snapshot() BodyState {
	return BodyState{
		ID:              b.id,
		Position:        b.position,
		Velocity:        b.velocity,
		Angle:           b.angle,
		AngularVelocity: b.angularVelocity,
		IsStatic:        b.static,
		Sleeping:        b.sleeping,
		UserData:        b.userData,
	}
}

// StateUpdate overwrites parts of a body's kinematic state directly. This
// bypasses the simulation: use it for teleporting, not steering, since it can
// desynchronize a body from collision expectations for one step.
type StateUpdate struct {
	Position        *vec.Vector2D
	Velocity        *vec.Vector2D
	Angle           *float64
	AngularVelocity *float64
}
