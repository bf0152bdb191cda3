package physics

import (
	"math"

	"github.com/VeerOneGPT/galileo-motion/pkg/vec"
)

// ConstraintKind selects the constraint behavior.
type ConstraintKind uint8

const (
	// ConstraintDistance maintains a target separation with configurable
	// stiffness.
	ConstraintDistance ConstraintKind = iota
	// ConstraintSpring is a damped-oscillator attachment with a rest length.
	ConstraintSpring
	// ConstraintHinge pins two local attachment points together. Angular
	// limits and motors are an open gap: LowerLimit, UpperLimit, and
	// MotorSpeed are accepted but currently have no effect.
	ConstraintHinge
)

// ConstraintDef describes a two-body constraint. AnchorA and AnchorB are in
// each body's local frame.
//
// CollideConnected is currently inert: connected bodies always still collide
// with each other regardless of the flag's value. The field is preserved for
// configuration compatibility; callers must not rely on it.
type ConstraintDef struct {
	Kind    ConstraintKind
	BodyA   string
	BodyB   string
	AnchorA vec.Vector2D
	AnchorB vec.Vector2D

	// Distance / spring parameters.
	Length    float64 // target separation / rest length
	Stiffness float64 // distance: correction fraction in (0,1]; spring: spring constant
	Damping   float64 // spring damping coefficient

	// Hinge parameters, documented no-ops (see ConstraintHinge).
	LowerLimit float64
	UpperLimit float64
	MotorSpeed float64

	CollideConnected bool
}

func (d *ConstraintDef) validate() error {
	if d.Kind > ConstraintHinge {
		return ErrUnknownConstraintKind
	}
	if d.Stiffness < 0 {
		return ErrNegativeStiffness
	}
	if d.Stiffness == 0 {
		switch d.Kind {
		case ConstraintDistance:
			d.Stiffness = 1
		case ConstraintSpring:
			d.Stiffness = 100
		}
	}
	return nil
}

type constraintRecord struct {
	id  string
	def ConstraintDef
}

// wakeEpsilon is the minimum correction magnitude worth applying. Smaller
// adjustments are dropped entirely so a satisfied constraint cannot hold its
// bodies awake forever.
const wakeEpsilon = 1e-9

// worldAnchor transforms a local-frame anchor by the body's angle and
// position.
func worldAnchor(b *body, local vec.Vector2D) vec.Vector2D {
	sin, cos := math.Sincos(b.angle)
	return vec.Vector2D{
		X: b.position.X + local.X*cos - local.Y*sin,
		Y: b.position.Y + local.X*sin + local.Y*cos,
	}
}

// solveConstraint applies one relaxation pass for a single constraint.
// Resolution runs once per substep, after integration and before collision
// detection; records are solved in insertion order so steps are
// deterministic.
func solveConstraint(rec *constraintRecord, a, b *body, h float64) {
	invSum := a.InvMass() + b.InvMass()
	if invSum == 0 {
		return
	}

	anchorA := worldAnchor(a, rec.def.AnchorA)
	anchorB := worldAnchor(b, rec.def.AnchorB)
	delta := anchorB.Sub(anchorA)

	switch rec.def.Kind {
	case ConstraintDistance:
		dist := delta.Length()
		if dist == 0 {
			return
		}
		diff := (dist - rec.def.Length) / dist
		correction := delta.Scale(rec.def.Stiffness * diff / invSum)
		if correction.LengthSq() <= wakeEpsilon*wakeEpsilon {
			return
		}
		if !a.static {
			a.position = a.position.Add(correction.Scale(a.InvMass()))
			a.Wake()
		}
		if !b.static {
			b.position = b.position.Sub(correction.Scale(b.InvMass()))
			b.Wake()
		}

	case ConstraintSpring:
		dist := delta.Length()
		if dist == 0 {
			return
		}
		axis := delta.Scale(1 / dist)
		stretch := dist - rec.def.Length
		relVel := b.velocity.Sub(a.velocity).Dot(axis)
		force := rec.def.Stiffness*stretch + rec.def.Damping*relVel
		impulse := axis.Scale(force * h)
		if impulse.LengthSq() <= wakeEpsilon*wakeEpsilon {
			return
		}
		if !a.static {
			a.velocity = a.velocity.Add(impulse.Scale(a.InvMass()))
			a.Wake()
		}
		if !b.static {
			b.velocity = b.velocity.Sub(impulse.Scale(b.InvMass()))
			b.Wake()
		}

	case ConstraintHinge:
		// Positional coincidence only; limits and motor are inert.
		correction := delta.Scale(1 / invSum)
		if correction.LengthSq() <= wakeEpsilon*wakeEpsilon {
			return
		}
		if !a.static {
			a.position = a.position.Add(correction.Scale(a.InvMass()))
			a.Wake()
		}
		if !b.static {
			b.position = b.position.Sub(correction.Scale(b.InvMass()))
			b.Wake()
		}
	}
}
