// Package physics implements the unified physics controller: a world that
// owns its body and constraint registries exclusively and advances the
// simulation in fixed substeps.
//
// Within one substep the order is fixed and documented: force application and
// integration for all bodies, then constraint resolution in insertion order,
// then collision detection and resolution, then sleep bookkeeping. Collision
// events are never dispatched inside a substep; they queue up and are drained
// once after all substeps of a Step call complete, so no subscriber callback
// can re-enter the step that produced it.
package physics

import (
	"math"

	"github.com/google/uuid"

	"github.com/VeerOneGPT/galileo-motion/internal/core/collision"
	"github.com/VeerOneGPT/galileo-motion/internal/core/events"
	"github.com/VeerOneGPT/galileo-motion/internal/core/observability/log"
	"github.com/VeerOneGPT/galileo-motion/pkg/vec"
)

// World is a self-contained simulation instance. Construct one per use site;
// independent worlds never interfere.
type World struct {
	cfg        WorldConfig
	bodies     *arena
	collisions *collision.System

	constraints     map[string]*constraintRecord
	constraintOrder []*constraintRecord

	accumulator float64
	logger      log.Log

	// scratch reused across substeps to avoid per-step allocation churn.
	scratch []collision.Body
}

// NewWorld validates the config (defaults applied first) and returns an empty
// world.
func NewWorld(cfg WorldConfig, logger log.Log) (*World, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Nop()
	}
	sys, err := collision.NewSystem(cfg.CellSize, logger)
	if err != nil {
		return nil, err
	}
	return &World{
		cfg:         cfg,
		bodies:      newArena(),
		collisions:  sys,
		constraints: make(map[string]*constraintRecord),
		logger:      logger.With(log.String("component", "physics.world")),
	}, nil
}

// AddBody validates the definition and registers a new body, returning its
// id. Validation failure returns an empty id and the error.
func (w *World) AddBody(def BodyDef) (string, error) {
	if err := def.validate(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	w.bodies.add(newBody(id, def))
	w.logger.Debug("body added", log.String("body", id), log.Bool("static", def.IsStatic))
	return id, nil
}

// RemoveBody deletes a body. Unknown ids report false. Active collisions
// involving the body emit their end events on the next drain; constraints
// referencing it are dropped.
func (w *World) RemoveBody(id string) bool {
	if !w.bodies.remove(id) {
		return false
	}
	w.collisions.Forget(id)
	for cid, rec := range w.constraints {
		if rec.def.BodyA == id || rec.def.BodyB == id {
			w.RemoveConstraint(cid)
		}
	}
	return true
}

// ApplyForce accumulates a continuous force on the body's center of mass,
// consumed by the next substep. Point-of-application forces (torque) are not
// supported. Unknown ids report false.
func (w *World) ApplyForce(id string, force vec.Vector2D) bool {
	b := w.bodies.get(id)
	if b == nil || b.static {
		return false
	}
	b.force = b.force.Add(force)
	b.Wake()
	return true
}

// ApplyImpulse changes the body's velocity immediately (center of mass only)
// and wakes it. Unknown ids report false.
func (w *World) ApplyImpulse(id string, impulse vec.Vector2D) bool {
	b := w.bodies.get(id)
	if b == nil || b.static {
		return false
	}
	b.velocity = b.velocity.Add(impulse.Scale(b.invMass))
	b.Wake()
	return true
}

// Body returns a read-only snapshot of one body.
func (w *World) Body(id string) (BodyState, bool) {
	b := w.bodies.get(id)
	if b == nil {
		return BodyState{}, false
	}
	return b.snapshot(), true
}

// Bodies returns snapshots of every body, in registry order.
func (w *World) Bodies() []BodyState {
	out := make([]BodyState, 0, w.bodies.len())
	w.bodies.each(func(b *body) {
		out = append(out, b.snapshot())
	})
	return out
}

// SetBodyState overwrites parts of a body's kinematic state directly,
// bypassing the simulation. Intended for teleporting; anything else can
// desynchronize the body from collision expectations. Unknown ids report
// false. Static bodies only accept position and angle writes.
func (w *World) SetBodyState(id string, update StateUpdate) bool {
	b := w.bodies.get(id)
	if b == nil {
		return false
	}
	if update.Position != nil {
		b.position = *update.Position
	}
	if update.Angle != nil {
		b.angle = *update.Angle
	}
	if !b.static {
		if update.Velocity != nil {
			b.velocity = *update.Velocity
		}
		if update.AngularVelocity != nil {
			b.angularVelocity = *update.AngularVelocity
		}
		b.Wake()
	}
	return true
}

// AddConstraint registers a two-body constraint and returns its id. Both
// bodies must exist and be distinct.
func (w *World) AddConstraint(def ConstraintDef) (string, error) {
	if err := def.validate(); err != nil {
		return "", err
	}
	if def.BodyA == def.BodyB || w.bodies.get(def.BodyA) == nil || w.bodies.get(def.BodyB) == nil {
		return "", ErrConstraintNeedsBodies
	}
	if def.CollideConnected {
		// Known gap: the flag is accepted but connected bodies always still
		// collide. See ConstraintDef.
		w.logger.Warn("collideConnected is not implemented; connected bodies will still collide",
			log.String("bodyA", def.BodyA), log.String("bodyB", def.BodyB))
	}
	rec := &constraintRecord{id: uuid.NewString(), def: def}
	w.constraints[rec.id] = rec
	w.constraintOrder = append(w.constraintOrder, rec)
	return rec.id, nil
}

// RemoveConstraint deletes a constraint. Unknown ids report false.
func (w *World) RemoveConstraint(id string) bool {
	rec, ok := w.constraints[id]
	if !ok {
		return false
	}
	delete(w.constraints, id)
	for i, r := range w.constraintOrder {
		if r == rec {
			w.constraintOrder = append(w.constraintOrder[:i], w.constraintOrder[i+1:]...)
			break
		}
	}
	return true
}

// OnCollisionStart subscribes to first-overlap events. Callbacks run when the
// world drains its event queue at the end of Step, never mid-step.
func (w *World) OnCollisionStart(h func(collision.Event)) *events.Subscription {
	return w.collisions.OnStart(h)
}

// OnCollisionActive subscribes to continued-overlap events.
func (w *World) OnCollisionActive(h func(collision.Event)) *events.Subscription {
	return w.collisions.OnActive(h)
}

// OnCollisionEnd subscribes to separation events.
func (w *World) OnCollisionEnd(h func(collision.Event)) *events.Subscription {
	return w.collisions.OnEnd(h)
}

// Step advances the simulation by dt seconds, running as many fixed substeps
// as the accumulator allows (capped at MaxSubSteps; excess time is dropped so
// a stall cannot trigger a catch-up spiral). Collision events queued by the
// substeps are dispatched once at the end.
func (w *World) Step(dt float64) {
	if dt < 0 || math.IsNaN(dt) {
		return
	}
	h := w.cfg.FixedTimeStep
	w.accumulator += dt
	if max := float64(w.cfg.MaxSubSteps) * h; w.accumulator > max {
		w.accumulator = max
	}
	for w.accumulator >= h {
		w.substep(h)
		w.accumulator -= h
	}
	w.collisions.Drain()
}

func (w *World) substep(h float64) {
	// 1. Integrate.
	w.bodies.each(func(b *body) {
		w.integrateBody(b, h)
	})

	// 2. Constraints, in insertion order.
	for _, rec := range w.constraintOrder {
		a := w.bodies.get(rec.def.BodyA)
		b := w.bodies.get(rec.def.BodyB)
		if a == nil || b == nil {
			continue
		}
		solveConstraint(rec, a, b, h)
	}

	// 3. Collisions. Sleeping bodies participate passively so contact can
	// wake them.
	w.scratch = w.scratch[:0]
	w.bodies.each(func(b *body) {
		w.scratch = append(w.scratch, b)
	})
	w.collisions.Step(w.scratch)

	// 4. Sleep bookkeeping.
	if *w.cfg.EnableSleeping {
		w.bodies.each(func(b *body) {
			w.updateSleep(b, h)
		})
	}
}

// integrateBody advances one body with semi-implicit Euler. A recover guard
// isolates the body: one pathological record cannot abort the substep for the
// rest of the world.
func (w *World) integrateBody(b *body, h float64) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("body integration panicked; body skipped",
				log.String("body", b.id), log.Any("panic", r))
		}
	}()

	if b.static || b.sleeping {
		b.force = vec.Vector2D{}
		return
	}

	gravity := w.cfg.Gravity.Scale(b.mass * b.gravityScale)
	accel := gravity.Add(b.force).Scale(b.invMass)
	b.force = vec.Vector2D{}

	b.velocity = b.velocity.Add(accel.Scale(h))
	b.position = b.position.Add(b.velocity.Scale(h))
	b.angle += b.angularVelocity * h

	// NaN must never reach a transform consumer; reset the offender instead.
	if math.IsNaN(b.position.X) || math.IsNaN(b.position.Y) ||
		math.IsNaN(b.velocity.X) || math.IsNaN(b.velocity.Y) {
		w.logger.Warn("numerical degeneracy in body state; velocity reset",
			log.String("body", b.id))
		b.velocity = vec.Vector2D{}
		if math.IsNaN(b.position.X) || math.IsNaN(b.position.Y) {
			b.position = vec.Vector2D{}
		}
	}
}

func (w *World) updateSleep(b *body, h float64) {
	if b.static || b.sleeping {
		return
	}
	linTol := w.cfg.SleepLinearThreshold
	if b.velocity.LengthSq() < linTol*linTol &&
		math.Abs(b.angularVelocity) < w.cfg.SleepAngularThreshold {
		b.sleepTime += h
		if b.sleepTime >= w.cfg.SleepTimeThreshold {
			b.sleeping = true
			b.velocity = vec.Vector2D{}
			b.angularVelocity = 0
		}
	} else {
		b.sleepTime = 0
	}
}

// BodyCount returns the number of registered bodies.
func (w *World) BodyCount() int {
	return w.bodies.len()
}
