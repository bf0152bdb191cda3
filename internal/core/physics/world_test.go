package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VeerOneGPT/galileo-motion/internal/core/collision"
	"github.com/VeerOneGPT/galileo-motion/pkg/vec"
)

const tick = 1.0 / 60.0

func newTestWorld(t *testing.T, cfg WorldConfig) *World {
	t.Helper()
	w, err := NewWorld(cfg, nil)
	require.NoError(t, err)
	return w
}

func TestAddBodyValidation(t *testing.T) {
	w := newTestWorld(t, WorldConfig{})

	id, err := w.AddBody(BodyDef{})
	assert.ErrorIs(t, err, ErrMissingShape)
	assert.Empty(t, id)

	id, err = w.AddBody(BodyDef{Shape: collision.Circle{Radius: -1}})
	assert.ErrorIs(t, err, collision.ErrNonPositiveRadius)
	assert.Empty(t, id)

	id, err = w.AddBody(BodyDef{Shape: collision.Circle{Radius: 5}, Mass: -2})
	assert.ErrorIs(t, err, ErrNonPositiveMass)
	assert.Empty(t, id)

	id, err = w.AddBody(BodyDef{Shape: collision.Circle{Radius: 5}, Restitution: 1.5})
	assert.ErrorIs(t, err, ErrRestitutionOutOfRange)
	assert.Empty(t, id)

	id, err = w.AddBody(BodyDef{Shape: collision.Circle{Radius: 5}})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, w.BodyCount())
}

func TestUnknownIDOperationsAreSentinels(t *testing.T) {
	w := newTestWorld(t, WorldConfig{})

	assert.False(t, w.RemoveBody("nope"))
	assert.False(t, w.ApplyForce("nope", vec.New(1, 0)))
	assert.False(t, w.ApplyImpulse("nope", vec.New(1, 0)))
	assert.False(t, w.SetBodyState("nope", StateUpdate{}))
	assert.False(t, w.RemoveConstraint("nope"))

	_, ok := w.Body("nope")
	assert.False(t, ok)

	// Removed ids stay dead even after the slot is reused.
	id, err := w.AddBody(BodyDef{Shape: collision.Circle{Radius: 5}})
	require.NoError(t, err)
	require.True(t, w.RemoveBody(id))
	_, err = w.AddBody(BodyDef{Shape: collision.Circle{Radius: 5}})
	require.NoError(t, err)
	_, ok = w.Body(id)
	assert.False(t, ok)
	assert.False(t, w.ApplyImpulse(id, vec.New(1, 0)))
}

func TestStaticBodyInvariant(t *testing.T) {
	w := newTestWorld(t, WorldConfig{Gravity: vec.New(0, 100)})

	wallID, err := w.AddBody(BodyDef{
		Shape:    collision.Rectangle{Width: 200, Height: 20},
		Position: vec.New(0, 50),
		IsStatic: true,
	})
	require.NoError(t, err)

	// A dynamic ball dropping onto the wall.
	_, err = w.AddBody(BodyDef{
		Shape:    collision.Circle{Radius: 5},
		Position: vec.New(0, 30),
	})
	require.NoError(t, err)

	before, _ := w.Body(wallID)
	for i := 0; i < 240; i++ {
		w.Step(tick)
	}
	after, _ := w.Body(wallID)
	assert.Equal(t, before.Position, after.Position, "static position must be bit-identical")
	assert.Equal(t, before.Velocity, after.Velocity)
}

func TestGravityIntegration(t *testing.T) {
	w := newTestWorld(t, WorldConfig{Gravity: vec.New(0, 100)})
	id, err := w.AddBody(BodyDef{Shape: collision.Circle{Radius: 5}})
	require.NoError(t, err)

	w.Step(tick)
	s, ok := w.Body(id)
	require.True(t, ok)
	assert.InDelta(t, 100*tick, s.Velocity.Y, 1e-9)
	assert.Greater(t, s.Position.Y, 0.0)
}

func TestGravityScale(t *testing.T) {
	w := newTestWorld(t, WorldConfig{Gravity: vec.New(0, 100)})
	zero := 0.0
	id, err := w.AddBody(BodyDef{Shape: collision.Circle{Radius: 5}, GravityScale: &zero})
	require.NoError(t, err)

	for i := 0; i < 30; i++ {
		w.Step(tick)
	}
	s, _ := w.Body(id)
	assert.Equal(t, 0.0, s.Velocity.Y, "gravity scale 0 body must not fall")
}

func TestSleepAndWake(t *testing.T) {
	w := newTestWorld(t, WorldConfig{SleepTimeThreshold: 0.2})
	id, err := w.AddBody(BodyDef{Shape: collision.Circle{Radius: 5}})
	require.NoError(t, err)

	// At rest past the threshold: asleep.
	for i := 0; i < 30; i++ {
		w.Step(tick)
	}
	s, _ := w.Body(id)
	require.True(t, s.Sleeping)

	// Impulse wakes it and it moves on the next step.
	require.True(t, w.ApplyImpulse(id, vec.New(60, 0)))
	w.Step(tick)
	s, _ = w.Body(id)
	assert.False(t, s.Sleeping)
	assert.Greater(t, s.Position.X, 0.0)
}

func TestSleepingBodySkipsForces(t *testing.T) {
	w := newTestWorld(t, WorldConfig{Gravity: vec.New(0, 50), SleepTimeThreshold: 0.1})
	zero := 0.0
	id, err := w.AddBody(BodyDef{Shape: collision.Circle{Radius: 5}, GravityScale: &zero})
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		w.Step(tick)
	}
	s, _ := w.Body(id)
	require.True(t, s.Sleeping)
	pos := s.Position

	for i := 0; i < 20; i++ {
		w.Step(tick)
	}
	s, _ = w.Body(id)
	assert.Equal(t, pos, s.Position, "sleeping body must not integrate")
}

func TestCollisionStartFiresOnce(t *testing.T) {
	// Two circles (radius 20) at (0,0) and (100,0), approaching at ±5/s.
	w := newTestWorld(t, WorldConfig{})

	idA, err := w.AddBody(BodyDef{
		Shape:    collision.Circle{Radius: 20},
		Position: vec.New(0, 0),
		Velocity: vec.New(5, 0),
	})
	require.NoError(t, err)
	idB, err := w.AddBody(BodyDef{
		Shape:    collision.Circle{Radius: 20},
		Position: vec.New(100, 0),
		Velocity: vec.New(-5, 0),
	})
	require.NoError(t, err)

	var starts []collision.Event
	w.OnCollisionStart(func(e collision.Event) { starts = append(starts, e) })

	// 60/10 = 6 seconds to close the gap; simulate 8.
	for i := 0; i < 8*60; i++ {
		w.Step(tick)
	}

	require.Len(t, starts, 1, "collision start must fire exactly once")
	got := map[string]bool{starts[0].BodyA: true, starts[0].BodyB: true}
	assert.True(t, got[idA])
	assert.True(t, got[idB])
}

func TestTeleportBypassesSimulation(t *testing.T) {
	w := newTestWorld(t, WorldConfig{})
	id, err := w.AddBody(BodyDef{Shape: collision.Circle{Radius: 5}})
	require.NoError(t, err)

	p := vec.New(500, -250)
	require.True(t, w.SetBodyState(id, StateUpdate{Position: &p}))
	s, _ := w.Body(id)
	assert.Equal(t, p, s.Position)
}

func TestConstraintValidation(t *testing.T) {
	w := newTestWorld(t, WorldConfig{})
	a, _ := w.AddBody(BodyDef{Shape: collision.Circle{Radius: 5}})

	_, err := w.AddConstraint(ConstraintDef{Kind: ConstraintDistance, BodyA: a, BodyB: a})
	assert.ErrorIs(t, err, ErrConstraintNeedsBodies)

	_, err = w.AddConstraint(ConstraintDef{Kind: ConstraintDistance, BodyA: a, BodyB: "ghost"})
	assert.ErrorIs(t, err, ErrConstraintNeedsBodies)

	_, err = w.AddConstraint(ConstraintDef{Kind: ConstraintKind(99), BodyA: a, BodyB: "x"})
	assert.ErrorIs(t, err, ErrUnknownConstraintKind)
}

func TestDistanceConstraintMaintainsSeparation(t *testing.T) {
	w := newTestWorld(t, WorldConfig{})
	a, err := w.AddBody(BodyDef{Shape: collision.Circle{Radius: 1}, Position: vec.New(0, 0)})
	require.NoError(t, err)
	b, err := w.AddBody(BodyDef{Shape: collision.Circle{Radius: 1}, Position: vec.New(100, 0)})
	require.NoError(t, err)

	_, err = w.AddConstraint(ConstraintDef{
		Kind:   ConstraintDistance,
		BodyA:  a,
		BodyB:  b,
		Length: 50,
	})
	require.NoError(t, err)

	for i := 0; i < 120; i++ {
		w.Step(tick)
	}
	sa, _ := w.Body(a)
	sb, _ := w.Body(b)
	assert.InDelta(t, 50, sa.Position.Distance(sb.Position), 1.0)
}

func TestSpringConstraintPullsTowardRestLength(t *testing.T) {
	w := newTestWorld(t, WorldConfig{})
	a, err := w.AddBody(BodyDef{Shape: collision.Circle{Radius: 1}, Position: vec.New(0, 0), IsStatic: true})
	require.NoError(t, err)
	b, err := w.AddBody(BodyDef{Shape: collision.Circle{Radius: 1}, Position: vec.New(100, 0)})
	require.NoError(t, err)

	_, err = w.AddConstraint(ConstraintDef{
		Kind:      ConstraintSpring,
		BodyA:     a,
		BodyB:     b,
		Length:    40,
		Stiffness: 50,
		Damping:   10,
	})
	require.NoError(t, err)

	for i := 0; i < 600; i++ {
		w.Step(tick)
	}
	sb, _ := w.Body(b)
	assert.InDelta(t, 40, sb.Position.X, 5.0)
}

func TestConstrainedBodiesCanSleep(t *testing.T) {
	w := newTestWorld(t, WorldConfig{SleepTimeThreshold: 0.2})
	a, err := w.AddBody(BodyDef{Shape: collision.Circle{Radius: 1}, Position: vec.New(0, 0)})
	require.NoError(t, err)
	b, err := w.AddBody(BodyDef{Shape: collision.Circle{Radius: 1}, Position: vec.New(50, 0)})
	require.NoError(t, err)

	// Already at rest length: a satisfied constraint must not keep waking
	// bodies that would otherwise fall asleep.
	_, err = w.AddConstraint(ConstraintDef{Kind: ConstraintDistance, BodyA: a, BodyB: b, Length: 50})
	require.NoError(t, err)

	for i := 0; i < 30; i++ {
		w.Step(tick)
	}
	sa, _ := w.Body(a)
	sb, _ := w.Body(b)
	assert.True(t, sa.Sleeping)
	assert.True(t, sb.Sleeping)
}

func TestRemoveBodyDropsConstraints(t *testing.T) {
	w := newTestWorld(t, WorldConfig{})
	a, _ := w.AddBody(BodyDef{Shape: collision.Circle{Radius: 1}})
	b, _ := w.AddBody(BodyDef{Shape: collision.Circle{Radius: 1}, Position: vec.New(10, 0)})
	cid, err := w.AddConstraint(ConstraintDef{Kind: ConstraintDistance, BodyA: a, BodyB: b, Length: 10})
	require.NoError(t, err)

	require.True(t, w.RemoveBody(a))
	assert.False(t, w.RemoveConstraint(cid), "constraint already removed with its body")
	w.Step(tick) // must not panic on the dangling record
}
