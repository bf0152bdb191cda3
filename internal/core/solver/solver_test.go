package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VeerOneGPT/galileo-motion/pkg/vec"
)

const tick = 1.0 / 60.0

func TestSpringSettlesWithinBoundedTicks(t *testing.T) {
	s, err := NewSpring2D(SpringConfig{})
	require.NoError(t, err)

	s.Reset(vec.New(0, 0))
	s.Retarget(vec.New(100, 50))

	settledAt := -1
	for i := 0; i < 300; i++ {
		s.Step(tick)
		if s.Settled() {
			settledAt = i
			break
		}
	}
	require.GreaterOrEqual(t, settledAt, 0, "spring never settled in 300 ticks")
	assert.Equal(t, vec.New(100, 50), s.Position, "settled spring snaps onto target")
}

func TestSpringConvergesTowardTarget(t *testing.T) {
	// Overdamped config: distance to target must shrink every tick.
	s, err := NewSpring2D(SpringConfig{Stiffness: 100, Damping: 40})
	require.NoError(t, err)
	s.Reset(vec.New(-20, 0))
	s.Retarget(vec.New(30, 10))

	prev := s.Position.Distance(s.Target)
	for i := 0; i < 120 && !s.Settled(); i++ {
		s.Step(tick)
		d := s.Position.Distance(s.Target)
		assert.LessOrEqual(t, d, prev+1e-9, "tick %d moved away from target", i)
		prev = d
	}
}

func TestSpringRejectsBadConfig(t *testing.T) {
	_, err := NewSpring2D(SpringConfig{Mass: -1})
	assert.ErrorIs(t, err, ErrNonPositiveMass)

	_, err = NewSpring2D(SpringConfig{Stiffness: -5})
	assert.ErrorIs(t, err, ErrNegativeStiffness)

	_, err = NewSpring1D(SpringConfig{Damping: -1})
	assert.ErrorIs(t, err, ErrNegativeDamping)
}

func TestSpring1DSettles(t *testing.T) {
	s, err := NewSpring1D(SpringConfig{})
	require.NoError(t, err)
	s.Reset(1)
	s.Retarget(2.5)

	for i := 0; i < 300 && !s.Settled(); i++ {
		s.Step(tick)
	}
	require.True(t, s.Settled())
	assert.Equal(t, 2.5, s.Position)
}

func TestInertiaDecayIsMonotonic(t *testing.T) {
	in, err := NewInertia(InertiaConfig{})
	require.NoError(t, err)
	in.Start(vec.New(0, 0), vec.New(12, -7))

	prev := in.Velocity.Length()
	ticks := 0
	for !in.AtRest() {
		in.Step(tick)
		cur := in.Velocity.Length()
		require.LessOrEqual(t, cur, prev, "velocity grew at tick %d", ticks)
		prev = cur
		ticks++
		require.Less(t, ticks, 10000, "inertia never came to rest")
	}
	assert.True(t, in.AtRest())
	assert.Equal(t, vec.Vector2D{}, in.Velocity)
}

func TestInertiaClampsLargeDelta(t *testing.T) {
	in, err := NewInertia(InertiaConfig{})
	require.NoError(t, err)
	in.Start(vec.New(0, 0), vec.New(10, 0))

	// Simulate a 2s stall: the step must behave like a 64ms frame, not 2s.
	in.Step(2.0)
	clamped := in.Position.X

	in2, err := NewInertia(InertiaConfig{})
	require.NoError(t, err)
	in2.Start(vec.New(0, 0), vec.New(10, 0))
	in2.Step(0.064)

	assert.InDelta(t, in2.Position.X, clamped, 1e-12)
}

func TestInertiaRejectsBadConfig(t *testing.T) {
	_, err := NewInertia(InertiaConfig{Deceleration: 1.5})
	assert.ErrorIs(t, err, ErrInvalidDeceleration)

	_, err = NewInertia(InertiaConfig{Deceleration: 0.9, MinVelocity: -1})
	assert.ErrorIs(t, err, ErrNegativeMinVelocity)
}
