package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VeerOneGPT/galileo-motion/pkg/vec"
)

// testBody is a minimal Body implementation for exercising the system
// without a physics world.
type testBody struct {
	id          string
	pos         vec.Vector2D
	vel         vec.Vector2D
	invMass     float64
	friction    float64
	restitution float64
	shape       Shape
	filter      Filter
	static      bool
	woken       bool
	userData    any
}

func newTestBody(id string, shape Shape, x, y float64) *testBody {
	return &testBody{
		id:      id,
		pos:     vec.New(x, y),
		invMass: 1,
		shape:   shape,
		filter:  DefaultFilter(),
	}
}

func (b *testBody) ID() string                  { return b.id }
func (b *testBody) UserData() any               { return b.userData }
func (b *testBody) Position() vec.Vector2D      { return b.pos }
func (b *testBody) Velocity() vec.Vector2D      { return b.vel }
func (b *testBody) Friction() float64           { return b.friction }
func (b *testBody) Restitution() float64        { return b.restitution }
func (b *testBody) CollisionShape() Shape       { return b.shape }
func (b *testBody) CollisionFilter() Filter     { return b.filter }
func (b *testBody) IsStatic() bool              { return b.static }
func (b *testBody) SetPosition(p vec.Vector2D)  { b.pos = p }
func (b *testBody) SetVelocity(v vec.Vector2D)  { b.vel = v }
func (b *testBody) Wake()                       { b.woken = true }

func (b *testBody) InvMass() float64 {
	if b.static {
		return 0
	}
	return b.invMass
}

func TestShapeValidation(t *testing.T) {
	assert.ErrorIs(t, Circle{Radius: 0}.Validate(), ErrNonPositiveRadius)
	assert.ErrorIs(t, Circle{Radius: -3}.Validate(), ErrNonPositiveRadius)
	assert.NoError(t, Circle{Radius: 1}.Validate())

	assert.ErrorIs(t, Rectangle{Width: 0, Height: 5}.Validate(), ErrNonPositiveExtent)
	assert.ErrorIs(t, Rectangle{Width: 5, Height: -1}.Validate(), ErrNonPositiveExtent)
	assert.NoError(t, Rectangle{Width: 2, Height: 3}.Validate())
}

func TestCollideSymmetry(t *testing.T) {
	shapes := []struct {
		name   string
		a, b   Shape
		pa, pb vec.Vector2D
	}{
		{"circle/circle", Circle{Radius: 10}, Circle{Radius: 10}, vec.New(0, 0), vec.New(15, 0)},
		{"circle/rect", Circle{Radius: 10}, Rectangle{Width: 20, Height: 20}, vec.New(0, 0), vec.New(18, 3)},
		{"rect/rect", Rectangle{Width: 20, Height: 10}, Rectangle{Width: 20, Height: 10}, vec.New(0, 0), vec.New(15, 2)},
	}
	for _, tc := range shapes {
		t.Run(tc.name, func(t *testing.T) {
			ab, okAB := Collide(tc.a, tc.pa, tc.b, tc.pb)
			ba, okBA := Collide(tc.b, tc.pb, tc.a, tc.pa)
			require.Equal(t, okAB, okBA)
			require.True(t, okAB, "expected overlap in fixture")
			assert.InDelta(t, -ba.Normal.X, ab.Normal.X, 1e-9)
			assert.InDelta(t, -ba.Normal.Y, ab.Normal.Y, 1e-9)
			assert.InDelta(t, ba.Penetration, ab.Penetration, 1e-9)
		})
	}
}

func TestCollideCirclesSeparated(t *testing.T) {
	_, ok := Collide(Circle{Radius: 5}, vec.New(0, 0), Circle{Radius: 5}, vec.New(11, 0))
	assert.False(t, ok)
}

func TestCollideCoincidentCentersNoNaN(t *testing.T) {
	m, ok := Collide(Circle{Radius: 5}, vec.New(1, 1), Circle{Radius: 5}, vec.New(1, 1))
	require.True(t, ok)
	assert.InDelta(t, 1.0, m.Normal.Length(), 1e-9)
	assert.Equal(t, 10.0, m.Penetration)
}

func TestCircleRectClosestPoint(t *testing.T) {
	// Circle just touching the right face of the rect.
	m, ok := Collide(Circle{Radius: 5}, vec.New(19, 0), Rectangle{Width: 30, Height: 30}, vec.New(0, 0))
	require.True(t, ok)
	// Normal points from circle toward rectangle.
	assert.InDelta(t, -1.0, m.Normal.X, 1e-9)
	assert.InDelta(t, 0.0, m.Normal.Y, 1e-9)
	assert.InDelta(t, 1.0, m.Penetration, 1e-9)
}

func TestFilterGroups(t *testing.T) {
	samePositive := Filter{Group: 3, Category: 1, Mask: 0}
	assert.True(t, samePositive.ShouldCollide(samePositive), "positive group overrides mask")

	sameNegative := Filter{Group: -2, Category: 1, Mask: 0xFFFFFFFF}
	assert.False(t, sameNegative.ShouldCollide(sameNegative), "negative group never collides")

	catA := Filter{Category: 0x0001, Mask: 0x0002}
	catB := Filter{Category: 0x0002, Mask: 0x0001}
	catC := Filter{Category: 0x0004, Mask: 0x0004}
	assert.True(t, catA.ShouldCollide(catB))
	assert.False(t, catA.ShouldCollide(catC))
}

func collectPhases(t *testing.T, s *System) (starts, actives, ends *[]Event) {
	t.Helper()
	st, ac, en := &[]Event{}, &[]Event{}, &[]Event{}
	s.OnStart(func(e Event) { *st = append(*st, e) })
	s.OnActive(func(e Event) { *ac = append(*ac, e) })
	s.OnEnd(func(e Event) { *en = append(*en, e) })
	return st, ac, en
}

func TestPairLifecycle(t *testing.T) {
	s, err := NewSystem(50, nil)
	require.NoError(t, err)
	starts, actives, ends := collectPhases(t, s)

	a := newTestBody("a", Circle{Radius: 10}, 0, 0)
	b := newTestBody("b", Circle{Radius: 10}, 100, 0)
	bodies := []Body{a, b}

	// Apart: nothing.
	s.Step(bodies)
	s.Drain()
	assert.Empty(t, *starts)

	// Overlapping: one start. Keep them overlapping across steps by holding
	// positions (zero restitution bodies separate slowly via correction).
	a.pos = vec.New(0, 0)
	b.pos = vec.New(15, 0)
	s.Step(bodies)
	s.Drain()
	require.Len(t, *starts, 1)
	assert.Empty(t, *actives)
	assert.True(t, s.Colliding("a", "b"))
	assert.True(t, s.Colliding("b", "a"))

	// Still overlapping: active, never a second start.
	a.pos = vec.New(0, 0)
	b.pos = vec.New(15, 0)
	s.Step(bodies)
	s.Drain()
	assert.Len(t, *starts, 1)
	assert.Len(t, *actives, 1)

	// Separated: one end.
	b.pos = vec.New(100, 0)
	s.Step(bodies)
	s.Drain()
	assert.Len(t, *ends, 1)
	assert.False(t, s.Colliding("a", "b"))
}

func TestEventsDeferredUntilDrain(t *testing.T) {
	s, err := NewSystem(50, nil)
	require.NoError(t, err)
	fired := 0
	s.OnStart(func(Event) { fired++ })

	a := newTestBody("a", Circle{Radius: 10}, 0, 0)
	b := newTestBody("b", Circle{Radius: 10}, 5, 0)
	s.Step([]Body{a, b})
	assert.Equal(t, 0, fired, "events must not fire inside Step")
	s.Drain()
	assert.Equal(t, 1, fired)
}

func TestStaticPairSkipped(t *testing.T) {
	s, err := NewSystem(50, nil)
	require.NoError(t, err)
	starts, _, _ := collectPhases(t, s)

	a := newTestBody("a", Circle{Radius: 10}, 0, 0)
	b := newTestBody("b", Circle{Radius: 10}, 5, 0)
	a.static = true
	b.static = true
	s.Step([]Body{a, b})
	s.Drain()
	assert.Empty(t, *starts)
}

func TestResolutionSeparatesApproachingBodies(t *testing.T) {
	s, err := NewSystem(50, nil)
	require.NoError(t, err)

	a := newTestBody("a", Circle{Radius: 10}, 0, 0)
	b := newTestBody("b", Circle{Radius: 10}, 15, 0)
	a.vel = vec.New(5, 0)
	b.vel = vec.New(-5, 0)
	a.restitution = 1
	b.restitution = 1

	s.Step([]Body{a, b})
	// Perfectly elastic head-on: velocities swap.
	assert.InDelta(t, -5, a.vel.X, 1e-9)
	assert.InDelta(t, 5, b.vel.X, 1e-9)
	assert.True(t, a.woken)
	assert.True(t, b.woken)
}

func TestStaticBodyNeverMoved(t *testing.T) {
	s, err := NewSystem(50, nil)
	require.NoError(t, err)

	wall := newTestBody("wall", Rectangle{Width: 10, Height: 100}, 0, 0)
	wall.static = true
	ball := newTestBody("ball", Circle{Radius: 5}, 8, 0)
	ball.vel = vec.New(-10, 0)
	ball.restitution = 1
	wall.restitution = 1

	before := wall.pos
	s.Step([]Body{wall, ball})
	assert.Equal(t, before, wall.pos)
	assert.Equal(t, vec.Vector2D{}, wall.vel)
	assert.Greater(t, ball.vel.X, 0.0, "ball bounces off the wall")
}

func TestForgetEmitsEnd(t *testing.T) {
	s, err := NewSystem(50, nil)
	require.NoError(t, err)
	_, _, ends := collectPhases(t, s)

	a := newTestBody("a", Circle{Radius: 10}, 0, 0)
	b := newTestBody("b", Circle{Radius: 10}, 5, 0)
	s.Step([]Body{a, b})
	s.Drain()

	s.Forget("a")
	s.Drain()
	require.Len(t, *ends, 1)
	assert.False(t, s.Colliding("a", "b"))
}
