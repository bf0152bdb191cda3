package vec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeUnitLength(t *testing.T) {
	cases := []Vector2D{
		{X: 3, Y: 4},
		{X: -7.5, Y: 0.1},
		{X: 0, Y: -2},
		{X: 1e-9, Y: 1e-9},
		{X: 1e9, Y: -1e9},
	}
	for _, v := range cases {
		n := v.Normalize()
		require.False(t, math.IsNaN(n.X) || math.IsNaN(n.Y), "normalize(%v) produced NaN", v)
		assert.InDelta(t, 1.0, n.Length(), 1e-9, "normalize(%v)", v)
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	n := Vector2D{}.Normalize()
	assert.Equal(t, Vector2D{}, n)
	assert.False(t, math.IsNaN(n.X))
}

func TestBasicOps(t *testing.T) {
	a := New(1, 2)
	b := New(3, -4)

	assert.Equal(t, Vector2D{X: 4, Y: -2}, a.Add(b))
	assert.Equal(t, Vector2D{X: -2, Y: 6}, a.Sub(b))
	assert.Equal(t, Vector2D{X: 2, Y: 4}, a.Scale(2))
	assert.Equal(t, float64(-5), a.Dot(b))
	assert.InDelta(t, 5.0, b.Length(), 1e-12)
	assert.InDelta(t, a.Distance(b), b.Distance(a), 1e-12)
}

func TestDistanceMatchesLengthOfDifference(t *testing.T) {
	a := New(-2, 7)
	b := New(5, 1)
	assert.InDelta(t, b.Sub(a).Length(), a.Distance(b), 1e-12)
	assert.InDelta(t, a.DistanceSq(b), a.Distance(b)*a.Distance(b), 1e-9)
}

func TestClamp(t *testing.T) {
	v := New(10, -10)
	c := v.Clamp(New(-5, -5), New(5, 5))
	assert.Equal(t, Vector2D{X: 5, Y: -5}, c)
}

func TestLerp(t *testing.T) {
	a := New(0, 0)
	b := New(10, 20)
	assert.Equal(t, a, a.Lerp(b, 0))
	assert.Equal(t, b, a.Lerp(b, 1))
	assert.Equal(t, Vector2D{X: 5, Y: 10}, a.Lerp(b, 0.5))
}
