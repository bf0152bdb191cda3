package collision

import (
	"math"

	"github.com/VeerOneGPT/galileo-motion/pkg/vec"
)

// Manifold describes a single contact between two overlapping shapes. Normal
// points from the first shape toward the second; Collide(B, A) yields the
// negated normal of Collide(A, B).
type Manifold struct {
	Normal      vec.Vector2D
	Contact     vec.Vector2D
	Penetration float64
}

// Collide runs the exact shape-vs-shape test for two positioned shapes.
// It reports false when the shapes do not overlap.
func Collide(a Shape, posA vec.Vector2D, b Shape, posB vec.Vector2D) (Manifold, bool) {
	switch sa := a.(type) {
	case Circle:
		switch sb := b.(type) {
		case Circle:
			return collideCircles(sa, posA, sb, posB)
		case Rectangle:
			return collideCircleRect(sa, posA, sb, posB)
		}
	case Rectangle:
		switch sb := b.(type) {
		case Circle:
			m, ok := collideCircleRect(sb, posB, sa, posA)
			if ok {
				m.Normal = m.Normal.Negate()
			}
			return m, ok
		case Rectangle:
			return collideRects(sa, posA, sb, posB)
		}
	}
	return Manifold{}, false
}

func collideCircles(a Circle, posA vec.Vector2D, b Circle, posB vec.Vector2D) (Manifold, bool) {
	delta := posB.Sub(posA)
	distSq := delta.LengthSq()
	radius := a.Radius + b.Radius
	if distSq > radius*radius {
		return Manifold{}, false
	}

	dist := math.Sqrt(distSq)
	var normal vec.Vector2D
	if dist > 0 {
		normal = delta.Scale(1 / dist)
	} else {
		// Coincident centers: push along +X rather than emitting NaN.
		normal = vec.New(1, 0)
	}
	return Manifold{
		Normal:      normal,
		Contact:     posA.Add(normal.Scale(a.Radius)),
		Penetration: radius - dist,
	}, true
}

func collideCircleRect(c Circle, posC vec.Vector2D, r Rectangle, posR vec.Vector2D) (Manifold, bool) {
	hw, hh := r.Width/2, r.Height/2

	// Closest point on the rectangle to the circle center.
	closest := vec.Vector2D{
		X: math.Min(math.Max(posC.X, posR.X-hw), posR.X+hw),
		Y: math.Min(math.Max(posC.Y, posR.Y-hh), posR.Y+hh),
	}

	delta := closest.Sub(posC)
	distSq := delta.LengthSq()
	if distSq > c.Radius*c.Radius {
		return Manifold{}, false
	}

	if distSq > 0 {
		dist := math.Sqrt(distSq)
		normal := delta.Scale(1 / dist)
		return Manifold{
			Normal:      normal,
			Contact:     closest,
			Penetration: c.Radius - dist,
		}, true
	}

	// Center is inside the rectangle: push out along the shallowest face.
	dx := hw - math.Abs(posC.X-posR.X)
	dy := hh - math.Abs(posC.Y-posR.Y)
	var normal vec.Vector2D
	var pen float64
	if dx < dy {
		pen = dx + c.Radius
		if posC.X < posR.X {
			normal = vec.New(-1, 0)
		} else {
			normal = vec.New(1, 0)
		}
	} else {
		pen = dy + c.Radius
		if posC.Y < posR.Y {
			normal = vec.New(0, -1)
		} else {
			normal = vec.New(0, 1)
		}
	}
	// Normal points from circle to rectangle.
	return Manifold{Normal: normal.Negate(), Contact: posC, Penetration: pen}, true
}

func collideRects(a Rectangle, posA vec.Vector2D, b Rectangle, posB vec.Vector2D) (Manifold, bool) {
	delta := posB.Sub(posA)
	overlapX := a.Width/2 + b.Width/2 - math.Abs(delta.X)
	if overlapX <= 0 {
		return Manifold{}, false
	}
	overlapY := a.Height/2 + b.Height/2 - math.Abs(delta.Y)
	if overlapY <= 0 {
		return Manifold{}, false
	}

	var normal vec.Vector2D
	var pen float64
	if overlapX < overlapY {
		pen = overlapX
		if delta.X < 0 {
			normal = vec.New(-1, 0)
		} else {
			normal = vec.New(1, 0)
		}
	} else {
		pen = overlapY
		if delta.Y < 0 {
			normal = vec.New(0, -1)
		} else {
			normal = vec.New(0, 1)
		}
	}
	return Manifold{
		Normal:      normal,
		Contact:     posA.Add(posB).Scale(0.5),
		Penetration: pen,
	}, true
}
