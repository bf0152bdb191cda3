// Package animation bridges recognized gestures onto a visual transform,
// clamping against configured boundaries and handing off to the spring and
// inertial solvers on release. The rendering layer reads the transform; this
// package never draws.
package animation

import (
	"github.com/VeerOneGPT/galileo-motion/pkg/vec"
)

// Transform is the cumulative visual transform a consumer applies to its
// element. Rotation is in degrees. Velocity reflects the most recent gesture
// or animation tick.
type Transform struct {
	TranslateX float64 `json:"translateX" yaml:"translateX"`
	TranslateY float64 `json:"translateY" yaml:"translateY"`
	Scale      float64 `json:"scale" yaml:"scale"`
	Rotation   float64 `json:"rotation" yaml:"rotation"`
	VelocityX  float64 `json:"velocityX" yaml:"velocityX"`
	VelocityY  float64 `json:"velocityY" yaml:"velocityY"`
}

// IdentityTransform is the at-rest transform.
func IdentityTransform() Transform {
	return Transform{Scale: 1}
}

func (t Transform) translation() vec.Vector2D {
	return vec.New(t.TranslateX, t.TranslateY)
}

// TransformUpdate is a partial transform write; nil fields are left alone.
type TransformUpdate struct {
	TranslateX *float64
	TranslateY *float64
	Scale      *float64
	Rotation   *float64
}

// Range is an optional closed interval; nil ends are unbounded.
type Range struct {
	Min *float64 `yaml:"min"`
	Max *float64 `yaml:"max"`
}

// Clamp returns v limited to the range. A nil receiver is unbounded.
func (r *Range) Clamp(v float64) float64 {
	if r == nil {
		return v
	}
	if r.Min != nil && v < *r.Min {
		v = *r.Min
	}
	if r.Max != nil && v > *r.Max {
		v = *r.Max
	}
	return v
}

// Bounds are the per-channel boundary constraints a gesture or animation can
// never push the transform past. A dragged element stops at the boundary;
// the gesture itself keeps tracking.
type Bounds struct {
	X        *Range `yaml:"x"`
	Y        *Range `yaml:"y"`
	Scale    *Range `yaml:"scale"`
	Rotation *Range `yaml:"rotation"`
}

// ClampPosition limits a translation to the X/Y bounds.
func (b Bounds) ClampPosition(p vec.Vector2D) vec.Vector2D {
	return vec.New(b.X.Clamp(p.X), b.Y.Clamp(p.Y))
}
