// Package collision implements the narrow phase, impulse resolution, and
// collision lifecycle events on top of the spatial broad phase.
//
// Shapes are axis-aligned in the narrow phase: a body's angle does not rotate
// its collision footprint. Rectangle/rectangle contact uses plain AABB overlap
// with the minimum-penetration axis as the contact normal.
package collision

import (
	"errors"

	"github.com/VeerOneGPT/galileo-motion/internal/core/spatial"
	"github.com/VeerOneGPT/galileo-motion/pkg/vec"
)

var (
	ErrNonPositiveRadius = errors.New("circle radius must be positive")
	ErrNonPositiveExtent = errors.New("rectangle width and height must be positive")
)

type ShapeType uint8

const (
	ShapeCircle ShapeType = iota
	ShapeRectangle
)

// Shape is the geometric footprint of a physics body.
type Shape interface {
	Type() ShapeType
	// Bounds returns the world-space AABB for the shape centered at pos.
	Bounds(pos vec.Vector2D) spatial.AABB
	Validate() error
}

// Circle is a circular shape centered on the body position.
type Circle struct {
	Radius float64
}

func (c Circle) Type() ShapeType { return ShapeCircle }

func (c Circle) Bounds(pos vec.Vector2D) spatial.AABB {
	return spatial.NewAABB(pos.X-c.Radius, pos.Y-c.Radius, pos.X+c.Radius, pos.Y+c.Radius)
}

func (c Circle) Validate() error {
	if c.Radius <= 0 {
		return ErrNonPositiveRadius
	}
	return nil
}

// Rectangle is an axis-aligned box centered on the body position.
type Rectangle struct {
	Width  float64
	Height float64
}

func (r Rectangle) Type() ShapeType { return ShapeRectangle }

func (r Rectangle) Bounds(pos vec.Vector2D) spatial.AABB {
	hw, hh := r.Width/2, r.Height/2
	return spatial.NewAABB(pos.X-hw, pos.Y-hh, pos.X+hw, pos.Y+hh)
}

func (r Rectangle) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return ErrNonPositiveExtent
	}
	return nil
}

// Filter controls which body pairs are tested, Box2D-style. Group overrides
// the category/mask test: two bodies sharing a nonzero positive group always
// collide, sharing a nonzero negative group never collide.
type Filter struct {
	Group    int
	Category uint32
	Mask     uint32
}

// DefaultFilter collides with everything.
func DefaultFilter() Filter {
	return Filter{Group: 0, Category: 0x0001, Mask: 0xFFFFFFFF}
}

// ShouldCollide applies the group/mask test between two filters.
func (f Filter) ShouldCollide(o Filter) bool {
	if f.Group == o.Group && f.Group != 0 {
		return f.Group > 0
	}
	return f.Category&o.Mask != 0 && o.Category&f.Mask != 0
}
