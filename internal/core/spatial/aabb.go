// Package spatial provides the axis-aligned bounding box type and the uniform
// hash grid the collision broad phase queries.
package spatial

// AABB is an axis-aligned bounding box in world coordinates.
type AABB struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// NewAABB builds a box from its extents.
func NewAABB(minX, minY, maxX, maxY float64) AABB {
	return AABB{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// Overlaps reports whether two boxes intersect, boundary-inclusive.
func (b AABB) Overlaps(o AABB) bool {
	return b.MinX <= o.MaxX && b.MaxX >= o.MinX &&
		b.MinY <= o.MaxY && b.MaxY >= o.MinY
}

// Contains reports whether the point (x, y) lies inside the box.
func (b AABB) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// Expand grows the box by margin on every side.
func (b AABB) Expand(margin float64) AABB {
	return AABB{
		MinX: b.MinX - margin,
		MinY: b.MinY - margin,
		MaxX: b.MaxX + margin,
		MaxY: b.MaxY + margin,
	}
}

// Union returns the smallest box containing both b and o.
func (b AABB) Union(o AABB) AABB {
	out := b
	if o.MinX < out.MinX {
		out.MinX = o.MinX
	}
	if o.MinY < out.MinY {
		out.MinY = o.MinY
	}
	if o.MaxX > out.MaxX {
		out.MaxX = o.MaxX
	}
	if o.MaxY > out.MaxY {
		out.MaxY = o.MaxY
	}
	return out
}
