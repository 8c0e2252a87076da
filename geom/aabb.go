package geom

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Aabb is an axis-aligned bounding box. Max is never less than Min on
// either axis.
type Aabb struct {
	Min, Max Vec2
}

// NewAabb creates a box from its corners. It panics if min exceeds max on
// either axis.
func NewAabb(min, max Vec2) Aabb {
	if min[0] > max[0] || min[1] > max[1] {
		panic(fmt.Sprintf("geom: invalid aabb min=%v max=%v", min, max))
	}
	return Aabb{Min: min, Max: max}
}

// FromRect returns the box with top-left corner pos and the given size.
func FromRect(pos, size Vec2) Aabb {
	return NewAabb(pos, pos.Add(size))
}

// FromCircle returns the bounding box of a circle.
func FromCircle(center Vec2, radius float32) Aabb {
	r := Vec2{radius, radius}
	return NewAabb(center.Sub(r), center.Add(r))
}

// Center returns the midpoint of the box.
func (a Aabb) Center() Vec2 {
	return Vec2{(a.Min[0] + a.Max[0]) * 0.5, (a.Min[1] + a.Max[1]) * 0.5}
}

// Size returns the width and height of the box.
func (a Aabb) Size() Vec2 {
	return a.Max.Sub(a.Min)
}

// Expand grows the box by margin on every side.
func (a Aabb) Expand(margin float32) Aabb {
	m := Vec2{margin, margin}
	return Aabb{Min: a.Min.Sub(m), Max: a.Max.Add(m)}
}

// Contains reports whether p lies inside or on the boundary of the box.
func (a Aabb) Contains(p Vec2) bool {
	return p[0] >= a.Min[0] && p[0] <= a.Max[0] &&
		p[1] >= a.Min[1] && p[1] <= a.Max[1]
}

// ClosestPoint returns the point of the box closest to p.
func (a Aabb) ClosestPoint(p Vec2) Vec2 {
	return Clamp(p, a.Min, a.Max)
}

// Intersects reports whether the boxes overlap. Boxes that only share an
// edge or corner do not intersect.
func (a Aabb) Intersects(b Aabb) bool {
	return a.Min[0] < b.Max[0] && a.Max[0] > b.Min[0] &&
		a.Min[1] < b.Max[1] && a.Max[1] > b.Min[1]
}

// Mtv returns the minimum translation vector that, added to a, separates
// it from b. The vector lies along the axis needing the smaller push and
// the other component is zero. The second result is false when the boxes
// do not overlap.
//
// Ties prefer the x axis, and on an axis the positive push wins when both
// directions need the same distance.
func (a Aabb) Mtv(b Aabb) (Vec2, bool) {
	if !a.Intersects(b) {
		return Zero, false
	}

	// Distance needed to push a out of b in each direction.
	posX := b.Max[0] - a.Min[0]
	negX := a.Max[0] - b.Min[0]
	posY := b.Max[1] - a.Min[1]
	negY := a.Max[1] - b.Min[1]

	dx := posX
	if negX < posX {
		dx = -negX
	}
	dy := posY
	if negY < posY {
		dy = -negY
	}

	if math32.Abs(dx) <= math32.Abs(dy) {
		return Vec2{dx, 0}, true
	}
	return Vec2{0, dy}, true
}
