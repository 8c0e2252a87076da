package geom

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Circle is a circle given by its center and a positive radius.
type Circle struct {
	Center Vec2
	Radius float32
}

// NewCircle creates a circle. It panics if radius is not positive.
func NewCircle(center Vec2, radius float32) Circle {
	if !(radius > 0) {
		panic(fmt.Sprintf("geom: invalid circle radius %v", radius))
	}
	return Circle{Center: center, Radius: radius}
}

// Aabb returns the bounding box of the circle.
func (c Circle) Aabb() Aabb {
	return FromCircle(c.Center, c.Radius)
}

// Intersects reports whether the circles overlap. Touching circles do not
// intersect.
func (c Circle) Intersects(o Circle) bool {
	r := c.Radius + o.Radius
	return LengthSq(c.Center.Sub(o.Center)) < r*r
}

// Mtv returns the vector that, added to c, separates it from o. It points
// from o toward c. Coincident centers push along +x by the combined radius.
func (c Circle) Mtv(o Circle) (Vec2, bool) {
	r := c.Radius + o.Radius
	delta := c.Center.Sub(o.Center)
	distSq := LengthSq(delta)
	if distSq >= r*r {
		return Zero, false
	}
	if distSq == 0 {
		return Vec2{r, 0}, true
	}
	dist := math32.Sqrt(distSq)
	return delta.Mul((r - dist) / dist), true
}

// MtvAabb returns the vector that, added to c, pushes it out of box.
//
// When the center is inside the box the circle leaves through the nearest
// edge (left, right, top, bottom on ties) and ends up touching it.
// A circle that only touches the box (distance to the closest point equal
// to the radius) is not overlapping and reports false, matching the strict
// tests of Intersects.
func (c Circle) MtvAabb(box Aabb) (Vec2, bool) {
	closest := box.ClosestPoint(c.Center)
	delta := c.Center.Sub(closest)
	distSq := LengthSq(delta)

	if distSq == 0 {
		left := c.Center[0] - box.Min[0]
		right := box.Max[0] - c.Center[0]
		top := c.Center[1] - box.Min[1]
		bottom := box.Max[1] - c.Center[1]

		mtv := Vec2{-(left + c.Radius), 0}
		best := left
		if right < best {
			best = right
			mtv = Vec2{right + c.Radius, 0}
		}
		if top < best {
			best = top
			mtv = Vec2{0, -(top + c.Radius)}
		}
		if bottom < best {
			mtv = Vec2{0, bottom + c.Radius}
		}
		return mtv, true
	}

	if distSq >= c.Radius*c.Radius {
		return Zero, false
	}
	dist := math32.Sqrt(distSq)
	return delta.Mul((c.Radius - dist) / dist), true
}
