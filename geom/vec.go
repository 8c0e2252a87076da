// Package geom provides the 2D primitives used by the physics engine:
// vectors, axis-aligned boxes and circles, with overlap tests and
// minimum translation vectors (MTV).
package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Vec2 is a 2D vector. Components are X() and Y().
type Vec2 = mgl32.Vec2

// Zero is the zero vector.
var Zero = Vec2{}

// V builds a vector from its components.
func V(x, y float32) Vec2 {
	return Vec2{x, y}
}

// Length returns the Euclidean length of v.
func Length(v Vec2) float32 {
	return math32.Sqrt(v[0]*v[0] + v[1]*v[1])
}

// LengthSq returns the squared length of v.
// Use this when comparing lengths to avoid the sqrt cost.
func LengthSq(v Vec2) float32 {
	return v[0]*v[0] + v[1]*v[1]
}

// Normalize returns v scaled to unit length, or the zero vector when v has
// no length (mgl32 would return NaN components in that case).
func Normalize(v Vec2) Vec2 {
	l := Length(v)
	if l == 0 {
		return Zero
	}
	return Vec2{v[0] / l, v[1] / l}
}

// ClampLength scales v down to maxLen if it is longer, preserving direction.
// The second result reports whether v was clamped.
func ClampLength(v Vec2, maxLen float32) (Vec2, bool) {
	lsq := LengthSq(v)
	if lsq <= maxLen*maxLen {
		return v, false
	}
	scale := maxLen / math32.Sqrt(lsq)
	return Vec2{v[0] * scale, v[1] * scale}, true
}

// Clamp clamps each component of v to [lo, hi].
func Clamp(v, lo, hi Vec2) Vec2 {
	return Vec2{
		mgl32.Clamp(v[0], lo[0], hi[0]),
		mgl32.Clamp(v[1], lo[1], hi[1]),
	}
}

// Abs returns v with both components made non-negative.
func Abs(v Vec2) Vec2 {
	return Vec2{math32.Abs(v[0]), math32.Abs(v[1])}
}
