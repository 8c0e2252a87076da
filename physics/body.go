// Package physics implements a small 2D rigid-body engine: axis-aligned
// rectangle and circle bodies, a spatial hash broad phase, MTV based
// narrow phase and impulse collision response.
package physics

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/pthm-cable/impulse/geom"
)

// Body construction errors.
var (
	ErrInvalidShape       = errors.New("physics: shape dimensions must be positive")
	ErrInvalidMass        = errors.New("physics: dynamic body mass must be positive")
	ErrInvalidRestitution = errors.New("physics: restitution must be within [0, 1]")
	ErrInvalidDamping     = errors.New("physics: damping must not be negative")
)

// BodyType selects whether a body moves.
type BodyType uint8

const (
	// Static bodies never move and have infinite mass.
	Static BodyType = iota
	// Dynamic bodies are moved by forces, impulses and collisions.
	Dynamic
)

func (t BodyType) String() string {
	switch t {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	}
	return fmt.Sprintf("BodyType(%d)", t)
}

// ShapeKind identifies the geometry of a Shape.
type ShapeKind uint8

const (
	ShapeRect ShapeKind = iota
	ShapeCircle
)

// Shape is either a rectangle (Size) or a circle (Radius).
type Shape struct {
	Kind   ShapeKind
	Size   geom.Vec2
	Radius float32
}

// Rect returns a rectangle shape of the given width and height.
func Rect(w, h float32) Shape {
	return Shape{Kind: ShapeRect, Size: geom.V(w, h)}
}

// CircleShape returns a circle shape of the given radius.
func CircleShape(r float32) Shape {
	return Shape{Kind: ShapeCircle, Radius: r}
}

func (s Shape) valid() bool {
	switch s.Kind {
	case ShapeRect:
		return s.Size[0] > 0 && s.Size[1] > 0
	case ShapeCircle:
		return s.Radius > 0
	}
	return false
}

// BodyConfig holds the parameters for NewBody.
type BodyConfig struct {
	// Position is the top-left corner for rectangles and the center for circles.
	Position    geom.Vec2
	Shape       Shape
	Mass        float32 // ignored for static bodies
	Damping     float32 // exponential velocity decay rate per second
	Restitution float32 // 0 = inelastic, 1 = elastic
	Filter      *CollisionFilter
}

// Body is the physical state of one object.
type Body struct {
	Position     geom.Vec2
	Velocity     geom.Vec2
	Acceleration geom.Vec2
	Damping      float32
	Restitution  float32
	Filter       CollisionFilter

	kind        BodyType
	shape       Shape
	mass        float32
	invMass     float32
	penetration geom.Vec2
}

// NewBody validates cfg and builds a body of the given type.
// Static bodies get zero mass and zero inverse mass.
func NewBody(kind BodyType, cfg BodyConfig) (Body, error) {
	if !cfg.Shape.valid() {
		return Body{}, ErrInvalidShape
	}
	if cfg.Restitution < 0 || cfg.Restitution > 1 {
		return Body{}, fmt.Errorf("%w: got %v", ErrInvalidRestitution, cfg.Restitution)
	}
	if cfg.Damping < 0 {
		return Body{}, fmt.Errorf("%w: got %v", ErrInvalidDamping, cfg.Damping)
	}

	b := Body{
		Position:    cfg.Position,
		Damping:     cfg.Damping,
		Restitution: cfg.Restitution,
		Filter:      DefaultFilter(),
		kind:        kind,
		shape:       cfg.Shape,
	}
	if cfg.Filter != nil {
		b.Filter = *cfg.Filter
	}

	if kind == Dynamic {
		if !(cfg.Mass > 0) {
			return Body{}, fmt.Errorf("%w: got %v", ErrInvalidMass, cfg.Mass)
		}
		b.mass = cfg.Mass
		b.invMass = 1 / cfg.Mass
	}
	return b, nil
}

// Type returns whether the body is static or dynamic.
func (b *Body) Type() BodyType { return b.kind }

// IsStatic reports whether the body is immovable.
func (b *Body) IsStatic() bool { return b.kind == Static }

// Shape returns the body's geometry.
func (b *Body) Shape() Shape { return b.shape }

// Mass returns the body's mass (zero for static bodies).
func (b *Body) Mass() float32 { return b.mass }

// InvMass returns 1/mass, or zero for static bodies.
func (b *Body) InvMass() float32 { return b.invMass }

// Penetration returns the deepest per-axis overlap recorded during the last
// Update. Useful for gameplay queries such as "is grounded".
func (b *Body) Penetration() geom.Vec2 { return b.penetration }

// Grounded reports whether the body was pushed against up during the last
// Update, e.g. Grounded(geom.V(0, -1)) with gravity pointing along +y.
func (b *Body) Grounded(up geom.Vec2) bool {
	return b.penetration.Dot(up) > 0
}

// Aabb returns the body's bounding box at its current position.
func (b *Body) Aabb() geom.Aabb {
	if b.shape.Kind == ShapeCircle {
		return geom.FromCircle(b.Position, b.shape.Radius)
	}
	return geom.FromRect(b.Position, b.shape.Size)
}

// Center returns the geometric center of the body.
func (b *Body) Center() geom.Vec2 {
	if b.shape.Kind == ShapeCircle {
		return b.Position
	}
	return b.Position.Add(b.shape.Size.Mul(0.5))
}

func (b *Body) circle() geom.Circle {
	return geom.NewCircle(b.Position, b.shape.Radius)
}

// ApplyForce accumulates a force for the current step. No-op on static bodies.
func (b *Body) ApplyForce(f geom.Vec2) {
	if b.kind == Static {
		return
	}
	b.Acceleration = b.Acceleration.Add(f.Mul(b.invMass))
}

// ApplyImpulse changes the velocity immediately. No-op on static bodies.
func (b *Body) ApplyImpulse(j geom.Vec2) {
	if b.kind == Static {
		return
	}
	b.Velocity = b.Velocity.Add(j.Mul(b.invMass))
}

func (b *Body) accelerate(dt float32) {
	if b.kind == Static {
		return
	}
	b.Velocity = b.Velocity.Add(b.Acceleration.Mul(dt))
}

// applyDamping decays velocity exponentially so the result does not depend
// on how a second is split into steps.
func (b *Body) applyDamping(dt float32) {
	if b.kind == Static || b.Damping == 0 {
		return
	}
	b.Velocity = b.Velocity.Mul(math32.Exp(-b.Damping * dt))
}

func (b *Body) integrate(dt float32) {
	if b.kind == Static {
		return
	}
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
}

// accumulatePenetration keeps, per axis, the component of larger magnitude.
func (b *Body) accumulatePenetration(v geom.Vec2) {
	for i := 0; i < 2; i++ {
		if math32.Abs(v[i]) > math32.Abs(b.penetration[i]) {
			b.penetration[i] = v[i]
		}
	}
}
