package physics

import "github.com/pthm-cable/impulse/geom"

// CollisionType classifies a collision by the kinds of bodies involved.
// Static/static pairs never collide.
type CollisionType uint8

const (
	DynamicStatic CollisionType = iota
	DynamicDynamic
)

func (t CollisionType) String() string {
	if t == DynamicStatic {
		return "dynamic_static"
	}
	return "dynamic_dynamic"
}

// Collision is a contact found during one sub-step.
//
// Mtv added to A's position separates the pair, so it points from B toward
// A. Normal is Mtv normalized.
type Collision struct {
	Type   CollisionType
	A, B   BodyID
	Mtv    geom.Vec2
	Normal geom.Vec2
}

// CollisionEvent is handed to a ContactListener before a collision is
// resolved. Setting DisablePhysics skips position and velocity correction
// for this collision.
type CollisionEvent struct {
	A, B           *Body
	Collision      Collision
	DisablePhysics bool
}

// ContactListener receives collisions synchronously, inside World.Update,
// before they are resolved.
type ContactListener interface {
	OnContact(w *World, ev *CollisionEvent)
}

// ContactListenerFunc adapts a function to ContactListener.
type ContactListenerFunc func(w *World, ev *CollisionEvent)

// OnContact calls f(w, ev).
func (f ContactListenerFunc) OnContact(w *World, ev *CollisionEvent) {
	f(w, ev)
}

// mtvBetween computes the narrow-phase MTV for a pair, pointing toward a.
func mtvBetween(a, b *Body) (geom.Vec2, bool) {
	ka, kb := a.shape.Kind, b.shape.Kind
	switch {
	case ka == ShapeRect && kb == ShapeRect:
		return a.Aabb().Mtv(b.Aabb())
	case ka == ShapeCircle && kb == ShapeCircle:
		return a.circle().Mtv(b.circle())
	case ka == ShapeCircle && kb == ShapeRect:
		return a.circle().MtvAabb(b.Aabb())
	default:
		// The circle is b: its MTV pushes b out of a, so flip it.
		mtv, ok := b.circle().MtvAabb(a.Aabb())
		return mtv.Mul(-1), ok
	}
}

// collide runs the narrow phase for two live bodies. It reports false for
// static/static pairs and for shapes that do not overlap.
func collide(idA, idB BodyID, a, b *Body) (Collision, bool) {
	if a.kind == Static && b.kind == Static {
		return Collision{}, false
	}
	mtv, ok := mtvBetween(a, b)
	if !ok {
		return Collision{}, false
	}
	typ := DynamicDynamic
	if a.kind == Static || b.kind == Static {
		typ = DynamicStatic
	}
	return Collision{
		Type:   typ,
		A:      idA,
		B:      idB,
		Mtv:    mtv,
		Normal: geom.Normalize(mtv),
	}, true
}
