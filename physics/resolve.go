package physics

import (
	"github.com/chewxy/math32"

	"github.com/pthm-cable/impulse/geom"
)

// resolve hands c to the contact listener, then corrects positions and
// velocities unless the listener disabled physics for it.
func (w *World) resolve(c Collision) {
	if !w.slots[c.A.index].active() || !w.slots[c.B.index].active() {
		// An earlier listener call removed one of the bodies.
		return
	}

	if l := w.cfg.ContactListener; l != nil {
		ev := CollisionEvent{
			A:         &w.slots[c.A.index].body,
			B:         &w.slots[c.B.index].body,
			Collision: c,
		}
		l.OnContact(w, &ev)
		if ev.DisablePhysics {
			w.stats.VetoedContacts++
			return
		}
		if !w.slots[c.A.index].active() || !w.slots[c.B.index].active() {
			return
		}
	}

	// Re-read the slots: the listener may have grown the arena.
	a, b := &w.slots[c.A.index].body, &w.slots[c.B.index].body
	if c.Type == DynamicStatic {
		if a.kind == Dynamic {
			w.pushOutOfStatic(a, c.Mtv, c.Normal)
		} else {
			w.pushOutOfStatic(b, c.Mtv.Mul(-1), c.Normal.Mul(-1))
		}
		return
	}
	resolveDynamic(a, b, c)
}

// pushOutOfStatic moves a dynamic body out of a static one and removes the
// part of its velocity heading into the surface. n points away from the
// static body.
func (w *World) pushOutOfStatic(b *Body, mtv, n geom.Vec2) {
	b.Position = b.Position.Add(mtv)

	vn := b.Velocity.Dot(n)
	if vn >= 0 {
		return
	}
	bounce := float32(1)
	if w.cfg.RestitutionOnStatic {
		bounce += b.Restitution
	}
	b.Velocity = b.Velocity.Sub(n.Mul(vn * bounce))
}

// resolveDynamic separates two dynamic bodies and applies the collision
// impulse.
//
// Position correction is split by each body's speed along the normal, so
// the body that drove into the contact is pushed back further. With zero
// restitution both normal velocities are cancelled independently, which
// does not conserve momentum exactly; otherwise the usual impulse
// j = -(1+e) v_rel·n / (1/mA + 1/mB) is applied.
func resolveDynamic(a, b *Body, c Collision) {
	n := c.Normal
	va := a.Velocity.Dot(n)
	vb := b.Velocity.Dot(n)

	shareA := float32(0.5)
	if total := math32.Abs(va) + math32.Abs(vb); total > 0 {
		shareA = math32.Abs(va) / total
	}
	a.Position = a.Position.Add(c.Mtv.Mul(shareA))
	b.Position = b.Position.Sub(c.Mtv.Mul(1 - shareA))

	rel := va - vb
	if rel >= 0 {
		return
	}

	e := min(a.Restitution, b.Restitution)
	if e == 0 {
		a.Velocity = a.Velocity.Sub(n.Mul(va))
		b.Velocity = b.Velocity.Sub(n.Mul(vb))
		return
	}

	j := -(1 + e) * rel / (a.invMass + b.invMass)
	a.Velocity = a.Velocity.Add(n.Mul(j * a.invMass))
	b.Velocity = b.Velocity.Sub(n.Mul(j * b.invMass))
}
