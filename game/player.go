package game

import (
	"log/slog"

	"github.com/pthm-cable/impulse/geom"
)

// up is the direction opposite gravity, or screen-up when gravity is off.
func (g *Game) up() geom.Vec2 {
	up := geom.Normalize(g.physics.Gravity().Mul(-1))
	if up == geom.Zero {
		return geom.V(0, -1)
	}
	return up
}

// applyInput turns player intent into forces and impulses for this tick.
func (g *Game) applyInput(in Input) {
	body, ok := g.physics.Lookup(g.player)
	if !ok {
		return
	}
	p := g.playerMap.Get(g.playerE)

	vx := body.Velocity[0]
	if in.Left && !in.Right && vx > -p.MaxSpeed {
		body.ApplyForce(geom.V(-p.MoveForce, 0))
	}
	if in.Right && !in.Left && vx < p.MaxSpeed {
		body.ApplyForce(geom.V(p.MoveForce, 0))
	}

	// Penetration is left over from the previous Update, so a body resting
	// on something pushed up reads as grounded.
	up := g.up()
	if in.Jump && body.Grounded(up) {
		body.ApplyImpulse(up.Mul(p.JumpImpulse))
		g.state.Jumps++
		g.collector.RecordJump()
		slog.Debug("jump", "tick", g.tick, "x", body.Position[0], "y", body.Position[1])
	}
}

// PlayerGrounded reports whether the player currently rests on something.
func (g *Game) PlayerGrounded() bool {
	body, ok := g.physics.Lookup(g.player)
	return ok && body.Grounded(g.up())
}
