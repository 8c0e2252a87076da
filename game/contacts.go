package game

import (
	"log/slog"

	"github.com/pthm-cable/impulse/components"
	"github.com/pthm-cable/impulse/physics"
)

var _ physics.ContactListener = (*Game)(nil)

// OnContact collects coins the player touches. The contact itself is
// vetoed so the coin never pushes the player around.
func (g *Game) OnContact(w *physics.World, ev *physics.CollisionEvent) {
	coin := ev.Collision.B
	switch g.player {
	case ev.Collision.A:
	case ev.Collision.B:
		coin = ev.Collision.A
	default:
		return
	}

	e, ok := g.entities[coin]
	if !ok || *g.kindMap.Get(e) != components.KindCoin {
		return
	}
	ev.DisablePhysics = true

	value := g.pickupMap.Get(e).Value
	if err := w.RemoveBody(coin); err != nil {
		slog.Error("failed to remove coin", "body", coin.String(), "error", err)
		return
	}
	delete(g.entities, coin)
	g.removed = append(g.removed, e)

	g.state.CoinsCollected++
	g.state.Score += value
	g.collector.RecordPickup()
	slog.Debug("coin collected", "tick", g.tick, "value", value, "score", g.state.Score)
}

// flushRemovals drops the entities whose bodies left the world this tick.
func (g *Game) flushRemovals() {
	for _, e := range g.removed {
		if g.world.Alive(e) {
			g.world.RemoveEntity(e)
		}
	}
	g.removed = g.removed[:0]
}
