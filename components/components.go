// Package components defines ECS components for the sandbox.
//
// Physics state lives in the physics.World; entities only hold a handle to
// their body plus the gameplay data the world knows nothing about.
package components

import "github.com/pthm-cable/impulse/physics"

// Kind classifies sandbox entities for drawing and gameplay.
type Kind uint8

const (
	KindTerrain Kind = iota
	KindWall
	KindCrate
	KindBall
	KindCoin
	KindPlayer
)

var kindNames = [...]string{"terrain", "wall", "crate", "ball", "coin", "player"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Collision layers used by the sandbox on top of physics.LayerDefault.
const (
	LayerCoin   uint16 = 1 << 1
	LayerPlayer uint16 = 1 << 2
)

// CoinFilter makes a body touchable by the player only.
func CoinFilter() physics.CollisionFilter {
	return physics.CollisionFilter{Layer: LayerCoin, Mask: LayerPlayer}
}

// PlayerFilter collides with everything, coins included.
func PlayerFilter() physics.CollisionFilter {
	return physics.CollisionFilter{Layer: physics.LayerDefault | LayerPlayer, Mask: physics.LayerAll}
}

// BodyRef links an entity to its physics body.
type BodyRef struct {
	ID physics.BodyID
}

// Pickup marks a collectible and what it is worth.
type Pickup struct {
	Value int
}

// Player holds the control parameters of the player body.
type Player struct {
	MoveForce   float32
	MaxSpeed    float32
	JumpImpulse float32
}

// Tint is the debug-draw color of an entity.
type Tint struct {
	R, G, B, A uint8
}

// DefaultTint returns the draw color for a kind.
func DefaultTint(k Kind) Tint {
	switch k {
	case KindTerrain:
		return Tint{R: 90, G: 110, B: 80, A: 255}
	case KindWall:
		return Tint{R: 70, G: 70, B: 80, A: 255}
	case KindCrate:
		return Tint{R: 170, G: 120, B: 60, A: 255}
	case KindBall:
		return Tint{R: 80, G: 150, B: 220, A: 255}
	case KindCoin:
		return Tint{R: 240, G: 200, B: 40, A: 255}
	case KindPlayer:
		return Tint{R: 220, G: 70, B: 70, A: 255}
	}
	return Tint{R: 255, G: 255, B: 255, A: 255}
}
