package game

// State is the gameplay scoreboard.
type State struct {
	CoinsCollected int
	Score          int
	Jumps          int
}

// Input is one tick of player intent.
type Input struct {
	Left, Right bool
	Jump        bool
}

// autopilot drives the player in headless runs: it walks one way for a
// while, turns around, and hops at a fixed cadence.
type autopilot struct {
	turnEvery int32
	jumpEvery int32
}

func newAutopilot() autopilot {
	return autopilot{turnEvery: 300, jumpEvery: 45}
}

func (a autopilot) input(tick int32) Input {
	right := (tick/a.turnEvery)%2 == 0
	return Input{
		Left:  !right,
		Right: right,
		Jump:  tick%a.jumpEvery == 0,
	}
}
