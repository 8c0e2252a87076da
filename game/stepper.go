package game

// Stepper turns variable frame times into a whole number of fixed ticks.
type Stepper struct {
	DT       float32 // seconds per tick
	MaxFrame float32 // frame times above this are clamped

	acc float32
}

// NewStepper creates a stepper for the given tick length. maxFrame <= 0
// disables clamping.
func NewStepper(dt, maxFrame float32) *Stepper {
	return &Stepper{DT: dt, MaxFrame: maxFrame}
}

// Advance adds a frame's elapsed time and returns how many ticks to run.
// The remainder carries over to the next frame.
func (s *Stepper) Advance(frame float32) int {
	if frame < 0 {
		frame = 0
	}
	if s.MaxFrame > 0 && frame > s.MaxFrame {
		frame = s.MaxFrame
	}
	s.acc += frame

	n := 0
	for s.acc >= s.DT {
		s.acc -= s.DT
		n++
	}
	return n
}

// Alpha is the leftover fraction of a tick, in [0, 1).
func (s *Stepper) Alpha() float32 {
	return s.acc / s.DT
}

// Reset drops any accumulated time.
func (s *Stepper) Reset() {
	s.acc = 0
}
