package physics

// Phase names reported to a PhaseTimer during Update.
const (
	PhaseForces      = "forces"
	PhaseIntegrate   = "integrate"
	PhaseBroadPhase  = "broad_phase"
	PhaseNarrowPhase = "narrow_phase"
	PhaseResolve     = "resolve"
	PhaseFinalize    = "finalize"
)

// PhaseTimer is told when each phase of Update begins. A phase ends when
// the next one starts; the caller closes the last one.
type PhaseTimer interface {
	StartPhase(phase string)
}

// StepStats counts what happened during the most recent Update, summed over
// its sub-steps.
type StepStats struct {
	Bodies          int
	Substeps        int
	CandidatePairs  int // pairs produced by the broad phase
	FilteredPairs   int // candidates dropped by collision filters
	Collisions      int
	StaticContacts  int
	DynamicContacts int
	VetoedContacts  int // collisions whose physics a listener disabled
	ClampedBodies   int // bodies slowed to the terminal velocity
}
