package physics

import "fmt"

// BodyID is a handle to a body owned by a World. The generation detects
// handles that outlived their body after the slot was reused.
type BodyID struct {
	index      uint32
	generation uint32
}

// NilBody is the zero BodyID; no body ever has it.
var NilBody BodyID

// Index returns the slot index of the body. Indices order collision pairs.
func (id BodyID) Index() int { return int(id.index) }

// Generation returns the slot generation the handle was issued for.
func (id BodyID) Generation() uint32 { return id.generation }

// IsNil reports whether id is the zero handle.
func (id BodyID) IsNil() bool { return id.generation == 0 }

func (id BodyID) String() string {
	return fmt.Sprintf("body#%d.%d", id.index, id.generation)
}
