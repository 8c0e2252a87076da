package physics

// Collision layers used by DefaultFilter.
const (
	LayerDefault uint16 = 0x0001
	LayerAll     uint16 = 0xFFFF
)

// CollisionFilter decides which pairs of bodies may collide.
//
// Bodies sharing a non-zero GroupIndex always collide when the group is
// positive and never collide when it is negative, regardless of layers.
// Otherwise each body's Mask must include the other body's Layer.
type CollisionFilter struct {
	Layer      uint16
	Mask       uint16
	GroupIndex int16
}

// DefaultFilter returns a filter on the default layer that collides with
// everything.
func DefaultFilter() CollisionFilter {
	return CollisionFilter{Layer: LayerDefault, Mask: LayerAll}
}

// CanCollide reports whether bodies with filters f and o may collide.
func (f CollisionFilter) CanCollide(o CollisionFilter) bool {
	if f.GroupIndex != 0 && f.GroupIndex == o.GroupIndex {
		return f.GroupIndex > 0
	}
	return f.Mask&o.Layer != 0 && o.Mask&f.Layer != 0
}
