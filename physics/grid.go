package physics

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/pthm-cable/impulse/geom"
)

// Pair is a candidate collision pair with A.Index() < B.Index().
type Pair struct {
	A, B BodyID
}

func makePair(a, b BodyID) Pair {
	if b.index < a.index {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

func (p Pair) key() uint64 {
	return uint64(p.A.index)<<32 | uint64(p.B.index)
}

// cellKey is an integer grid coordinate, floor(worldPos / cellSize).
type cellKey struct {
	x, y int32
}

// gridCell stores the bodies whose boxes overlap one grid cell.
// The slice is reused between passes (reset to [:0]) to avoid allocations.
type gridCell struct {
	key   cellKey
	items []BodyID
}

// cellRange is an inclusive range of cell coordinates.
type cellRange struct {
	minX, minY, maxX, maxY int32
}

// bodyTrack is the grid's record of where a body was last registered.
type bodyTrack struct {
	id         BodyID
	lastCenter geom.Vec2
	cells      cellRange
	registered bool
}

// SpatialHashGrid is an unbounded uniform grid for broad-phase collision
// detection. Bodies are registered in every cell their bounding box spans,
// and Pairs enumerates each pair of bodies sharing at least one cell once.
//
// Cells are created on demand and never freed, so a world that keeps its
// bodies in one region stops allocating after the first few steps.
type SpatialHashGrid struct {
	cellSize     float32
	invCellSize  float32 // 1 / cellSize (precomputed to avoid division)
	rehashDistSq float32 // squared center movement that forces a rehash

	index  map[cellKey]int // cell coordinate -> position in cells
	cells  []gridCell      // in creation order, for deterministic iteration
	tracks []bodyTrack     // by body index, grown monotonically

	seen     map[uint64]struct{}
	seenHint int
	pairs    []Pair
}

// RehashFraction is the fraction of the cell size a body's center must move
// before UpdateBody recomputes its cells.
const RehashFraction = 0.1

// NewSpatialHashGrid creates an empty grid. It panics if cellSize is not
// positive.
func NewSpatialHashGrid(cellSize float32) *SpatialHashGrid {
	if !(cellSize > 0) {
		panic(fmt.Sprintf("physics: invalid grid cell size %v", cellSize))
	}
	rehash := cellSize * RehashFraction
	return &SpatialHashGrid{
		cellSize:     cellSize,
		invCellSize:  1 / cellSize,
		rehashDistSq: rehash * rehash,
		index:        make(map[cellKey]int),
		seen:         make(map[uint64]struct{}),
	}
}

// CellSize returns the edge length of a grid cell.
func (g *SpatialHashGrid) CellSize() float32 {
	return g.cellSize
}

// Insert registers id in every cell spanned by box. A body that was
// already registered is moved.
func (g *SpatialHashGrid) Insert(id BodyID, box geom.Aabb) {
	t := g.track(id)
	if t.registered {
		g.unregister(t)
	}
	g.register(t, id, g.cellRange(box))
	t.lastCenter = box.Center()
}

// UpdateBody keeps id's registration current. Cells are recomputed when the
// body's center moved more than RehashFraction*CellSize since the last
// rehash, or when its box now spans a different cell range. It reports
// whether the body was rehashed.
func (g *SpatialHashGrid) UpdateBody(id BodyID, box geom.Aabb) bool {
	t := g.track(id)
	center := box.Center()
	r := g.cellRange(box)

	if t.registered && t.id == id && r == t.cells &&
		geom.LengthSq(center.Sub(t.lastCenter)) <= g.rehashDistSq {
		return false
	}

	if t.registered {
		g.unregister(t)
	}
	g.register(t, id, r)
	t.lastCenter = center
	return true
}

// Remove drops id from every cell it occupies.
func (g *SpatialHashGrid) Remove(id BodyID) {
	if int(id.index) >= len(g.tracks) {
		return
	}
	t := &g.tracks[id.index]
	if !t.registered || t.id != id {
		return
	}
	g.unregister(t)
	t.lastCenter = unsetCenter()
}

// Clear empties every cell but keeps the cells and their capacity, so the
// next populate pass does not allocate. Body tracking is reset.
func (g *SpatialHashGrid) Clear() {
	for i := range g.cells {
		g.cells[i].items = g.cells[i].items[:0]
	}
	for i := range g.tracks {
		g.tracks[i].registered = false
		g.tracks[i].lastCenter = unsetCenter()
	}
}

// Pairs returns every unordered pair of distinct bodies sharing a cell,
// once each, normalized so that A has the lower index.
//
// The returned slice is reused on subsequent calls.
func (g *SpatialHashGrid) Pairs() []Pair {
	g.pairs = g.pairs[:0]

	// Upper bound on the number of pairs: every cell contributes n(n-1)/2.
	estimate := 0
	for i := range g.cells {
		n := len(g.cells[i].items)
		estimate += n * (n - 1) / 2
	}
	if estimate > g.seenHint {
		// make() sizes the buckets so the hint fits under the map's load factor.
		g.seen = make(map[uint64]struct{}, estimate)
		g.seenHint = estimate
	} else {
		clear(g.seen)
	}

	for i := range g.cells {
		items := g.cells[i].items
		for a := 0; a < len(items); a++ {
			for b := a + 1; b < len(items); b++ {
				p := makePair(items[a], items[b])
				k := p.key()
				if _, dup := g.seen[k]; dup {
					continue
				}
				g.seen[k] = struct{}{}
				g.pairs = append(g.pairs, p)
			}
		}
	}
	return g.pairs
}

// CellCount returns the number of allocated cells, empty or not.
func (g *SpatialHashGrid) CellCount() int {
	return len(g.cells)
}

// EachCell calls fn for every non-empty cell with its cell coordinate.
// The ids slice must not be retained.
func (g *SpatialHashGrid) EachCell(fn func(x, y int32, ids []BodyID)) {
	for i := range g.cells {
		c := &g.cells[i]
		if len(c.items) == 0 {
			continue
		}
		fn(c.key.x, c.key.y, c.items)
	}
}

// CellBounds returns the world-space box of cell (x, y).
func (g *SpatialHashGrid) CellBounds(x, y int32) geom.Aabb {
	origin := geom.V(float32(x)*g.cellSize, float32(y)*g.cellSize)
	return geom.FromRect(origin, geom.V(g.cellSize, g.cellSize))
}

func (g *SpatialHashGrid) cellRange(box geom.Aabb) cellRange {
	return cellRange{
		minX: int32(math32.Floor(box.Min[0] * g.invCellSize)),
		minY: int32(math32.Floor(box.Min[1] * g.invCellSize)),
		maxX: int32(math32.Floor(box.Max[0] * g.invCellSize)),
		maxY: int32(math32.Floor(box.Max[1] * g.invCellSize)),
	}
}

// track returns the tracking record for id's slot, growing the table.
func (g *SpatialHashGrid) track(id BodyID) *bodyTrack {
	for int(id.index) >= len(g.tracks) {
		g.tracks = append(g.tracks, bodyTrack{lastCenter: unsetCenter()})
	}
	return &g.tracks[id.index]
}

func (g *SpatialHashGrid) register(t *bodyTrack, id BodyID, r cellRange) {
	for y := r.minY; y <= r.maxY; y++ {
		for x := r.minX; x <= r.maxX; x++ {
			c := g.cell(cellKey{x, y})
			c.items = append(c.items, id)
		}
	}
	t.id = id
	t.cells = r
	t.registered = true
}

func (g *SpatialHashGrid) unregister(t *bodyTrack) {
	r := t.cells
	for y := r.minY; y <= r.maxY; y++ {
		for x := r.minX; x <= r.maxX; x++ {
			idx, ok := g.index[cellKey{x, y}]
			if !ok {
				continue
			}
			c := &g.cells[idx]
			for i, item := range c.items {
				if item == t.id {
					last := len(c.items) - 1
					c.items[i] = c.items[last]
					c.items = c.items[:last]
					break
				}
			}
		}
	}
	t.registered = false
}

// cell returns the cell for k, creating it on first use.
func (g *SpatialHashGrid) cell(k cellKey) *gridCell {
	if idx, ok := g.index[k]; ok {
		return &g.cells[idx]
	}
	g.index[k] = len(g.cells)
	g.cells = append(g.cells, gridCell{key: k, items: make([]BodyID, 0, 4)})
	return &g.cells[len(g.cells)-1]
}

// unsetCenter is the "never registered" sentinel; any real center is
// infinitely far from it, so the next UpdateBody always inserts.
func unsetCenter() geom.Vec2 {
	inf := math32.Inf(1)
	return geom.V(inf, inf)
}
