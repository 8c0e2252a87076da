package physics

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/pthm-cable/impulse/geom"
)

func testID(i int) BodyID {
	return BodyID{index: uint32(i), generation: 1}
}

func pairKeys(pairs []Pair) []uint64 {
	keys := make([]uint64, len(pairs))
	for i, p := range pairs {
		keys[i] = p.key()
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func equalKeys(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewSpatialHashGridPanicsOnBadCellSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for zero cell size")
		}
	}()
	NewSpatialHashGrid(0)
}

func TestGridInsertSpansCells(t *testing.T) {
	g := NewSpatialHashGrid(10)

	// Spans cells x in [-1, 1], y in [0, 0] (inclusive of both ends).
	g.Insert(testID(0), geom.NewAabb(geom.V(-5, 1), geom.V(10, 9)))

	visited := map[[2]int32]int{}
	g.EachCell(func(x, y int32, ids []BodyID) {
		visited[[2]int32{x, y}] = len(ids)
	})

	want := [][2]int32{{-1, 0}, {0, 0}, {1, 0}}
	if len(visited) != len(want) {
		t.Fatalf("occupied cells = %v, want %v", visited, want)
	}
	for _, k := range want {
		if visited[k] != 1 {
			t.Errorf("cell %v holds %d bodies, want 1", k, visited[k])
		}
	}
}

func TestGridPairsAreDeduplicated(t *testing.T) {
	g := NewSpatialHashGrid(10)

	// Both boxes span the same four cells.
	g.Insert(testID(3), geom.NewAabb(geom.V(5, 5), geom.V(15, 15)))
	g.Insert(testID(1), geom.NewAabb(geom.V(4, 4), geom.V(16, 16)))
	g.Insert(testID(7), geom.NewAabb(geom.V(100, 100), geom.V(101, 101)))

	pairs := g.Pairs()
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1: %v", len(pairs), pairs)
	}
	if pairs[0].A.Index() != 1 || pairs[0].B.Index() != 3 {
		t.Errorf("pair = (%d, %d), want normalized (1, 3)", pairs[0].A.Index(), pairs[0].B.Index())
	}
}

func TestGridUpdateBodyRehashThreshold(t *testing.T) {
	g := NewSpatialHashGrid(10)
	id := testID(0)
	box := geom.FromRect(geom.V(2, 2), geom.V(2, 2))

	if !g.UpdateBody(id, box) {
		t.Fatal("first UpdateBody must insert")
	}

	// Moving less than 0.1 * cellSize inside the same cells is ignored.
	small := geom.FromRect(geom.V(2.5, 2), geom.V(2, 2))
	if g.UpdateBody(id, small) {
		t.Error("small move should not rehash")
	}

	// Crossing into another cell always rehashes, however small the move.
	edge := geom.FromRect(geom.V(7.9, 2), geom.V(2, 2))
	g.UpdateBody(id, edge)
	crossing := geom.FromRect(geom.V(8.05, 2), geom.V(2, 2))
	if !g.UpdateBody(id, crossing) {
		t.Error("moving into a new cell should rehash")
	}

	// A large move rehashes.
	far := geom.FromRect(geom.V(50, 50), geom.V(2, 2))
	if !g.UpdateBody(id, far) {
		t.Error("large move should rehash")
	}

	count := 0
	g.EachCell(func(x, y int32, ids []BodyID) { count += len(ids) })
	if count != 1 {
		t.Errorf("body registered in %d cells, want 1", count)
	}
}

// Incremental updates must end with the same candidate pairs as inserting
// the final boxes in one pass.
func TestGridIncrementalMatchesBatch(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const n = 60

	final := make([]geom.Aabb, n)
	for i := range final {
		pos := geom.V(rng.Float32()*200, rng.Float32()*200)
		final[i] = geom.FromRect(pos, geom.V(1+rng.Float32()*20, 1+rng.Float32()*20))
	}

	batch := NewSpatialHashGrid(16)
	for i, box := range final {
		batch.Insert(testID(i), box)
	}

	incremental := NewSpatialHashGrid(16)
	for step := 0; step < 10; step++ {
		for i, box := range final {
			// Walk each body toward its final box, with jitter along the way.
			offset := geom.V(float32(9-step)*rng.Float32()*3, float32(9-step)*rng.Float32()*3)
			moved := geom.Aabb{Min: box.Min.Add(offset), Max: box.Max.Add(offset)}
			incremental.UpdateBody(testID(i), moved)
		}
	}

	want := pairKeys(batch.Pairs())
	got := pairKeys(incremental.Pairs())
	if !equalKeys(got, want) {
		t.Errorf("incremental pairs (%d) differ from batch pairs (%d)", len(got), len(want))
	}
}

func TestGridRemove(t *testing.T) {
	g := NewSpatialHashGrid(10)
	g.Insert(testID(0), geom.FromRect(geom.V(0, 0), geom.V(5, 5)))
	g.Insert(testID(1), geom.FromRect(geom.V(1, 1), geom.V(5, 5)))

	g.Remove(testID(0))
	if pairs := g.Pairs(); len(pairs) != 0 {
		t.Errorf("expected no pairs after remove, got %v", pairs)
	}

	// Removing with a stale generation does nothing.
	g.Remove(BodyID{index: 1, generation: 9})
	g.Insert(testID(2), geom.FromRect(geom.V(2, 2), geom.V(1, 1)))
	if pairs := g.Pairs(); len(pairs) != 1 {
		t.Errorf("expected 1 pair, got %v", pairs)
	}
}

func TestGridClearKeepsCells(t *testing.T) {
	g := NewSpatialHashGrid(10)
	for i := 0; i < 5; i++ {
		g.Insert(testID(i), geom.FromRect(geom.V(float32(i)*10, 0), geom.V(15, 5)))
	}
	cells := g.CellCount()
	if cells == 0 {
		t.Fatal("expected cells to be allocated")
	}

	g.Clear()
	if g.CellCount() != cells {
		t.Errorf("CellCount after Clear = %d, want %d", g.CellCount(), cells)
	}
	if pairs := g.Pairs(); len(pairs) != 0 {
		t.Errorf("expected no pairs after Clear, got %d", len(pairs))
	}
	occupied := 0
	g.EachCell(func(x, y int32, ids []BodyID) { occupied++ })
	if occupied != 0 {
		t.Errorf("%d cells still occupied after Clear", occupied)
	}

	// After Clear the next UpdateBody inserts again.
	if !g.UpdateBody(testID(0), geom.FromRect(geom.V(0, 0), geom.V(15, 5))) {
		t.Error("UpdateBody after Clear should insert")
	}
}

func BenchmarkGridPairs(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	g := NewSpatialHashGrid(32)
	for i := 0; i < 2000; i++ {
		pos := geom.V(rng.Float32()*2000, rng.Float32()*2000)
		g.Insert(testID(i), geom.FromRect(pos, geom.V(16, 16)))
	}

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		g.Pairs()
	}
}
