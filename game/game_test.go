package game

import (
	"testing"

	"github.com/pthm-cable/impulse/components"
	"github.com/pthm-cable/impulse/config"
	"github.com/pthm-cable/impulse/geom"
	"github.com/pthm-cable/impulse/physics"
)

// newTestGame builds a headless game from the embedded defaults. mutate may
// adjust the config before the scene is built.
func newTestGame(t *testing.T, seed int64, mutate func(*config.Config)) *Game {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if mutate != nil {
		mutate(cfg)
	}
	g, err := NewGameWithOptions(cfg, Options{Seed: seed, Headless: true})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func physicsBall(center geom.Vec2) physics.BodyConfig {
	return physics.BodyConfig{Position: center, Shape: physics.CircleShape(10), Mass: 1}
}

// emptyScene keeps only walls, terrain and the player.
func emptyScene(cfg *config.Config) {
	cfg.Scene.Crates = 0
	cfg.Scene.Balls = 0
	cfg.Scene.Coins = 0
}

func TestSceneBodyCounts(t *testing.T) {
	g := newTestGame(t, 7, nil)
	sc := g.cfg.Scene

	counts := map[components.Kind]int{}
	query := g.drawFilter.Query()
	for query.Next() {
		ref, kind, _ := query.Get()
		if !g.physics.Contains(ref.ID) {
			t.Errorf("entity of kind %v points at missing body %v", *kind, ref.ID)
		}
		counts[*kind]++
	}

	columns := 2560 / 40
	want := map[components.Kind]int{
		components.KindWall:    3,
		components.KindTerrain: columns,
		components.KindCoin:    sc.Coins,
		components.KindCrate:   sc.Crates,
		components.KindBall:    sc.Balls,
		components.KindPlayer:  1,
	}
	for kind, n := range want {
		if counts[kind] != n {
			t.Errorf("%v count = %d, want %d", kind, counts[kind], n)
		}
	}
	if total := 3 + columns + sc.Coins + sc.Crates + sc.Balls + 1; g.physics.Len() != total {
		t.Errorf("physics bodies = %d, want %d", g.physics.Len(), total)
	}
}

func TestTerrainHeights(t *testing.T) {
	a := TerrainHeights(3, 50, 60, 160, 0.08)
	b := TerrainHeights(3, 50, 60, 160, 0.08)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("column %d differs for the same seed: %v vs %v", i, a[i], b[i])
		}
		if a[i] < 60 || a[i] > 220 {
			t.Errorf("column %d height %v outside [60, 220]", i, a[i])
		}
	}
}

func TestHeadlessRunIsDeterministic(t *testing.T) {
	run := func() (geom.Vec2, State) {
		g := newTestGame(t, 42, nil)
		for i := 0; i < 240; i++ {
			if err := g.UpdateHeadless(); err != nil {
				t.Fatalf("UpdateHeadless: %v", err)
			}
		}
		return g.physics.Body(g.player).Position, g.State()
	}

	posA, stateA := run()
	posB, stateB := run()
	if posA != posB {
		t.Errorf("player positions differ: %v vs %v", posA, posB)
	}
	if stateA != stateB {
		t.Errorf("states differ: %+v vs %+v", stateA, stateB)
	}
}

func TestTickAdvancesPerStep(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	emptyScene(cfg)
	g, err := NewGameWithOptions(cfg, Options{Seed: 1, Headless: true, StepsPerUpdate: 5})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	defer g.Unload()

	if err := g.UpdateHeadless(); err != nil {
		t.Fatalf("UpdateHeadless: %v", err)
	}
	if g.Tick() != 5 {
		t.Errorf("tick = %d, want 5", g.Tick())
	}
}

func TestCoinPickup(t *testing.T) {
	g := newTestGame(t, 1, func(cfg *config.Config) {
		emptyScene(cfg)
		cfg.Physics.GravityY = 0
	})

	player := g.physics.Body(g.player)
	start := player.Position
	filter := components.CoinFilter()
	coin, err := g.spawnCoin(player.Center(), 8, &filter, 25)
	if err != nil {
		t.Fatalf("spawnCoin: %v", err)
	}
	entity := g.entities[coin]

	if err := g.step(Input{}); err != nil {
		t.Fatalf("step: %v", err)
	}

	if got := g.State(); got.CoinsCollected != 1 || got.Score != 25 {
		t.Errorf("state = %+v, want 1 coin worth 25", got)
	}
	if g.physics.Contains(coin) {
		t.Error("coin body still in the world")
	}
	if g.world.Alive(entity) {
		t.Error("coin entity still alive")
	}
	if _, ok := g.entities[coin]; ok {
		t.Error("coin still mapped to an entity")
	}
	if s := g.physics.Stats(); s.VetoedContacts != 1 {
		t.Errorf("vetoed contacts = %d, want 1", s.VetoedContacts)
	}
	if pos := g.physics.Body(g.player).Position; pos != start {
		t.Errorf("coin pushed the player from %v to %v", start, pos)
	}

	// Nothing is left to collect.
	if err := g.step(Input{}); err != nil {
		t.Fatalf("step: %v", err)
	}
	if got := g.State(); got.CoinsCollected != 1 {
		t.Errorf("coins after second step = %d, want 1", got.CoinsCollected)
	}
}

func TestCoinsIgnoreOtherBodies(t *testing.T) {
	g := newTestGame(t, 1, func(cfg *config.Config) {
		emptyScene(cfg)
		cfg.Physics.GravityY = 0
	})

	filter := components.CoinFilter()
	center := geom.V(1200, 200)
	if _, err := g.spawnCoin(center, 8, &filter, 10); err != nil {
		t.Fatalf("spawnCoin: %v", err)
	}
	if _, err := g.spawnDynamic(components.KindBall, physicsBall(center)); err != nil {
		t.Fatalf("spawnDynamic: %v", err)
	}

	if err := g.step(Input{}); err != nil {
		t.Fatalf("step: %v", err)
	}
	if got := g.State(); got.CoinsCollected != 0 {
		t.Errorf("a ball collected a coin: %+v", got)
	}
}

func TestJumpRequiresGround(t *testing.T) {
	g := newTestGame(t, 5, emptyScene)

	// The player spawns in the air.
	if err := g.step(Input{Jump: true}); err != nil {
		t.Fatalf("step: %v", err)
	}
	if g.State().Jumps != 0 {
		t.Fatal("jumped while airborne")
	}

	for i := 0; i < 120 && !g.PlayerGrounded(); i++ {
		if err := g.step(Input{}); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if !g.PlayerGrounded() {
		t.Fatal("player never landed")
	}

	if err := g.step(Input{Jump: true}); err != nil {
		t.Fatalf("step: %v", err)
	}
	if g.State().Jumps != 1 {
		t.Fatalf("jumps = %d, want 1", g.State().Jumps)
	}
	if vy := g.physics.Body(g.player).Velocity[1]; vy >= 0 {
		t.Errorf("vertical velocity after jump = %v, want upward (negative)", vy)
	}
}

func TestMoveForceRespectsMaxSpeed(t *testing.T) {
	g := newTestGame(t, 5, func(cfg *config.Config) {
		emptyScene(cfg)
		cfg.Physics.GravityY = 0
		cfg.Player.Damping = 0
	})

	// Well above the terrain and below the ceiling.
	body := g.physics.Body(g.player)
	body.Position = geom.V(1200, 100)
	body.Velocity = geom.V(400, 0) // already above max speed
	if err := g.step(Input{Right: true}); err != nil {
		t.Fatalf("step: %v", err)
	}
	if vx := g.physics.Body(g.player).Velocity[0]; vx != 400 {
		t.Errorf("vx = %v, want 400 (no force above max speed)", vx)
	}

	if err := g.step(Input{Left: true}); err != nil {
		t.Fatalf("step: %v", err)
	}
	if vx := g.physics.Body(g.player).Velocity[0]; vx >= 400 {
		t.Errorf("vx = %v, want braking below 400", vx)
	}
}
