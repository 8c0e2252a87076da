package game

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/mlange-42/ark/ecs"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/impulse/components"
	"github.com/pthm-cable/impulse/geom"
	"github.com/pthm-cable/impulse/physics"
)

// TerrainHeights samples one height per column from 1D simplex noise.
// Heights lie in [base, base+amplitude].
func TerrainHeights(seed int64, columns int, base, amplitude, scale float32) []float32 {
	noise := opensimplex.NewNormalized(seed)
	heights := make([]float32, columns)
	for i := range heights {
		n := float32(noise.Eval2(float64(float32(i)*scale), 0))
		heights[i] = base + amplitude*n
	}
	return heights
}

// buildScene fills an empty world: walls, terrain, coins, crates, balls and
// the player.
func (g *Game) buildScene() error {
	sc := g.cfg.Scene
	w, h := g.worldWidth, g.worldHeight
	thick := float32(sc.WallThickness)

	// Walls and ceiling sit just inside the world so the camera shows them.
	walls := []geom.Aabb{
		geom.FromRect(geom.V(0, 0), geom.V(thick, h)),
		geom.FromRect(geom.V(w-thick, 0), geom.V(thick, h)),
		geom.FromRect(geom.V(0, 0), geom.V(w, thick)),
	}
	for _, box := range walls {
		size := box.Max.Sub(box.Min)
		if _, err := g.spawnStatic(components.KindWall, box.Min, physics.Rect(size[0], size[1]), nil); err != nil {
			return fmt.Errorf("wall: %w", err)
		}
	}

	col := float32(sc.TerrainColumn)
	columns := int(math32.Ceil(w / col))
	heights := TerrainHeights(g.seed, columns, float32(sc.TerrainBase), float32(sc.TerrainAmplitude), float32(sc.NoiseScale))
	for i, th := range heights {
		pos := geom.V(float32(i)*col, h-th)
		if _, err := g.spawnStatic(components.KindTerrain, pos, physics.Rect(col, th), nil); err != nil {
			return fmt.Errorf("terrain column %d: %w", i, err)
		}
	}

	// Coins float above random columns, clear of the walls.
	coinFilter := components.CoinFilter()
	for i := 0; i < sc.Coins; i++ {
		c := g.innerColumn(columns, col, thick)
		x := (float32(c) + 0.5) * col
		y := h - heights[c] - 30 - g.rng.Float32()*90
		if _, err := g.spawnCoin(geom.V(x, y), float32(sc.CoinRadius), &coinFilter, sc.CoinValue); err != nil {
			return fmt.Errorf("coin %d: %w", i, err)
		}
	}

	// Crates and balls drop from the upper part of the world.
	spawnY := func(size float32) float32 {
		return thick + size + g.rng.Float32()*(h*0.35)
	}
	crate := float32(sc.CrateSize)
	for i := 0; i < sc.Crates; i++ {
		pos := geom.V(thick+g.rng.Float32()*(w-2*thick-crate), spawnY(crate))
		_, err := g.spawnDynamic(components.KindCrate, physics.BodyConfig{
			Position: pos,
			Shape:    physics.Rect(crate, crate),
			Mass:     float32(sc.CrateMass),
			Damping:  float32(sc.Damping),
		})
		if err != nil {
			return fmt.Errorf("crate %d: %w", i, err)
		}
	}

	r := float32(sc.BallRadius)
	for i := 0; i < sc.Balls; i++ {
		pos := geom.V(thick+r+g.rng.Float32()*(w-2*thick-2*r), spawnY(r))
		_, err := g.spawnDynamic(components.KindBall, physics.BodyConfig{
			Position:    pos,
			Shape:       physics.CircleShape(r),
			Mass:        float32(sc.BallMass),
			Damping:     float32(sc.Damping),
			Restitution: float32(sc.BallRestitution),
		})
		if err != nil {
			return fmt.Errorf("ball %d: %w", i, err)
		}
	}

	return g.spawnPlayer(heights, col)
}

// innerColumn picks a random terrain column that does not touch a wall.
func (g *Game) innerColumn(columns int, col, thick float32) int {
	first := int(math32.Ceil(thick / col))
	last := columns - 1 - first
	if last <= first {
		return columns / 2
	}
	return first + g.rng.Intn(last-first+1)
}

// spawnPlayer drops the player above the column a quarter of the way in.
func (g *Game) spawnPlayer(heights []float32, col float32) error {
	pc := g.cfg.Player
	pw, ph := float32(pc.Width), float32(pc.Height)
	c := len(heights) / 4
	pos := geom.V((float32(c)+0.5)*col-pw/2, g.worldHeight-heights[c]-ph-10)

	filter := components.PlayerFilter()
	body, err := physics.NewBody(physics.Dynamic, physics.BodyConfig{
		Position: pos,
		Shape:    physics.Rect(pw, ph),
		Mass:     float32(pc.Mass),
		Damping:  float32(pc.Damping),
		Filter:   &filter,
	})
	if err != nil {
		return fmt.Errorf("player: %w", err)
	}

	id := g.physics.AddBody(body)
	ref := components.BodyRef{ID: id}
	kind := components.KindPlayer
	tint := components.DefaultTint(kind)
	player := components.Player{
		MoveForce:   float32(pc.MoveForce),
		MaxSpeed:    float32(pc.MaxSpeed),
		JumpImpulse: float32(pc.JumpImpulse),
	}
	e := g.playerMapper.NewEntity(&ref, &kind, &tint, &player)
	g.entities[id] = e
	g.player = id
	g.playerE = e
	return nil
}

func (g *Game) spawnStatic(kind components.Kind, pos geom.Vec2, shape physics.Shape, filter *physics.CollisionFilter) (ecs.Entity, error) {
	body, err := physics.NewBody(physics.Static, physics.BodyConfig{
		Position: pos,
		Shape:    shape,
		Filter:   filter,
	})
	if err != nil {
		return ecs.Entity{}, err
	}
	return g.attach(kind, g.physics.AddBody(body)), nil
}

func (g *Game) spawnDynamic(kind components.Kind, cfg physics.BodyConfig) (ecs.Entity, error) {
	body, err := physics.NewBody(physics.Dynamic, cfg)
	if err != nil {
		return ecs.Entity{}, err
	}
	return g.attach(kind, g.physics.AddBody(body)), nil
}

func (g *Game) spawnCoin(center geom.Vec2, radius float32, filter *physics.CollisionFilter, value int) (physics.BodyID, error) {
	body, err := physics.NewBody(physics.Static, physics.BodyConfig{
		Position: center,
		Shape:    physics.CircleShape(radius),
		Filter:   filter,
	})
	if err != nil {
		return physics.NilBody, err
	}
	id := g.physics.AddBody(body)
	ref := components.BodyRef{ID: id}
	kind := components.KindCoin
	tint := components.DefaultTint(kind)
	pickup := components.Pickup{Value: value}
	g.entities[id] = g.coinMapper.NewEntity(&ref, &kind, &tint, &pickup)
	return id, nil
}

// attach creates the entity for a body that carries no gameplay data.
func (g *Game) attach(kind components.Kind, id physics.BodyID) ecs.Entity {
	ref := components.BodyRef{ID: id}
	tint := components.DefaultTint(kind)
	e := g.bodyMapper.NewEntity(&ref, &kind, &tint)
	g.entities[id] = e
	return e
}
