package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/impulse/camera"
	"github.com/pthm-cable/impulse/geom"
	"github.com/pthm-cable/impulse/physics"
)

// DebugDraw renders physics bodies and broad/narrow phase state with
// raylib primitives.
type DebugDraw struct {
	gridColor    rl.Color
	cellColor    rl.Color
	contactColor rl.Color
	normalLength float32
}

// NewDebugDraw creates a debug renderer.
func NewDebugDraw() *DebugDraw {
	return &DebugDraw{
		gridColor:    rl.Color{R: 255, G: 255, B: 255, A: 24},
		cellColor:    rl.Color{R: 120, G: 200, B: 255, A: 28},
		contactColor: rl.Color{R: 255, G: 80, B: 80, A: 255},
		normalLength: 14,
	}
}

// Begin enters world space for the given camera.
func (d *DebugDraw) Begin(cam *camera.Camera) {
	rl.BeginMode2D(rl.Camera2D{
		Offset: rl.Vector2{X: cam.ViewportW / 2, Y: cam.ViewportH / 2},
		Target: rl.Vector2{X: cam.X, Y: cam.Y},
		Zoom:   cam.Zoom,
	})
}

// End leaves world space.
func (d *DebugDraw) End() {
	rl.EndMode2D()
}

// DrawBody draws one body filled with c. Static rectangles get a depth
// shade so stacked terrain reads as ground.
func (d *DebugDraw) DrawBody(b *physics.Body, c rl.Color) {
	shape := b.Shape()
	switch shape.Kind {
	case physics.ShapeCircle:
		center := b.Center()
		rl.DrawCircleV(vec(center), shape.Radius, c)
		rl.DrawCircleLinesV(vec(center), shape.Radius, darken(c, 0.6))
	default:
		rect := rl.Rectangle{X: b.Position[0], Y: b.Position[1], Width: shape.Size[0], Height: shape.Size[1]}
		if b.IsStatic() {
			rl.DrawRectangleGradientV(int32(rect.X), int32(rect.Y), int32(rect.Width), int32(rect.Height), c, darken(c, 0.6))
		} else {
			rl.DrawRectangleRec(rect, c)
		}
		rl.DrawRectangleLinesEx(rect, 1, darken(c, 0.5))
	}
}

// DrawPenetration draws the accumulated penetration of a dynamic body from
// its center.
func (d *DebugDraw) DrawPenetration(b *physics.Body) {
	p := b.Penetration()
	if p == geom.Zero {
		return
	}
	c := b.Center()
	rl.DrawLineEx(vec(c), vec(c.Add(p)), 2, rl.Orange)
}

// DrawGrid outlines occupied spatial hash cells inside view and shades
// them by occupancy.
func (d *DebugDraw) DrawGrid(grid *physics.SpatialHashGrid, view geom.Aabb) {
	grid.EachCell(func(x, y int32, ids []physics.BodyID) {
		box := grid.CellBounds(x, y)
		if !box.Intersects(view) {
			return
		}
		size := box.Max.Sub(box.Min)
		rect := rl.Rectangle{X: box.Min[0], Y: box.Min[1], Width: size[0], Height: size[1]}
		fill := d.cellColor
		fill.A = uint8(min(int(fill.A)*len(ids), 160))
		rl.DrawRectangleRec(rect, fill)
		rl.DrawRectangleLinesEx(rect, 1, d.gridColor)
	})
}

// DrawContacts draws each collision's normal at body A.
func (d *DebugDraw) DrawContacts(w *physics.World, contacts []physics.Collision) {
	for _, c := range contacts {
		a, ok := w.Lookup(c.A)
		if !ok {
			continue
		}
		from := a.Center()
		to := from.Add(c.Normal.Mul(d.normalLength))
		rl.DrawLineEx(vec(from), vec(to), 2, d.contactColor)
		rl.DrawCircleV(vec(from), 2, d.contactColor)
	}
}

func vec(v geom.Vec2) rl.Vector2 {
	return rl.Vector2{X: v[0], Y: v[1]}
}

func darken(c rl.Color, f float32) rl.Color {
	return rl.Color{
		R: uint8(float32(c.R) * f),
		G: uint8(float32(c.G) * f),
		B: uint8(float32(c.B) * f),
		A: c.A,
	}
}
