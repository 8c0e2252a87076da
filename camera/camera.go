// Package camera provides a 2D camera system for viewport control.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/impulse/geom"
)

// Camera controls the viewport into a bounded world.
// The visible area never leaves the world rectangle [0, WorldW] x [0, WorldH].
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World dimensions
	WorldW, WorldH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the world with 1:1 zoom.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{
		X:         worldW / 2,
		Y:         worldH / 2,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		MaxZoom:   4.0,
	}
	c.MinZoom = c.minZoom()
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	c.clampCenter()
	return c
}

// minZoom is the smallest zoom at which the visible area still fits in the
// world: viewportW/Z <= worldW and viewportH/Z <= worldH.
func (c *Camera) minZoom() float32 {
	return max(c.ViewportW/c.WorldW, c.ViewportH/c.WorldH)
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible reports whether any part of box is inside the visible area.
func (c *Camera) IsVisible(box geom.Aabb) bool {
	view := c.VisibleWorldBounds()
	return box.Min[0] <= view.Max[0] && box.Max[0] >= view.Min[0] &&
		box.Min[1] <= view.Max[1] && box.Max[1] >= view.Min[1]
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = c.minZoom()
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	c.clampCenter()
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
	c.clampCenter()
}

// Follow moves the camera center toward target. smoothing is the fraction
// of the remaining distance covered this call, in [0, 1].
func (c *Camera) Follow(target geom.Vec2, smoothing float32) {
	s := mgl32.Clamp(smoothing, 0, 1)
	c.X += (target[0] - c.X) * s
	c.Y += (target[1] - c.Y) * s
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = mgl32.Clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.SetZoom(1.0)
}

// VisibleWorldBounds returns the world-coordinate box of the visible area.
func (c *Camera) VisibleWorldBounds() geom.Aabb {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return geom.Aabb{
		Min: geom.V(c.X-halfW, c.Y-halfH),
		Max: geom.V(c.X+halfW, c.Y+halfH),
	}
}

// clampCenter keeps the visible area inside the world.
func (c *Camera) clampCenter() {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	c.X = clampAxis(c.X, halfW, c.WorldW)
	c.Y = clampAxis(c.Y, halfH, c.WorldH)
}

// clampAxis restricts a center coordinate so [v-half, v+half] stays in
// [0, size]. When the view is wider than the world it is centered.
func clampAxis(v, half, size float32) float32 {
	if 2*half >= size {
		return size / 2
	}
	return mgl32.Clamp(v, half, size-half)
}
