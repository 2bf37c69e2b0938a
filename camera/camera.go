// Package camera maps arena coordinates to screen pixels.
package camera

import "gonum.org/v1/gonum/spatial/r2"

// Camera fits an arena centered at the origin into a viewport, preserving
// aspect ratio and leaving a margin around it. World +Y points up on screen.
type Camera struct {
	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Arena half extents in world units
	HalfW, HalfH float64

	// Margin in pixels kept free around the arena
	Margin float32

	// Pixels per world unit, recomputed on Resize
	Scale float32
}

// New creates a camera that fits the arena into the viewport.
func New(viewportW, viewportH float32, halfW, halfH float64) *Camera {
	c := &Camera{HalfW: halfW, HalfH: halfH, Margin: 10}
	c.Resize(viewportW, viewportH)
	return c
}

// Resize updates viewport dimensions and recomputes the scale.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH

	availW := viewportW - 2*c.Margin
	availH := viewportH - 2*c.Margin
	if availW <= 0 || availH <= 0 || c.HalfW <= 0 || c.HalfH <= 0 {
		c.Scale = 0
		return
	}
	c.Scale = min(availW/float32(2*c.HalfW), availH/float32(2*c.HalfH))
}

// WorldToScreen converts a world position to screen coordinates.
func (c *Camera) WorldToScreen(p r2.Vec) (sx, sy float32) {
	sx = c.ViewportW/2 + float32(p.X)*c.Scale
	sy = c.ViewportH/2 - float32(p.Y)*c.Scale
	return sx, sy
}

// ScreenToWorld converts screen coordinates to a world position.
func (c *Camera) ScreenToWorld(sx, sy float32) r2.Vec {
	if c.Scale == 0 {
		return r2.Vec{}
	}
	return r2.Vec{
		X: float64((sx - c.ViewportW/2) / c.Scale),
		Y: float64((c.ViewportH/2 - sy) / c.Scale),
	}
}

// Radius converts a world length to pixels.
func (c *Camera) Radius(size float64) float32 {
	return float32(size) * c.Scale
}

// ArenaRect returns the screen rectangle covered by the arena.
func (c *Camera) ArenaRect() (x, y, w, h float32) {
	w = float32(2*c.HalfW) * c.Scale
	h = float32(2*c.HalfH) * c.Scale
	return (c.ViewportW - w) / 2, (c.ViewportH - h) / 2, w, h
}
