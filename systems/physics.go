package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ActuateVelocity converts raw controller outputs into a velocity.
// Speed is maxSpeed*|tanh(rawSpeed)|; the direction is rawDir normalized, or
// zero velocity when |rawDir| <= Epsilon.
func ActuateVelocity(rawSpeed float64, rawDir r2.Vec, maxSpeed float64) r2.Vec {
	l := r2.Norm(rawDir)
	if !(l > Epsilon) {
		return r2.Vec{}
	}
	speed := maxSpeed * math.Abs(math.Tanh(rawSpeed))
	return r2.Scale(speed/l, rawDir)
}

// Integrate advances a position by velocity over dt.
func Integrate(pos, vel r2.Vec, dt float64) r2.Vec {
	return r2.Add(pos, r2.Scale(dt, vel))
}

// ClampToArena keeps an entity of the given size fully inside an arena with
// the given half extents: each axis is clamped to [-b+size, b-size]. If the
// entity is wider than the arena on an axis, that coordinate collapses to 0.
func ClampToArena(pos, halfExtents r2.Vec, size float64) r2.Vec {
	return r2.Vec{
		X: clampAxis(pos.X, halfExtents.X-size),
		Y: clampAxis(pos.Y, halfExtents.Y-size),
	}
}

func clampAxis(v, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	return clampFloat(v, -limit, limit)
}

// InArena reports whether pos satisfies the ClampToArena bounds.
func InArena(pos, halfExtents r2.Vec, size float64) bool {
	return ClampToArena(pos, halfExtents, size) == pos
}
