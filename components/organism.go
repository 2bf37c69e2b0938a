package components

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/nevo/neural"
)

// Brain is carried by animals only. It holds the controller, the last sensed
// resource signal and the last raw controller outputs.
type Brain struct {
	Mind *neural.RNN

	Potential float64 // normalized mean potential
	Gradient  r2.Vec  // unit field gradient, or zero

	RawSpeed     float64
	RawDirection r2.Vec

	Age        int // ticks survived
	Generation int // 0 for spawned animals, parent+1 for offspring
}

// Sense stores the resource signal and loads it into the controller input.
func (b *Brain) Sense(potential float64, gradient r2.Vec) {
	b.Potential = potential
	b.Gradient = gradient
	b.Mind.SetInput(potential, gradient.X, gradient.Y)
}

// Step runs the controller once and captures its outputs.
func (b *Brain) Step() {
	b.Mind.Evaluate()
	out := b.Mind.Output()
	b.RawSpeed = out[0]
	b.RawDirection = r2.Vec{X: out[1], Y: out[2]}
}
