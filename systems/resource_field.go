// Package systems contains the per-entity rules of the simulation: resource
// sensing, feeding range, score bookkeeping and movement.
package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Source is one contributor to the resource field.
type Source struct {
	Pos  r2.Vec
	Mass float64
}

// ResourceField aggregates the mass of a set of sources into a scalar potential
// and a direction. It is the only sense available to animals.
type ResourceField struct {
	HalfExtents r2.Vec
	Sources     []Source
}

// NewResourceField creates an empty field over an arena with the given half extents.
func NewResourceField(halfExtents r2.Vec) *ResourceField {
	return &ResourceField{HalfExtents: halfExtents}
}

// Reset clears the sources, keeping capacity.
func (f *ResourceField) Reset() {
	f.Sources = f.Sources[:0]
}

// Add appends a source.
func (f *ResourceField) Add(pos r2.Vec, mass float64) {
	f.Sources = append(f.Sources, Source{Pos: pos, Mass: mass})
}

// Sample returns the mean potential and the unit gradient at pos.
//
// Offsets are normalized by the smaller half extent: d = 0.5*(pos-src)/min(b).
// With l = |d| + Epsilon each source contributes m/l to the potential and
// m*d/l^3 to the gradient. The potential is averaged over the sources (0 when
// there are none). The gradient is normalized when its magnitude exceeds
// Epsilon, otherwise it is the zero vector.
func (f *ResourceField) Sample(pos r2.Vec) (potential float64, gradient r2.Vec) {
	if len(f.Sources) == 0 {
		return 0, r2.Vec{}
	}

	scale := 0.5 / math.Min(f.HalfExtents.X, f.HalfExtents.Y)
	for _, s := range f.Sources {
		d := r2.Scale(scale, r2.Sub(pos, s.Pos))
		l := r2.Norm(d) + Epsilon
		potential += s.Mass / l
		gradient = r2.Add(gradient, r2.Scale(s.Mass/(l*l*l), d))
	}
	potential /= float64(len(f.Sources))

	if r2.Norm(gradient) > Epsilon {
		gradient = r2.Unit(gradient)
	} else {
		gradient = r2.Vec{}
	}
	return potential, gradient
}
