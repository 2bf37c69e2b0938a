package components

import "math"

// Score is the combined mass and energy reserve of an entity.
// Alive is cleared when the entity is due for removal; removal itself
// happens in the next cleanup pass.
type Score struct {
	Value float64
	Alive bool
}

// Mass returns the mass for a score. Mass and score are the same quantity.
func Mass(score float64) float64 {
	return score
}

// Size returns the radius for a score: 0.5*sqrt(score), or 0 when score <= 0.
func Size(score float64) float64 {
	if !(score > 0) {
		return 0
	}
	return 0.5 * math.Sqrt(score)
}

// Mass returns the mass of the entity.
func (s Score) Mass() float64 { return Mass(s.Value) }

// Size returns the radius of the entity.
func (s Score) Size() float64 { return Size(s.Value) }
