package systems

// Epsilon is the floor used for near-zero distances and vector magnitudes.
const Epsilon = 1e-4

// clampFloat clamps v between minVal and maxVal.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
