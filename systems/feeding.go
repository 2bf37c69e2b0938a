package systems

import "gonum.org/v1/gonum/spatial/r2"

// CaptureFactor scales the summed radii into the capture distance.
const CaptureFactor = 0.8

// InCaptureRange reports whether a plant lies strictly within capture distance
// 0.8*(plantSize+animalSize) of an animal.
func InCaptureRange(animalPos r2.Vec, animalSize float64, plantPos r2.Vec, plantSize float64) bool {
	return r2.Norm(r2.Sub(plantPos, animalPos)) < CaptureFactor*(plantSize+animalSize)
}

// FeedGain returns the score an animal gains from eating a plant.
func FeedGain(plantScore, feedFactor float64) float64 {
	return plantScore * feedFactor
}
