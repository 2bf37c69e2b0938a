package systems

import "github.com/pthm-cable/nevo/config"

// EnergyParams holds the score bookkeeping constants.
type EnergyParams struct {
	TimeFine      float64
	MoveFine      float64
	MaxSpeed      float64
	PlantGrow     float64
	PlantMaxScore float64
}

// EnergyParamsFromConfig extracts the score constants from cfg.
func EnergyParamsFromConfig(cfg *config.Config) EnergyParams {
	return EnergyParams{
		TimeFine:      cfg.Animal.TimeFine,
		MoveFine:      cfg.Animal.MoveFine,
		MaxSpeed:      cfg.Animal.MaxSpeed,
		PlantGrow:     cfg.Plant.GrowSpeed,
		PlantMaxScore: cfg.Plant.MaxScore,
	}
}

// Metabolize returns an animal's score after one tick of upkeep:
// time_fine + move_fine*(speed/max_speed) is subtracted.
func Metabolize(score, speed float64, p EnergyParams) float64 {
	cost := p.TimeFine
	if p.MaxSpeed > 0 {
		cost += p.MoveFine * speed / p.MaxSpeed
	}
	return score - cost
}

// Grow returns a plant's score after one tick of growth, capped at the max.
func Grow(score float64, p EnergyParams) float64 {
	if score >= p.PlantMaxScore {
		return score
	}
	score += p.PlantGrow
	if score > p.PlantMaxScore {
		score = p.PlantMaxScore
	}
	return score
}
