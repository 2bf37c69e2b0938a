// Package telemetry aggregates population statistics and tick timings over
// fixed windows and writes them to CSV.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick uint64 `csv:"-"`
	WindowEndTick   uint64 `csv:"window_end"`

	// Population counts at window end
	Plants  int `csv:"plants"`
	Animals int `csv:"animals"`

	// Events during window
	AnimalBirths int     `csv:"animal_births"`
	AnimalSpawns int     `csv:"animal_spawns"`
	AnimalDeaths int     `csv:"animal_deaths"`
	PlantSpawns  int     `csv:"plant_spawns"`
	PlantsEaten  int     `csv:"plants_eaten"`
	FoodGained   float64 `csv:"food_gained"`

	// Score distributions (sampled at window end)
	AnimalScoreMean float64 `csv:"animal_score_mean"`
	AnimalScoreStd  float64 `csv:"animal_score_std"`
	AnimalScoreP10  float64 `csv:"animal_score_p10"`
	AnimalScoreP50  float64 `csv:"animal_score_p50"`
	AnimalScoreP90  float64 `csv:"animal_score_p90"`
	AnimalScoreMax  float64 `csv:"animal_score_max"`
	PlantScoreMean  float64 `csv:"plant_score_mean"`

	// Lineage
	MaxAge        int `csv:"max_age"`
	MaxGeneration int `csv:"max_generation"`
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
	Max           float64
}

// Summarize computes mean, standard deviation, empirical percentiles and max.
// An empty sample yields the zero Distribution; a single value has zero spread.
func Summarize(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	d := Distribution{
		P10: stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50: stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90: stat.Quantile(0.90, stat.Empirical, sorted, nil),
		Max: floats.Max(sorted),
	}
	if n == 1 {
		d.Mean = sorted[0]
		return d
	}
	d.Mean, d.Std = stat.MeanStdDev(sorted, nil)
	return d
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"plants", s.Plants,
		"animals", s.Animals,
		"animal_births", s.AnimalBirths,
		"animal_spawns", s.AnimalSpawns,
		"animal_deaths", s.AnimalDeaths,
		"plant_spawns", s.PlantSpawns,
		"plants_eaten", s.PlantsEaten,
		"food_gained", s.FoodGained,
		"animal_score_mean", s.AnimalScoreMean,
		"animal_score_p50", s.AnimalScoreP50,
		"animal_score_max", s.AnimalScoreMax,
		"plant_score_mean", s.PlantScoreMean,
		"max_age", s.MaxAge,
		"max_generation", s.MaxGeneration,
	)
}
