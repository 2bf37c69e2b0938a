package telemetry

import "github.com/pthm-cable/nevo/components"

// Collector accumulates events within tick windows and produces WindowStats.
// It is not safe for concurrent use; the world calls it under its lock.
type Collector struct {
	windowTicks     uint64
	windowStartTick uint64

	animalBirths int
	animalSpawns int
	animalDeaths int
	plantSpawns  int
	plantsEaten  int
	foodGained   float64
}

// NewCollector creates a collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: uint64(windowTicks)}
}

// RecordSpawn records a fresh entity created to restore a population bound.
func (c *Collector) RecordSpawn(kind components.Kind) {
	if kind == components.KindPlant {
		c.plantSpawns++
	} else {
		c.animalSpawns++
	}
}

// RecordBirth records an offspring produced by breeding.
func (c *Collector) RecordBirth() {
	c.animalBirths++
}

// RecordDeath records an animal starving.
func (c *Collector) RecordDeath() {
	c.animalDeaths++
}

// RecordFeed records a plant eaten and the score it yielded.
func (c *Collector) RecordFeed(gain float64) {
	c.plantsEaten++
	c.foodGained += gain
}

// ShouldFlush returns true if the current window is complete.
func (c *Collector) ShouldFlush(currentTick uint64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Sample is the population state handed to Flush.
type Sample struct {
	Plants        int
	Animals       int
	AnimalScores  []float64
	PlantScores   []float64
	MaxAge        int
	MaxGeneration int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick uint64, s Sample) WindowStats {
	animal := Summarize(s.AnimalScores)
	plant := Summarize(s.PlantScores)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Plants:  s.Plants,
		Animals: s.Animals,

		AnimalBirths: c.animalBirths,
		AnimalSpawns: c.animalSpawns,
		AnimalDeaths: c.animalDeaths,
		PlantSpawns:  c.plantSpawns,
		PlantsEaten:  c.plantsEaten,
		FoodGained:   c.foodGained,

		AnimalScoreMean: animal.Mean,
		AnimalScoreStd:  animal.Std,
		AnimalScoreP10:  animal.P10,
		AnimalScoreP50:  animal.P50,
		AnimalScoreP90:  animal.P90,
		AnimalScoreMax:  animal.Max,
		PlantScoreMean:  plant.Mean,

		MaxAge:        s.MaxAge,
		MaxGeneration: s.MaxGeneration,
	}

	c.windowStartTick = currentTick
	c.animalBirths = 0
	c.animalSpawns = 0
	c.animalDeaths = 0
	c.plantSpawns = 0
	c.plantsEaten = 0
	c.foodGained = 0

	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() uint64 {
	return c.windowTicks
}
