package telemetry

import (
	"testing"

	"github.com/pthm-cable/nevo/components"
)

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(10)

	c.RecordSpawn(components.KindPlant)
	c.RecordSpawn(components.KindPlant)
	c.RecordSpawn(components.KindAnimal)
	c.RecordBirth()
	c.RecordDeath()
	c.RecordFeed(4)
	c.RecordFeed(6)

	if c.ShouldFlush(9) {
		t.Error("ShouldFlush(9) = true before window end")
	}
	if !c.ShouldFlush(10) {
		t.Fatal("ShouldFlush(10) = false at window end")
	}

	s := c.Flush(10, Sample{
		Plants:        2,
		Animals:       3,
		AnimalScores:  []float64{100, 200, 300},
		PlantScores:   []float64{10, 30},
		MaxAge:        42,
		MaxGeneration: 2,
	})

	if s.WindowStartTick != 0 || s.WindowEndTick != 10 {
		t.Errorf("window = [%d, %d], want [0, 10]", s.WindowStartTick, s.WindowEndTick)
	}
	if s.PlantSpawns != 2 || s.AnimalSpawns != 1 {
		t.Errorf("spawns = %d plants %d animals, want 2 and 1", s.PlantSpawns, s.AnimalSpawns)
	}
	if s.AnimalBirths != 1 || s.AnimalDeaths != 1 {
		t.Errorf("births/deaths = %d/%d, want 1/1", s.AnimalBirths, s.AnimalDeaths)
	}
	if s.PlantsEaten != 2 || s.FoodGained != 10 {
		t.Errorf("eaten = %d gained %v, want 2 and 10", s.PlantsEaten, s.FoodGained)
	}
	if s.AnimalScoreMean != 200 || s.AnimalScoreMax != 300 {
		t.Errorf("animal score mean/max = %v/%v, want 200/300", s.AnimalScoreMean, s.AnimalScoreMax)
	}
	if s.PlantScoreMean != 20 {
		t.Errorf("plant score mean = %v, want 20", s.PlantScoreMean)
	}
	if s.MaxAge != 42 || s.MaxGeneration != 2 {
		t.Errorf("lineage = age %d gen %d, want 42 and 2", s.MaxAge, s.MaxGeneration)
	}

	// Counters reset and the window advances
	if c.ShouldFlush(19) {
		t.Error("ShouldFlush(19) = true right after flush at 10")
	}
	next := c.Flush(20, Sample{})
	if next.WindowStartTick != 10 {
		t.Errorf("next window start = %d, want 10", next.WindowStartTick)
	}
	if next.PlantSpawns != 0 || next.PlantsEaten != 0 || next.FoodGained != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestNewCollectorClampsWindow(t *testing.T) {
	c := NewCollector(0)
	if c.WindowTicks() != 1 {
		t.Errorf("WindowTicks() = %d, want 1", c.WindowTicks())
	}
}
