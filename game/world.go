// Package game owns the simulated population: the ECS world, the lifecycle
// rules that create and destroy entities, the per-tick phases and the
// scheduler that drives them on a dedicated goroutine.
package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/nevo/components"
	"github.com/pthm-cable/nevo/config"
	"github.com/pthm-cable/nevo/systems"
	"github.com/pthm-cable/nevo/telemetry"
)

// GridCellSize is the cell edge of the plant lookup grid, in world units.
const GridCellSize = 32.0

// Options configures a World.
type Options struct {
	Seed int64 // 0 = use config seed, then time-based

	// Optional instrumentation. Nil disables it.
	Collector *telemetry.Collector
	Perf      *telemetry.PerfCollector
}

// Stats are running figures about the simulation.
type Stats struct {
	Tick          uint64
	TickDuration  time.Duration // wall time of the last tick body
	MaxAge        int           // oldest living animal, in ticks
	MaxGeneration int           // deepest living lineage
}

// World is the mutex-guarded population and everything needed to advance it.
// Every exported method acquires the lock; unexported helpers expect it held.
type World struct {
	mu sync.Mutex

	cfg    *config.Config
	energy systems.EnergyParams
	half   r2.Vec
	rng    *rand.Rand
	seed   int64

	world *ecs.World

	plantMapper  *ecs.Map4[components.Identity, components.Position, components.Velocity, components.Score]
	animalMapper *ecs.Map5[components.Identity, components.Position, components.Velocity, components.Score, components.Brain]
	entityFilter *ecs.Filter4[components.Identity, components.Position, components.Velocity, components.Score]
	animalFilter *ecs.Filter5[components.Identity, components.Position, components.Velocity, components.Score, components.Brain]

	posMap   *ecs.Map1[components.Position]
	scoreMap *ecs.Map1[components.Score]
	brainMap *ecs.Map1[components.Brain]

	index       map[components.EntityID]ecs.Entity
	ids         IDGen
	plantCount  int
	animalCount int

	field *systems.ResourceField
	grid  *systems.SpatialGrid
	near  []int // scratch for grid queries
	stats Stats

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
}

// New creates a world and spawns the initial population: animal.min_count
// animals followed by plant.max_count plants.
func New(cfg *config.Config, opts Options) *World {
	w := newWorld(cfg, opts)

	w.mu.Lock()
	defer w.mu.Unlock()
	for i := 0; i < cfg.Animal.MinCount; i++ {
		w.spawnAnimal()
	}
	for i := 0; i < cfg.Plant.MaxCount; i++ {
		w.spawnPlant()
	}
	return w
}

// newWorld creates an empty world.
func newWorld(cfg *config.Config, opts Options) *World {
	seed := opts.Seed
	if seed == 0 {
		seed = cfg.World.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	world := ecs.NewWorld()
	half := r2.Vec{X: cfg.Derived.HalfWidth, Y: cfg.Derived.HalfHeight}

	return &World{
		cfg:    cfg,
		energy: systems.EnergyParamsFromConfig(cfg),
		half:   half,
		rng:    rand.New(rand.NewSource(seed)),
		seed:   seed,
		world:  world,
		plantMapper: ecs.NewMap4[
			components.Identity,
			components.Position,
			components.Velocity,
			components.Score,
		](world),
		animalMapper: ecs.NewMap5[
			components.Identity,
			components.Position,
			components.Velocity,
			components.Score,
			components.Brain,
		](world),
		entityFilter: ecs.NewFilter4[
			components.Identity,
			components.Position,
			components.Velocity,
			components.Score,
		](world),
		animalFilter: ecs.NewFilter5[
			components.Identity,
			components.Position,
			components.Velocity,
			components.Score,
			components.Brain,
		](world),
		posMap:    ecs.NewMap1[components.Position](world),
		scoreMap:  ecs.NewMap1[components.Score](world),
		brainMap:  ecs.NewMap1[components.Brain](world),
		index:     make(map[components.EntityID]ecs.Entity),
		field:     systems.NewResourceField(half),
		grid:      systems.NewSpatialGrid(half, GridCellSize),
		collector: opts.Collector,
		perf:      opts.Perf,
	}
}

// Seed returns the seed of the world's random source.
func (w *World) Seed() int64 {
	return w.seed
}

// Counts returns the maintained plant and animal counters.
func (w *World) Counts() (plants, animals int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.plantCount, w.animalCount
}

// Stats returns the running statistics.
func (w *World) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// CheckCounters scans the population and reports the actual number of living
// plants and animals alongside the maintained counters.
func (w *World) CheckCounters() (plants, animals, wantPlants, wantAnimals int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	query := w.entityFilter.Query()
	for query.Next() {
		id, _, _, score := query.Get()
		if !score.Alive {
			continue
		}
		if id.Kind == components.KindPlant {
			plants++
		} else {
			animals++
		}
	}
	return plants, animals, w.plantCount, w.animalCount
}

// FlushTelemetry closes the current telemetry window if it is complete.
// It returns false when no collector is attached or the window is still open.
func (w *World) FlushTelemetry() (telemetry.WindowStats, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.collector == nil || !w.collector.ShouldFlush(w.stats.Tick) {
		return telemetry.WindowStats{}, false
	}

	sample := telemetry.Sample{
		Plants:        w.plantCount,
		Animals:       w.animalCount,
		MaxAge:        w.stats.MaxAge,
		MaxGeneration: w.stats.MaxGeneration,
	}
	query := w.entityFilter.Query()
	for query.Next() {
		id, _, _, score := query.Get()
		if !score.Alive {
			continue
		}
		if id.Kind == components.KindPlant {
			sample.PlantScores = append(sample.PlantScores, score.Value)
		} else {
			sample.AnimalScores = append(sample.AnimalScores, score.Value)
		}
	}
	return w.collector.Flush(w.stats.Tick, sample), true
}

// PerfStats returns the tick timing summary, or false when timing is disabled.
func (w *World) PerfStats() (telemetry.PerfStats, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.perf == nil {
		return telemetry.PerfStats{}, false
	}
	return w.perf.Stats(), true
}
