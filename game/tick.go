package game

import (
	"time"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/nevo/components"
	"github.com/pthm-cable/nevo/systems"
	"github.com/pthm-cable/nevo/telemetry"
)

// Tick advances the world by one step under the lock:
// consume, produce, score update, sense, decide, actuate, integrate.
func (w *World) Tick() {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := time.Now()
	if w.perf != nil {
		w.perf.StartTick()
	}

	w.phase(telemetry.PhaseConsume)
	w.consume()
	w.phase(telemetry.PhaseCleanup)
	w.cleanup()
	w.phase(telemetry.PhaseProduce)
	w.produce()
	w.phase(telemetry.PhaseScore)
	w.updateScores()
	w.phase(telemetry.PhaseSense)
	w.sense()
	w.phase(telemetry.PhaseDecide)
	w.decide()
	w.phase(telemetry.PhaseActuate)
	w.actuate()
	w.phase(telemetry.PhaseIntegrate)
	w.integrate()

	if w.perf != nil {
		w.perf.EndTick()
	}
	w.stats.Tick++
	w.stats.TickDuration = time.Since(start)
}

// TickCount returns the number of completed ticks.
func (w *World) TickCount() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats.Tick
}

func (w *World) phase(name string) {
	if w.perf != nil {
		w.perf.StartPhase(name)
	}
}

// animals collects every animal entity so phases can mutate the population
// without a query open.
func (w *World) animals() []ecs.Entity {
	var out []ecs.Entity
	query := w.animalFilter.Query()
	for query.Next() {
		out = append(out, query.Entity())
	}
	return out
}

// consume feeds every living animal, then marks starved animals dead.
// Removal happens in cleanup.
func (w *World) consume() {
	plants, maxPlantSize := w.indexPlants()
	animals := w.animals()

	for _, a := range animals {
		if w.scoreMap.Get(a).Alive {
			w.feed(a, plants, maxPlantSize)
		}
	}
	for _, a := range animals {
		if score := w.scoreMap.Get(a); score.Value < 0 {
			w.markDead(score, components.KindAnimal)
		}
	}
}

// produce restores the population bounds and splits animals over the
// breeding threshold. Offspring created here do not breed until the next tick.
func (w *World) produce() {
	for w.plantCount < w.cfg.Plant.MaxCount {
		w.spawnPlant()
	}
	for w.animalCount < w.cfg.Animal.MinCount {
		w.spawnAnimal()
	}

	var parents []ecs.Entity
	query := w.animalFilter.Query()
	for query.Next() {
		_, _, _, score, _ := query.Get()
		if score.Alive && score.Value > w.cfg.Animal.BreedThreshold {
			parents = append(parents, query.Entity())
		}
	}
	for _, p := range parents {
		w.breed(p)
	}
}

// updateScores charges animals their upkeep and grows plants. It also
// refreshes the age and lineage statistics.
func (w *World) updateScores() {
	maxAge, maxGen := 0, 0

	query := w.entityFilter.Query()
	for query.Next() {
		id, _, vel, score := query.Get()
		if id.Kind == components.KindPlant {
			score.Value = systems.Grow(score.Value, w.energy)
			continue
		}
		score.Value = systems.Metabolize(score.Value, r2.Norm(vel.Vec()), w.energy)
	}

	brains := w.animalFilter.Query()
	for brains.Next() {
		_, _, _, _, brain := brains.Get()
		brain.Age++
		maxAge = max(maxAge, brain.Age)
		maxGen = max(maxGen, brain.Generation)
	}
	w.stats.MaxAge = maxAge
	w.stats.MaxGeneration = maxGen
}

// sense samples the resource field of living plants at every animal.
// Potential is normalized by plant.max_score.
func (w *World) sense() {
	w.field.Reset()
	query := w.entityFilter.Query()
	for query.Next() {
		id, pos, _, score := query.Get()
		if id.Kind == components.KindPlant && score.Alive {
			w.field.Add(pos.Vec(), score.Mass())
		}
	}

	norm := w.cfg.Plant.MaxScore
	animals := w.animalFilter.Query()
	for animals.Next() {
		_, pos, _, _, brain := animals.Get()
		potential, gradient := w.field.Sample(pos.Vec())
		if norm > 0 {
			potential /= norm
		}
		brain.Sense(potential, gradient)
	}
}

// decide runs each animal's controller once.
func (w *World) decide() {
	query := w.animalFilter.Query()
	for query.Next() {
		_, _, _, _, brain := query.Get()
		brain.Step()
	}
}

// actuate turns each animal's controller output into a velocity.
// Plants have no brain and keep zero velocity.
func (w *World) actuate() {
	query := w.animalFilter.Query()
	for query.Next() {
		_, _, vel, _, brain := query.Get()
		vel.Set(systems.ActuateVelocity(brain.RawSpeed, brain.RawDirection, w.cfg.Animal.MaxSpeed))
	}
}

// integrate moves every entity by its velocity and clamps it inside the arena.
func (w *World) integrate() {
	dt := w.cfg.World.DT
	query := w.entityFilter.Query()
	for query.Next() {
		_, pos, vel, score := query.Get()
		next := systems.Integrate(pos.Vec(), vel.Vec(), dt)
		pos.Set(systems.ClampToArena(next, w.half, score.Size()))
	}
}
