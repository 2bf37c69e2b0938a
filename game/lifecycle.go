package game

import (
	"fmt"
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/nevo/components"
	"github.com/pthm-cable/nevo/neural"
	"github.com/pthm-cable/nevo/systems"
)

// spawnPlant creates a plant with score 0 at a uniform position over the full
// arena. A zero-size plant may sit on the boundary.
func (w *World) spawnPlant() ecs.Entity {
	pos := w.uniformPosition(0)
	e := w.addPlant(pos, 0)
	if w.collector != nil {
		w.collector.RecordSpawn(components.KindPlant)
	}
	return e
}

// spawnAnimal creates an animal with a fresh controller and init_score, placed
// uniformly inside the arena shrunk by its size.
func (w *World) spawnAnimal() ecs.Entity {
	mind, err := neural.NewRNN(w.rng, neural.NumInputs, neural.NumOutputs, w.cfg.Neural.HiddenSize)
	if err != nil {
		panic(fmt.Sprintf("game: creating controller: %v", err))
	}

	score := w.cfg.Animal.InitScore
	pos := w.uniformPosition(components.Size(score))
	e := w.addAnimal(pos, score, components.Brain{Mind: mind})
	if w.collector != nil {
		w.collector.RecordSpawn(components.KindAnimal)
	}
	return e
}

// uniformPosition draws a point uniformly from the arena shrunk by margin on
// every side. Axes narrower than the margin collapse to 0.
func (w *World) uniformPosition(margin float64) r2.Vec {
	axis := func(half float64) float64 {
		limit := half - margin
		if limit <= 0 {
			return 0
		}
		return (w.rng.Float64()*2 - 1) * limit
	}
	return r2.Vec{X: axis(w.half.X), Y: axis(w.half.Y)}
}

func (w *World) addPlant(pos r2.Vec, score float64) ecs.Entity {
	id := components.Identity{ID: w.ids.Next(), Kind: components.KindPlant}
	p := components.Position{X: pos.X, Y: pos.Y}
	v := components.Velocity{}
	s := components.Score{Value: score, Alive: true}

	e := w.plantMapper.NewEntity(&id, &p, &v, &s)
	w.index[id.ID] = e
	w.plantCount++
	return e
}

func (w *World) addAnimal(pos r2.Vec, score float64, brain components.Brain) ecs.Entity {
	id := components.Identity{ID: w.ids.Next(), Kind: components.KindAnimal}
	p := components.Position{X: pos.X, Y: pos.Y}
	v := components.Velocity{}
	s := components.Score{Value: score, Alive: true}

	e := w.animalMapper.NewEntity(&id, &p, &v, &s, &brain)
	w.index[id.ID] = e
	w.animalCount++
	return e
}

// plantRef is a living plant gathered before a feeding pass.
type plantRef struct {
	pos   r2.Vec
	score *components.Score
}

// indexPlants collects every living plant and buckets them in the grid.
// It returns the plants and the largest plant size. The score pointers stay
// valid until the next structural change.
func (w *World) indexPlants() ([]plantRef, float64) {
	var entities []ecs.Entity
	query := w.entityFilter.Query()
	for query.Next() {
		id, _, _, score := query.Get()
		if id.Kind == components.KindPlant && score.Alive {
			entities = append(entities, query.Entity())
		}
	}

	w.grid.Clear()
	maxSize := 0.0
	plants := make([]plantRef, len(entities))
	for i, e := range entities {
		plants[i] = plantRef{pos: w.posMap.Get(e).Vec(), score: w.scoreMap.Get(e)}
		w.grid.Insert(i, plants[i].pos)
		maxSize = max(maxSize, plants[i].score.Size())
	}
	return plants, maxSize
}

// feed lets one animal eat every living plant within capture distance.
// Eating grows the animal, so the neighborhood is searched again until a
// pass eats nothing.
func (w *World) feed(animal ecs.Entity, plants []plantRef, maxPlantSize float64) {
	pos := w.posMap.Get(animal).Vec()
	score := w.scoreMap.Get(animal)

	for {
		radius := systems.CaptureFactor * (score.Size() + maxPlantSize)
		w.near = w.grid.QueryRadiusInto(w.near[:0], pos, radius)

		ate := false
		for _, i := range w.near {
			p := plants[i]
			if !p.score.Alive {
				continue
			}
			if !systems.InCaptureRange(pos, score.Size(), p.pos, p.score.Size()) {
				continue
			}
			gain := systems.FeedGain(p.score.Value, w.cfg.Animal.FeedFactor)
			w.markDead(p.score, components.KindPlant)
			score.Value += gain
			ate = true
			if w.collector != nil {
				w.collector.RecordFeed(gain)
			}
		}
		if !ate {
			return
		}
	}
}

// markDead flags an entity for removal and updates its counter.
// This is the only place a counter is decremented.
func (w *World) markDead(score *components.Score, kind components.Kind) {
	if !score.Alive {
		return
	}
	score.Alive = false
	if kind == components.KindPlant {
		w.plantCount--
	} else {
		w.animalCount--
		if w.collector != nil {
			w.collector.RecordDeath()
		}
	}
}

// breed splits parent in two. Both halves keep half the score; the child gets
// a mutated copy of the parent's controller. The pair is pushed apart by half
// the pre-split size along a random direction.
func (w *World) breed(parent ecs.Entity) ecs.Entity {
	score := w.scoreMap.Get(parent)
	pos := w.posMap.Get(parent)
	brain := w.brainMap.Get(parent)

	offset := 0.5 * score.Size()
	angle := w.rng.Float64() * 2 * math.Pi
	dir := r2.Vec{X: math.Cos(angle), Y: math.Sin(angle)}

	score.Value /= 2
	childScore := score.Value

	// Keep both halves inside the arena at their new size.
	size := components.Size(childScore)
	center := pos.Vec()
	pos.Set(systems.ClampToArena(r2.Add(center, r2.Scale(offset, dir)), w.half, size))
	childPos := systems.ClampToArena(r2.Sub(center, r2.Scale(offset, dir)), w.half, size)

	mind, err := neural.NewRNNFrom(brain.Mind)
	if err != nil {
		panic(fmt.Sprintf("game: cloning controller: %v", err))
	}
	mind.Mutate(w.rng, w.cfg.Animal.Variation)
	generation := brain.Generation + 1

	// parent pointers are invalid past this point
	child := w.addAnimal(childPos, childScore, components.Brain{Mind: mind, Generation: generation})
	if w.collector != nil {
		w.collector.RecordBirth()
	}
	return child
}

// cleanup removes every entity that was marked dead. Counters were already
// adjusted when the entity was marked.
func (w *World) cleanup() {
	type dead struct {
		entity ecs.Entity
		id     components.EntityID
	}
	var toRemove []dead

	query := w.entityFilter.Query()
	for query.Next() {
		id, _, _, score := query.Get()
		if !score.Alive {
			toRemove = append(toRemove, dead{entity: query.Entity(), id: id.ID})
		}
	}

	for _, d := range toRemove {
		w.world.RemoveEntity(d.entity)
		delete(w.index, d.id)
	}
}
