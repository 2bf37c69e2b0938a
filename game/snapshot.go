package game

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/nevo/components"
)

// EntityView is the read-only part of an entity a consumer may draw.
type EntityView struct {
	Kind     components.Kind
	Position r2.Vec
	Size     float64
}

// Snapshot is an immutable copy of the population taken between ticks.
type Snapshot struct {
	Stats       Stats
	PlantCount  int
	AnimalCount int
	Entities    map[components.EntityID]EntityView
}

// Synchronize copies the living population. The lock is held only for the copy.
func (w *World) Synchronize() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := Snapshot{
		Stats:       w.stats,
		PlantCount:  w.plantCount,
		AnimalCount: w.animalCount,
		Entities:    make(map[components.EntityID]EntityView, len(w.index)),
	}

	query := w.entityFilter.Query()
	for query.Next() {
		id, pos, _, score := query.Get()
		if !score.Alive {
			continue
		}
		snap.Entities[id.ID] = EntityView{
			Kind:     id.Kind,
			Position: pos.Vec(),
			Size:     score.Size(),
		}
	}
	return snap
}

// Removed returns the IDs present in prev that are absent from s, in ascending order.
func (s Snapshot) Removed(prev Snapshot) []components.EntityID {
	var gone []components.EntityID
	for id := range prev.Entities {
		if _, ok := s.Entities[id]; !ok {
			gone = append(gone, id)
		}
	}
	slices.Sort(gone)
	return gone
}
