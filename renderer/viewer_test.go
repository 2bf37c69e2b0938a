package renderer

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/nevo/components"
	"github.com/pthm-cable/nevo/game"
)

func snapshotOf(entities map[components.EntityID]r2.Vec) game.Snapshot {
	s := game.Snapshot{Entities: make(map[components.EntityID]game.EntityView)}
	for id, p := range entities {
		s.Entities[id] = game.EntityView{Kind: components.KindAnimal, Position: p, Size: 1}
	}
	return s
}

func newTestViewer() *Viewer {
	return &Viewer{drawn: make(map[components.EntityID]r2.Vec)}
}

func TestApplyTracksAndDropsEntities(t *testing.T) {
	v := newTestViewer()
	v.Apply(snapshotOf(map[components.EntityID]r2.Vec{1: {X: 1}, 2: {X: 2}}))
	v.Apply(snapshotOf(map[components.EntityID]r2.Vec{2: {X: 5}, 3: {X: 3}}))

	if _, ok := v.Drawn(1); ok {
		t.Error("removed entity 1 still tracked")
	}
	if p, ok := v.Drawn(3); !ok || p != (r2.Vec{X: 3}) {
		t.Errorf("new entity 3 drawn at %v (tracked %v), want its true position", p, ok)
	}
	// Existing entities keep their drawn position until eased
	if p, _ := v.Drawn(2); p != (r2.Vec{X: 2}) {
		t.Errorf("entity 2 drawn at %v, want previous position", p)
	}
}

func TestEaseConverges(t *testing.T) {
	v := newTestViewer()
	v.Apply(snapshotOf(map[components.EntityID]r2.Vec{1: {}}))
	v.Apply(snapshotOf(map[components.EntityID]r2.Vec{1: {X: 10, Y: -10}}))

	v.Ease(0.5)
	if p, _ := v.Drawn(1); p != (r2.Vec{X: 5, Y: -5}) {
		t.Errorf("after one step drawn at %v, want (5, -5)", p)
	}
	for i := 0; i < 60; i++ {
		v.Ease(Easing)
	}
	if p, _ := v.Drawn(1); math.Abs(p.X-10) > 1e-6 || math.Abs(p.Y+10) > 1e-6 {
		t.Errorf("drawn position %v did not converge to (10, -10)", p)
	}
}

func TestKindColorsDiffer(t *testing.T) {
	if KindColor(components.KindPlant) == KindColor(components.KindAnimal) {
		t.Error("plants and animals share a color")
	}
}
