package systems

import (
	"math/rand"
	"sort"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestSpatialGridMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	half := r2.Vec{X: 320, Y: 200}
	g := NewSpatialGrid(half, 32)

	points := make([]r2.Vec, 400)
	for i := range points {
		points[i] = r2.Vec{
			X: (rng.Float64()*2 - 1) * half.X,
			Y: (rng.Float64()*2 - 1) * half.Y,
		}
		g.Insert(i, points[i])
	}

	var got []int
	for q := 0; q < 50; q++ {
		center := r2.Vec{X: (rng.Float64()*2 - 1) * half.X, Y: (rng.Float64()*2 - 1) * half.Y}
		radius := rng.Float64() * 80

		got = g.QueryRadiusInto(got[:0], center, radius)
		sort.Ints(got)

		var want []int
		for i, p := range points {
			if r2.Norm(r2.Sub(p, center)) <= radius {
				want = append(want, i)
			}
		}

		if len(got) != len(want) {
			t.Fatalf("query %d: got %d points, want %d", q, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("query %d: got %v, want %v", q, got, want)
			}
		}
	}
}

func TestSpatialGridBoundaryPoints(t *testing.T) {
	half := r2.Vec{X: 100, Y: 100}
	g := NewSpatialGrid(half, 25)

	corners := []r2.Vec{{X: -100, Y: -100}, {X: 100, Y: 100}, {X: 100, Y: -100}, {X: -100, Y: 100}}
	for i, c := range corners {
		g.Insert(i, c)
	}

	for i, c := range corners {
		got := g.QueryRadiusInto(nil, c, 0)
		if len(got) != 1 || got[0] != i {
			t.Errorf("corner %v: got %v, want [%d]", c, got, i)
		}
	}
}

func TestSpatialGridClear(t *testing.T) {
	g := NewSpatialGrid(r2.Vec{X: 50, Y: 50}, 10)
	g.Insert(0, r2.Vec{})
	g.Clear()

	if got := g.QueryRadiusInto(nil, r2.Vec{}, 100); len(got) != 0 {
		t.Errorf("after Clear got %v, want none", got)
	}
}
