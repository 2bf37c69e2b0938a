package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// SpatialGrid buckets points of an arena centered at the origin into square
// cells so radius queries only visit nearby cells. Points are referred to by
// the caller's index.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	half     r2.Vec
	cells    [][]int  // flat grid of point indices
	points   []r2.Vec // position by index
}

// NewSpatialGrid creates a grid covering an arena with the given half extents.
func NewSpatialGrid(halfExtents r2.Vec, cellSize float64) *SpatialGrid {
	cols := int(2*halfExtents.X/cellSize) + 1
	rows := int(2*halfExtents.Y/cellSize) + 1

	cells := make([][]int, cols*rows)
	for i := range cells {
		cells[i] = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		half:     halfExtents,
		cells:    cells,
	}
}

// Clear removes all points from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	g.points = g.points[:0]
}

// Insert adds point idx at p. idx usually indexes a slice owned by the caller.
func (g *SpatialGrid) Insert(idx int, p r2.Vec) {
	for len(g.points) <= idx {
		g.points = append(g.points, r2.Vec{})
	}
	g.points[idx] = p
	col, row := g.cell(p)
	g.cells[row*g.cols+col] = append(g.cells[row*g.cols+col], idx)
}

// QueryRadiusInto appends the indices of points within radius of p to dst.
// Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryRadiusInto(dst []int, p r2.Vec, radius float64) []int {
	minCol, minRow := g.cell(r2.Vec{X: p.X - radius, Y: p.Y - radius})
	maxCol, maxRow := g.cell(r2.Vec{X: p.X + radius, Y: p.Y + radius})
	radiusSq := radius * radius

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, idx := range g.cells[row*g.cols+col] {
				d := r2.Sub(g.points[idx], p)
				if r2.Dot(d, d) <= radiusSq {
					dst = append(dst, idx)
				}
			}
		}
	}
	return dst
}

// cell returns the column and row holding p, clamped to the grid.
func (g *SpatialGrid) cell(p r2.Vec) (col, row int) {
	col = clampInt(int(math.Floor((p.X+g.half.X)/g.cellSize)), 0, g.cols-1)
	row = clampInt(int(math.Floor((p.Y+g.half.Y)/g.cellSize)), 0, g.rows-1)
	return col, row
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
