// Package spatial provides a uniform grid hash over particle centres,
// turning O(N^2) pair enumeration into bounded per-cell neighbourhood
// walks. Adapted from the teacher's cell-bucket SpatialGrid, generalised
// from ark entity handles to plain integer particle indices (this
// simulator's population is a struct-of-arrays snapshot rebuilt once per
// tick, not a long-lived entity handle cache) and with the toroidal wrap
// removed: domain boundaries are informational only (spec §1 Non-goals).
package spatial

import "github.com/pthm-cable/colonysim/vec2"

// Grid buckets particle indices by cell of side Size, where Size is the
// neighbour cutoff radius (spec §4.1 default: 4 length units).
type Grid struct {
	size float32
	cols int
	rows int
	minX float32
	minY float32

	cells [][]int32
}

// bounds used when no explicit extent is known ahead of rebuild; chosen
// generously since rebuild recomputes extent from the population itself.
const boundsPad = 4.0

// NewGrid creates an empty grid with bucket side length size. Rebuild
// must be called at least once before querying.
func NewGrid(size float32) *Grid {
	if size <= 0 {
		size = 1
	}
	return &Grid{size: size}
}

// Rebuild clears and refills every bucket from the given particle centres.
// O(N). Must be called once per tick after population membership changes,
// before any query.
func (g *Grid) Rebuild(positions []vec2.Vec2) {
	if len(positions) == 0 {
		g.cols, g.rows = 1, 1
		g.minX, g.minY = 0, 0
		if len(g.cells) != 1 {
			g.cells = make([][]int32, 1)
		} else {
			g.cells[0] = g.cells[0][:0]
		}
		return
	}

	minX, minY := positions[0].X, positions[0].Y
	maxX, maxY := minX, minY
	for _, p := range positions[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	g.minX = minX - boundsPad
	g.minY = minY - boundsPad
	width := (maxX - minX) + 2*boundsPad
	height := (maxY - minY) + 2*boundsPad

	g.cols = int(width/g.size) + 1
	g.rows = int(height/g.size) + 1
	if g.cols < 1 {
		g.cols = 1
	}
	if g.rows < 1 {
		g.rows = 1
	}

	n := g.cols * g.rows
	if cap(g.cells) < n {
		g.cells = make([][]int32, n)
	} else {
		g.cells = g.cells[:n]
	}
	for i := range g.cells {
		if g.cells[i] == nil {
			g.cells[i] = make([]int32, 0, 4)
		} else {
			g.cells[i] = g.cells[i][:0]
		}
	}

	for i, p := range positions {
		col, row := g.cellCoord(p.X, p.Y)
		idx := row*g.cols + col
		g.cells[idx] = append(g.cells[idx], int32(i))
	}
}

func (g *Grid) cellCoord(x, y float32) (col, row int) {
	col = int((x - g.minX) / g.size)
	row = int((y - g.minY) / g.size)
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}

// ForEachNeighborIndex enumerates all particle indices in the 3x3 tile
// block surrounding particle i's position. Self-inclusion is possible;
// callers must filter j == i themselves (spec §4.1).
func (g *Grid) ForEachNeighborIndex(p vec2.Vec2, action func(j int32)) {
	g.ForEachIndexNear(p.X, p.Y, g.size, action)
}

// ForEachIndexNear enumerates all particle indices in the tile block whose
// circumscribed disk intersects the disk of radius r centred at (x,y). The
// tile half-width is ceil(r/size).
func (g *Grid) ForEachIndexNear(x, y, r float32, action func(j int32)) {
	if len(g.cells) == 0 {
		return
	}
	cellRadius := int(r / g.size)
	if float32(cellRadius)*g.size < r {
		cellRadius++
	}
	centerCol, centerRow := g.cellCoord(x, y)

	for dc := -cellRadius; dc <= cellRadius; dc++ {
		col := centerCol + dc
		if col < 0 || col >= g.cols {
			continue
		}
		for dr := -cellRadius; dr <= cellRadius; dr++ {
			row := centerRow + dr
			if row < 0 || row >= g.rows {
				continue
			}
			idx := row*g.cols + col
			for _, j := range g.cells[idx] {
				action(j)
			}
		}
	}
}
