// Package nutrient implements the diffusing nutrient field: a regular
// grid with explicit finite-difference diffusion, Monod-limited
// consumption proportional to local cell area, no-flux (Neumann)
// boundaries, and ping-pong buffering (spec §4.6). Grounded on the
// teacher's ResourceField (systems/resource_field.go): the flat
// []float32 grid, bilinear-free nearest-node sampling, and the
// row-partitioned goroutine update loop are kept; the noise-driven
// capacity field and toroidal wrap are replaced by the FD diffusion
// stencil and Neumann boundaries this spec calls for (see DESIGN.md —
// opensimplex-go is dropped, it has no counterpart in a deterministic
// reaction-diffusion grid).
package nutrient

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/colonysim/vec2"
)

// Params holds the diffusion-reaction constants from spec §4.6/§6.1.
type Params struct {
	D  float32 // diffusion coefficient
	R  float32 // consumption rate
	C0 float32 // initial concentration
}

// Field is a (Gw x Gh) grid with physical spacing (dx, dy) and origin
// (minX, minY). C and scratch are swapped each Step (ping-pong); area is
// the per-tick cell-area accumulation grid, reused across ticks.
type Field struct {
	gw, gh int
	dx, dy float32
	minX   float32
	minY   float32

	c       []float32
	scratch []float32
	area    []float32

	params Params
}

// New allocates a field of the given grid shape and spacing, initialised
// uniformly to params.C0.
func New(gw, gh int, dx, dy, minX, minY float32, params Params) *Field {
	n := gw * gh
	f := &Field{
		gw: gw, gh: gh,
		dx: dx, dy: dy,
		minX: minX, minY: minY,
		c:       make([]float32, n),
		scratch: make([]float32, n),
		area:    make([]float32, n),
		params:  params,
	}
	for i := range f.c {
		f.c[i] = params.C0
	}
	return f
}

// GridSize returns (Gw, Gh).
func (f *Field) GridSize() (int, int) { return f.gw, f.gh }

// nearestNode maps a world position to its nearest grid node, per spec
// §4.6's i = round((x-minX)/dx). ok is false if outside [0,gw)x[0,gh).
func (f *Field) nearestNode(p vec2.Vec2) (i, j int, ok bool) {
	i = roundToInt((p.X - f.minX) / f.dx)
	j = roundToInt((p.Y - f.minY) / f.dy)
	if i < 0 || i >= f.gw || j < 0 || j >= f.gh {
		return 0, 0, false
	}
	return i, j, true
}

func roundToInt(v float32) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return int(v - 0.5)
}

// ResetArea zeroes the area-accumulation grid. Call once per tick before
// AccumulateArea.
func (f *Field) ResetArea() {
	for i := range f.area {
		f.area[i] = 0
	}
}

// AccumulateArea adds a cell's spherocylinder area A_i to the grid node
// nearest its centre, per spec §4.6 step 1. A no-op if the centre falls
// outside the grid (spec §7 GridOutOfBounds).
func (f *Field) AccumulateArea(centre vec2.Vec2, area float32) {
	i, j, ok := f.nearestNode(centre)
	if !ok {
		return
	}
	f.area[j*f.gw+i] += area
}

// ConcentrationAt returns C[i,j], or 0 if out of bounds.
func (f *Field) ConcentrationAt(i, j int) float32 {
	if i < 0 || i >= f.gw || j < 0 || j >= f.gh {
		return 0
	}
	return f.c[j*f.gw+i]
}

// MonodAt samples C/(1+C) at the grid node nearest world position p,
// returning 0 if p falls outside the grid (spec §4.6, §7).
func (f *Field) MonodAt(p vec2.Vec2) float32 {
	i, j, ok := f.nearestNode(p)
	if !ok {
		return 0
	}
	c := f.c[j*f.gw+i]
	return c / (1 + c)
}

// Step advances the field by dt: interior FD diffusion-reaction update
// (spec §4.6 step 2), no-flux boundary mirroring (step 3), and a
// ping-pong swap (step 4). Requires AccumulateArea to have been called
// for every cell already this tick. Row-parallel over GOMAXPROCS
// workers, mirroring the teacher's updateCapacity row partitioning.
func (f *Field) Step(dt float32) {
	if f.gw < 3 || f.gh < 3 {
		// Too small for an interior; nothing to diffuse, still clamp.
		for i := range f.c {
			if f.c[i] < 0 {
				f.c[i] = 0
			}
		}
		return
	}

	invDx2 := 1 / (f.dx * f.dx)
	invDy2 := 1 / (f.dy * f.dy)

	numWorkers := runtime.GOMAXPROCS(0)
	rowsPerWorker := (f.gh - 2 + numWorkers - 1) / numWorkers
	if rowsPerWorker < 1 {
		rowsPerWorker = 1
	}

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		startJ := 1 + w*rowsPerWorker
		endJ := startJ + rowsPerWorker
		if endJ > f.gh-1 {
			endJ = f.gh - 1
		}
		if startJ >= f.gh-1 {
			break
		}

		wg.Add(1)
		go func(jStart, jEnd int) {
			defer wg.Done()
			for j := jStart; j < jEnd; j++ {
				for i := 1; i < f.gw-1; i++ {
					idx := j*f.gw + i
					c := f.c[idx]
					d2x := (f.c[idx+1] - 2*c + f.c[idx-1]) * invDx2
					d2y := (f.c[idx+f.gw] - 2*c + f.c[idx-f.gw]) * invDy2
					consumption := f.params.R * f.area[idx] * c / (1 + c)
					next := c + dt*(f.params.D*(d2x+d2y)-consumption)
					if next < 0 {
						next = 0
					}
					f.scratch[idx] = next
				}
			}
		}(startJ, endJ)
	}
	wg.Wait()

	// No-flux (Neumann) boundaries: mirror the first interior layer.
	for i := 0; i < f.gw; i++ {
		f.scratch[0*f.gw+i] = f.scratch[1*f.gw+i]
		f.scratch[(f.gh-1)*f.gw+i] = f.scratch[(f.gh-2)*f.gw+i]
	}
	for j := 0; j < f.gh; j++ {
		f.scratch[j*f.gw+0] = f.scratch[j*f.gw+1]
		f.scratch[j*f.gw+f.gw-1] = f.scratch[j*f.gw+f.gw-2]
	}

	f.c, f.scratch = f.scratch, f.c
}

// TotalMass returns the sum of C over the whole grid, e.g. for checking
// approximate mass conservation under zero consumption.
func (f *Field) TotalMass() float32 {
	var total float32
	for _, v := range f.c {
		total += v
	}
	return total
}
