// Package colony is the simulation driver: it owns the ark ECS world, the
// nutrient field, and the spatial index, and advances all three by one
// tick at a time (spec §4.7). Grounded on the teacher's game.Game
// (game/game.go's World/Map/Filter construction, simulationStep's
// phase ordering) and game/parallel.go's fork-join pattern (snapshot
// read-only state -> partition across GOMAXPROCS workers -> barrier ->
// apply), generalised from predator/prey behaviour/physics to this
// domain's growth/division/secretion/force/integrate phases. Structural
// ECS changes (division, secretion) are staged during the parallel pass
// into per-index outcome slots and applied in a single-threaded merge
// pass afterward, mirroring game/lifecycle.go's cleanupDead two-pass
// collect-then-remove idiom.
package colony

import (
	"math"
	"math/rand"
	"runtime"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/colonysim/components"
	"github.com/pthm-cable/colonysim/config"
	"github.com/pthm-cable/colonysim/contact"
	"github.com/pthm-cable/colonysim/forces"
	"github.com/pthm-cable/colonysim/integrate"
	"github.com/pthm-cable/colonysim/nutrient"
	"github.com/pthm-cable/colonysim/population"
	"github.com/pthm-cable/colonysim/rng"
	"github.com/pthm-cable/colonysim/spatial"
	"github.com/pthm-cable/colonysim/vec2"
)

// NeighborCutoff is the grid bucket size and force-enumeration radius
// (spec §4.1 default: 4 length units). Cells and EPS particles further
// apart than this never interact in a single tick.
const NeighborCutoff = 4.0

// ParticleFrame is a driver-agnostic snapshot of one particle's state
// after a tick, handed to whatever sink the caller chooses (package
// telemetry's CSV sink, in this repository).
type ParticleFrame struct {
	ID          uint64
	Variant     components.Variant
	Position    vec2.Vec2
	Orientation vec2.Vec2
	Diameter    float32
	Length      float32 // 0 for EPS
}

// particleInfo is the combined cell+EPS view the spatial index and
// density lookups operate over, rebuilt once per tick (spec §4.7 step 4).
type particleInfo struct {
	entity   ecs.Entity
	id       uint64
	variant  components.Variant
	pos      vec2.Vec2
	orient   vec2.Vec2
	diameter float32
	length   float32
}

// Colony owns the ark world, its component maps/filters, the nutrient
// field, and the spatial index, and advances them together one tick at
// a time.
type Colony struct {
	params config.Params

	world *ecs.World

	cellMapper *ecs.Map4[components.Geometry, components.Identity, components.CellState, components.Kinematics]
	cellFilter *ecs.Filter4[components.Geometry, components.Identity, components.CellState, components.Kinematics]
	epsMapper  *ecs.Map4[components.Geometry, components.Identity, components.EPSState, components.Kinematics]
	epsFilter  *ecs.Filter4[components.Geometry, components.Identity, components.EPSState, components.Kinematics]

	geomMap      *ecs.Map1[components.Geometry]
	cellStateMap *ecs.Map1[components.CellState]
	kinMap       *ecs.Map1[components.Kinematics]

	field *nutrient.Field
	grid  *spatial.Grid
	rngs  *rng.Pool

	particles []particleInfo
	nextID    uint64
	tick      int

	stats *Stats
	perf  *PerfCollector
}

// New constructs a colony with InitialCount founding cells clustered near
// the grid's centre, seeded deterministically from seed.
func New(params config.Params, seed int64) *Colony {
	world := ecs.NewWorld()

	c := &Colony{
		params: params,
		world:  world,

		cellMapper: ecs.NewMap4[components.Geometry, components.Identity, components.CellState, components.Kinematics](world),
		cellFilter: ecs.NewFilter4[components.Geometry, components.Identity, components.CellState, components.Kinematics](world),
		epsMapper:  ecs.NewMap4[components.Geometry, components.Identity, components.EPSState, components.Kinematics](world),
		epsFilter:  ecs.NewFilter4[components.Geometry, components.Identity, components.EPSState, components.Kinematics](world),

		geomMap:      ecs.NewMap1[components.Geometry](world),
		cellStateMap: ecs.NewMap1[components.CellState](world),
		kinMap:       ecs.NewMap1[components.Kinematics](world),

		field: nutrient.New(params.GridWidth, params.GridHeight, params.GridCellSize, params.GridCellSize, 0, 0, nutrient.Params{
			D: params.DiffusionRate, R: params.NutrientConsumption, C0: params.NutrientConcentration,
		}),
		grid: spatial.NewGrid(NeighborCutoff),
		rngs: rng.NewPool(seed, runtime.GOMAXPROCS(0)),

		stats: newStats(100),
		perf:  newPerfCollector(64),
	}

	c.spawnInitialPopulation()
	c.rebuildIndex()
	return c
}

func (c *Colony) spawnInitialPopulation() {
	r := c.rngs.For(0)
	centerX := float32(c.params.GridWidth) * c.params.GridCellSize / 2
	centerY := float32(c.params.GridHeight) * c.params.GridCellSize / 2

	for i := 0; i < c.params.InitialCount; i++ {
		angle := r.Float32() * 2 * math.Pi
		jitterX := rng.Uniform(r, -c.params.Diameter, c.params.Diameter)
		jitterY := rng.Uniform(r, -c.params.Diameter, c.params.Diameter)

		id := c.nextID
		c.nextID++

		geom := components.Geometry{
			Position:    vec2.Vec2{X: centerX + jitterX, Y: centerY + jitterY},
			Orientation: vec2.Vec2{X: float32(math.Cos(float64(angle))), Y: float32(math.Sin(float64(angle)))},
			Diameter:    c.params.Diameter,
			Variant:     components.VariantCell,
		}
		ident := components.Identity{ID: id, Lineage: id}
		state := components.CellState{Length: c.params.Diameter}
		kin := components.Kinematics{}
		c.cellMapper.NewEntity(&geom, &ident, &state, &kin)
	}
}

// Tick reports the number of ticks advanced so far.
func (c *Colony) Tick() int { return c.tick }

// Step advances the simulation by one tick of length dt and returns a
// snapshot of every particle's resulting state (spec §4.7).
func (c *Colony) Step(dt float32) []ParticleFrame {
	c.perf.startTick()

	c.perf.startPhase("nutrient")
	c.stepNutrient(dt)

	c.perf.startPhase("population")
	divisions, secretions := c.stepPopulation(dt)

	c.perf.startPhase("spatial_rebuild")
	c.rebuildIndex()

	c.perf.startPhase("forces_integrate")
	c.stepForcesAndIntegrate(dt)

	c.perf.startPhase("snapshot")
	frame := c.snapshot()

	c.perf.endTick()

	c.tick++
	cellCount, epsCount := 0, 0
	for _, p := range c.particles {
		if p.variant == components.VariantCell {
			cellCount++
		} else {
			epsCount++
		}
	}
	c.stats.recordTick(cellCount, epsCount, divisions, secretions)
	if c.stats.shouldLog() {
		c.stats.flush(c.tick)
	}
	if c.perf.enabled && c.perf.shouldLog() {
		c.perf.flush(c.tick)
	}

	return frame
}

// EnablePerf turns on per-phase timing logs (spec/cmd -perf flag).
func (c *Colony) EnablePerf(enabled bool) { c.perf.enabled = enabled }

// stepNutrient implements spec §4.6: accumulate each cell's area onto the
// nearest grid node, then advance the diffusion-reaction PDE one step.
func (c *Colony) stepNutrient(dt float32) {
	c.field.ResetArea()
	q := c.cellFilter.Query()
	for q.Next() {
		geom, _, state, _ := q.Get()
		c.field.AccumulateArea(geom.Position, population.Area(geom.Diameter, state.Length))
	}
	c.field.Step(dt)
}

// cellTask is one cell's read-only input to the growth/division/secretion
// phase, snapshotted before any mutation this tick.
type cellTask struct {
	entity ecs.Entity
	cell   population.Cell
	monod  float32
}

// cellOutcome is the computed result of processing one cellTask, applied
// to live components only after the parallel phase completes.
type cellOutcome struct {
	entity    ecs.Entity
	newLength float32
	divide    bool
	daughterA population.Cell
	daughterB population.Cell
	secrete   bool
	eps       population.EPS
}

// stepPopulation implements spec §4.5's growth/division/secretion rule,
// staged in thread-safe per-index slots during a parallel pass (grounded
// on game/parallel.go's snapshot/compute/barrier shape) and merged
// single-threaded afterward (grounded on game/lifecycle.go's
// cleanupDead two-pass collect-then-remove idiom, since ark entity
// creation/removal is not safe to call concurrently).
func (c *Colony) stepPopulation(dt float32) (divisions, secretions int) {
	var tasks []cellTask
	q := c.cellFilter.Query()
	for q.Next() {
		e := q.Entity()
		geom, ident, state, _ := q.Get()
		cell := population.Cell{
			ID: ident.ID, Lineage: ident.Lineage,
			Centre: geom.Position, Orientation: geom.Orientation,
			Length: state.Length, Diameter: geom.Diameter,
		}
		tasks = append(tasks, cellTask{entity: e, cell: cell, monod: c.field.MonodAt(geom.Position)})
	}

	n := len(tasks)
	if n == 0 {
		return 0, 0
	}
	outcomes := make([]cellOutcome, n)

	numWorkers := c.rngs.Len()
	chunk := (n + numWorkers - 1) / numWorkers
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * chunk
		if start >= n {
			break
		}
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(workerID, lo, hi int) {
			defer wg.Done()
			c.processCellRange(tasks[lo:hi], outcomes[lo:hi], c.rngs.For(workerID), dt)
		}(w, start, end)
	}
	wg.Wait()

	for _, out := range outcomes {
		if out.divide {
			divisions++
			c.cellMapper.Remove(out.entity)
			for _, d := range [2]population.Cell{out.daughterA, out.daughterB} {
				d.ID = c.nextID
				c.nextID++
				geom := components.Geometry{Position: d.Centre, Orientation: d.Orientation, Diameter: d.Diameter, Variant: components.VariantCell}
				ident := components.Identity{ID: d.ID, Lineage: d.Lineage}
				state := components.CellState{Length: d.Length}
				kin := components.Kinematics{}
				c.cellMapper.NewEntity(&geom, &ident, &state, &kin)
			}
			continue
		}

		c.cellStateMap.Get(out.entity).Length = out.newLength

		if out.secrete {
			secretions++
			e := out.eps
			e.ID = c.nextID
			c.nextID++
			geom := components.Geometry{Position: e.Centre, Orientation: e.Orientation, Diameter: e.Diameter, Variant: components.VariantEPS}
			ident := components.Identity{ID: e.ID}
			state := components.EPSState{}
			kin := components.Kinematics{}
			c.epsMapper.NewEntity(&geom, &ident, &state, &kin)
		}
	}

	return divisions, secretions
}

// processCellRange applies growth, then division-or-secretion, to each
// task in range, writing results into the matching outcomes slot. IDs for
// any new daughter/EPS particle are left at zero here; the merge pass
// stamps real ones so the monotonic counter stays single-threaded.
func (c *Colony) processCellRange(tasks []cellTask, outcomes []cellOutcome, r *rand.Rand, dt float32) {
	gp := population.GrowthParams{Phi: c.params.GrowthRate, DivisionLength: c.params.DivisionLength}
	sp := population.SecretionParams{
		CellDensityThreshold: c.params.CellDensityThreshold,
		EPSDensityThreshold:  c.params.EPSDensityThreshold,
		SenseRadius:          c.params.LocalSensingRadius,
		EPSProductionRate:    c.params.EPSProduction,
		EPSDiameter:          c.params.EPSDiameter,
	}
	dummyNextID := func() uint64 { return 0 }

	for i, t := range tasks {
		cell := t.cell
		population.Grow(&cell, t.monod, gp, dt)

		out := cellOutcome{entity: t.entity, newLength: cell.Length}
		if population.ShouldDivide(cell, c.params.DivisionLength) {
			a, b := population.Divide(cell, dummyNextID, r)
			out.divide = true
			out.daughterA, out.daughterB = a, b
		} else {
			rhoC, rhoE := c.localDensities(cell.Centre, sp.SenseRadius)
			if population.SecretionEligible(rhoC, rhoE, sp) && rng.Bernoulli(r, population.SecretionProbability(sp)) {
				out.secrete = true
				out.eps = population.Secrete(cell.Centre, sp, dummyNextID, r)
			}
		}
		outcomes[i] = out
	}
}

// localDensities sums local cell/EPS area within senseRadius of pos,
// including the focal particle itself if it falls within radius (spec
// §8 scenario 6: an isolated cell's own area counts toward its rho_c).
// Queries the spatial index as it stood at the end of the previous tick
// (or initial construction): spec §4.7 rebuilds the index once per tick,
// after this phase, so density gating always runs one tick behind the
// population's most recent structural change, the same staleness the
// teacher's behaviour phase accepts against its own once-per-tick
// spatial grid rebuild.
func (c *Colony) localDensities(pos vec2.Vec2, senseRadius float32) (cellDensity, epsDensity float32) {
	r2 := senseRadius * senseRadius
	c.grid.ForEachIndexNear(pos.X, pos.Y, senseRadius, func(j int32) {
		p := c.particles[j]
		if vec2.DistanceSq(pos, p.pos) > r2 {
			return
		}
		if p.variant == components.VariantCell {
			cellDensity += population.Area(p.diameter, p.length)
		} else {
			epsDensity += diskArea(p.diameter)
		}
	})
	return cellDensity, epsDensity
}

func diskArea(diameter float32) float32 {
	r := diameter / 2
	return float32(math.Pi) * r * r
}

// rebuildIndex refreshes the combined cell+EPS snapshot and spatial grid
// from current ECS state (spec §4.7 step 4).
func (c *Colony) rebuildIndex() {
	c.particles = c.particles[:0]

	cq := c.cellFilter.Query()
	for cq.Next() {
		e := cq.Entity()
		geom, ident, state, _ := cq.Get()
		c.particles = append(c.particles, particleInfo{
			entity: e, id: ident.ID, variant: components.VariantCell,
			pos: geom.Position, orient: geom.Orientation, diameter: geom.Diameter, length: state.Length,
		})
	}
	eq := c.epsFilter.Query()
	for eq.Next() {
		e := eq.Entity()
		geom, ident, _, _ := eq.Get()
		c.particles = append(c.particles, particleInfo{
			entity: e, id: ident.ID, variant: components.VariantEPS,
			pos: geom.Position, orient: geom.Orientation, diameter: geom.Diameter, length: 0,
		})
	}

	positions := make([]vec2.Vec2, len(c.particles))
	for i, p := range c.particles {
		positions[i] = p.pos
	}
	c.grid.Rebuild(positions)
}

// stepForcesAndIntegrate implements spec §4.3/§4.4: sum Hertzian repulsion
// over every neighbour within NeighborCutoff, add motility for cells and
// thermal jitter for every particle, then advance position/orientation
// under overdamped dynamics. Each particle index is owned by exactly one
// worker for the whole phase (spec §5: no locks).
func (c *Colony) stepForcesAndIntegrate(dt float32) {
	n := len(c.particles)
	if n == 0 {
		return
	}

	moduli := forces.Moduli{
		CellCell: c.params.EMCellCell,
		EPSEPS:   c.params.EMEPSEPS,
		Mixed:    c.params.EMEPSCell,
		Fallback: c.params.RepulsionForce,
		D0:       c.params.Diameter,
		Epsilon:  1e-9,
	}
	const rCut = NeighborCutoff

	numWorkers := c.rngs.Len()
	chunk := (n + numWorkers - 1) / numWorkers
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * chunk
		if start >= n {
			break
		}
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(workerID, lo, hi int) {
			defer wg.Done()
			c.integrateRange(lo, hi, c.rngs.For(workerID), moduli, rCut, dt)
		}(w, start, end)
	}
	wg.Wait()
}

func (c *Colony) integrateRange(lo, hi int, r *rand.Rand, moduli forces.Moduli, rCut, dt float32) {
	for i := lo; i < hi; i++ {
		pi := c.particles[i]
		shapeI := toShape(pi)

		var totalForce vec2.Vec2
		var totalTorque float32

		c.grid.ForEachNeighborIndex(pi.pos, func(j int32) {
			if int(j) == i {
				return
			}
			pj := c.particles[j]
			if vec2.DistanceSq(pi.pos, pj.pos) > rCut*rCut {
				return
			}
			f, p, _, ok := forces.Repulsion(shapeI, toShape(pj), pi.variant, pj.variant, moduli)
			if !ok {
				return
			}
			totalForce = totalForce.Add(f)
			if pi.variant == components.VariantCell {
				totalTorque += forces.RepulsiveTorque(pi.pos, p, f)
			}
		})

		if pi.variant == components.VariantCell {
			totalForce = totalForce.Add(forces.Motility(pi.orient, c.params.MotilityForce))
		}
		totalForce = totalForce.Add(forces.Random(r))

		var ip integrate.Params
		if pi.variant == components.VariantCell {
			ip = integrate.Params{Eta: c.params.FrictionCell, Length: pi.length, OmegaMax: c.params.Derived.OmegaMax}
		} else {
			ip = integrate.Params{Eta: c.params.FrictionEPS, Length: pi.diameter, OmegaMax: c.params.Derived.OmegaMax}
		}

		v := integrate.LinearVelocity(totalForce, ip)
		omega := integrate.AngularVelocity(totalTorque, ip)

		state := integrate.State{Position: pi.pos, Orientation: pi.orient}
		integrate.Step(&state, v, omega, dt)

		geom := c.geomMap.Get(pi.entity)
		geom.Position = state.Position
		geom.Orientation = state.Orientation

		kin := c.kinMap.Get(pi.entity)
		kin.Velocity = v
		kin.AngularVelocity = omega
	}
}

func toShape(p particleInfo) contact.Shape {
	if p.variant == components.VariantCell {
		return contact.Shape{Kind: contact.Rod, Center: p.pos, Orientation: p.orient, Diameter: p.diameter, Length: p.length}
	}
	return contact.Shape{Kind: contact.Sphere, Center: p.pos, Diameter: p.diameter}
}

// snapshot converts the post-integration particle list into the
// driver-agnostic frame handed to telemetry.
func (c *Colony) snapshot() []ParticleFrame {
	frame := make([]ParticleFrame, len(c.particles))
	for i, p := range c.particles {
		// Positions moved during integration; re-read from live
		// components rather than the pre-integration snapshot.
		geom := c.geomMap.Get(p.entity)
		frame[i] = ParticleFrame{
			ID: p.id, Variant: p.variant,
			Position: geom.Position, Orientation: geom.Orientation,
			Diameter: p.diameter, Length: p.length,
		}
	}
	return frame
}
