// Package population implements the per-cell growth, division, and EPS
// secretion rules (spec §4.5). These are pure functions over small
// value structs rather than ECS components directly, so they can be
// unit tested without a world and staged into thread-safe queues by the
// driver (package colony) the way the teacher stages reproduction events
// in game/simulation.go.
package population

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/colonysim/vec2"
)

// Cell is the minimal per-cell state growth/division/secretion read and
// write. Centre and Orientation mirror components.Geometry; Length
// mirrors components.CellState.
type Cell struct {
	ID          uint64
	Lineage     uint64
	Centre      vec2.Vec2
	Orientation vec2.Vec2
	Length      float32
	Diameter    float32
}

// GrowthParams bundles the constants spec §4.5's growth rule needs.
type GrowthParams struct {
	Phi            float32 // linear growth rate
	DivisionLength float32 // l_c, used to compute A_avg
}

// Area returns a cell's spherocylinder area A_i = pi*(d/2)^2 + 2*(d/2)*(l-d).
func Area(diameter, length float32) float32 {
	r := diameter / 2
	return float32(math.Pi)*r*r + 2*r*(length-diameter)
}

// averageArea returns A_avg = pi*(d/2)^2 + 1.5*(d/2)*l_c.
func averageArea(diameter, divisionLength float32) float32 {
	r := diameter / 2
	return float32(math.Pi)*r*r + 1.5*r*divisionLength
}

// Grow applies one tick of Monod-modulated linear growth to c.Length in
// place, given the local Monod factor m sampled from the nutrient field
// (0 if the cell is outside the grid, per spec §4.5/§7).
func Grow(c *Cell, m float32, p GrowthParams, dt float32) {
	ai := Area(c.Diameter, c.Length)
	aAvg := averageArea(c.Diameter, p.DivisionLength)
	if aAvg <= 0 {
		return
	}
	dl := p.Phi * (ai / aAvg) * m * dt
	if dl > 0 {
		c.Length += dl
	}
}

// ShouldDivide reports whether c has reached the critical division
// length l_c (spec §4.5's Growing -> Dividing transition).
func ShouldDivide(c Cell, divisionLength float32) bool {
	return c.Length >= divisionLength
}

// Divide splits a mother cell into two daughters along its orientation,
// each half the mother's length, offset by +/-(length'/2) from the
// mother's centre, orientations jittered by an independent uniform angle
// in [-8, +8] degrees. Daughter IDs are assigned by the caller-supplied
// nextID (spec §9: a monotonic global counter is an acceptable
// alternative to the source's id+1000/id+2000 scheme); both daughters
// inherit the mother's lineage, or the mother's own ID if this is the
// founding division.
func Divide(mother Cell, nextID func() uint64, r *rand.Rand) (a, b Cell) {
	halfLength := mother.Length / 2
	lineage := mother.Lineage
	if lineage == 0 {
		lineage = mother.ID
	}

	const maxJitterDeg = 8.0
	jitterA := randAngleDeg(r, maxJitterDeg)
	jitterB := randAngleDeg(r, maxJitterDeg)

	offset := mother.Orientation.Scale(halfLength / 2)

	a = Cell{
		ID:          nextID(),
		Lineage:     lineage,
		Centre:      mother.Centre.Sub(offset),
		Orientation: mother.Orientation.Rotated(jitterA),
		Length:      halfLength,
		Diameter:    mother.Diameter,
	}
	b = Cell{
		ID:          nextID(),
		Lineage:     lineage,
		Centre:      mother.Centre.Add(offset),
		Orientation: mother.Orientation.Rotated(jitterB),
		Length:      halfLength,
		Diameter:    mother.Diameter,
	}
	if na, ok := a.Orientation.Normalized(1e-9); ok {
		a.Orientation = na
	}
	if nb, ok := b.Orientation.Normalized(1e-9); ok {
		b.Orientation = nb
	}
	return a, b
}

func randAngleDeg(r *rand.Rand, maxDeg float32) float32 {
	maxRad := maxDeg * float32(math.Pi) / 180
	return (r.Float32()*2 - 1) * maxRad
}

// SecretionParams bundles the density-gating constants spec §4.5 needs.
type SecretionParams struct {
	CellDensityThreshold float32 // theta_c
	EPSDensityThreshold  float32 // theta_e
	SenseRadius          float32 // R_sense
	EPSProductionRate    float32 // k_eps
	EPSDiameter          float32 // d_eps
}

// SecretionEligible reports whether a cell's local densities satisfy
// spec §4.5's gate: rho_c >= theta_c and rho_e < theta_e.
func SecretionEligible(localCellDensity, localEPSDensity float32, p SecretionParams) bool {
	return localCellDensity >= p.CellDensityThreshold && localEPSDensity < p.EPSDensityThreshold
}

// SecretionProbability returns the per-tick Bernoulli success
// probability k_eps/10, as the source computes it (spec §4.5, §9).
// This is dimensionally suspect: it is not scaled by dt, unlike a
// rate-based form such as 1-exp(-k_eps*dt).
func SecretionProbability(p SecretionParams) float32 {
	return p.EPSProductionRate / 10
}

// EPS is the state of a newly created EPS particle.
type EPS struct {
	ID          uint64
	Centre      vec2.Vec2
	Orientation vec2.Vec2
	Diameter    float32
}

// Secrete creates one EPS particle offset from the cell centre by
// d_eps at a uniformly random angle, which also becomes its orientation
// (spec §4.5). Callers are responsible for having already tested
// SecretionEligible and rolled the Bernoulli draw at SecretionProbability.
func Secrete(cellCentre vec2.Vec2, p SecretionParams, nextID func() uint64, r *rand.Rand) EPS {
	angle := r.Float32() * 2 * float32(math.Pi)
	dir := vec2.Vec2{X: cosf(angle), Y: sinf(angle)}
	return EPS{
		ID:          nextID(),
		Centre:      cellCentre.Add(dir.Scale(p.EPSDiameter)),
		Orientation: dir,
		Diameter:    p.EPSDiameter,
	}
}

func cosf(x float32) float32 { return float32(math.Cos(float64(x))) }
func sinf(x float32) float32 { return float32(math.Sin(float64(x))) }
